package workbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable_TrimsAndPads(t *testing.T) {
	raw := [][]string{
		{" ID_Institucion ", "Institucion", "Cupo_Estimado_Semestral"},
		{"123", " Hospital Central "},
		{"456", "Clinica Norte", "15", "extra"},
	}

	table := NewTable("02_Oferta_x_Programa", raw, 0)

	require.Equal(t, []string{"ID_Institucion", "Institucion", "Cupo_Estimado_Semestral"}, table.Header)
	require.Len(t, table.Rows, 2)

	// Short rows are padded to the header width, long rows are cut
	assert.Equal(t, "Hospital Central", table.Cell(0, "Institucion"))
	assert.Equal(t, "", table.Cell(0, "Cupo_Estimado_Semestral"))
	assert.Equal(t, "15", table.Cell(1, "Cupo_Estimado_Semestral"))
}

func TestNewTable_HeaderRowPreamble(t *testing.T) {
	raw := [][]string{
		{"Catalogo de ponderaciones"},
		{},
		{"Version", "3"},
		{},
		{"Set_ID", "Criterio_Codigo", "Peso (0-1)"},
		{"S1", "Areas_Bienestar", "0,25"},
	}

	table := NewTable("05_Ponderaciones", raw, 4)

	require.Equal(t, []string{"Set_ID", "Criterio_Codigo", "Peso (0-1)"}, table.Header)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "0,25", table.Cell(0, "Peso (0-1)"))
}

func TestNewTable_HeaderRowBeyondData(t *testing.T) {
	table := NewTable("05_Ponderaciones", [][]string{{"only row"}}, 4)

	assert.Empty(t, table.Header)
	assert.Empty(t, table.Rows)
}

func TestTable_MissingColumns(t *testing.T) {
	table := NewTable("01_Oferta", [][]string{
		{"ID_Institucion", "Institucion"},
	}, 0)

	assert.Nil(t, table.MissingColumns("ID_Institucion"))
	assert.Equal(t, []string{"Cupo_Estimado_Semestral", "Semestre (AAAA-S)"},
		table.MissingColumns("ID_Institucion", "Cupo_Estimado_Semestral", "Semestre (AAAA-S)"))
}

func TestTable_CellUnknownColumn(t *testing.T) {
	table := NewTable("01_Oferta", [][]string{
		{"ID_Institucion"},
		{"123"},
	}, 0)

	assert.Equal(t, "", table.Cell(0, "Nope"))
	assert.Equal(t, "", table.Cell(5, "ID_Institucion"))
}
