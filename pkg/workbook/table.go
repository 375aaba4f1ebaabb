package workbook

import (
	"errors"
	"strings"
)

// Logical sheet names of the input template.
const (
	SheetOffer    = "01_Oferta"
	SheetCapacity = "02_Oferta_x_Programa"
	SheetQuality  = "03_Calidad"
	SheetCosts    = "04_Costo_del_Sitio"
	SheetWeights  = "05_Ponderaciones"
	SheetDemand   = "Demanda Pregrado/Posgrado"
)

// WeightsHeaderRow is the zero-based row index of the header row in the
// weight catalog sheet: the template carries a 4-row preamble above it.
const WeightsHeaderRow = 4

// ErrSheetNotFound indicates the requested sheet does not exist in the
// source. The demand sheet is the only one where the caller tolerates it.
var ErrSheetNotFound = errors.New("sheet not found")

// Table is a sheet read into memory: a header row plus data rows of cell
// text. Rows are padded to the header width so column lookups never go out
// of range.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Source provides the logical sheets of one input workbook, regardless of
// whether it is a local XLSX file or a remote spreadsheet.
type Source interface {
	// ReadTable reads the named sheet, treating the row at headerRow
	// (zero-based) as the header and everything below it as data.
	// Returns ErrSheetNotFound when the sheet does not exist.
	ReadTable(name string, headerRow int) (*Table, error)
}

// NewTable builds a Table from raw rows, interpreting raw[headerRow] as the
// header. Header cells are trimmed; data rows are padded to the header width.
func NewTable(name string, raw [][]string, headerRow int) *Table {
	t := &Table{Name: name}
	if headerRow >= len(raw) {
		return t
	}

	for _, cell := range raw[headerRow] {
		t.Header = append(t.Header, strings.TrimSpace(cell))
	}

	for _, row := range raw[headerRow+1:] {
		padded := make([]string, len(t.Header))
		for i := range padded {
			if i < len(row) {
				padded[i] = strings.TrimSpace(row[i])
			}
		}
		t.Rows = append(t.Rows, padded)
	}

	return t
}

// HasColumn reports whether the table header contains the exact column name.
func (t *Table) HasColumn(name string) bool {
	return t.columnIndex(name) >= 0
}

// Cell returns the trimmed cell text at the given data row for the named
// column, or "" when the column is absent.
func (t *Table) Cell(row int, column string) string {
	idx := t.columnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][idx]
}

// MissingColumns returns the subset of required column names absent from the
// header, preserving order.
func (t *Table) MissingColumns(required ...string) []string {
	var missing []string
	for _, col := range required {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

func (t *Table) columnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}
