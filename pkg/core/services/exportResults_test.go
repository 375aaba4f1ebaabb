package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/model"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/optimizer"
)

func exportFixture() *RunOptimizationResult {
	return &RunOptimizationResult{
		RunID:     "run-1",
		Status:    optimizer.StatusOptimal,
		Objective: 8.28,
		Allocations: []model.Allocation{
			{InstitutionID: "100", InstitutionName: "Hospital Central", Program: "Enfermería", StudentType: "Pregrado", PracticeType: "Rotación pregrado", Semester: "2025-1", Assigned: 10, UnitScore: 0.78},
			{InstitutionID: "200", InstitutionName: "Clinica Norte", Program: "Enfermería", StudentType: "Pregrado", PracticeType: "Rotación pregrado", Semester: "2025-1", Assigned: 2, UnitScore: 0.24},
		},
		Summaries: []model.GroupSummary{
			{Program: "Enfermería", StudentType: "Pregrado", PracticeType: "Rotación pregrado", Demand: 12, Assigned: 12, Gap: 0},
		},
		Utilization: []model.Utilization{
			{InstitutionID: "100", InstitutionName: "Hospital Central", Assigned: 10, Capacity: 10, UtilizationPct: 100},
			{InstitutionID: "200", InstitutionName: "Clinica Norte", Assigned: 2, Capacity: 5, UtilizationPct: 40},
		},
	}
}

func TestExportResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")

	require.NoError(t, ExportResults(exportFixture(), path, zap.NewNop()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{SheetAllocations, SheetSummary, SheetUtilization}, f.GetSheetList())

	got, err := f.GetCellValue(SheetAllocations, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Hospital Central", got)

	got, err = f.GetCellValue(SheetAllocations, "G2")
	require.NoError(t, err)
	assert.Equal(t, "10", got)

	got, err = f.GetCellValue(SheetSummary, "D2")
	require.NoError(t, err)
	assert.Equal(t, "12", got)

	got, err = f.GetCellValue(SheetUtilization, "C3")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestExportResults_EmptyRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	result := &RunOptimizationResult{RunID: "run-2", Status: optimizer.StatusOptimal}

	require.NoError(t, ExportResults(result, path, zap.NewNop()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue(SheetAllocations, "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID_Institucion", got)
}
