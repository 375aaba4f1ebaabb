package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Result workbook sheet names.
const (
	SheetAllocations = "Asignaciones"
	SheetSummary     = "Resumen"
	SheetUtilization = "Utilización"
)

const headerFillColor = "1F4E78"

// ExportResults writes the run results as a styled workbook at path. Any
// existing file at path is overwritten.
func ExportResults(result *RunOptimizationResult, path string, logger *zap.Logger) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, cellStyle, err := resultStyles(f)
	if err != nil {
		return fmt.Errorf("failed to build workbook styles: %w", err)
	}
	scoreStyle, err := numberStyle(f, "0.0000")
	if err != nil {
		return fmt.Errorf("failed to build workbook styles: %w", err)
	}
	pctStyle, err := numberStyle(f, "0.00\"%\"")
	if err != nil {
		return fmt.Errorf("failed to build workbook styles: %w", err)
	}

	if err := writeAllocationsSheet(f, result, headerStyle, cellStyle, scoreStyle); err != nil {
		return err
	}
	if err := writeSummarySheet(f, result, headerStyle, cellStyle); err != nil {
		return err
	}
	if err := writeUtilizationSheet(f, result, headerStyle, cellStyle, pctStyle); err != nil {
		return err
	}

	// The default sheet is replaced by the allocation sheet.
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(SheetAllocations); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save results workbook: %w", err)
	}

	logger.Info("Results exported",
		zap.String("path", path),
		zap.String("run_id", result.RunID),
		zap.Int("allocation_rows", len(result.Allocations)))
	return nil
}

func writeAllocationsSheet(f *excelize.File, result *RunOptimizationResult, headerStyle, cellStyle, scoreStyle int) error {
	header := []interface{}{
		"ID_Institucion", "Institucion", "Programa", "Tipo_Estudiante",
		"Tipo_Practica", "Semestre", "Estudiantes_Asignados", "Puntaje_Unitario",
	}
	widths := []float64{16, 36, 24, 18, 24, 12, 20, 16}

	if err := newResultSheet(f, SheetAllocations, header, widths, headerStyle); err != nil {
		return err
	}
	for i, a := range result.Allocations {
		row := []interface{}{
			a.InstitutionID, a.InstitutionName, a.Program, a.StudentType,
			a.PracticeType, a.Semester, a.Assigned, a.UnitScore,
		}
		if err := writeRow(f, SheetAllocations, i+2, row, cellStyle); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(len(row), i+2)
		if err := f.SetCellStyle(SheetAllocations, cell, cell, scoreStyle); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, result *RunOptimizationResult, headerStyle, cellStyle int) error {
	header := []interface{}{
		"Programa", "Tipo_Estudiante", "Tipo_Practica", "Demanda", "Asignados", "Brecha",
	}
	widths := []float64{24, 18, 24, 12, 12, 12}

	if err := newResultSheet(f, SheetSummary, header, widths, headerStyle); err != nil {
		return err
	}
	for i, s := range result.Summaries {
		row := []interface{}{s.Program, s.StudentType, s.PracticeType, s.Demand, s.Assigned, s.Gap}
		if err := writeRow(f, SheetSummary, i+2, row, cellStyle); err != nil {
			return err
		}
	}
	return nil
}

func writeUtilizationSheet(f *excelize.File, result *RunOptimizationResult, headerStyle, cellStyle, pctStyle int) error {
	header := []interface{}{
		"ID_Institucion", "Institucion", "Asignados", "Cupo_Total", "Utilizacion",
	}
	widths := []float64{16, 36, 12, 12, 14}

	if err := newResultSheet(f, SheetUtilization, header, widths, headerStyle); err != nil {
		return err
	}
	for i, u := range result.Utilization {
		row := []interface{}{u.InstitutionID, u.InstitutionName, u.Assigned, u.Capacity, u.UtilizationPct}
		if err := writeRow(f, SheetUtilization, i+2, row, cellStyle); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(len(row), i+2)
		if err := f.SetCellStyle(SheetUtilization, cell, cell, pctStyle); err != nil {
			return err
		}
	}
	return nil
}

// newResultSheet creates a sheet with a styled header row, column widths and
// frozen panes below the header.
func newResultSheet(f *excelize.File, name string, header []interface{}, widths []float64, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(name, col, col, w); err != nil {
			return err
		}
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
		return err
	}
	return f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeRow(f *excelize.File, sheet string, rowNum int, row []interface{}, cellStyle int) error {
	start, _ := excelize.CoordinatesToCellName(1, rowNum)
	if err := f.SetSheetRow(sheet, start, &row); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(row), rowNum)
	return f.SetCellStyle(sheet, start, last, cellStyle)
}

func resultStyles(f *excelize.File) (headerStyle, cellStyle int, err error) {
	borders := []excelize.Border{
		{Type: "left", Color: "D9D9D9", Style: 1},
		{Type: "right", Color: "D9D9D9", Style: 1},
		{Type: "top", Color: "D9D9D9", Style: 1},
		{Type: "bottom", Color: "D9D9D9", Style: 1},
	}
	headerStyle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: borders,
	})
	if err != nil {
		return 0, 0, err
	}
	cellStyle, err = f.NewStyle(&excelize.Style{Border: borders})
	if err != nil {
		return 0, 0, err
	}
	return headerStyle, cellStyle, nil
}

func numberStyle(f *excelize.File, format string) (int, error) {
	return f.NewStyle(&excelize.Style{
		CustomNumFmt: &format,
		Border: []excelize.Border{
			{Type: "left", Color: "D9D9D9", Style: 1},
			{Type: "right", Color: "D9D9D9", Style: 1},
			{Type: "top", Color: "D9D9D9", Style: 1},
			{Type: "bottom", Color: "D9D9D9", Style: 1},
		},
	})
}
