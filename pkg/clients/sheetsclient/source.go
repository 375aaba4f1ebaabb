package sheetsclient

import (
	"fmt"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/workbook"
)

// WorkbookSource reads input tables from a Google Sheets spreadsheet. It
// implements workbook.Source, so runs behave the same whether the workbook
// comes from a local file or a shared spreadsheet.
type WorkbookSource struct {
	client        *Client
	spreadsheetID string
	titles        map[string]bool
}

// NewWorkbookSource builds a source over one spreadsheet. The sheet list is
// fetched once up front so that a missing optional sheet can be told apart
// from a transport failure.
func NewWorkbookSource(client *Client, spreadsheetID string) (*WorkbookSource, error) {
	titles, err := client.SheetTitles(spreadsheetID)
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(titles))
	for _, t := range titles {
		set[t] = true
	}

	return &WorkbookSource{
		client:        client,
		spreadsheetID: spreadsheetID,
		titles:        set,
	}, nil
}

// ReadTable fetches one sheet and shapes it as a table, skipping headerRow
// preamble rows above the header.
func (s *WorkbookSource) ReadTable(name string, headerRow int) (*workbook.Table, error) {
	if !s.titles[name] {
		return nil, fmt.Errorf("sheet %s: %w", name, workbook.ErrSheetNotFound)
	}

	values, err := s.client.GetValues(s.spreadsheetID, fmt.Sprintf("'%s'", name))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}

	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprintf("%v", cell)
		}
		rows[i] = cells
	}

	return workbook.NewTable(name, rows, headerRow), nil
}
