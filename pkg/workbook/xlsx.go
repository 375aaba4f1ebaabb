package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads the logical sheets from a local .xlsx file.
type XLSXSource struct {
	file *excelize.File
}

// OpenXLSX opens the workbook at path.
func OpenXLSX(path string) (*XLSXSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return &XLSXSource{file: f}, nil
}

// ReadTable implements Source.
func (s *XLSXSource) ReadTable(name string, headerRow int) (*Table, error) {
	// GetSheetIndex rejects names containing "/", so a plain list
	// comparison is the only lookup that works for every sheet.
	if !s.hasSheet(name) {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}

	rows, err := s.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}

	return NewTable(name, rows, headerRow), nil
}

func (s *XLSXSource) hasSheet(name string) bool {
	for _, title := range s.file.GetSheetList() {
		if title == name {
			return true
		}
	}
	return false
}

// Close releases the underlying file handle.
func (s *XLSXSource) Close() error {
	return s.file.Close()
}
