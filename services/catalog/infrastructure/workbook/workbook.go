// Package workbook reads source spreadsheets for the catalog importer.
package workbook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain"
)

// Workbook is the read-only view of a spreadsheet the importer needs.
type Workbook interface {
	// Sheets lists sheet names in workbook order.
	Sheets() []string
	// Rows returns every row of sheet, header first. Trailing empty cells may
	// be absent, so rows can be shorter than the header.
	Rows(sheet string) ([][]string, error)
}

// ExcelWorkbook is a Workbook backed by an .xlsx file.
type ExcelWorkbook struct {
	path string
	file *excelize.File
}

// Open opens the workbook at path. A missing file wraps
// domain.ErrWorkbookNotFound; anything else that stops the file from being
// parsed wraps domain.ErrWorkbookUnreadable.
func Open(path string) (*ExcelWorkbook, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrWorkbookNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrWorkbookUnreadable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrWorkbookUnreadable, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrWorkbookUnreadable, err)
	}
	return &ExcelWorkbook{path: path, file: f}, nil
}

// Path returns the file the workbook was opened from.
func (w *ExcelWorkbook) Path() string {
	return w.path
}

func (w *ExcelWorkbook) Sheets() []string {
	return w.file.GetSheetList()
}

func (w *ExcelWorkbook) Rows(sheet string) ([][]string, error) {
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %s: %w", domain.ErrWorkbookUnreadable, sheet, err)
	}
	return rows, nil
}

// Close releases the underlying file.
func (w *ExcelWorkbook) Close() error {
	return w.file.Close()
}
