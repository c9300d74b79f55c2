// Package tabular normalizes spreadsheet samples into delimited text.
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var spreadsheetExts = map[string]bool{
	".xlsx": true,
	".xlsm": true,
}

// IsSpreadsheet reports whether name carries a spreadsheet extension.
// Everything else passes through the pipeline without normalization.
func IsSpreadsheet(name string) bool {
	return spreadsheetExts[strings.ToLower(filepath.Ext(name))]
}

// Normalize converts the first sheet (in sheet order) of the workbook at path
// into a CSV file written beside it, with the spreadsheet extension swapped
// for .csv, and returns the new path. csv.Writer applies RFC 4180 quoting, so
// cells containing the delimiter, quotes, or line breaks survive the round
// trip. The workbook itself is never modified.
func Normalize(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open workbook %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return "", fmt.Errorf("workbook %s has no sheets", filepath.Base(path))
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".csv"
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", filepath.Base(outPath), err)
	}

	w := csv.NewWriter(out)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			_ = out.Close()
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("flush csv: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", filepath.Base(outPath), err)
	}
	return outPath, nil
}
