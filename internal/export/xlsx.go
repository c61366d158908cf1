package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/csv-sales-watcher/internal/report"
)

const (
	defaultSheet  = "Sheet1"
	maxSheetName  = 31
	invalidSheets = `[]:*?/\`
)

// WriteXLSX writes one worksheet per table. Numeric values are stored as
// numbers so spreadsheets can aggregate them.
func WriteXLSX(w io.Writer, tables ...report.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		name := sheetName(t, i)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, t); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t report.Table) error {
	for col, header := range t.Columns {
		if err := setCell(f, sheet, col+1, 1, header); err != nil {
			return err
		}
	}

	for i, r := range t.Rows {
		row := i + 2
		if err := setCell(f, sheet, 1, row, r.Day.String()); err != nil {
			return err
		}
		for j, v := range r.Values {
			var value any = v
			if t.Numeric() {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					value = n
				}
			}
			if err := setCell(f, sheet, j+2, row, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func sheetName(t report.Table, index int) string {
	name := string(t.Kind)
	if name == "" {
		name = fmt.Sprintf("Report %d", index+1)
	}
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidSheets, r) {
			return '_'
		}
		return r
	}, name)
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}
