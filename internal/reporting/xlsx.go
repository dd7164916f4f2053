package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"weekly-sales-report/internal/domain"
)

// Workbook layout.
const (
	// TableSpacing is the row distance between consecutive table starts (1, 31, 61, ...).
	TableSpacing = 30
	tableStyle   = "TableStyleMedium9"
)

var columnWidths = map[string]float64{"A": 80, "B": 30, "C": 20}

// TableStartRow returns the 1-based sheet row of the i-th table header.
func TableStartRow(i int) int {
	return 1 + i*TableSpacing
}

// WriteWorkbook writes tables to a single sheet at fixed start rows, each as a
// styled Excel table named after the table, with per-cell number formats.
func WriteWorkbook(path, sheet string, tables []domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	for col, width := range columnWidths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("set width of column %s: %w", col, err)
		}
	}

	styles := make(map[string]int)
	styleFor := func(numFmt string) (int, error) {
		if id, ok := styles[numFmt]; ok {
			return id, nil
		}
		code := numFmt
		id, err := f.NewStyle(&excelize.Style{CustomNumFmt: &code})
		if err != nil {
			return 0, err
		}
		styles[numFmt] = id
		return id, nil
	}

	for i := range tables {
		t := &tables[i]
		start := TableStartRow(i)

		for c, name := range t.Columns {
			cell, err := excelize.CoordinatesToCellName(c+1, start)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, name); err != nil {
				return fmt.Errorf("write %s header: %w", t.Name, err)
			}
		}

		for r, row := range t.Rows {
			for c, v := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, start+1+r)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return fmt.Errorf("write %s cell %s: %w", t.Name, cell, err)
				}
				numFmt := NumberFormat(t, r, c)
				if numFmt == "" {
					continue
				}
				id, err := styleFor(numFmt)
				if err != nil {
					return fmt.Errorf("create style %q: %w", numFmt, err)
				}
				if err := f.SetCellStyle(sheet, cell, cell, id); err != nil {
					return fmt.Errorf("style %s cell %s: %w", t.Name, cell, err)
				}
			}
		}

		// Empty tables are written as a bare header
		if len(t.Rows) == 0 || len(t.Columns) == 0 {
			continue
		}
		endCell, err := excelize.CoordinatesToCellName(len(t.Columns), start+len(t.Rows))
		if err != nil {
			return err
		}
		stripes := true
		if err := f.AddTable(sheet, &excelize.Table{
			Range:          fmt.Sprintf("A%d:%s", start, endCell),
			Name:           t.Name,
			StyleName:      tableStyle,
			ShowRowStripes: &stripes,
		}); err != nil {
			return fmt.Errorf("add table %s: %w", t.Name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
