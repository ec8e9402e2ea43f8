package export

import (
	"fmt"

	"github.com/piwi3910/backpack/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	itemsSheet = "Items"
	gridSheet  = "Grid"
)

// ExportXLSX writes an Excel workbook with two sheets: an item list and a
// cell-by-cell occupancy map colored like the PDF.
func ExportXLSX(path string, layout model.Layout) error {
	if layout.Rows <= 0 || layout.Cols <= 0 {
		return fmt.Errorf("layout has no grid")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), itemsSheet); err != nil {
		return err
	}
	if err := writeItemsSheet(f, layout); err != nil {
		return fmt.Errorf("failed to write items sheet: %w", err)
	}

	if _, err := f.NewSheet(gridSheet); err != nil {
		return err
	}
	if err := writeGridSheet(f, layout); err != nil {
		return fmt.Errorf("failed to write grid sheet: %w", err)
	}

	return f.SaveAs(path)
}

func writeItemsSheet(f *excelize.File, layout model.Layout) error {
	header := []interface{}{"ID", "Name", "Template", "Width", "Height", "Row", "Col", "Rotation"}
	if err := f.SetSheetRow(itemsSheet, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(itemsSheet, "A1", "H1", bold); err != nil {
		return err
	}

	for i, it := range layout.Items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{it.ID, it.Name, it.TemplateID, it.Width, it.Height, it.Anchor.Row, it.Anchor.Col, int(it.Rotation)}
		if err := f.SetSheetRow(itemsSheet, cell, &row); err != nil {
			return err
		}
	}

	summaryRow := len(layout.Items) + 3
	summary := [][]interface{}{
		{"Used cells", layout.UsedCells()},
		{"Total cells", layout.TotalCells()},
		{"Fill %", fmt.Sprintf("%.1f", layout.FillPercent())},
	}
	for i, s := range summary {
		cell, err := excelize.CoordinatesToCellName(1, summaryRow+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(itemsSheet, cell, &s); err != nil {
			return err
		}
	}
	return f.SetColWidth(itemsSheet, "A", "C", 14)
}

func writeGridSheet(f *excelize.File, layout model.Layout) error {
	styles := make(map[string]int, len(layout.Items))
	names := make(map[string]string, len(layout.Items))
	for i, it := range layout.Items {
		c := itemColors[i%len(itemColors)]
		style, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)}},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		})
		if err != nil {
			return err
		}
		styles[it.ID] = style
		names[it.ID] = it.Name
	}

	for r, row := range layout.Occupancy() {
		for c, id := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if id == "" {
				continue
			}
			if err := f.SetCellValue(gridSheet, cell, names[id]); err != nil {
				return err
			}
			if err := f.SetCellStyle(gridSheet, cell, cell, styles[id]); err != nil {
				return err
			}
		}
	}

	last, err := excelize.ColumnNumberToName(layout.Cols)
	if err != nil {
		return err
	}
	return f.SetColWidth(gridSheet, "A", last, 12)
}
