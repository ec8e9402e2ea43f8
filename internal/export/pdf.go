// Package export writes backpack layouts to PDF sheets, QR item labels and
// Excel reports.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/backpack/internal/model"
)

// itemColor represents an RGB color for a placed item.
type itemColor struct {
	R, G, B int
}

// itemColors mirrors the color scheme used in the UI backpack widget.
var itemColors = []itemColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 30.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	cellGapRatio = 0.04 // gap between drawn cells relative to cell size
)

// ExportPDF renders the layout on a single page: the grid with every item
// drawn at its anchor, a statistics line and a legend.
func ExportPDF(path string, layout model.Layout) error {
	if layout.Rows <= 0 || layout.Cols <= 0 {
		return fmt.Errorf("layout has no grid")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()
	renderLayoutPage(pdf, layout)
	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws the grid, its items and the legend on the current page.
func renderLayoutPage(pdf *fpdf.Fpdf, layout model.Layout) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Backpack %d x %d", layout.Rows, layout.Cols)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Items: %d | Used cells: %d | Free cells: %d | Fill: %.1f%%",
		len(layout.Items), layout.UsedCells(), layout.TotalCells()-layout.UsedCells(), layout.FillPercent())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	// Cell size that fits the grid, gaps included.
	cell := math.Min(
		drawWidth/(float64(layout.Cols)*(1+cellGapRatio)),
		drawHeight/(float64(layout.Rows)*(1+cellGapRatio)),
	)
	gap := cell * cellGapRatio
	pitch := cell + gap
	gridW := float64(layout.Cols)*pitch - gap
	gridH := float64(layout.Rows)*pitch - gap
	offsetX := marginLeft + (drawWidth-gridW)/2
	offsetY := drawAreaTop

	// Empty cells
	pdf.SetFillColor(238, 238, 238)
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.2)
	for r := 0; r < layout.Rows; r++ {
		for c := 0; c < layout.Cols; c++ {
			pdf.Rect(offsetX+float64(c)*pitch, offsetY+float64(r)*pitch, cell, cell, "FD")
		}
	}

	for i, it := range layout.Items {
		col := itemColors[i%len(itemColors)]
		px := offsetX + float64(it.Anchor.Col)*pitch
		py := offsetY + float64(it.Anchor.Row)*pitch
		pw := float64(it.Width)*pitch - gap
		ph := float64(it.Height)*pitch - gap

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			name := it.Name
			dims := fmt.Sprintf("%dx%d", it.Width, it.Height)
			if it.Rotation != model.Rotation0 {
				dims += fmt.Sprintf(" %d\xb0", int(it.Rotation))
			}
			nameW := pdf.GetStringWidth(name)
			dimsW := pdf.GetStringWidth(dims)

			if nameW < pw-2 {
				pdf.SetXY(px+(pw-nameW)/2, py+ph/2-4)
				pdf.CellFormat(nameW, 4, name, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawGridAnnotations(pdf, layout, offsetX, offsetY, pitch, cell)
	drawItemsLegend(pdf, layout, offsetY+gridH+8)

	pdf.SetFont("Helvetica", "I", 7)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by Backpack - Spatial Inventory Grid", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawGridAnnotations writes column numbers above and row numbers left of the grid.
func drawGridAnnotations(pdf *fpdf.Fpdf, layout model.Layout, offsetX, offsetY, pitch, cell float64) {
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	for c := 0; c < layout.Cols; c++ {
		pdf.SetXY(offsetX+float64(c)*pitch, offsetY-4)
		pdf.CellFormat(cell, 3, fmt.Sprintf("%d", c), "", 0, "C", false, 0, "")
	}
	for r := 0; r < layout.Rows; r++ {
		pdf.SetXY(offsetX-6, offsetY+float64(r)*pitch+cell/2-1.5)
		pdf.CellFormat(5, 3, fmt.Sprintf("%d", r), "", 0, "R", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
}

// drawItemsLegend renders a compact legend of placed items below the grid.
func drawItemsLegend(pdf *fpdf.Fpdf, layout model.Layout, startY float64) {
	if len(layout.Items) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Items placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, it := range layout.Items {
		col := itemColors[i%len(itemColors)]
		label := fmt.Sprintf("%s (%dx%d @ %d,%d)", it.Name, it.Width, it.Height, it.Anchor.Row, it.Anchor.Col)
		if it.Rotation != model.Rotation0 {
			label += " R"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
