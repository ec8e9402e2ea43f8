package tui

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - titles
	colorGreen  = lipgloss.Color("35")  // Green - valid drop
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - invalid drop
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
	colorCell   = lipgloss.Color("237") // Empty cell
)

// Item colors, picked by the item's template position in the palette.
var itemColors = []lipgloss.Color{
	lipgloss.Color("71"),  // green
	lipgloss.Color("33"),  // blue
	lipgloss.Color("208"), // orange
	lipgloss.Color("97"),  // purple
	lipgloss.Color("38"),  // cyan
	lipgloss.Color("167"), // red
	lipgloss.Color("185"), // yellow
	lipgloss.Color("94"),  // brown
}

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// paint indexes the styles used on the canvas.
type paint int

const (
	paintNone paint = iota
	paintCell
	paintValid
	paintInvalid
	paintControl
	paintDimmed
	paintItem // first of len(itemColors) item paints
)

var paints = buildPaints()

func buildPaints() []lipgloss.Style {
	p := []lipgloss.Style{
		paintNone:    lipgloss.NewStyle(),
		paintCell:    lipgloss.NewStyle().Background(colorCell),
		paintValid:   lipgloss.NewStyle().Background(colorGreen),
		paintInvalid: lipgloss.NewStyle().Background(colorRed),
		paintControl: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(colorWhite),
		paintDimmed:  lipgloss.NewStyle().Foreground(colorDim),
	}
	for _, c := range itemColors {
		p = append(p, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(c))
	}
	for _, c := range itemColors {
		p = append(p, lipgloss.NewStyle().Foreground(c))
	}
	return p
}

// itemPaint fills an item body in the i-th item color.
func itemPaint(i int) paint {
	return paintItem + paint(i%len(itemColors))
}

// swatchPaint writes palette text in the i-th item color.
func swatchPaint(i int) paint {
	return paintItem + paint(len(itemColors)+i%len(itemColors))
}
