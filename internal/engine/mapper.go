package engine

import (
	"math"

	"github.com/piwi3910/backpack/internal/model"
)

// Rect is an axis-aligned rectangle in surface coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside the rectangle, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Mapper converts surface coordinates into grid cells and back. The grid's
// top-left cell starts at (OriginX, OriginY); cells are CellSize wide and
// separated by Gap.
type Mapper struct {
	Rows, Cols       int
	CellSize, Gap    float64
	OriginX, OriginY float64
}

// NewMapper creates a mapper for the given grid geometry anchored at the
// surface origin (x, y).
func NewMapper(cfg model.GridConfig, x, y float64) *Mapper {
	return &Mapper{
		Rows:     cfg.Rows,
		Cols:     cfg.Cols,
		CellSize: cfg.CellSize,
		Gap:      cfg.Gap,
		OriginX:  x,
		OriginY:  y,
	}
}

func (m *Mapper) pitch() float64 {
	return m.CellSize + m.Gap
}

// ToCell returns the cell nearest to (x, y), clamped into the grid. A
// pointer outside the grid still maps to a valid edge cell; use IsOverGrid to
// tell the two apart. ok is false only for non-finite input.
func (m *Mapper) ToCell(x, y float64) (cell model.Cell, ok bool) {
	if !finite(x) || !finite(y) {
		return model.Cell{}, false
	}
	row, col := m.CellCoords(x, y)
	return model.Cell{Row: int(row), Col: int(col)}, true
}

// CellCoords is ToCell before the conversion to int. Clamping happens in
// float64, so far-off points land on the nearest edge; NaN passes through.
func (m *Mapper) CellCoords(x, y float64) (row, col float64) {
	col = math.Floor((x - m.OriginX) / m.pitch())
	row = math.Floor((y - m.OriginY) / m.pitch())
	return clamp(row, float64(m.Rows-1)), clamp(col, float64(m.Cols-1))
}

// IsOverGrid reports whether (x, y) lies on the grid's visual rectangle.
func (m *Mapper) IsOverGrid(x, y float64) bool {
	if !finite(x) || !finite(y) {
		return false
	}
	return m.Bounds().Contains(x, y)
}

// Bounds returns the visual rectangle covered by all cells.
func (m *Mapper) Bounds() Rect {
	return Rect{
		X: m.OriginX,
		Y: m.OriginY,
		W: m.span(m.Cols),
		H: m.span(m.Rows),
	}
}

// CellRect returns the rectangle drawn for a single cell.
func (m *Mapper) CellRect(cell model.Cell) Rect {
	return Rect{
		X: m.OriginX + float64(cell.Col)*m.pitch(),
		Y: m.OriginY + float64(cell.Row)*m.pitch(),
		W: m.CellSize,
		H: m.CellSize,
	}
}

// FootprintRect returns the rectangle an item occupies at its anchor,
// spanning the gaps between its cells.
func (m *Mapper) FootprintRect(item model.Item) Rect {
	r := m.CellRect(item.Anchor)
	r.W = m.span(item.Width)
	r.H = m.span(item.Height)
	return r
}

// ItemSize returns the pixel size of a w x h footprint.
func (m *Mapper) ItemSize(w, h int) (float64, float64) {
	return m.span(w), m.span(h)
}

func (m *Mapper) span(n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n)*m.CellSize + float64(n-1)*m.Gap
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, hi float64) float64 {
	return math.Max(0, math.Min(hi, v))
}
