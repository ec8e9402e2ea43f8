package model

import "github.com/google/uuid"

// Cell is a grid coordinate, zero-indexed from the top-left corner.
type Cell struct {
	Row int `json:"row" toml:"row" yaml:"row"`
	Col int `json:"col" toml:"col" yaml:"col"`
}

// Rotation is the presentation angle of an item in degrees.
// Only 0, 90, 180 and 270 are meaningful.
type Rotation int

const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

// Next returns the rotation one quarter turn clockwise.
func (r Rotation) Next() Rotation {
	return Rotation((int(r.Normalize()) + 90) % 360)
}

// Normalize folds any multiple of 90 into [0, 360).
func (r Rotation) Normalize() Rotation {
	v := int(r) % 360
	if v < 0 {
		v += 360
	}
	return Rotation(v - v%90)
}

// Quarter reports whether the rotation is a 90 or 270 degree turn.
func (r Rotation) Quarter() bool {
	n := r.Normalize()
	return n == Rotation90 || n == Rotation270
}

// Origin tags where an item comes from.
type Origin int

const (
	OriginTemplate Origin = iota // Unlimited palette source, cloned before use
	OriginPlaced                 // Resident (or about to become resident) in the grid
)

func (o Origin) String() string {
	switch o {
	case OriginTemplate:
		return "template"
	default:
		return "placed"
	}
}

// Item is a rectangular object occupying Width x Height cells of the grid.
// Rotating an item swaps Width and Height; the original orientation is not
// stored separately.
type Item struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	TemplateID string   `json:"template_id,omitempty"`
	Width      int      `json:"width"`  // cells
	Height     int      `json:"height"` // cells
	Anchor     Cell     `json:"anchor"` // Top-left cell, only meaningful while placed
	Rotation   Rotation `json:"rotation"`
	Origin     Origin   `json:"origin"`

	// ControlsVisible shows the rotate affordance for a grid-resident item.
	ControlsVisible bool `json:"-"`
}

// NewItem creates a placed-origin item with a generated ID.
func NewItem(name string, w, h int) *Item {
	return &Item{
		ID:     newID(),
		Name:   name,
		Width:  w,
		Height: h,
		Origin: OriginPlaced,
	}
}

// Valid reports whether the item has a usable footprint.
func (it *Item) Valid() bool {
	return it != nil && it.Width > 0 && it.Height > 0
}

// Size returns the footprint dimensions in cells.
func (it Item) Size() (w, h int) {
	return it.Width, it.Height
}

// Area returns the number of cells covered by the item.
func (it Item) Area() int {
	return it.Width * it.Height
}

// Footprint returns every cell covered when the item is anchored at anchor,
// row by row.
func (it Item) Footprint(anchor Cell) []Cell {
	if it.Width <= 0 || it.Height <= 0 {
		return nil
	}
	cells := make([]Cell, 0, it.Width*it.Height)
	for r := 0; r < it.Height; r++ {
		for c := 0; c < it.Width; c++ {
			cells = append(cells, Cell{Row: anchor.Row + r, Col: anchor.Col + c})
		}
	}
	return cells
}

// FootprintWithin is Footprint limited to the cells of a rows x cols grid.
// Its size is bounded by the grid, however large the item is.
func (it Item) FootprintWithin(anchor Cell, rows, cols int) []Cell {
	if it.Width <= 0 || it.Height <= 0 {
		return nil
	}
	r0, r1 := max(anchor.Row, 0), spanEnd(anchor.Row, it.Height, rows)
	c0, c1 := max(anchor.Col, 0), spanEnd(anchor.Col, it.Width, cols)
	var cells []Cell
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			cells = append(cells, Cell{Row: r, Col: c})
		}
	}
	return cells
}

// spanEnd is min(start+n, limit) without overflowing for large n.
func spanEnd(start, n, limit int) int {
	if n >= limit-start {
		return limit
	}
	return start + n
}

func newID() string {
	return uuid.New().String()[:8]
}

// Layout is a read-only snapshot of a grid and the items placed on it.
type Layout struct {
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
	Items []Item `json:"items"` // Placement order
}

// TotalCells returns the grid capacity.
func (l Layout) TotalCells() int {
	return l.Rows * l.Cols
}

// UsedCells returns the number of cells covered by placed items.
func (l Layout) UsedCells() int {
	total := 0
	for _, it := range l.Items {
		total += it.Area()
	}
	return total
}

// FillPercent returns the usage percentage.
func (l Layout) FillPercent() float64 {
	tc := l.TotalCells()
	if tc == 0 {
		return 0
	}
	return float64(l.UsedCells()) / float64(tc) * 100.0
}

// Occupancy returns a Rows x Cols table of item IDs; free cells are "".
// Cells outside the grid are ignored.
func (l Layout) Occupancy() [][]string {
	table := make([][]string, l.Rows)
	for r := range table {
		table[r] = make([]string, l.Cols)
	}
	for _, it := range l.Items {
		for _, c := range it.FootprintWithin(it.Anchor, l.Rows, l.Cols) {
			table[c.Row][c.Col] = it.ID
		}
	}
	return table
}

// Find returns the item with the given ID, or nil.
func (l Layout) Find(id string) *Item {
	for i := range l.Items {
		if l.Items[i].ID == id {
			return &l.Items[i]
		}
	}
	return nil
}
