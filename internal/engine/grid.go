package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/piwi3910/backpack/internal/model"
)

// Placement errors. They describe why a footprint cannot go where asked and
// are matched with errors.Is.
var (
	ErrInvalidItem       = errors.New("item has no usable footprint")
	ErrInvalidCoordinate = errors.New("coordinate is not a finite integer")
	ErrOutOfBounds       = errors.New("footprint exceeds grid bounds")
	ErrCollision         = errors.New("footprint overlaps another item")
	ErrNotPlaced         = errors.New("item is not in the grid")
	ErrInvalidLayout     = errors.New("layout does not fit the grid")
)

// Grid is the occupancy table of a fixed rows x cols backpack.
// Every occupied cell holds the ID of the item covering it; placed keeps
// exactly the items that appear in the table. Grid is not safe for
// concurrent use.
type Grid struct {
	rows, cols int
	cells      []string // row-major item IDs, "" when free
	placed     map[string]*model.Item
	order      []string // placement order
}

// NewGrid creates an empty grid. Dimensions are immutable afterwards.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", rows, cols)
	}
	return &Grid{
		rows:   rows,
		cols:   cols,
		cells:  make([]string, rows*cols),
		placed: make(map[string]*model.Item),
	}, nil
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether cell lies inside the grid.
func (g *Grid) InBounds(cell model.Cell) bool {
	return cell.Row >= 0 && cell.Row < g.rows && cell.Col >= 0 && cell.Col < g.cols
}

func (g *Grid) index(cell model.Cell) int {
	return cell.Row*g.cols + cell.Col
}

// Check reports why item cannot be anchored at (row, col), or nil if it can.
// Cells already held by item itself do not count as collisions, so an item
// may be checked against its own current position.
func (g *Grid) Check(item *model.Item, row, col int) error {
	if !item.Valid() {
		return ErrInvalidItem
	}
	// Bounds are tested on the rectangle so oversized items never expand
	// into a footprint.
	if row < 0 || col < 0 || row > g.rows-item.Height || col > g.cols-item.Width {
		return fmt.Errorf("%w: %dx%d at (%d,%d) outside %dx%d", ErrOutOfBounds, item.Width, item.Height, row, col, g.rows, g.cols)
	}
	for _, c := range item.Footprint(model.Cell{Row: row, Col: col}) {
		if id := g.cells[g.index(c)]; id != "" && id != item.ID {
			return fmt.Errorf("%w: cell (%d,%d) held by %s", ErrCollision, c.Row, c.Col, id)
		}
	}
	return nil
}

// CheckCoords is Check for coordinates that come from an untyped source such
// as pointer arithmetic. NaN, infinities and fractional values are rejected.
func (g *Grid) CheckCoords(item *model.Item, row, col float64) error {
	if !isWhole(row) || !isWhole(col) {
		return fmt.Errorf("%w: (%v,%v)", ErrInvalidCoordinate, row, col)
	}
	if row < 0 || col < 0 || row >= float64(g.rows) || col >= float64(g.cols) {
		return fmt.Errorf("%w: anchor (%v,%v) outside %dx%d", ErrOutOfBounds, row, col, g.rows, g.cols)
	}
	return g.Check(item, int(row), int(col))
}

func isWhole(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v == math.Trunc(v)
}

// CanPlace reports whether item fits at (row, col).
func (g *Grid) CanPlace(item *model.Item, row, col int) bool {
	return g.Check(item, row, col) == nil
}

// Place anchors item at (row, col). The target is validated first; on error
// the grid is left untouched. Any cells the item held before are released,
// so Place doubles as "move" and calling it twice is harmless.
func (g *Grid) Place(item *model.Item, row, col int) error {
	if err := g.Check(item, row, col); err != nil {
		return err
	}
	g.release(item.ID)

	anchor := model.Cell{Row: row, Col: col}
	for _, c := range item.Footprint(anchor) {
		g.cells[g.index(c)] = item.ID
	}
	item.Anchor = anchor
	if _, ok := g.placed[item.ID]; !ok {
		g.order = append(g.order, item.ID)
	}
	g.placed[item.ID] = item
	return nil
}

// Remove clears every cell held by item and forgets it. No-op if absent.
func (g *Grid) Remove(item *model.Item) {
	if item == nil {
		return
	}
	g.release(item.ID)
	if _, ok := g.placed[item.ID]; !ok {
		return
	}
	delete(g.placed, item.ID)
	for i, id := range g.order {
		if id == item.ID {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

func (g *Grid) release(id string) {
	for i, held := range g.cells {
		if held == id {
			g.cells[i] = ""
		}
	}
}

// Contains reports whether item is currently placed.
func (g *Grid) Contains(item *model.Item) bool {
	if item == nil {
		return false
	}
	_, ok := g.placed[item.ID]
	return ok
}

// Item returns the placed item with the given ID, or nil.
func (g *Grid) Item(id string) *model.Item {
	return g.placed[id]
}

// ItemAt returns the item covering cell, or nil.
func (g *Grid) ItemAt(cell model.Cell) *model.Item {
	if !g.InBounds(cell) {
		return nil
	}
	id := g.cells[g.index(cell)]
	if id == "" {
		return nil
	}
	return g.placed[id]
}

// Items returns the placed items in placement order.
func (g *Grid) Items() []*model.Item {
	items := make([]*model.Item, 0, len(g.order))
	for _, id := range g.order {
		items = append(items, g.placed[id])
	}
	return items
}

// Len returns the number of placed items.
func (g *Grid) Len() int {
	return len(g.order)
}

// Clear removes every item.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = ""
	}
	g.placed = make(map[string]*model.Item)
	g.order = nil
}

// Layout returns a snapshot of the grid contents.
func (g *Grid) Layout() model.Layout {
	l := model.Layout{Rows: g.rows, Cols: g.cols, Items: make([]model.Item, 0, len(g.order))}
	for _, id := range g.order {
		l.Items = append(l.Items, *g.placed[id])
	}
	return l
}

// Restore replaces the grid contents with the items of layout. The layout
// must match the grid dimensions and be collision free; otherwise the grid
// is left unchanged.
func (g *Grid) Restore(layout model.Layout) error {
	if layout.Rows != g.rows || layout.Cols != g.cols {
		return fmt.Errorf("%w: layout is %dx%d, grid is %dx%d", ErrInvalidLayout, layout.Rows, layout.Cols, g.rows, g.cols)
	}
	next, _ := NewGrid(g.rows, g.cols)
	for i := range layout.Items {
		it := layout.Items[i]
		if next.Item(it.ID) != nil {
			return fmt.Errorf("%w: duplicate item %s", ErrInvalidLayout, it.ID)
		}
		if err := next.Place(&it, it.Anchor.Row, it.Anchor.Col); err != nil {
			return fmt.Errorf("%w: item %s: %w", ErrInvalidLayout, it.ID, err)
		}
	}
	*g = *next
	return nil
}
