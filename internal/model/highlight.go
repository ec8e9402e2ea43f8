package model

// Highlight describes the placement preview shown while an item is dragged
// over the grid: the anchor it would land on, the footprint cells that exist
// in the grid, and whether the placement would succeed.
type Highlight struct {
	Anchor Cell
	Cells  []Cell
	Valid  bool
}

// ValidAt reports the preview state of cell. ok is false when the cell is not
// part of the highlighted footprint.
func (h Highlight) ValidAt(cell Cell) (valid, ok bool) {
	for _, c := range h.Cells {
		if c == cell {
			return h.Valid, true
		}
	}
	return false, false
}

// Empty reports whether there is nothing to highlight.
func (h Highlight) Empty() bool {
	return len(h.Cells) == 0
}
