package engine

import (
	"github.com/piwi3910/backpack/internal/model"
)

// Rotate turns a placed item a quarter turn clockwise around its top-left
// anchor by swapping width and height. If the rotated footprint does not fit
// the item is restored to its previous size and rotation and re-placed at
// the same anchor; the check error is returned. The item is never left
// outside the grid.
//
// Rotation only ever swaps the footprint, so 0/180 and 90/270 share a shape.
func Rotate(g *Grid, item *model.Item) error {
	if !g.Contains(item) {
		return ErrNotPlaced
	}
	anchor := item.Anchor
	oldW, oldH, oldRot := item.Width, item.Height, item.Rotation

	g.Remove(item)
	item.Width, item.Height = oldH, oldW

	err := g.Check(item, anchor.Row, anchor.Col)
	if err == nil {
		item.Rotation = oldRot.Next()
	} else {
		item.Width, item.Height, item.Rotation = oldW, oldH, oldRot
	}

	// The previous footprint was valid and has just been vacated, so
	// re-placing at the anchor cannot fail on the rollback path.
	if perr := g.Place(item, anchor.Row, anchor.Col); perr != nil {
		return perr
	}
	return err
}
