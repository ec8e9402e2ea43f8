package engine

import (
	"fmt"

	"github.com/piwi3910/backpack/internal/model"
)

// Populate places the configured seed items into g. Each seed names a
// template by ID or by name. Seeds that cannot be resolved or placed are
// skipped and reported; the remaining seeds are still applied.
func Populate(g *Grid, palette model.Palette, seeds []model.SeedItem) []error {
	var errs []error
	for i, s := range seeds {
		t, ok := palette.Lookup(s.Template)
		if !ok {
			t, ok = palette.FindByName(s.Template)
		}
		if !ok {
			errs = append(errs, fmt.Errorf("seed %d: unknown template %q", i, s.Template))
			continue
		}
		item := model.NewItemFromTemplate(t)
		// Seed rotation is relative to the template's own orientation.
		item.Rotation = (item.Rotation + s.Rotation).Normalize()
		if s.Rotation.Quarter() {
			item.Width, item.Height = item.Height, item.Width
		}
		if err := g.Place(item, s.Row, s.Col); err != nil {
			errs = append(errs, fmt.Errorf("seed %d (%s at %d,%d): %w", i, t.Name, s.Row, s.Col, err))
		}
	}
	return errs
}
