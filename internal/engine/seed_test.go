package engine

import (
	"testing"

	"github.com/piwi3910/backpack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopulate(t *testing.T) {
	g := newTestGrid(t)
	seeds := []model.SeedItem{
		{Template: "sword", Row: 0, Col: 0},
		{Template: "Shield", Row: 0, Col: 1},                           // by name
		{Template: "bow", Row: 3, Col: 0, Rotation: model.Rotation90},  // 1x2 after turn, overflows
		{Template: "bow", Row: 2, Col: 4, Rotation: model.Rotation90},  // 1x2 fits
		{Template: "potion", Row: 0, Col: 1},                           // collides with shield
		{Template: "dragon", Row: 3, Col: 3},
	}

	errs := Populate(g, model.DefaultPalette(), seeds)
	require.Len(t, errs, 3)
	assert.ErrorIs(t, errs[0], ErrOutOfBounds)
	assert.ErrorIs(t, errs[1], ErrCollision)
	assert.Contains(t, errs[2].Error(), "dragon")

	assert.Equal(t, 3, g.Len())
	bow := g.ItemAt(model.Cell{Row: 3, Col: 4})
	require.NotNil(t, bow)
	assert.Equal(t, "bow", bow.TemplateID)
	assert.Equal(t, 1, bow.Width)
	assert.Equal(t, 2, bow.Height)
	assert.Equal(t, model.Rotation90, bow.Rotation)
}
