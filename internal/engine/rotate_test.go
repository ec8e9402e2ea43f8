package engine

import (
	"testing"

	"github.com/piwi3910/backpack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotate_SquareInCorner(t *testing.T) {
	g := newTestGrid(t)
	shield := model.NewItem("Shield", 2, 2)
	require.NoError(t, g.Place(shield, 2, 3))

	require.NoError(t, Rotate(g, shield))
	assert.Equal(t, 2, shield.Width)
	assert.Equal(t, 2, shield.Height)
	assert.Equal(t, model.Rotation90, shield.Rotation)
	assert.Equal(t, model.Cell{Row: 2, Col: 3}, shield.Anchor)
	assert.Len(t, occupied(g), 4)
}

func TestRotate_SwapsFootprint(t *testing.T) {
	g := newTestGrid(t)
	sword := model.NewItem("Sword", 1, 3)
	require.NoError(t, g.Place(sword, 0, 0))

	require.NoError(t, Rotate(g, sword))
	assert.Equal(t, 3, sword.Width)
	assert.Equal(t, 1, sword.Height)
	assert.Same(t, sword, g.ItemAt(model.Cell{Row: 0, Col: 2}))
	assert.Nil(t, g.ItemAt(model.Cell{Row: 2, Col: 0}))
}

func TestRotate_FourTurnsRoundTrip(t *testing.T) {
	g := newTestGrid(t)
	armor := model.NewItem("Armor", 2, 3)
	require.NoError(t, g.Place(armor, 0, 0))
	before := g.Layout()

	for i := 0; i < 4; i++ {
		require.NoError(t, Rotate(g, armor))
	}
	assert.Equal(t, before, g.Layout())
	assert.Equal(t, model.Rotation0, armor.Rotation)
}

func TestRotate_OutOfBoundsRollsBack(t *testing.T) {
	g := newTestGrid(t)
	sword := model.NewItem("Sword", 1, 3)
	require.NoError(t, g.Place(sword, 0, 4)) // rightmost column
	before := g.Layout()

	err := Rotate(g, sword)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Equal(t, before, g.Layout())
	assert.True(t, g.Contains(sword))
	assert.Equal(t, model.Rotation0, sword.Rotation)
}

func TestRotate_CollisionRollsBack(t *testing.T) {
	g := newTestGrid(t)
	bow := model.NewItem("Bow", 2, 1)
	potion := model.NewItem("Potion", 1, 1)
	require.NoError(t, g.Place(bow, 0, 0))
	require.NoError(t, g.Place(potion, 1, 0))
	before := g.Layout()

	assert.ErrorIs(t, Rotate(g, bow), ErrCollision)
	assert.Equal(t, before, g.Layout())
}

func TestRotate_NotPlaced(t *testing.T) {
	g := newTestGrid(t)
	assert.ErrorIs(t, Rotate(g, model.NewItem("loose", 1, 1)), ErrNotPlaced)
	assert.ErrorIs(t, Rotate(g, nil), ErrNotPlaced)
}
