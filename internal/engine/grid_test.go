package engine

import (
	"math"
	"testing"

	"github.com/piwi3910/backpack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := NewGrid(4, 5)
	require.NoError(t, err)
	return g
}

func occupied(g *Grid) map[model.Cell]string {
	out := make(map[model.Cell]string)
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			cell := model.Cell{Row: r, Col: c}
			if it := g.ItemAt(cell); it != nil {
				out[cell] = it.ID
			}
		}
	}
	return out
}

func TestNewGrid_RejectsNonPositive(t *testing.T) {
	_, err := NewGrid(0, 5)
	assert.Error(t, err)
	_, err = NewGrid(4, -1)
	assert.Error(t, err)
}

// A 2-wide, 1-high item at the origin covers the first two columns of row 0;
// the cell below it stays free.
func TestGrid_FourByFiveScenario(t *testing.T) {
	g := newTestGrid(t)

	bow := model.NewItem("Bow", 2, 1)
	require.NoError(t, g.Place(bow, 0, 0))
	assert.Equal(t, map[model.Cell]string{
		{Row: 0, Col: 0}: bow.ID,
		{Row: 0, Col: 1}: bow.ID,
	}, occupied(g))

	potion := model.NewItem("Potion", 1, 1)
	assert.False(t, g.CanPlace(potion, 0, 0))
	assert.ErrorIs(t, g.Check(potion, 0, 0), ErrCollision)

	require.NoError(t, g.Place(potion, 1, 0))
	assert.Equal(t, potion.ID, g.ItemAt(model.Cell{Row: 1, Col: 0}).ID)
	assert.Len(t, occupied(g), 3)
}

func TestGrid_FootprintRoundTrip(t *testing.T) {
	g := newTestGrid(t)
	shield := model.NewItem("Shield", 2, 2)
	require.NoError(t, g.Place(shield, 1, 2))

	for _, c := range shield.Footprint(model.Cell{Row: 1, Col: 2}) {
		assert.Same(t, shield, g.ItemAt(c))
	}
	assert.Len(t, occupied(g), 4)
	assert.Equal(t, model.Cell{Row: 1, Col: 2}, shield.Anchor)
}

func TestGrid_OutOfBounds(t *testing.T) {
	g := newTestGrid(t)
	sword := model.NewItem("Sword", 1, 3)

	tests := []struct {
		name     string
		row, col int
	}{
		{"bottom overflow", 2, 0},
		{"right overflow", 0, 5},
		{"negative row", -1, 0},
		{"negative col", 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, g.Check(sword, tt.row, tt.col), ErrOutOfBounds)
			assert.ErrorIs(t, g.Place(sword, tt.row, tt.col), ErrOutOfBounds)
		})
	}
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, occupied(g))
}

func TestGrid_InvalidItem(t *testing.T) {
	g := newTestGrid(t)
	assert.ErrorIs(t, g.Check(nil, 0, 0), ErrInvalidItem)
	assert.ErrorIs(t, g.Check(model.NewItem("flat", 0, 1), 0, 0), ErrInvalidItem)
}

func TestGrid_CheckCoords(t *testing.T) {
	g := newTestGrid(t)
	it := model.NewItem("Potion", 1, 1)

	assert.NoError(t, g.CheckCoords(it, 2, 3))
	assert.ErrorIs(t, g.CheckCoords(it, math.NaN(), 0), ErrInvalidCoordinate)
	assert.ErrorIs(t, g.CheckCoords(it, 0, math.Inf(1)), ErrInvalidCoordinate)
	assert.ErrorIs(t, g.CheckCoords(it, 1.5, 0), ErrInvalidCoordinate)
	assert.ErrorIs(t, g.CheckCoords(it, 1e300, 0), ErrOutOfBounds)
	assert.ErrorIs(t, g.CheckCoords(it, 0, -1e300), ErrOutOfBounds)
}

func TestGrid_OversizedItem(t *testing.T) {
	g := newTestGrid(t)
	wall := model.NewItem("Wall", 3037000500, 3037000500)

	assert.ErrorIs(t, g.Check(wall, 0, 0), ErrOutOfBounds)
	assert.False(t, g.CanPlace(wall, 0, 0))
	assert.ErrorIs(t, g.Place(wall, 0, 0), ErrOutOfBounds)

	wide := model.NewItem("Banner", math.MaxInt, 1)
	assert.ErrorIs(t, g.Check(wide, 0, 0), ErrOutOfBounds)
	assert.Zero(t, g.Len())
}

func TestGrid_SelfOccupancyIgnored(t *testing.T) {
	g := newTestGrid(t)
	shield := model.NewItem("Shield", 2, 2)
	require.NoError(t, g.Place(shield, 0, 0))

	// Overlapping only itself.
	assert.NoError(t, g.Check(shield, 0, 1))
	require.NoError(t, g.Place(shield, 0, 1))
	assert.Nil(t, g.ItemAt(model.Cell{Row: 0, Col: 0}))
	assert.Same(t, shield, g.ItemAt(model.Cell{Row: 1, Col: 2}))
	assert.Equal(t, 1, g.Len())
}

func TestGrid_PlaceIdempotent(t *testing.T) {
	g := newTestGrid(t)
	bow := model.NewItem("Bow", 2, 1)
	require.NoError(t, g.Place(bow, 2, 2))
	before := g.Layout()

	require.NoError(t, g.Place(bow, 2, 2))
	assert.Equal(t, before, g.Layout())
	assert.Equal(t, 1, g.Len())
}

func TestGrid_FailedPlaceLeavesGridUnchanged(t *testing.T) {
	g := newTestGrid(t)
	a := model.NewItem("A", 2, 2)
	b := model.NewItem("B", 1, 1)
	require.NoError(t, g.Place(a, 0, 0))
	require.NoError(t, g.Place(b, 3, 4))
	before := occupied(g)

	// Moving b onto a must not release b's current cells.
	assert.ErrorIs(t, g.Place(b, 1, 1), ErrCollision)
	assert.Equal(t, before, occupied(g))
	assert.Equal(t, model.Cell{Row: 3, Col: 4}, b.Anchor)
}

func TestGrid_Remove(t *testing.T) {
	g := newTestGrid(t)
	a := model.NewItem("A", 1, 2)
	require.NoError(t, g.Place(a, 0, 0))

	g.Remove(a)
	assert.False(t, g.Contains(a))
	assert.Empty(t, occupied(g))

	// Second remove and nil are no-ops.
	g.Remove(a)
	g.Remove(nil)
	assert.Equal(t, 0, g.Len())
}

func TestGrid_ItemsKeepPlacementOrder(t *testing.T) {
	g := newTestGrid(t)
	a := model.NewItem("A", 1, 1)
	b := model.NewItem("B", 1, 1)
	c := model.NewItem("C", 1, 1)
	require.NoError(t, g.Place(a, 0, 0))
	require.NoError(t, g.Place(b, 0, 1))
	require.NoError(t, g.Place(c, 0, 2))
	require.NoError(t, g.Place(a, 3, 3)) // move keeps position in order

	g.Remove(b)
	items := g.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "C", items[1].Name)
	assert.Same(t, c, g.Item(c.ID))
}

func TestGrid_Clear(t *testing.T) {
	g := newTestGrid(t)
	require.NoError(t, g.Place(model.NewItem("A", 2, 2), 0, 0))
	g.Clear()
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, occupied(g))
}

func TestGrid_LayoutAndRestore(t *testing.T) {
	g := newTestGrid(t)
	a := model.NewItem("A", 2, 1)
	b := model.NewItem("B", 1, 2)
	require.NoError(t, g.Place(a, 0, 0))
	require.NoError(t, g.Place(b, 2, 4))
	snap := g.Layout()

	g.Remove(a)
	require.NoError(t, g.Place(b, 0, 0))

	require.NoError(t, g.Restore(snap))
	assert.Equal(t, snap, g.Layout())
	assert.Equal(t, a.ID, g.ItemAt(model.Cell{Row: 0, Col: 1}).ID)
	assert.Equal(t, b.ID, g.ItemAt(model.Cell{Row: 3, Col: 4}).ID)
}

func TestGrid_RestoreRejectsBadLayout(t *testing.T) {
	g := newTestGrid(t)
	a := model.NewItem("A", 1, 1)
	require.NoError(t, g.Place(a, 1, 1))
	before := g.Layout()

	wrongSize := model.Layout{Rows: 3, Cols: 3}
	assert.ErrorIs(t, g.Restore(wrongSize), ErrInvalidLayout)

	overlapping := model.Layout{Rows: 4, Cols: 5, Items: []model.Item{
		{ID: "x", Width: 2, Height: 2, Anchor: model.Cell{Row: 0, Col: 0}},
		{ID: "y", Width: 1, Height: 1, Anchor: model.Cell{Row: 1, Col: 1}},
	}}
	err := g.Restore(overlapping)
	assert.ErrorIs(t, err, ErrInvalidLayout)
	assert.ErrorIs(t, err, ErrCollision)

	dup := model.Layout{Rows: 4, Cols: 5, Items: []model.Item{
		{ID: "x", Width: 1, Height: 1},
		{ID: "x", Width: 1, Height: 1, Anchor: model.Cell{Row: 2, Col: 2}},
	}}
	assert.ErrorIs(t, g.Restore(dup), ErrInvalidLayout)

	assert.Equal(t, before, g.Layout())
}
