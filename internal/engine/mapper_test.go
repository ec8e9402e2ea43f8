package engine

import (
	"math"
	"testing"

	"github.com/piwi3910/backpack/internal/model"
	"github.com/stretchr/testify/assert"
)

func newTestMapper() *Mapper {
	return NewMapper(model.DefaultGridConfig(), 10, 20)
}

func TestMapper_ToCell(t *testing.T) {
	m := newTestMapper() // pitch 52

	tests := []struct {
		name string
		x, y float64
		want model.Cell
	}{
		{"origin", 10, 20, model.Cell{Row: 0, Col: 0}},
		{"inside first cell", 59, 69, model.Cell{Row: 0, Col: 0}},
		{"gap belongs to previous cell", 61, 71, model.Cell{Row: 0, Col: 0}},
		{"second column", 62, 20, model.Cell{Row: 0, Col: 1}},
		{"last cell", 10 + 4*52 + 1, 20 + 3*52 + 1, model.Cell{Row: 3, Col: 4}},
		{"clamped left and top", -500, -500, model.Cell{Row: 0, Col: 0}},
		{"clamped right and bottom", 5000, 5000, model.Cell{Row: 3, Col: 4}},
		{"far right and bottom", 1e300, 1e300, model.Cell{Row: 3, Col: 4}},
		{"far left and top", -1e300, -1e300, model.Cell{Row: 0, Col: 0}},
		{"far right, top", 1e300, -1e300, model.Cell{Row: 0, Col: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.ToCell(tt.x, tt.y)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapper_ToCellNonFinite(t *testing.T) {
	m := newTestMapper()
	_, ok := m.ToCell(math.NaN(), 0)
	assert.False(t, ok)
	_, ok = m.ToCell(0, math.Inf(-1))
	assert.False(t, ok)
	assert.False(t, m.IsOverGrid(math.NaN(), 30))

	row, col := m.CellCoords(math.NaN(), 20)
	assert.True(t, math.IsNaN(col))
	assert.Equal(t, 0.0, row)
}

func TestMapper_IsOverGrid(t *testing.T) {
	m := newTestMapper()
	b := m.Bounds()
	assert.Equal(t, Rect{X: 10, Y: 20, W: 5*50 + 4*2, H: 4*50 + 3*2}, b)

	assert.True(t, m.IsOverGrid(10, 20))
	assert.True(t, m.IsOverGrid(b.Right(), b.Bottom()), "edges are inclusive")
	assert.True(t, m.IsOverGrid(100, 100))
	assert.False(t, m.IsOverGrid(9.9, 30))
	assert.False(t, m.IsOverGrid(30, b.Bottom()+0.1))
}

func TestMapper_Geometry(t *testing.T) {
	m := newTestMapper()

	assert.Equal(t, Rect{X: 10 + 2*52, Y: 20 + 52, W: 50, H: 50}, m.CellRect(model.Cell{Row: 1, Col: 2}))

	it := model.Item{Width: 2, Height: 3, Anchor: model.Cell{Row: 1, Col: 1}}
	assert.Equal(t, Rect{X: 62, Y: 72, W: 102, H: 154}, m.FootprintRect(it))

	w, h := m.ItemSize(1, 1)
	assert.Equal(t, 50.0, w)
	assert.Equal(t, 50.0, h)
}
