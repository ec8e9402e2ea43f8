package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/backpack/internal/engine"
	"github.com/piwi3910/backpack/internal/interaction"
	"github.com/piwi3910/backpack/internal/model"
)

// The palette column starts at terminal column 36 for a five column grid;
// Sword is listed on row 2 and Gem on row 3.
const (
	paletteCol = 36
	gemRow     = 3
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	grid, err := engine.NewGrid(4, 5)
	require.NoError(t, err)
	palette := model.NewPalette(
		model.Template{ID: "sword", Name: "Sword", Width: 1, Height: 3},
		model.Template{ID: "gem", Name: "Gem", Width: 1, Height: 1},
	)
	return New(grid, model.DefaultGridConfig(), palette)
}

// cellPos is a terminal position inside grid cell (row, col).
func cellPos(row, col int) (int, int) {
	return gridLeft + col*cellCols + 2, gridTop + row*cellRows + 1
}

func mouse(m *Model, action tea.MouseAction, x, y int) {
	m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
}

func key(m *Model, s string) tea.Cmd {
	var msg tea.KeyMsg
	switch s {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestModel_DragFromPalette(t *testing.T) {
	m := newTestModel(t)

	mouse(m, tea.MouseActionPress, paletteCol+1, gemRow)
	assert.Equal(t, interaction.StatePressed, m.Controller().State())

	x, y := cellPos(1, 2)
	mouse(m, tea.MouseActionMotion, x, y)
	assert.Equal(t, interaction.StateDragging, m.Controller().State())
	assert.Equal(t, model.Cell{Row: 1, Col: 2}, m.highlight.Anchor)
	assert.True(t, m.highlight.Valid)

	mouse(m, tea.MouseActionRelease, x, y)
	placed := m.Controller().Grid().ItemAt(model.Cell{Row: 1, Col: 2})
	require.NotNil(t, placed)
	assert.Equal(t, "Gem", placed.Name)
	assert.True(t, m.highlight.Empty())
	assert.Equal(t, "Placed Gem at row 1, col 2", m.message)
}

func TestModel_DragOutsideReturnsItem(t *testing.T) {
	m := newTestModel(t)
	item := model.NewItem("Sword", 1, 3)
	require.NoError(t, m.Controller().Grid().Place(item, 0, 0))

	x, y := cellPos(0, 0)
	mouse(m, tea.MouseActionPress, x, y)
	mouse(m, tea.MouseActionMotion, 60, 20)
	mouse(m, tea.MouseActionRelease, 60, 20)

	assert.Equal(t, model.Cell{Row: 0, Col: 0}, m.Controller().Grid().Item(item.ID).Anchor)
	assert.Equal(t, "Returned Sword: released outside the grid", m.message)
}

func TestModel_TapThenRotateKey(t *testing.T) {
	m := newTestModel(t)
	grid := m.Controller().Grid()
	item := model.NewItem("Bow", 2, 1)
	require.NoError(t, grid.Place(item, 0, 0))

	x, y := cellPos(0, 0)
	mouse(m, tea.MouseActionPress, x, y)
	mouse(m, tea.MouseActionRelease, x, y)
	assert.True(t, grid.Item(item.ID).ControlsVisible)
	assert.Equal(t, "Selected Bow, press r to rotate", m.message)

	key(m, "r")
	rotated := grid.Item(item.ID)
	assert.Equal(t, 1, rotated.Width)
	assert.Equal(t, 2, rotated.Height)
	assert.False(t, rotated.ControlsVisible)
	assert.Equal(t, "Rotated Bow to 90°", m.message)

	key(m, "r")
	assert.Equal(t, "Click an item first", m.message)
}

func TestModel_ControlClickRotates(t *testing.T) {
	m := newTestModel(t)
	grid := m.Controller().Grid()
	item := model.NewItem("Bow", 2, 1)
	require.NoError(t, grid.Place(item, 0, 0))
	item.ControlsVisible = true

	target := m.hitTest(12, gridTop)
	require.Equal(t, interaction.TargetControl, target.Kind)

	mouse(m, tea.MouseActionPress, 12, gridTop)
	assert.Equal(t, interaction.StateIdle, m.Controller().State())
	mouse(m, tea.MouseActionRelease, 12, gridTop)

	assert.Equal(t, 1, grid.Item(item.ID).Width)
	assert.Equal(t, model.Rotation(90), grid.Item(item.ID).Rotation)
}

func TestModel_RotateBlocked(t *testing.T) {
	m := newTestModel(t)
	grid := m.Controller().Grid()
	item := model.NewItem("Bow", 2, 1)
	require.NoError(t, grid.Place(item, 0, 0))
	require.NoError(t, grid.Place(model.NewItem("Gem", 1, 1), 1, 0))
	item.ControlsVisible = true

	key(m, "r")
	assert.True(t, strings.HasPrefix(m.message, "Cannot rotate here"))
	assert.Equal(t, 2, grid.Item(item.ID).Width)
}

func TestModel_EscCancels(t *testing.T) {
	m := newTestModel(t)

	mouse(m, tea.MouseActionPress, paletteCol+1, gemRow)
	x, y := cellPos(0, 0)
	mouse(m, tea.MouseActionMotion, x, y)
	require.False(t, m.highlight.Empty())

	key(m, "esc")
	assert.Equal(t, interaction.StateIdle, m.Controller().State())
	assert.True(t, m.highlight.Empty())
	assert.Zero(t, m.Controller().Grid().Len())
}

func TestModel_QuitRollsBack(t *testing.T) {
	m := newTestModel(t)
	item := model.NewItem("Sword", 1, 3)
	require.NoError(t, m.Controller().Grid().Place(item, 0, 1))

	x, y := cellPos(0, 1)
	mouse(m, tea.MouseActionPress, x, y)
	mouse(m, tea.MouseActionMotion, x+6, y)

	cmd := key(m, "q")
	assert.NotNil(t, cmd)
	assert.True(t, m.Controller().Grid().Contains(item))
	assert.Equal(t, model.Cell{Row: 0, Col: 1}, item.Anchor)
	assert.Empty(t, m.View())
}

func TestModel_UndoRedoClearKeys(t *testing.T) {
	m := newTestModel(t)

	key(m, "u")
	assert.Equal(t, "Nothing to undo", m.message)

	mouse(m, tea.MouseActionPress, paletteCol+1, gemRow)
	x, y := cellPos(2, 2)
	mouse(m, tea.MouseActionMotion, x, y)
	mouse(m, tea.MouseActionRelease, x, y)
	require.Equal(t, 1, m.Controller().Grid().Len())

	key(m, "u")
	assert.Equal(t, "Undone", m.message)
	assert.Zero(t, m.Controller().Grid().Len())

	key(m, "y")
	assert.Equal(t, "Redone", m.message)
	assert.Equal(t, 1, m.Controller().Grid().Len())

	key(m, "c")
	assert.Equal(t, "Cleared", m.message)
	assert.Zero(t, m.Controller().Grid().Len())
}

func TestModel_RightButtonIgnored(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.MouseMsg{X: paletteCol + 1, Y: gemRow, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.Equal(t, interaction.StateIdle, m.Controller().State())
}

func TestModel_Draw(t *testing.T) {
	m := newTestModel(t)
	item := model.NewItem("Bow", 2, 1)
	require.NoError(t, m.Controller().Grid().Place(item, 0, 0))
	item.ControlsVisible = true

	lines := strings.Split(m.draw().plain(), "\n")
	require.Greater(t, len(lines), gemRow)
	assert.Contains(t, lines[gridTop], "Bow")
	assert.Contains(t, lines[gridTop], "⟳")
	assert.Contains(t, lines[gridTop], "■ Sword 1x3")
	assert.Contains(t, lines[gemRow], "■ Gem 1x1")

	view := m.View()
	assert.Contains(t, view, "Backpack")
	assert.Contains(t, view, "1 items, 2/20 cells")
}

func TestDescribe(t *testing.T) {
	gem := &model.Item{Name: "Gem", Anchor: model.Cell{Row: 1, Col: 2}}
	assert.Equal(t, "Placed Gem at row 1, col 2", describe(interaction.Outcome{Kind: interaction.OutcomePlaced, Item: gem}))
	assert.Equal(t, "Dropped Gem: cell is occupied",
		describe(interaction.Outcome{Kind: interaction.OutcomeDiscarded, Item: gem, Err: errString("cell is occupied")}))
	assert.Empty(t, describe(interaction.Outcome{Kind: interaction.OutcomeDiscarded, Item: gem}))
	assert.Empty(t, describe(interaction.Outcome{Kind: interaction.OutcomeTapped}))
}

type errString string

func (e errString) Error() string { return string(e) }

func TestCanvas(t *testing.T) {
	c := newCanvas(6, 2)
	c.fill(0, 0, 3, 1, paintCell)
	c.text(1, 0, "ab", paintNone)
	c.set(5, 1, 'x', paintValid)
	c.set(9, 9, 'y', paintValid)

	assert.Equal(t, " ab\n     x", c.plain())
	assert.Equal(t, paintCell, c.paints[0][1])
	assert.Contains(t, c.render(), "ab")
}
