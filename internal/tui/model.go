// Package tui is a terminal frontend for the backpack grid. Terminal mouse
// events are converted to controller events; each grid cell is drawn as a
// block of cellCols x cellRows terminal cells.
package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/piwi3910/backpack/internal/engine"
	"github.com/piwi3910/backpack/internal/interaction"
	"github.com/piwi3910/backpack/internal/model"
)

// Terminal cells are roughly twice as tall as they are wide, so surface x is
// the terminal column halved. That keeps grid cells square in surface units.
const (
	xScale     = 2
	cellRows   = 3
	cellCols   = cellRows * xScale
	gridLeft   = 2
	gridTop    = 2
	paletteGap = 4
)

// Model is the bubbletea model. It must be used through a pointer because
// the controller holds it as its feedback renderer.
type Model struct {
	ctrl      *interaction.Controller
	highlight model.Highlight
	message   string
	control   string // item whose rotate control is under the press
	quitting  bool
}

// New creates a terminal model driving grid. Any pointer motion turns a
// press into a drag, since the terminal only reports whole-cell movement.
func New(grid *engine.Grid, cfg model.GridConfig, palette model.Palette, opts ...interaction.Option) *Model {
	m := &Model{}
	surface := cfg
	surface.CellSize = cellRows
	surface.Gap = 0
	mapper := engine.NewMapper(surface, gridLeft/xScale, gridTop)

	all := []interaction.Option{interaction.WithThreshold(0)}
	all = append(all, opts...)
	all = append(all, interaction.WithFeedback(m))
	m.ctrl = interaction.New(grid, mapper, palette, all...)
	return m
}

// Run starts a full-screen program with mouse motion reporting.
func Run(m *Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

// Controller returns the gesture controller behind the model.
func (m *Model) Controller() *interaction.Controller { return m.ctrl }

// ShowHighlight implements interaction.Feedback.
func (m *Model) ShowHighlight(h model.Highlight) { m.highlight = h }

// ClearHighlight implements interaction.Feedback.
func (m *Model) ClearHighlight() { m.highlight = model.Highlight{} }

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			// Never leave an item detached on exit.
			m.dispatch(interaction.Event{Kind: interaction.Cancel})
			m.quitting = true
			return m, tea.Quit
		case "esc":
			m.control = ""
			m.dispatch(interaction.Event{Kind: interaction.Cancel})
		case "r":
			m.rotateSelected()
		case "u":
			m.undo()
		case "y", "ctrl+r":
			m.redo()
		case "c":
			if err := m.ctrl.Clear(); err != nil {
				m.message = err.Error()
			} else {
				m.message = "Cleared"
			}
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x, y := toSurface(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		target := m.hitTest(msg.X, msg.Y)
		m.control = ""
		if target.Kind == interaction.TargetControl {
			m.control = target.ID
		}
		m.dispatch(interaction.Event{Kind: interaction.Press, X: x, Y: y, Target: target})
	case tea.MouseActionMotion:
		m.dispatch(interaction.Event{Kind: interaction.Move, X: x, Y: y})
	case tea.MouseActionRelease:
		if m.control != "" {
			id := m.control
			m.control = ""
			if t := m.hitTest(msg.X, msg.Y); t.Kind == interaction.TargetControl && t.ID == id {
				m.rotate(id)
				return
			}
		}
		m.dispatch(interaction.Event{Kind: interaction.Release, X: x, Y: y})
	}
}

func toSurface(col, row int) (float64, float64) {
	return float64(col) / xScale, float64(row)
}

func (m *Model) dispatch(ev interaction.Event) {
	ev.Source = interaction.SourcePointer
	out := m.ctrl.Handle(ev)
	switch out.Kind {
	case interaction.OutcomeNone, interaction.OutcomeIgnored:
		return
	}
	m.message = describe(out)
}

// describe turns an outcome into a status line. Gesture steps without a
// result describe to "".
func describe(out interaction.Outcome) string {
	if out.Item == nil {
		return ""
	}
	name := out.Item.Name
	switch out.Kind {
	case interaction.OutcomePlaced:
		return fmt.Sprintf("Placed %s at row %d, col %d", name, out.Item.Anchor.Row, out.Item.Anchor.Col)
	case interaction.OutcomeRestored:
		if out.Err != nil {
			return fmt.Sprintf("Returned %s: %v", name, out.Err)
		}
	case interaction.OutcomeDiscarded:
		if out.Err != nil {
			return fmt.Sprintf("Dropped %s: %v", name, out.Err)
		}
	case interaction.OutcomeDestroyed:
		return fmt.Sprintf("Lost %s: %v", name, out.Err)
	case interaction.OutcomeTapped:
		if out.Item.ControlsVisible {
			return fmt.Sprintf("Selected %s, press r to rotate", name)
		}
	}
	return ""
}

func (m *Model) selected() *model.Item {
	for _, it := range m.ctrl.Grid().Items() {
		if it.ControlsVisible {
			return it
		}
	}
	return nil
}

func (m *Model) rotateSelected() {
	it := m.selected()
	if it == nil {
		m.message = "Click an item first"
		return
	}
	m.rotate(it.ID)
}

func (m *Model) rotate(id string) {
	if err := m.ctrl.Rotate(id); err != nil {
		m.message = fmt.Sprintf("Cannot rotate here: %v", err)
		return
	}
	it := m.ctrl.Grid().Item(id)
	m.message = fmt.Sprintf("Rotated %s to %d°", it.Name, int(it.Rotation))
}

func (m *Model) undo() {
	ok, err := m.ctrl.Undo()
	switch {
	case err != nil:
		m.message = err.Error()
	case !ok:
		m.message = "Nothing to undo"
	default:
		m.message = "Undone"
	}
}

func (m *Model) redo() {
	ok, err := m.ctrl.Redo()
	switch {
	case err != nil:
		m.message = err.Error()
	case !ok:
		m.message = "Nothing to redo"
	default:
		m.message = "Redone"
	}
}

// ─── Geometry ──────────────────────────────────────────────

func (m *Model) paletteLeft() int {
	return gridLeft + m.ctrl.Grid().Cols()*cellCols + paletteGap
}

func paletteLabel(t model.Template) string {
	return fmt.Sprintf("■ %s %dx%d", t.Name, t.Width, t.Height)
}

func itemOrigin(it model.Item) (int, int) {
	return gridLeft + it.Anchor.Col*cellCols, gridTop + it.Anchor.Row*cellRows
}

// hitTest finds the element under a terminal cell. Rotate controls win over
// the item they sit on.
func (m *Model) hitTest(col, row int) interaction.Target {
	items := m.ctrl.Grid().Items()
	for _, it := range items {
		x, y := itemOrigin(*it)
		if it.ControlsVisible && col == x+it.Width*cellCols-2 && row == y {
			return interaction.Target{Kind: interaction.TargetControl, ID: it.ID}
		}
	}
	for _, it := range items {
		x, y := itemOrigin(*it)
		if col >= x && col < x+it.Width*cellCols && row >= y && row < y+it.Height*cellRows {
			ex, ey := toSurface(x, y)
			return interaction.Target{Kind: interaction.TargetItem, ID: it.ID, ElementX: ex, ElementY: ey}
		}
	}
	left := m.paletteLeft()
	for i, t := range m.ctrl.Palette().Templates {
		if row == gridTop+i && col >= left && col < left+len([]rune(paletteLabel(t))) {
			ex, ey := toSurface(left, row)
			return interaction.Target{Kind: interaction.TargetTemplate, ID: t.ID, ElementX: ex, ElementY: ey}
		}
	}
	return interaction.Target{}
}

func (m *Model) colorIndex(templateID string) int {
	for i, t := range m.ctrl.Palette().Templates {
		if t.ID == templateID {
			return i
		}
	}
	sum := 0
	for _, ch := range templateID {
		sum += int(ch)
	}
	return sum
}

// ─── View ──────────────────────────────────────────────────

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	c := m.draw()
	grid := m.ctrl.Grid()
	layout := grid.Layout()

	var b strings.Builder
	b.WriteString(styleTitle.Render("Backpack"))
	b.WriteString(styleDim.Render(fmt.Sprintf("  %dx%d  ", grid.Rows(), grid.Cols())))
	b.WriteString(styleValue.Render(fmt.Sprintf("%d items, %d/%d cells", len(layout.Items), layout.UsedCells(), layout.TotalCells())))
	b.WriteString("\n\n")
	// The canvas starts at terminal row gridTop; the title and blank line
	// above take the first two rows.
	c.runes, c.paints, c.h = c.runes[gridTop:], c.paints[gridTop:], c.h-gridTop
	b.WriteString(c.render())
	b.WriteString("\n\n")
	if m.message != "" {
		b.WriteString(styleWarning.Render(m.message))
	}
	b.WriteString("\n")
	b.WriteString(styleDim.Render("drag to place · click to select · r rotate · u undo · y redo · c clear · esc cancel · q quit"))
	return b.String()
}

// draw paints the grid, the items, the palette and the dragged item in
// terminal coordinates.
func (m *Model) draw() *canvas {
	grid := m.ctrl.Grid()
	status := m.ctrl.Status()
	templates := m.ctrl.Palette().Templates

	left := m.paletteLeft()
	width := left
	for _, t := range templates {
		if w := left + len([]rune(paletteLabel(t))) + 1; w > width {
			width = w
		}
	}
	height := gridTop + grid.Rows()*cellRows
	if h := gridTop + len(templates); h > height {
		height = h
	}
	c := newCanvas(width, height)

	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			p := paintCell
			if valid, ok := m.highlight.ValidAt(model.Cell{Row: row, Col: col}); ok {
				p = paintInvalid
				if valid {
					p = paintValid
				}
			}
			c.fill(gridLeft+col*cellCols, gridTop+row*cellRows, cellCols-1, cellRows-1, p)
		}
	}

	for _, it := range grid.Items() {
		x, y := itemOrigin(*it)
		m.drawItem(c, *it, x, y)
		if it.ControlsVisible {
			c.set(x+it.Width*cellCols-2, y, '⟳', paintControl)
		}
	}

	for i, t := range templates {
		p := swatchPaint(i)
		if status.Dimmed == t.ID {
			p = paintDimmed
		}
		c.text(left, gridTop+i, paletteLabel(t), p)
	}

	if a := status.Active; a != nil {
		x := int(math.Round(status.DragX * xScale))
		y := int(math.Round(status.DragY))
		m.drawItem(c, *a, x, y)
	}
	return c
}

func (m *Model) drawItem(c *canvas, it model.Item, x, y int) {
	w, h := it.Width*cellCols-1, it.Height*cellRows-1
	c.fill(x, y, w, h, itemPaint(m.colorIndex(it.TemplateID)))
	name := []rune(it.Name)
	if len(name) > w-1 {
		name = name[:max(w-1, 0)]
	}
	c.text(x+1, y, string(name), paintNone)
}
