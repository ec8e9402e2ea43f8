// Package interaction turns normalized pointer and touch events into grid
// mutations. A Controller runs one gesture at a time through the states
// Idle, Pressed, Dragging and Resolving and guarantees that every gesture
// ends with the active item either placed or rolled back.
package interaction

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/backpack/internal/engine"
	"github.com/piwi3910/backpack/internal/model"
)

var (
	ErrOutsideGrid   = errors.New("released outside the grid")
	ErrRestoreFailed = errors.New("could not restore item to its original position")
	ErrBusy          = errors.New("a gesture is already in progress")
	ErrUnknownTarget = errors.New("press target not found")
)

// State is the gesture state of a Controller.
type State int

const (
	StateIdle State = iota
	StatePressed
	StateDragging
	StateResolving
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePressed:
		return "pressed"
	case StateDragging:
		return "dragging"
	case StateResolving:
		return "resolving"
	default:
		return "unknown"
	}
}

// Status is a presentation snapshot of the controller.
type Status struct {
	State State
	// Active is a copy of the item being dragged, nil when idle.
	Active *model.Item
	// DragX, DragY is where the active item's top-left corner follows the
	// pointer. Only meaningful while dragging.
	DragX, DragY float64
	// Ghost is true when a touch drag shows a floating preview.
	Ghost bool
	// Dimmed is the template or item drawn half transparent during the
	// gesture, empty when nothing is dimmed.
	Dimmed    string
	Highlight model.Highlight
	CanUndo   bool
	CanRedo   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. By default the controller logs nowhere.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFeedback sets the highlight renderer.
func WithFeedback(f Feedback) Option {
	return func(c *Controller) {
		if f != nil {
			c.feedback = f
		}
	}
}

// WithThreshold sets how far, per axis, the pointer must travel before a
// press becomes a drag.
func WithThreshold(units float64) Option {
	return func(c *Controller) {
		if units >= 0 {
			c.threshold = units
		}
	}
}

// Controller is the gesture state machine. It is not safe for concurrent
// use; frontends must deliver events from a single goroutine.
type Controller struct {
	grid     *engine.Grid
	mapper   *engine.Mapper
	palette  model.Palette
	history  *engine.History
	feedback Feedback
	logger   *log.Logger

	threshold float64

	// Gesture fields, reset by finish.
	state            State
	active           *model.Item
	source           Source
	templateID       string
	originalPosition *model.Cell
	startX, startY   float64
	offsetX, offsetY float64
	lastX, lastY     float64
	highlight        model.Highlight
	before           engine.Snapshot
}

// New creates a controller driving grid. mapper must describe the same rows
// and columns; palette resolves template presses.
func New(grid *engine.Grid, mapper *engine.Mapper, palette model.Palette, opts ...Option) *Controller {
	c := &Controller{
		grid:      grid,
		mapper:    mapper,
		palette:   palette,
		history:   engine.NewHistory(),
		feedback:  nopFeedback{},
		logger:    log.New(io.Discard),
		threshold: model.DefaultGridConfig().DragThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Grid returns the driven grid.
func (c *Controller) Grid() *engine.Grid { return c.grid }

// Mapper returns the coordinate mapper.
func (c *Controller) Mapper() *engine.Mapper { return c.mapper }

// Palette returns the template palette.
func (c *Controller) Palette() model.Palette { return c.palette }

// SetPalette replaces the template palette. Rejected during a gesture.
func (c *Controller) SetPalette(p model.Palette) error {
	if c.state != StateIdle {
		return ErrBusy
	}
	c.palette = p
	return nil
}

// State returns the current gesture state.
func (c *Controller) State() State { return c.state }

// Status returns a presentation snapshot.
func (c *Controller) Status() Status {
	s := Status{
		State:     c.state,
		Highlight: c.highlight,
		CanUndo:   c.history.CanUndo(),
		CanRedo:   c.history.CanRedo(),
	}
	if c.active == nil {
		return s
	}
	cp := *c.active
	s.Active = &cp
	s.DragX = c.lastX - c.offsetX
	s.DragY = c.lastY - c.offsetY
	s.Ghost = c.state == StateDragging && c.source == SourceTouch
	switch {
	case c.templateID != "":
		s.Dimmed = c.templateID
	case s.Ghost:
		s.Dimmed = c.active.ID
	}
	return s
}

// Handle feeds one event through the state machine.
func (c *Controller) Handle(ev Event) Outcome {
	switch ev.Kind {
	case Press:
		return c.press(ev)
	case Move:
		return c.move(ev)
	case Release:
		return c.release(ev)
	case Cancel:
		return c.cancel()
	default:
		return Outcome{Kind: OutcomeIgnored}
	}
}

func (c *Controller) press(ev Event) Outcome {
	if c.state != StateIdle {
		c.logger.Debug("press ignored", "state", c.state)
		return Outcome{Kind: OutcomeIgnored, Err: ErrBusy}
	}

	before := engine.MakeSnapshot(c.grid, "")
	switch ev.Target.Kind {
	case TargetTemplate:
		t, ok := c.palette.Lookup(ev.Target.ID)
		if !ok {
			return Outcome{Kind: OutcomeIgnored, Err: fmt.Errorf("%w: template %q", ErrUnknownTarget, ev.Target.ID)}
		}
		c.active = model.NewItemFromTemplate(t)
		c.templateID = t.ID
	case TargetItem:
		it := c.grid.Item(ev.Target.ID)
		if it == nil {
			return Outcome{Kind: OutcomeIgnored, Err: fmt.Errorf("%w: item %q", ErrUnknownTarget, ev.Target.ID)}
		}
		anchor := it.Anchor
		c.originalPosition = &anchor
		c.grid.Remove(it)
		c.active = it
	default:
		// Controls and empty space never start a drag.
		return Outcome{Kind: OutcomeIgnored}
	}

	c.before = before
	c.source = ev.Source
	c.startX, c.startY = ev.X, ev.Y
	c.lastX, c.lastY = ev.X, ev.Y
	c.offsetX = ev.X - ev.Target.ElementX
	c.offsetY = ev.Y - ev.Target.ElementY
	c.state = StatePressed
	c.logger.Debug("pressed", "item", c.active.Name, "id", c.active.ID, "source", c.source)
	return Outcome{Kind: OutcomeNone, Item: c.activeCopy()}
}

func (c *Controller) move(ev Event) Outcome {
	switch c.state {
	case StatePressed:
		if math.Abs(ev.X-c.startX) <= c.threshold && math.Abs(ev.Y-c.startY) <= c.threshold {
			return Outcome{Kind: OutcomeNone, Item: c.activeCopy()}
		}
		c.state = StateDragging
		c.logger.Debug("dragging", "item", c.active.Name, "source", c.source)
	case StateDragging:
	default:
		return Outcome{Kind: OutcomeIgnored}
	}
	c.lastX, c.lastY = ev.X, ev.Y
	c.updateHighlight(ev.X, ev.Y)
	return Outcome{Kind: OutcomeNone, Item: c.activeCopy()}
}

func (c *Controller) updateHighlight(x, y float64) {
	if !c.mapper.IsOverGrid(x, y) {
		c.clearHighlight()
		return
	}
	cell, ok := c.mapper.ToCell(x, y)
	if !ok {
		c.clearHighlight()
		return
	}
	h := model.Highlight{
		Anchor: cell,
		Valid:  c.grid.CanPlace(c.active, cell.Row, cell.Col),
	}
	h.Cells = c.active.FootprintWithin(cell, c.grid.Rows(), c.grid.Cols())
	c.highlight = h
	c.feedback.ShowHighlight(h)
}

func (c *Controller) clearHighlight() {
	if c.highlight.Empty() {
		return
	}
	c.highlight = model.Highlight{}
	c.feedback.ClearHighlight()
}

func (c *Controller) release(ev Event) Outcome {
	switch c.state {
	case StatePressed:
		return c.tap()
	case StateDragging:
		c.lastX, c.lastY = ev.X, ev.Y
		c.state = StateResolving
		return c.resolvePlacement(ev.X, ev.Y)
	default:
		return Outcome{Kind: OutcomeIgnored}
	}
}

// tap handles a release that never crossed the drag threshold. A grid item
// goes back where it was and has its controls toggled; a template clone is
// dropped.
func (c *Controller) tap() Outcome {
	item := c.active
	if c.originalPosition == nil {
		c.logger.Debug("template tapped", "template", c.templateID)
		c.finish()
		return Outcome{Kind: OutcomeTapped}
	}
	out := c.rollback()
	if out.Kind != OutcomeRestored {
		return out
	}
	show := !item.ControlsVisible
	for _, other := range c.grid.Items() {
		other.ControlsVisible = false
	}
	item.ControlsVisible = show
	c.logger.Debug("item tapped", "item", item.Name, "controls", show)
	cp := *item
	c.finish()
	return Outcome{Kind: OutcomeTapped, Item: &cp}
}

func (c *Controller) cancel() Outcome {
	if c.state == StateIdle {
		return Outcome{Kind: OutcomeIgnored}
	}
	c.logger.Debug("gesture cancelled", "item", c.active.Name, "state", c.state)
	out := c.rollback()
	c.finish()
	return out
}

// resolvePlacement commits the active item at the release point or rolls it
// back.
func (c *Controller) resolvePlacement(x, y float64) Outcome {
	defer c.finish()

	var err error
	if !c.mapper.IsOverGrid(x, y) {
		err = ErrOutsideGrid
	} else {
		row, col := c.mapper.CellCoords(x, y)
		if err = c.grid.CheckCoords(c.active, row, col); err == nil {
			err = c.grid.Place(c.active, int(row), int(col))
		}
		if err == nil {
			c.commit()
			return Outcome{Kind: OutcomePlaced, Item: c.activeCopy()}
		}
	}

	c.logger.Warn("placement failed", "item", c.active.Name, "err", err)
	out := c.rollback()
	if out.Err == nil {
		out.Err = err
	}
	return out
}

func (c *Controller) commit() {
	it := c.active
	moved := c.originalPosition == nil || *c.originalPosition != it.Anchor
	if moved {
		c.before.Label = "Place " + it.Name
		c.history.Push(c.before)
	}
	c.logger.Info("item placed", "item", it.Name, "id", it.ID, "row", it.Anchor.Row, "col", it.Anchor.Col)
}

// rollback undoes the provisional detachment of the active item.
func (c *Controller) rollback() Outcome {
	if c.originalPosition == nil {
		c.logger.Debug("clone discarded", "template", c.templateID)
		return Outcome{Kind: OutcomeDiscarded, Item: c.activeCopy()}
	}
	pos := *c.originalPosition
	if err := c.grid.Place(c.active, pos.Row, pos.Col); err != nil {
		c.logger.Warn("restore failed, item destroyed", "item", c.active.Name, "err", err)
		c.before.Label = "Lose " + c.active.Name
		c.history.Push(c.before)
		return Outcome{Kind: OutcomeDestroyed, Item: c.activeCopy(), Err: fmt.Errorf("%w: %w", ErrRestoreFailed, err)}
	}
	c.logger.Debug("item restored", "item", c.active.Name, "row", pos.Row, "col", pos.Col)
	return Outcome{Kind: OutcomeRestored, Item: c.activeCopy()}
}

func (c *Controller) finish() {
	c.clearHighlight()
	c.state = StateIdle
	c.active = nil
	c.source = SourcePointer
	c.templateID = ""
	c.originalPosition = nil
	c.startX, c.startY = 0, 0
	c.offsetX, c.offsetY = 0, 0
	c.lastX, c.lastY = 0, 0
	c.before = engine.Snapshot{}
}

func (c *Controller) activeCopy() *model.Item {
	if c.active == nil {
		return nil
	}
	cp := *c.active
	return &cp
}

// Rotate turns a placed item a quarter turn and hides its controls. On
// failure the item stays as it was.
func (c *Controller) Rotate(itemID string) error {
	if c.state != StateIdle {
		return ErrBusy
	}
	it := c.grid.Item(itemID)
	if it == nil {
		return fmt.Errorf("%w: item %q", ErrUnknownTarget, itemID)
	}
	before := engine.MakeSnapshot(c.grid, "Rotate "+it.Name)
	err := engine.Rotate(c.grid, it)
	it.ControlsVisible = false
	if err != nil {
		c.logger.Warn("cannot rotate item here", "item", it.Name, "err", err)
		return err
	}
	c.history.Push(before)
	c.logger.Info("item rotated", "item", it.Name, "rotation", int(it.Rotation), "w", it.Width, "h", it.Height)
	return nil
}

// Undo restores the grid to the state before the last committed change.
// Returns false when there is nothing to undo.
func (c *Controller) Undo() (bool, error) {
	if c.state != StateIdle {
		return false, ErrBusy
	}
	snap, ok := c.history.Undo(engine.MakeSnapshot(c.grid, "Redo"))
	if !ok {
		return false, nil
	}
	if err := c.grid.Restore(snap.Layout); err != nil {
		return false, err
	}
	c.logger.Info("undo", "label", snap.Label)
	return true, nil
}

// Redo reapplies the last undone change.
func (c *Controller) Redo() (bool, error) {
	if c.state != StateIdle {
		return false, ErrBusy
	}
	snap, ok := c.history.Redo(engine.MakeSnapshot(c.grid, "Undo"))
	if !ok {
		return false, nil
	}
	if err := c.grid.Restore(snap.Layout); err != nil {
		return false, err
	}
	c.logger.Info("redo", "label", snap.Label)
	return true, nil
}

// Clear removes every item from the grid. The change can be undone.
func (c *Controller) Clear() error {
	if c.state != StateIdle {
		return ErrBusy
	}
	if c.grid.Len() == 0 {
		return nil
	}
	c.history.Push(engine.MakeSnapshot(c.grid, "Clear"))
	c.grid.Clear()
	c.logger.Info("grid cleared")
	return nil
}
