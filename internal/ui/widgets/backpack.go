package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/backpack/internal/engine"
	"github.com/piwi3910/backpack/internal/interaction"
	"github.com/piwi3910/backpack/internal/model"
)

// Item colors, picked by the item's template position in the palette.
var itemColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 220},  // green
	{R: 33, G: 150, B: 243, A: 220}, // blue
	{R: 255, G: 152, B: 0, A: 220},  // orange
	{R: 156, G: 39, B: 176, A: 220}, // purple
	{R: 0, G: 188, B: 212, A: 220},  // cyan
	{R: 244, G: 67, B: 54, A: 220},  // red
	{R: 255, G: 235, B: 59, A: 220}, // yellow
	{R: 121, G: 85, B: 72, A: 220},  // brown
}

var (
	gridBackground = color.NRGBA{R: 60, G: 52, B: 44, A: 255}
	cellColor      = color.NRGBA{R: 92, G: 80, B: 68, A: 255}
	validColor     = color.NRGBA{R: 90, G: 200, B: 90, A: 255}
	invalidColor   = color.NRGBA{R: 220, G: 70, B: 70, A: 255}
	outlineColor   = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
	controlColor   = color.NRGBA{R: 250, G: 250, B: 250, A: 230}
)

const (
	surfacePadding = 8  // space around the grid
	paletteGap     = 32 // between the grid and the palette column
	paletteSpacing = 18 // between palette entries, leaves room for the name
	controlSize    = 16 // rotate affordance
	dimmedAlpha    = 90
	ghostAlpha     = 140
)

// Backpack draws the grid, the placed items and the template palette, and
// turns mouse, drag and touch input into controller events. It is the
// highlight renderer for its controller.
type Backpack struct {
	widget.BaseWidget

	ctrl      *interaction.Controller
	highlight model.Highlight

	// OnOutcome is called after every handled event that ended a gesture or
	// rotated an item.
	OnOutcome func(interaction.Outcome)
	// OnError is called when a rotate request fails.
	OnError func(error)

	source  interaction.Source
	down    bool
	last    fyne.Position
	control string // item whose rotate control is under the press
}

// NewBackpack creates a backpack widget driving grid. The controller is
// built here so the widget can be its feedback renderer; opts are passed on.
func NewBackpack(grid *engine.Grid, cfg model.GridConfig, palette model.Palette, opts ...interaction.Option) *Backpack {
	b := &Backpack{}
	mapper := engine.NewMapper(cfg, surfacePadding, surfacePadding)
	all := []interaction.Option{interaction.WithThreshold(cfg.DragThreshold)}
	all = append(all, opts...)
	all = append(all, interaction.WithFeedback(b))
	b.ctrl = interaction.New(grid, mapper, palette, all...)
	b.ExtendBaseWidget(b)
	return b
}

// Controller returns the gesture controller behind the widget.
func (b *Backpack) Controller() *interaction.Controller { return b.ctrl }

// ShowHighlight implements interaction.Feedback.
func (b *Backpack) ShowHighlight(h model.Highlight) {
	b.highlight = h
	b.Refresh()
}

// ClearHighlight implements interaction.Feedback.
func (b *Backpack) ClearHighlight() {
	b.highlight = model.Highlight{}
	b.Refresh()
}

// Highlight returns the highlight currently drawn.
func (b *Backpack) Highlight() model.Highlight { return b.highlight }

// ─── Geometry ──────────────────────────────────────────────

// paletteSlot is where a template is drawn in the palette column.
type paletteSlot struct {
	template model.Template
	rect     engine.Rect
}

func (b *Backpack) paletteSlots() []paletteSlot {
	m := b.ctrl.Mapper()
	x := m.Bounds().Right() + paletteGap
	y := m.OriginY
	var slots []paletteSlot
	for _, t := range b.ctrl.Palette().Templates {
		w, h := m.ItemSize(t.Width, t.Height)
		slots = append(slots, paletteSlot{template: t, rect: engine.Rect{X: x, Y: y, W: w, H: h}})
		y += h + paletteSpacing
	}
	return slots
}

func controlRect(r engine.Rect) engine.Rect {
	return engine.Rect{X: r.Right() - controlSize - 2, Y: r.Y + 2, W: controlSize, H: controlSize}
}

// hitTest finds the element under (x, y). Rotate controls win over the item
// they sit on, grid items over the palette.
func (b *Backpack) hitTest(x, y float64) interaction.Target {
	m := b.ctrl.Mapper()
	items := b.ctrl.Grid().Items()
	for _, it := range items {
		if it.ControlsVisible && controlRect(m.FootprintRect(*it)).Contains(x, y) {
			return interaction.Target{Kind: interaction.TargetControl, ID: it.ID}
		}
	}
	for _, it := range items {
		r := m.FootprintRect(*it)
		if r.Contains(x, y) {
			return interaction.Target{Kind: interaction.TargetItem, ID: it.ID, ElementX: r.X, ElementY: r.Y}
		}
	}
	for _, s := range b.paletteSlots() {
		if s.rect.Contains(x, y) {
			return interaction.Target{Kind: interaction.TargetTemplate, ID: s.template.ID, ElementX: s.rect.X, ElementY: s.rect.Y}
		}
	}
	return interaction.Target{}
}

func (b *Backpack) colorFor(templateID string) color.NRGBA {
	for i, t := range b.ctrl.Palette().Templates {
		if t.ID == templateID {
			return itemColors[i%len(itemColors)]
		}
	}
	sum := 0
	for _, ch := range templateID {
		sum += int(ch)
	}
	return itemColors[sum%len(itemColors)]
}

// ─── Input ─────────────────────────────────────────────────

func (b *Backpack) press(pos fyne.Position, src interaction.Source) {
	x, y := float64(pos.X), float64(pos.Y)
	target := b.hitTest(x, y)
	b.down = true
	b.last = pos
	b.source = src
	b.control = ""
	if target.Kind == interaction.TargetControl {
		b.control = target.ID
	}
	b.dispatch(interaction.Event{Kind: interaction.Press, X: x, Y: y, Source: src, Target: target})
}

func (b *Backpack) release(pos fyne.Position) {
	if !b.down {
		return
	}
	b.down = false
	b.last = pos
	x, y := float64(pos.X), float64(pos.Y)
	if b.control != "" {
		id := b.control
		b.control = ""
		if t := b.hitTest(x, y); t.Kind == interaction.TargetControl && t.ID == id {
			b.rotate(id)
			return
		}
	}
	b.dispatch(interaction.Event{Kind: interaction.Release, X: x, Y: y, Source: b.source})
}

func (b *Backpack) rotate(id string) {
	err := b.ctrl.Rotate(id)
	b.Refresh()
	if err != nil {
		if b.OnError != nil {
			b.OnError(err)
		}
		return
	}
	if b.OnOutcome != nil {
		cp := *b.ctrl.Grid().Item(id)
		b.OnOutcome(interaction.Outcome{Kind: interaction.OutcomePlaced, Item: &cp})
	}
}

// Cancel aborts the current gesture, if any.
func (b *Backpack) Cancel() {
	b.down = false
	b.control = ""
	b.dispatch(interaction.Event{Kind: interaction.Cancel, Source: b.source})
}

func (b *Backpack) dispatch(ev interaction.Event) {
	out := b.ctrl.Handle(ev)
	b.Refresh()
	if out.Kind == interaction.OutcomeNone || out.Kind == interaction.OutcomeIgnored {
		return
	}
	if b.OnOutcome != nil {
		b.OnOutcome(out)
	}
}

// MouseDown implements desktop.Mouseable.
func (b *Backpack) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	b.press(ev.Position, interaction.SourcePointer)
}

// MouseUp implements desktop.Mouseable.
func (b *Backpack) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	b.release(ev.Position)
}

// Dragged implements fyne.Draggable. Mouse and touch moves both arrive here.
func (b *Backpack) Dragged(ev *fyne.DragEvent) {
	if !b.down {
		return
	}
	b.last = ev.Position
	b.dispatch(interaction.Event{
		Kind:   interaction.Move,
		X:      float64(ev.Position.X),
		Y:      float64(ev.Position.Y),
		Source: b.source,
	})
}

// DragEnd implements fyne.Draggable. The drag carries no final position, so
// the last seen one is used.
func (b *Backpack) DragEnd() {
	b.release(b.last)
}

// TouchDown implements mobile.Touchable.
func (b *Backpack) TouchDown(ev *mobile.TouchEvent) {
	b.press(ev.Position, interaction.SourceTouch)
}

// TouchUp implements mobile.Touchable.
func (b *Backpack) TouchUp(ev *mobile.TouchEvent) {
	b.release(ev.Position)
}

// TouchCancel implements mobile.Touchable.
func (b *Backpack) TouchCancel(*mobile.TouchEvent) {
	b.Cancel()
}

// ─── Rendering ─────────────────────────────────────────────

func (b *Backpack) CreateRenderer() fyne.WidgetRenderer {
	r := &backpackRenderer{b: b}
	r.rebuild()
	return r
}

// surfaceSize covers the grid and the palette column.
func (b *Backpack) surfaceSize() fyne.Size {
	bounds := b.ctrl.Mapper().Bounds()
	w := bounds.Right() + surfacePadding
	h := bounds.Bottom() + surfacePadding
	for _, s := range b.paletteSlots() {
		if s.rect.Right()+surfacePadding > w {
			w = s.rect.Right() + surfacePadding
		}
		if s.rect.Bottom()+paletteSpacing > h {
			h = s.rect.Bottom() + paletteSpacing
		}
	}
	return fyne.NewSize(float32(w), float32(h))
}

type backpackRenderer struct {
	b       *Backpack
	objects []fyne.CanvasObject
}

func (r *backpackRenderer) rebuild() {
	r.objects = nil
	b := r.b
	m := b.ctrl.Mapper()
	status := b.ctrl.Status()

	bounds := m.Bounds()
	r.add(rect(gridBackground, engine.Rect{
		X: bounds.X - surfacePadding/2, Y: bounds.Y - surfacePadding/2,
		W: bounds.W + surfacePadding, H: bounds.H + surfacePadding,
	}))

	for row := 0; row < m.Rows; row++ {
		for col := 0; col < m.Cols; col++ {
			cell := model.Cell{Row: row, Col: col}
			fill := cellColor
			if valid, ok := b.highlight.ValidAt(cell); ok {
				fill = invalidColor
				if valid {
					fill = validColor
				}
			}
			r.add(rect(fill, m.CellRect(cell)))
		}
	}

	for _, it := range b.ctrl.Grid().Items() {
		ir := m.FootprintRect(*it)
		r.drawItem(*it, ir, b.colorFor(it.TemplateID))
		if it.ControlsVisible {
			cr := controlRect(ir)
			r.add(rect(controlColor, cr))
			label := canvas.NewText("⟳", outlineColor)
			label.TextSize = 12
			label.Move(fyne.NewPos(float32(cr.X+3), float32(cr.Y)))
			r.add(label)
		}
	}

	for _, s := range b.paletteSlots() {
		fill := b.colorFor(s.template.ID)
		if status.Dimmed == s.template.ID {
			fill.A = dimmedAlpha
		}
		r.drawTemplate(s, fill)
	}

	// The active item follows the pointer; while merely pressed DragX/DragY
	// is still the element's own corner.
	if status.Active != nil {
		w, h := m.ItemSize(status.Active.Width, status.Active.Height)
		fill := b.colorFor(status.Active.TemplateID)
		if status.Ghost {
			fill.A = ghostAlpha
		}
		r.drawItem(*status.Active, engine.Rect{X: status.DragX, Y: status.DragY, W: w, H: h}, fill)
	}
}

func (r *backpackRenderer) drawItem(it model.Item, at engine.Rect, fill color.NRGBA) {
	body := rect(fill, at)
	body.StrokeColor = outlineColor
	body.StrokeWidth = 1
	body.CornerRadius = 4
	r.add(body)
	if at.W > 30 && at.H > 16 {
		label := canvas.NewText(it.Name, color.Black)
		label.TextSize = 10
		label.Move(fyne.NewPos(float32(at.X+3), float32(at.Y+2)))
		r.add(label)
	}
}

func (r *backpackRenderer) drawTemplate(s paletteSlot, fill color.NRGBA) {
	body := rect(fill, s.rect)
	body.StrokeColor = outlineColor
	body.StrokeWidth = 1
	body.CornerRadius = 4
	r.add(body)
	label := canvas.NewText(fmt.Sprintf("%s %dx%d", s.template.Name, s.template.Width, s.template.Height), theme.Color(theme.ColorNameForeground))
	label.TextSize = 10
	label.Move(fyne.NewPos(float32(s.rect.X), float32(s.rect.Bottom()+2)))
	r.add(label)
}

func (r *backpackRenderer) add(o fyne.CanvasObject) {
	r.objects = append(r.objects, o)
}

func rect(fill color.Color, at engine.Rect) *canvas.Rectangle {
	cr := canvas.NewRectangle(fill)
	cr.Resize(fyne.NewSize(float32(at.W), float32(at.H)))
	cr.Move(fyne.NewPos(float32(at.X), float32(at.Y)))
	return cr
}

func (r *backpackRenderer) Layout(fyne.Size)             {}
func (r *backpackRenderer) Refresh()                     { r.rebuild() }
func (r *backpackRenderer) Destroy()                     {}
func (r *backpackRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *backpackRenderer) MinSize() fyne.Size           { return r.b.surfaceSize() }
