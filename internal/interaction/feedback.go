package interaction

import "github.com/piwi3910/backpack/internal/model"

// Feedback renders placement previews. Implementations must not mutate the
// grid; they are called synchronously from Handle.
type Feedback interface {
	ShowHighlight(h model.Highlight)
	ClearHighlight()
}

type nopFeedback struct{}

func (nopFeedback) ShowHighlight(model.Highlight) {}
func (nopFeedback) ClearHighlight()               {}

// FeedbackFunc adapts a single callback to Feedback. The callback receives
// an empty Highlight when the preview is cleared.
type FeedbackFunc func(h model.Highlight)

func (f FeedbackFunc) ShowHighlight(h model.Highlight) { f(h) }
func (f FeedbackFunc) ClearHighlight()                 { f(model.Highlight{}) }
