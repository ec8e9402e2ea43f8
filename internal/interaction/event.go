package interaction

import "github.com/piwi3910/backpack/internal/model"

// EventKind is the normalized gesture phase delivered by a frontend.
type EventKind int

const (
	Press EventKind = iota
	Move
	Release
	Cancel
)

func (k EventKind) String() string {
	switch k {
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Source identifies the input protocol an event was converted from.
type Source int

const (
	SourcePointer Source = iota // mouse or terminal mouse
	SourceTouch
)

func (s Source) String() string {
	if s == SourceTouch {
		return "touch"
	}
	return "pointer"
}

// TargetKind classifies the element struck by a press.
type TargetKind int

const (
	TargetNone     TargetKind = iota
	TargetTemplate            // palette entry; ID is the template ID
	TargetItem                // grid-resident item; ID is the item ID
	TargetControl             // rotate affordance or other button, never dragged
)

// Target is the element under a press, with its top-left corner in surface
// coordinates so the pointer-to-item offset can be kept during the drag.
type Target struct {
	Kind     TargetKind
	ID       string
	ElementX float64
	ElementY float64
}

// Event is a press, move, release or cancel in surface coordinates. Target is
// only read for Press.
type Event struct {
	Kind   EventKind
	X, Y   float64
	Source Source
	Target Target
}

// OutcomeKind is what a single event did to the grid.
type OutcomeKind int

const (
	OutcomeNone      OutcomeKind = iota // accepted, nothing committed yet
	OutcomeIgnored                      // rejected or meaningless in the current state
	OutcomePlaced                       // active item committed at a new anchor
	OutcomeRestored                     // active item returned to its original anchor
	OutcomeDiscarded                    // template clone dropped
	OutcomeDestroyed                    // rollback failed, item removed for good
	OutcomeTapped                       // release without movement
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNone:
		return "none"
	case OutcomeIgnored:
		return "ignored"
	case OutcomePlaced:
		return "placed"
	case OutcomeRestored:
		return "restored"
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeDestroyed:
		return "destroyed"
	case OutcomeTapped:
		return "tapped"
	default:
		return "unknown"
	}
}

// Outcome reports the result of Handle. Item is a copy of the active item at
// the time the event was processed, nil when there was none. Err explains
// ignored events and failed placements; it is informational only.
type Outcome struct {
	Kind OutcomeKind
	Item *model.Item
	Err  error
}

// Committed reports whether the grid ended the gesture in a new state.
func (o Outcome) Committed() bool {
	return o.Kind == OutcomePlaced || o.Kind == OutcomeDestroyed
}
