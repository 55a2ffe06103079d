package pipeline

import (
	"github.com/ironsheep/scope/internal/deps"
	"github.com/ironsheep/scope/internal/region"
)

// State is a pipeline state.
type State string

const (
	Idle                 State = "idle"
	CheckingDependencies State = "checking_dependencies"
	SelectingRegion      State = "selecting_region"
	Capturing            State = "capturing"
	Enhancing            State = "enhancing"
	Recognizing          State = "recognizing"
	Delivered            State = "delivered"
	Aborted              State = "aborted"
)

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == Delivered || s == Aborted
}

// transitions lists the legal successor states.
var transitions = map[State][]State{
	Idle:                 {CheckingDependencies},
	CheckingDependencies: {SelectingRegion, Aborted},
	SelectingRegion:      {Capturing, Aborted},
	Capturing:            {Enhancing, Recognizing, Aborted},
	Enhancing:            {Recognizing},
	Recognizing:          {Delivered},
}

// CanTransition reports whether from -> to is a legal step.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Recognition classifies what the OCR stage produced.
type Recognition string

const (
	// TextFound: recognition succeeded with non-empty text.
	TextFound Recognition = "found"

	// TextEmpty: recognition succeeded but found no text.
	TextEmpty Recognition = "empty"

	// TextFailed: recognition itself failed.
	TextFailed Recognition = "failed"
)

// Result is the single terminal outcome of one run. It is built once by
// Pipeline.Run and not modified afterwards.
type Result struct {
	State State `json:"state"`

	// Reason is set for Aborted runs and for Delivered runs whose
	// recognition degraded.
	Reason Reason `json:"reason,omitempty"`

	// Text is the recognized text, or the placeholder when Placeholder is
	// true. Empty only for Aborted runs.
	Text        string      `json:"text,omitempty"`
	Placeholder bool        `json:"placeholder,omitempty"`
	Recognition Recognition `json:"recognition,omitempty"`

	Region    *region.Region     `json:"region,omitempty"`
	Languages []string           `json:"languages,omitempty"`
	Missing   []deps.Requirement `json:"missing,omitempty"`
	Enhanced  bool               `json:"enhanced,omitempty"`

	// Err is a *Failure for aborted and degraded runs.
	Err error `json:"-"`

	// Trace is every state the run passed through, starting with Idle.
	Trace []State `json:"trace"`
}

// Delivered reports whether the run reached Delivered.
func (r Result) Delivered() bool {
	return r.State == Delivered
}

// Failure returns the run's failure, if any.
func (r Result) Failure() *Failure {
	f, _ := r.Err.(*Failure)
	return f
}

// Visited reports whether the run passed through s.
func (r Result) Visited(s State) bool {
	for _, v := range r.Trace {
		if v == s {
			return true
		}
	}
	return false
}
