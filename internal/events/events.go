// Package events dispatches user actions on the page to their handlers.
//
// Handlers are registered per event kind and return an Outcome describing
// the feedback to render. Dispatching a kind nobody registered is a no-op.
package events

import (
	"context"
	"iter"
	"sync"

	"smartcare/internal/alerts"
	"smartcare/internal/hospitals"
	"smartcare/internal/triage"
)

// Kind names a user action.
type Kind string

// Event kinds.
const (
	BookingSubmitted   Kind = "booking.submit"
	FeatureClicked     Kind = "feature.click"
	HospitalSearched   Kind = "hospital.search"
	InstructionsWanted Kind = "instructions.show"
	TriageRequested    Kind = "triage.classify"
)

// Event is one user action. Scope is the patient session token.
type Event struct {
	Kind   Kind
	Scope  string
	Fields map[string]string
}

// Field returns a named field, or "" if absent.
func (e Event) Field(name string) string {
	return e.Fields[name]
}

// StatusBox is the inline feedback shown under the booking form.
type StatusBox struct {
	Class     string
	Icon      string
	Headline  string
	Detail    string
	LineBreak bool
}

// Outcome is what a handler wants rendered. The zero Outcome means nothing
// happens.
type Outcome struct {
	Redirect       string
	Alert          *alerts.Alert
	Status         *StatusBox
	Cards          []hospitals.Card
	Steps          iter.Seq[string]
	StepsFound     bool
	Classification *triage.Classification
}

// IsNoop reports whether the outcome has nothing to render.
func (o Outcome) IsNoop() bool {
	return o.Redirect == "" && o.Alert == nil && o.Status == nil &&
		o.Cards == nil && !o.StepsFound && o.Classification == nil
}

// Handler reacts to one event.
type Handler func(ctx context.Context, e Event) Outcome

// Dispatcher routes events to handlers.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Kind]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[Kind]Handler)}
}

// Register sets the handler for kind, replacing any previous one.
func (d *Dispatcher) Register(kind Kind, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = h
}

// Dispatch runs the handler for e.Kind. Unknown kinds yield the zero Outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) Outcome {
	d.mu.RLock()
	h, ok := d.handlers[e.Kind]
	d.mu.RUnlock()
	if !ok {
		return Outcome{}
	}
	return h(ctx, e)
}
