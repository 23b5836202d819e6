// Package alerts keeps the transient, auto-dismissing notifications shown to
// each browsing session.
package alerts

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultDismissAfter is how long an alert stays up unless dismissed.
const DefaultDismissAfter = 5 * time.Second

// Kind selects the alert's colour.
type Kind string

// Alert kinds.
const (
	Info    Kind = "info"
	Success Kind = "success"
	Warning Kind = "warning"
	Danger  Kind = "danger"
)

// ParseKind maps s to a Kind. Anything unrecognized is Info.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case Success, Warning, Danger:
		return Kind(s)
	default:
		return Info
	}
}

// Alert is one notification node.
type Alert struct {
	ID           uuid.UUID
	Message      string
	Kind         Kind
	CreatedAt    time.Time
	DismissAfter time.Duration

	// Remaining is how much of DismissAfter was left when the alert was
	// read from the board.
	Remaining time.Duration
}

// Class returns the CSS classes of the rendered node.
func (a Alert) Class() string {
	return "alert alert-" + string(a.Kind) + " alert-dismissible fade show position-fixed"
}

// RemainingMillis is used by the template for the client-side timer.
func (a Alert) RemainingMillis() int64 {
	return a.Remaining.Milliseconds()
}

// Timer is a pending auto-dismissal.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type entry struct {
	alert Alert
	timer Timer
}

// Board holds the alert stack of every session scope.
type Board struct {
	mu       sync.Mutex
	delay    time.Duration
	schedule Scheduler
	now      func() time.Time
	observe  func(Alert)
	stacks   map[string][]*entry
}

// Option configures a Board.
type Option func(*Board)

// WithScheduler replaces the timer source.
func WithScheduler(s Scheduler) Option {
	return func(b *Board) { b.schedule = s }
}

// WithObserver registers a callback invoked for every presented alert.
func WithObserver(f func(Alert)) Option {
	return func(b *Board) { b.observe = f }
}

// NewBoard creates a board whose alerts auto-dismiss after delay.
func NewBoard(delay time.Duration, opts ...Option) *Board {
	if delay <= 0 {
		delay = DefaultDismissAfter
	}
	b := &Board{
		delay:    delay,
		schedule: afterFunc,
		now:      time.Now,
		stacks:   make(map[string][]*entry),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Present adds an alert to scope's stack and schedules its removal.
// Calls are never deduplicated or throttled.
func (b *Board) Present(scope, message string, kind Kind) Alert {
	if kind == "" {
		kind = Info
	}
	a := Alert{
		ID:           uuid.New(),
		Message:      message,
		Kind:         kind,
		CreatedAt:    b.now(),
		DismissAfter: b.delay,
		Remaining:    b.delay,
	}

	e := &entry{alert: a}
	b.mu.Lock()
	b.stacks[scope] = append(b.stacks[scope], e)
	e.timer = b.schedule(b.delay, func() { b.remove(scope, a.ID) })
	b.mu.Unlock()

	if b.observe != nil {
		b.observe(a)
	}
	return a
}

// Dismiss removes an alert before its timer fires and cancels the timer.
// It reports whether the alert was still present.
func (b *Board) Dismiss(scope string, id uuid.UUID) bool {
	e := b.remove(scope, id)
	if e == nil {
		return false
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	return true
}

// Active returns scope's alerts in the order they were presented, each with
// the time left before it is removed.
func (b *Board) Active(scope string) []Alert {
	now := b.now()

	b.mu.Lock()
	defer b.mu.Unlock()

	stack := b.stacks[scope]
	out := make([]Alert, len(stack))
	for i, e := range stack {
		a := e.alert
		a.Remaining = max(0, a.CreatedAt.Add(a.DismissAfter).Sub(now))
		out[i] = a
	}
	return out
}

// Clear drops every alert of scope and cancels their timers.
func (b *Board) Clear(scope string) {
	b.mu.Lock()
	stack := b.stacks[scope]
	delete(b.stacks, scope)
	b.mu.Unlock()

	for _, e := range stack {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
}

// remove deletes the alert if present. Removing a missing alert is a no-op.
func (b *Board) remove(scope string, id uuid.UUID) *entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	stack := b.stacks[scope]
	for i, e := range stack {
		if e.alert.ID != id {
			continue
		}
		stack = append(stack[:i], stack[i+1:]...)
		if len(stack) == 0 {
			delete(b.stacks, scope)
		} else {
			b.stacks[scope] = stack
		}
		return e
	}
	return nil
}
