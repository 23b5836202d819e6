// Package instructions holds the first-aid steps shown to patients while they
// wait for help.
package instructions

import (
	"iter"
	"slices"
	"sort"
)

// Catalog is an immutable symptom-to-steps lookup.
type Catalog struct {
	steps map[string][]string
}

// NewCatalog copies steps into a new catalog.
func NewCatalog(steps map[string][]string) *Catalog {
	c := &Catalog{steps: make(map[string][]string, len(steps))}
	for symptom, list := range steps {
		c.steps[symptom] = slices.Clone(list)
	}
	return c
}

// DefaultCatalog returns the built-in instructions.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultSteps)
}

var defaultSteps = map[string][]string{
	"pain": {
		"Make patient sit or lie comfortably",
		"Loosen tight clothing",
		"Do not give food or water",
		"Monitor breathing continuously",
	},
	"trauma": {
		"Do not move patient unnecessarily",
		"Apply pressure to stop bleeding",
		"Keep patient warm",
	},
	"burn": {
		"Cool burn with running water",
		"Do not apply ointments",
		"Cover with clean cloth",
	},
	"fever": {
		"Keep patient hydrated",
		"Monitor temperature",
		"Avoid heavy clothing",
	},
	"stroke": {
		"Note the time symptoms started",
		"Do not give food or drink",
		"Keep patient calm and lying down",
		"Clear airway if needed",
	},
	"weakness": {
		"Help patient sit or lie down",
		"Check for breathing",
		"Keep warm",
		"Stay with patient",
	},
}

// For returns the steps for symptom as a sequence that can be ranged over any
// number of times. found is false when the symptom has no entry, which is not
// the same as an entry with no steps.
func (c *Catalog) For(symptom string) (steps iter.Seq[string], found bool) {
	if c == nil {
		return nil, false
	}
	list, ok := c.steps[symptom]
	if !ok {
		return nil, false
	}
	return func(yield func(string) bool) {
		for _, s := range list {
			if !yield(s) {
				return
			}
		}
	}, true
}

// Symptoms lists the symptoms that have instructions, sorted.
func (c *Catalog) Symptoms() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.steps))
	for s := range c.steps {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
