// Package triage maps reported symptom keywords to a fixed priority table.
package triage

import (
	"fmt"
	"sort"
)

// Label is one of the four fixed priority labels.
type Label string

// Priority labels, most urgent first.
const (
	Critical Label = "Critical"
	High     Label = "High"
	Medium   Label = "Medium"
	Low      Label = "Low"
)

// Symptom keywords recognized by the default table.
const (
	SymptomPain     = "pain"
	SymptomTrauma   = "trauma"
	SymptomBurn     = "burn"
	SymptomStroke   = "stroke"
	SymptomFever    = "fever"
	SymptomWeakness = "weakness"
	SymptomRoutine  = "routine"
)

// Rank returns the severity rank of the label (1 = most urgent).
// Unknown labels rank as Low.
func (l Label) Rank() int {
	switch l {
	case Critical:
		return 1
	case High:
		return 2
	case Medium:
		return 3
	default:
		return 4
	}
}

// ParseLabel returns the label for s, reporting false if s is not one of
// the four fixed labels.
func ParseLabel(s string) (Label, bool) {
	switch Label(s) {
	case Critical, High, Medium, Low:
		return Label(s), true
	}
	return Low, false
}

// Classification is the priority assigned to a symptom.
type Classification struct {
	Label Label `json:"priority"`
	Rank  int   `json:"score"`
}

// Default is returned for any unrecognized symptom.
var Default = Classification{Label: Low, Rank: 4}

// Entry is one row of a triage table.
type Entry struct {
	Symptom        string
	DisplayName    string
	Classification Classification
}

// Table is an immutable symptom-to-priority lookup.
type Table struct {
	entries map[string]Entry
}

// NewTable builds a table from entries. Labels must be one of the four fixed
// values, ranks must agree with their label and each symptom appears once.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.Symptom == "" {
			return nil, fmt.Errorf("triage entry with empty symptom")
		}
		if _, ok := ParseLabel(string(e.Classification.Label)); !ok {
			return nil, fmt.Errorf("symptom %q: unknown priority %q", e.Symptom, e.Classification.Label)
		}
		if e.Classification.Rank != e.Classification.Label.Rank() {
			return nil, fmt.Errorf("symptom %q: rank %d does not match priority %s",
				e.Symptom, e.Classification.Rank, e.Classification.Label)
		}
		if _, dup := t.entries[e.Symptom]; dup {
			return nil, fmt.Errorf("symptom %q defined twice", e.Symptom)
		}
		t.entries[e.Symptom] = e
	}
	return t, nil
}

// DefaultTable returns the built-in table.
func DefaultTable() *Table {
	t, _ := NewTable(defaultEntries)
	return t
}

var defaultEntries = []Entry{
	{SymptomPain, "Chest Pain / Breathing Difficulty", Classification{Critical, 1}},
	{SymptomTrauma, "Severe Physical Injury", Classification{High, 2}},
	{SymptomBurn, "Burns", Classification{High, 2}},
	{SymptomStroke, "Stroke Symptoms", Classification{Critical, 1}},
	{SymptomFever, "High Fever / Flu", Classification{Medium, 3}},
	{SymptomWeakness, "Severe Weakness", Classification{Medium, 3}},
	{SymptomRoutine, "Routine Checkup", Classification{Low, 4}},
}

// Classify returns the classification for symptom, or Default when the
// symptom is not in the table.
func (t *Table) Classify(symptom string) Classification {
	if t == nil {
		return Default
	}
	if e, ok := t.entries[symptom]; ok {
		return e.Classification
	}
	return Default
}

// Has reports whether symptom is listed in the table.
func (t *Table) Has(symptom string) bool {
	if t == nil {
		return false
	}
	_, ok := t.entries[symptom]
	return ok
}

// DisplayName returns the human-readable name of a symptom, falling back to
// the keyword itself.
func (t *Table) DisplayName(symptom string) string {
	if t != nil {
		if e, ok := t.entries[symptom]; ok && e.DisplayName != "" {
			return e.DisplayName
		}
	}
	return symptom
}

// Entries returns the table rows ordered by rank, then symptom.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Classification.Rank != out[j].Classification.Rank {
			return out[i].Classification.Rank < out[j].Classification.Rank
		}
		return out[i].Symptom < out[j].Symptom
	})
	return out
}

// Row styles applied to queue rows.
const (
	StyleCritical = "table-danger"
	StyleHigh     = "table-warning"
	StyleMedium   = "table-info"
	StyleLow      = "table-success"
)

// RowStyle returns the table row class for a priority label. Unknown labels
// get the lowest-severity style.
func RowStyle(label string) string {
	switch Label(label) {
	case Critical:
		return StyleCritical
	case High:
		return StyleHigh
	case Medium:
		return StyleMedium
	default:
		return StyleLow
	}
}
