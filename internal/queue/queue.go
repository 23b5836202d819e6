// Package queue projects emergency case records into queue table rows.
package queue

import (
	"slices"
	"sync"
	"time"

	"smartcare/internal/triage"
)

// CaseRecord is one emergency case as served by the upstream HMS.
type CaseRecord struct {
	ID       int    `json:"id,omitempty"`
	QueueNo  int    `json:"queue_no,omitempty"`
	Token    string `json:"token"`
	Name     string `json:"name"`
	Symptom  string `json:"symptom"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
	Doctor   string `json:"doctor,omitempty"`
	Mode     string `json:"mode,omitempty"`
}

// Row is a rendered queue table row.
type Row struct {
	Position int
	Class    string
	CaseRecord
}

// Project turns cases into rows. Position follows input order and is never
// recomputed from priority.
func Project(cases []CaseRecord) []Row {
	rows := make([]Row, len(cases))
	for i, c := range cases {
		rows[i] = Row{
			Position:   i + 1,
			Class:      triage.RowStyle(c.Priority),
			CaseRecord: c,
		}
	}
	return rows
}

// Snapshot is the most recently fetched queue.
type Snapshot struct {
	mu        sync.RWMutex
	cases     []CaseRecord
	updatedAt time.Time
}

// Replace swaps in a new case list.
func (s *Snapshot) Replace(cases []CaseRecord, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases = slices.Clone(cases)
	s.updatedAt = at
}

// Cases returns a copy of the current case list and when it was fetched.
// The zero time means nothing has been fetched yet.
func (s *Snapshot) Cases() ([]CaseRecord, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.cases), s.updatedAt
}

// Statuses a doctor can move a case to.
var Statuses = []string{
	"Waiting",
	"Doctor Assigned",
	"In Progress",
	"Doctor En Route",
	"Completed",
	"Cancelled",
}
