package api

import (
	"github.com/gofiber/fiber/v3"

	"smartcare/internal/events"
	"smartcare/internal/middleware"
	"smartcare/internal/triage"
)

// TriageResult is the classification of one symptom.
type TriageResult struct {
	Symptom string `json:"symptom"`
	triage.Classification
}

// TableRow is one row of the published triage table.
type TableRow struct {
	Symptom string `json:"symptom"`
	Name    string `json:"name"`
	triage.Classification
}

// TriageHandler serves symptom classification via JSON API.
type TriageHandler struct {
	events *events.Dispatcher
	table  *triage.Table
}

// NewTriageHandler creates a new API triage handler.
func NewTriageHandler(d *events.Dispatcher, table *triage.Table) *TriageHandler {
	return &TriageHandler{events: d, table: table}
}

// Classify returns the priority of a symptom. Unlisted symptoms get the
// default Low priority rather than an error.
func (h *TriageHandler) Classify(c fiber.Ctx) error {
	symptom := c.Params("symptom")
	if symptom == "" {
		return jsonError(c, fiber.StatusBadRequest, "symptom is required")
	}

	out := h.events.Dispatch(c.Context(), events.Event{
		Kind:   events.TriageRequested,
		Scope:  middleware.PatientToken(c),
		Fields: map[string]string{events.FieldSymptom: symptom},
	})
	if out.Classification == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "triage unavailable")
	}

	return jsonSuccess(c, TriageResult{Symptom: symptom, Classification: *out.Classification})
}

// Table lists every known symptom with its priority, most urgent first.
func (h *TriageHandler) Table(c fiber.Ctx) error {
	entries := h.table.Entries()
	rows := make([]TableRow, len(entries))
	for i, e := range entries {
		rows[i] = TableRow{Symptom: e.Symptom, Name: e.DisplayName, Classification: e.Classification}
	}
	return jsonSuccess(c, rows)
}
