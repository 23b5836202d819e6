package handlers

import (
	"github.com/gofiber/fiber/v3"

	"smartcare/internal/config"
	"smartcare/internal/events"
	"smartcare/internal/instructions"
	"smartcare/internal/triage"
)

// SymptomOption is one entry of a symptom picker.
type SymptomOption struct {
	Symptom string
	Name    string
}

// PageHandler renders the static patient-facing pages.
type PageHandler struct {
	cfg          *config.Config
	catalog      *config.Catalog
	triage       *triage.Table
	instructions *instructions.Catalog
}

// NewPageHandler creates a new page handler.
func NewPageHandler(cfg *config.Config, catalog *config.Catalog, table *triage.Table, steps *instructions.Catalog) *PageHandler {
	return &PageHandler{cfg: cfg, catalog: catalog, triage: table, instructions: steps}
}

// Index renders the landing page with feature cards and the booking form.
func (h *PageHandler) Index(c fiber.Ctx) error {
	return c.Render("index", MergeBranding(fiber.Map{
		"Title":    "Emergency Help",
		"Features": h.catalog.Features,
		"Symptoms": h.symptomOptions(),
		"CareMode": "",
	}, h.cfg))
}

// HomeCare renders the booking form preset to doctor-at-home mode.
func (h *PageHandler) HomeCare(c fiber.Ctx) error {
	return c.Render("home_care", MergeBranding(fiber.Map{
		"Title":    "Home Care",
		"Symptoms": h.symptomOptions(),
		"CareMode": events.CareModeHome,
	}, h.cfg))
}

// Patient renders the patient page: first-aid instructions and the triage
// reference table.
func (h *PageHandler) Patient(c fiber.Ctx) error {
	options := make([]SymptomOption, 0)
	for _, s := range h.instructions.Symptoms() {
		options = append(options, SymptomOption{Symptom: s, Name: h.triage.DisplayName(s)})
	}

	type triageRow struct {
		triage.Entry
		Class string
	}
	entries := h.triage.Entries()
	rows := make([]triageRow, len(entries))
	for i, e := range entries {
		rows[i] = triageRow{Entry: e, Class: triage.RowStyle(string(e.Classification.Label))}
	}

	return c.Render("patient", MergeBranding(fiber.Map{
		"Title":               "Patient",
		"InstructionSymptoms": options,
		"TriageRows":          rows,
	}, h.cfg))
}

func (h *PageHandler) symptomOptions() []SymptomOption {
	entries := h.triage.Entries()
	out := make([]SymptomOption, len(entries))
	for i, e := range entries {
		out[i] = SymptomOption{Symptom: e.Symptom, Name: e.DisplayName}
	}
	return out
}
