package handlers

import (
	"slices"

	"github.com/gofiber/fiber/v3"

	"smartcare/internal/config"
	"smartcare/internal/events"
	"smartcare/internal/triage"
)

// ActionHandler turns page interactions into events and renders their
// outcome as htmx fragments.
type ActionHandler struct {
	cfg    *config.Config
	events *events.Dispatcher
	triage *triage.Table
}

// NewActionHandler creates a new action handler.
func NewActionHandler(cfg *config.Config, d *events.Dispatcher, table *triage.Table) *ActionHandler {
	return &ActionHandler{cfg: cfg, events: d, triage: table}
}

// Booking handles the booking form and returns the help status box.
func (h *ActionHandler) Booking(c fiber.Ctx) error {
	out := dispatch(c, h.events, events.BookingSubmitted, map[string]string{
		events.FieldCareMode: c.FormValue("careMode"),
	})
	if out.Status == nil {
		return htmxError(c, "Could not submit the request. Please try again.")
	}
	return c.Render("partials/help_status", fiber.Map{
		"Status": out.Status,
	}, "")
}

// Feature handles a click on a feature card.
func (h *ActionHandler) Feature(c fiber.Ctx) error {
	out := dispatch(c, h.events, events.FeatureClicked, map[string]string{
		events.FieldFeature: c.Params("feature"),
	})
	switch {
	case out.Redirect != "":
		return redirect(c, out.Redirect)
	case out.Alert != nil:
		return c.Render("partials/alert", out.Alert, "")
	default:
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Instructions renders the first-aid steps for a symptom. Unknown symptoms
// get 204 so the current list stays in place.
func (h *ActionHandler) Instructions(c fiber.Ctx) error {
	symptom := c.Params("symptom")
	out := dispatch(c, h.events, events.InstructionsWanted, map[string]string{
		events.FieldSymptom: symptom,
	})
	if !out.StepsFound {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Render("partials/instruction_list", fiber.Map{
		"Symptom": h.triage.DisplayName(symptom),
		"Steps":   slices.Collect(out.Steps),
	}, "")
}
