package handlers

import (
	"github.com/gofiber/fiber/v3"

	"smartcare/internal/config"
	"smartcare/internal/events"
	"smartcare/internal/hospitals"
)

// HospitalHandler handles the hospital network page and its search box.
type HospitalHandler struct {
	cfg    *config.Config
	events *events.Dispatcher
}

// NewHospitalHandler creates a new hospital handler.
func NewHospitalHandler(cfg *config.Config, d *events.Dispatcher) *HospitalHandler {
	return &HospitalHandler{cfg: cfg, events: d}
}

// Index renders the hospital cards filtered by ?q=. htmx requests get only
// the card list.
func (h *HospitalHandler) Index(c fiber.Ctx) error {
	query := c.Query("q")
	out := dispatch(c, h.events, events.HospitalSearched, map[string]string{
		events.FieldQuery: query,
	})

	data := fiber.Map{
		"Query":        query,
		"Cards":        out.Cards,
		"VisibleCount": hospitals.VisibleCount(out.Cards),
	}

	if isHTMX(c) {
		return c.Render("partials/hospital_cards", data, "")
	}

	data["Title"] = "Hospital Network"
	return c.Render("hospitals", MergeBranding(data, h.cfg))
}
