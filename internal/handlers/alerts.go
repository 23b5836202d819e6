package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"smartcare/internal/alerts"
	"smartcare/internal/middleware"
)

// AlertHandler serves the session's alert stack.
type AlertHandler struct {
	board *alerts.Board
}

// NewAlertHandler creates a new alert handler.
func NewAlertHandler(board *alerts.Board) *AlertHandler {
	return &AlertHandler{board: board}
}

// List renders the session's active alerts.
func (h *AlertHandler) List(c fiber.Ctx) error {
	return c.Render("partials/alerts", fiber.Map{
		"Alerts": h.board.Active(middleware.PatientToken(c)),
	}, "")
}

// Dismiss removes an alert early. Dismissing an alert that already expired
// is not an error; the node is removed client side either way.
func (h *AlertHandler) Dismiss(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid alert id")
	}
	h.board.Dismiss(middleware.PatientToken(c), id)
	return c.SendString("")
}

// EndSession clears the session's alerts and ends the patient session.
func (h *AlertHandler) EndSession(c fiber.Ctx) error {
	h.board.Clear(middleware.PatientToken(c))
	if err := middleware.EndPatientSession(c); err != nil {
		return err
	}
	return redirect(c, "/")
}
