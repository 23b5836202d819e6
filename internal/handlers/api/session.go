package api

import (
	"github.com/gofiber/fiber/v3"

	"smartcare/internal/middleware"
)

// SessionHandler exposes the patient session token.
type SessionHandler struct{}

// NewSessionHandler creates a new API session handler.
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// Show returns the current session token, creating it on first use.
func (h *SessionHandler) Show(c fiber.Ctx) error {
	token := middleware.PatientToken(c)
	if token == "" {
		return jsonError(c, fiber.StatusInternalServerError, "no patient session")
	}
	return jsonSuccess(c, fiber.Map{"token": token})
}
