package handlers

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeHandler handles Kubernetes health probe endpoints.
type ProbeHandler struct {
	upstream Pinger
	db       Pinger
}

// NewProbeHandler creates a new probe handler. database may be nil when
// triage statistics are disabled.
func NewProbeHandler(upstream, database Pinger) *ProbeHandler {
	return &ProbeHandler{upstream: upstream, db: database}
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// Returns 200 OK if the upstream HMS (and the statistics database, when
// configured) is reachable.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if err := h.upstream.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "upstream unavailable",
		})
	}

	if h.db != nil {
		if err := h.db.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "error",
				"error":  "database unavailable",
			})
		}
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
