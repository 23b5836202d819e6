package api

import (
	"github.com/gofiber/fiber/v3"
)

// apiResponse wraps every JSON API response.
type apiResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(apiResponse{Status: "ok", Data: data})
}

// jsonError sends a failed response with the given HTTP status.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(apiResponse{Status: "error", Error: message})
}
