package handlers

import (
	"html"

	"github.com/gofiber/fiber/v3"

	"smartcare/internal/events"
	"smartcare/internal/middleware"
)

// isHTMX reports whether the request was issued by htmx.
func isHTMX(c fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

// redirect sends the browser to target. htmx requests get an HX-Redirect
// header so the whole page navigates rather than swapping a fragment.
func redirect(c fiber.Ctx, target string) error {
	if isHTMX(c) {
		c.Set("HX-Redirect", target)
		return c.SendStatus(fiber.StatusOK)
	}
	return c.Redirect().To(target)
}

// htmxError returns an error message as HTML that HTMX will display.
// Uses 200 status so HTMX processes the swap (HTMX ignores non-2xx by default).
func htmxError(c fiber.Ctx, message string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(`<div class="alert alert-danger mt-3">` + html.EscapeString(message) + `</div>`)
}

// dispatch raises an event scoped to the request's patient session.
func dispatch(c fiber.Ctx, d *events.Dispatcher, kind events.Kind, fields map[string]string) events.Outcome {
	return d.Dispatch(c.Context(), events.Event{
		Kind:   kind,
		Scope:  middleware.PatientToken(c),
		Fields: fields,
	})
}
