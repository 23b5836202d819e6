package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"smartcare/internal/sessionid"
)

const patientSessionLocal = "patient_session"

// fiberSession adapts a fiber session to sessionid.Store.
type fiberSession struct {
	sess *session.Middleware
}

func (s fiberSession) Get(key string) any { return s.sess.Get(key) }
func (s fiberSession) Set(key string, value any) { s.sess.Set(key, value) }
func (s fiberSession) Delete(key string) { s.sess.Delete(key) }

// PatientSession opens the patient session context for each request and
// stores it in locals. It must run after the fiber session middleware.
func PatientSession(provider *sessionid.Provider) fiber.Handler {
	return func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		if sess == nil {
			return fiber.NewError(fiber.StatusInternalServerError, "session unavailable")
		}
		c.Locals(patientSessionLocal, provider.Open(fiberSession{sess: sess}))
		return c.Next()
	}
}

// Patient returns the request's patient session context, or nil when the
// PatientSession middleware did not run.
func Patient(c fiber.Ctx) *sessionid.Context {
	pc, _ := c.Locals(patientSessionLocal).(*sessionid.Context)
	return pc
}

// PatientToken returns the request's session token, creating it on first use.
func PatientToken(c fiber.Ctx) string {
	if pc := Patient(c); pc != nil {
		return pc.Token()
	}
	return ""
}

// EndPatientSession drops the token and destroys the underlying session.
func EndPatientSession(c fiber.Ctx) error {
	if pc := Patient(c); pc != nil {
		pc.Close()
	}
	if sess := session.FromContext(c); sess != nil {
		return sess.Destroy()
	}
	return nil
}
