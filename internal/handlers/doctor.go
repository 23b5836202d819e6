package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"smartcare/internal/config"
	"smartcare/internal/queue"
	"smartcare/internal/validation"
)

// csrfCookie is the upstream HMS's CSRF cookie.
const csrfCookie = "csrftoken"

// DoctorService is the part of the upstream HMS the doctor dashboard uses.
type DoctorService interface {
	DoctorCases(ctx context.Context, cookie string) []queue.CaseRecord
	SubmitCaseStatus(ctx context.Context, caseID int, status, csrfToken, cookie string)
}

// DoctorHandler renders the doctor dashboard and forwards status updates.
type DoctorHandler struct {
	cfg      *config.Config
	upstream DoctorService
}

// NewDoctorHandler creates a new doctor handler.
func NewDoctorHandler(cfg *config.Config, upstream DoctorService) *DoctorHandler {
	return &DoctorHandler{cfg: cfg, upstream: upstream}
}

// Dashboard lists the doctor's assigned cases. The upstream session cookie
// is forwarded as is, so an unauthenticated doctor simply sees no cases.
func (h *DoctorHandler) Dashboard(c fiber.Ctx) error {
	cases := h.upstream.DoctorCases(c.Context(), c.Get(fiber.HeaderCookie))

	pending := 0
	for _, cs := range cases {
		if cs.Status == "Waiting" {
			pending++
		}
	}

	return c.Render("doctor_dashboard", MergeBranding(fiber.Map{
		"Title":        "Doctor Dashboard",
		"Rows":         queue.Project(cases),
		"PendingCases": pending,
		"Statuses":     queue.Statuses,
		"CSRFToken":    c.Cookies(csrfCookie),
	}, h.cfg))
}

// UpdateCase forwards a status change upstream and returns to the dashboard.
// An empty status changes nothing.
func (h *DoctorHandler) UpdateCase(c fiber.Ctx) error {
	caseID, err := strconv.Atoi(c.Params("id"))
	if err != nil || caseID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid case id")
	}

	if status := c.FormValue("status"); status != "" {
		if !validation.ValidateCaseStatus(status) {
			return fiber.NewError(fiber.StatusBadRequest, "unknown case status")
		}
		csrf := c.FormValue("csrfmiddlewaretoken")
		if csrf == "" {
			csrf = c.Cookies(csrfCookie)
		}
		h.upstream.SubmitCaseStatus(c.Context(), caseID, status, csrf, c.Get(fiber.HeaderCookie))
	}

	return c.Redirect().To("/doctor/dashboard/")
}
