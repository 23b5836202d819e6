package server

import (
	"net/http"

	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"smartcare/internal/alerts"
	"smartcare/internal/config"
	"smartcare/internal/events"
	"smartcare/internal/handlers"
	"smartcare/internal/handlers/api"
	"smartcare/internal/instructions"
	"smartcare/internal/middleware"
	"smartcare/internal/queue"
	"smartcare/internal/sessionid"
	"smartcare/internal/triage"
)

// Upstream is the part of the upstream HMS client the routes use.
type Upstream interface {
	handlers.CaseLister
	handlers.DoctorService
	handlers.Pinger
}

// Deps are the components the routes are served from.
type Deps struct {
	Catalog      *config.Catalog
	Triage       *triage.Table
	Instructions *instructions.Catalog
	Events       *events.Dispatcher
	Alerts       *alerts.Board
	Snapshot     *queue.Snapshot
	Upstream     Upstream
	Sessions     *sessionid.Provider

	// Optional
	Database handlers.Pinger
	Metrics  http.Handler
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(deps Deps) {
	// Probes and metrics
	probeHandler := handlers.NewProbeHandler(deps.Upstream, deps.Database)
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	if deps.Metrics != nil {
		s.App.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	// Everything below is scoped to a patient session
	patient := s.App.Group("", middleware.PatientSession(deps.Sessions))

	// Initialize handlers
	pageHandler := handlers.NewPageHandler(s.Cfg, deps.Catalog, deps.Triage, deps.Instructions)
	actionHandler := handlers.NewActionHandler(s.Cfg, deps.Events, deps.Triage)
	queueHandler := handlers.NewQueueHandler(s.Cfg, deps.Snapshot, deps.Upstream)
	hospitalHandler := handlers.NewHospitalHandler(s.Cfg, deps.Events)
	doctorHandler := handlers.NewDoctorHandler(s.Cfg, deps.Upstream)
	alertHandler := handlers.NewAlertHandler(deps.Alerts)
	apiTriageHandler := api.NewTriageHandler(deps.Events, deps.Triage)
	apiSessionHandler := api.NewSessionHandler()

	// Pages
	patient.Get("/", pageHandler.Index)
	patient.Get("/home-care/", pageHandler.HomeCare)
	patient.Get("/patient/", pageHandler.Patient)
	patient.Get("/emergency-queue/", queueHandler.Page)
	patient.Get("/hospitals/", hospitalHandler.Index)
	patient.Get("/doctor/dashboard/", doctorHandler.Dashboard)

	// htmx fragments
	patient.Post("/booking", actionHandler.Booking)
	patient.Post("/features/:feature", actionHandler.Feature)
	patient.Get("/instructions/:symptom", actionHandler.Instructions)
	patient.Get("/emergency-queue/rows", queueHandler.Rows)
	patient.Get("/alerts", alertHandler.List)
	patient.Delete("/alerts/:id", alertHandler.Dismiss)

	// Form posts
	patient.Post("/doctor/case/:id/update/", doctorHandler.UpdateCase)
	patient.Post("/session/end", alertHandler.EndSession)

	// JSON API
	patient.Get("/api/session", apiSessionHandler.Show)
	patient.Get("/api/triage", apiTriageHandler.Table)
	patient.Get("/api/triage/:symptom", apiTriageHandler.Classify)
}
