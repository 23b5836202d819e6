package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"smartcare/internal/config"
	"smartcare/internal/queue"
)

// CaseLister fetches the live emergency queue.
type CaseLister interface {
	EmergencyCases(ctx context.Context) []queue.CaseRecord
}

// minPollMillis keeps the htmx poll from firing back to back.
const minPollMillis = 100

// pollMillis converts the poll interval for the hx-trigger attribute.
func pollMillis(d time.Duration) int64 {
	return max(d.Milliseconds(), minPollMillis)
}

// QueueHandler renders the emergency queue.
type QueueHandler struct {
	cfg      *config.Config
	snapshot *queue.Snapshot
	source   CaseLister
}

// NewQueueHandler creates a new queue handler.
func NewQueueHandler(cfg *config.Config, snapshot *queue.Snapshot, source CaseLister) *QueueHandler {
	return &QueueHandler{cfg: cfg, snapshot: snapshot, source: source}
}

// Page renders the queue page.
func (h *QueueHandler) Page(c fiber.Ctx) error {
	cases, at := h.cases(c, false)

	waiting := 0
	for _, cs := range cases {
		if cs.Status == "Waiting" {
			waiting++
		}
	}

	return c.Render("emergency_queue", MergeBranding(fiber.Map{
		"Title":        "Emergency Queue",
		"Rows":         queue.Project(cases),
		"UpdatedAt":    at,
		"TotalWaiting": waiting,
		"PollMillis":   pollMillis(h.cfg.QueuePollInterval),
	}, h.cfg))
}

// Rows renders the queue table body. ?live=1 bypasses the snapshot.
func (h *QueueHandler) Rows(c fiber.Ctx) error {
	cases, at := h.cases(c, c.Query("live") == "1")
	return c.Render("partials/queue_rows", fiber.Map{
		"Rows":      queue.Project(cases),
		"UpdatedAt": at,
	}, "")
}

// cases returns the snapshot, fetching live when asked to or when the
// poller has not filled it yet.
func (h *QueueHandler) cases(c fiber.Ctx, live bool) ([]queue.CaseRecord, time.Time) {
	if !live {
		if cases, at := h.snapshot.Cases(); !at.IsZero() {
			return cases, at
		}
	}
	cases := h.source.EmergencyCases(c.Context())
	return cases, time.Now()
}
