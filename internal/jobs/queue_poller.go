package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"smartcare/internal/queue"
)

// CaseSource lists the active emergency queue.
type CaseSource interface {
	EmergencyCases(ctx context.Context) []queue.CaseRecord
}

// QueuePoller keeps the queue snapshot fresh in the background.
type QueuePoller struct {
	source   CaseSource
	snapshot *queue.Snapshot
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewQueuePoller creates a new queue poller.
func NewQueuePoller(source CaseSource, snapshot *queue.Snapshot, interval time.Duration, logger zerolog.Logger) *QueuePoller {
	return &QueuePoller{
		source:   source,
		snapshot: snapshot,
		interval: interval,
		log:      logger.With().Str("component", "queue_poller").Logger(),
		now:      time.Now,
	}
}

// Start begins the poll loop. It returns when ctx is cancelled.
func (p *QueuePoller) Start(ctx context.Context) {
	p.log.Info().Dur("interval", p.interval).Msg("queue poller started")

	// Run immediately on start
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("queue poller stopped")
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// refresh replaces the snapshot with the upstream queue. A failed fetch
// yields an empty queue, same as the page would show.
func (p *QueuePoller) refresh(ctx context.Context) {
	cases := p.source.EmergencyCases(ctx)
	if ctx.Err() != nil {
		return
	}
	p.snapshot.Replace(cases, p.now())
	p.log.Debug().Int("cases", len(cases)).Msg("queue refreshed")
}
