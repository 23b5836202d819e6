package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"smartcare/internal/db"
)

var (
	triageLookupDesc = prometheus.NewDesc(
		"smartcare_triage_lookups_total",
		"Total triage lookups by symptom and assigned priority",
		[]string{"symptom", "priority"},
		nil,
	)
)

// LookupStore persists triage lookup counts.
type LookupStore interface {
	IncrementTriageLookup(ctx context.Context, symptom, priority string) error
	GetAllTriageLookups(ctx context.Context) ([]db.TriageLookup, error)
}

// TriageCollector is a custom Prometheus collector that reads triage lookup
// counts from the database on each scrape.
type TriageCollector struct {
	store LookupStore
	log   zerolog.Logger
}

// Describe sends the metric descriptor to the channel.
func (c *TriageCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- triageLookupDesc
}

// Collect queries the database for all triage lookups and emits them as counters.
func (c *TriageCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lookups, err := c.store.GetAllTriageLookups(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to collect triage lookup metrics")
		return
	}
	for _, l := range lookups {
		ch <- prometheus.MustNewConstMetric(
			triageLookupDesc,
			prometheus.CounterValue,
			float64(l.Count),
			l.Symptom,
			l.Priority,
		)
	}
}

// Metrics owns the application's registry and recorders.
type Metrics struct {
	registry *prometheus.Registry
	store    LookupStore
	log      zerolog.Logger
	pending  sync.WaitGroup

	triageRequests   *prometheus.CounterVec
	upstreamFailures *prometheus.CounterVec
	alertsPresented  *prometheus.CounterVec
}

// New creates the metrics registry. store may be nil, in which case triage
// lookups are only counted in process.
func New(store LookupStore, logger zerolog.Logger) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		store:    store,
		log:      logger.With().Str("component", "metrics").Logger(),
	}
	m.triageRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartcare_triage_requests_total",
		Help: "Triage classifications served by this process, by priority",
	}, []string{"priority"})
	m.upstreamFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartcare_upstream_fetch_failures_total",
		Help: "Failed upstream requests by endpoint",
	}, []string{"endpoint"})
	m.alertsPresented = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartcare_alerts_presented_total",
		Help: "Alerts presented to patients by kind",
	}, []string{"kind"})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.triageRequests,
		m.upstreamFailures,
		m.alertsPresented,
	)
	if store != nil {
		m.registry.MustRegister(&TriageCollector{store: store, log: m.log})
	}
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordTriage counts a classification and asynchronously persists it.
func (m *Metrics) RecordTriage(symptom, priority string) {
	m.triageRequests.WithLabelValues(priority).Inc()
	if m.store == nil {
		return
	}
	m.pending.Add(1)
	go func() {
		defer m.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.store.IncrementTriageLookup(ctx, symptom, priority); err != nil {
			m.log.Error().Err(err).Str("symptom", symptom).Str("priority", priority).Msg("failed to record triage lookup")
		}
	}()
}

// RecordUpstreamFailure counts a failed upstream request.
func (m *Metrics) RecordUpstreamFailure(endpoint string) {
	m.upstreamFailures.WithLabelValues(endpoint).Inc()
}

// RecordAlert counts a presented alert.
func (m *Metrics) RecordAlert(kind string) {
	m.alertsPresented.WithLabelValues(kind).Inc()
}

// Flush waits for pending asynchronous writes.
func (m *Metrics) Flush() {
	m.pending.Wait()
}
