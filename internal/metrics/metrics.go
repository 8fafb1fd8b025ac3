// Package metrics exposes Prometheus collectors for tracker runs. The
// tracker is a batch job, so collectors live in a private registry and are
// pushed to a Pushgateway at the end of a run when one is configured.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the per-run collectors.
type Metrics struct {
	registry *prometheus.Registry

	recordsScraped *prometheus.CounterVec
	changesFound   *prometheus.CounterVec
	notifications  *prometheus.CounterVec
	archiveWrites  prometheus.Counter
	regionFailures *prometheus.CounterVec
}

// New builds a Metrics with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		recordsScraped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracker_records_scraped_total",
				Help: "Total records normalized from region pages, labeled by region.",
			},
			[]string{"region"},
		),
		changesFound: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracker_changes_total",
				Help: "Total records the differ reported as new, labeled by region.",
			},
			[]string{"region"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracker_notifications_total",
				Help: "Total notification attempts, labeled by delivery status.",
			},
			[]string{"status"},
		),
		archiveWrites: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tracker_archive_writes_total",
				Help: "Total version-to-link pairs written to the archive.",
			},
		),
		regionFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracker_region_failures_total",
				Help: "Total regions skipped due to fetch or parse failures.",
			},
			[]string{"region"},
		),
	}

	registry.MustRegister(
		m.recordsScraped,
		m.changesFound,
		m.notifications,
		m.archiveWrites,
		m.regionFailures,
	)
	return m
}

// RecordsScraped counts normalized records for a region.
func (m *Metrics) RecordsScraped(region string, n int) {
	m.recordsScraped.WithLabelValues(region).Add(float64(n))
}

// ChangesFound counts differ output for a region.
func (m *Metrics) ChangesFound(region string, n int) {
	m.changesFound.WithLabelValues(region).Add(float64(n))
}

// NotificationSent counts one delivery attempt by status.
func (m *Metrics) NotificationSent(status string) {
	m.notifications.WithLabelValues(status).Inc()
}

// ArchiveWrite counts one archive upsert.
func (m *Metrics) ArchiveWrite() {
	m.archiveWrites.Inc()
}

// RegionFailure counts one skipped region.
func (m *Metrics) RegionFailure(region string) {
	m.regionFailures.WithLabelValues(region).Inc()
}

// Push delivers the run's collectors to a Pushgateway. A no-op when url is
// empty.
func (m *Metrics) Push(url string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, "realme_updates_tracker").Gatherer(m.registry).Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
