package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the analytics and extraction services.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	bookingsAnalyzed   prometheus.Counter
	snapshots          prometheus.Counter
	extractions        *prometheus.CounterVec
	extractionDuration prometheus.Histogram
	guestsExtracted    *prometheus.GaugeVec
	staysExtracted     *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		bookingsAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hotel_analytics",
			Name:      "bookings_analyzed_total",
			Help:      "Bookings processed by analytics snapshots.",
		}),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hotel_analytics",
			Name:      "snapshots_total",
			Help:      "Analytics snapshots computed from a non-empty booking set.",
		}),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotel_analytics",
			Name:      "guest_extractions_total",
			Help:      "Guest extraction runs by outcome.",
		}, []string{"outcome"}),
		extractionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hotel_analytics",
			Name:      "guest_extraction_duration_seconds",
			Help:      "Duration of guest extraction runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		guestsExtracted: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hotel_analytics",
			Name:      "guests",
			Help:      "Guests in the current generation of a dataset.",
		}, []string{"dataset"}),
		staysExtracted: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hotel_analytics",
			Name:      "guest_stays",
			Help:      "Guest stays in the current generation of a dataset.",
		}, []string{"dataset"}),
	}
	reg.MustRegister(
		m.bookingsAnalyzed,
		m.snapshots,
		m.extractions,
		m.extractionDuration,
		m.guestsExtracted,
		m.staysExtracted,
	)
	return m
}

func (m *Metrics) observeAnalytics(bookings int) {
	if m == nil {
		return
	}
	m.snapshots.Inc()
	m.bookingsAnalyzed.Add(float64(bookings))
}

func (m *Metrics) observeExtraction(datasetID, outcome string, started time.Time, guests, stays int) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(outcome).Inc()
	m.extractionDuration.Observe(time.Since(started).Seconds())
	if outcome == outcomeRebuilt {
		m.guestsExtracted.WithLabelValues(datasetID).Set(float64(guests))
		m.staysExtracted.WithLabelValues(datasetID).Set(float64(stays))
	}
}
