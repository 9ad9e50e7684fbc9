package services

import (
	"hotel-analytics/config"
	"hotel-analytics/models"
	"hotel-analytics/utils"
)

// AnalyticsService computes the analytics snapshot of a booking set
type AnalyticsService struct {
	aggregator *AggregationEngine
	derived    *DerivedIndicatorEngine
	logger     *utils.Logger
	metrics    *Metrics
}

// NewAnalyticsService creates a new AnalyticsService. metrics may be nil.
func NewAnalyticsService(rules *config.Rules, identity IdentityResolver, logger *utils.Logger, metrics *Metrics) *AnalyticsService {
	return &AnalyticsService{
		aggregator: NewAggregationEngine(rules, identity),
		derived:    NewDerivedIndicatorEngine(),
		logger:     logger,
		metrics:    metrics,
	}
}

// Generate computes the full snapshot. It never fails: an empty booking set yields the
// default snapshot with zero rates, empty maps and N/A rankings.
func (s *AnalyticsService) Generate(bookings []models.Booking) *models.AnalyticsSnapshot {
	snapshot := models.NewAnalyticsSnapshot()
	if len(bookings) == 0 {
		s.logger.Warn("No bookings to generate analytics from")
		return snapshot
	}

	agg := s.aggregator.Aggregate(bookings)
	s.aggregator.Fill(agg, snapshot)
	s.derived.Apply(agg, snapshot)

	s.metrics.observeAnalytics(len(bookings))
	s.logger.Debug("Analytics computed for %d bookings (%d confirmed, %d cancelled)",
		agg.Total, agg.Confirmed, agg.Cancelled)
	return snapshot
}
