package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel-analytics/models"
)

func TestHealthScore(t *testing.T) {
	assert.Equal(t, 40.0, HealthScore(0, 0, 0, 0))
	assert.Equal(t, 53.0, HealthScore(10, 20, 50, 30))
	assert.Equal(t, 80.0, HealthScore(0, 100, 100, 100))
	assert.Equal(t, 0.0, HealthScore(100, 0, 0, 700))
}

func TestCompetitivePosition(t *testing.T) {
	assert.Equal(t, "leader", CompetitivePosition(75.01))
	assert.Equal(t, "challenger", CompetitivePosition(75))
	assert.Equal(t, "challenger", CompetitivePosition(50.5))
	assert.Equal(t, "follower", CompetitivePosition(50))
	assert.Equal(t, "follower", CompetitivePosition(0))
}

func TestSeasonality(t *testing.T) {
	strength, peaks, troughs := Seasonality(map[string]int{})
	assert.Zero(t, strength)
	assert.Empty(t, peaks)
	assert.Empty(t, troughs)

	strength, peaks, troughs = Seasonality(map[string]int{"January": 10, "February": 10, "March": 10})
	assert.Zero(t, strength)
	assert.Empty(t, peaks)
	assert.Empty(t, troughs)

	strength, peaks, troughs = Seasonality(map[string]int{"March": 20, "January": 30, "February": 10})
	assert.Equal(t, 40.82, strength)
	assert.Equal(t, []string{"January"}, peaks)
	assert.Equal(t, []string{"February"}, troughs)
}

func TestRevenueGrowthRate(t *testing.T) {
	assert.Zero(t, RevenueGrowthRate(map[string]float64{"2024-01": 100}))
	assert.Equal(t, 50.0, RevenueGrowthRate(map[string]float64{"2024-02": 150, "2024-01": 100}))
	assert.Equal(t, -25.0, RevenueGrowthRate(map[string]float64{"2023-12": 10, "2024-01": 200, "2024-02": 150}))
}

func TestChannelEffectiveness(t *testing.T) {
	channels := map[string]*models.ChannelPerformance{
		"Direct":      {NetRevenue: 750, CancellationRate: 0},
		"Booking.com": {NetRevenue: 250, CancellationRate: 50},
		"Walk-in":     {NetRevenue: 0, CancellationRate: 100},
	}
	assert.Equal(t, 87.5, ChannelEffectiveness(channels))
	assert.Equal(t, 75.0, channels["Direct"].EffectivenessScore)
	assert.Equal(t, 12.5, channels["Booking.com"].EffectivenessScore)
	assert.Zero(t, channels["Walk-in"].EffectivenessScore)

	assert.Zero(t, ChannelEffectiveness(map[string]*models.ChannelPerformance{}))
}

func TestDerivedIndicatorsFromSnapshot(t *testing.T) {
	s := newTestAnalytics().Generate(mixedBookings())

	assert.InDelta(t, 170.67, s.Forecasting.NextMonthRevenue, 0.011)
	assert.InDelta(t, 2145.55, s.Forecasting.YearEndRevenueProjection, 0.001)
	assert.Equal(t, models.ForecastMethod, s.Forecasting.Method)
	assert.Equal(t, CompetitivePosition(s.Performance.OverallHealthScore), s.Performance.CompetitivePositionEstimate)
	assert.Equal(t, s.Channels.ChannelEffectivenessScore, s.Performance.ChannelEffectivenessScore)
	assert.Greater(t, s.Performance.RevenueEfficiency, 90.0)
	assert.LessOrEqual(t, s.Performance.RevenueEfficiency, 100.0)
}
