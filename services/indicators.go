package services

import (
	"hotel-analytics/models"
	"hotel-analytics/utils"
)

// Forecast multipliers are fixed placeholders applied to totals, not the output of a
// fitted model. Changing them changes the meaning of the forecast fields.
const (
	nextMonthGrowth = 1.05
	yearEndGrowth   = 1.10
)

const (
	peakThreshold      = 1.2
	troughThreshold    = 0.8
	leaderScore        = 75
	challengerScore    = 50
	positionLeader     = "leader"
	positionChallenger = "challenger"
	positionFollower   = "follower"
)

// DerivedIndicatorEngine computes composite indices from already aggregated values.
// It never looks at raw bookings.
type DerivedIndicatorEngine struct{}

// NewDerivedIndicatorEngine creates the engine
func NewDerivedIndicatorEngine() *DerivedIndicatorEngine {
	return &DerivedIndicatorEngine{}
}

// Apply fills the derived fields of s from the aggregate rollups
func (d *DerivedIndicatorEngine) Apply(a *Aggregate, s *models.AnalyticsSnapshot) {
	s.Revenue.RevenueGrowthRate = RevenueGrowthRate(s.Revenue.RevenueByMonth)

	strength, peaks, troughs := Seasonality(s.Seasonality.MonthlyBookings)
	s.Seasonality.SeasonalityStrength = strength
	s.Seasonality.PeakMonths = peaks
	s.Seasonality.TroughMonths = troughs

	s.Forecasting.NextMonthRevenue = utils.Round2(s.Core.TotalRevenue / 12 * nextMonthGrowth)
	s.Forecasting.YearEndRevenueProjection = utils.Round2(s.Core.TotalRevenue * yearEndGrowth)
	s.Forecasting.Method = models.ForecastMethod

	overall := ChannelEffectiveness(s.Channels.ChannelPerformance)
	s.Channels.ChannelEffectivenessScore = overall

	p := &s.Performance
	p.OverallHealthScore = HealthScore(
		s.Core.CancellationRate,
		s.Core.RepeatGuestRate,
		s.Core.DirectBookingRate,
		s.Channels.OTADependencyScore,
	)
	p.CompetitivePositionEstimate = CompetitivePosition(p.OverallHealthScore)
	p.RevenueEfficiency = utils.Pct(s.Revenue.NetRevenue, s.Revenue.GrossRevenue)
	p.PricingIndex = utils.Pct(s.Core.AverageDailyRate, utils.Percentile(a.ConfirmedDailyRate, 50))
	p.ChannelEffectivenessScore = overall
	p.GuestLoyaltyIndex = utils.Round2(s.Core.RepeatGuestRate * (1 - s.Core.CancellationRate/100))
}

// HealthScore weighs cancellations, repeat guests, direct share and OTA dependency into [0,100]
func HealthScore(cancellationRate, repeatGuestRate, directBookingRate, otaDependency float64) float64 {
	score := 0.3*(100-cancellationRate) +
		0.2*repeatGuestRate +
		0.3*directBookingRate +
		0.2*(50*(1-otaDependency/100))
	return utils.Round2(utils.Clamp(score, 0, 100))
}

// CompetitivePosition maps a health score to leader, challenger or follower
func CompetitivePosition(healthScore float64) string {
	switch {
	case healthScore > leaderScore:
		return positionLeader
	case healthScore > challengerScore:
		return positionChallenger
	default:
		return positionFollower
	}
}

// Seasonality returns the coefficient of variation of the observed monthly booking counts
// (as a percentage) and the peak and trough months in calendar order
func Seasonality(monthly map[string]int) (strength float64, peaks, troughs []string) {
	peaks, troughs = []string{}, []string{}
	counts := make([]float64, 0, len(monthly))
	for _, m := range utils.MonthNames {
		if n, ok := monthly[m]; ok && n > 0 {
			counts = append(counts, float64(n))
		}
	}
	if len(counts) == 0 {
		return 0, peaks, troughs
	}
	mean := utils.Mean(counts)
	strength = utils.Round2(utils.SafeDiv(utils.StdDev(counts), mean) * 100)
	for _, m := range utils.MonthNames {
		n, ok := monthly[m]
		if !ok || n == 0 {
			continue
		}
		switch {
		case float64(n) > peakThreshold*mean:
			peaks = append(peaks, m)
		case float64(n) < troughThreshold*mean:
			troughs = append(troughs, m)
		}
	}
	return strength, peaks, troughs
}

// RevenueGrowthRate compares the last observed month with the one before it, in percent
func RevenueGrowthRate(byMonth map[string]float64) float64 {
	keys := utils.SortedKeys(byMonth)
	if len(keys) < 2 {
		return 0
	}
	last, prev := byMonth[keys[len(keys)-1]], byMonth[keys[len(keys)-2]]
	return utils.Round2(utils.SafeDiv(last-prev, prev) * 100)
}

// ChannelEffectiveness scores each channel as its share of net revenue discounted by its
// cancellation rate, and returns the sum, which lies in [0,100]
func ChannelEffectiveness(channels map[string]*models.ChannelPerformance) float64 {
	var totalNet float64
	for _, name := range utils.SortedKeys(channels) {
		if net := channels[name].NetRevenue; net > 0 {
			totalNet += net
		}
	}
	var overall float64
	for _, name := range utils.SortedKeys(channels) {
		cp := channels[name]
		share := 0.0
		if cp.NetRevenue > 0 {
			share = utils.SafeDiv(cp.NetRevenue, totalNet) * 100
		}
		cp.EffectivenessScore = utils.Round2(share * (1 - cp.CancellationRate/100))
		overall += cp.EffectivenessScore
	}
	return utils.Round2(utils.Clamp(overall, 0, 100))
}
