package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"hotel-analytics/models"
	"hotel-analytics/utils"
)

const reportWidth = 55

// PrintAnalyticsReport writes a terminal summary of an analytics snapshot
func PrintAnalyticsReport(w io.Writer, datasetID string, s *models.AnalyticsSnapshot) {
	border := strings.Repeat("═", reportWidth)
	thin := strings.Repeat("─", reportWidth)

	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center("HOTEL BOOKING ANALYTICS: "+datasetID, reportWidth))
	fmt.Fprintf(w, "╚%s╝\n", border)

	fmt.Fprintf(w, "\n OVERVIEW\n%s\n", thin)
	fmt.Fprintf(w, "  Total Bookings          : %d\n", s.Core.TotalBookings)
	fmt.Fprintf(w, "  Confirmed / Cancelled   : %d / %d\n", s.Core.ConfirmedBookings, s.Core.CancelledBookings)
	fmt.Fprintf(w, "  Total Revenue           : $%.2f\n", s.Core.TotalRevenue)
	fmt.Fprintf(w, "  Net Revenue             : $%.2f\n", s.Core.NetRevenue)
	fmt.Fprintf(w, "  Average Daily Rate      : $%.2f\n", s.Core.AverageDailyRate)
	fmt.Fprintf(w, "  RevPAR                  : $%.2f\n", s.Core.RevPAR)
	fmt.Fprintf(w, "  Cancellation Rate       : %.2f%%\n", s.Core.CancellationRate)
	fmt.Fprintf(w, "  Direct Booking Rate     : %.2f%%\n", s.Core.DirectBookingRate)
	fmt.Fprintf(w, "  Repeat Guest Rate       : %.2f%%\n", s.Core.RepeatGuestRate)

	fmt.Fprintf(w, "\n PERFORMANCE\n%s\n", thin)
	fmt.Fprintf(w, "  Health Score            : %.2f (%s)\n", s.Performance.OverallHealthScore, s.Performance.CompetitivePositionEstimate)
	fmt.Fprintf(w, "  Revenue Efficiency      : %.2f%%\n", s.Performance.RevenueEfficiency)
	fmt.Fprintf(w, "  Pricing Index           : %.2f\n", s.Performance.PricingIndex)
	fmt.Fprintf(w, "  Channel Effectiveness   : %.2f\n", s.Performance.ChannelEffectivenessScore)
	fmt.Fprintf(w, "  Seasonality Strength    : %.2f%%\n", s.Seasonality.SeasonalityStrength)
	fmt.Fprintf(w, "  Next Month (heuristic)  : $%.2f\n", s.Forecasting.NextMonthRevenue)

	if len(s.Bookings.BookingsByChannel) > 0 {
		fmt.Fprintf(w, "\n BOOKINGS PER CHANNEL\n%s\n", thin)
		for _, kv := range byCountDesc(s.Bookings.BookingsByChannel) {
			bar := strings.Repeat("▓", int(utils.Clamp(s.Channels.ChannelMix[kv.key]/2, 0, 25)))
			fmt.Fprintf(w, "  %-25s %5d  %s\n", truncate(kv.key, 24)+":", kv.count, bar)
		}
	}

	if len(s.GuestPerf.TopGuests) > 0 {
		fmt.Fprintf(w, "\n TOP %d GUESTS BY REVENUE\n%s\n", len(s.GuestPerf.TopGuests), thin)
		for i, g := range s.GuestPerf.TopGuests {
			fmt.Fprintf(w, "  %2d. %-30s %3d  $%.2f\n", i+1, truncate(g.Name, 30), g.Bookings, g.Revenue)
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}

// PrintGuestSummary writes a terminal summary of a dataset's guest segmentation
func PrintGuestSummary(w io.Writer, datasetID string, res *models.ExtractionResult, s *models.GuestSummary) {
	border := strings.Repeat("═", reportWidth)
	thin := strings.Repeat("─", reportWidth)

	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center("GUEST INTELLIGENCE: "+datasetID, reportWidth))
	fmt.Fprintf(w, "╚%s╝\n", border)

	fmt.Fprintf(w, "\n EXTRACTION\n%s\n", thin)
	if res != nil {
		fmt.Fprintf(w, "  Guests / New / Stays    : %d / %d / %d\n", res.TotalGuests, res.NewGuests, res.TotalStays)
	}
	fmt.Fprintf(w, "  Average CLV             : $%.2f\n", s.AverageCLV)
	fmt.Fprintf(w, "  Average Churn Risk      : %.2f\n", s.AverageChurnRisk)
	fmt.Fprintf(w, "  Average RFM             : %.2f\n", s.AverageRFM)
	fmt.Fprintf(w, "  Repeat Guest Rate       : %.2f%%\n", s.RepeatGuestRate)
	fmt.Fprintf(w, "  Champions / At Risk     : %d / %d\n", s.ChampionGuests, s.AtRiskGuests)

	if len(s.ByLoyaltyTier) > 0 {
		fmt.Fprintf(w, "\n LOYALTY TIERS\n%s\n", thin)
		for _, tier := range []string{models.TierPlatinum, models.TierGold, models.TierSilver, models.TierBronze} {
			fmt.Fprintf(w, "  %-25s %5d\n", tier+":", s.ByLoyaltyTier[tier])
		}
	}

	if len(s.TopGuests) > 0 {
		fmt.Fprintf(w, "\n TOP %d GUESTS BY CLV\n%s\n", len(s.TopGuests), thin)
		for i, g := range s.TopGuests {
			fmt.Fprintf(w, "  %2d. %-30s %-9s $%.2f\n", i+1, truncate(g.Name, 30), g.LoyaltyTier, g.CLVScore)
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}

type keyCount struct {
	key   string
	count int
}

func byCountDesc(m map[string]int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, v := range m {
		out = append(out, keyCount{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
