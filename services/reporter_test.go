package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel-analytics/models"
)

func TestPrintAnalyticsReport(t *testing.T) {
	var buf bytes.Buffer
	PrintAnalyticsReport(&buf, "hotel-a", newTestAnalytics().Generate(mixedBookings()))

	out := buf.String()
	assert.Contains(t, out, "HOTEL BOOKING ANALYTICS: hotel-a")
	assert.Contains(t, out, "Total Bookings          : 6")
	assert.Contains(t, out, "Total Revenue           : $1950.50")
	assert.Contains(t, out, "Booking.com:")
}

func TestPrintGuestSummary(t *testing.T) {
	summary := &models.GuestSummary{
		TotalGuests:    2,
		AverageCLV:     812.5,
		ByLoyaltyTier:  map[string]int{models.TierGold: 1, models.TierBronze: 1},
		ChampionGuests: 1,
		TopGuests: []models.Guest{
			{Name: "A Guest With A Remarkably Long Display Name", LoyaltyTier: models.TierGold, CLVScore: 1500},
			{Name: "Mei Chen", LoyaltyTier: models.TierBronze, CLVScore: 125},
		},
	}
	res := &models.ExtractionResult{DatasetID: "hotel-a", TotalGuests: 2, NewGuests: 1, TotalStays: 3}

	var buf bytes.Buffer
	PrintGuestSummary(&buf, "hotel-a", res, summary)

	out := buf.String()
	assert.Contains(t, out, "Guests / New / Stays    : 2 / 1 / 3")
	assert.Contains(t, out, "Average CLV             : $812.50")
	assert.Contains(t, out, "A Guest With A Remarkably L...")
	assert.Contains(t, out, "TOP 2 GUESTS BY CLV")
}

func TestTruncateAndCenter(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijkl", 10))
	assert.Equal(t, "  ab  ", center("ab", 6))
	assert.Equal(t, "toolong", center("toolong", 3))
}
