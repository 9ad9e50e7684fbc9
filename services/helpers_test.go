package services

import (
	"time"

	"hotel-analytics/models"
	"hotel-analytics/utils"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

// booking returns a confirmed two-night stay for two adults
func booking(ref, guest, channel, amount string, arrival time.Time) models.Booking {
	return models.Booking{
		DatasetID:     "hotel-a",
		BookingRef:    ref,
		GuestName:     guest,
		GuestCountry:  "PRT",
		ArrivalDate:   arrival,
		DepartureDate: arrival.AddDate(0, 0, 2),
		BookingDate:   arrival.AddDate(0, 0, -20),
		Adults:        2,
		RoomType:      "Standard",
		TotalAmount:   amount,
		ADR:           "100",
		Channel:       channel,
		MarketSegment: "Leisure",
		BookingStatus: "confirmed",
		LengthOfStay:  2,
	}
}

func cancelled(b models.Booking) models.Booking {
	b.IsCancelled = true
	b.BookingStatus = "cancelled"
	return b
}

func newTestAnalytics() *AnalyticsService {
	return NewAnalyticsService(nil, nil, utils.NewNopLogger(), nil)
}
