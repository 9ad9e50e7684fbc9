package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-analytics/models"
	"hotel-analytics/utils"
)

func mixedBookings() []models.Booking {
	b1 := booking("B1", "Ana Silva", "Direct", "300", day(2024, 1, 5))
	b2 := booking("B2", "ana  silva", "Booking.com", "450.50", day(2024, 1, 19))
	b3 := cancelled(booking("B3", "John Smith", "Booking.com", "200", day(2024, 2, 2)))
	b4 := booking("B4", "John Smith", "Corporate", "1,200", day(2024, 2, 12))
	b4.Children = 1
	b4.RoomType = "Suite"
	b4.RoomNumber = "501"
	b4.LeadTime = intPtr(45)
	b4.BookingChanges = intPtr(2)
	b5 := booking("B5", "Mei Chen", "", "not-a-number", day(2024, 3, 1))
	b5.GuestCountry = ""
	b5.MarketSegment = ""
	b6 := cancelled(booking("B6", "Mei Chen", "Travel Agent", "180", day(2024, 3, 8)))
	b6.LeadTime = intPtr(2)
	return []models.Booking{b1, b2, b3, b4, b5, b6}
}

func TestAggregateAllDirectBookings(t *testing.T) {
	bookings := []models.Booking{
		booking("A1", "Guest One", "Direct", "100", day(2024, 5, 1)),
		booking("A2", "Guest Two", "Direct", "200", day(2024, 5, 2)),
		booking("A3", "Guest Three", "Direct", "300", day(2024, 5, 3)),
	}
	bookings[2].ADR = "150"

	s := newTestAnalytics().Generate(bookings)

	assert.Equal(t, 600.0, s.Core.TotalRevenue)
	assert.Equal(t, 116.67, s.Core.AverageDailyRate)
	assert.Equal(t, 0.0, s.Core.CancellationRate)
	assert.Equal(t, 100.0, s.Core.DirectBookingRate)
	assert.Equal(t, 100.0, s.Core.ConfirmationRate)
	assert.Equal(t, 200.0, s.Core.AverageBookingValue)
	assert.Equal(t, 582.0, s.Core.NetRevenue)
	assert.Equal(t, 18.0, s.Revenue.TotalCommissions)
	assert.Equal(t, "Direct", s.Revenue.TopRevenueChannel)
	assert.Equal(t, 0.0, s.Channels.ChannelDiversityIndex)
	assert.Equal(t, 100.0, s.Channels.ChannelMix["Direct"])
}

func TestEmptyInputYieldsDefaults(t *testing.T) {
	s := newTestAnalytics().Generate(nil)

	assert.Zero(t, s.Core.TotalBookings)
	assert.Zero(t, s.Core.CancellationRate)
	assert.Zero(t, s.Performance.OverallHealthScore)
	assert.Equal(t, models.NotAvailable, s.Performance.CompetitivePositionEstimate)
	assert.Equal(t, models.NotAvailable, s.Revenue.TopRevenueChannel)
	assert.Equal(t, models.NotAvailable, s.Bookings.BusiestMonth)
	assert.NotNil(t, s.Revenue.RevenueByChannel)
	assert.NotNil(t, s.Channels.ChannelPerformance)
	assert.NotNil(t, s.GuestPerf.TopGuests)
	assert.Equal(t, models.ForecastMethod, s.Forecasting.Method)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
}

func TestCancelledBookingsCountButEarnNothing(t *testing.T) {
	s := newTestAnalytics().Generate(mixedBookings())

	assert.Equal(t, 6, s.Core.TotalBookings)
	assert.Equal(t, 4, s.Core.ConfirmedBookings)
	assert.Equal(t, 2, s.Core.CancelledBookings)
	assert.Equal(t, 33.33, s.Core.CancellationRate)
	assert.Equal(t, 1950.5, s.Core.TotalRevenue)
	assert.Equal(t, 380.0, s.Cancellations.LostRevenue)

	assert.Equal(t, 2, s.Bookings.BookingsByChannel["Booking.com"])
	assert.Equal(t, 450.5, s.Revenue.RevenueByChannel["Booking.com"])
	assert.Equal(t, 1, s.Cancellations.CancellationsByChannel["Booking.com"])
	assert.Equal(t, 50.0, s.Cancellations.CancellationRateByChannel["Booking.com"])
	assert.Equal(t, 0.0, s.Revenue.RevenueByChannel["Travel Agent"])
	assert.NotContains(t, s.Cancellations.CancellationsByChannel, "Direct")
}

func TestUnknownKeysAndMalformedAmounts(t *testing.T) {
	s := newTestAnalytics().Generate(mixedBookings())

	assert.Equal(t, 1, s.Bookings.BookingsByChannel["Unknown"])
	assert.Equal(t, 0.0, s.Revenue.RevenueByChannel["Unknown"])
	assert.Equal(t, 1, s.Bookings.BookingsBySegment["Unknown"])
	assert.Equal(t, 1, s.Guests.GuestsByCountry["Unknown"])
	assert.Equal(t, 0.1, s.Channels.ChannelPerformance["Unknown"].CommissionRate)
}

func TestLeadTimeBuckets(t *testing.T) {
	s := newTestAnalytics().Generate(mixedBookings())

	// B4 has an explicit lead time of 45, B6 of 2; the others are 20 days ahead
	assert.Equal(t, 1, s.Bookings.LeadTimeDistribution["1-2 Months"])
	assert.Equal(t, 1, s.Bookings.LeadTimeDistribution["1-3 Days"])
	assert.Equal(t, 4, s.Bookings.LeadTimeDistribution["2-4 Weeks"])
	assert.Equal(t, 1, s.Cancellations.CancellationsByLeadTime["1-3 Days"])
}

func TestConservation(t *testing.T) {
	s := newTestAnalytics().Generate(mixedBookings())

	assert.InDelta(t, s.Core.TotalRevenue, utils.SumValues(s.Revenue.RevenueByChannel), 0.01)
	assert.InDelta(t, s.Core.TotalRevenue, utils.SumValues(s.Revenue.RevenueBySegment), 0.01)
	assert.InDelta(t, s.Core.TotalRevenue, utils.SumValues(s.Revenue.RevenueByRoomType), 0.01)
	assert.InDelta(t, s.Core.TotalRevenue, utils.SumValues(s.Revenue.RevenueByMonth), 0.01)
	assert.InDelta(t, s.Core.TotalRevenue, utils.SumValues(s.Revenue.DailyRevenue), 0.01)
	assert.InDelta(t, s.Revenue.TotalCommissions, utils.SumValues(s.Revenue.CommissionsByChannel), 0.01)

	total := s.Core.TotalBookings
	assert.Equal(t, total, utils.SumValues(s.Bookings.BookingsByChannel))
	assert.Equal(t, total, utils.SumValues(s.Bookings.BookingsBySegment))
	assert.Equal(t, total, utils.SumValues(s.Bookings.BookingsByRoomType))
	assert.Equal(t, total, utils.SumValues(s.Bookings.LeadTimeDistribution))
	assert.Equal(t, total, utils.SumValues(s.Bookings.LengthOfStayDistribution))
	assert.Equal(t, total, utils.SumValues(s.Seasonality.MonthlyBookings))
	assert.Equal(t, s.Core.CancelledBookings, utils.SumValues(s.Cancellations.CancellationsByChannel))
	assert.Equal(t, s.Core.ConfirmedBookings+s.Core.CancelledBookings, total)
}

func TestGuestAnalytics(t *testing.T) {
	s := newTestAnalytics().Generate(mixedBookings())

	assert.Equal(t, 3, s.Guests.UniqueGuests)
	assert.Equal(t, 2.0, s.Guests.AverageBookingsPerGuest)
	assert.Equal(t, 100.0, s.Guests.RepeatGuestRate)
	assert.Equal(t, 16.67, s.Guests.FamilyBookingRate)
	require.Len(t, s.GuestPerf.TopGuests, 3)
	assert.Equal(t, "John Smith", s.GuestPerf.TopGuests[0].Name)
	assert.Equal(t, 1200.0, s.GuestPerf.TopGuests[0].Revenue)
	assert.Equal(t, "Ana Silva", s.GuestPerf.TopGuests[1].Name)
	assert.Equal(t, 750.5, s.GuestPerf.TopGuests[1].Revenue)
	assert.Equal(t, "Mei Chen", s.GuestPerf.TopGuests[2].Name)
}

func TestRatesStayInRange(t *testing.T) {
	s := newTestAnalytics().Generate(mixedBookings())

	for _, v := range []float64{
		s.Core.CancellationRate, s.Core.ConfirmationRate, s.Core.DirectBookingRate,
		s.Core.RepeatGuestRate, s.Channels.OTADependencyScore, s.Guests.FamilyBookingRate,
		s.Bookings.WeekendArrivalRate, s.Performance.OverallHealthScore,
		s.Channels.ChannelEffectivenessScore, s.Operations.RoomAssignmentRate,
	} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
	assert.GreaterOrEqual(t, s.Guests.CountryDiversityIndex, 0.0)
	assert.LessOrEqual(t, s.Guests.CountryDiversityIndex, 1.0)
	assert.GreaterOrEqual(t, s.Channels.ChannelDiversityIndex, 0.0)
	assert.LessOrEqual(t, s.Channels.ChannelDiversityIndex, 1.0)
}

func TestGenerateIsIdempotent(t *testing.T) {
	svc := newTestAnalytics()
	bookings := mixedBookings()

	first, err := json.Marshal(svc.Generate(bookings))
	require.NoError(t, err)
	second, err := json.Marshal(svc.Generate(bookings))
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestLengthOfStayBuckets(t *testing.T) {
	a := booking("L1", "A", "Direct", "100", day(2024, 4, 1))
	a.LengthOfStay = 0
	a.DepartureDate = a.ArrivalDate
	b := booking("L2", "B", "Direct", "100", day(2024, 4, 1))
	b.LengthOfStay = 5
	c := booking("L3", "C", "Direct", "100", day(2024, 4, 1))
	c.LengthOfStay = 0
	c.DepartureDate = c.ArrivalDate.Add(9 * 24 * time.Hour)

	s := newTestAnalytics().Generate([]models.Booking{a, b, c})
	assert.Equal(t, map[string]int{"1 Night": 1, "4-7 Nights": 1, "8+ Nights": 1}, s.Bookings.LengthOfStayDistribution)
	assert.Equal(t, 15, s.Core.TotalRoomNights)
}

func TestAggregateReadsDatesInUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	utcBooking := booking("Z1", "Guest One", "Direct", "100", day(2024, 1, 5))
	zoned := utcBooking
	zoned.ArrivalDate = utcBooking.ArrivalDate.In(est)
	zoned.DepartureDate = utcBooking.DepartureDate.In(est)
	zoned.BookingDate = utcBooking.BookingDate.In(est)

	want := newTestAnalytics().Generate([]models.Booking{utcBooking})
	got := newTestAnalytics().Generate([]models.Booking{zoned})

	assert.Equal(t, 1, got.Bookings.BookingsByWeekday["Friday"])
	assert.Equal(t, map[string]float64{"2024-01-05": 100}, got.Revenue.DailyRevenue)
	assert.Equal(t, want.Bookings.BookingsByWeekday, got.Bookings.BookingsByWeekday)
	assert.Equal(t, want.Bookings.BookingsByMonth, got.Bookings.BookingsByMonth)
	assert.Equal(t, want.Bookings.WeekendArrivalRate, got.Bookings.WeekendArrivalRate)
}

func TestTopGuestNameComesFromEarliestStay(t *testing.T) {
	bookings := []models.Booking{
		booking("L2", "ANA   SILVA", "Direct", "200", day(2024, 2, 1)),
		booking("L1", "Ana Silva", "Direct", "100", day(2024, 1, 1)),
	}

	s := newTestAnalytics().Generate(bookings)
	guests, _ := newTestScorer().Score("hotel-a", bookings)

	require.Len(t, s.GuestPerf.TopGuests, 1)
	require.Len(t, guests, 1)
	assert.Equal(t, "Ana Silva", s.GuestPerf.TopGuests[0].Name)
	assert.Equal(t, guests[0].Name, s.GuestPerf.TopGuests[0].Name)
}

func TestCoreRepeatGuestRate(t *testing.T) {
	// no history columns: guests seen more than once
	s := newTestAnalytics().Generate(mixedBookings())
	assert.Equal(t, 100.0, s.Core.RepeatGuestRate)
	assert.Equal(t, s.Guests.RepeatGuestRate, s.Core.RepeatGuestRate)

	// history columns present: the flags win
	flagged := mixedBookings()
	notRepeat := false
	flagged[0].IsRepeatedGuest = &notRepeat
	flagged[3].PreviousBookings = intPtr(2)
	s = newTestAnalytics().Generate(flagged)
	assert.InDelta(t, 16.67, s.Core.RepeatGuestRate, 0.001)
	assert.Equal(t, 100.0, s.Guests.RepeatGuestRate)
}
