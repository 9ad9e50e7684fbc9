package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-analytics/models"
	"hotel-analytics/utils"
)

func TestCleanNormalizesRows(t *testing.T) {
	raw := []models.RawBooking{
		{
			DatasetID:       "hotel-a",
			BookingRef:      " BK-1 ",
			GuestName:       "  Ana   Silva ",
			ArrivalDate:     "2024-03-15",
			DepartureDate:   "18.03.2024",
			BookingDate:     "2024-02-01 10:30:00",
			Adults:          "2",
			Children:        "1.0",
			TotalAmount:     "1,250.00",
			ADR:             "416.67",
			Channel:         "Direct",
			BookingStatus:   "Confirmed",
			IsCancelled:     "0",
			LeadTime:        "43",
			LengthOfStay:    "",
			IsRepeatedGuest: "yes",
			BookingChanges:  "abc",
		},
	}
	out := NewBookingCleaner(utils.NewNopLogger()).Clean(raw)
	require.Len(t, out, 1)

	b := out[0]
	assert.Equal(t, "BK-1", b.BookingRef)
	assert.Equal(t, "Ana Silva", b.GuestName)
	assert.Equal(t, day(2024, 3, 15), b.ArrivalDate)
	assert.Equal(t, day(2024, 3, 18), b.DepartureDate)
	assert.Equal(t, 2, b.Adults)
	assert.Equal(t, 1, b.Children)
	assert.Equal(t, 1250.0, b.Amount())
	assert.Equal(t, 3, b.LengthOfStay)
	assert.False(t, b.IsCancelled)
	require.NotNil(t, b.LeadTime)
	assert.Equal(t, 43, *b.LeadTime)
	require.NotNil(t, b.IsRepeatedGuest)
	assert.True(t, *b.IsRepeatedGuest)
	assert.Nil(t, b.BookingChanges)
	assert.Nil(t, b.PreviousBookings)
}

func TestCleanDefaultsAndCancellation(t *testing.T) {
	raw := []models.RawBooking{
		{DatasetID: "hotel-a", BookingRef: "1", GuestName: "   ", ArrivalDate: "2024-01-01", BookingStatus: "Cancelled by guest"},
		{DatasetID: "hotel-a", BookingRef: "2", GuestName: "Bo", ArrivalDate: "2024-01-01", IsCancelled: "true"},
		{DatasetID: "hotel-a", BookingRef: "3", GuestName: "Cy", ArrivalDate: "2024-01-01", TotalAmount: "-50"},
	}
	out := NewBookingCleaner(utils.NewNopLogger()).Clean(raw)
	require.Len(t, out, 3)

	assert.Equal(t, "Unknown Guest", out[0].GuestName)
	assert.True(t, out[0].IsCancelled)
	assert.True(t, out[1].IsCancelled)
	assert.False(t, out[2].IsCancelled)
	assert.Equal(t, 0.0, out[2].Amount())
	assert.Equal(t, 1, out[2].LengthOfStay)
}

func TestCleanSkipsInvalidAndDuplicateRows(t *testing.T) {
	raw := []models.RawBooking{
		{DatasetID: "hotel-a", BookingRef: "", GuestName: "No Ref", ArrivalDate: "2024-01-01"},
		{DatasetID: "hotel-a", BookingRef: "1", GuestName: "Bad Date", ArrivalDate: "someday"},
		{DatasetID: "hotel-a", BookingRef: "1", GuestName: "First", ArrivalDate: "2024-01-01"},
		{DatasetID: "hotel-a", BookingRef: "1", GuestName: "Duplicate", ArrivalDate: "2024-01-02"},
		{DatasetID: "hotel-b", BookingRef: "1", GuestName: "Other Hotel", ArrivalDate: "2024-01-02"},
	}
	out := NewBookingCleaner(utils.NewNopLogger()).Clean(raw)
	require.Len(t, out, 2)

	assert.Equal(t, "First", out[0].GuestName)
	assert.Equal(t, "hotel-b", out[1].DatasetID)
}
