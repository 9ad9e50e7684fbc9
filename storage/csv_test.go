package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-analytics/models"
	"hotel-analytics/utils"
)

func TestParseBookingsCSV(t *testing.T) {
	input := "\ufeffBooking_Ref,Guest Name,arrival_date,Total Amount,Channel,is_canceled,unused\n" +
		"B1,Ana Silva,2024-05-01,\"1,200.00\",Direct,0,x\n" +
		"B2, John Smith ,2024-05-03,300,Booking.com,1\n"

	rows, err := ParseBookingsCSV(strings.NewReader(input), "default")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, models.RawBooking{
		DatasetID:   "default",
		BookingRef:  "B1",
		GuestName:   "Ana Silva",
		ArrivalDate: "2024-05-01",
		TotalAmount: "1,200.00",
		Channel:     "Direct",
		IsCancelled: "0",
	}, rows[0])
	assert.Equal(t, "John Smith", rows[1].GuestName)
	assert.Equal(t, "1", rows[1].IsCancelled)
}

func TestParseBookingsCSVSemicolonAndDataset(t *testing.T) {
	input := "dataset_id;booking_ref;guest_name;arrival_date\nhotel-b;B9;Mei Chen;01.05.2024\n"

	rows, err := ParseBookingsCSV(strings.NewReader(input), "default")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "hotel-b", rows[0].DatasetID)
	assert.Equal(t, "01.05.2024", rows[0].ArrivalDate)
}

func TestParseBookingsCSVEmpty(t *testing.T) {
	_, err := ParseBookingsCSV(strings.NewReader(""), "default")
	assert.Error(t, err)
}

func TestCSVReaderMissingFile(t *testing.T) {
	r := NewCSVReader(filepath.Join(t.TempDir(), "missing.csv"), "default", utils.NewNopLogger())
	_, err := r.ReadBookings()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCSVWriterWritesGuests(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "guests.csv")
	w := NewCSVWriter(path, utils.NewNopLogger())

	guests := []models.Guest{{
		ID:               "g1",
		DatasetID:        "hotel-a",
		Name:             "Ana Silva",
		FirstBookingDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		LastBookingDate:  time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC),
		TotalBookings:    2,
		TotalRevenue:     750.5,
		RFMScore:         2,
		LifecycleStage:   "returning",
		LoyaltyTier:      "silver",
		CLVScore:         1350.9,
	}}
	require.NoError(t, w.WriteGuests(guests))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, guestHeader, records[0])
	assert.Equal(t, "Ana Silva", records[1][2])
	assert.Equal(t, "2024-01-05", records[1][4])
	assert.Equal(t, "750.50", records[1][8])
	assert.Equal(t, "returning", records[1][11])
	assert.Equal(t, "1350.90", records[1][16])
}
