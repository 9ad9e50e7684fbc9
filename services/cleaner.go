package services

import (
	"strconv"
	"strings"
	"time"

	"hotel-analytics/models"
	"hotel-analytics/utils"
)

const defaultGuestName = "Unknown Guest"

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02.01.2006",
	"02/01/2006",
	"2006/01/02",
}

// BookingCleaner normalizes raw import rows into Booking records
type BookingCleaner struct {
	logger *utils.Logger
}

// NewBookingCleaner creates a new BookingCleaner
func NewBookingCleaner(logger *utils.Logger) *BookingCleaner {
	return &BookingCleaner{logger: logger}
}

// Clean converts raw rows to bookings. Rows without a booking reference or a readable
// arrival date are skipped, as are repeated references within a dataset.
func (c *BookingCleaner) Clean(raw []models.RawBooking) []models.Booking {
	seen := make(map[string]bool)
	cleaned := make([]models.Booking, 0, len(raw))

	for _, r := range raw {
		ref := strings.TrimSpace(r.BookingRef)
		if ref == "" {
			c.logger.Debug("Skipping booking without reference")
			continue
		}

		key := strings.TrimSpace(r.DatasetID) + "|" + ref
		if seen[key] {
			c.logger.Debug("Skipping duplicate booking: %s", ref)
			continue
		}

		arrival, ok := parseDate(r.ArrivalDate)
		if !ok {
			c.logger.Warn("Skipping booking %s: unreadable arrival date %q", ref, r.ArrivalDate)
			continue
		}
		seen[key] = true

		departure, _ := parseDate(r.DepartureDate)
		booked, _ := parseDate(r.BookingDate)

		name := strings.Join(strings.Fields(r.GuestName), " ")
		if name == "" {
			name = defaultGuestName
		}
		status := strings.TrimSpace(r.BookingStatus)

		b := models.Booking{
			DatasetID:        strings.TrimSpace(r.DatasetID),
			BookingRef:       ref,
			GuestName:        name,
			GuestCountry:     strings.TrimSpace(r.GuestCountry),
			ArrivalDate:      arrival,
			DepartureDate:    departure,
			BookingDate:      booked,
			Adults:           parseCount(r.Adults),
			Children:         parseCount(r.Children),
			RoomType:         strings.TrimSpace(r.RoomType),
			RoomNumber:       strings.TrimSpace(r.RoomNumber),
			TotalAmount:      strings.TrimSpace(r.TotalAmount),
			ADR:              strings.TrimSpace(r.ADR),
			Channel:          strings.TrimSpace(r.Channel),
			MarketSegment:    strings.TrimSpace(r.MarketSegment),
			BookingStatus:    status,
			IsCancelled:      parseBool(r.IsCancelled) || strings.Contains(strings.ToLower(status), "cancel"),
			LeadTime:         parseOptionalInt(r.LeadTime),
			LengthOfStay:     parseCount(r.LengthOfStay),
			IsRepeatedGuest:  parseOptionalBool(r.IsRepeatedGuest),
			PreviousBookings: parseOptionalInt(r.PreviousBookings),
			BookingChanges:   parseOptionalInt(r.BookingChanges),
		}
		b.LengthOfStay = b.Nights()

		cleaned = append(cleaned, b)
	}

	c.logger.Info("Cleaned %d bookings from %d raw records", len(cleaned), len(raw))
	return cleaned
}

// parseDate tries the known layouts in order and returns the date in UTC
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseCount reads a non-negative integer, tolerating "2.0"; anything else is 0
func parseCount(raw string) int {
	v := parseOptionalInt(raw)
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

func parseOptionalInt(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

func parseBool(raw string) bool {
	v := parseOptionalBool(raw)
	return v != nil && *v
}

func parseOptionalBool(raw string) *bool {
	var v bool
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "t":
		v = true
	case "0", "false", "no", "n", "f":
		v = false
	default:
		return nil
	}
	return &v
}
