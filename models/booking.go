package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// RawBooking is an unprocessed booking row as read from an import file
type RawBooking struct {
	DatasetID        string
	BookingRef       string
	GuestName        string
	GuestCountry     string
	ArrivalDate      string
	DepartureDate    string
	BookingDate      string
	Adults           string
	Children         string
	RoomType         string
	RoomNumber       string
	TotalAmount      string
	ADR              string
	Channel          string
	MarketSegment    string
	BookingStatus    string
	IsCancelled      string
	LeadTime         string
	LengthOfStay     string
	IsRepeatedGuest  string
	PreviousBookings string
	BookingChanges   string
}

// Booking is a cleaned booking record. Money stays a decimal string as stored upstream;
// use Amount and DailyRate to read it.
type Booking struct {
	DatasetID        string    `db:"dataset_id" json:"datasetId"`
	BookingRef       string    `db:"booking_ref" json:"bookingRef"`
	GuestName        string    `db:"guest_name" json:"guestName"`
	GuestCountry     string    `db:"guest_country" json:"guestCountry,omitempty"`
	ArrivalDate      time.Time `db:"arrival_date" json:"arrivalDate"`
	DepartureDate    time.Time `db:"departure_date" json:"departureDate"`
	BookingDate      time.Time `db:"booking_date" json:"bookingDate"`
	Adults           int       `db:"adults" json:"adults"`
	Children         int       `db:"children" json:"children"`
	RoomType         string    `db:"room_type" json:"roomType"`
	RoomNumber       string    `db:"room_number" json:"roomNumber,omitempty"`
	TotalAmount      string    `db:"total_amount" json:"totalAmount"`
	ADR              string    `db:"adr" json:"adr"`
	Channel          string    `db:"channel" json:"channel"`
	MarketSegment    string    `db:"market_segment" json:"marketSegment,omitempty"`
	BookingStatus    string    `db:"booking_status" json:"bookingStatus"`
	IsCancelled      bool      `db:"is_cancelled" json:"isCancelled"`
	LeadTime         *int      `db:"lead_time" json:"leadTime,omitempty"`
	LengthOfStay     int       `db:"length_of_stay" json:"lengthOfStay"`
	IsRepeatedGuest  *bool     `db:"is_repeated_guest" json:"isRepeatedGuest,omitempty"`
	PreviousBookings *int      `db:"previous_bookings" json:"previousBookings,omitempty"`
	BookingChanges   *int      `db:"booking_changes" json:"bookingChanges,omitempty"`
}

// Amount parses TotalAmount, returning 0 when it is missing, malformed or negative
func (b *Booking) Amount() float64 {
	return parseMoney(b.TotalAmount)
}

// DailyRate parses ADR, returning 0 when it is missing, malformed or negative
func (b *Booking) DailyRate() float64 {
	return parseMoney(b.ADR)
}

// Nights returns the length of stay: LengthOfStay if set, else the date span, else 1
func (b *Booking) Nights() int {
	if b.LengthOfStay >= 1 {
		return b.LengthOfStay
	}
	if !b.ArrivalDate.IsZero() && !b.DepartureDate.IsZero() {
		if n := int(math.Round(b.DepartureDate.Sub(b.ArrivalDate).Hours() / 24)); n >= 1 {
			return n
		}
	}
	return 1
}

// LeadDays returns LeadTime if set, else the days between booking and arrival, never negative
func (b *Booking) LeadDays() int {
	if b.LeadTime != nil {
		if *b.LeadTime < 0 {
			return 0
		}
		return *b.LeadTime
	}
	if b.BookingDate.IsZero() || b.ArrivalDate.IsZero() {
		return 0
	}
	days := int(math.Floor(b.ArrivalDate.Sub(b.BookingDate).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// PartySize returns adults plus children
func (b *Booking) PartySize() int {
	return b.Adults + b.Children
}

// Changes returns BookingChanges or 0
func (b *Booking) Changes() int {
	if b.BookingChanges == nil || *b.BookingChanges < 0 {
		return 0
	}
	return *b.BookingChanges
}

// IsRepeat reports whether the booking is flagged as a returning guest
func (b *Booking) IsRepeat() bool {
	if b.IsRepeatedGuest != nil && *b.IsRepeatedGuest {
		return true
	}
	return b.PreviousBookings != nil && *b.PreviousBookings > 0
}

func parseMoney(raw string) float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
