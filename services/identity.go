package services

import (
	"strings"

	"hotel-analytics/models"
)

// IdentityResolver decides which bookings belong to the same guest.
// Scoring only sees the key, so a fuzzy or contact-based resolver can replace the default.
type IdentityResolver interface {
	// Key returns the grouping key for the booking's guest
	Key(b *models.Booking) string
	// DisplayName returns the human-readable guest name
	DisplayName(b *models.Booking) string
}

// ExactNameResolver groups bookings by normalized guest name.
// Different spellings never merge; different people with the same name always do.
type ExactNameResolver struct{}

func (ExactNameResolver) Key(b *models.Booking) string {
	return NormalizeName(b.GuestName)
}

func (ExactNameResolver) DisplayName(b *models.Booking) string {
	return strings.Join(strings.Fields(b.GuestName), " ")
}

// NormalizeName lowercases, trims and collapses internal whitespace
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
