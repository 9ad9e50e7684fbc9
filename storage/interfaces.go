package storage

import (
	"context"

	"hotel-analytics/models"
)

// BookingSource provides the bookings of a dataset
type BookingSource interface {
	GetBookings(ctx context.Context, datasetID string) ([]models.Booking, error)
}

// BookingSink stores cleaned bookings
type BookingSink interface {
	SaveBookings(ctx context.Context, bookings []models.Booking) error
}

// GuestStore holds the current guest generation of each dataset.
// ReplaceGuests swaps the whole generation atomically: readers see either the previous
// set or the new one, never a partial rebuild.
type GuestStore interface {
	ReplaceGuests(ctx context.Context, datasetID string, guests []models.Guest, stays []models.GuestStay) error
	ListGuests(ctx context.Context, datasetID string) ([]models.Guest, error)
	ListStays(ctx context.Context, datasetID string) ([]models.GuestStay, error)
}
