package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"hotel-analytics/models"
)

type guestGeneration struct {
	id     string
	guests []models.Guest
	stays  []models.GuestStay
}

// MemoryStore keeps bookings and guest generations in process memory.
// A new guest generation is built outside the lock and published with one map write.
type MemoryStore struct {
	mu          sync.RWMutex
	bookings    map[string][]models.Booking
	generations map[string]*guestGeneration
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bookings:    make(map[string][]models.Booking),
		generations: make(map[string]*guestGeneration),
	}
}

// SaveBookings appends bookings to their datasets, ignoring references already present
func (m *MemoryStore) SaveBookings(_ context.Context, bookings []models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	for _, list := range m.bookings {
		for _, b := range list {
			seen[b.DatasetID+"|"+b.BookingRef] = true
		}
	}
	for _, b := range bookings {
		key := b.DatasetID + "|" + b.BookingRef
		if seen[key] {
			continue
		}
		seen[key] = true
		m.bookings[b.DatasetID] = append(m.bookings[b.DatasetID], b)
	}
	return nil
}

// GetBookings returns a copy of the bookings of a dataset
func (m *MemoryStore) GetBookings(_ context.Context, datasetID string) ([]models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Booking(nil), m.bookings[datasetID]...), nil
}

// DatasetIDs returns every dataset with at least one booking
func (m *MemoryStore) DatasetIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.bookings))
	for id, list := range m.bookings {
		if len(list) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ReplaceGuests publishes a new guest generation for the dataset
func (m *MemoryStore) ReplaceGuests(ctx context.Context, datasetID string, guests []models.Guest, stays []models.GuestStay) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gen := &guestGeneration{id: uuid.NewString()}
	var err error
	gen.guests, gen.stays, err = stampGeneration(datasetID, gen.id, guests, stays)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.generations[datasetID] = gen
	m.mu.Unlock()
	return nil
}

// ListGuests returns a copy of the current guest generation of a dataset
func (m *MemoryStore) ListGuests(_ context.Context, datasetID string) ([]models.Guest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gen, ok := m.generations[datasetID]
	if !ok {
		return []models.Guest{}, nil
	}
	return append([]models.Guest(nil), gen.guests...), nil
}

// ListStays returns a copy of the stays of the current guest generation of a dataset
func (m *MemoryStore) ListStays(_ context.Context, datasetID string) ([]models.GuestStay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gen, ok := m.generations[datasetID]
	if !ok {
		return []models.GuestStay{}, nil
	}
	return append([]models.GuestStay(nil), gen.stays...), nil
}

// Generation returns the id of the current guest generation of a dataset, "" if none
func (m *MemoryStore) Generation(datasetID string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if gen, ok := m.generations[datasetID]; ok {
		return gen.id
	}
	return ""
}
