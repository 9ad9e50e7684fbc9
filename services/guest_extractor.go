package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"hotel-analytics/models"
	"hotel-analytics/storage"
	"hotel-analytics/utils"
)

const (
	outcomeRebuilt = "rebuilt"
	outcomeEmpty   = "empty"
	outcomeFailed  = "failed"
)

// ErrRebuildFailed marks an extraction whose guest store replacement failed.
// The previous guest generation is still in place when it is returned.
var ErrRebuildFailed = errors.New("guest rebuild failed")

// RebuildError reports a failed guest rebuild for one dataset
type RebuildError struct {
	DatasetID string
	Err       error
}

func (e *RebuildError) Error() string {
	return fmt.Sprintf("rebuild guests for dataset %q: %v", e.DatasetID, e.Err)
}

func (e *RebuildError) Unwrap() error { return e.Err }

// Is matches ErrRebuildFailed
func (e *RebuildError) Is(target error) bool { return target == ErrRebuildFailed }

// Locker serializes work on a key. The returned func releases it.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// GuestExtractor rebuilds the guest set of a dataset from its bookings
type GuestExtractor struct {
	source  storage.BookingSource
	store   storage.GuestStore
	scorer  *GuestScoringEngine
	locker  Locker
	logger  *utils.Logger
	metrics *Metrics
}

// NewGuestExtractor creates a new GuestExtractor. A nil locker falls back to an
// in-process KeyedMutex; metrics may be nil.
func NewGuestExtractor(source storage.BookingSource, store storage.GuestStore, scorer *GuestScoringEngine,
	locker Locker, logger *utils.Logger, metrics *Metrics) *GuestExtractor {
	if locker == nil {
		locker = utils.NewKeyedMutex()
	}
	return &GuestExtractor{
		source:  source,
		store:   store,
		scorer:  scorer,
		locker:  locker,
		logger:  logger,
		metrics: metrics,
	}
}

// Extract rebuilds the guests of datasetID. Runs for the same dataset are serialized.
// A dataset without bookings yields zero counts and leaves the store untouched.
func (x *GuestExtractor) Extract(ctx context.Context, datasetID string) (*models.ExtractionResult, error) {
	started := time.Now()
	unlock, err := x.locker.Lock(ctx, "guest-extraction:"+datasetID)
	if err != nil {
		return nil, fmt.Errorf("lock dataset %q: %w", datasetID, err)
	}
	defer unlock()

	bookings, err := x.source.GetBookings(ctx, datasetID)
	if err != nil {
		x.metrics.observeExtraction(datasetID, outcomeFailed, started, 0, 0)
		return nil, fmt.Errorf("load bookings for dataset %q: %w", datasetID, err)
	}

	result := &models.ExtractionResult{DatasetID: datasetID}
	if len(bookings) == 0 {
		x.logger.Warn("Dataset %s has no bookings, guest store left untouched", datasetID)
		x.metrics.observeExtraction(datasetID, outcomeEmpty, started, 0, 0)
		return result, nil
	}

	guests, stays := x.scorer.Score(datasetID, bookings)
	if err := x.store.ReplaceGuests(ctx, datasetID, guests, stays); err != nil {
		x.metrics.observeExtraction(datasetID, outcomeFailed, started, 0, 0)
		x.logger.Error("Guest rebuild for dataset %s failed: %v", datasetID, err)
		return nil, &RebuildError{DatasetID: datasetID, Err: err}
	}

	result.TotalGuests = len(guests)
	result.TotalStays = len(stays)
	for i := range guests {
		if guests[i].TotalBookings == 1 {
			result.NewGuests++
		}
	}

	x.metrics.observeExtraction(datasetID, outcomeRebuilt, started, result.TotalGuests, result.TotalStays)
	x.logger.Info("Extracted %d guests (%d new) from %d stays for dataset %s",
		result.TotalGuests, result.NewGuests, result.TotalStays, datasetID)
	return result, nil
}

// ExtractAll runs Extract for every dataset with at most concurrency runs in flight.
// Results are returned in the order of datasetIDs; the first error cancels the rest.
func (x *GuestExtractor) ExtractAll(ctx context.Context, datasetIDs []string, concurrency int) ([]*models.ExtractionResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]*models.ExtractionResult, len(datasetIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, id := range datasetIDs {
		i, id := i, id
		g.Go(func() error {
			res, err := x.Extract(ctx, id)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
