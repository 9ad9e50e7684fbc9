package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"hotel-analytics/config"
	"hotel-analytics/models"
	"hotel-analytics/services"
	"hotel-analytics/storage"
	"hotel-analytics/utils"
)

// memoryDatabaseURL keeps bookings and guests in process instead of PostgreSQL
const memoryDatabaseURL = "memory://"

// bookingStore is what the batch needs from a storage backend
type bookingStore interface {
	storage.BookingSource
	storage.BookingSink
	storage.GuestStore
	DatasetIDs(ctx context.Context) ([]string, error)
}

func main() {
	// ================== Bootstrap ====================
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := utils.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("%v", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *utils.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Hotel Booking Analytics")
	logger.Info("Concurrency: %d | Retries: %d | Retry delay: %v",
		cfg.MaxConcurrency, cfg.MaxRetries, cfg.RetryDelay)

	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		return err
	}
	now, err := cfg.Now(utils.RealClock{}.Now())
	if err != nil {
		return err
	}
	logger.Info("Scoring guests as of %s", now.Format("2006-01-02"))

	// =================== Storage ========================================
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// =============== Import ===================================
	reader := storage.NewCSVReader(cfg.BookingsCSVPath, cfg.DefaultDatasetID, logger)
	raw, err := reader.ReadBookings()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("No bookings file at %s, using stored bookings only", cfg.BookingsCSVPath)
	case err != nil:
		return err
	default:
		cleaner := services.NewBookingCleaner(logger)
		if err := store.SaveBookings(ctx, cleaner.Clean(raw)); err != nil {
			return errors.Wrap(err, "failed to store bookings")
		}
	}

	datasetIDs := cfg.DatasetIDs
	if len(datasetIDs) == 0 {
		if datasetIDs, err = store.DatasetIDs(ctx); err != nil {
			return err
		}
	}
	if len(datasetIDs) == 0 {
		logger.Warn("No datasets with bookings, nothing to analyze")
		return nil
	}

	registry := prometheus.NewRegistry()
	metrics := services.NewMetrics(registry)
	identity := services.ExactNameResolver{}

	// ==== Analytics ============================
	analytics := services.NewAnalyticsService(rules, identity, logger, metrics)
	for _, id := range datasetIDs {
		bookings, err := store.GetBookings(ctx, id)
		if err != nil {
			return err
		}
		services.PrintAnalyticsReport(os.Stdout, id, analytics.Generate(bookings))
	}

	// ==== Guest extraction ============================
	locker, closeLocker, err := openLocker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLocker()

	scorer := services.NewGuestScoringEngine(rules, identity, utils.FixedClock{T: now})
	extractor := services.NewGuestExtractor(store, store, scorer, locker, logger, metrics)
	results, err := extractor.ExtractAll(ctx, datasetIDs, cfg.MaxConcurrency)
	if err != nil {
		if errors.Is(err, services.ErrRebuildFailed) {
			logger.Error("Previous guest sets were kept for datasets that failed to rebuild")
		}
		return err
	}

	summaries := services.NewGuestSummaryService(store)
	var directory []models.Guest
	for i, id := range datasetIDs {
		summary, err := summaries.Summarize(ctx, id)
		if err != nil {
			return err
		}
		services.PrintGuestSummary(os.Stdout, id, results[i], summary)

		page, err := summaries.Directory(ctx, id, models.GuestQuery{SortBy: "revenue"})
		if err != nil {
			return err
		}
		directory = append(directory, page.Guests...)
	}

	// ========= CSV: guest directory ===========================
	if err := storage.NewCSVWriter(cfg.GuestsCSVPath, logger).WriteGuests(directory); err != nil {
		// Non-fatal: guests are already stored
		logger.Error("Failed to write guest CSV: %v", err)
	}

	if cfg.PushgatewayURL != "" {
		if err := push.New(cfg.PushgatewayURL, "hotel_analytics").Gatherer(registry).Push(); err != nil {
			logger.Warn("Failed to push metrics to %s: %v", cfg.PushgatewayURL, err)
		}
	}

	fmt.Println(" Done! Guest directory →", cfg.GuestsCSVPath)
	return nil
}

// openStore connects to PostgreSQL with retries, or uses a MemoryStore for memory://
func openStore(ctx context.Context, cfg *config.Config, logger *utils.Logger) (bookingStore, func(), error) {
	if cfg.DatabaseURL == memoryDatabaseURL {
		logger.Info("Using in-memory storage")
		return storage.NewMemoryStore(), func() {}, nil
	}

	var pg *storage.PostgresStore
	err := utils.RetryWithBackoff(cfg.MaxRetries, cfg.RetryDelay, func() error {
		var err error
		pg, err = storage.NewPostgresStore(ctx, cfg.DatabaseURL, logger)
		return err
	}, logger)
	if err != nil {
		logger.Error("Make sure Docker is running: docker start my-postgres")
		return nil, nil, errors.Wrap(err, "cannot connect to PostgreSQL")
	}
	if err := pg.CreateTables(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	return pg, pg.Close, nil
}

// openLocker returns a Redis lock when REDIS_URL is set, else an in-process one
func openLocker(ctx context.Context, cfg *config.Config, logger *utils.Logger) (services.Locker, func(), error) {
	if cfg.RedisURL == "" {
		return utils.NewKeyedMutex(), func() {}, nil
	}
	locker, err := storage.NewRedisLocker(ctx, cfg.RedisURL, cfg.LockTTL, logger)
	if err != nil {
		return nil, nil, err
	}
	return locker, func() { _ = locker.Close() }, nil
}
