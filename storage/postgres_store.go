package storage

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"hotel-analytics/models"
	"hotel-analytics/utils"
)

// Postgres caps bind parameters per statement at 65535; guest rows carry ~35 columns
const insertChunkSize = 500

var bookingColumns = []string{
	"dataset_id", "booking_ref", "guest_name", "guest_country",
	"arrival_date", "departure_date", "booking_date",
	"adults", "children", "room_type", "room_number",
	"total_amount", "adr", "channel", "market_segment",
	"booking_status", "is_cancelled", "lead_time", "length_of_stay",
	"is_repeated_guest", "previous_bookings", "booking_changes",
}

var guestColumns = []string{
	"id", "dataset_id", "generation", "name", "normalized_name", "country",
	"first_booking_date", "last_booking_date",
	"total_bookings", "cancelled_bookings", "total_revenue", "average_spend",
	"recency_score", "frequency_score", "monetary_score", "rfm_score",
	"preferred_channel", "preferred_room_type", "avg_lead_time", "avg_length_of_stay", "weekend_ratio",
	"cancellation_rate", "modification_count",
	"lifecycle_stage", "loyalty_tier", "guest_type", "travel_type",
	"clv_score", "churn_risk_score", "upsell_propensity", "retention_probability", "ambassador_score",
}

var stayColumns = []string{
	"id", "dataset_id", "generation", "guest_id", "booking_ref",
	"arrival_date", "departure_date", "room_type", "channel",
	"revenue", "adr", "length_of_stay", "lead_time", "party_size",
	"is_cancelled", "is_weekend",
}

const schema = `
CREATE TABLE IF NOT EXISTS bookings (
	dataset_id        TEXT          NOT NULL,
	booking_ref       TEXT          NOT NULL,
	guest_name        TEXT          NOT NULL,
	guest_country     TEXT          NOT NULL DEFAULT '',
	arrival_date      TIMESTAMPTZ   NOT NULL,
	departure_date    TIMESTAMPTZ   NOT NULL,
	booking_date      TIMESTAMPTZ   NOT NULL,
	adults            INTEGER       NOT NULL DEFAULT 0,
	children          INTEGER       NOT NULL DEFAULT 0,
	room_type         TEXT          NOT NULL DEFAULT '',
	room_number       TEXT          NOT NULL DEFAULT '',
	total_amount      TEXT          NOT NULL DEFAULT '0',
	adr               TEXT          NOT NULL DEFAULT '0',
	channel           TEXT          NOT NULL DEFAULT '',
	market_segment    TEXT          NOT NULL DEFAULT '',
	booking_status    TEXT          NOT NULL DEFAULT '',
	is_cancelled      BOOLEAN       NOT NULL DEFAULT FALSE,
	lead_time         INTEGER,
	length_of_stay    INTEGER       NOT NULL DEFAULT 1,
	is_repeated_guest BOOLEAN,
	previous_bookings INTEGER,
	booking_changes   INTEGER,
	PRIMARY KEY (dataset_id, booking_ref)
);

CREATE TABLE IF NOT EXISTS guest_generations (
	dataset_id  TEXT        PRIMARY KEY,
	generation  TEXT        NOT NULL,
	rebuilt_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS guests (
	id                    TEXT          NOT NULL,
	dataset_id            TEXT          NOT NULL,
	generation            TEXT          NOT NULL,
	name                  TEXT          NOT NULL,
	normalized_name       TEXT          NOT NULL,
	country               TEXT          NOT NULL DEFAULT '',
	first_booking_date    TIMESTAMPTZ   NOT NULL,
	last_booking_date     TIMESTAMPTZ   NOT NULL,
	total_bookings        INTEGER       NOT NULL,
	cancelled_bookings    INTEGER       NOT NULL,
	total_revenue         NUMERIC(14,2) NOT NULL,
	average_spend         NUMERIC(14,2) NOT NULL,
	recency_score         SMALLINT      NOT NULL,
	frequency_score       SMALLINT      NOT NULL,
	monetary_score        SMALLINT      NOT NULL,
	rfm_score             SMALLINT      NOT NULL,
	preferred_channel     TEXT          NOT NULL,
	preferred_room_type   TEXT          NOT NULL,
	avg_lead_time         NUMERIC(10,2) NOT NULL,
	avg_length_of_stay    NUMERIC(10,2) NOT NULL,
	weekend_ratio         NUMERIC(4,2)  NOT NULL,
	cancellation_rate     NUMERIC(6,2)  NOT NULL,
	modification_count    INTEGER       NOT NULL,
	lifecycle_stage       TEXT          NOT NULL,
	loyalty_tier          TEXT          NOT NULL,
	guest_type            TEXT          NOT NULL,
	travel_type           TEXT          NOT NULL,
	clv_score             NUMERIC(14,2) NOT NULL,
	churn_risk_score      NUMERIC(6,2)  NOT NULL,
	upsell_propensity     NUMERIC(6,2)  NOT NULL,
	retention_probability NUMERIC(6,2)  NOT NULL,
	ambassador_score      NUMERIC(6,2)  NOT NULL,
	PRIMARY KEY (id, generation)
);

CREATE TABLE IF NOT EXISTS guest_stays (
	id             TEXT          NOT NULL,
	dataset_id     TEXT          NOT NULL,
	generation     TEXT          NOT NULL,
	guest_id       TEXT          NOT NULL,
	booking_ref    TEXT          NOT NULL,
	arrival_date   TIMESTAMPTZ   NOT NULL,
	departure_date TIMESTAMPTZ   NOT NULL,
	room_type      TEXT          NOT NULL,
	channel        TEXT          NOT NULL,
	revenue        NUMERIC(14,2) NOT NULL,
	adr            NUMERIC(14,2) NOT NULL,
	length_of_stay INTEGER       NOT NULL,
	lead_time      INTEGER       NOT NULL,
	party_size     INTEGER       NOT NULL,
	is_cancelled   BOOLEAN       NOT NULL,
	is_weekend     BOOLEAN       NOT NULL,
	PRIMARY KEY (id, generation)
);

CREATE INDEX IF NOT EXISTS idx_guests_dataset_generation ON guests (dataset_id, generation);
CREATE INDEX IF NOT EXISTS idx_guest_stays_dataset_generation ON guest_stays (dataset_id, generation);
CREATE INDEX IF NOT EXISTS idx_guest_stays_guest ON guest_stays (guest_id);
`

// PostgresStore persists bookings and guest generations in PostgreSQL
type PostgresStore struct {
	db     *sqlx.DB
	logger *utils.Logger
}

// NewPostgresStore connects to the database and pings it
func NewPostgresStore(ctx context.Context, connStr string, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", connStr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to DB")
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	logger.Info("Connected to PostgreSQL successfully")
	return &PostgresStore{db: db, logger: logger}, nil
}

// CreateTables creates the booking and guest tables if they don't exist
func (s *PostgresStore) CreateTables(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to create tables")
	}
	s.logger.Info("Tables 'bookings', 'guests' and 'guest_stays' are ready")
	return nil
}

// SaveBookings inserts bookings in a single transaction. Imported bookings are
// immutable, so a reference already present in its dataset is left as is.
func (s *PostgresStore) SaveBookings(ctx context.Context, bookings []models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	query := insertQuery("bookings", bookingColumns) + " ON CONFLICT (dataset_id, booking_ref) DO NOTHING"

	var inserted int64
	err := s.transaction(ctx, func(tx *sqlx.Tx) error {
		for start := 0; start < len(bookings); start += insertChunkSize {
			end := min(start+insertChunkSize, len(bookings))
			res, err := tx.NamedExecContext(ctx, query, bookings[start:end])
			if err != nil {
				return errors.Wrapf(err, "failed to insert bookings %d-%d", start, end)
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += n
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Inserted %d/%d bookings into PostgreSQL", inserted, len(bookings))
	return nil
}

// GetBookings returns the bookings of a dataset ordered by arrival. TIMESTAMPTZ values come
// back in the session time zone, so dates are moved to UTC, the zone they were imported in.
func (s *PostgresStore) GetBookings(ctx context.Context, datasetID string) ([]models.Booking, error) {
	query := "SELECT " + strings.Join(bookingColumns, ", ") +
		" FROM bookings WHERE dataset_id = $1 ORDER BY arrival_date, booking_ref"
	var bookings []models.Booking
	if err := s.db.SelectContext(ctx, &bookings, query, datasetID); err != nil {
		return nil, errors.Wrapf(err, "failed to load bookings of dataset %s", datasetID)
	}
	for i := range bookings {
		b := &bookings[i]
		b.ArrivalDate, b.DepartureDate, b.BookingDate = b.ArrivalDate.UTC(), b.DepartureDate.UTC(), b.BookingDate.UTC()
	}
	return bookings, nil
}

// DatasetIDs returns every dataset with at least one booking
func (s *PostgresStore) DatasetIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, "SELECT DISTINCT dataset_id FROM bookings ORDER BY dataset_id"); err != nil {
		return nil, errors.Wrap(err, "failed to list datasets")
	}
	return ids, nil
}

// ReplaceGuests writes a new guest generation and makes it current in one transaction.
// A transaction-scoped advisory lock serializes rebuilds of the same dataset across
// processes. On any error the transaction rolls back and the previous generation stays.
func (s *PostgresStore) ReplaceGuests(ctx context.Context, datasetID string, guests []models.Guest, stays []models.GuestStay) error {
	generation := uuid.NewString()
	guests, stays, err := stampGeneration(datasetID, generation, guests, stays)
	if err != nil {
		return err
	}

	return s.transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", datasetID); err != nil {
			return errors.Wrap(err, "failed to take dataset lock")
		}

		guestQuery := insertQuery("guests", guestColumns)
		for start := 0; start < len(guests); start += insertChunkSize {
			end := min(start+insertChunkSize, len(guests))
			if _, err := tx.NamedExecContext(ctx, guestQuery, guests[start:end]); err != nil {
				return errors.Wrapf(err, "failed to insert guests %d-%d", start, end)
			}
		}
		stayQuery := insertQuery("guest_stays", stayColumns)
		for start := 0; start < len(stays); start += insertChunkSize {
			end := min(start+insertChunkSize, len(stays))
			if _, err := tx.NamedExecContext(ctx, stayQuery, stays[start:end]); err != nil {
				return errors.Wrapf(err, "failed to insert guest stays %d-%d", start, end)
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO guest_generations (dataset_id, generation, rebuilt_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (dataset_id) DO UPDATE SET generation = EXCLUDED.generation, rebuilt_at = EXCLUDED.rebuilt_at
		`, datasetID, generation); err != nil {
			return errors.Wrap(err, "failed to publish guest generation")
		}

		for _, table := range []string{"guest_stays", "guests"} {
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM "+table+" WHERE dataset_id = $1 AND generation <> $2", datasetID, generation); err != nil {
				return errors.Wrapf(err, "failed to drop previous %s", table)
			}
		}

		s.logger.Debug("Guest generation %s of dataset %s: %d guests, %d stays", generation, datasetID, len(guests), len(stays))
		return nil
	})
}

// ListGuests returns the current guest generation of a dataset
func (s *PostgresStore) ListGuests(ctx context.Context, datasetID string) ([]models.Guest, error) {
	query := "SELECT " + qualified("g", guestColumns) + ` FROM guests g
		JOIN guest_generations gg ON gg.dataset_id = g.dataset_id AND gg.generation = g.generation
		WHERE g.dataset_id = $1 ORDER BY g.normalized_name`
	var guests []models.Guest
	if err := s.db.SelectContext(ctx, &guests, query, datasetID); err != nil {
		return nil, errors.Wrapf(err, "failed to list guests of dataset %s", datasetID)
	}
	for i := range guests {
		g := &guests[i]
		g.FirstBookingDate, g.LastBookingDate = g.FirstBookingDate.UTC(), g.LastBookingDate.UTC()
	}
	return guests, nil
}

// ListStays returns the stays of the current guest generation of a dataset
func (s *PostgresStore) ListStays(ctx context.Context, datasetID string) ([]models.GuestStay, error) {
	query := "SELECT " + qualified("st", stayColumns) + ` FROM guest_stays st
		JOIN guest_generations gg ON gg.dataset_id = st.dataset_id AND gg.generation = st.generation
		WHERE st.dataset_id = $1 ORDER BY st.guest_id, st.arrival_date, st.booking_ref`
	var stays []models.GuestStay
	if err := s.db.SelectContext(ctx, &stays, query, datasetID); err != nil {
		return nil, errors.Wrapf(err, "failed to list guest stays of dataset %s", datasetID)
	}
	for i := range stays {
		st := &stays[i]
		st.ArrivalDate, st.DepartureDate = st.ArrivalDate.UTC(), st.DepartureDate.UTC()
	}
	return stays, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// transaction runs fn inside a transaction, rolling back when it fails
func (s *PostgresStore) transaction(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Failed to rollback transaction: %v", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

func insertQuery(table string, columns []string) string {
	named := make([]string, len(columns))
	for i, c := range columns {
		named[i] = ":" + c
	}
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + strings.Join(named, ", ") + ")"
}

func qualified(alias string, columns []string) string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return strings.Join(out, ", ")
}
