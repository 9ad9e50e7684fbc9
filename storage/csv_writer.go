package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"hotel-analytics/models"
	"hotel-analytics/utils"
)

// CSVWriter handles writing the guest directory to a CSV file
type CSVWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{filePath: filePath, logger: logger}
}

var guestHeader = []string{
	"dataset_id", "guest_id", "name", "country",
	"first_stay", "last_stay", "total_bookings", "cancelled_bookings",
	"total_revenue", "average_spend", "rfm_score", "lifecycle_stage",
	"loyalty_tier", "guest_type", "travel_type", "preferred_channel",
	"clv_score", "churn_risk_score", "upsell_propensity", "ambassador_score",
}

// WriteGuests writes guests to the CSV file, replacing its previous content
func (w *CSVWriter) WriteGuests(guests []models.Guest) error {
	// Ensure output directory exists
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return errors.Wrap(err, "failed to create CSV file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(guestHeader); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}

	for _, g := range guests {
		row := []string{
			g.DatasetID,
			g.ID,
			g.Name,
			g.Country,
			g.FirstBookingDate.UTC().Format("2006-01-02"),
			g.LastBookingDate.UTC().Format("2006-01-02"),
			strconv.Itoa(g.TotalBookings),
			strconv.Itoa(g.CancelledBookings),
			money(g.TotalRevenue),
			money(g.AverageSpend),
			strconv.Itoa(g.RFMScore),
			g.LifecycleStage,
			g.LoyaltyTier,
			g.GuestType,
			g.TravelType,
			g.PreferredChannel,
			money(g.CLVScore),
			money(g.ChurnRiskScore),
			money(g.UpsellPropensity),
			money(g.AmbassadorScore),
		}
		if err := writer.Write(row); err != nil {
			w.logger.Error("Failed to write CSV row for '%s': %v", g.Name, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, "failed to flush CSV file")
	}
	w.logger.Info("Guest directory written to: %s (%d rows)", w.filePath, len(guests))
	return nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
