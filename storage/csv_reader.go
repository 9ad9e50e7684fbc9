package storage

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"hotel-analytics/models"
	"hotel-analytics/utils"
)

// bookingFields maps normalized header names to RawBooking setters
var bookingFields = map[string]func(r *models.RawBooking, v string){
	"datasetid":           func(r *models.RawBooking, v string) { r.DatasetID = v },
	"bookingref":          func(r *models.RawBooking, v string) { r.BookingRef = v },
	"bookingreference":    func(r *models.RawBooking, v string) { r.BookingRef = v },
	"guestname":           func(r *models.RawBooking, v string) { r.GuestName = v },
	"guestcountry":        func(r *models.RawBooking, v string) { r.GuestCountry = v },
	"country":             func(r *models.RawBooking, v string) { r.GuestCountry = v },
	"arrivaldate":         func(r *models.RawBooking, v string) { r.ArrivalDate = v },
	"departuredate":       func(r *models.RawBooking, v string) { r.DepartureDate = v },
	"bookingdate":         func(r *models.RawBooking, v string) { r.BookingDate = v },
	"adults":              func(r *models.RawBooking, v string) { r.Adults = v },
	"children":            func(r *models.RawBooking, v string) { r.Children = v },
	"roomtype":            func(r *models.RawBooking, v string) { r.RoomType = v },
	"roomnumber":          func(r *models.RawBooking, v string) { r.RoomNumber = v },
	"totalamount":         func(r *models.RawBooking, v string) { r.TotalAmount = v },
	"adr":                 func(r *models.RawBooking, v string) { r.ADR = v },
	"channel":             func(r *models.RawBooking, v string) { r.Channel = v },
	"distributionchannel": func(r *models.RawBooking, v string) { r.Channel = v },
	"marketsegment":       func(r *models.RawBooking, v string) { r.MarketSegment = v },
	"bookingstatus":       func(r *models.RawBooking, v string) { r.BookingStatus = v },
	"status":              func(r *models.RawBooking, v string) { r.BookingStatus = v },
	"iscancelled":         func(r *models.RawBooking, v string) { r.IsCancelled = v },
	"iscanceled":          func(r *models.RawBooking, v string) { r.IsCancelled = v },
	"leadtime":            func(r *models.RawBooking, v string) { r.LeadTime = v },
	"lengthofstay":        func(r *models.RawBooking, v string) { r.LengthOfStay = v },
	"isrepeatedguest":     func(r *models.RawBooking, v string) { r.IsRepeatedGuest = v },
	"previousbookings":    func(r *models.RawBooking, v string) { r.PreviousBookings = v },
	"bookingchanges":      func(r *models.RawBooking, v string) { r.BookingChanges = v },
}

// CSVReader reads raw booking rows from a CSV file with a header line.
// Columns are matched by name regardless of case, spaces and underscores.
type CSVReader struct {
	filePath         string
	defaultDatasetID string
	logger           *utils.Logger
}

// NewCSVReader creates a new CSVReader. Rows without a dataset column get defaultDatasetID.
func NewCSVReader(filePath, defaultDatasetID string, logger *utils.Logger) *CSVReader {
	return &CSVReader{filePath: filePath, defaultDatasetID: defaultDatasetID, logger: logger}
}

// ReadBookings reads every row of the file
func (r *CSVReader) ReadBookings() ([]models.RawBooking, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open bookings file")
	}
	defer file.Close()

	rows, err := ParseBookingsCSV(file, r.defaultDatasetID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", r.filePath)
	}
	r.logger.Info("Read %d booking rows from %s", len(rows), r.filePath)
	return rows, nil
}

// ParseBookingsCSV reads raw booking rows from src. The delimiter is a comma or,
// when the header contains semicolons and no commas, a semicolon.
func ParseBookingsCSV(src io.Reader, defaultDatasetID string) ([]models.RawBooking, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	text := strings.TrimPrefix(string(data), "\ufeff")

	reader := csv.NewReader(strings.NewReader(text))
	header := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		header = text[:i]
	}
	if strings.Contains(header, ";") && !strings.Contains(header, ",") {
		reader.Comma = ';'
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "invalid CSV")
	}
	if len(records) == 0 {
		return nil, errors.New("CSV file is empty")
	}

	setters := make([]func(*models.RawBooking, string), len(records[0]))
	for i, name := range records[0] {
		setters[i] = bookingFields[normalizeHeader(name)]
	}

	rows := make([]models.RawBooking, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		row := models.RawBooking{}
		for i, value := range record {
			if i < len(setters) && setters[i] != nil {
				setters[i](&row, strings.TrimSpace(value))
			}
		}
		if row.DatasetID == "" {
			row.DatasetID = defaultDatasetID
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "", " ", "", "-", "").Replace(name)
}
