package storage

import (
	"github.com/pkg/errors"

	"hotel-analytics/models"
)

// ErrForeignRow is returned when a guest generation carries rows of another dataset
// or stays of a guest outside the generation
var ErrForeignRow = errors.New("row does not belong to the guest generation")

// stampGeneration copies guests and stays tagged with generation. Every row must belong
// to datasetID and every stay to a guest of the same set.
func stampGeneration(datasetID, generation string, guests []models.Guest, stays []models.GuestStay) ([]models.Guest, []models.GuestStay, error) {
	ids := make(map[string]bool, len(guests))
	outGuests := make([]models.Guest, len(guests))
	for i, g := range guests {
		if g.DatasetID != datasetID {
			return nil, nil, errors.Wrapf(ErrForeignRow, "guest %s has dataset %q, want %q", g.ID, g.DatasetID, datasetID)
		}
		g.Generation = generation
		outGuests[i] = g
		ids[g.ID] = true
	}

	outStays := make([]models.GuestStay, len(stays))
	for i, st := range stays {
		if st.DatasetID != datasetID || !ids[st.GuestID] {
			return nil, nil, errors.Wrapf(ErrForeignRow, "stay %s (booking %s)", st.ID, st.BookingRef)
		}
		st.Generation = generation
		outStays[i] = st
	}
	return outGuests, outStays, nil
}
