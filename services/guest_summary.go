package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"hotel-analytics/models"
	"hotel-analytics/storage"
	"hotel-analytics/utils"
)

const topGuestLimit = 10

// stageOrder is the presentation order of lifecycle segments
var stageOrder = []string{
	models.StageChampion,
	models.StageLoyal,
	models.StageReturning,
	models.StageFirstTimer,
	models.StageAtRisk,
	models.StageChurned,
}

// GuestSummaryService builds read views over the current guest generation
type GuestSummaryService struct {
	store storage.GuestStore
}

// NewGuestSummaryService creates a new GuestSummaryService
func NewGuestSummaryService(store storage.GuestStore) *GuestSummaryService {
	return &GuestSummaryService{store: store}
}

// Summarize reads the guests of a dataset back and aggregates them
func (s *GuestSummaryService) Summarize(ctx context.Context, datasetID string) (*models.GuestSummary, error) {
	guests, err := s.store.ListGuests(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("list guests of dataset %q: %w", datasetID, err)
	}
	return SummarizeGuests(guests), nil
}

// SummarizeGuests aggregates an in-memory guest set
func SummarizeGuests(guests []models.Guest) *models.GuestSummary {
	summary := &models.GuestSummary{
		ByLifecycleStage: make(map[string]int),
		ByLoyaltyTier:    make(map[string]int),
		ByGuestType:      make(map[string]int),
		ByTravelType:     make(map[string]int),
		TopGuests:        []models.Guest{},
	}
	if len(guests) == 0 {
		return summary
	}

	var clv, churn, rfm float64
	var repeat int
	for i := range guests {
		g := &guests[i]
		summary.TotalRevenue += g.TotalRevenue
		clv += g.CLVScore
		churn += g.ChurnRiskScore
		rfm += float64(g.RFMScore)
		if g.TotalBookings > 1 {
			repeat++
		}
		summary.ByLifecycleStage[g.LifecycleStage]++
		summary.ByLoyaltyTier[g.LoyaltyTier]++
		summary.ByGuestType[g.GuestType]++
		summary.ByTravelType[g.TravelType]++
	}

	n := float64(len(guests))
	summary.TotalGuests = len(guests)
	summary.TotalRevenue = utils.Round2(summary.TotalRevenue)
	summary.AverageCLV = utils.Round2(clv / n)
	summary.AverageChurnRisk = utils.Round2(churn / n)
	summary.AverageRFM = utils.Round2(rfm / n)
	summary.RepeatGuestRate = utils.Pct(float64(repeat), n)
	summary.AtRiskGuests = summary.ByLifecycleStage[models.StageAtRisk]
	summary.ChampionGuests = summary.ByLifecycleStage[models.StageChampion]

	top := append([]models.Guest(nil), guests...)
	sortGuests(top, "clv")
	if len(top) > topGuestLimit {
		top = top[:topGuestLimit]
	}
	summary.TopGuests = top
	return summary
}

// Directory returns one filtered, sorted page of the guest directory
func (s *GuestSummaryService) Directory(ctx context.Context, datasetID string, q models.GuestQuery) (*models.GuestPage, error) {
	guests, err := s.store.ListGuests(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("list guests of dataset %q: %w", datasetID, err)
	}

	search := NormalizeName(q.Search)
	filtered := make([]models.Guest, 0, len(guests))
	for _, g := range guests {
		if q.Stage != "" && g.LifecycleStage != q.Stage {
			continue
		}
		if q.Tier != "" && g.LoyaltyTier != q.Tier {
			continue
		}
		if search != "" && !strings.Contains(g.NormalizedName, search) {
			continue
		}
		filtered = append(filtered, g)
	}
	sortGuests(filtered, q.SortBy)

	page := &models.GuestPage{Total: len(filtered), Guests: []models.Guest{}}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Offset >= len(filtered) {
		return page, nil
	}
	end := len(filtered)
	if q.Limit > 0 && q.Offset+q.Limit < end {
		end = q.Offset + q.Limit
	}
	page.Guests = filtered[q.Offset:end]
	return page, nil
}

// Segments groups the guests of a dataset by lifecycle stage. Every stage is present,
// empty ones with zero values.
func (s *GuestSummaryService) Segments(ctx context.Context, datasetID string) ([]models.GuestSegment, error) {
	guests, err := s.store.ListGuests(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("list guests of dataset %q: %w", datasetID, err)
	}

	byStage := make(map[string]*models.GuestSegment, len(stageOrder))
	segments := make([]*models.GuestSegment, 0, len(stageOrder))
	for _, stage := range stageOrder {
		seg := &models.GuestSegment{Stage: stage}
		byStage[stage] = seg
		segments = append(segments, seg)
	}

	var total float64
	for i := range guests {
		g := &guests[i]
		seg, ok := byStage[g.LifecycleStage]
		if !ok {
			seg = &models.GuestSegment{Stage: g.LifecycleStage}
			byStage[g.LifecycleStage] = seg
			segments = append(segments, seg)
		}
		seg.Guests++
		seg.Revenue += g.TotalRevenue
		seg.AverageRFM += float64(g.RFMScore)
		seg.AverageCLV += g.CLVScore
		total += g.TotalRevenue
	}

	out := make([]models.GuestSegment, 0, len(segments))
	for _, seg := range segments {
		if seg.Guests > 0 {
			seg.AverageRFM = utils.Round2(seg.AverageRFM / float64(seg.Guests))
			seg.AverageCLV = utils.Round2(seg.AverageCLV / float64(seg.Guests))
		}
		seg.Revenue = utils.Round2(seg.Revenue)
		seg.RevenueShare = utils.Pct(seg.Revenue, total)
		out = append(out, *seg)
	}
	return out, nil
}

// sortGuests orders guests descending by the given key (ascending for name), ties by name
func sortGuests(guests []models.Guest, by string) {
	byName := func(a, b *models.Guest) bool {
		if a.NormalizedName != b.NormalizedName {
			return a.NormalizedName < b.NormalizedName
		}
		return a.ID < b.ID
	}
	var less func(a, b *models.Guest) bool
	switch by {
	case "clv":
		less = func(a, b *models.Guest) bool {
			if a.CLVScore != b.CLVScore {
				return a.CLVScore > b.CLVScore
			}
			return byName(a, b)
		}
	case "churn":
		less = func(a, b *models.Guest) bool {
			if a.ChurnRiskScore != b.ChurnRiskScore {
				return a.ChurnRiskScore > b.ChurnRiskScore
			}
			return byName(a, b)
		}
	case "lastStay":
		less = func(a, b *models.Guest) bool {
			if !a.LastBookingDate.Equal(b.LastBookingDate) {
				return a.LastBookingDate.After(b.LastBookingDate)
			}
			return byName(a, b)
		}
	case "name":
		less = byName
	default:
		less = func(a, b *models.Guest) bool {
			if a.TotalRevenue != b.TotalRevenue {
				return a.TotalRevenue > b.TotalRevenue
			}
			return byName(a, b)
		}
	}
	sort.SliceStable(guests, func(i, j int) bool { return less(&guests[i], &guests[j]) })
}
