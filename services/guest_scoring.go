package services

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"hotel-analytics/config"
	"hotel-analytics/models"
	"hotel-analytics/utils"
)

var (
	guestNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("hotel-analytics/guest"))
	stayNamespace  = uuid.NewSHA1(uuid.NameSpaceURL, []byte("hotel-analytics/guest-stay"))
)

// GuestScoringEngine groups bookings by guest identity and scores each guest.
// CLV, churn, upsell and ambassador scores are heuristics, not fitted models.
type GuestScoringEngine struct {
	rules    *config.Rules
	identity IdentityResolver
	clock    utils.Clock
}

// NewGuestScoringEngine creates a scoring engine; recency is measured against clock
func NewGuestScoringEngine(rules *config.Rules, identity IdentityResolver, clock utils.Clock) *GuestScoringEngine {
	if rules == nil {
		rules = config.DefaultRules()
	}
	if identity == nil {
		identity = ExactNameResolver{}
	}
	if clock == nil {
		clock = utils.RealClock{}
	}
	return &GuestScoringEngine{rules: rules, identity: identity, clock: clock}
}

// Score builds one Guest per identity and one GuestStay per booking. Output is ordered
// by identity key, then arrival date, so identical input always yields identical output.
func (e *GuestScoringEngine) Score(datasetID string, bookings []models.Booking) ([]models.Guest, []models.GuestStay) {
	groups := make(map[string][]*models.Booking)
	for i := range bookings {
		key := e.identity.Key(&bookings[i])
		groups[key] = append(groups[key], &bookings[i])
	}

	guests := make([]models.Guest, 0, len(groups))
	stays := make([]models.GuestStay, 0, len(bookings))
	for _, key := range utils.SortedKeys(groups) {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			if !group[i].ArrivalDate.Equal(group[j].ArrivalDate) {
				return group[i].ArrivalDate.Before(group[j].ArrivalDate)
			}
			return group[i].BookingRef < group[j].BookingRef
		})

		guest := e.scoreGuest(datasetID, key, group)
		guests = append(guests, guest)
		for i, b := range group {
			stays = append(stays, newGuestStay(datasetID, guest.ID, key, i, b))
		}
	}
	return guests, stays
}

// scoreGuest computes every metric of one guest from their stays, ordered by arrival
func (e *GuestScoringEngine) scoreGuest(datasetID, key string, stays []*models.Booking) models.Guest {
	g := models.Guest{
		ID:             GuestID(datasetID, key),
		DatasetID:      datasetID,
		Name:           e.identity.DisplayName(stays[0]),
		NormalizedName: key,
	}

	channels := map[string]int{}
	roomTypes := map[string]int{}
	countries := map[string]int{}
	segments := map[string]int{}
	travelTypes := map[string]int{}
	var confirmed, weekend, leadSum, nightsSum int

	for _, b := range stays {
		g.TotalBookings++
		if b.IsCancelled {
			g.CancelledBookings++
		} else {
			confirmed++
			g.TotalRevenue += b.Amount()
		}
		if g.FirstBookingDate.IsZero() || b.ArrivalDate.Before(g.FirstBookingDate) {
			g.FirstBookingDate = b.ArrivalDate
		}
		if b.ArrivalDate.After(g.LastBookingDate) {
			g.LastBookingDate = b.ArrivalDate
		}
		if utils.IsWeekendArrival(b.ArrivalDate) {
			weekend++
		}
		leadSum += b.LeadDays()
		nightsSum += b.Nights()
		g.ModificationCount += b.Changes()

		channels[orUnknown(b.Channel)]++
		roomTypes[orUnknown(b.RoomType)]++
		travelTypes[travelType(b)]++
		if b.GuestCountry != "" {
			countries[b.GuestCountry]++
		}
		if b.MarketSegment != "" {
			segments[b.MarketSegment]++
		}
	}

	n := float64(g.TotalBookings)
	g.TotalRevenue = utils.Round2(g.TotalRevenue)
	g.AverageSpend = utils.Round2(utils.SafeDiv(g.TotalRevenue, float64(confirmed)))
	g.CancellationRate = utils.Pct(float64(g.CancelledBookings), n)
	g.AvgLeadTime = utils.Round2(utils.SafeDiv(float64(leadSum), n))
	g.AvgLengthOfStay = utils.Round2(utils.SafeDiv(float64(nightsSum), n))
	g.WeekendRatio = utils.Round2(utils.SafeDiv(float64(weekend), n))
	g.PreferredChannel = utils.TopKey(channels, unknownKey)
	g.PreferredRoomType = utils.TopKey(roomTypes, unknownKey)
	g.Country = utils.TopKey(countries, "")
	g.TravelType = utils.TopKey(travelTypes, "solo")

	// RFM
	recencyDays := utils.DaysBetween(g.LastBookingDate, e.clock.Now())
	if recencyDays < 0 {
		recencyDays = 0
	}
	g.RecencyScore = e.rules.RecencyScore(recencyDays)
	g.FrequencyScore = e.rules.FrequencyScore(g.TotalBookings)
	g.MonetaryScore = e.rules.MonetaryScore(g.TotalRevenue)
	g.RFMScore = RFMScore(g.RecencyScore, g.FrequencyScore, g.MonetaryScore)

	// Classification
	g.LifecycleStage = e.rules.LifecycleStage(g.TotalBookings, g.RecencyScore)
	g.LoyaltyTier = e.rules.LoyaltyTier(g.RFMScore, g.TotalBookings, g.TotalRevenue)
	g.GuestType = e.guestType(&g, utils.TopKey(segments, ""))

	// Heuristic predictive scores
	g.CLVScore = e.lifetimeValue(&g)
	g.ChurnRiskScore = ChurnRisk(g.RecencyScore, g.FrequencyScore, g.CancellationRate)
	g.RetentionProbability = utils.Round2(100 - g.ChurnRiskScore)
	g.UpsellPropensity = e.upsellPropensity(&g)
	g.AmbassadorScore = AmbassadorScore(g.FrequencyScore, g.MonetaryScore, g.CancellationRate)
	return g
}

// RFMScore is the rounded mean of the three component scores
func RFMScore(recency, frequency, monetary int) int {
	return int(math.Round(float64(recency+frequency+monetary) / 3))
}

// ChurnRisk = (5-R)*15 + (5-F)*10 + min(2*cancellationRate, 30), clamped to [0,100]
func ChurnRisk(recency, frequency int, cancellationRate float64) float64 {
	score := float64(5-recency)*15 + float64(5-frequency)*10 + math.Min(cancellationRate*2, 30)
	return utils.Round2(utils.Clamp(score, 0, 100))
}

// AmbassadorScore = mean(F, M) * 20, minus 20 for guests cancelling more than 20%, clamped to [0,100]
func AmbassadorScore(frequency, monetary int, cancellationRate float64) float64 {
	score := float64(frequency+monetary) / 2 * 20
	if cancellationRate > 20 {
		score -= 20
	}
	return utils.Round2(utils.Clamp(score, 0, 100))
}

// lifetimeValue = averageSpend * min(bookings, cap) * recency/5 * multiplier
func (e *GuestScoringEngine) lifetimeValue(g *models.Guest) float64 {
	bookings := g.TotalBookings
	if bookings > e.rules.Scoring.CLVBookingCap {
		bookings = e.rules.Scoring.CLVBookingCap
	}
	clv := g.AverageSpend * float64(bookings) * (float64(g.RecencyScore) / 5) * e.rules.Scoring.CLVMultiplier
	return utils.Round2(clv)
}

func (e *GuestScoringEngine) upsellPropensity(g *models.Guest) float64 {
	sc := e.rules.Scoring
	score := sc.UpsellBase
	if g.AverageSpend > sc.UpsellSpendThreshold {
		score += 15
	}
	if g.FrequencyScore >= 3 {
		score += 15
	}
	room := strings.ToLower(g.PreferredRoomType)
	for _, kw := range sc.UpsellPremiumRooms {
		if strings.Contains(room, strings.ToLower(kw)) {
			score += 10
			break
		}
	}
	return math.Min(score, 100)
}

func (e *GuestScoringEngine) guestType(g *models.Guest, segment string) string {
	if g.LoyaltyTier == e.rules.Scoring.VIPTier {
		return "vip"
	}
	for _, kw := range e.rules.Scoring.CorporateKeywords {
		kw = strings.ToLower(kw)
		if strings.Contains(strings.ToLower(g.PreferredChannel), kw) || strings.Contains(strings.ToLower(segment), kw) {
			return "corporate"
		}
	}
	if g.TotalBookings > 1 {
		return "repeat"
	}
	return "new"
}

func travelType(b *models.Booking) string {
	switch {
	case b.Children > 0:
		return "family"
	case b.Adults >= 3:
		return "group"
	case b.Adults == 2:
		return "couple"
	default:
		return "solo"
	}
}

// GuestID is the stable id of a guest identity within a dataset
func GuestID(datasetID, key string) string {
	return uuid.NewSHA1(guestNamespace, []byte(datasetID+"\x00"+key)).String()
}

func newGuestStay(datasetID, guestID, key string, ordinal int, b *models.Booking) models.GuestStay {
	id := uuid.NewSHA1(stayNamespace, []byte(datasetID+"\x00"+key+"\x00"+b.BookingRef+"\x00"+strconv.Itoa(ordinal)))
	return models.GuestStay{
		ID:            id.String(),
		DatasetID:     datasetID,
		GuestID:       guestID,
		BookingRef:    b.BookingRef,
		ArrivalDate:   b.ArrivalDate,
		DepartureDate: b.DepartureDate,
		RoomType:      b.RoomType,
		Channel:       b.Channel,
		Revenue:       b.Amount(),
		ADR:           b.DailyRate(),
		LengthOfStay:  b.Nights(),
		LeadTime:      b.LeadDays(),
		PartySize:     b.PartySize(),
		IsCancelled:   b.IsCancelled,
		IsWeekend:     utils.IsWeekendArrival(b.ArrivalDate),
	}
}
