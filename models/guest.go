package models

import "time"

// Lifecycle stages
const (
	StageFirstTimer = "first_timer"
	StageReturning  = "returning"
	StageLoyal      = "loyal"
	StageChampion   = "champion"
	StageAtRisk     = "at_risk"
	StageChurned    = "churned"
)

// Loyalty tiers
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// Guest is a scored guest profile, rebuilt wholesale on every extraction run.
// The predictive scores are heuristics, not fitted models.
type Guest struct {
	ID             string `db:"id" json:"id"`
	DatasetID      string `db:"dataset_id" json:"datasetId"`
	Generation     string `db:"generation" json:"-"`
	Name           string `db:"name" json:"name"`
	NormalizedName string `db:"normalized_name" json:"normalizedName"`
	Country        string `db:"country" json:"country,omitempty"`

	FirstBookingDate time.Time `db:"first_booking_date" json:"firstBookingDate"`
	LastBookingDate  time.Time `db:"last_booking_date" json:"lastBookingDate"`

	TotalBookings     int     `db:"total_bookings" json:"totalBookings"`
	CancelledBookings int     `db:"cancelled_bookings" json:"cancelledBookings"`
	TotalRevenue      float64 `db:"total_revenue" json:"totalRevenue"`
	AverageSpend      float64 `db:"average_spend" json:"averageSpend"`

	RecencyScore   int `db:"recency_score" json:"recencyScore"`
	FrequencyScore int `db:"frequency_score" json:"frequencyScore"`
	MonetaryScore  int `db:"monetary_score" json:"monetaryScore"`
	RFMScore       int `db:"rfm_score" json:"rfmScore"`

	PreferredChannel  string  `db:"preferred_channel" json:"preferredChannel"`
	PreferredRoomType string  `db:"preferred_room_type" json:"preferredRoomType"`
	AvgLeadTime       float64 `db:"avg_lead_time" json:"avgLeadTime"`
	AvgLengthOfStay   float64 `db:"avg_length_of_stay" json:"avgLengthOfStay"`
	WeekendRatio      float64 `db:"weekend_ratio" json:"weekendRatio"`

	CancellationRate  float64 `db:"cancellation_rate" json:"cancellationRate"`
	ModificationCount int     `db:"modification_count" json:"modificationCount"`

	LifecycleStage string `db:"lifecycle_stage" json:"lifecycleStage"`
	LoyaltyTier    string `db:"loyalty_tier" json:"loyaltyTier"`
	GuestType      string `db:"guest_type" json:"guestType"`
	TravelType     string `db:"travel_type" json:"travelType"`

	CLVScore             float64 `db:"clv_score" json:"clvScore"`
	ChurnRiskScore       float64 `db:"churn_risk_score" json:"churnRiskScore"`
	UpsellPropensity     float64 `db:"upsell_propensity" json:"upsellPropensity"`
	RetentionProbability float64 `db:"retention_probability" json:"retentionProbability"`
	AmbassadorScore      float64 `db:"ambassador_score" json:"ambassadorScore"`
}

// GuestStay is one booking of a guest, kept for drill-down
type GuestStay struct {
	ID            string    `db:"id" json:"id"`
	DatasetID     string    `db:"dataset_id" json:"datasetId"`
	Generation    string    `db:"generation" json:"-"`
	GuestID       string    `db:"guest_id" json:"guestId"`
	BookingRef    string    `db:"booking_ref" json:"bookingRef"`
	ArrivalDate   time.Time `db:"arrival_date" json:"arrivalDate"`
	DepartureDate time.Time `db:"departure_date" json:"departureDate"`
	RoomType      string    `db:"room_type" json:"roomType"`
	Channel       string    `db:"channel" json:"channel"`
	Revenue       float64   `db:"revenue" json:"revenue"`
	ADR           float64   `db:"adr" json:"adr"`
	LengthOfStay  int       `db:"length_of_stay" json:"lengthOfStay"`
	LeadTime      int       `db:"lead_time" json:"leadTime"`
	PartySize     int       `db:"party_size" json:"partySize"`
	IsCancelled   bool      `db:"is_cancelled" json:"isCancelled"`
	IsWeekend     bool      `db:"is_weekend" json:"isWeekend"`
}

// ExtractionResult reports what a guest rebuild produced
type ExtractionResult struct {
	DatasetID   string `json:"datasetId"`
	TotalGuests int    `json:"totalGuests"`
	NewGuests   int    `json:"newGuests"`
	TotalStays  int    `json:"totalStays"`
}

// GuestSummary is the segmentation overview read back from the guest store
type GuestSummary struct {
	TotalGuests      int            `json:"totalGuests"`
	TotalRevenue     float64        `json:"totalRevenue"`
	AverageCLV       float64        `json:"averageClv"`
	AverageChurnRisk float64        `json:"averageChurnRisk"`
	AverageRFM       float64        `json:"averageRfm"`
	RepeatGuestRate  float64        `json:"repeatGuestRate"`
	ByLifecycleStage map[string]int `json:"byLifecycleStage"`
	ByLoyaltyTier    map[string]int `json:"byLoyaltyTier"`
	ByGuestType      map[string]int `json:"byGuestType"`
	ByTravelType     map[string]int `json:"byTravelType"`
	AtRiskGuests     int            `json:"atRiskGuests"`
	ChampionGuests   int            `json:"championGuests"`
	TopGuests        []Guest        `json:"topGuests"`
}

// GuestSegment aggregates the guests of one lifecycle stage
type GuestSegment struct {
	Stage        string  `json:"stage"`
	Guests       int     `json:"guests"`
	Revenue      float64 `json:"revenue"`
	AverageRFM   float64 `json:"averageRfm"`
	AverageCLV   float64 `json:"averageClv"`
	RevenueShare float64 `json:"revenueShare"`
}

// GuestQuery filters and orders the guest directory
type GuestQuery struct {
	Stage  string
	Tier   string
	Search string
	SortBy string // revenue, clv, churn, lastStay, name
	Limit  int
	Offset int
}

// GuestPage is one page of the guest directory
type GuestPage struct {
	Guests []Guest `json:"guests"`
	Total  int     `json:"total"`
}
