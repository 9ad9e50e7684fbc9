package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules holds every lookup table and threshold the analytics and scoring engines use.
// Ordered lists are evaluated top to bottom and the first match wins.
type Rules struct {
	Commission CommissionRules  `yaml:"commission"`
	LeadTime   []LeadTimeBucket `yaml:"leadTimeBuckets"`
	Recency    []Breakpoint     `yaml:"recency"`   // days since last stay, ascending MaxDays
	Frequency  []Threshold      `yaml:"frequency"` // total bookings, descending Min
	Monetary   []Threshold      `yaml:"monetary"`  // total revenue, descending Min
	Lifecycle  LifecycleRules   `yaml:"lifecycle"`
	Loyalty    LoyaltyRules     `yaml:"loyalty"`
	Scoring    ScoringRules     `yaml:"scoring"`
}

// CommissionRule maps channel keywords (case-insensitive substrings) to a rate
type CommissionRule struct {
	Keywords []string `yaml:"keywords"`
	Rate     float64  `yaml:"rate"`
}

type CommissionRules struct {
	Rules       []CommissionRule `yaml:"rules"`
	DefaultRate float64          `yaml:"defaultRate"`
	DirectKey   string           `yaml:"directKeyword"` // marks a channel as direct
	OTARate     float64          `yaml:"otaRate"`       // channels charged this rate count as OTA
}

// LeadTimeBucket labels lead times up to MaxDays; MaxDays < 0 is the catch-all
type LeadTimeBucket struct {
	MaxDays int    `yaml:"maxDays"`
	Label   string `yaml:"label"`
}

// Breakpoint scores values up to Max
type Breakpoint struct {
	Max   float64 `yaml:"max"`
	Score int     `yaml:"score"`
}

// Threshold scores values at or above Min
type Threshold struct {
	Min   float64 `yaml:"min"`
	Score int     `yaml:"score"`
}

// LifecycleRule matches a guest when every set bound holds. Zero bounds are unbounded.
type LifecycleRule struct {
	Stage       string `yaml:"stage"`
	MinBookings int    `yaml:"minBookings"`
	MaxBookings int    `yaml:"maxBookings"`
	MinRecency  int    `yaml:"minRecency"`
	MaxRecency  int    `yaml:"maxRecency"`
}

type LifecycleRules struct {
	Rules   []LifecycleRule `yaml:"rules"`
	Default string          `yaml:"default"`
}

type LoyaltyRules struct {
	PlatinumMinRFM      int     `yaml:"platinumMinRfm"`
	PlatinumMinBookings int     `yaml:"platinumMinBookings"`
	PlatinumMinRevenue  float64 `yaml:"platinumMinRevenue"`
	GoldMinRFM          int     `yaml:"goldMinRfm"`
	GoldMinBookings     int     `yaml:"goldMinBookings"`
	GoldMinRevenue      float64 `yaml:"goldMinRevenue"`
	SilverMinRFM        int     `yaml:"silverMinRfm"`
	SilverMinBookings   int     `yaml:"silverMinBookings"`
}

// ScoringRules holds the constants of the heuristic predictive scores
type ScoringRules struct {
	CLVBookingCap        int      `yaml:"clvBookingCap"`
	CLVMultiplier        float64  `yaml:"clvMultiplier"`
	UpsellBase           float64  `yaml:"upsellBase"`
	UpsellSpendThreshold float64  `yaml:"upsellSpendThreshold"`
	UpsellPremiumRooms   []string `yaml:"upsellPremiumRooms"`
	HighValueRevenue     float64  `yaml:"highValueRevenue"`
	VIPTier              string   `yaml:"vipTier"`
	CorporateKeywords    []string `yaml:"corporateKeywords"`
}

// DefaultRules returns the standard tables
func DefaultRules() *Rules {
	return &Rules{
		Commission: CommissionRules{
			Rules: []CommissionRule{
				{Keywords: []string{"direct"}, Rate: 0.03},
				{Keywords: []string{"booking", "expedia", "ota", "online"}, Rate: 0.18},
				{Keywords: []string{"corporate", "business"}, Rate: 0.05},
				{Keywords: []string{"travel", "agent"}, Rate: 0.10},
				{Keywords: []string{"group"}, Rate: 0.08},
			},
			DefaultRate: 0.10,
			DirectKey:   "direct",
			OTARate:     0.18,
		},
		LeadTime: []LeadTimeBucket{
			{MaxDays: 1, Label: "Same Day"},
			{MaxDays: 3, Label: "1-3 Days"},
			{MaxDays: 7, Label: "4-7 Days"},
			{MaxDays: 14, Label: "1-2 Weeks"},
			{MaxDays: 30, Label: "2-4 Weeks"},
			{MaxDays: 60, Label: "1-2 Months"},
			{MaxDays: 90, Label: "2-3 Months"},
			{MaxDays: -1, Label: "3+ Months"},
		},
		Recency: []Breakpoint{
			{Max: 30, Score: 5},
			{Max: 90, Score: 4},
			{Max: 180, Score: 3},
			{Max: 365, Score: 2},
		},
		Frequency: []Threshold{
			{Min: 10, Score: 5},
			{Min: 5, Score: 4},
			{Min: 3, Score: 3},
			{Min: 2, Score: 2},
		},
		Monetary: []Threshold{
			{Min: 5000, Score: 5},
			{Min: 2000, Score: 4},
			{Min: 1000, Score: 3},
			{Min: 500, Score: 2},
		},
		Lifecycle: LifecycleRules{
			Rules: []LifecycleRule{
				{Stage: "first_timer", MinBookings: 1, MaxBookings: 1, MinRecency: 4},
				{Stage: "champion", MinBookings: 5, MinRecency: 4},
				{Stage: "loyal", MinBookings: 3, MinRecency: 3},
				{Stage: "returning", MinBookings: 2, MinRecency: 3},
				{Stage: "at_risk", MinBookings: 2, MaxRecency: 2},
				{Stage: "churned", MinRecency: 1, MaxRecency: 1},
			},
			Default: "first_timer",
		},
		Loyalty: LoyaltyRules{
			PlatinumMinRFM:      4,
			PlatinumMinBookings: 5,
			PlatinumMinRevenue:  2000,
			GoldMinRFM:          4,
			GoldMinBookings:     3,
			GoldMinRevenue:      1000,
			SilverMinRFM:        3,
			SilverMinBookings:   2,
		},
		Scoring: ScoringRules{
			CLVBookingCap:        4,
			CLVMultiplier:        3,
			UpsellBase:           50,
			UpsellSpendThreshold: 300,
			UpsellPremiumRooms:   []string{"suite", "deluxe"},
			HighValueRevenue:     2000,
			VIPTier:              "platinum",
			CorporateKeywords:    []string{"corporate", "business"},
		},
	}
}

// LoadRules reads YAML overrides on top of DefaultRules. An empty path returns the defaults.
// Lists present in the file replace the default lists wholesale.
func LoadRules(path string) (*Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}
	return rules, nil
}

// CommissionRate returns the rate of the first rule whose keyword occurs in channel
func (r *Rules) CommissionRate(channel string) float64 {
	ch := strings.ToLower(channel)
	for _, rule := range r.Commission.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(ch, strings.ToLower(kw)) {
				return rule.Rate
			}
		}
	}
	return r.Commission.DefaultRate
}

// IsDirect reports whether the channel counts as a direct booking
func (r *Rules) IsDirect(channel string) bool {
	return strings.Contains(strings.ToLower(channel), strings.ToLower(r.Commission.DirectKey))
}

// IsOTA reports whether the channel is charged the OTA commission rate
func (r *Rules) IsOTA(channel string) bool {
	return r.CommissionRate(channel) == r.Commission.OTARate
}

// LeadTimeBucket returns the label of the first bucket whose MaxDays covers days
func (r *Rules) LeadTimeBucket(days int) string {
	for _, b := range r.LeadTime {
		if b.MaxDays < 0 || days <= b.MaxDays {
			return b.Label
		}
	}
	return "Unknown"
}

// LeadTimeLabels returns the bucket labels in order
func (r *Rules) LeadTimeLabels() []string {
	labels := make([]string, 0, len(r.LeadTime))
	for _, b := range r.LeadTime {
		labels = append(labels, b.Label)
	}
	return labels
}

// RecencyScore scores days since the last stay, 1 when no breakpoint matches
func (r *Rules) RecencyScore(days int) int {
	for _, b := range r.Recency {
		if float64(days) <= b.Max {
			return b.Score
		}
	}
	return 1
}

// FrequencyScore scores a booking count, 1 when no threshold matches
func (r *Rules) FrequencyScore(bookings int) int {
	return scoreAtLeast(r.Frequency, float64(bookings))
}

// MonetaryScore scores total revenue, 1 when no threshold matches
func (r *Rules) MonetaryScore(revenue float64) int {
	return scoreAtLeast(r.Monetary, revenue)
}

// LifecycleStage returns the stage of the first matching rule
func (r *Rules) LifecycleStage(totalBookings, recencyScore int) string {
	for _, rule := range r.Lifecycle.Rules {
		if rule.matches(totalBookings, recencyScore) {
			return rule.Stage
		}
	}
	return r.Lifecycle.Default
}

// LoyaltyTier classifies a guest as platinum, gold, silver or bronze
func (r *Rules) LoyaltyTier(rfm, bookings int, revenue float64) string {
	l := r.Loyalty
	switch {
	case rfm >= l.PlatinumMinRFM && bookings >= l.PlatinumMinBookings && revenue >= l.PlatinumMinRevenue:
		return "platinum"
	case rfm >= l.GoldMinRFM || (bookings >= l.GoldMinBookings && revenue >= l.GoldMinRevenue):
		return "gold"
	case rfm >= l.SilverMinRFM || bookings >= l.SilverMinBookings:
		return "silver"
	default:
		return "bronze"
	}
}

func (lr LifecycleRule) matches(bookings, recency int) bool {
	if lr.MinBookings > 0 && bookings < lr.MinBookings {
		return false
	}
	if lr.MaxBookings > 0 && bookings > lr.MaxBookings {
		return false
	}
	if lr.MinRecency > 0 && recency < lr.MinRecency {
		return false
	}
	if lr.MaxRecency > 0 && recency > lr.MaxRecency {
		return false
	}
	return true
}

func scoreAtLeast(thresholds []Threshold, v float64) int {
	for _, t := range thresholds {
		if v >= t.Min {
			return t.Score
		}
	}
	return 1
}
