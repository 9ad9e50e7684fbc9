package models

// NotAvailable fills "top X" fields when there is nothing to rank
const NotAvailable = "N/A"

// AnalyticsSnapshot is the full analytics tree computed from a dataset's bookings
type AnalyticsSnapshot struct {
	Core          CoreKPIs                  `json:"coreKpis"`
	Revenue       RevenueAnalytics          `json:"revenue"`
	Bookings      BookingAnalytics          `json:"bookings"`
	Guests        GuestAnalytics            `json:"guests"`
	GuestPerf     GuestPerformanceAnalytics `json:"guestPerformance"`
	Cancellations CancellationAnalytics     `json:"cancellations"`
	Operations    OperationalAnalytics      `json:"operations"`
	Forecasting   ForecastingAnalytics      `json:"forecasting"`
	Channels      ChannelAnalytics          `json:"channels"`
	Seasonality   SeasonalityAnalytics      `json:"seasonality"`
	Performance   PerformanceIndicators     `json:"performance"`
}

type CoreKPIs struct {
	TotalBookings       int     `json:"totalBookings"`
	ConfirmedBookings   int     `json:"confirmedBookings"`
	CancelledBookings   int     `json:"cancelledBookings"`
	TotalRevenue        float64 `json:"totalRevenue"`
	NetRevenue          float64 `json:"netRevenue"`
	AverageDailyRate    float64 `json:"averageDailyRate"`
	RevPAR              float64 `json:"revPar"`
	AverageBookingValue float64 `json:"averageBookingValue"`
	CancellationRate    float64 `json:"cancellationRate"`
	ConfirmationRate    float64 `json:"confirmationRate"`
	AverageLengthOfStay float64 `json:"averageLengthOfStay"`
	AverageLeadTime     float64 `json:"averageLeadTime"`
	TotalRoomNights     int     `json:"totalRoomNights"`
	TotalGuests         int     `json:"totalGuests"`
	DirectBookingRate   float64 `json:"directBookingRate"`
	RepeatGuestRate     float64 `json:"repeatGuestRate"`
}

type RevenueAnalytics struct {
	GrossRevenue           float64            `json:"grossRevenue"`
	NetRevenue             float64            `json:"netRevenue"`
	TotalCommissions       float64            `json:"totalCommissions"`
	RevenueByChannel       map[string]float64 `json:"revenueByChannel"`
	RevenueBySegment       map[string]float64 `json:"revenueBySegment"`
	RevenueByRoomType      map[string]float64 `json:"revenueByRoomType"`
	RevenueByMonth         map[string]float64 `json:"revenueByMonth"`
	RevenueByQuarter       map[string]float64 `json:"revenueByQuarter"`
	DailyRevenue           map[string]float64 `json:"dailyRevenue"`
	CommissionsByChannel   map[string]float64 `json:"commissionsByChannel"`
	RevenuePerRoomNight    float64            `json:"revenuePerRoomNight"`
	AverageRevenuePerGuest float64            `json:"averageRevenuePerGuest"`
	RevenueGrowthRate      float64            `json:"revenueGrowthRate"`
	TopRevenueChannel      string             `json:"topRevenueChannel"`
	TopRevenueRoomType     string             `json:"topRevenueRoomType"`
	RevenueP25             float64            `json:"revenueP25"`
	RevenueP50             float64            `json:"revenueP50"`
	RevenueP75             float64            `json:"revenueP75"`
	RevenueStdDev          float64            `json:"revenueStdDev"`
}

type BookingAnalytics struct {
	BookingsByChannel        map[string]int `json:"bookingsByChannel"`
	BookingsBySegment        map[string]int `json:"bookingsBySegment"`
	BookingsByRoomType       map[string]int `json:"bookingsByRoomType"`
	BookingsByMonth          map[string]int `json:"bookingsByMonth"`
	BookingsByWeekday        map[string]int `json:"bookingsByWeekday"`
	BookingsByQuarter        map[string]int `json:"bookingsByQuarter"`
	LeadTimeDistribution     map[string]int `json:"leadTimeDistribution"`
	LengthOfStayDistribution map[string]int `json:"lengthOfStayDistribution"`
	AverageLeadTime          float64        `json:"averageLeadTime"`
	MedianLeadTime           float64        `json:"medianLeadTime"`
	WeekendArrivalRate       float64        `json:"weekendArrivalRate"`
	AverageBookingChanges    float64        `json:"averageBookingChanges"`
	ModificationRate         float64        `json:"modificationRate"`
	BusiestMonth             string         `json:"busiestMonth"`
	TopChannel               string         `json:"topChannel"`
}

type GuestAnalytics struct {
	UniqueGuests            int            `json:"uniqueGuests"`
	TotalAdults             int            `json:"totalAdults"`
	TotalChildren           int            `json:"totalChildren"`
	AveragePartySize        float64        `json:"averagePartySize"`
	FamilyBookingRate       float64        `json:"familyBookingRate"`
	GuestsByCountry         map[string]int `json:"guestsByCountry"`
	TopCountry              string         `json:"topCountry"`
	CountryDiversityIndex   float64        `json:"countryDiversityIndex"`
	RepeatGuestRate         float64        `json:"repeatGuestRate"`
	AverageBookingsPerGuest float64        `json:"averageBookingsPerGuest"`
}

// GuestRevenue ranks a guest by the revenue of their non-cancelled stays
type GuestRevenue struct {
	Name     string  `json:"name"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
	Nights   int     `json:"nights"`
}

type GuestPerformanceAnalytics struct {
	TopGuests              []GuestRevenue `json:"topGuests"`
	AverageRevenuePerGuest float64        `json:"averageRevenuePerGuest"`
	HighValueGuests        int            `json:"highValueGuests"`
	RevenueConcentration   float64        `json:"revenueConcentration"`
	SingleStayGuestRate    float64        `json:"singleStayGuestRate"`
}

type CancellationAnalytics struct {
	CancellationRate           float64            `json:"cancellationRate"`
	CancellationsByChannel     map[string]int     `json:"cancellationsByChannel"`
	CancellationsBySegment     map[string]int     `json:"cancellationsBySegment"`
	CancellationsByRoomType    map[string]int     `json:"cancellationsByRoomType"`
	CancellationsByLeadTime    map[string]int     `json:"cancellationsByLeadTime"`
	CancellationRateByChannel  map[string]float64 `json:"cancellationRateByChannel"`
	LostRevenue                float64            `json:"lostRevenue"`
	AverageLeadTimeCancelled   float64            `json:"averageLeadTimeCancelled"`
	AverageLeadTimeConfirmed   float64            `json:"averageLeadTimeConfirmed"`
	HighestCancellationChannel string             `json:"highestCancellationChannel"`
}

type OperationalAnalytics struct {
	ArrivalsByWeekday           map[string]int     `json:"arrivalsByWeekday"`
	DeparturesByWeekday         map[string]int     `json:"departuresByWeekday"`
	PeakArrivalDay              string             `json:"peakArrivalDay"`
	PeakDepartureDay            string             `json:"peakDepartureDay"`
	TotalRoomNights             int                `json:"totalRoomNights"`
	AverageRoomNightsPerBooking float64            `json:"averageRoomNightsPerBooking"`
	RoomTypeShare               map[string]float64 `json:"roomTypeShare"`
	AverageGuestsPerBooking     float64            `json:"averageGuestsPerBooking"`
	RoomAssignmentRate          float64            `json:"roomAssignmentRate"`
}

// ForecastMethod labels the forecast values as static multipliers, not a fitted model
const ForecastMethod = "static-multiplier-heuristic"

type ForecastingAnalytics struct {
	NextMonthRevenue         float64 `json:"nextMonthRevenue"`
	YearEndRevenueProjection float64 `json:"yearEndRevenueProjection"`
	Method                   string  `json:"method"`
}

// ChannelPerformance is the per-channel rollup used for effectiveness scoring
type ChannelPerformance struct {
	Bookings           int     `json:"bookings"`
	Cancellations      int     `json:"cancellations"`
	Revenue            float64 `json:"revenue"`
	Commission         float64 `json:"commission"`
	NetRevenue         float64 `json:"netRevenue"`
	CommissionRate     float64 `json:"commissionRate"`
	CancellationRate   float64 `json:"cancellationRate"`
	AverageDailyRate   float64 `json:"averageDailyRate"`
	EffectivenessScore float64 `json:"effectivenessScore"`
}

type ChannelAnalytics struct {
	ChannelMix                map[string]float64             `json:"channelMix"`
	ChannelDiversityIndex     float64                        `json:"channelDiversityIndex"`
	DirectBookingRate         float64                        `json:"directBookingRate"`
	OTADependencyScore        float64                        `json:"otaDependencyScore"`
	ChannelPerformance        map[string]*ChannelPerformance `json:"channelPerformance"`
	MostProfitableChannel     string                         `json:"mostProfitableChannel"`
	ChannelEffectivenessScore float64                        `json:"channelEffectivenessScore"`
}

type SeasonalityAnalytics struct {
	MonthlyBookings       map[string]int     `json:"monthlyBookings"`
	MonthlyRevenue        map[string]float64 `json:"monthlyRevenue"`
	QuarterlyBookings     map[string]int     `json:"quarterlyBookings"`
	QuarterlyRevenue      map[string]float64 `json:"quarterlyRevenue"`
	SeasonalityStrength   float64            `json:"seasonalityStrength"`
	PeakMonths            []string           `json:"peakMonths"`
	TroughMonths          []string           `json:"troughMonths"`
	WeekendToWeekdayRatio float64            `json:"weekendToWeekdayRatio"`
	BestQuarter           string             `json:"bestQuarter"`
}

type PerformanceIndicators struct {
	OverallHealthScore          float64 `json:"overallHealthScore"`
	CompetitivePositionEstimate string  `json:"competitivePositionEstimate"`
	RevenueEfficiency           float64 `json:"revenueEfficiency"`
	PricingIndex                float64 `json:"pricingIndex"`
	ChannelEffectivenessScore   float64 `json:"channelEffectivenessScore"`
	GuestLoyaltyIndex           float64 `json:"guestLoyaltyIndex"`
}

// NewAnalyticsSnapshot returns the default analytics: every map empty, every rate 0,
// every "top X" field N/A
func NewAnalyticsSnapshot() *AnalyticsSnapshot {
	return &AnalyticsSnapshot{
		Revenue: RevenueAnalytics{
			RevenueByChannel:     map[string]float64{},
			RevenueBySegment:     map[string]float64{},
			RevenueByRoomType:    map[string]float64{},
			RevenueByMonth:       map[string]float64{},
			RevenueByQuarter:     map[string]float64{},
			DailyRevenue:         map[string]float64{},
			CommissionsByChannel: map[string]float64{},
			TopRevenueChannel:    NotAvailable,
			TopRevenueRoomType:   NotAvailable,
		},
		Bookings: BookingAnalytics{
			BookingsByChannel:        map[string]int{},
			BookingsBySegment:        map[string]int{},
			BookingsByRoomType:       map[string]int{},
			BookingsByMonth:          map[string]int{},
			BookingsByWeekday:        map[string]int{},
			BookingsByQuarter:        map[string]int{},
			LeadTimeDistribution:     map[string]int{},
			LengthOfStayDistribution: map[string]int{},
			BusiestMonth:             NotAvailable,
			TopChannel:               NotAvailable,
		},
		Guests: GuestAnalytics{
			GuestsByCountry: map[string]int{},
			TopCountry:      NotAvailable,
		},
		GuestPerf: GuestPerformanceAnalytics{
			TopGuests: []GuestRevenue{},
		},
		Cancellations: CancellationAnalytics{
			CancellationsByChannel:     map[string]int{},
			CancellationsBySegment:     map[string]int{},
			CancellationsByRoomType:    map[string]int{},
			CancellationsByLeadTime:    map[string]int{},
			CancellationRateByChannel:  map[string]float64{},
			HighestCancellationChannel: NotAvailable,
		},
		Operations: OperationalAnalytics{
			ArrivalsByWeekday:   map[string]int{},
			DeparturesByWeekday: map[string]int{},
			PeakArrivalDay:      NotAvailable,
			PeakDepartureDay:    NotAvailable,
			RoomTypeShare:       map[string]float64{},
		},
		Forecasting: ForecastingAnalytics{
			Method: ForecastMethod,
		},
		Channels: ChannelAnalytics{
			ChannelMix:            map[string]float64{},
			ChannelPerformance:    map[string]*ChannelPerformance{},
			MostProfitableChannel: NotAvailable,
		},
		Seasonality: SeasonalityAnalytics{
			MonthlyBookings:   map[string]int{},
			MonthlyRevenue:    map[string]float64{},
			QuarterlyBookings: map[string]int{},
			QuarterlyRevenue:  map[string]float64{},
			PeakMonths:        []string{},
			TroughMonths:      []string{},
			BestQuarter:       NotAvailable,
		},
		Performance: PerformanceIndicators{
			CompetitivePositionEstimate: NotAvailable,
		},
	}
}
