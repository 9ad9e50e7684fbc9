package services

import (
	"math"
	"sort"

	"hotel-analytics/config"
	"hotel-analytics/models"
	"hotel-analytics/utils"
)

const unknownKey = "Unknown"

// DimensionStats is the rollup of one value of one dimension (a channel, a month, ...).
// Count fields include every booking; money and night fields only non-cancelled ones.
type DimensionStats struct {
	Bookings      int
	Cancellations int
	Confirmed     int
	Revenue       float64
	Commission    float64
	ADRSum        float64
	RoomNights    int
}

// Dimension maps dimension values to their rollups
type Dimension map[string]*DimensionStats

func (d Dimension) at(key string) *DimensionStats {
	s, ok := d[key]
	if !ok {
		s = &DimensionStats{}
		d[key] = s
	}
	return s
}

// Counts returns booking counts per value
func (d Dimension) Counts() map[string]int {
	out := make(map[string]int, len(d))
	for k, s := range d {
		out[k] = s.Bookings
	}
	return out
}

// Revenues returns non-cancelled revenue per value
func (d Dimension) Revenues() map[string]float64 {
	out := make(map[string]float64, len(d))
	for k, s := range d {
		out[k] = s.Revenue
	}
	return out
}

// CancellationCounts returns cancelled bookings per value, omitting values without any
func (d Dimension) CancellationCounts() map[string]int {
	out := make(map[string]int)
	for k, s := range d {
		if s.Cancellations > 0 {
			out[k] = s.Cancellations
		}
	}
	return out
}

// guestTally accumulates the stays of one guest for the guest analytics
type guestTally struct {
	name     string
	bookings int
	revenue  float64
	nights   int
	first    *models.Booking // earliest stay, the source of name
}

// observe records b as the guest's display booking when it is the earliest stay so far.
// Ties on arrival break on booking reference, the same order GuestScoringEngine uses.
func (g *guestTally) observe(b *models.Booking, identity IdentityResolver) {
	if g.first != nil {
		if b.ArrivalDate.After(g.first.ArrivalDate) {
			return
		}
		if b.ArrivalDate.Equal(g.first.ArrivalDate) && b.BookingRef >= g.first.BookingRef {
			return
		}
	}
	g.first = b
	g.name = identity.DisplayName(b)
}

// Aggregate is the accumulator filled by a single pass over the bookings
type Aggregate struct {
	Total     int
	Confirmed int
	Cancelled int

	GrossRevenue float64
	Commissions  float64
	LostRevenue  float64
	ADRSum       float64
	RoomNights   int

	NightsSum          int
	LeadDaysSum        int
	LeadDaysCancelled  int
	LeadDaysConfirmed  int
	Adults             int
	Children           int
	FamilyBookings     int
	ModifiedBookings   int
	ChangesSum         int
	RoomsAssigned      int
	RepeatFlagged      int
	HistoryFlagged     int // bookings carrying isRepeatedGuest or previousBookings
	DirectBookings     int
	OTABookings        int
	WeekendArrivals    int
	WeekdayArrivals    int
	LeadDays           []float64
	ConfirmedAmounts   []float64
	ConfirmedDailyRate []float64

	ByChannel   Dimension
	BySegment   Dimension
	ByRoomType  Dimension
	ByMonth     Dimension // arrival year-month
	ByMonthName Dimension // arrival month of year
	ByQuarter   Dimension
	ByLeadTime  Dimension

	ArrivalsByWeekday   map[string]int
	DeparturesByWeekday map[string]int
	DailyRevenue        map[string]float64
	ByCountry           map[string]int
	LengthOfStay        map[string]int

	guests map[string]*guestTally
}

func newAggregate() *Aggregate {
	return &Aggregate{
		ByChannel:           Dimension{},
		BySegment:           Dimension{},
		ByRoomType:          Dimension{},
		ByMonth:             Dimension{},
		ByMonthName:         Dimension{},
		ByQuarter:           Dimension{},
		ByLeadTime:          Dimension{},
		ArrivalsByWeekday:   map[string]int{},
		DeparturesByWeekday: map[string]int{},
		DailyRevenue:        map[string]float64{},
		ByCountry:           map[string]int{},
		LengthOfStay:        map[string]int{},
		guests:              map[string]*guestTally{},
	}
}

// AggregationEngine groups bookings into per-dimension rollups and scalar counters
type AggregationEngine struct {
	rules    *config.Rules
	identity IdentityResolver
}

// NewAggregationEngine creates an engine using the given rule tables and guest identity strategy
func NewAggregationEngine(rules *config.Rules, identity IdentityResolver) *AggregationEngine {
	if rules == nil {
		rules = config.DefaultRules()
	}
	if identity == nil {
		identity = ExactNameResolver{}
	}
	return &AggregationEngine{rules: rules, identity: identity}
}

// Aggregate runs the single pass over bookings
func (e *AggregationEngine) Aggregate(bookings []models.Booking) *Aggregate {
	agg := newAggregate()
	for i := range bookings {
		e.add(agg, &bookings[i])
	}
	return agg
}

func (e *AggregationEngine) add(a *Aggregate, b *models.Booking) {
	amount := b.Amount()
	adr := b.DailyRate()
	nights := b.Nights()
	lead := b.LeadDays()

	a.Total++
	a.NightsSum += nights
	a.LeadDaysSum += lead
	a.LeadDays = append(a.LeadDays, float64(lead))
	a.Adults += b.Adults
	a.Children += b.Children
	if b.Children > 0 {
		a.FamilyBookings++
	}
	if c := b.Changes(); c > 0 {
		a.ModifiedBookings++
		a.ChangesSum += c
	}
	if b.RoomNumber != "" {
		a.RoomsAssigned++
	}
	if b.IsRepeat() {
		a.RepeatFlagged++
	}
	if b.IsRepeatedGuest != nil || b.PreviousBookings != nil {
		a.HistoryFlagged++
	}
	if e.rules.IsDirect(b.Channel) {
		a.DirectBookings++
	}
	if e.rules.IsOTA(b.Channel) {
		a.OTABookings++
	}
	a.ByCountry[orUnknown(b.GuestCountry)]++
	a.LengthOfStay[losBucket(nights)]++

	channel := orUnknown(b.Channel)
	dims := []*DimensionStats{
		a.ByChannel.at(channel),
		a.BySegment.at(orUnknown(b.MarketSegment)),
		a.ByRoomType.at(orUnknown(b.RoomType)),
		a.ByLeadTime.at(e.rules.LeadTimeBucket(lead)),
	}
	if !b.ArrivalDate.IsZero() {
		dims = append(dims,
			a.ByMonth.at(utils.MonthKey(b.ArrivalDate)),
			a.ByMonthName.at(utils.MonthName(b.ArrivalDate)),
			a.ByQuarter.at(utils.Quarter(b.ArrivalDate)),
		)
		a.ArrivalsByWeekday[utils.WeekdayName(b.ArrivalDate)]++
		if utils.IsWeekendArrival(b.ArrivalDate) {
			a.WeekendArrivals++
		} else {
			a.WeekdayArrivals++
		}
	}
	if !b.DepartureDate.IsZero() {
		a.DeparturesByWeekday[utils.WeekdayName(b.DepartureDate)]++
	}

	g, ok := a.guests[e.identity.Key(b)]
	if !ok {
		g = &guestTally{}
		a.guests[e.identity.Key(b)] = g
	}
	g.observe(b, e.identity)
	g.bookings++

	for _, d := range dims {
		d.Bookings++
	}

	if b.IsCancelled {
		a.Cancelled++
		a.LostRevenue += amount
		a.LeadDaysCancelled += lead
		for _, d := range dims {
			d.Cancellations++
		}
		return
	}

	commission := amount * e.rules.CommissionRate(b.Channel)
	a.Confirmed++
	a.GrossRevenue += amount
	a.Commissions += commission
	a.ADRSum += adr
	a.RoomNights += nights
	a.LeadDaysConfirmed += lead
	a.ConfirmedAmounts = append(a.ConfirmedAmounts, amount)
	a.ConfirmedDailyRate = append(a.ConfirmedDailyRate, adr)
	if !b.ArrivalDate.IsZero() {
		a.DailyRevenue[utils.DayKey(b.ArrivalDate)] += amount
	}
	for _, d := range dims {
		d.Confirmed++
		d.Revenue += amount
		d.ADRSum += adr
		d.RoomNights += nights
	}
	a.ByChannel.at(channel).Commission += commission
	g.revenue += amount
	g.nights += nights
}

// Fill writes the rollups into the snapshot categories that need no composite indices
func (e *AggregationEngine) Fill(a *Aggregate, s *models.AnalyticsSnapshot) {
	total := float64(a.Total)
	confirmed := float64(a.Confirmed)
	net := a.GrossRevenue - a.Commissions

	// Core KPIs
	c := &s.Core
	c.TotalBookings = a.Total
	c.ConfirmedBookings = a.Confirmed
	c.CancelledBookings = a.Cancelled
	c.TotalRevenue = utils.Round2(a.GrossRevenue)
	c.NetRevenue = utils.Round2(net)
	c.AverageDailyRate = utils.Round2(utils.SafeDiv(a.ADRSum, confirmed))
	c.AverageBookingValue = utils.Round2(utils.SafeDiv(a.GrossRevenue, confirmed))
	c.CancellationRate = utils.Pct(float64(a.Cancelled), total)
	c.ConfirmationRate = utils.Pct(confirmed, total)
	c.RevPAR = utils.Round2(c.AverageBookingValue * c.ConfirmationRate / 100)
	c.AverageLengthOfStay = utils.Round2(utils.SafeDiv(float64(a.NightsSum), total))
	c.AverageLeadTime = utils.Round2(utils.SafeDiv(float64(a.LeadDaysSum), total))
	c.TotalRoomNights = a.RoomNights
	c.TotalGuests = a.Adults + a.Children
	c.DirectBookingRate = utils.Pct(float64(a.DirectBookings), total)
	c.RepeatGuestRate = utils.Pct(float64(a.RepeatFlagged), total)

	guests := a.rankedGuests()
	uniqueGuests := float64(len(guests))

	// Revenue
	r := &s.Revenue
	r.GrossRevenue = c.TotalRevenue
	r.NetRevenue = c.NetRevenue
	r.TotalCommissions = utils.Round2(a.Commissions)
	r.RevenueByChannel = a.ByChannel.Revenues()
	r.RevenueBySegment = a.BySegment.Revenues()
	r.RevenueByRoomType = a.ByRoomType.Revenues()
	r.RevenueByMonth = a.ByMonth.Revenues()
	r.RevenueByQuarter = a.ByQuarter.Revenues()
	r.DailyRevenue = a.DailyRevenue
	r.CommissionsByChannel = make(map[string]float64, len(a.ByChannel))
	for ch, st := range a.ByChannel {
		r.CommissionsByChannel[ch] = st.Commission
	}
	r.RevenuePerRoomNight = utils.Round2(utils.SafeDiv(a.GrossRevenue, float64(a.RoomNights)))
	r.AverageRevenuePerGuest = utils.Round2(utils.SafeDiv(a.GrossRevenue, uniqueGuests))
	r.TopRevenueChannel = utils.TopKey(r.RevenueByChannel, models.NotAvailable)
	r.TopRevenueRoomType = utils.TopKey(r.RevenueByRoomType, models.NotAvailable)
	q1, q2, q3 := utils.Quartiles(a.ConfirmedAmounts)
	r.RevenueP25, r.RevenueP50, r.RevenueP75 = utils.Round2(q1), utils.Round2(q2), utils.Round2(q3)
	r.RevenueStdDev = utils.Round2(utils.StdDev(a.ConfirmedAmounts))

	// Bookings
	bk := &s.Bookings
	bk.BookingsByChannel = a.ByChannel.Counts()
	bk.BookingsBySegment = a.BySegment.Counts()
	bk.BookingsByRoomType = a.ByRoomType.Counts()
	bk.BookingsByMonth = a.ByMonth.Counts()
	bk.BookingsByWeekday = a.ArrivalsByWeekday
	bk.BookingsByQuarter = a.ByQuarter.Counts()
	bk.LeadTimeDistribution = a.ByLeadTime.Counts()
	bk.LengthOfStayDistribution = a.LengthOfStay
	bk.AverageLeadTime = c.AverageLeadTime
	bk.MedianLeadTime = utils.Round2(utils.Percentile(a.LeadDays, 50))
	bk.WeekendArrivalRate = utils.Pct(float64(a.WeekendArrivals), total)
	bk.AverageBookingChanges = utils.Round2(utils.SafeDiv(float64(a.ChangesSum), total))
	bk.ModificationRate = utils.Pct(float64(a.ModifiedBookings), total)
	bk.BusiestMonth = utils.TopKey(a.ByMonthName.Counts(), models.NotAvailable)
	bk.TopChannel = utils.TopKey(bk.BookingsByChannel, models.NotAvailable)

	// Guests
	ga := &s.Guests
	ga.UniqueGuests = len(guests)
	ga.TotalAdults = a.Adults
	ga.TotalChildren = a.Children
	ga.AveragePartySize = utils.Round2(utils.SafeDiv(float64(a.Adults+a.Children), total))
	ga.FamilyBookingRate = utils.Pct(float64(a.FamilyBookings), total)
	ga.GuestsByCountry = a.ByCountry
	ga.TopCountry = utils.TopKey(a.ByCountry, models.NotAvailable)
	ga.CountryDiversityIndex = utils.DiversityIndex(a.ByCountry)
	ga.AverageBookingsPerGuest = utils.Round2(utils.SafeDiv(total, uniqueGuests))

	// Guest performance
	gp := &s.GuestPerf
	var repeatGuests, singleStay, highValue int
	for _, g := range guests {
		if g.bookings > 1 {
			repeatGuests++
		} else {
			singleStay++
		}
		if g.revenue >= e.rules.Scoring.HighValueRevenue {
			highValue++
		}
	}
	ga.RepeatGuestRate = utils.Pct(float64(repeatGuests), uniqueGuests)
	if a.HistoryFlagged == 0 {
		// no history columns in the data: fall back to guests seen more than once
		c.RepeatGuestRate = ga.RepeatGuestRate
	}
	gp.AverageRevenuePerGuest = r.AverageRevenuePerGuest
	gp.HighValueGuests = highValue
	gp.SingleStayGuestRate = utils.Pct(float64(singleStay), uniqueGuests)
	gp.TopGuests = make([]models.GuestRevenue, 0, 10)
	for i := 0; i < len(guests) && i < 10; i++ {
		g := guests[i]
		gp.TopGuests = append(gp.TopGuests, models.GuestRevenue{
			Name:     g.name,
			Bookings: g.bookings,
			Revenue:  utils.Round2(g.revenue),
			Nights:   g.nights,
		})
	}
	if len(guests) > 0 {
		topN := int(math.Ceil(float64(len(guests)) / 10))
		var topRevenue, guestRevenue float64
		for i, g := range guests {
			if i < topN {
				topRevenue += g.revenue
			}
			guestRevenue += g.revenue
		}
		gp.RevenueConcentration = utils.Pct(topRevenue, guestRevenue)
	}

	// Cancellations
	cn := &s.Cancellations
	cn.CancellationRate = c.CancellationRate
	cn.CancellationsByChannel = a.ByChannel.CancellationCounts()
	cn.CancellationsBySegment = a.BySegment.CancellationCounts()
	cn.CancellationsByRoomType = a.ByRoomType.CancellationCounts()
	cn.CancellationsByLeadTime = a.ByLeadTime.CancellationCounts()
	cn.CancellationRateByChannel = make(map[string]float64, len(a.ByChannel))
	withCancellations := map[string]float64{}
	for ch, st := range a.ByChannel {
		rate := utils.Pct(float64(st.Cancellations), float64(st.Bookings))
		cn.CancellationRateByChannel[ch] = rate
		if st.Cancellations > 0 {
			withCancellations[ch] = rate
		}
	}
	cn.HighestCancellationChannel = utils.TopKey(withCancellations, models.NotAvailable)
	cn.LostRevenue = utils.Round2(a.LostRevenue)
	cn.AverageLeadTimeCancelled = utils.Round2(utils.SafeDiv(float64(a.LeadDaysCancelled), float64(a.Cancelled)))
	cn.AverageLeadTimeConfirmed = utils.Round2(utils.SafeDiv(float64(a.LeadDaysConfirmed), confirmed))

	// Operations
	op := &s.Operations
	op.ArrivalsByWeekday = a.ArrivalsByWeekday
	op.DeparturesByWeekday = a.DeparturesByWeekday
	op.PeakArrivalDay = utils.TopKey(a.ArrivalsByWeekday, models.NotAvailable)
	op.PeakDepartureDay = utils.TopKey(a.DeparturesByWeekday, models.NotAvailable)
	op.TotalRoomNights = a.RoomNights
	op.AverageRoomNightsPerBooking = utils.Round2(utils.SafeDiv(float64(a.RoomNights), confirmed))
	op.RoomTypeShare = make(map[string]float64, len(a.ByRoomType))
	for rt, st := range a.ByRoomType {
		op.RoomTypeShare[rt] = utils.Pct(float64(st.RoomNights), float64(a.RoomNights))
	}
	op.AverageGuestsPerBooking = ga.AveragePartySize
	op.RoomAssignmentRate = utils.Pct(float64(a.RoomsAssigned), total)

	// Channels
	ch := &s.Channels
	ch.ChannelMix = make(map[string]float64, len(a.ByChannel))
	ch.ChannelPerformance = make(map[string]*models.ChannelPerformance, len(a.ByChannel))
	netByChannel := make(map[string]float64, len(a.ByChannel))
	for name, st := range a.ByChannel {
		ch.ChannelMix[name] = utils.Pct(float64(st.Bookings), total)
		netByChannel[name] = st.Revenue - st.Commission
		ch.ChannelPerformance[name] = &models.ChannelPerformance{
			Bookings:         st.Bookings,
			Cancellations:    st.Cancellations,
			Revenue:          utils.Round2(st.Revenue),
			Commission:       utils.Round2(st.Commission),
			NetRevenue:       utils.Round2(st.Revenue - st.Commission),
			CommissionRate:   e.commissionRateFor(name),
			CancellationRate: cn.CancellationRateByChannel[name],
			AverageDailyRate: utils.Round2(utils.SafeDiv(st.ADRSum, float64(st.Confirmed))),
		}
	}
	ch.ChannelDiversityIndex = utils.DiversityIndex(bk.BookingsByChannel)
	ch.DirectBookingRate = c.DirectBookingRate
	ch.OTADependencyScore = utils.Pct(float64(a.OTABookings), total)
	ch.MostProfitableChannel = utils.TopKey(netByChannel, models.NotAvailable)

	// Seasonality rollups; the indices are derived later
	se := &s.Seasonality
	se.MonthlyBookings = a.ByMonthName.Counts()
	se.MonthlyRevenue = a.ByMonthName.Revenues()
	se.QuarterlyBookings = bk.BookingsByQuarter
	se.QuarterlyRevenue = r.RevenueByQuarter
	se.WeekendToWeekdayRatio = utils.Round2(utils.SafeDiv(float64(a.WeekendArrivals), float64(a.WeekdayArrivals)))
	se.BestQuarter = utils.TopKey(se.QuarterlyRevenue, models.NotAvailable)
}

// commissionRateFor returns the rate applied to a channel key; the unknown key stands for an empty channel
func (e *AggregationEngine) commissionRateFor(channel string) float64 {
	if channel == unknownKey {
		return e.rules.CommissionRate("")
	}
	return e.rules.CommissionRate(channel)
}

// rankedGuests returns guests by revenue descending, then name
func (a *Aggregate) rankedGuests() []*guestTally {
	out := make([]*guestTally, 0, len(a.guests))
	for _, key := range utils.SortedKeys(a.guests) {
		out = append(out, a.guests[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].revenue != out[j].revenue {
			return out[i].revenue > out[j].revenue
		}
		return out[i].name < out[j].name
	})
	return out
}

func orUnknown(v string) string {
	if v == "" {
		return unknownKey
	}
	return v
}

func losBucket(nights int) string {
	switch {
	case nights <= 1:
		return "1 Night"
	case nights == 2:
		return "2 Nights"
	case nights == 3:
		return "3 Nights"
	case nights <= 7:
		return "4-7 Nights"
	default:
		return "8+ Nights"
	}
}
