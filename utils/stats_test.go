package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafeDivAndPct(t *testing.T) {
	assert.Equal(t, 0.0, SafeDiv(0, 0))
	assert.Equal(t, 5.0, SafeDiv(5, 0))
	assert.Equal(t, 2.5, SafeDiv(5, 2))
	assert.Equal(t, 33.33, Pct(1, 3))
	assert.Equal(t, 0.0, Pct(0, 0))
}

func TestPercentile(t *testing.T) {
	assert.Equal(t, 0.0, Percentile(nil, 50))

	values := []float64{40, 10, 30, 20}
	assert.Equal(t, 25.0, Percentile(values, 50))
	assert.Equal(t, 10.0, Percentile(values, 0))
	assert.Equal(t, 40.0, Percentile(values, 100))
	assert.Equal(t, []float64{40, 10, 30, 20}, values, "input must not be sorted in place")

	q1, q2, q3 := Quartiles([]float64{1, 2, 3, 4, 5})
	assert.Equal(t, 2.0, q1)
	assert.Equal(t, 3.0, q2)
	assert.Equal(t, 4.0, q3)
}

func TestMeanAndStdDev(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 5.0, Mean([]float64{2, 4, 4, 4, 5, 5, 7, 9}))
	assert.Equal(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}))
}

func TestTopKey(t *testing.T) {
	assert.Equal(t, "N/A", TopKey(map[string]int{}, "N/A"))
	assert.Equal(t, "b", TopKey(map[string]int{"a": 1, "b": 3, "c": 2}, "N/A"))
	assert.Equal(t, "alpha", TopKey(map[string]float64{"beta": 2, "alpha": 2}, "N/A"))
}

func TestDiversityIndex(t *testing.T) {
	assert.Equal(t, 0.0, DiversityIndex(map[string]int{}))
	assert.Equal(t, 0.0, DiversityIndex(map[string]int{"Direct": 10}))
	assert.Equal(t, 0.5, DiversityIndex(map[string]int{"Direct": 5, "OTA": 5}))
	assert.Equal(t, 0.75, DiversityIndex(map[string]int{"a": 1, "b": 1, "c": 1, "d": 1}))
}

func TestCalendarHelpers(t *testing.T) {
	friday := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "Friday", WeekdayName(friday))
	assert.Equal(t, "March", MonthName(friday))
	assert.Equal(t, "2024-03", MonthKey(friday))
	assert.Equal(t, "2024-03-15", DayKey(friday))
	assert.Equal(t, "Q1", Quarter(friday))
	assert.Equal(t, "Q4", Quarter(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, IsWeekendArrival(friday))
	assert.False(t, IsWeekendArrival(friday.AddDate(0, 0, 3)))

	assert.Equal(t, 10, DaysBetween(friday, friday.AddDate(0, 0, 10)))
	assert.Equal(t, 1, DaysBetween(time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC), time.Date(2024, 3, 16, 1, 0, 0, 0, time.UTC)))
	assert.Equal(t, -2, DaysBetween(friday, friday.AddDate(0, 0, -2)))
}

func TestCalendarHelpersReadDatesInUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	// 2024-01-04 19:00 -0500
	arrival := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC).In(est)

	assert.Equal(t, "Friday", WeekdayName(arrival))
	assert.Equal(t, "2024-01-05", DayKey(arrival))
	assert.True(t, IsWeekendArrival(arrival))
	assert.Equal(t, 10, DaysBetween(arrival, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))

	newYear := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).In(est)
	assert.Equal(t, "2024-01", MonthKey(newYear))
	assert.Equal(t, "January", MonthName(newYear))
	assert.Equal(t, "Q1", Quarter(newYear))
}
