package utils

import (
	"fmt"
	"time"
)

const (
	MonthKeyLayout = "2006-01"
	DayKeyLayout   = "2006-01-02"
)

// MonthNames lists month names in calendar order
var MonthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// WeekdayNames lists weekday names starting Monday
var WeekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Calendar helpers read dates in UTC, the zone bookings are parsed in, so a value
// handed back in another zone (a TIMESTAMPTZ read in the session zone) keeps its day.

// WeekdayName returns the English weekday name
func WeekdayName(t time.Time) string {
	return t.UTC().Weekday().String()
}

// MonthName returns the English month name
func MonthName(t time.Time) string {
	return t.UTC().Month().String()
}

// MonthKey returns the year-month key (2006-01)
func MonthKey(t time.Time) string {
	return t.UTC().Format(MonthKeyLayout)
}

// DayKey returns the calendar-day key (2006-01-02)
func DayKey(t time.Time) string {
	return t.UTC().Format(DayKeyLayout)
}

// Quarter returns Q1..Q4
func Quarter(t time.Time) string {
	return fmt.Sprintf("Q%d", (int(t.UTC().Month())-1)/3+1)
}

// IsWeekendArrival reports whether t falls on Friday, Saturday or Sunday
func IsWeekendArrival(t time.Time) bool {
	switch t.UTC().Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	}
	return false
}

// DaysBetween returns the number of whole UTC calendar days from a to b (negative if b is before a)
func DaysBetween(a, b time.Time) int {
	a, b = a.UTC(), b.UTC()
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
