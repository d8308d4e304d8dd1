package core

import "time"

// StartOfMonth returns day 1, 00:00 in d's location for d's month and year.
func StartOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
}

// AddMonths shifts d by delta whole months with the day anchored to 1.
//
// Anchoring is deliberate: time.AddDate normalizes Jan 31 + 1 month to
// Mar 2/3, which makes month navigation skip February. Every month-window
// computation in this package works on anchors, so the day is pinned.
func AddMonths(d time.Time, delta int) time.Time {
	return time.Date(d.Year(), d.Month()+time.Month(delta), 1, 0, 0, 0, 0, d.Location())
}

// SameMonth reports whether a and b fall in the same calendar month.
// Day and time-of-day are ignored.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// MonthKey encodes d's month as year*100 + month(1..12), e.g. 202601.
func MonthKey(d time.Time) int {
	return d.Year()*100 + int(d.Month())
}

// MonthKeyOf encodes an explicit year and 1-based month.
func MonthKeyOf(year, month int) int {
	return year*100 + month
}

// SplitMonthKey decodes a month key back into year and 1-based month.
func SplitMonthKey(key int) (year, month int, err error) {
	year = key / 100
	month = key % 100
	if year < 1 || month < 1 || month > 12 {
		return 0, 0, ErrInvalidMonthKey
	}
	return year, month, nil
}

// MonthAnchor returns the first instant of the month a key encodes, in UTC.
func MonthAnchor(key int) (time.Time, error) {
	year, month, err := SplitMonthKey(key)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// MonthTitle formats d as a long month label, e.g. "January 2026".
func MonthTitle(d time.Time) string {
	return d.Format("January 2006")
}

// ShortMonthLabel formats d as a short month label, e.g. "Jan 2026".
func ShortMonthLabel(d time.Time) string {
	return d.Format("Jan 2006")
}
