package collector

import "time"

// RateWindow returns the exchange-rate query window: [now - 3*365 days, now].
func RateWindow(now time.Time) (start, end time.Time) {
	return now.AddDate(0, 0, -3*365), now
}

// DividendWindow returns the dividend filter window:
// [first day of now's month - (months-1)*30 days, now].
// Months are approximated as 30 days.
func DividendWindow(now time.Time, months int) (start, end time.Time) {
	first := time.Date(now.Year(), now.Month(), 1,
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location())
	return first.AddDate(0, 0, -(months-1)*30), now
}
