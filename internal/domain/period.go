package domain

import "time"

// MonthLayout is the YYYY-MM bucket used by list filters and reports.
const MonthLayout = "2006-01"

// MonthStart returns midnight UTC on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthRange parses YYYY-MM into [first of month, first of next month).
func MonthRange(month string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation(MonthLayout, month, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, Validationf("month must be in YYYY-MM format")
	}
	return t, t.AddDate(0, 1, 0), nil
}

// DayRange turns inclusive calendar dates into half-open instants on the
// time axis: [from 00:00, day after to 00:00). Nil bounds stay open.
func DayRange(from, to *Date) (*time.Time, *time.Time) {
	var start, end *time.Time
	if from != nil {
		t := from.Time
		start = &t
	}
	if to != nil {
		t := to.AddDays(1).Time
		end = &t
	}
	return start, end
}
