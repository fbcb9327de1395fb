package leavecalc

import "time"

// Holiday is one entry of a public-holiday calendar.
type Holiday struct {
	Date time.Time
	Name string
}

// HolidaySet is a calendar-date lookup. Membership ignores the
// time-of-day and zone of both the stored and the queried value, so a
// holiday fetched as "2026-06-12T00:00:00+08:00" still matches a range
// endpoint parsed in UTC.
type HolidaySet struct {
	byDate map[string]Holiday
}

func NewHolidaySet(holidays ...Holiday) HolidaySet {
	s := HolidaySet{byDate: make(map[string]Holiday, len(holidays))}
	for _, h := range holidays {
		s.byDate[dateKey(h.Date)] = h
	}
	return s
}

// Merge returns the union of both sets. On duplicate dates the
// receiver's entry wins.
func (s HolidaySet) Merge(other HolidaySet) HolidaySet {
	merged := HolidaySet{byDate: make(map[string]Holiday, len(s.byDate)+len(other.byDate))}
	for k, h := range other.byDate {
		merged.byDate[k] = h
	}
	for k, h := range s.byDate {
		merged.byDate[k] = h
	}
	return merged
}

func (s HolidaySet) Contains(day time.Time) bool {
	if s.byDate == nil {
		return false
	}
	_, ok := s.byDate[dateKey(day)]
	return ok
}

func (s HolidaySet) Len() int {
	return len(s.byDate)
}

// InRange lists the holidays falling inside the inclusive range.
func (s HolidaySet) InRange(start, end time.Time) []Holiday {
	var out []Holiday
	for day := NormalizeDate(start); !day.After(NormalizeDate(end)); day = day.AddDate(0, 0, 1) {
		if h, ok := s.byDate[dateKey(day)]; ok {
			out = append(out, h)
		}
	}
	return out
}

// NormalizeDate strips time-of-day and zone, leaving a bare calendar
// date in UTC. Every day-count entry point normalizes first; skipping
// this was a recurring source of off-by-one counts at zone boundaries.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
