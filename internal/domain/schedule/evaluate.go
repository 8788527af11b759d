// internal/domain/schedule/evaluate.go
package schedule

import "time"

// IsOpenAt reports whether a venue is open at now.
//
// now must already be in the venue's local wall-clock time; no timezone
// conversion happens here. When schedule has an entry for now's weekday that
// entry alone decides. Otherwise the legacy fallbackOpen/fallbackClose pair is
// used; an empty string means the value is absent. Range bounds are inclusive
// and malformed times never match.
func IsOpenAt(schedule WeeklySchedule, fallbackOpen, fallbackClose string, now time.Time) bool {
	minute := minuteOfDay(now)
	if day, ok := schedule.Day(WeekdayOf(now)); ok {
		return day.openAt(minute)
	}
	if fallbackOpen == "" || fallbackClose == "" {
		return false
	}
	return TimeRange{Start: fallbackOpen, End: fallbackClose}.contains(minute)
}

func (d DaySchedule) openAt(minute int) bool {
	if !d.IsOpen {
		return false
	}
	for _, r := range d.Ranges {
		if r.contains(minute) {
			return true
		}
	}
	return false
}

func (r TimeRange) contains(minute int) bool {
	start, err := ParseClock(r.Start)
	if err != nil {
		return false
	}
	end, err := ParseClock(r.End)
	if err != nil {
		return false
	}
	return start <= minute && minute <= end
}

// OpenStatus is the "open now" line shown on a venue page.
type OpenStatus struct {
	Open   bool        `json:"open"`
	Today  Weekday     `json:"today"`
	Closed bool        `json:"closedToday"`
	Ranges []TimeRange `json:"ranges"`
}

// Status evaluates IsOpenAt and also reports today's configured hours.
func Status(schedule WeeklySchedule, fallbackOpen, fallbackClose string, now time.Time) OpenStatus {
	today := WeekdayOf(now)
	st := OpenStatus{
		Open:   IsOpenAt(schedule, fallbackOpen, fallbackClose, now),
		Today:  today,
		Ranges: []TimeRange{},
	}
	if day, ok := schedule.Day(today); ok {
		if !day.IsOpen || len(day.Ranges) == 0 {
			st.Closed = true
			return st
		}
		st.Ranges = append(st.Ranges, day.Ranges...)
		return st
	}
	if fallbackOpen == "" || fallbackClose == "" {
		st.Closed = true
		return st
	}
	st.Ranges = append(st.Ranges, TimeRange{Start: fallbackOpen, End: fallbackClose})
	return st
}
