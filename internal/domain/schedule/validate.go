// internal/domain/schedule/validate.go
package schedule

import "fmt"

// MalformedEntry describes one bad time value in a schedule. It implements
// error so callers can return or log it directly.
type MalformedEntry struct {
	Day    Weekday `json:"day,omitempty"`
	Index  int     `json:"index"`
	Field  string  `json:"field"`
	Value  string  `json:"value"`
	Reason string  `json:"reason"`
}

func (e MalformedEntry) Error() string {
	if e.Day == "" {
		return fmt.Sprintf("malformed schedule entry: %s=%q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("malformed schedule entry: %s[%d].%s=%q: %s", e.Day, e.Index, e.Field, e.Value, e.Reason)
}

const (
	reasonFormat    = "expected HH:MM with hours 00-23 and minutes 00-59"
	reasonOvernight = "start is after end; overnight ranges are not supported"
	reasonPairing   = "open and close times must be set together"
)

// Validate lists every time value IsOpenAt would silently skip, including
// ranges on closed days. An empty result means the schedule is well formed.
func Validate(schedule WeeklySchedule, fallbackOpen, fallbackClose string) []MalformedEntry {
	var out []MalformedEntry
	for _, d := range Week {
		day, ok := schedule[d]
		if !ok {
			continue
		}
		for i, r := range day.Ranges {
			out = append(out, checkRange(d, i, r)...)
		}
	}

	if fallbackOpen == "" && fallbackClose == "" {
		return out
	}
	if fallbackOpen == "" || fallbackClose == "" {
		field, value := "openTime", fallbackOpen
		if fallbackClose == "" {
			field, value = "closeTime", fallbackClose
		}
		return append(out, MalformedEntry{Index: -1, Field: field, Value: value, Reason: reasonPairing})
	}
	return append(out, checkRangeFields("", -1, "openTime", "closeTime", TimeRange{Start: fallbackOpen, End: fallbackClose})...)
}

func checkRange(d Weekday, i int, r TimeRange) []MalformedEntry {
	return checkRangeFields(d, i, "start", "end", r)
}

func checkRangeFields(d Weekday, i int, startField, endField string, r TimeRange) []MalformedEntry {
	var out []MalformedEntry
	start, errStart := ParseClock(r.Start)
	if errStart != nil {
		out = append(out, MalformedEntry{Day: d, Index: i, Field: startField, Value: r.Start, Reason: reasonFormat})
	}
	end, errEnd := ParseClock(r.End)
	if errEnd != nil {
		out = append(out, MalformedEntry{Day: d, Index: i, Field: endField, Value: r.End, Reason: reasonFormat})
	}
	if errStart == nil && errEnd == nil && start > end {
		out = append(out, MalformedEntry{Day: d, Index: i, Field: endField, Value: r.End, Reason: reasonOvernight})
	}
	return out
}
