// internal/domain/schedule/schedule.go
package schedule

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TimeRange is an opening window in local wall-clock time. Start must not be after End.
type TimeRange struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

type DaySchedule struct {
	IsOpen bool        `json:"isOpen" yaml:"isOpen"`
	Ranges []TimeRange `json:"ranges" yaml:"ranges"`
}

// WeeklySchedule maps each canonical day to its hours. Missing days fall back
// to the venue's legacy open/close pair.
type WeeklySchedule map[Weekday]DaySchedule

// Day returns the entry for d and whether one exists.
func (w WeeklySchedule) Day(d Weekday) (DaySchedule, bool) {
	if w == nil {
		return DaySchedule{}, false
	}
	ds, ok := w[d]
	return ds, ok
}

func (d DaySchedule) MarshalJSON() ([]byte, error) {
	type alias DaySchedule
	out := alias(d)
	if out.Ranges == nil {
		out.Ranges = []TimeRange{}
	}
	return json.Marshal(out)
}

// MarshalJSON writes days in canonical week order so stored documents are stable.
func (w WeeklySchedule) MarshalJSON() ([]byte, error) {
	if w == nil {
		return []byte("null"), nil
	}
	buf := []byte{'{'}
	first := true
	for _, d := range Week {
		ds, ok := w[d]
		if !ok {
			continue
		}
		if !first {
			buf = append(buf, ',')
		}
		first = false
		key, _ := json.Marshal(string(d))
		val, err := json.Marshal(ds)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// UnmarshalJSON rejects day keys outside the canonical set. A null day is
// dropped so the legacy pair still covers it.
func (w *WeeklySchedule) UnmarshalJSON(data []byte) error {
	var raw map[string]*DaySchedule
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return w.fromRaw(raw)
}

// UnmarshalYAML applies the same rules to fixture and CLI documents.
func (w *WeeklySchedule) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]*DaySchedule
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return w.fromRaw(raw)
}

func (w *WeeklySchedule) fromRaw(raw map[string]*DaySchedule) error {
	if raw == nil {
		*w = nil
		return nil
	}
	out := make(WeeklySchedule, len(raw))
	for k, v := range raw {
		d, err := ParseWeekday(k)
		if err != nil {
			return fmt.Errorf("schedule: %w", err)
		}
		if v == nil {
			continue
		}
		out[d] = *v
	}
	*w = out
	return nil
}
