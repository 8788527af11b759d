package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// 2024-01-01 was a Monday.
func at(day Weekday, clock string) time.Time {
	offset := map[Weekday]int{
		Monday: 0, Tuesday: 1, Wednesday: 2, Thursday: 3, Friday: 4, Saturday: 5, Sunday: 6,
	}[day]
	m, err := ParseClock(clock)
	if err != nil {
		panic(err)
	}
	return time.Date(2024, 1, 1+offset, m/60, m%60, 0, 0, time.UTC)
}

func TestWeekdayOf(t *testing.T) {
	for _, d := range Week {
		assert.Equal(t, d, WeekdayOf(at(d, "12:00")))
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 570},
		{in: "23:59", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "25:99", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "9:30", wantErr: true},
		{in: "09-30", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
		{in: "09:300", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseClock(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMalformedTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.in, FormatClock(got))
		})
	}
}

func TestIsOpenAtInclusiveBounds(t *testing.T) {
	s := WeeklySchedule{
		Monday: {IsOpen: true, Ranges: []TimeRange{{Start: "09:00", End: "17:00"}}},
	}
	tests := []struct {
		clock string
		want  bool
	}{
		{"08:59", false},
		{"09:00", true},
		{"12:30", true},
		{"17:00", true},
		{"17:01", false},
	}
	for _, tc := range tests {
		t.Run(tc.clock, func(t *testing.T) {
			assert.Equal(t, tc.want, IsOpenAt(s, "", "", at(Monday, tc.clock)))
		})
	}
}

func TestIsOpenAtClosedDayIgnoresRanges(t *testing.T) {
	s := WeeklySchedule{
		Sunday: {IsOpen: false, Ranges: []TimeRange{{Start: "00:00", End: "23:59"}}},
	}
	for _, clock := range []string{"00:00", "12:00", "23:59"} {
		assert.False(t, IsOpenAt(s, "00:00", "23:59", at(Sunday, clock)))
	}
}

func TestIsOpenAtOpenDayWithoutRanges(t *testing.T) {
	s := WeeklySchedule{
		Wednesday: {IsOpen: true},
		Thursday:  {IsOpen: true, Ranges: []TimeRange{}},
	}
	assert.False(t, IsOpenAt(s, "00:00", "23:59", at(Wednesday, "12:00")))
	assert.False(t, IsOpenAt(s, "00:00", "23:59", at(Thursday, "12:00")))
}

func TestIsOpenAtFallback(t *testing.T) {
	assert.True(t, IsOpenAt(nil, "10:00", "14:00", at(Friday, "12:00")))
	assert.False(t, IsOpenAt(nil, "10:00", "14:00", at(Friday, "15:00")))
	assert.True(t, IsOpenAt(nil, "10:00", "14:00", at(Friday, "10:00")))
	assert.True(t, IsOpenAt(nil, "10:00", "14:00", at(Friday, "14:00")))

	// schedule present but silent about today
	s := WeeklySchedule{Monday: {IsOpen: false}}
	assert.True(t, IsOpenAt(s, "10:00", "14:00", at(Friday, "12:00")))
}

func TestIsOpenAtNoInformation(t *testing.T) {
	assert.False(t, IsOpenAt(nil, "", "", at(Monday, "12:00")))
	assert.False(t, IsOpenAt(nil, "10:00", "", at(Monday, "12:00")))
	assert.False(t, IsOpenAt(nil, "", "14:00", at(Monday, "12:00")))
	assert.False(t, IsOpenAt(WeeklySchedule{}, "", "", at(Monday, "12:00")))
}

func TestIsOpenAtMalformedRangeSkipped(t *testing.T) {
	s := WeeklySchedule{
		Monday: {IsOpen: true, Ranges: []TimeRange{
			{Start: "25:99", End: "12:00"},
			{Start: "14:00", End: "18:00"},
		}},
	}
	assert.NotPanics(t, func() {
		assert.False(t, IsOpenAt(s, "", "", at(Monday, "11:00")))
	})
	assert.True(t, IsOpenAt(s, "", "", at(Monday, "15:00")))

	assert.False(t, IsOpenAt(nil, "10am", "14:00", at(Monday, "12:00")))
}

func TestIsOpenAtSplitShift(t *testing.T) {
	s := WeeklySchedule{
		Tuesday: {IsOpen: true, Ranges: []TimeRange{
			{Start: "09:00", End: "13:00"},
			{Start: "17:00", End: "21:00"},
		}},
	}
	assert.True(t, IsOpenAt(s, "", "", at(Tuesday, "19:30")))
	assert.False(t, IsOpenAt(s, "", "", at(Tuesday, "15:00")))
	assert.True(t, IsOpenAt(s, "", "", at(Tuesday, "13:00")))
}

func TestIsOpenAtManyRanges(t *testing.T) {
	var ranges []TimeRange
	for h := 0; h < 24; h += 2 {
		ranges = append(ranges, TimeRange{Start: FormatClock(h * 60), End: FormatClock(h*60 + 30)})
	}
	s := WeeklySchedule{Saturday: {IsOpen: true, Ranges: ranges}}
	assert.True(t, IsOpenAt(s, "", "", at(Saturday, "22:15")))
	assert.False(t, IsOpenAt(s, "", "", at(Saturday, "23:00")))
}

func TestIsOpenAtUsesWallClockOfNow(t *testing.T) {
	s := WeeklySchedule{Monday: {IsOpen: true, Ranges: []TimeRange{{Start: "09:00", End: "10:00"}}}}
	loc := time.FixedZone("UTC-6", -6*3600)
	// 15:30 UTC Monday is 09:30 Monday at UTC-6.
	now := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC).In(loc)
	assert.True(t, IsOpenAt(s, "", "", now))
	assert.False(t, IsOpenAt(s, "", "", now.UTC()))
}

func TestValidate(t *testing.T) {
	s := WeeklySchedule{
		Monday:   {IsOpen: true, Ranges: []TimeRange{{Start: "25:99", End: "12:00"}}},
		Tuesday:  {IsOpen: true, Ranges: []TimeRange{{Start: "09:00", End: "17:00"}}},
		Saturday: {IsOpen: false, Ranges: []TimeRange{{Start: "22:00", End: "02:00"}}},
	}
	issues := Validate(s, "", "")
	require.Len(t, issues, 2)

	assert.Equal(t, Monday, issues[0].Day)
	assert.Equal(t, 0, issues[0].Index)
	assert.Equal(t, "start", issues[0].Field)
	assert.Equal(t, "25:99", issues[0].Value)
	assert.Contains(t, issues[0].Error(), "monday[0].start")

	assert.Equal(t, Saturday, issues[1].Day)
	assert.Contains(t, issues[1].Reason, "overnight")

	var err error = issues[0]
	assert.Error(t, err)
}

func TestValidateFallback(t *testing.T) {
	assert.Empty(t, Validate(nil, "", ""))
	assert.Empty(t, Validate(nil, "08:00", "20:00"))

	issues := Validate(nil, "8am", "20:00")
	require.Len(t, issues, 1)
	assert.Equal(t, "openTime", issues[0].Field)
	assert.Equal(t, -1, issues[0].Index)

	issues = Validate(nil, "08:00", "")
	require.Len(t, issues, 1)
	assert.Equal(t, "closeTime", issues[0].Field)
}

func TestStatus(t *testing.T) {
	s := WeeklySchedule{
		Tuesday: {IsOpen: true, Ranges: []TimeRange{{Start: "09:00", End: "13:00"}}},
		Sunday:  {IsOpen: false},
	}
	st := Status(s, "", "", at(Tuesday, "10:00"))
	assert.True(t, st.Open)
	assert.Equal(t, Tuesday, st.Today)
	assert.Len(t, st.Ranges, 1)

	st = Status(s, "", "", at(Sunday, "10:00"))
	assert.False(t, st.Open)
	assert.True(t, st.Closed)

	st = Status(s, "08:00", "18:00", at(Monday, "19:00"))
	assert.False(t, st.Open)
	assert.False(t, st.Closed)
	assert.Equal(t, []TimeRange{{Start: "08:00", End: "18:00"}}, st.Ranges)
}

func TestWeeklyScheduleJSON(t *testing.T) {
	raw := `{"tuesday":{"isOpen":true,"ranges":[{"start":"09:00","end":"13:00"}]},"monday":{"isOpen":false,"ranges":[]}}`
	var s WeeklySchedule
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	require.Len(t, s, 2)
	assert.True(t, s[Tuesday].IsOpen)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
	assert.Equal(t,
		`{"monday":{"isOpen":false,"ranges":[]},"tuesday":{"isOpen":true,"ranges":[{"start":"09:00","end":"13:00"}]}}`,
		string(out))

	var bad WeeklySchedule
	assert.Error(t, json.Unmarshal([]byte(`{"Lunes":{"isOpen":true}}`), &bad))

	var empty WeeklySchedule
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.Nil(t, empty)
}

func TestNullDayFallsBackToLegacyHours(t *testing.T) {
	var s WeeklySchedule
	require.NoError(t, json.Unmarshal([]byte(`{"monday":null,"tuesday":{"isOpen":false}}`), &s))

	_, ok := s.Day(Monday)
	assert.False(t, ok)
	_, ok = s.Day(Tuesday)
	assert.True(t, ok)
	assert.True(t, IsOpenAt(s, "10:00", "14:00", at(Monday, "12:00")))
	assert.False(t, IsOpenAt(s, "10:00", "14:00", at(Tuesday, "12:00")))

	var bad WeeklySchedule
	assert.ErrorContains(t, json.Unmarshal([]byte(`{"lunes":null}`), &bad), `unknown weekday "lunes"`)
}

func TestWeeklyScheduleYAML(t *testing.T) {
	var doc struct {
		Schedule WeeklySchedule `yaml:"schedule"`
	}
	raw := `
schedule:
  monday: ~
  friday: {isOpen: true, ranges: [{start: "09:00", end: "13:00"}]}
`
	require.NoError(t, yaml.Unmarshal([]byte(raw), &doc))
	require.Len(t, doc.Schedule, 1)
	assert.True(t, doc.Schedule[Friday].IsOpen)
	assert.True(t, IsOpenAt(doc.Schedule, "10:00", "14:00", at(Monday, "11:00")))

	err := yaml.Unmarshal([]byte("schedule:\n  lunes: {isOpen: true}\n"), &doc)
	assert.ErrorContains(t, err, `unknown weekday "lunes"`)
}
