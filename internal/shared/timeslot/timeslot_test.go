package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 1440, false},
		{"24:01", 0, true},
		{"9:30", 0, true},
		{"12:60", 0, true},
		{"ab:cd", 0, true},
		{"+9:30", 0, true},
		{"+9:+5", 0, true},
		{"-1:00", 0, true},
		{" 09:30", 0, true},
		{"09:30 ", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "13:45", FormatClock(13*60+45))
	assert.Equal(t, "24:00", FormatClock(MinutesPerDay))
}

func TestParseDateIsStrict(t *testing.T) {
	d, err := ParseDate("2026-03-10", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", d.Format(DateLayout))

	for _, in := range []string{"2026-03-10 ", " 2026-03-10", "2026-03-10\n", "2026-3-10", "2026-02-30", ""} {
		_, err := ParseDate(in, time.UTC)
		assert.Error(t, err, "%q", in)
	}

	_, err = ParseMonth("2026-03 ", time.UTC)
	assert.Error(t, err)
	_, err = ParseMonth("2026-03", time.UTC)
	assert.NoError(t, err)
}

func TestNewIntervalRejectsEmptyRange(t *testing.T) {
	_, err := NewInterval("10:00", "10:00")
	assert.Error(t, err)

	_, err = NewInterval("11:00", "10:00")
	assert.Error(t, err)

	iv, err := NewInterval("10:00", "12:30")
	require.NoError(t, err)
	assert.Equal(t, 150, iv.Minutes())
}

func TestOverlaps(t *testing.T) {
	nine := Interval{Start: 9 * 60, End: 10 * 60}

	assert.False(t, nine.Overlaps(Interval{Start: 10 * 60, End: 11 * 60}), "adjacent after")
	assert.False(t, nine.Overlaps(Interval{Start: 8 * 60, End: 9 * 60}), "adjacent before")
	assert.True(t, nine.Overlaps(Interval{Start: 9*60 + 30, End: 10*60 + 30}), "partial")
	assert.True(t, nine.Overlaps(Interval{Start: 9*60 + 15, End: 9*60 + 45}), "contained")
	assert.True(t, nine.Overlaps(Interval{Start: 8 * 60, End: 11 * 60}), "containing")
	assert.True(t, nine.Overlaps(nine), "identical")
}

func TestElapsedMinutesFloors(t *testing.T) {
	from := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 45, ElapsedMinutes(from, from.Add(45*time.Minute+59*time.Second)))
	assert.Equal(t, 0, ElapsedMinutes(from, from.Add(30*time.Second)))
	assert.Equal(t, 0, ElapsedMinutes(from, from.Add(-time.Minute)))
}

func TestTodayAndMinuteOfDayUseLocation(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2026, 3, 1, 20, 30, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-02", Today(now, loc))
	assert.Equal(t, 4*60+30, MinuteOfDay(now, loc))
}

func TestValidatorTags(t *testing.T) {
	type req struct {
		Date  string `validate:"required,date"`
		Start string `validate:"required,clock"`
	}
	v := NewValidator()

	assert.NoError(t, v.Struct(req{Date: "2026-03-01", Start: "09:00"}))
	assert.Error(t, v.Struct(req{Date: "2026-3-1", Start: "09:00"}))
	assert.Error(t, v.Struct(req{Date: "2026-03-01", Start: "9am"}))
	assert.Error(t, v.Struct(req{Date: "2026-03-01 ", Start: "09:00"}))
	assert.Error(t, v.Struct(req{Date: "2026-03-01", Start: "+9:00"}))
}
