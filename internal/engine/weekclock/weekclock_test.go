package weekclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "single digit hour", input: "9:30", want: 570},
		{name: "padded hour", input: "09:30", want: 570},
		{name: "last minute of day", input: "23:59", want: 1439},
		{name: "exact midnight boundary", input: "24:00", want: 1440},
		{name: "24 with minutes rejected", input: "24:30", wantErr: true},
		{name: "hour out of range", input: "25:00", wantErr: true},
		{name: "minute out of range", input: "10:60", wantErr: true},
		{name: "missing minutes", input: "10", wantErr: true},
		{name: "garbage", input: "ab:cd", wantErr: true},
		{name: "negative", input: "-1:00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToWeekMinutes(t *testing.T) {
	tests := []struct {
		name    string
		day     int
		clock   string
		want    int
		wantErr bool
	}{
		{name: "sunday midnight", day: 0, clock: "00:00", want: 0},
		{name: "monday nine", day: 1, clock: "09:00", want: 1440 + 540},
		{name: "saturday last minute", day: 6, clock: "23:59", want: 10079},
		{name: "saturday 24:00 wraps to week start", day: 6, clock: "24:00", want: 0},
		{name: "day below range", day: -1, clock: "10:00", wantErr: true},
		{name: "day above range", day: 7, clock: "10:00", wantErr: true},
		{name: "bad clock", day: 3, clock: "27:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToWeekMinutes(tt.day, tt.clock)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromISODay(t *testing.T) {
	tests := []struct {
		name    string
		isoDay  int
		want    int
		wantErr bool
	}{
		{name: "monday", isoDay: 1, want: 1},
		{name: "saturday", isoDay: 6, want: 6},
		{name: "sunday maps to zero", isoDay: 7, want: 0},
		{name: "zero invalid", isoDay: 0, wantErr: true},
		{name: "eight invalid", isoDay: 8, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromISODay(tt.isoDay)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAt(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	// 2025-01-06 — понедельник; 12:00 UTC = 13:00 в Париже зимой.
	instant := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)

	day, minute := At(instant, time.UTC)
	assert.Equal(t, 1, day)
	assert.Equal(t, 720, minute)

	day, minute = At(instant, paris)
	assert.Equal(t, 1, day)
	assert.Equal(t, 780, minute)

	assert.Equal(t, 1440+780, WeekMinuteAt(instant, paris))
}
