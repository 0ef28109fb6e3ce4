package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewater/clarion/pkg/models"
)

// 2025-06-14 is a Saturday.
var saturday = time.Date(2025, 6, 14, 0, 0, 0, 0, time.Local)

func alarmAt(clock string, days ...time.Weekday) *models.Alarm {
	return &models.Alarm{
		ID:            "a1",
		Time:          clock,
		Enabled:       true,
		RepeatDays:    days,
		Tone:          "classic-bell",
		DismissMethod: models.DismissTap,
	}
}

func TestNextRingTimeOneTime(t *testing.T) {
	tests := []struct {
		name  string
		clock string
		now   time.Time
		want  time.Time
	}{{
		name:  "later today",
		clock: "07:00",
		now:   saturday.Add(6 * time.Hour),
		want:  saturday.Add(7 * time.Hour),
	}, {
		name:  "already passed rolls to tomorrow",
		clock: "07:00",
		now:   saturday.Add(8 * time.Hour),
		want:  saturday.AddDate(0, 0, 1).Add(7 * time.Hour),
	}, {
		name:  "exactly now rolls to tomorrow",
		clock: "07:00",
		now:   saturday.Add(7 * time.Hour),
		want:  saturday.AddDate(0, 0, 1).Add(7 * time.Hour),
	}, {
		name:  "midnight alarm just after midnight",
		clock: "00:00",
		now:   saturday.Add(1 * time.Minute),
		want:  saturday.AddDate(0, 0, 1),
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := NextRingTime(alarmAt(tt.clock), tt.now)
			require.True(t, ok)
			assert.Equal(t, tt.want, next)
			assert.True(t, next.After(tt.now), "next ring must be in the future")
		})
	}
}

func TestNextRingTimeRepeating(t *testing.T) {
	weekdays := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

	tests := []struct {
		name  string
		alarm *models.Alarm
		now   time.Time
		want  time.Time
	}{{
		name:  "weekday alarm on saturday waits for monday",
		alarm: alarmAt("09:00", weekdays...),
		now:   saturday.Add(10 * time.Hour),
		want:  saturday.AddDate(0, 0, 2).Add(9 * time.Hour),
	}, {
		name:  "today in mask and time still ahead",
		alarm: alarmAt("09:00", time.Saturday),
		now:   saturday.Add(8 * time.Hour),
		want:  saturday.Add(9 * time.Hour),
	}, {
		name:  "today in mask but time passed waits a week",
		alarm: alarmAt("09:00", time.Saturday),
		now:   saturday.Add(10 * time.Hour),
		want:  saturday.AddDate(0, 0, 7).Add(9 * time.Hour),
	}, {
		name:  "same minute does not count as ahead",
		alarm: alarmAt("09:00", time.Saturday),
		now:   saturday.Add(9*time.Hour + 30*time.Second),
		want:  saturday.AddDate(0, 0, 7).Add(9 * time.Hour),
	}, {
		name:  "sunday only",
		alarm: alarmAt("06:30", time.Sunday),
		now:   saturday.Add(12 * time.Hour),
		want:  saturday.AddDate(0, 0, 1).Add(6*time.Hour + 30*time.Minute),
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := NextRingTime(tt.alarm, tt.now)
			require.True(t, ok)
			assert.Equal(t, tt.want, next)
			assert.True(t, tt.alarm.RepeatsOn(next.Weekday()), "next ring must land on a masked weekday")
		})
	}
}

func TestNextRingTimeEarliestMaskedDay(t *testing.T) {
	// Every weekday is masked: the result must always be within 7 days.
	alarm := alarmAt("05:45", time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday)
	for i := 0; i < 7; i++ {
		now := saturday.AddDate(0, 0, i).Add(12 * time.Hour)
		next, ok := NextRingTime(alarm, now)
		require.True(t, ok)
		assert.True(t, next.After(now))
		assert.LessOrEqual(t, next.Sub(now), 7*24*time.Hour)
	}
}

func TestNextRingTimeBadClock(t *testing.T) {
	_, ok := NextRingTime(alarmAt("25:99"), saturday)
	assert.False(t, ok)
}
