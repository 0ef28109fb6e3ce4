package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valid() Alarm {
	return Alarm{
		ID:            "a1",
		Time:          "06:30",
		Tone:          "classic-bell",
		DismissMethod: DismissTap,
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in     string
		hour   int
		minute int
		ok     bool
	}{
		{"00:00", 0, 0, true},
		{"7:05", 7, 5, true},
		{"23:59", 23, 59, true},
		{"24:00", 0, 0, false},
		{"12:60", 0, 0, false},
		{"noon", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tc := range cases {
		a := valid()
		a.Time = tc.in
		hour, minute, err := a.ParseClock()
		if !tc.ok {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.hour, hour)
		assert.Equal(t, tc.minute, minute)
	}
}

func TestValidate(t *testing.T) {
	good := valid()
	assert.NoError(t, good.Validate())

	bad := valid()
	bad.Time = "25:00"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidAlarm)

	bad = valid()
	bad.Tone = ""
	assert.ErrorIs(t, bad.Validate(), ErrInvalidAlarm)

	bad = valid()
	bad.DismissMethod = "whistle"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidAlarm)

	bad = valid()
	bad.DismissMethod = DismissMath
	assert.ErrorIs(t, bad.Validate(), ErrInvalidAlarm, "math needs a difficulty")
	bad.MathLevel = MathMedium
	assert.NoError(t, bad.Validate())

	bad = valid()
	bad.SnoozeEnabled = true
	assert.ErrorIs(t, bad.Validate(), ErrInvalidAlarm, "snooze needs a duration")
	bad.SnoozeDuration = 5
	assert.NoError(t, bad.Validate())

	bad = valid()
	bad.RepeatDays = []time.Weekday{time.Weekday(7)}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidAlarm)
}

func TestCloneIsDeep(t *testing.T) {
	a := valid()
	a.RepeatDays = []time.Weekday{time.Monday, time.Tuesday}

	c := a.Clone()
	c.RepeatDays[0] = time.Friday
	c.Label = "changed"

	assert.Equal(t, time.Monday, a.RepeatDays[0])
	assert.Empty(t, a.Label)
}

func TestUpdateApplyOnlySetFields(t *testing.T) {
	a := valid()
	a.Label = "Morning"
	a.SnoozeDuration = 5

	newTime := "09:15"
	enabled := true
	(&AlarmUpdate{Time: &newTime, Enabled: &enabled}).Apply(&a)

	assert.Equal(t, "09:15", a.Time)
	assert.True(t, a.Enabled)
	assert.Equal(t, "Morning", a.Label, "unset fields keep their value")
	assert.Equal(t, 5, a.SnoozeDuration)
}

func TestRepeatsOn(t *testing.T) {
	a := valid()
	assert.False(t, a.Repeats())

	a.RepeatDays = []time.Weekday{time.Saturday, time.Sunday}
	assert.True(t, a.Repeats())
	assert.True(t, a.RepeatsOn(time.Sunday))
	assert.False(t, a.RepeatsOn(time.Wednesday))
}
