package sched

import (
	"time"

	"github.com/tidewater/clarion/pkg/models"
)

// NextRingTime computes the next instant the alarm is due, evaluated in
// now's location.
//
// One-time alarms ring at today's HH:MM, or tomorrow's if that already
// passed; the result is always in the future. Repeating alarms ring today
// only if today is in the repeat mask and HH:MM is still strictly ahead of
// now (minute granularity), otherwise on the first masked weekday within
// the next seven days.
//
// ok is false only when the time field does not parse or the mask is
// somehow empty on the repeating path; callers treat that as "do not arm".
func NextRingTime(a *models.Alarm, now time.Time) (next time.Time, ok bool) {
	hour, minute, err := a.ParseClock()
	if err != nil {
		return time.Time{}, false
	}

	at := func(day time.Time) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
	}

	if !a.Repeats() {
		candidate := at(now)
		if !candidate.After(now) {
			candidate = at(now.AddDate(0, 0, 1))
		}
		return candidate, true
	}

	nowMinutes := now.Hour()*60 + now.Minute()
	alarmMinutes := hour*60 + minute
	if a.RepeatsOn(now.Weekday()) && alarmMinutes > nowMinutes {
		return at(now), true
	}

	for i := 1; i <= 7; i++ {
		day := now.AddDate(0, 0, i)
		if a.RepeatsOn(day.Weekday()) {
			return at(day), true
		}
	}
	return time.Time{}, false
}
