package models

import (
	"errors"
	"fmt"
	"time"
)

// DismissMethod selects the gate a ringing alarm puts between the user and
// silence.
type DismissMethod string

const (
	DismissTap   DismissMethod = "tap"
	DismissMath  DismissMethod = "math"
	DismissShake DismissMethod = "shake"
)

// MathDifficulty applies when DismissMethod is DismissMath.
type MathDifficulty string

const (
	MathEasy   MathDifficulty = "easy"
	MathMedium MathDifficulty = "medium"
	MathHard   MathDifficulty = "hard"
)

var ErrInvalidAlarm = errors.New("invalid alarm")

// Alarm is the persisted alarm definition. Time is "HH:MM" in 24h local
// time; RepeatDays is a set of weekdays (Sunday=0), empty for a one-time
// alarm.
type Alarm struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Time       string         `json:"time"`
	Enabled    bool           `json:"enabled"`
	RepeatDays []time.Weekday `json:"repeatDays"`

	Tone          string         `json:"tone"`
	Vibration     bool           `json:"vibration"`
	GradualVolume bool           `json:"gradualVolume"`
	DismissMethod DismissMethod  `json:"dismissMethod"`
	MathLevel     MathDifficulty `json:"mathDifficulty"`

	SnoozeEnabled  bool `json:"snoozeEnabled"`
	SnoozeDuration int  `json:"snoozeDuration"`
	MaxSnoozes     int  `json:"maxSnoozes"`

	CreatedAt time.Time `json:"createdAt"`

	// Bookkeeping updated by the system, never by the user.
	SnoozeCount    int `json:"snoozeCount"`
	TimesTriggered int `json:"timesTriggered"`
	TotalSnoozes   int `json:"totalSnoozes"`
}

// ParseClock splits the "HH:MM" field into hour and minute.
func (a *Alarm) ParseClock() (hour, minute int, err error) {
	if _, err := fmt.Sscanf(a.Time, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("parse alarm time %q: %w", a.Time, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("alarm time %q out of range", a.Time)
	}
	return hour, minute, nil
}

// Repeats reports whether the alarm recurs on a weekday mask.
func (a *Alarm) Repeats() bool {
	return len(a.RepeatDays) > 0
}

// RepeatsOn reports whether the alarm recurs on the given weekday.
func (a *Alarm) RepeatsOn(day time.Weekday) bool {
	for _, d := range a.RepeatDays {
		if d == day {
			return true
		}
	}
	return false
}

// Validate checks the user-settable fields. It never touches the
// bookkeeping counters.
func (a *Alarm) Validate() error {
	if _, _, err := a.ParseClock(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAlarm, err)
	}
	for _, d := range a.RepeatDays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: repeat day %d out of range", ErrInvalidAlarm, d)
		}
	}
	switch a.DismissMethod {
	case DismissTap, DismissMath, DismissShake:
	default:
		return fmt.Errorf("%w: unknown dismiss method %q", ErrInvalidAlarm, a.DismissMethod)
	}
	if a.DismissMethod == DismissMath {
		switch a.MathLevel {
		case MathEasy, MathMedium, MathHard:
		default:
			return fmt.Errorf("%w: unknown math difficulty %q", ErrInvalidAlarm, a.MathLevel)
		}
	}
	if a.SnoozeEnabled && a.SnoozeDuration <= 0 {
		return fmt.Errorf("%w: snooze duration must be positive", ErrInvalidAlarm)
	}
	if a.MaxSnoozes < 0 {
		return fmt.Errorf("%w: max snoozes must not be negative", ErrInvalidAlarm)
	}
	if a.Tone == "" {
		return fmt.Errorf("%w: tone is required", ErrInvalidAlarm)
	}
	return nil
}

// Clone returns a deep copy, so a ringing snapshot is not aliased to the
// stored record.
func (a *Alarm) Clone() *Alarm {
	c := *a
	c.RepeatDays = append([]time.Weekday(nil), a.RepeatDays...)
	return &c
}

// AlarmUpdate is a partial update; nil fields keep the current value.
// ID and CreatedAt are immutable and have no counterpart here.
type AlarmUpdate struct {
	Label          *string         `json:"label,omitempty"`
	Time           *string         `json:"time,omitempty"`
	Enabled        *bool           `json:"enabled,omitempty"`
	RepeatDays     *[]time.Weekday `json:"repeatDays,omitempty"`
	Tone           *string         `json:"tone,omitempty"`
	Vibration      *bool           `json:"vibration,omitempty"`
	GradualVolume  *bool           `json:"gradualVolume,omitempty"`
	DismissMethod  *DismissMethod  `json:"dismissMethod,omitempty"`
	MathLevel      *MathDifficulty `json:"mathDifficulty,omitempty"`
	SnoozeEnabled  *bool           `json:"snoozeEnabled,omitempty"`
	SnoozeDuration *int            `json:"snoozeDuration,omitempty"`
	MaxSnoozes     *int            `json:"maxSnoozes,omitempty"`
}

// Apply copies the set fields onto a.
func (u *AlarmUpdate) Apply(a *Alarm) {
	if u.Label != nil {
		a.Label = *u.Label
	}
	if u.Time != nil {
		a.Time = *u.Time
	}
	if u.Enabled != nil {
		a.Enabled = *u.Enabled
	}
	if u.RepeatDays != nil {
		a.RepeatDays = append([]time.Weekday(nil), (*u.RepeatDays)...)
	}
	if u.Tone != nil {
		a.Tone = *u.Tone
	}
	if u.Vibration != nil {
		a.Vibration = *u.Vibration
	}
	if u.GradualVolume != nil {
		a.GradualVolume = *u.GradualVolume
	}
	if u.DismissMethod != nil {
		a.DismissMethod = *u.DismissMethod
	}
	if u.MathLevel != nil {
		a.MathLevel = *u.MathLevel
	}
	if u.SnoozeEnabled != nil {
		a.SnoozeEnabled = *u.SnoozeEnabled
	}
	if u.SnoozeDuration != nil {
		a.SnoozeDuration = *u.SnoozeDuration
	}
	if u.MaxSnoozes != nil {
		a.MaxSnoozes = *u.MaxSnoozes
	}
}
