package models

import "time"

// Stats is the aggregate usage record, a singleton in the store. The
// scheduler never reads it; the facade records into it as alarms are
// created, triggered, snoozed and dismissed.
type Stats struct {
	TotalAlarmsCreated   int            `json:"totalAlarmsCreated"`
	TotalAlarmsTriggered int            `json:"totalAlarmsTriggered"`
	TotalSnoozes         int            `json:"totalSnoozes"`
	AverageSnoozeCount   float64        `json:"averageSnoozeCount"`
	MostUsedTone         string         `json:"mostUsedTone"`
	ToneCounts           map[string]int `json:"toneCounts"`

	// Wake streak: consecutive calendar days with at least one dismissed
	// alarm.
	CurrentWakeStreak int    `json:"currentWakeStreak"`
	LongestWakeStreak int    `json:"longestWakeStreak"`
	LastWakeDay       string `json:"lastWakeDay"` // "2006-01-02"
}

func (s *Stats) RecordCreated(tone string) {
	s.TotalAlarmsCreated++
	if s.ToneCounts == nil {
		s.ToneCounts = make(map[string]int)
	}
	s.ToneCounts[tone]++
	s.refreshMostUsedTone()
}

func (s *Stats) RecordTriggered() {
	s.TotalAlarmsTriggered++
	s.refreshAverage()
}

func (s *Stats) RecordSnoozed() {
	s.TotalSnoozes++
	s.refreshAverage()
}

// RecordDismissed advances the wake streak. Same-day dismissals collapse
// into one streak day.
func (s *Stats) RecordDismissed(at time.Time) {
	day := at.Format("2006-01-02")
	if s.LastWakeDay == day {
		return
	}
	yesterday := at.AddDate(0, 0, -1).Format("2006-01-02")
	if s.LastWakeDay == yesterday {
		s.CurrentWakeStreak++
	} else {
		s.CurrentWakeStreak = 1
	}
	s.LastWakeDay = day
	if s.CurrentWakeStreak > s.LongestWakeStreak {
		s.LongestWakeStreak = s.CurrentWakeStreak
	}
}

func (s *Stats) refreshAverage() {
	if s.TotalAlarmsTriggered == 0 {
		s.AverageSnoozeCount = 0
		return
	}
	s.AverageSnoozeCount = float64(s.TotalSnoozes) / float64(s.TotalAlarmsTriggered)
}

func (s *Stats) refreshMostUsedTone() {
	best, bestCount := "", 0
	for tone, count := range s.ToneCounts {
		if count > bestCount || (count == bestCount && tone < best) {
			best, bestCount = tone, count
		}
	}
	s.MostUsedTone = best
}
