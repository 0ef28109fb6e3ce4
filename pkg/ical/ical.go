// Package ical serializes the alarm list as an iCalendar document and
// reads one back. Repeating alarms become weekly RRULEs carrying the
// weekday mask; ring-behavior settings travel as X- properties so an
// exported file restores the same alarm.
package ical

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"github.com/tidewater/clarion/pkg/models"
	"github.com/tidewater/clarion/pkg/sched"
)

const (
	propTone          = "X-CLARION-TONE"
	propDismissMethod = "X-CLARION-DISMISS"
	propSnooze        = "X-CLARION-SNOOZE" // "<duration>;<max>", absent when snooze is off
)

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

// Export renders the alarms as a VCALENDAR, one VEVENT per alarm, with
// DTSTART at the alarm's next occurrence relative to now.
func Export(alarms []models.Alarm, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Clarion//Alarm Clock//EN")

	for i := range alarms {
		alarm := &alarms[i]
		next, ok := sched.NextRingTime(alarm, now)
		if !ok {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, alarm.ID)
		event.Props.SetDateTime(ical.PropDateTimeStamp, now)
		event.Props.SetDateTime(ical.PropDateTimeStart, next)
		summary := alarm.Label
		if summary == "" {
			summary = "Alarm " + alarm.Time
		}
		event.Props.SetText(ical.PropSummary, summary)
		event.Props.SetText(propTone, alarm.Tone)
		event.Props.SetText(propDismissMethod, string(alarm.DismissMethod))
		if alarm.SnoozeEnabled {
			event.Props.SetText(propSnooze,
				fmt.Sprintf("%d;%d", alarm.SnoozeDuration, alarm.MaxSnoozes))
		}

		if alarm.Repeats() {
			days := make([]rrule.Weekday, 0, len(alarm.RepeatDays))
			for _, d := range alarm.RepeatDays {
				days = append(days, rruleWeekdays[d])
			}
			event.Props.SetRecurrenceRule(&rrule.ROption{
				Freq:      rrule.WEEKLY,
				Byweekday: days,
			})
		}

		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

// Import parses an exported calendar back into alarm definitions. Imported
// alarms get fresh ids from the caller and start disabled, so an import
// never rings by surprise.
func Import(data []byte) ([]models.Alarm, error) {
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	if err != nil {
		return nil, fmt.Errorf("decode calendar: %w", err)
	}

	var alarms []models.Alarm
	for _, event := range cal.Events() {
		start, err := event.DateTimeStart(time.Local)
		if err != nil {
			continue
		}

		alarm := models.Alarm{
			Time:          fmt.Sprintf("%02d:%02d", start.Hour(), start.Minute()),
			Enabled:       false,
			Tone:          textProp(event.Props, propTone, "classic-bell"),
			DismissMethod: models.DismissMethod(textProp(event.Props, propDismissMethod, string(models.DismissTap))),
			MathLevel:     models.MathEasy,
		}
		alarm.Label = textProp(event.Props, ical.PropSummary, "")

		if snooze := textProp(event.Props, propSnooze, ""); snooze != "" {
			var duration, max int
			if _, err := fmt.Sscanf(snooze, "%d;%d", &duration, &max); err == nil && duration > 0 {
				alarm.SnoozeEnabled = true
				alarm.SnoozeDuration = duration
				alarm.MaxSnoozes = max
			}
		}

		if rule, err := event.Props.RecurrenceRule(); err == nil && rule != nil {
			for _, wd := range rule.Byweekday {
				alarm.RepeatDays = append(alarm.RepeatDays, weekdayFromRRule(wd))
			}
		}

		alarms = append(alarms, alarm)
	}
	return alarms, nil
}

func textProp(props ical.Props, name, fallback string) string {
	prop := props.Get(name)
	if prop == nil || prop.Value == "" {
		return fallback
	}
	return prop.Value
}

func weekdayFromRRule(wd rrule.Weekday) time.Weekday {
	for day, r := range rruleWeekdays {
		if r == wd {
			return day
		}
	}
	return time.Sunday
}
