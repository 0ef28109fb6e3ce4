package ical

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewater/clarion/pkg/models"
)

func exportNow() time.Time {
	// A Saturday morning, so the weekday alarm's next occurrence is Monday.
	return time.Date(2025, 6, 14, 6, 0, 0, 0, time.Local)
}

func TestExportImportRoundTrip(t *testing.T) {
	alarms := []models.Alarm{
		{
			ID:             "alarm-1",
			Label:          "Workday",
			Time:           "07:30",
			Enabled:        true,
			RepeatDays:     []time.Weekday{time.Monday, time.Wednesday, time.Friday},
			Tone:           "ocean-waves",
			DismissMethod:  models.DismissMath,
			SnoozeEnabled:  true,
			SnoozeDuration: 10,
			MaxSnoozes:     2,
		},
		{
			ID:            "alarm-2",
			Label:         "",
			Time:          "21:15",
			Enabled:       true,
			Tone:          "classic-bell",
			DismissMethod: models.DismissTap,
		},
	}

	data, err := Export(alarms, exportNow())
	require.NoError(t, err)
	assert.Contains(t, string(data), "BEGIN:VEVENT")
	assert.Contains(t, string(data), "RRULE")

	imported, err := Import(data)
	require.NoError(t, err)
	require.Len(t, imported, 2)

	workday := imported[0]
	assert.Equal(t, "Workday", workday.Label)
	assert.Equal(t, "07:30", workday.Time)
	assert.ElementsMatch(t,
		[]time.Weekday{time.Monday, time.Wednesday, time.Friday}, workday.RepeatDays)
	assert.Equal(t, "ocean-waves", workday.Tone)
	assert.Equal(t, models.DismissMath, workday.DismissMethod)
	assert.True(t, workday.SnoozeEnabled)
	assert.Equal(t, 10, workday.SnoozeDuration)
	assert.Equal(t, 2, workday.MaxSnoozes)
	assert.False(t, workday.Enabled, "imported alarms start disabled")

	oneTime := imported[1]
	assert.Equal(t, "21:15", oneTime.Time)
	assert.Empty(t, oneTime.RepeatDays)
	assert.False(t, oneTime.SnoozeEnabled)
	assert.Equal(t, "Alarm 21:15", oneTime.Label, "unlabeled alarms get a summary")
}

func TestExportSkipsUnschedulableAlarms(t *testing.T) {
	alarms := []models.Alarm{
		{ID: "bad", Time: "99:99", Enabled: true},
		{ID: "good", Label: "Valid", Time: "08:00", Enabled: true, Tone: "classic-bell"},
	}

	data, err := Export(alarms, exportNow())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "BEGIN:VEVENT"))

	imported, err := Import(data)
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, "Valid", imported[0].Label)
}

func TestImportRejectsGarbage(t *testing.T) {
	_, err := Import([]byte("not a calendar"))
	assert.Error(t, err)
}
