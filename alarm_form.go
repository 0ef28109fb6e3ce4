package main

import (
	"strconv"
	"time"

	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/tidewater/clarion/pkg/models"
)

var dismissNames = []string{"Tap to stop", "Math puzzle", "Shake it off"}

var dismissOptions = map[string]models.DismissMethod{
	"Tap to stop":  models.DismissTap,
	"Math puzzle":  models.DismissMath,
	"Shake it off": models.DismissShake,
}

var difficultyNames = []string{"Easy", "Medium", "Hard"}

var difficultyOptions = map[string]models.MathDifficulty{
	"Easy":   models.MathEasy,
	"Medium": models.MathMedium,
	"Hard":   models.MathHard,
}

// showAlarmForm opens the create/edit dialog. A nil alarm creates a new
// one.
func (c *Clarion) showAlarmForm(existing *models.Alarm) {
	labelEntry := widget.NewEntry()
	labelEntry.SetPlaceHolder("Label (optional)")

	timeEntry := widget.NewEntry()
	timeEntry.SetPlaceHolder("07:30")

	dayOrder := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	dayChecks := widget.NewCheckGroup(dayOrder, nil)
	dayChecks.Horizontal = true

	toneNames := []string{}
	toneByName := map[string]string{}
	for _, t := range c.tones.List() {
		toneNames = append(toneNames, t.Name)
		toneByName[t.Name] = t.ID
	}
	toneSelect := widget.NewSelect(toneNames, nil)
	if len(toneNames) > 0 {
		toneSelect.SetSelected(toneNames[0])
	}

	vibrationCheck := widget.NewCheck("Vibration", nil)
	gradualCheck := widget.NewCheck("Gradual volume", nil)

	difficultySelect := widget.NewSelect(difficultyNames, nil)
	difficultySelect.SetSelected("Easy")
	difficultySelect.Hide()

	dismissSelect := widget.NewSelect(dismissNames, func(choice string) {
		if dismissOptions[choice] == models.DismissMath {
			difficultySelect.Show()
		} else {
			difficultySelect.Hide()
		}
	})
	dismissSelect.SetSelected("Tap to stop")

	snoozeDurationEntry := widget.NewEntry()
	snoozeDurationEntry.SetText("5")
	maxSnoozesEntry := widget.NewEntry()
	maxSnoozesEntry.SetText("3")
	snoozeCheck := widget.NewCheck("Snooze", nil)
	snoozeCheck.SetChecked(true)

	if existing != nil {
		labelEntry.SetText(existing.Label)
		timeEntry.SetText(existing.Time)
		selected := []string{}
		for _, d := range existing.RepeatDays {
			selected = append(selected, shortDayNames[d])
		}
		dayChecks.SetSelected(selected)
		for name, id := range toneByName {
			if id == existing.Tone {
				toneSelect.SetSelected(name)
			}
		}
		vibrationCheck.SetChecked(existing.Vibration)
		gradualCheck.SetChecked(existing.GradualVolume)
		for name, method := range dismissOptions {
			if method == existing.DismissMethod {
				dismissSelect.SetSelected(name)
			}
		}
		for name, level := range difficultyOptions {
			if level == existing.MathLevel {
				difficultySelect.SetSelected(name)
			}
		}
		snoozeCheck.SetChecked(existing.SnoozeEnabled)
		snoozeDurationEntry.SetText(strconv.Itoa(existing.SnoozeDuration))
		maxSnoozesEntry.SetText(strconv.Itoa(existing.MaxSnoozes))
	}

	form := widget.NewForm(
		widget.NewFormItem("Time", timeEntry),
		widget.NewFormItem("Label", labelEntry),
		widget.NewFormItem("Repeat", dayChecks),
		widget.NewFormItem("Tone", toneSelect),
		widget.NewFormItem("", container.NewHBox(vibrationCheck, gradualCheck)),
		widget.NewFormItem("Dismiss", container.NewVBox(dismissSelect, difficultySelect)),
		widget.NewFormItem("", snoozeCheck),
		widget.NewFormItem("Snooze minutes", snoozeDurationEntry),
		widget.NewFormItem("Max snoozes", maxSnoozesEntry),
	)

	title := "New Alarm"
	if existing != nil {
		title = "Edit Alarm"
	}

	dialog.ShowCustomConfirm(title, "Save", "Cancel", form, func(save bool) {
		if !save {
			return
		}

		repeatDays := []time.Weekday{}
		for i, name := range dayOrder {
			for _, sel := range dayChecks.Selected {
				if sel == name {
					repeatDays = append(repeatDays, time.Weekday(i))
				}
			}
		}
		snoozeDuration, _ := strconv.Atoi(snoozeDurationEntry.Text)
		maxSnoozes, _ := strconv.Atoi(maxSnoozesEntry.Text)

		draft := models.Alarm{
			Label:          labelEntry.Text,
			Time:           timeEntry.Text,
			Enabled:        true,
			RepeatDays:     repeatDays,
			Tone:           toneByName[toneSelect.Selected],
			Vibration:      vibrationCheck.Checked,
			GradualVolume:  gradualCheck.Checked,
			DismissMethod:  dismissOptions[dismissSelect.Selected],
			MathLevel:      difficultyOptions[difficultySelect.Selected],
			SnoozeEnabled:  snoozeCheck.Checked,
			SnoozeDuration: snoozeDuration,
			MaxSnoozes:     maxSnoozes,
		}

		var err error
		if existing == nil {
			_, err = c.manager.Create(draft)
		} else {
			enabled := existing.Enabled
			upd := models.AlarmUpdate{
				Label:          &draft.Label,
				Time:           &draft.Time,
				Enabled:        &enabled,
				RepeatDays:     &draft.RepeatDays,
				Tone:           &draft.Tone,
				Vibration:      &draft.Vibration,
				GradualVolume:  &draft.GradualVolume,
				DismissMethod:  &draft.DismissMethod,
				MathLevel:      &draft.MathLevel,
				SnoozeEnabled:  &draft.SnoozeEnabled,
				SnoozeDuration: &draft.SnoozeDuration,
				MaxSnoozes:     &draft.MaxSnoozes,
			}
			_, err = c.manager.Update(existing.ID, upd)
		}
		if err != nil {
			dialog.ShowError(err, c.mainWindow)
			return
		}
		c.refresh()
	}, c.mainWindow)
}
