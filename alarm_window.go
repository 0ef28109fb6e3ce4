package main

import (
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/tidewater/clarion/pkg/models"
	"github.com/tidewater/clarion/pkg/sched"
)

func (c *Clarion) setupMainWindow() {
	w := c.app.NewWindow("Clarion")
	c.mainWindow = w

	c.alarmList = NewAlarmList(c)

	newButton := widget.NewButtonWithIcon("New Alarm", theme.ContentAddIcon(), func() {
		c.showAlarmForm(nil)
	})
	newButton.Importance = widget.HighImportance
	statsButton := widget.NewButtonWithIcon("Stats", theme.InfoIcon(), func() {
		c.showStatsWindow()
	})
	toolbar := container.NewHBox(newButton, statsButton)

	w.SetContent(container.NewBorder(
		container.NewPadded(toolbar), nil, nil, nil,
		container.NewVScroll(c.alarmList.box),
	))
	w.Resize(fyne.NewSize(560, 480))

	// Closing the window keeps the app alive in the tray; alarms still
	// ring.
	w.SetCloseIntercept(func() {
		w.Hide()
	})
	w.Show()
}

// AlarmList renders the alarm list as rebuilt rows. The list is small
// enough that a full rebuild on every change beats widget.List's
// cell-recycling bookkeeping.
type AlarmList struct {
	c   *Clarion
	box *fyne.Container
}

func NewAlarmList(c *Clarion) *AlarmList {
	l := &AlarmList{c: c, box: container.NewVBox()}
	l.Refresh()
	return l
}

func (l *AlarmList) Refresh() {
	l.box.Objects = nil

	alarms := l.c.manager.Alarms()
	if len(alarms) == 0 {
		empty := widget.NewLabel("No alarms yet. Create one to get started.")
		empty.Alignment = fyne.TextAlignCenter
		l.box.Add(empty)
		l.box.Refresh()
		return
	}

	for _, a := range alarms {
		l.box.Add(l.row(a))
		l.box.Add(widget.NewSeparator())
	}
	l.box.Refresh()
}

func (l *AlarmList) row(a models.Alarm) fyne.CanvasObject {
	id := a.ID

	toggle := widget.NewCheck("", func(bool) {
		if _, err := l.c.manager.Toggle(id); err != nil {
			l.c.logger.Warn("toggle failed")
		}
		l.c.refresh()
	})
	toggle.SetChecked(a.Enabled)

	timeLabel := widget.NewLabelWithStyle(a.Time, fyne.TextAlignLeading,
		fyne.TextStyle{Bold: true})

	detail := widget.NewLabel(alarmDetailText(&a))

	edit := widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
		alarm := a
		l.c.showAlarmForm(&alarm)
	})
	del := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		dialog.ShowConfirm("Delete alarm",
			fmt.Sprintf("Delete the %s alarm?", a.Time),
			func(confirmed bool) {
				if !confirmed {
					return
				}
				if err := l.c.manager.Delete(id); err != nil {
					dialog.ShowError(err, l.c.mainWindow)
					return
				}
				l.c.refresh()
			}, l.c.mainWindow)
	})

	return container.NewBorder(nil, nil,
		container.NewHBox(toggle, timeLabel),
		container.NewHBox(edit, del),
		detail)
}

// alarmDetailText summarizes one alarm row: label, repeat pattern and the
// next ring when enabled.
func alarmDetailText(a *models.Alarm) string {
	parts := []string{}
	if a.Label != "" {
		parts = append(parts, a.Label)
	}
	parts = append(parts, repeatSummary(a))
	if a.Enabled {
		if next, ok := sched.NextRingTime(a, time.Now()); ok {
			parts = append(parts, "next "+next.Format("Mon 15:04"))
		}
	}
	return strings.Join(parts, "  |  ")
}

var shortDayNames = map[time.Weekday]string{
	time.Sunday:    "Sun",
	time.Monday:    "Mon",
	time.Tuesday:   "Tue",
	time.Wednesday: "Wed",
	time.Thursday:  "Thu",
	time.Friday:    "Fri",
	time.Saturday:  "Sat",
}

func repeatSummary(a *models.Alarm) string {
	if !a.Repeats() {
		return "Once"
	}
	if len(a.RepeatDays) == 7 {
		return "Every day"
	}
	names := make([]string, 0, len(a.RepeatDays))
	for day := time.Sunday; day <= time.Saturday; day++ {
		if a.RepeatsOn(day) {
			names = append(names, shortDayNames[day])
		}
	}
	return strings.Join(names, " ")
}
