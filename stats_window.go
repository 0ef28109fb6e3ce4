package main

import (
	"fmt"

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// showStatsWindow displays the aggregate usage record.
func (c *Clarion) showStatsWindow() {
	stats := c.manager.Stats()

	mostUsed := stats.MostUsedTone
	if mostUsed == "" {
		mostUsed = "n/a"
	}

	form := widget.NewForm(
		widget.NewFormItem("Alarms created",
			widget.NewLabel(fmt.Sprintf("%d", stats.TotalAlarmsCreated))),
		widget.NewFormItem("Alarms triggered",
			widget.NewLabel(fmt.Sprintf("%d", stats.TotalAlarmsTriggered))),
		widget.NewFormItem("Total snoozes",
			widget.NewLabel(fmt.Sprintf("%d", stats.TotalSnoozes))),
		widget.NewFormItem("Avg snoozes per alarm",
			widget.NewLabel(fmt.Sprintf("%.1f", stats.AverageSnoozeCount))),
		widget.NewFormItem("Favorite tone",
			widget.NewLabel(mostUsed)),
		widget.NewFormItem("Wake streak",
			widget.NewLabel(fmt.Sprintf("%d days (best %d)",
				stats.CurrentWakeStreak, stats.LongestWakeStreak))),
	)

	dialog.ShowCustom("Statistics", "Close", form, c.mainWindow)
}
