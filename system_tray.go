package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"go.uber.org/zap"

	"github.com/tidewater/clarion/pkg/challenge"
	"github.com/tidewater/clarion/pkg/models"
	"github.com/tidewater/clarion/pkg/sched"
)

func (c *Clarion) setupSystemTray() {
	c.updateSystemTrayMenu()
}

func (c *Clarion) updateSystemTrayMenu() {
	desk, ok := c.app.(desktop.App)
	if !ok {
		return
	}

	menuItems := []*fyne.MenuItem{}

	upcoming := c.upcomingAlarms(5)
	if len(upcoming) > 0 {
		header := fyne.NewMenuItem("Upcoming:", nil)
		header.Disabled = true
		menuItems = append(menuItems, header)

		for _, u := range upcoming {
			label := u.alarm.Label
			if label == "" {
				label = "Alarm"
			}
			item := fyne.NewMenuItem(fmt.Sprintf("  %s  %s",
				u.at.Format("Mon 15:04"), truncate(label, 30)), nil)
			item.Disabled = true
			menuItems = append(menuItems, item)
		}
		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	quickItem := fyne.NewMenuItem("Quick Alarm", nil)
	quickItem.ChildMenu = c.presetMenu()

	sensitivityItem := fyne.NewMenuItem("Shake Sensitivity", nil)
	sensitivityItem.ChildMenu = c.sensitivityMenu()

	autostartItem := fyne.NewMenuItem("Start at Login", func() {
		enable := !c.app.Preferences().BoolWithFallback(prefAutostart, false)
		c.app.Preferences().SetBool(prefAutostart, enable)
		if err := setupAutostart(enable); err != nil {
			c.logger.Warn("autostart toggle failed", zap.Error(err))
		}
		c.updateSystemTrayMenu()
	})
	autostartItem.Checked = c.app.Preferences().BoolWithFallback(prefAutostart, false)

	menuItems = append(menuItems,
		fyne.NewMenuItem("Show Clarion", func() {
			c.mainWindow.Show()
			c.mainWindow.RequestFocus()
		}),
		fyne.NewMenuItem("New Alarm", func() {
			c.mainWindow.Show()
			c.showAlarmForm(nil)
		}),
		quickItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Calendar...", c.exportCalendar),
		fyne.NewMenuItem("Import Calendar...", c.importCalendar),
		sensitivityItem,
		autostartItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", c.quit),
	)

	desk.SetSystemTrayMenu(fyne.NewMenu("Clarion", menuItems...))
	desk.SetSystemTrayIcon(theme.HistoryIcon())
}

func (c *Clarion) presetMenu() *fyne.Menu {
	items := []*fyne.MenuItem{}
	for _, p := range c.manager.Presets() {
		preset := p
		items = append(items, fyne.NewMenuItem(
			fmt.Sprintf("%s (%d min)", preset.Name, preset.DurationMinutes),
			func() {
				if _, err := c.manager.CreateFromPreset(preset.ID); err != nil {
					c.logger.Warn("quick alarm failed", zap.Error(err))
					return
				}
				c.refresh()
			}))
	}
	return fyne.NewMenu("Quick Alarm", items...)
}

const prefShakeSensitivity = "shakeSensitivity"

var sensitivityLevels = []struct {
	name  string
	value int
}{
	{"Gentle", 40},
	{"Normal", challenge.DefaultSensitivity},
	{"Vigorous", 90},
}

func (c *Clarion) sensitivityMenu() *fyne.Menu {
	current := c.app.Preferences().IntWithFallback(
		prefShakeSensitivity, challenge.DefaultSensitivity)
	items := []*fyne.MenuItem{}
	for _, level := range sensitivityLevels {
		value := level.value
		item := fyne.NewMenuItem(level.name, func() {
			c.app.Preferences().SetInt(prefShakeSensitivity, value)
			c.updateSystemTrayMenu()
		})
		item.Checked = value == current
		items = append(items, item)
	}
	return fyne.NewMenu("Shake Sensitivity", items...)
}

type upcomingAlarm struct {
	alarm models.Alarm
	at    time.Time
}

// upcomingAlarms returns the next ring times across all enabled alarms,
// soonest first.
func (c *Clarion) upcomingAlarms(limit int) []upcomingAlarm {
	now := time.Now()
	out := []upcomingAlarm{}
	for _, a := range c.manager.Alarms() {
		if !a.Enabled {
			continue
		}
		alarm := a
		if next, ok := sched.NextRingTime(&alarm, now); ok {
			out = append(out, upcomingAlarm{alarm: alarm, at: next})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].at.Before(out[j].at) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (c *Clarion) exportCalendar() {
	data, err := c.manager.ExportCalendar()
	if err != nil {
		dialog.ShowError(err, c.mainWindow)
		return
	}
	c.mainWindow.Show()
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if _, err := writer.Write(data); err != nil {
			dialog.ShowError(err, c.mainWindow)
		}
	}, c.mainWindow)
}

func (c *Clarion) importCalendar() {
	c.mainWindow.Show()
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(err, c.mainWindow)
			return
		}

		count, err := c.manager.ImportCalendar(data)
		if err != nil {
			dialog.ShowError(err, c.mainWindow)
			return
		}
		c.refresh()
		dialog.ShowInformation("Import complete",
			fmt.Sprintf("Imported %d alarms. They start disabled.", count),
			c.mainWindow)
	}, c.mainWindow)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
