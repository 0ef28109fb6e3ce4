package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"golang.design/x/hotkey"

	"github.com/tidewater/clarion/pkg/alarms"
	"github.com/tidewater/clarion/pkg/challenge"
	"github.com/tidewater/clarion/pkg/models"
)

const dismissHoldTime = 2 * time.Second

// RingingWindow is the fullscreen takeover while an alarm rings. The only
// ways out are the alarm's dismiss gate or the snooze button; the quit
// shortcut is swallowed while it is open.
type RingingWindow struct {
	app      fyne.App
	manager  *alarms.Manager
	event    *models.AlarmEvent
	window   fyne.Window
	onClosed func()

	generator *challenge.MathGenerator
	puzzle    challenge.Puzzle
	detector  *challenge.ShakeDetector

	resolved   bool
	quitHotkey *hotkey.Hotkey
}

func NewRingingWindow(app fyne.App, manager *alarms.Manager, event *models.AlarmEvent, onClosed func()) *RingingWindow {
	rw := &RingingWindow{
		app:      app,
		manager:  manager,
		event:    event,
		onClosed: onClosed,
	}

	rw.window = app.NewWindow("Alarm")
	rw.window.SetFullScreen(true)
	rw.window.SetContent(rw.buildUI())
	rw.registerQuitBlock()

	rw.window.SetOnClosed(func() {
		rw.unregisterQuitBlock()
		if !rw.resolved {
			// Closed through some other path; treat it as a dismissal so
			// the audio never plays to an empty room.
			rw.manager.Dismiss(rw.event.Alarm.ID)
		}
		if rw.onClosed != nil {
			rw.onClosed()
		}
	})
	return rw
}

func (rw *RingingWindow) Show() {
	rw.window.Show()
	rw.window.RequestFocus()
}

func (rw *RingingWindow) Raise() {
	rw.window.Show()
	rw.window.RequestFocus()
}

func (rw *RingingWindow) buildUI() fyne.CanvasObject {
	alarm := rw.event.Alarm

	clock := canvas.NewText(alarm.Time, nil)
	clock.TextSize = 64
	clock.Alignment = fyne.TextAlignCenter

	title := alarm.Label
	if title == "" {
		title = "Wake up!"
	}
	titleLabel := widget.NewLabelWithStyle(title, fyne.TextAlignCenter,
		fyne.TextStyle{Bold: true})

	content := container.NewVBox(
		container.NewPadded(clock),
		titleLabel,
		widget.NewSeparator(),
	)

	switch alarm.DismissMethod {
	case models.DismissMath:
		content.Add(rw.mathGate(alarm.MathLevel))
	case models.DismissShake:
		content.Add(rw.shakeGate())
	default:
		content.Add(rw.tapGate())
	}

	if snooze := rw.snoozeButton(); snooze != nil {
		content.Add(widget.NewSeparator())
		content.Add(container.NewCenter(snooze))
	}

	return container.NewCenter(content)
}

func (rw *RingingWindow) tapGate() fyne.CanvasObject {
	button := NewHoldButton(
		fmt.Sprintf("Dismiss (hold %ds)", int(dismissHoldTime.Seconds())),
		dismissHoldTime,
		rw.dismiss,
	)
	return container.NewCenter(button)
}

// mathGate demands a correct answer before the alarm dies. A wrong answer
// swaps in a fresh puzzle rather than letting the user brute-force the
// same one.
func (rw *RingingWindow) mathGate(level models.MathDifficulty) fyne.CanvasObject {
	rw.generator = challenge.NewMathGenerator(time.Now().UnixNano())
	rw.puzzle = rw.generator.Generate(level)

	question := widget.NewLabelWithStyle(rw.puzzle.Question,
		fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	feedback := widget.NewLabel("")
	feedback.Alignment = fyne.TextAlignCenter

	answer := widget.NewEntry()
	answer.SetPlaceHolder("Answer")

	check := func(string) {
		value, err := strconv.Atoi(strings.TrimSpace(answer.Text))
		if err == nil && rw.puzzle.Check(value) {
			rw.dismiss()
			return
		}
		rw.puzzle = rw.generator.Generate(level)
		question.SetText(rw.puzzle.Question)
		feedback.SetText("Not quite. Here is another one.")
		answer.SetText("")
	}
	answer.OnSubmitted = check

	submit := widget.NewButton("Solve", func() { check(answer.Text) })
	submit.Importance = widget.HighImportance

	return container.NewVBox(
		widget.NewLabel("Solve to dismiss:"),
		question,
		answer,
		container.NewCenter(submit),
		feedback,
	)
}

// shakeGate maps the shake gesture onto hardware every desktop has: rapid
// space presses stand in for accelerometer pulses.
func (rw *RingingWindow) shakeGate() fyne.CanvasObject {
	counter := widget.NewLabelWithStyle(
		fmt.Sprintf("0 / %d", challenge.RequiredPulses),
		fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	sensitivity := rw.app.Preferences().IntWithFallback(
		prefShakeSensitivity, challenge.DefaultSensitivity)
	rw.detector = challenge.NewShakeDetector(sensitivity, func() {
		rw.dismiss()
	})

	rw.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name != fyne.KeySpace {
			return
		}
		rw.detector.Pulse(time.Now())
		counter.SetText(fmt.Sprintf("%d / %d",
			rw.detector.Count(), challenge.RequiredPulses))
	})

	return container.NewVBox(
		widget.NewLabel("Hammer the space bar to shake the alarm off!"),
		counter,
	)
}

// snoozeButton returns nil when the alarm cannot snooze any further.
func (rw *RingingWindow) snoozeButton() fyne.CanvasObject {
	alarm := rw.event.Alarm
	if !alarm.SnoozeEnabled || rw.event.SnoozeCount >= alarm.MaxSnoozes {
		return nil
	}

	label := fmt.Sprintf("Snooze %d min", alarm.SnoozeDuration)
	if alarm.MaxSnoozes > 0 {
		label = fmt.Sprintf("%s (%d of %d used)",
			label, rw.event.SnoozeCount, alarm.MaxSnoozes)
	}
	return widget.NewButton(label, func() {
		rw.manager.Snooze(rw.event.Alarm.ID)
		rw.resolved = true
		rw.window.Close()
	})
}

func (rw *RingingWindow) dismiss() {
	if rw.resolved {
		return
	}
	rw.resolved = true
	rw.manager.Dismiss(rw.event.Alarm.ID)
	rw.window.Close()
}

// registerQuitBlock swallows the system quit shortcut while the window is
// open, so muscle memory cannot kill the alarm.
func (rw *RingingWindow) registerQuitBlock() {
	go func() {
		hk := hotkey.New(quitModifiers(), hotkey.KeyQ)
		if err := hk.Register(); err != nil {
			return
		}
		rw.quitHotkey = hk
		for range hk.Keydown() {
			// Consumed; the alarm stays up.
		}
	}()
}

func (rw *RingingWindow) unregisterQuitBlock() {
	if rw.quitHotkey != nil {
		rw.quitHotkey.Unregister()
		rw.quitHotkey = nil
	}
}
