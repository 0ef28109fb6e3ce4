package main

import (
	"time"

	"fyne.io/fyne/v2"
	"go.uber.org/zap"
)

// fyneNotifier posts ring notifications through the system notification
// center.
type fyneNotifier struct {
	app fyne.App
}

func (n *fyneNotifier) Notify(title, body string) error {
	n.app.SendNotification(fyne.NewNotification(title, body))
	return nil
}

// logVibrator stands in for a vibration motor on desktop hardware. The
// requested pattern is logged so the ring path stays observable.
type logVibrator struct {
	logger *zap.Logger
}

func (v *logVibrator) Vibrate(pattern []time.Duration) error {
	v.logger.Debug("vibration requested, no motor on this device",
		zap.Durations("pattern", pattern))
	return nil
}
