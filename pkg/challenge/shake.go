package challenge

import (
	"math"
	"time"
)

// Default shake tuning, matching a handheld "wake me up" gesture.
const (
	DefaultSensitivity = 70
	DefaultThreshold   = 15.0
	DefaultWindow      = 3 * time.Second

	// RequiredPulses qualifying movements inside the window complete the
	// gesture.
	RequiredPulses = 5
)

// Sample is one acceleration reading from the motion sensor, in m/s^2 per
// axis.
type Sample struct {
	X, Y, Z float64
	At      time.Time
}

// ShakeDetector accumulates shake pulses from acceleration samples. A pulse
// is counted when the frame-to-frame change in acceleration exceeds the
// sensitivity-scaled threshold; RequiredPulses pulses within a rolling
// window complete the gesture. Desktop builds without a motion sensor feed
// Pulse directly from rapid key presses.
type ShakeDetector struct {
	sensitivity int // 0-100
	threshold   float64
	window      time.Duration

	last    *Sample
	pulses  []time.Time
	done    bool
	onShake func()
}

// NewShakeDetector creates a detector; onShake fires once when the gesture
// completes. Sensitivity outside 0-100 is clamped.
func NewShakeDetector(sensitivity int, onShake func()) *ShakeDetector {
	if sensitivity < 0 {
		sensitivity = 0
	}
	if sensitivity > 100 {
		sensitivity = 100
	}
	return &ShakeDetector{
		sensitivity: sensitivity,
		threshold:   DefaultThreshold,
		window:      DefaultWindow,
		onShake:     onShake,
	}
}

// Feed consumes one motion sample.
func (d *ShakeDetector) Feed(sample Sample) {
	if d.done {
		return
	}
	if d.last == nil {
		d.last = &sample
		return
	}

	delta := math.Abs(sample.X-d.last.X) +
		math.Abs(sample.Y-d.last.Y) +
		math.Abs(sample.Z-d.last.Z)
	d.last = &sample

	scaled := d.threshold * float64(d.sensitivity) / 100
	if delta > scaled {
		d.pulse(sample.At)
	}
}

// Pulse records one qualifying movement directly; the keyboard fallback
// path for machines without a motion sensor.
func (d *ShakeDetector) Pulse(at time.Time) {
	if d.done {
		return
	}
	d.pulse(at)
}

func (d *ShakeDetector) pulse(at time.Time) {
	cutoff := at.Add(-d.window)
	kept := d.pulses[:0]
	for _, p := range d.pulses {
		if p.After(cutoff) {
			kept = append(kept, p)
		}
	}
	d.pulses = append(kept, at)

	if len(d.pulses) >= RequiredPulses {
		d.done = true
		if d.onShake != nil {
			d.onShake()
		}
	}
}

// Count returns the number of pulses currently inside the window.
func (d *ShakeDetector) Count() int {
	return len(d.pulses)
}

// Completed reports whether the gesture finished.
func (d *ShakeDetector) Completed() bool {
	return d.done
}

// Reset rewinds the detector for a new attempt.
func (d *ShakeDetector) Reset() {
	d.last = nil
	d.pulses = nil
	d.done = false
}
