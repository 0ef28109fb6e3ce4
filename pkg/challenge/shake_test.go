package challenge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2025, 6, 14, 7, 0, 0, 0, time.UTC)

func TestShakeCompletesAfterFivePulses(t *testing.T) {
	completed := false
	d := NewShakeDetector(DefaultSensitivity, func() { completed = true })

	// First sample only establishes the baseline.
	d.Feed(Sample{X: 0, Y: 9.8, Z: 0, At: t0})
	for i := 1; i <= RequiredPulses; i++ {
		// Alternate hard in opposite directions, well above threshold.
		x := 20.0
		if i%2 == 0 {
			x = -20.0
		}
		d.Feed(Sample{X: x, Y: 9.8, Z: 0, At: t0.Add(time.Duration(i) * 200 * time.Millisecond)})
	}

	assert.True(t, completed)
	assert.True(t, d.Completed())
}

func TestGentleMotionDoesNotCount(t *testing.T) {
	d := NewShakeDetector(DefaultSensitivity, nil)
	d.Feed(Sample{X: 0, Y: 9.8, Z: 0, At: t0})
	for i := 1; i < 50; i++ {
		// Small wobble below the scaled threshold.
		d.Feed(Sample{X: float64(i%2) * 2, Y: 9.8, Z: 0, At: t0.Add(time.Duration(i) * 100 * time.Millisecond)})
	}
	assert.False(t, d.Completed())
	assert.Zero(t, d.Count())
}

func TestPulsesExpireOutsideWindow(t *testing.T) {
	d := NewShakeDetector(DefaultSensitivity, nil)

	// Four pulses, then a long pause, then one more: the stale pulses have
	// rolled out of the window so the gesture is not complete.
	for i := 0; i < RequiredPulses-1; i++ {
		d.Pulse(t0.Add(time.Duration(i) * 100 * time.Millisecond))
	}
	d.Pulse(t0.Add(DefaultWindow + 10*time.Second))

	assert.False(t, d.Completed())
	assert.Equal(t, 1, d.Count())
}

func TestKeyboardFallbackPulses(t *testing.T) {
	completed := false
	d := NewShakeDetector(DefaultSensitivity, func() { completed = true })
	for i := 0; i < RequiredPulses; i++ {
		d.Pulse(t0.Add(time.Duration(i) * 150 * time.Millisecond))
	}
	assert.True(t, completed)
}

func TestResetAllowsNewAttempt(t *testing.T) {
	d := NewShakeDetector(DefaultSensitivity, nil)
	for i := 0; i < RequiredPulses; i++ {
		d.Pulse(t0.Add(time.Duration(i) * 100 * time.Millisecond))
	}
	assert.True(t, d.Completed())

	d.Reset()
	assert.False(t, d.Completed())
	assert.Zero(t, d.Count())
}

func TestZeroSensitivityCountsEverything(t *testing.T) {
	// Sensitivity 0 scales the threshold to zero: any movement is a pulse.
	d := NewShakeDetector(0, nil)
	d.Feed(Sample{X: 0, Y: 9.8, Z: 0, At: t0})
	d.Feed(Sample{X: 0.5, Y: 9.8, Z: 0, At: t0.Add(100 * time.Millisecond)})
	assert.Equal(t, 1, d.Count())
}
