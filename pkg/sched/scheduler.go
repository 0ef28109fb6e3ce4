// Package sched owns alarm timing: computing the next occurrence of each
// alarm, arming one timer per alarm, and running the ringing state machine
// (trigger, snooze, dismiss) with its audio and notification side effects.
package sched

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tidewater/clarion/pkg/models"
)

// Player is the audio output device. Play must fall back to a synthesized
// beep rather than fail loudly; a nil tone requests the fallback directly.
type Player interface {
	Play(wav []byte, gradual bool) error
	Stop()
	IsPlaying() bool
}

// ToneResolver maps a tone id to playable WAV data.
type ToneResolver interface {
	Resolve(id string) ([]byte, error)
}

// Notifier surfaces a ringing alarm in the system notification center.
// Best-effort.
type Notifier interface {
	Notify(title, body string) error
}

// Vibrator requests device vibration. Best-effort; desktops usually no-op.
type Vibrator interface {
	Vibrate(pattern []time.Duration) error
}

// WakeLock keeps the machine awake while an alarm rings. Best-effort.
type WakeLock interface {
	Acquire() error
	Release()
}

// ringPattern mirrors the 1s-on/0.5s-off vibration cadence of the ringing
// overlay.
var ringPattern = []time.Duration{
	time.Second, 500 * time.Millisecond,
	time.Second, 500 * time.Millisecond,
	time.Second,
}

type timerPurpose string

const (
	purposeOccurrence timerPurpose = "occurrence"
	purposeSnooze     timerPurpose = "snooze"
)

// timerKey identifies one pending timer. Keeping the purpose out of the id
// string lets dismiss cancel a snooze timer without touching the alarm's
// next armed occurrence.
type timerKey struct {
	alarmID string
	purpose timerPurpose
}

// RingFunc receives every ring event, in delivery order.
type RingFunc func(*models.AlarmEvent)

// Scheduler arms one timer per enabled alarm and tracks active ringing
// episodes. All exported methods are safe for concurrent use; the mutex
// makes each of them atomic with respect to the others.
type Scheduler struct {
	player   Player
	tones    ToneResolver
	notifier Notifier
	vibrator Vibrator
	wake     WakeLock
	logger   *zap.Logger

	// Injectable for tests.
	now       func() time.Time
	afterFunc func(time.Duration, func()) *time.Timer

	mu       sync.Mutex
	timers   map[timerKey]*time.Timer
	ringing  map[string]*models.AlarmEvent
	subs     []RingFunc
	wakeHeld bool
}

// New wires the scheduler to its side-effect collaborators. notifier,
// vibrator and wake may be nil; those effects are then skipped.
func New(player Player, tones ToneResolver, notifier Notifier, vibrator Vibrator, wake WakeLock, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		player:    player,
		tones:     tones,
		notifier:  notifier,
		vibrator:  vibrator,
		wake:      wake,
		logger:    logger,
		now:       time.Now,
		afterFunc: time.AfterFunc,
		timers:    make(map[timerKey]*time.Timer),
		ringing:   make(map[string]*models.AlarmEvent),
	}
}

// SetTimeSource replaces the wall clock and timer factory. Tests use this
// to drive the scheduler deterministically; call it before any alarm is
// armed.
func (s *Scheduler) SetTimeSource(now func() time.Time, afterFunc func(time.Duration, func()) *time.Timer) {
	s.now = now
	s.afterFunc = afterFunc
}

// Subscribe registers a ring observer. Events are delivered synchronously
// from the trigger path, after the episode is recorded, so a dismiss issued
// from the callback always finds it.
func (s *Scheduler) Subscribe(fn RingFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Arm schedules the alarm's next occurrence, replacing any pending timer
// for the same id. A disabled alarm is disarmed instead. An occurrence that
// is already due fires immediately.
func (s *Scheduler) Arm(a *models.Alarm) {
	if !a.Enabled {
		s.Disarm(a.ID)
		return
	}

	s.mu.Lock()
	s.cancelTimerLocked(timerKey{a.ID, purposeOccurrence})

	next, ok := NextRingTime(a, s.now())
	if !ok {
		s.mu.Unlock()
		s.logger.Warn("alarm has no next occurrence, leaving disarmed",
			zap.String("alarm_id", a.ID))
		return
	}

	delay := next.Sub(s.now())
	if delay <= 0 {
		s.mu.Unlock()
		s.fire(a.Clone(), false)
		return
	}

	alarm := a.Clone()
	s.timers[timerKey{a.ID, purposeOccurrence}] = s.afterFunc(delay, func() {
		s.fire(alarm, false)
	})
	s.mu.Unlock()

	s.logger.Debug("alarm armed",
		zap.String("alarm_id", a.ID),
		zap.Time("next_ring", next))
}

// Disarm cancels the alarm's pending occurrence timer, if any. Idempotent.
func (s *Scheduler) Disarm(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked(timerKey{id, purposeOccurrence})
}

// fire runs the trigger path for a due alarm. fromSnooze re-rings an
// existing episode; a fresh trigger while the episode is still
// ringing-or-snoozed is a no-op, which is the at-most-one-ringing guard.
func (s *Scheduler) fire(alarm *models.Alarm, fromSnooze bool) {
	s.mu.Lock()

	var event *models.AlarmEvent
	if fromSnooze {
		s.cancelTimerLocked(timerKey{alarm.ID, purposeSnooze})
		event = s.ringing[alarm.ID]
		if event == nil {
			// Dismissed while the snooze timer was in flight.
			s.mu.Unlock()
			return
		}
	} else {
		s.cancelTimerLocked(timerKey{alarm.ID, purposeOccurrence})
		if s.ringing[alarm.ID] != nil {
			s.mu.Unlock()
			s.logger.Warn("duplicate trigger suppressed", zap.String("alarm_id", alarm.ID))
			return
		}
		event = &models.AlarmEvent{Alarm: alarm}
		s.ringing[alarm.ID] = event

		// Re-arm repeating alarms before any side effect runs, so a
		// disarm/arm from the UI during the ringing sequence cannot race
		// with it.
		if alarm.Repeats() {
			s.armNextLocked(alarm)
		}
	}

	subs := append([]RingFunc(nil), s.subs...)
	s.mu.Unlock()

	s.acquireWake()
	if alarm.Vibration {
		s.vibrate()
	}
	s.startAudio(alarm)
	s.notify(alarm)

	for _, fn := range subs {
		fn(event)
	}
}

// armNextLocked schedules the following occurrence of a repeating alarm.
// Caller holds s.mu.
func (s *Scheduler) armNextLocked(alarm *models.Alarm) {
	next, ok := NextRingTime(alarm, s.now())
	if !ok {
		return
	}
	delay := next.Sub(s.now())
	if delay <= 0 {
		// NextRingTime for a repeating alarm is strictly ahead of the
		// current minute; anything else means the clock moved under us.
		return
	}
	s.timers[timerKey{alarm.ID, purposeOccurrence}] = s.afterFunc(delay, func() {
		s.fire(alarm, false)
	})
}

// Snooze pauses the ringing episode for the alarm's snooze duration.
// When snoozing is disabled or exhausted the episode is dismissed instead.
// Returns true if the alarm was actually snoozed. No-op for an alarm that
// is not ringing.
func (s *Scheduler) Snooze(id string) bool {
	s.mu.Lock()
	event := s.ringing[id]
	if event == nil {
		s.mu.Unlock()
		return false
	}

	alarm := event.Alarm
	if !alarm.SnoozeEnabled || event.SnoozeCount >= alarm.MaxSnoozes {
		s.mu.Unlock()
		s.logger.Info("snooze unavailable, dismissing",
			zap.String("alarm_id", id),
			zap.Int("snooze_count", event.SnoozeCount))
		s.Dismiss(id)
		return false
	}

	event.SnoozeCount++
	s.cancelTimerLocked(timerKey{id, purposeSnooze})
	s.timers[timerKey{id, purposeSnooze}] = s.afterFunc(
		time.Duration(alarm.SnoozeDuration)*time.Minute,
		func() { s.fire(alarm, true) },
	)
	s.mu.Unlock()

	s.player.Stop()
	s.logger.Info("alarm snoozed",
		zap.String("alarm_id", id),
		zap.Int("snooze_count", event.SnoozeCount),
		zap.Int("snooze_minutes", alarm.SnoozeDuration))
	return true
}

// Dismiss ends the ringing episode: audio stops, the snooze timer is
// cancelled, the episode record is dropped and the wake lock released once
// nothing else rings. The alarm's next armed occurrence is not touched.
// Idempotent.
func (s *Scheduler) Dismiss(id string) {
	s.mu.Lock()
	s.cancelTimerLocked(timerKey{id, purposeSnooze})
	_, wasRinging := s.ringing[id]
	delete(s.ringing, id)
	releaseWake := s.wakeHeld && len(s.ringing) == 0
	if releaseWake {
		s.wakeHeld = false
	}
	s.mu.Unlock()

	s.player.Stop()
	if releaseWake && s.wake != nil {
		s.wake.Release()
	}
	if wasRinging {
		s.logger.Info("alarm dismissed", zap.String("alarm_id", id))
	}
}

// ClearAll cancels every pending timer and silences any active episode.
// Used at application shutdown.
func (s *Scheduler) ClearAll() {
	s.mu.Lock()
	for key, timer := range s.timers {
		timer.Stop()
		delete(s.timers, key)
	}
	for id := range s.ringing {
		delete(s.ringing, id)
	}
	releaseWake := s.wakeHeld
	s.wakeHeld = false
	s.mu.Unlock()

	s.player.Stop()
	if releaseWake && s.wake != nil {
		s.wake.Release()
	}
}

// IsRinging reports whether an episode is active (ringing or snoozed) for
// the id.
func (s *Scheduler) IsRinging(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ringing[id] != nil
}

// RingingEvent returns the active episode for the id, or nil.
func (s *Scheduler) RingingEvent(id string) *models.AlarmEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ringing[id]
}

// PendingTimers returns the number of pending timers for the id, across
// both occurrence and snooze purposes.
func (s *Scheduler) PendingTimers(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.timers {
		if key.alarmID == id {
			n++
		}
	}
	return n
}

func (s *Scheduler) cancelTimerLocked(key timerKey) {
	if timer, ok := s.timers[key]; ok {
		timer.Stop()
		delete(s.timers, key)
	}
}

func (s *Scheduler) acquireWake() {
	if s.wake == nil {
		return
	}
	s.mu.Lock()
	held := s.wakeHeld
	s.wakeHeld = true
	s.mu.Unlock()
	if held {
		return
	}
	if err := s.wake.Acquire(); err != nil {
		s.logger.Warn("wake lock unavailable", zap.Error(err))
	}
}

func (s *Scheduler) vibrate() {
	if s.vibrator == nil {
		return
	}
	if err := s.vibrator.Vibrate(ringPattern); err != nil {
		s.logger.Warn("vibration unavailable", zap.Error(err))
	}
}

func (s *Scheduler) startAudio(alarm *models.Alarm) {
	wav, err := s.tones.Resolve(alarm.Tone)
	if err != nil {
		s.logger.Warn("tone resolution failed, using fallback beep",
			zap.String("tone", alarm.Tone), zap.Error(err))
		wav = nil
	}
	if err := s.player.Play(wav, alarm.GradualVolume); err != nil {
		s.logger.Error("audio playback failed", zap.Error(err))
	}
}

func (s *Scheduler) notify(alarm *models.Alarm) {
	if s.notifier == nil {
		return
	}
	title := alarm.Label
	if title == "" {
		title = "Alarm"
	}
	if err := s.notifier.Notify(title, "Alarm ringing at "+alarm.Time); err != nil {
		s.logger.Warn("notification failed", zap.Error(err))
	}
}
