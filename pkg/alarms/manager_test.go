package alarms

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tidewater/clarion/pkg/models"
	"github.com/tidewater/clarion/pkg/sched"
	"github.com/tidewater/clarion/pkg/store"
)

type fakePlayer struct {
	mu      sync.Mutex
	playing bool
	plays   int
}

func (p *fakePlayer) Play(wav []byte, gradual bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = true
	p.plays++
	return nil
}

func (p *fakePlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

func (p *fakePlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

type fakeResolver struct{}

func (fakeResolver) Resolve(id string) ([]byte, error) {
	return []byte(id), nil
}

type pendingTimer struct {
	delay time.Duration
	fn    func()
}

// harness drives a Manager over an in-memory store with a captured clock
// and captured timers, so tests ring alarms synchronously.
type harness struct {
	t       *testing.T
	kv      *store.MemKV
	mgr     *Manager
	sc      *sched.Scheduler
	player  *fakePlayer
	clock   time.Time
	pending []*pendingTimer
}

func newHarness(t *testing.T) *harness {
	h := &harness{
		t:  t,
		kv: store.NewMemKV(),
		// A Saturday morning.
		clock: time.Date(2025, 6, 14, 6, 0, 0, 0, time.Local),
	}
	h.rebuild()
	return h
}

// rebuild swaps in a fresh Manager and Scheduler over the same KV, as if
// the application restarted.
func (h *harness) rebuild() {
	logger := zap.NewNop()
	h.player = &fakePlayer{}
	h.pending = nil
	h.sc = sched.New(h.player, fakeResolver{}, nil, nil, nil, logger)
	h.sc.SetTimeSource(
		func() time.Time { return h.clock },
		func(d time.Duration, fn func()) *time.Timer {
			h.pending = append(h.pending, &pendingTimer{delay: d, fn: fn})
			return time.NewTimer(24 * time.Hour)
		},
	)
	h.mgr = New(h.store(), h.sc, logger)
	h.mgr.now = func() time.Time { return h.clock }
}

func (h *harness) store() *store.Store {
	return store.New(h.kv, zap.NewNop())
}

// fireLast advances the clock to the most recently scheduled timer and runs
// it.
func (h *harness) fireLast() {
	require.NotEmpty(h.t, h.pending)
	p := h.pending[len(h.pending)-1]
	h.clock = h.clock.Add(p.delay)
	p.fn()
}

func validAlarm() models.Alarm {
	return models.Alarm{
		Label:          "Wake up",
		Time:           "07:00",
		Enabled:        true,
		Tone:           "classic-bell",
		DismissMethod:  models.DismissTap,
		SnoozeEnabled:  true,
		SnoozeDuration: 5,
		MaxSnoozes:     3,
	}
}

func TestCreatePersistsAndArms(t *testing.T) {
	h := newHarness(t)

	created, err := h.mgr.Create(validAlarm())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, h.clock, created.CreatedAt)
	assert.Equal(t, 1, h.sc.PendingTimers(created.ID))

	// A restart sees the alarm and arms it again.
	h.rebuild()
	h.mgr.Load()
	alarms := h.mgr.Alarms()
	require.Len(t, alarms, 1)
	assert.Equal(t, created.ID, alarms[0].ID)
	assert.Equal(t, 1, h.sc.PendingTimers(created.ID))
}

func TestCreateRejectsInvalidAlarm(t *testing.T) {
	h := newHarness(t)

	bad := validAlarm()
	bad.Time = "25:00"
	_, err := h.mgr.Create(bad)
	require.ErrorIs(t, err, models.ErrInvalidAlarm)
	assert.Empty(t, h.mgr.Alarms())
}

func TestLoadSeedsDefaultPresetsOnce(t *testing.T) {
	h := newHarness(t)
	h.mgr.Load()
	require.Len(t, h.mgr.Presets(), 5)

	// The seed is persisted, not regenerated.
	h.rebuild()
	h.mgr.Load()
	assert.Len(t, h.mgr.Presets(), 5)
}

func TestRestartKeepsSchedule(t *testing.T) {
	h := newHarness(t)

	a := validAlarm()
	a.RepeatDays = []time.Weekday{time.Monday, time.Friday}
	created, err := h.mgr.Create(a)
	require.NoError(t, err)
	require.Len(t, h.pending, 1)
	firstDelay := h.pending[0].delay

	h.rebuild()
	h.mgr.Load()
	require.Len(t, h.pending, 1)
	assert.Equal(t, firstDelay, h.pending[0].delay,
		"re-armed occurrence must match the original schedule")
	assert.Equal(t, 1, h.sc.PendingTimers(created.ID))
}

func TestToggleDisarmsAndRearms(t *testing.T) {
	h := newHarness(t)
	created, err := h.mgr.Create(validAlarm())
	require.NoError(t, err)

	enabled, err := h.mgr.Toggle(created.ID)
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Equal(t, 0, h.sc.PendingTimers(created.ID))

	enabled, err = h.mgr.Toggle(created.ID)
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, 1, h.sc.PendingTimers(created.ID))
}

func TestUpdateRearmsWithNewTime(t *testing.T) {
	h := newHarness(t)
	created, err := h.mgr.Create(validAlarm())
	require.NoError(t, err)

	newTime := "08:30"
	updated, err := h.mgr.Update(created.ID, models.AlarmUpdate{Time: &newTime})
	require.NoError(t, err)
	assert.Equal(t, "08:30", updated.Time)

	// 06:00 now, 08:30 next ring.
	assert.Equal(t, 150*time.Minute, h.pending[len(h.pending)-1].delay)
}

func TestUpdateUnknownID(t *testing.T) {
	h := newHarness(t)
	label := "x"
	_, err := h.mgr.Update("ghost", models.AlarmUpdate{Label: &label})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesAndDisarms(t *testing.T) {
	h := newHarness(t)
	created, err := h.mgr.Create(validAlarm())
	require.NoError(t, err)

	require.NoError(t, h.mgr.Delete(created.ID))
	assert.Empty(t, h.mgr.Alarms())
	assert.Equal(t, 0, h.sc.PendingTimers(created.ID))

	assert.ErrorIs(t, h.mgr.Delete(created.ID), ErrNotFound)
}

func TestDeleteRingingAlarmDismissesFirst(t *testing.T) {
	h := newHarness(t)
	created, err := h.mgr.Create(validAlarm())
	require.NoError(t, err)

	h.fireLast()
	require.True(t, h.sc.IsRinging(created.ID))

	require.NoError(t, h.mgr.Delete(created.ID))
	assert.False(t, h.sc.IsRinging(created.ID))
	assert.False(t, h.player.IsPlaying())
}

func TestCreateFromPreset(t *testing.T) {
	h := newHarness(t)
	h.mgr.Load()

	created, err := h.mgr.CreateFromPreset("power-nap")
	require.NoError(t, err)
	assert.Equal(t, "Power Nap", created.Label)
	assert.Equal(t, "06:20", created.Time, "20 minutes from 06:00")
	assert.Empty(t, created.RepeatDays)
	assert.True(t, created.Enabled)
	assert.Equal(t, "gentle-chimes", created.Tone)

	_, err = h.mgr.CreateFromPreset("nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRingRetiresOneTimeAlarm(t *testing.T) {
	h := newHarness(t)

	var rung []*models.AlarmEvent
	h.mgr.OnRing(func(e *models.AlarmEvent) { rung = append(rung, e) })

	created, err := h.mgr.Create(validAlarm())
	require.NoError(t, err)

	h.fireLast()
	require.Len(t, rung, 1)
	assert.Equal(t, created.ID, rung[0].Alarm.ID)

	stored, err := h.mgr.Alarm(created.ID)
	require.NoError(t, err)
	assert.False(t, stored.Enabled, "one-time alarm turns off after firing")
	assert.Equal(t, 1, stored.TimesTriggered)
	assert.Equal(t, 1, h.mgr.Stats().TotalAlarmsTriggered)
}

func TestRepeatingAlarmStaysEnabledAfterRing(t *testing.T) {
	h := newHarness(t)

	a := validAlarm()
	a.RepeatDays = []time.Weekday{time.Saturday, time.Sunday}
	created, err := h.mgr.Create(a)
	require.NoError(t, err)

	h.fireLast()
	stored, err := h.mgr.Alarm(created.ID)
	require.NoError(t, err)
	assert.True(t, stored.Enabled)
	assert.Equal(t, 1, h.sc.PendingTimers(created.ID),
		"next occurrence armed while still ringing")
}

func TestSnoozeAndDismissBookkeeping(t *testing.T) {
	h := newHarness(t)
	created, err := h.mgr.Create(validAlarm())
	require.NoError(t, err)

	h.fireLast()
	require.True(t, h.mgr.Snooze(created.ID))

	stored, _ := h.mgr.Alarm(created.ID)
	assert.Equal(t, 1, stored.SnoozeCount)
	assert.Equal(t, 1, stored.TotalSnoozes)
	assert.Equal(t, 1, h.mgr.Stats().TotalSnoozes)

	// Snooze expires and the alarm re-rings with its count intact.
	h.fireLast()
	require.True(t, h.sc.IsRinging(created.ID))

	h.mgr.Dismiss(created.ID)
	assert.False(t, h.sc.IsRinging(created.ID))
	stored, _ = h.mgr.Alarm(created.ID)
	assert.Zero(t, stored.SnoozeCount, "per-episode counter resets")
	assert.Equal(t, 1, stored.TotalSnoozes, "lifetime counter survives")

	stats := h.mgr.Stats()
	assert.Equal(t, 1, stats.CurrentWakeStreak)
	assert.NotEmpty(t, stats.LastWakeDay)
}

func TestSnoozeExhaustionCountsAsDismissal(t *testing.T) {
	h := newHarness(t)
	a := validAlarm()
	a.MaxSnoozes = 0
	created, err := h.mgr.Create(a)
	require.NoError(t, err)

	h.fireLast()
	assert.False(t, h.mgr.Snooze(created.ID))
	assert.False(t, h.sc.IsRinging(created.ID))
	assert.Zero(t, h.mgr.Stats().TotalSnoozes)
	assert.Equal(t, 1, h.mgr.Stats().CurrentWakeStreak)
}

func TestDismissWhileNotRingingIsNoOp(t *testing.T) {
	h := newHarness(t)
	created, err := h.mgr.Create(validAlarm())
	require.NoError(t, err)

	h.mgr.Dismiss(created.ID)
	assert.Zero(t, h.mgr.Stats().CurrentWakeStreak)
}

func TestCalendarRoundTripThroughManager(t *testing.T) {
	h := newHarness(t)
	a := validAlarm()
	a.RepeatDays = []time.Weekday{time.Monday}
	_, err := h.mgr.Create(a)
	require.NoError(t, err)

	data, err := h.mgr.ExportCalendar()
	require.NoError(t, err)

	// Import into a clean instance.
	fresh := newHarness(t)
	created, err := fresh.mgr.ImportCalendar(data)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	imported := fresh.mgr.Alarms()
	require.Len(t, imported, 1)
	assert.Equal(t, "07:00", imported[0].Time)
	assert.Equal(t, []time.Weekday{time.Monday}, imported[0].RepeatDays)
	assert.False(t, imported[0].Enabled)
}
