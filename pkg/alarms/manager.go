// Package alarms is the application facade: it owns the in-memory alarm
// list, keeps the store and the scheduler in agreement, and is the only
// layer the UI talks to. Every mutation persists before it arms, so a crash
// between the two leaves a stored alarm that the next start re-arms.
package alarms

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tidewater/clarion/pkg/ical"
	"github.com/tidewater/clarion/pkg/models"
	"github.com/tidewater/clarion/pkg/sched"
	"github.com/tidewater/clarion/pkg/store"
)

// ErrNotFound is returned for an id no alarm or preset carries.
var ErrNotFound = fmt.Errorf("not found")

// Quick alarms created from a preset keep the standard snooze behavior.
const (
	quickSnoozeMinutes = 5
	quickMaxSnoozes    = 3
)

// Manager coordinates the store, the scheduler and the UI.
type Manager struct {
	store  *store.Store
	sched  *sched.Scheduler
	logger *zap.Logger

	// Injectable for tests.
	now   func() time.Time
	newID func() string

	mu      sync.Mutex
	alarms  []models.Alarm
	presets []models.Preset
	subs    []sched.RingFunc
}

// New builds the facade and registers its ring handler with the scheduler.
// Call Load before anything else.
func New(st *store.Store, sc *sched.Scheduler, logger *zap.Logger) *Manager {
	m := &Manager{
		store:  st,
		sched:  sc,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	sc.Subscribe(m.handleRing)
	return m
}

// Load reads the persisted state, seeds the default presets on first run and
// arms every enabled alarm.
func (m *Manager) Load() {
	m.mu.Lock()
	m.alarms = m.store.LoadAlarms()
	m.presets = m.store.LoadPresets()
	if len(m.presets) == 0 {
		m.presets = models.DefaultPresets()
		if err := m.store.SavePresets(m.presets); err != nil {
			m.logger.Warn("failed to seed presets", zap.Error(err))
		}
	}
	var toArm []*models.Alarm
	for i := range m.alarms {
		if m.alarms[i].Enabled {
			toArm = append(toArm, m.alarms[i].Clone())
		}
	}
	total := len(m.alarms)
	m.mu.Unlock()

	for _, a := range toArm {
		m.sched.Arm(a)
	}
	m.logger.Info("alarms loaded",
		zap.Int("total", total), zap.Int("armed", len(toArm)))
}

// Create validates and stores a new alarm, then arms it. The id and creation
// time are assigned here; whatever the caller put in those fields is
// ignored.
func (m *Manager) Create(a models.Alarm) (models.Alarm, error) {
	a.ID = m.newID()
	a.CreatedAt = m.now()
	a.SnoozeCount = 0
	a.TimesTriggered = 0
	a.TotalSnoozes = 0
	if err := a.Validate(); err != nil {
		return models.Alarm{}, err
	}

	m.mu.Lock()
	m.alarms = append(m.alarms, a)
	err := m.persistLocked()
	m.mu.Unlock()
	if err != nil {
		return models.Alarm{}, err
	}

	m.sched.Arm(&a)
	m.store.RecordAlarmCreated(a.Tone)
	m.logger.Info("alarm created",
		zap.String("alarm_id", a.ID), zap.String("time", a.Time))
	return a, nil
}

// Update applies a partial update, persists, and re-arms with the new
// schedule. Disabling through an update disarms.
func (m *Manager) Update(id string, upd models.AlarmUpdate) (models.Alarm, error) {
	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return models.Alarm{}, ErrNotFound
	}

	candidate := *m.alarms[idx].Clone()
	upd.Apply(&candidate)
	if err := candidate.Validate(); err != nil {
		m.mu.Unlock()
		return models.Alarm{}, err
	}

	m.alarms[idx] = candidate
	err := m.persistLocked()
	m.mu.Unlock()
	if err != nil {
		return models.Alarm{}, err
	}

	m.sched.Arm(&candidate)
	return candidate, nil
}

// Delete removes the alarm. A ringing alarm is dismissed first so no orphan
// episode survives its definition.
func (m *Manager) Delete(id string) error {
	if m.sched.IsRinging(id) {
		m.Dismiss(id)
	}
	m.sched.Disarm(id)

	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return ErrNotFound
	}
	m.alarms = append(m.alarms[:idx], m.alarms[idx+1:]...)
	err := m.persistLocked()
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.logger.Info("alarm deleted", zap.String("alarm_id", id))
	return nil
}

// Toggle flips the enabled flag and returns the new state.
func (m *Manager) Toggle(id string) (bool, error) {
	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return false, ErrNotFound
	}
	m.alarms[idx].Enabled = !m.alarms[idx].Enabled
	alarm := *m.alarms[idx].Clone()
	err := m.persistLocked()
	m.mu.Unlock()
	if err != nil {
		return false, err
	}

	m.sched.Arm(&alarm)
	return alarm.Enabled, nil
}

// CreateFromPreset creates a one-time alarm that rings the preset's duration
// from now.
func (m *Manager) CreateFromPreset(presetID string) (models.Alarm, error) {
	m.mu.Lock()
	var preset *models.Preset
	for i := range m.presets {
		if m.presets[i].ID == presetID {
			preset = &m.presets[i]
			break
		}
	}
	m.mu.Unlock()
	if preset == nil {
		return models.Alarm{}, ErrNotFound
	}

	at := m.now().Add(time.Duration(preset.DurationMinutes) * time.Minute)
	return m.Create(models.Alarm{
		Label:          preset.Name,
		Time:           fmt.Sprintf("%02d:%02d", at.Hour(), at.Minute()),
		Enabled:        true,
		Tone:           preset.Tone,
		Vibration:      preset.Vibration,
		DismissMethod:  models.DismissTap,
		SnoozeEnabled:  true,
		SnoozeDuration: quickSnoozeMinutes,
		MaxSnoozes:     quickMaxSnoozes,
	})
}

// Snooze delegates to the scheduler and records the snooze against both the
// alarm and the aggregate stats. Returns true if the alarm was snoozed
// rather than dismissed.
func (m *Manager) Snooze(id string) bool {
	wasRinging := m.sched.IsRinging(id)
	if !m.sched.Snooze(id) {
		if wasRinging && !m.sched.IsRinging(id) {
			// Snooze was disabled or exhausted, so the scheduler dismissed
			// the episode instead.
			m.recordDismissal(id)
		}
		return false
	}

	m.mu.Lock()
	if idx := m.indexLocked(id); idx >= 0 {
		m.alarms[idx].SnoozeCount++
		m.alarms[idx].TotalSnoozes++
		if err := m.persistLocked(); err != nil {
			m.logger.Warn("failed to persist snooze count", zap.Error(err))
		}
	}
	m.mu.Unlock()

	m.store.RecordAlarmSnoozed()
	return true
}

// Dismiss ends the ringing episode and resets the alarm's per-episode
// snooze counter.
func (m *Manager) Dismiss(id string) {
	wasRinging := m.sched.IsRinging(id)
	m.sched.Dismiss(id)
	if !wasRinging {
		return
	}
	m.recordDismissal(id)
}

// recordDismissal resets the per-episode snooze counter and records the
// dismissal against the aggregate stats.
func (m *Manager) recordDismissal(id string) {
	m.mu.Lock()
	if idx := m.indexLocked(id); idx >= 0 {
		m.alarms[idx].SnoozeCount = 0
		if err := m.persistLocked(); err != nil {
			m.logger.Warn("failed to persist dismissal", zap.Error(err))
		}
	}
	m.mu.Unlock()

	m.store.RecordAlarmDismissed(m.now())
}

// Alarms returns a snapshot of the alarm list.
func (m *Manager) Alarms() []models.Alarm {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Alarm, 0, len(m.alarms))
	for i := range m.alarms {
		out = append(out, *m.alarms[i].Clone())
	}
	return out
}

// Alarm returns one alarm by id.
func (m *Manager) Alarm(id string) (models.Alarm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexLocked(id)
	if idx < 0 {
		return models.Alarm{}, ErrNotFound
	}
	return *m.alarms[idx].Clone(), nil
}

// Presets returns the quick-alarm presets.
func (m *Manager) Presets() []models.Preset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Preset(nil), m.presets...)
}

// Stats returns the aggregate usage statistics.
func (m *Manager) Stats() models.Stats {
	return m.store.LoadStats()
}

// ExportCalendar renders the alarm list as an iCalendar document.
func (m *Manager) ExportCalendar() ([]byte, error) {
	return ical.Export(m.Alarms(), m.now())
}

// ImportCalendar creates alarms from an exported calendar. Imported alarms
// get fresh ids and arrive disabled; the count of created alarms is
// returned.
func (m *Manager) ImportCalendar(data []byte) (int, error) {
	parsed, err := ical.Import(data)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, a := range parsed {
		if _, err := m.Create(a); err != nil {
			m.logger.Warn("skipping unimportable alarm",
				zap.String("time", a.Time), zap.Error(err))
			continue
		}
		created++
	}
	return created, nil
}

// OnRing registers an observer for ring events. Called for the initial
// trigger and for every snooze re-ring.
func (m *Manager) OnRing(fn sched.RingFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Shutdown silences everything and cancels all timers.
func (m *Manager) Shutdown() {
	m.sched.ClearAll()
}

// handleRing is the scheduler subscription: it maintains trigger counters,
// retires one-time alarms after they fire, and relays the event to the UI.
func (m *Manager) handleRing(event *models.AlarmEvent) {
	fresh := event.SnoozeCount == 0

	if fresh {
		m.mu.Lock()
		if idx := m.indexLocked(event.Alarm.ID); idx >= 0 {
			m.alarms[idx].TimesTriggered++
			if !m.alarms[idx].Repeats() {
				// One-time alarms fire once; the stored copy turns off so a
				// restart does not ring it again tomorrow.
				m.alarms[idx].Enabled = false
			}
			if err := m.persistLocked(); err != nil {
				m.logger.Warn("failed to persist trigger", zap.Error(err))
			}
		}
		m.mu.Unlock()

		m.store.RecordAlarmTriggered()
	}

	m.mu.Lock()
	subs := append([]sched.RingFunc(nil), m.subs...)
	m.mu.Unlock()
	for _, fn := range subs {
		fn(event)
	}
}

// indexLocked finds the alarm's position. Caller holds m.mu.
func (m *Manager) indexLocked(id string) int {
	for i := range m.alarms {
		if m.alarms[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the alarm list through the store. Caller holds m.mu.
func (m *Manager) persistLocked() error {
	return m.store.SaveAlarms(m.alarms)
}
