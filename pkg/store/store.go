// Package store durably persists alarms, quick-alarm presets and usage
// statistics as JSON blobs in a key-value substrate.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tidewater/clarion/pkg/models"
)

const (
	keyAlarms  = "alarms"
	keyPresets = "presets"
	keyStats   = "stats"
)

// Store owns the durable representation of every record. Nothing else
// writes the substrate.
type Store struct {
	kv     KV
	logger *zap.Logger
}

func New(kv KV, logger *zap.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// LoadAlarms returns the persisted alarm list. A missing key is an empty
// list; a corrupt blob is logged and treated the same so the app still
// starts.
func (s *Store) LoadAlarms() []models.Alarm {
	var alarms []models.Alarm
	s.load(keyAlarms, &alarms)
	return alarms
}

func (s *Store) SaveAlarms(alarms []models.Alarm) error {
	return s.save(keyAlarms, alarms)
}

func (s *Store) LoadPresets() []models.Preset {
	var presets []models.Preset
	s.load(keyPresets, &presets)
	return presets
}

func (s *Store) SavePresets(presets []models.Preset) error {
	return s.save(keyPresets, presets)
}

func (s *Store) LoadStats() models.Stats {
	var stats models.Stats
	s.load(keyStats, &stats)
	return stats
}

func (s *Store) SaveStats(stats models.Stats) error {
	return s.save(keyStats, stats)
}

// RecordAlarmCreated bumps the aggregate counters for a newly created
// alarm.
func (s *Store) RecordAlarmCreated(tone string) {
	stats := s.LoadStats()
	stats.RecordCreated(tone)
	s.saveStatsBestEffort(stats)
}

func (s *Store) RecordAlarmTriggered() {
	stats := s.LoadStats()
	stats.RecordTriggered()
	s.saveStatsBestEffort(stats)
}

func (s *Store) RecordAlarmSnoozed() {
	stats := s.LoadStats()
	stats.RecordSnoozed()
	s.saveStatsBestEffort(stats)
}

func (s *Store) RecordAlarmDismissed(at time.Time) {
	stats := s.LoadStats()
	stats.RecordDismissed(at)
	s.saveStatsBestEffort(stats)
}

func (s *Store) saveStatsBestEffort(stats models.Stats) {
	// Statistics are advisory; a failed write must not fail the operation
	// that produced them.
	if err := s.SaveStats(stats); err != nil {
		s.logger.Warn("failed to persist stats", zap.Error(err))
	}
}

func (s *Store) load(key string, out any) {
	blob, ok := s.kv.Get(key)
	if !ok {
		return
	}
	if err := json.Unmarshal([]byte(blob), out); err != nil {
		s.logger.Error("corrupt record, starting empty",
			zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) save(key string, value any) error {
	blob, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("failed to serialize record",
			zap.String("key", key), zap.Error(err))
		return fmt.Errorf("serialize %s: %w", key, err)
	}
	s.kv.Set(key, string(blob))
	return nil
}
