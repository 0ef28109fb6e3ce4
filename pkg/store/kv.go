package store

import (
	"sync"

	"fyne.io/fyne/v2"
)

// KV is the persistence substrate: a durable string key-value blob store.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// PreferencesKV persists through fyne's application preferences, the same
// substrate the rest of the app settings live in.
type PreferencesKV struct {
	prefs fyne.Preferences
}

func NewPreferencesKV(prefs fyne.Preferences) *PreferencesKV {
	return &PreferencesKV{prefs: prefs}
}

func (p *PreferencesKV) Get(key string) (string, bool) {
	value := p.prefs.String(key)
	return value, value != ""
}

func (p *PreferencesKV) Set(key, value string) {
	p.prefs.SetString(key, value)
}

func (p *PreferencesKV) Remove(key string) {
	p.prefs.RemoveValue(key)
}

// MemKV is an in-memory KV for tests.
type MemKV struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string]string)}
}

func (m *MemKV) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	return value, ok
}

func (m *MemKV) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *MemKV) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}
