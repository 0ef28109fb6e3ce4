// Package tones maps tone ids to playable WAV data. Built-in tones are
// synthesized at startup; user tones are WAV files dropped into the
// application storage directory.
package tones

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tidewater/clarion/pkg/audio"
)

// DefaultToneID is used when an alarm references a tone that no longer
// exists.
const DefaultToneID = "classic-bell"

// Tone is one entry in the registry.
type Tone struct {
	ID       string
	Name     string
	IsCustom bool

	wav  []byte // built-in tones, rendered up front
	path string // user tones, read on demand
}

// Registry resolves tone ids for the scheduler and lists tones for the
// alarm form.
type Registry struct {
	logger *zap.Logger
	tones  map[string]*Tone
	order  []string
}

// NewRegistry builds the registry: the three built-in tones plus any
// *.wav files under userDir (empty userDir skips the scan).
func NewRegistry(userDir string, logger *zap.Logger) *Registry {
	r := &Registry{
		logger: logger,
		tones:  make(map[string]*Tone),
	}
	for _, t := range builtinTones() {
		r.add(t)
	}
	if userDir != "" {
		r.scanUserTones(userDir)
	}
	return r
}

func (r *Registry) add(t *Tone) {
	if _, exists := r.tones[t.ID]; exists {
		return
	}
	r.tones[t.ID] = t
	r.order = append(r.order, t.ID)
}

func (r *Registry) scanUserTones(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("cannot read user tone directory",
				zap.String("dir", dir), zap.Error(err))
		}
		return
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		base := strings.TrimSuffix(name, filepath.Ext(name))
		r.add(&Tone{
			ID:       "custom-" + base,
			Name:     base,
			IsCustom: true,
			path:     filepath.Join(dir, name),
		})
	}
	if len(names) > 0 {
		r.logger.Info("loaded user tones", zap.Int("count", len(names)))
	}
}

// Resolve returns WAV data for the tone id. Unknown ids fall back to the
// default tone; the error reports the substitution but the data is always
// usable.
func (r *Registry) Resolve(id string) ([]byte, error) {
	tone, ok := r.tones[id]
	if !ok {
		fallback := r.tones[DefaultToneID]
		return fallback.wav, fmt.Errorf("unknown tone %q, substituting %q", id, DefaultToneID)
	}
	if tone.path != "" {
		data, err := os.ReadFile(tone.path)
		if err != nil {
			fallback := r.tones[DefaultToneID]
			return fallback.wav, fmt.Errorf("read tone %q: %w", id, err)
		}
		return data, nil
	}
	return tone.wav, nil
}

// List returns all tones in registration order: built-ins first, then user
// tones alphabetically.
func (r *Registry) List() []*Tone {
	out := make([]*Tone, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tones[id])
	}
	return out
}

// Has reports whether the id resolves without substitution.
func (r *Registry) Has(id string) bool {
	_, ok := r.tones[id]
	return ok
}

// builtinTones renders the stock tones. Recipes are short phrases looped by
// the player, so each one only needs a couple of seconds of material.
func builtinTones() []*Tone {
	bell := audio.SynthesizeWAV([]audio.ToneSegment{
		{Frequency: 880, Duration: 400 * time.Millisecond, Volume: 0.8},
		{Frequency: 0, Duration: 200 * time.Millisecond},
		{Frequency: 880, Duration: 400 * time.Millisecond, Volume: 0.8},
		{Frequency: 0, Duration: 600 * time.Millisecond},
	})
	chimes := audio.SynthesizeWAV([]audio.ToneSegment{
		{Frequency: 523.25, Duration: 300 * time.Millisecond, Volume: 0.5}, // C5
		{Frequency: 659.25, Duration: 300 * time.Millisecond, Volume: 0.5}, // E5
		{Frequency: 783.99, Duration: 450 * time.Millisecond, Volume: 0.6}, // G5
		{Frequency: 0, Duration: 500 * time.Millisecond},
	})
	waves := audio.SynthesizeWAV([]audio.ToneSegment{
		{Frequency: 220, Duration: 700 * time.Millisecond, Volume: 0.35},
		{Frequency: 196, Duration: 700 * time.Millisecond, Volume: 0.45},
		{Frequency: 220, Duration: 700 * time.Millisecond, Volume: 0.35},
		{Frequency: 0, Duration: 400 * time.Millisecond},
	})

	return []*Tone{
		{ID: "classic-bell", Name: "Classic Bell", wav: bell},
		{ID: "gentle-chimes", Name: "Gentle Chimes", wav: chimes},
		{ID: "ocean-waves", Name: "Ocean Waves", wav: waves},
	}
}
