package tones

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tidewater/clarion/pkg/audio"
)

func TestBuiltinTonesResolve(t *testing.T) {
	r := NewRegistry("", zap.NewNop())

	for _, id := range []string{"classic-bell", "gentle-chimes", "ocean-waves"} {
		wav, err := r.Resolve(id)
		require.NoError(t, err, id)
		format, _, err := audio.ParseWAV(wav)
		require.NoError(t, err, id)
		assert.Equal(t, audio.SampleRate, format.SampleRate)
	}
}

func TestUnknownToneFallsBackToDefault(t *testing.T) {
	r := NewRegistry("", zap.NewNop())

	wav, err := r.Resolve("does-not-exist")
	assert.Error(t, err)
	require.NotNil(t, wav)

	def, _ := r.Resolve(DefaultToneID)
	assert.Equal(t, def, wav)
}

func TestUserTonesAreScanned(t *testing.T) {
	dir := t.TempDir()
	wav := audio.FallbackBeep()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rooster.wav"), wav, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644))

	r := NewRegistry(dir, zap.NewNop())

	require.True(t, r.Has("custom-rooster"))
	got, err := r.Resolve("custom-rooster")
	require.NoError(t, err)
	assert.Equal(t, wav, got)

	// Non-WAV files are ignored.
	assert.False(t, r.Has("custom-notes"))
}

func TestMissingUserFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.wav")
	require.NoError(t, os.WriteFile(path, audio.FallbackBeep(), 0o644))

	r := NewRegistry(dir, zap.NewNop())
	require.NoError(t, os.Remove(path))

	wav, err := r.Resolve("custom-gone")
	assert.Error(t, err)
	def, _ := r.Resolve(DefaultToneID)
	assert.Equal(t, def, wav)
}

func TestListOrder(t *testing.T) {
	r := NewRegistry("", zap.NewNop())
	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "classic-bell", list[0].ID)
	assert.False(t, list[0].IsCustom)
}
