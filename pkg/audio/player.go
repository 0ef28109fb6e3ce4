// Package audio owns the playback device: looped alarm playback with an
// optional gradual-volume ramp, plus WAV parsing and tone synthesis.
package audio

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"
)

// ErrNoAudioDevice means the hardware context could not be brought up; no
// sound of any kind is possible.
var ErrNoAudioDevice = errors.New("audio device unavailable")

// The hardware context is process-wide and initialized once, from the
// format of the first tone played.
var (
	otoCtx       *oto.Context
	otoCtxOnce   sync.Once
	otoCtxFormat Format
	otoCtxReady  bool
)

// rampWindow is how long a gradual-volume alarm takes to reach full volume.
const rampWindow = 30 * time.Second

const rampStartVolume = 0.1

func initContext(format *Format, logger *zap.Logger) {
	otoCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			logger.Error("failed to initialize audio context", zap.Error(err))
			return
		}

		// Wait for the hardware audio devices to be ready.
		<-readyChan

		otoCtx = ctx
		otoCtxFormat = *format
		otoCtxReady = true
		logger.Info("audio context initialized",
			zap.Int("sample_rate", format.SampleRate),
			zap.Int("channels", format.Channels))
	})
}

// Player plays one alarm tone at a time. Starting a new tone stops the
// previous one first; there is never overlapping playback.
type Player struct {
	logger *zap.Logger

	mu      sync.Mutex
	session *playSession
}

type playSession struct {
	stop chan struct{}
	once sync.Once
}

func (s *playSession) end() {
	s.once.Do(func() { close(s.stop) })
}

func NewPlayer(logger *zap.Logger) *Player {
	return &Player{logger: logger}
}

// Play begins looped playback of the WAV data. A nil or unparseable tone,
// or one the device cannot take, degrades to the synthesized fallback beep;
// an error is returned only when no sound at all can be produced. With
// gradual set, volume starts low and ramps linearly to full over 30
// seconds.
func (p *Player) Play(wav []byte, gradual bool) error {
	if wav == nil {
		wav = FallbackBeep()
	}

	format, pcm, err := ParseWAV(wav)
	if err != nil || format.BitDepth != 16 {
		p.logger.Warn("tone not playable, using fallback beep",
			zap.Error(err))
		format, pcm, err = ParseWAV(FallbackBeep())
		if err != nil {
			return err
		}
	}

	initContext(format, p.logger)
	if !otoCtxReady {
		return ErrNoAudioDevice
	}
	if *format != otoCtxFormat {
		// The context format is fixed for the process lifetime; a
		// mismatched tone plays pitch-shifted rather than not at all.
		p.logger.Warn("tone format differs from audio context",
			zap.Int("tone_rate", format.SampleRate),
			zap.Int("context_rate", otoCtxFormat.SampleRate))
	}

	p.mu.Lock()
	if p.session != nil {
		p.session.end()
	}
	session := &playSession{stop: make(chan struct{})}
	p.session = session
	p.mu.Unlock()

	go p.playLoop(pcm, gradual, session)
	return nil
}

func (p *Player) playLoop(pcm []byte, gradual bool, session *playSession) {
	start := time.Now()

	for {
		player := otoCtx.NewPlayer(bytes.NewReader(pcm))
		player.SetVolume(p.volumeAt(time.Since(start), gradual))
		player.Play()

		for player.IsPlaying() {
			select {
			case <-session.stop:
				player.Pause()
				player.Close()
				return
			case <-time.After(10 * time.Millisecond):
				if gradual {
					player.SetVolume(p.volumeAt(time.Since(start), gradual))
				}
			}
		}

		if err := player.Close(); err != nil {
			p.logger.Warn("failed to close audio player", zap.Error(err))
		}

		// Loop until stopped.
		select {
		case <-session.stop:
			return
		default:
		}
	}
}

func (p *Player) volumeAt(elapsed time.Duration, gradual bool) float64 {
	if !gradual {
		return 1.0
	}
	progress := float64(elapsed) / float64(rampWindow)
	if progress > 1 {
		progress = 1
	}
	return rampStartVolume + (1-rampStartVolume)*progress
}

// Stop halts playback and resets the session. Idempotent.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session != nil {
		p.session.end()
		p.session = nil
	}
}

// IsPlaying reports whether a playback session is active.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session != nil
}
