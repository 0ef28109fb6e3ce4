package audio

import (
	"math"
	"time"
)

// SampleRate for all synthesized tones.
const SampleRate = 44100

// ToneSegment is a single sine burst within a synthesized tone.
type ToneSegment struct {
	Frequency float64
	Duration  time.Duration
	Volume    float64 // 0.0 to 1.0
}

// Synthesize renders tone segments as mono 16-bit PCM at SampleRate. Each
// segment gets a short linear attack/release so segment joins don't click.
func Synthesize(segments []ToneSegment) []int16 {
	var samples []int16
	for _, seg := range segments {
		n := int(float64(SampleRate) * seg.Duration.Seconds())
		edge := SampleRate / 100 // 10 ms ramp
		if edge > n/2 {
			edge = n / 2
		}
		for i := 0; i < n; i++ {
			envelope := 1.0
			if i < edge {
				envelope = float64(i) / float64(edge)
			} else if i > n-edge {
				envelope = float64(n-i) / float64(edge)
			}
			v := math.Sin(2*math.Pi*seg.Frequency*float64(i)/SampleRate) * seg.Volume * envelope
			samples = append(samples, int16(v*math.MaxInt16))
		}
	}
	return samples
}

// SynthesizeWAV renders tone segments directly into a WAV container.
func SynthesizeWAV(segments []ToneSegment) []byte {
	return EncodeWAV(Synthesize(segments), SampleRate, 1)
}

// FallbackBeep is the tone of last resort: a one-second 800 Hz sine with an
// exponential decay, played when the requested tone cannot be loaded or
// parsed.
func FallbackBeep() []byte {
	const freq = 800.0
	n := SampleRate // one second
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		decay := math.Exp(-5 * float64(i) / float64(n))
		v := math.Sin(2*math.Pi*freq*float64(i)/SampleRate) * 0.3 * decay
		samples[i] = int16(v * math.MaxInt16)
	}
	return EncodeWAV(samples, SampleRate, 1)
}
