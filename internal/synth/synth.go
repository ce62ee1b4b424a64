package synth

import (
	"errors"
	"fmt"
	"math"

	"github.com/organum-go/organum/internal/notation"
)

// SampleRate is the rate every organum render uses unless a caller asks
// otherwise.
const SampleRate = 44100

var ErrEmptyVoice = errors.New("voice has no events")

// EventError reports an event the synthesizer refuses to render.
type EventError struct {
	Voice  int
	Chord  int
	Reason string
}

func (e *EventError) Error() string {
	return fmt.Sprintf("voice %d, event %d: %s", e.Voice, e.Chord, e.Reason)
}

type Params struct {
	Amplitude    float64
	EdgeFadeSec  float64 // attack and release ramp of each flushed segment
	CrossfadeSec float64 // overlap between tied notes
	TailSec      float64 // silence appended after each voice
	MaxSeconds   float64 // longest voice accepted, 0 = unlimited
	Workers      int     // parallel voice renders, 0 = GOMAXPROCS
}

func DefaultParams() Params {
	return Params{
		Amplitude:    1.0,
		EdgeFadeSec:  0.02,
		CrossfadeSec: 0.02,
		TailSec:      1.0,
		MaxSeconds:   600,
	}
}

// Engine renders voices as plain sine tones.
type Engine struct {
	sampleRate float64
	params     Params
}

func New(sampleRate int, params Params) *Engine {
	if sampleRate <= 0 {
		sampleRate = SampleRate
	}
	return &Engine{sampleRate: float64(sampleRate), params: params}
}

func (e *Engine) SampleRate() int { return int(e.sampleRate) }

// Samples converts seconds to a whole number of samples, truncating.
func (e *Engine) Samples(sec float64) int {
	if sec <= 0 {
		return 0
	}
	return int(e.sampleRate * sec)
}

// Sine returns sec seconds of a sine at freq Hz starting at phase zero.
func (e *Engine) Sine(freq, sec float64) []float32 {
	n := e.Samples(sec)
	out := make([]float32, n)
	step := 2 * math.Pi * freq / e.sampleRate
	for i := range out {
		out[i] = float32(e.params.Amplitude * math.Sin(step*float64(i)))
	}
	return out
}

func (e *Engine) Silence(sec float64) []float32 {
	return make([]float32, e.Samples(sec))
}

// Chord renders the sounding members of c at the chord's duration and
// averages them. Rests inside a sounding chord only contribute length.
func (e *Engine) Chord(c notation.Chord) ([]float32, error) {
	dur := c.Duration()
	var members [][]float32
	for _, ev := range c.Events {
		if ev.Type != notation.EventNote {
			continue
		}
		members = append(members, e.Sine(notation.EventFrequency(ev), dur))
	}
	switch len(members) {
	case 0:
		return e.Silence(dur), nil
	case 1:
		return members[0], nil
	}
	return Mix(members...)
}

// Voice renders one voice into a single buffer. A tied chord stays pending
// so the next chord can be cross-faded into it; rests always cut a tie.
func (e *Engine) Voice(v notation.Voice) ([]float32, error) {
	if len(v.Chords) == 0 {
		return nil, ErrEmptyVoice
	}
	fade := e.Samples(e.params.EdgeFadeSec)
	overlap := e.Samples(e.params.CrossfadeSec)

	var segments [][]float32
	var pending []float32
	var length float64
	for i, ch := range v.Chords {
		if err := validateChord(v.Index, i, ch); err != nil {
			return nil, err
		}
		length += ch.Duration()
		if limit := e.params.MaxSeconds; limit > 0 && length > limit {
			return nil, &EventError{Voice: v.Index, Chord: i, Reason: fmt.Sprintf("voice runs past the %vs limit", limit)}
		}
		if ch.Silent() {
			if pending != nil {
				segments = append(segments, pending)
				pending = nil
			}
			segments = append(segments, e.Silence(ch.Duration()))
			continue
		}
		raw, err := e.Chord(ch)
		if err != nil {
			return nil, err
		}
		switch {
		case ch.Tied() && pending != nil:
			pending = Crossfade(pending, raw, overlap)
		case ch.Tied():
			pending = raw
		case pending != nil:
			segments = append(segments, EdgeFade(Crossfade(pending, raw, overlap), fade))
			pending = nil
		default:
			segments = append(segments, EdgeFade(raw, fade))
		}
	}
	if pending != nil {
		segments = append(segments, pending)
	}
	segments = append(segments, e.Silence(e.params.TailSec))
	return Concat(segments...), nil
}

func validateChord(voice, idx int, ch notation.Chord) error {
	if len(ch.Events) == 0 {
		return &EventError{Voice: voice, Chord: idx, Reason: "empty chord"}
	}
	for _, ev := range ch.Events {
		if !(ev.Duration > 0) || math.IsInf(ev.Duration, 0) {
			return &EventError{Voice: voice, Chord: idx, Reason: fmt.Sprintf("duration %v is not positive", ev.Duration)}
		}
		if ev.Type != notation.EventNote {
			continue
		}
		if f := notation.EventFrequency(ev); math.IsInf(f, 0) || math.IsNaN(f) || f <= 0 {
			return &EventError{Voice: voice, Chord: idx, Reason: fmt.Sprintf("octave %d has no finite frequency", ev.Octave)}
		}
	}
	return nil
}
