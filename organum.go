// Package organum compiles hexachord notation into per-voice scores and
// renders them as mixed sine-tone audio.
package organum

import (
	"errors"
	"os"
	"strings"

	"github.com/organum-go/organum/internal/config"
	"github.com/organum-go/organum/internal/notation"
	"github.com/organum-go/organum/internal/synth"
)

type (
	Score      = notation.Score
	Voice      = notation.Voice
	Chord      = notation.Chord
	Event      = notation.Event
	Metadata   = notation.Metadata
	Diagnostic = notation.Diagnostic
)

const SampleRate = synth.SampleRate

var ErrNoVoices = errors.New("score has no voices with events")

// FileError reports a source file that could not be read. No partial score
// accompanies it.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e *FileError) Unwrap() error { return e.Err }

// Compile parses the notation file at path. Recoverable problems in the
// text are reported as Diagnostics on the returned score.
func Compile(path string) (*Score, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	defer f.Close()
	score, err := notation.NewParser(notation.DefaultParserConfig()).ParseReader(f)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	return score, nil
}

func CompileString(src string) (*Score, error) {
	return notation.NewParser(notation.DefaultParserConfig()).ParseReader(strings.NewReader(src))
}

// Synthesize renders one voice at the default sample rate and parameters.
func Synthesize(v Voice) ([]float32, error) {
	return synth.New(SampleRate, synth.DefaultParams()).Voice(v)
}

// Mix aligns buffers to the longest and averages them.
func Mix(buffers ...[]float32) ([]float32, error) {
	return synth.Mix(buffers...)
}

type RenderOption func(*config.Config)

// WithConfig replaces every render setting at once.
func WithConfig(cfg config.Config) RenderOption {
	return func(c *config.Config) { *c = cfg }
}

func WithSampleRate(sampleRate int) RenderOption {
	return func(c *config.Config) { c.SampleRate = sampleRate }
}

func renderConfig(opts []RenderOption) (config.Config, error) {
	cfg := config.Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg, cfg.Validate()
}

// RenderVoices synthesizes every voice that has events, concurrently, and
// returns the buffers in voice order. Post-mix effects are not applied.
func RenderVoices(score *Score, opts ...RenderOption) ([][]float32, error) {
	cfg, err := renderConfig(opts)
	if err != nil {
		return nil, err
	}
	return renderVoices(score, cfg)
}

func renderVoices(score *Score, cfg config.Config) ([][]float32, error) {
	var voices []Voice
	for _, v := range score.Voices {
		if len(v.Chords) > 0 {
			voices = append(voices, v)
		}
	}
	if len(voices) == 0 {
		return nil, ErrNoVoices
	}
	return synth.New(cfg.SampleRate, cfg.SynthParams()).RenderVoices(voices)
}

// Render synthesizes and mixes every non-empty voice, then runs any
// enabled hall or limiter over the mix.
func Render(score *Score, opts ...RenderOption) ([]float32, error) {
	cfg, err := renderConfig(opts)
	if err != nil {
		return nil, err
	}
	bufs, err := renderVoices(score, cfg)
	if err != nil {
		return nil, err
	}
	mixed, err := synth.Mix(bufs...)
	if err != nil {
		return nil, err
	}
	if chain := cfg.Effects(); chain != nil {
		chain.Apply(mixed)
	}
	return mixed, nil
}
