// Package config holds the render, playback and server settings shared by
// the organum command and library.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/organum-go/organum/internal/effects"
	"github.com/organum-go/organum/internal/synth"
)

type Config struct {
	SampleRate int            `yaml:"sample_rate"`
	Synth      SynthConfig    `yaml:"synth"`
	Hall       HallConfig     `yaml:"hall"`
	Limiter    LimiterConfig  `yaml:"limiter"`
	Playback   PlaybackConfig `yaml:"playback"`
	Server     ServerConfig   `yaml:"server"`
}

type SynthConfig struct {
	Amplitude   float64 `yaml:"amplitude"`
	EdgeFadeMs  float64 `yaml:"edge_fade_ms"`
	CrossfadeMs float64 `yaml:"crossfade_ms"`
	TailSeconds float64 `yaml:"tail_seconds"`
	MaxSeconds  float64 `yaml:"max_seconds"`
	Workers     int     `yaml:"workers"`
}

type HallConfig struct {
	Enabled  bool    `yaml:"enabled"`
	RoomSize float32 `yaml:"room_size"`
	Feedback float32 `yaml:"feedback"`
	Wet      float32 `yaml:"wet"`
}

type LimiterConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ThresholdDB float32 `yaml:"threshold_db"`
	Ratio       float32 `yaml:"ratio"`
	AttackMs    float32 `yaml:"attack_ms"`
	ReleaseMs   float32 `yaml:"release_ms"`
	MakeupDB    float32 `yaml:"makeup_db"`
}

type PlaybackConfig struct {
	Volume float64 `yaml:"volume"`
	// VoiceStreams plays each voice on its own stream instead of the mix.
	VoiceStreams bool `yaml:"voice_streams"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// MaxRenderSeconds caps each voice rendered over HTTP, tighter than
	// synth.max_seconds.
	MaxRenderSeconds float64 `yaml:"max_render_seconds"`
}

func Default() Config {
	p := synth.DefaultParams()
	return Config{
		SampleRate: synth.SampleRate,
		Synth: SynthConfig{
			Amplitude:   p.Amplitude,
			EdgeFadeMs:  p.EdgeFadeSec * 1000,
			CrossfadeMs: p.CrossfadeSec * 1000,
			TailSeconds: p.TailSec,
			MaxSeconds:  p.MaxSeconds,
		},
		Hall:     HallConfig{RoomSize: 0.8, Feedback: 0.75, Wet: 0.3},
		Limiter:  LimiterConfig{ThresholdDB: -3, Ratio: 8, AttackMs: 2, ReleaseMs: 120},
		Playback: PlaybackConfig{Volume: 1.0},
		Server:   ServerConfig{Addr: ":8080", AllowedOrigins: []string{"*"}, MaxRenderSeconds: 300},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected so typos do not silently fall back to defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	case c.Synth.EdgeFadeMs < 0 || c.Synth.CrossfadeMs < 0:
		return errors.New("synth fade windows must not be negative")
	case c.Synth.TailSeconds < 0:
		return errors.New("synth.tail_seconds must not be negative")
	case c.Synth.MaxSeconds < 0 || c.Server.MaxRenderSeconds < 0:
		return errors.New("length limits must not be negative")
	case c.Synth.MaxSeconds > 0 && c.Synth.TailSeconds > c.Synth.MaxSeconds:
		return fmt.Errorf("synth.tail_seconds %v exceeds synth.max_seconds %v", c.Synth.TailSeconds, c.Synth.MaxSeconds)
	case c.Synth.Workers < 0:
		return errors.New("synth.workers must not be negative")
	case c.Playback.Volume < 0:
		return fmt.Errorf("playback.volume must not be negative, got %v", c.Playback.Volume)
	case c.Limiter.Enabled && c.Limiter.Ratio < 1:
		return fmt.Errorf("limiter.ratio must be at least 1, got %v", c.Limiter.Ratio)
	}
	return nil
}

func (c Config) SynthParams() synth.Params {
	return synth.Params{
		Amplitude:    c.Synth.Amplitude,
		EdgeFadeSec:  c.Synth.EdgeFadeMs / 1000,
		CrossfadeSec: c.Synth.CrossfadeMs / 1000,
		TailSec:      c.Synth.TailSeconds,
		MaxSeconds:   c.Synth.MaxSeconds,
		Workers:      c.Synth.Workers,
	}
}

// Effects builds the post-mix chain, or nil when nothing is enabled.
func (c Config) Effects() *effects.Chain {
	chain := effects.NewChain()
	if c.Hall.Enabled {
		chain.Add(effects.NewHall(c.SampleRate, c.Hall.RoomSize, c.Hall.Feedback, c.Hall.Wet))
	}
	if c.Limiter.Enabled {
		l := c.Limiter
		chain.Add(effects.NewLimiter(c.SampleRate, l.ThresholdDB, l.Ratio, l.AttackMs, l.ReleaseMs, l.MakeupDB))
	}
	if chain.Len() == 0 {
		return nil
	}
	return chain
}
