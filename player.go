package organum

import (
	"context"
	"sync"

	intaudio "github.com/organum-go/organum/internal/audio"
	"github.com/organum-go/organum/internal/config"
)

type PlayerOption func(*playerConfig)

type playerConfig struct {
	cfg config.Config
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{cfg: config.Default()}
}

// WithPlayerConfig sets sample rate, synth, effects and playback settings.
func WithPlayerConfig(cfg config.Config) PlayerOption {
	return func(pc *playerConfig) {
		pc.cfg = cfg
	}
}

func WithVolume(volume float64) PlayerOption {
	return func(pc *playerConfig) {
		pc.cfg.Playback.Volume = volume
	}
}

// WithVoiceStreams plays each voice on its own output stream. All streams
// start together and the mix happens in the audio device.
func WithVoiceStreams(enabled bool) PlayerOption {
	return func(pc *playerConfig) {
		pc.cfg.Playback.VoiceStreams = enabled
	}
}

// playback is one started render: either a single mixed stream or an
// ensemble of per-voice streams.
type playback interface {
	Wait(ctx context.Context) error
	Stop() error
	SetVolume(v float64)
	Pause()
	Resume()
}

type Player struct {
	mu      sync.Mutex
	cfg     config.Config
	volume  float64
	current playback
}

func NewPlayer(opts ...PlayerOption) (*Player, error) {
	pc := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&pc)
	}
	if err := pc.cfg.Validate(); err != nil {
		return nil, err
	}
	return &Player{cfg: pc.cfg, volume: pc.cfg.Playback.Volume}, nil
}

// PlaySource compiles src and plays it.
func (p *Player) PlaySource(src string) error {
	score, err := CompileString(src)
	if err != nil {
		return err
	}
	return p.Play(score)
}

// Play renders score and starts playback, replacing anything already
// playing. It returns once audio has started.
func (p *Player) Play(score *Score) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var (
		next playback
		err  error
	)
	if p.cfg.Playback.VoiceStreams {
		next, err = p.startEnsemble(score)
	} else {
		next, err = p.startMixed(score)
	}
	if err != nil {
		return err
	}
	if p.current != nil {
		_ = p.current.Stop()
	}
	p.current = next
	return nil
}

func (p *Player) startMixed(score *Score) (playback, error) {
	mixed, err := Render(score, WithConfig(p.cfg))
	if err != nil {
		return nil, err
	}
	src := intaudio.NewBufferSource(mixed, nil)
	backend, err := intaudio.NewPlayer(p.cfg.SampleRate, src)
	if err != nil {
		return nil, err
	}
	backend.SetVolume(p.volume)
	backend.Play()
	return newMixedPlayback(backend, src), nil
}

// voiceStreams renders each voice for its own stream and runs a separate
// copy of the post-mix chain over each, so voice streams carry the same
// hall and limiter as the mixed render.
func voiceStreams(score *Score, cfg config.Config) ([][]float32, error) {
	bufs, err := RenderVoices(score, WithConfig(cfg))
	if err != nil {
		return nil, err
	}
	for _, buf := range bufs {
		if chain := cfg.Effects(); chain != nil {
			chain.Apply(buf)
		}
	}
	return bufs, nil
}

func (p *Player) startEnsemble(score *Score) (playback, error) {
	bufs, err := voiceStreams(score, p.cfg)
	if err != nil {
		return nil, err
	}
	ens, err := intaudio.NewEnsemble(p.cfg.SampleRate, bufs, p.volume)
	if err != nil {
		return nil, err
	}
	ens.Start()
	return ens, nil
}

// Wait blocks until the current playback has been heard in full, it is
// stopped, or ctx is done. It returns immediately if nothing is playing.
func (p *Player) Wait(ctx context.Context) error {
	p.mu.Lock()
	cur := p.current
	p.mu.Unlock()
	if cur == nil {
		return nil
	}
	return cur.Wait(ctx)
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.current.Pause()
	}
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.current.Resume()
	}
}

func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	err := p.current.Stop()
	p.current = nil
	return err
}

// SetMasterVolume sets runtime volume scalar. 1.0 is default.
func (p *Player) SetMasterVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
	if p.current != nil {
		p.current.SetVolume(volume)
	}
}

func (p *Player) MasterVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *Player) VoiceStreams() bool { return p.cfg.Playback.VoiceStreams }

type mixedPlayback struct {
	player  *intaudio.Player
	source  *intaudio.BufferSource
	stopped chan struct{}
	once    sync.Once
}

func newMixedPlayback(player *intaudio.Player, source *intaudio.BufferSource) *mixedPlayback {
	return &mixedPlayback{player: player, source: source, stopped: make(chan struct{})}
}

func (m *mixedPlayback) Wait(ctx context.Context) error {
	select {
	case <-m.source.Done():
	case <-m.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	return m.player.Drain(ctx)
}

func (m *mixedPlayback) Stop() error {
	var err error
	m.once.Do(func() {
		close(m.stopped)
		err = m.player.Stop()
	})
	return err
}

func (m *mixedPlayback) SetVolume(v float64) { m.player.SetVolume(v) }
func (m *mixedPlayback) Pause()              { m.player.Pause() }
func (m *mixedPlayback) Resume()             { m.player.Play() }
