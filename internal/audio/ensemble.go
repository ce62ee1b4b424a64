package audio

import (
	"context"
	"errors"
	"sync"
)

// Ensemble plays one stream per voice. All streams are created and started
// before a shared gate opens, so every voice leaves silence on the same
// read cycle.
type Ensemble struct {
	sources   []*BufferSource
	players   []*Player
	gate      chan struct{}
	stopped   chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

func NewEnsemble(sampleRate int, voices [][]float32, volume float64) (*Ensemble, error) {
	if len(voices) == 0 {
		return nil, errors.New("ensemble needs at least one voice")
	}
	e := &Ensemble{gate: make(chan struct{}), stopped: make(chan struct{})}
	for _, v := range voices {
		src := NewBufferSource(v, e.gate)
		pl, err := NewPlayer(sampleRate, src)
		if err != nil {
			_ = e.Stop()
			return nil, err
		}
		pl.SetVolume(volume)
		e.sources = append(e.sources, src)
		e.players = append(e.players, pl)
	}
	return e, nil
}

// Start begins playback of every voice. Later calls do nothing.
func (e *Ensemble) Start() {
	e.startOnce.Do(func() {
		for _, p := range e.players {
			p.Play()
		}
		close(e.gate)
	})
}

// Wait blocks until every voice has been heard, the ensemble is stopped,
// or ctx is done.
func (e *Ensemble) Wait(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-e.stopped:
			cancel()
		case <-ctx.Done():
		}
	}()
	err := waitAll(ctx, e.sources)
	for _, p := range e.players {
		if err != nil {
			break
		}
		err = p.Drain(ctx)
	}
	select {
	case <-e.stopped:
		return nil
	default:
		return err
	}
}

func (e *Ensemble) Stop() error {
	var errs []error
	e.stopOnce.Do(func() {
		close(e.stopped)
		for _, p := range e.players {
			errs = append(errs, p.Stop())
		}
	})
	return errors.Join(errs...)
}

func (e *Ensemble) SetVolume(v float64) {
	for _, p := range e.players {
		p.SetVolume(v)
	}
}

func (e *Ensemble) Pause() {
	for _, p := range e.players {
		p.Pause()
	}
}

func (e *Ensemble) Resume() {
	for _, p := range e.players {
		p.Play()
	}
}

func waitAll(ctx context.Context, sources []*BufferSource) error {
	var wg sync.WaitGroup
	for _, s := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-s.Done():
			case <-ctx.Done():
			}
		}()
	}
	wg.Wait()
	return ctx.Err()
}
