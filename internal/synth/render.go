package synth

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/organum-go/organum/internal/notation"
)

// RenderVoices synthesizes every voice on its own goroutine. Voices share
// no state, so the only synchronization is the final join.
func (e *Engine) RenderVoices(voices []notation.Voice) ([][]float32, error) {
	out := make([][]float32, len(voices))
	var g errgroup.Group
	workers := e.params.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)
	for i := range voices {
		g.Go(func() error {
			buf, err := e.Voice(voices[i])
			if err != nil {
				return fmt.Errorf("render voice %d: %w", voices[i].Index, err)
			}
			out[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
