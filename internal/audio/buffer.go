package audio

import (
	"sync"
	"sync/atomic"
)

// BufferSource plays a rendered mono buffer as a stereo stream. It emits
// silence until its gate opens, then the buffer, then silence again with
// Finished reporting true.
type BufferSource struct {
	samples []float32
	pos     int
	gate    <-chan struct{}
	done    chan struct{}
	once    sync.Once
	ended   atomic.Bool
}

// NewBufferSource returns a source that starts immediately when gate is nil.
func NewBufferSource(samples []float32, gate <-chan struct{}) *BufferSource {
	return &BufferSource{samples: samples, gate: gate, done: make(chan struct{})}
}

func (s *BufferSource) open() bool {
	if s.gate == nil {
		return true
	}
	select {
	case <-s.gate:
		return true
	default:
		return false
	}
}

func (s *BufferSource) Process(dst []float32) {
	clear(dst)
	if !s.open() {
		return
	}
	for i := 0; i+1 < len(dst) && s.pos < len(s.samples); i += 2 {
		v := s.samples[s.pos]
		dst[i], dst[i+1] = v, v
		s.pos++
	}
	if s.pos >= len(s.samples) {
		s.finish()
	}
}

func (s *BufferSource) finish() {
	s.once.Do(func() {
		s.ended.Store(true)
		close(s.done)
	})
}

func (s *BufferSource) Finished() bool { return s.ended.Load() }

// Done is closed once the last sample has been handed to the stream.
func (s *BufferSource) Done() <-chan struct{} { return s.done }
