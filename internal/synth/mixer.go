package synth

import (
	"errors"

	"github.com/viterin/vek/vek32"
)

var ErrNoBuffers = errors.New("mix needs at least one buffer")

// Mix zero-pads every buffer to the longest one, sums them and divides by
// the number of inputs. The inputs are not modified.
func Mix(bufs ...[]float32) ([]float32, error) {
	if len(bufs) == 0 {
		return nil, ErrNoBuffers
	}
	n := 0
	for _, b := range bufs {
		n = max(n, len(b))
	}
	out := vek32.Zeros(n)
	for _, b := range bufs {
		vek32.Add_Inplace(out[:len(b)], b)
	}
	vek32.DivNumber_Inplace(out, float32(len(bufs)))
	return out, nil
}
