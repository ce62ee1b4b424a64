package synth

import "github.com/viterin/vek/vek32"

// rampUp returns n points evenly spaced from 0 to 1 inclusive.
func rampUp(n int) []float32 {
	r := make([]float32, n)
	if n < 2 {
		return r
	}
	for i := range r {
		r[i] = float32(i) / float32(n-1)
	}
	return r
}

// rampDown returns n points evenly spaced from 1 to 0 inclusive.
func rampDown(n int) []float32 {
	r := rampUp(n)
	for i := range r {
		r[i] = 1 - r[i]
	}
	return r
}

// EdgeFade returns a copy of buf with a linear fade-in over the first n
// samples and a fade-out over the last n. n is capped at half the buffer.
func EdgeFade(buf []float32, n int) []float32 {
	out := make([]float32, len(buf))
	copy(out, buf)
	if n > len(out)/2 {
		n = len(out) / 2
	}
	if n <= 0 {
		return out
	}
	vek32.Mul_Inplace(out[:n], rampUp(n))
	vek32.Mul_Inplace(out[len(out)-n:], rampDown(n))
	return out
}

// Crossfade joins a and b, overlapping the last n samples of a with the
// first n of b. The overlap is a ramped sum, so the result is n samples
// shorter than the plain concatenation.
func Crossfade(a, b []float32, n int) []float32 {
	n = min(n, len(a), len(b))
	if n < 0 {
		n = 0
	}
	split := len(a) - n
	out := make([]float32, split+len(b))
	copy(out, a[:split])
	if n > 0 {
		tail := vek32.Mul(a[split:], rampDown(n))
		head := vek32.Mul(b[:n], rampUp(n))
		vek32.Add_Into(out[split:split+n], tail, head)
	}
	copy(out[split+n:], b[n:])
	return out
}

// Concat joins buffers end to end into a new buffer.
func Concat(bufs ...[]float32) []float32 {
	total := 0
	for _, b := range bufs {
		total += len(b)
	}
	out := make([]float32, 0, total)
	for _, b := range bufs {
		out = append(out, b...)
	}
	return out
}
