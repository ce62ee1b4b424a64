package effects

// Hall is a Schroeder reverb: four parallel combs into two series allpasses.
// It gives the dry sine voices the resonance of a stone nave.
type Hall struct {
	combs   [4]delayLine
	allpass [2]delayLine
	wet     float32
}

type delayLine struct {
	buf []float32
	pos int
	fb  float32
}

// NewHall builds a hall reverb. roomSize scales the delay lengths, feedback
// sets the decay and wet is the wet/dry balance, all in 0..1.
func NewHall(sampleRate int, roomSize, feedback, wet float32) *Hall {
	base := max(int(float32(sampleRate)*roomSize*0.05), 10)
	fb := clamp(feedback, 0, 0.95)
	h := &Hall{wet: clamp(wet, 0, 1)}
	combLens := [4]int{base, base * 1117 / 1000, base * 1271 / 1000, base * 1437 / 1000}
	for i := range h.combs {
		h.combs[i] = delayLine{buf: make([]float32, combLens[i]), fb: fb}
	}
	apLens := [2]int{base * 347 / 1000, base * 213 / 1000}
	for i := range h.allpass {
		h.allpass[i] = delayLine{buf: make([]float32, max(apLens[i], 1)), fb: 0.5}
	}
	return h
}

func (h *Hall) Process(x float32) float32 {
	var out float32
	for i := range h.combs {
		out += h.combs[i].comb(x)
	}
	out *= 0.25
	for i := range h.allpass {
		out = h.allpass[i].allpass(out)
	}
	return x*(1-h.wet) + out*h.wet
}

func (h *Hall) Reset() {
	for i := range h.combs {
		h.combs[i].clear()
	}
	for i := range h.allpass {
		h.allpass[i].clear()
	}
}

func (d *delayLine) advance() {
	d.pos++
	if d.pos >= len(d.buf) {
		d.pos = 0
	}
}

func (d *delayLine) comb(in float32) float32 {
	out := d.buf[d.pos]
	d.buf[d.pos] = in + out*d.fb
	d.advance()
	return out
}

func (d *delayLine) allpass(in float32) float32 {
	held := d.buf[d.pos]
	d.buf[d.pos] = in + held*d.fb
	d.advance()
	return held - in
}

func (d *delayLine) clear() {
	clear(d.buf)
	d.pos = 0
}
