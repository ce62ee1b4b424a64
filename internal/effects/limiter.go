package effects

import "math"

// Limiter is a feed-forward compressor with a hard ceiling at full scale.
// Averaging voices keeps the mix in range, but the hall can push peaks
// past 1.
type Limiter struct {
	threshold float32
	ratio     float32
	attack    float32 // coefficient
	release   float32 // coefficient
	makeup    float32
	env       float32
}

// NewLimiter takes the threshold and makeup gain in dB and the envelope
// times in milliseconds.
func NewLimiter(sampleRate int, thresholdDB, ratio, attackMs, releaseMs, makeupDB float32) *Limiter {
	sr := float64(sampleRate)
	return &Limiter{
		threshold: float32(math.Pow(10, float64(thresholdDB)/20)),
		ratio:     max(ratio, 1),
		attack:    envCoeff(attackMs, sr),
		release:   envCoeff(releaseMs, sr),
		makeup:    float32(math.Pow(10, float64(makeupDB)/20)),
	}
}

func envCoeff(ms float32, sr float64) float32 {
	if ms <= 0 {
		return 1
	}
	return float32(1.0 - math.Exp(-1.0/(float64(ms)*sr/1000.0)))
}

func (l *Limiter) Process(x float32) float32 {
	abs := float32(math.Abs(float64(x)))
	if abs > l.env {
		l.env += l.attack * (abs - l.env)
	} else {
		l.env += l.release * (abs - l.env)
	}
	return clamp(x*l.gain()*l.makeup, -1, 1)
}

func (l *Limiter) gain() float32 {
	if l.env <= l.threshold || l.threshold <= 0 {
		return 1
	}
	over := l.env / l.threshold
	return float32(math.Pow(float64(over), float64(1/l.ratio-1)))
}

func (l *Limiter) Reset() {
	l.env = 0
}
