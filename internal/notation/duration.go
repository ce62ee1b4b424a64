package notation

// BeatLength returns the length in beats of a 1/n note extended by dots.
// Each dot adds half of the running value, so dots compound.
func BeatLength(n int, dots int) float64 {
	if n <= 0 {
		return 0
	}
	return extendDots(4/float64(n), dots)
}

// FractionLength returns the length in beats of num/den notes, e.g. 3/8 is
// three eighths.
func FractionLength(num, den int, dots int) float64 {
	if den <= 0 {
		return 0
	}
	return extendDots(float64(num)*4/float64(den), dots)
}

// Seconds converts beats to seconds for a tempo given in beats per second.
func Seconds(beats float64, tempo float64) float64 {
	return beats / tempo
}

// TempoFactor converts beats per minute to beats per second.
func TempoFactor(bpm int) float64 {
	return float64(bpm) / 60
}

func extendDots(d float64, dots int) float64 {
	for k := 0; k < dots; k++ {
		d += d / 2
	}
	return d
}
