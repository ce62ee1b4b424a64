package notation

import "math"

// Anchor frequencies are rounded to whole Hz; degrees are laid over them in
// equal temperament rather than historical just intonation.
var anchorHz = map[Anchor]float64{
	AnchorGamma: 98,
	AnchorLowC:  130,
	AnchorLowF:  174,
	AnchorLowG:  196,
	AnchorMidC:  262,
	AnchorHighF: 349,
	AnchorHighG: 392,
}

var degreeSemitones = map[Degree]int{
	Ut: 0, Re: 2, Mi: 4, Fa: 5, Sol: 7, La: 9,
}

// Anchors lists the hexachord anchors from lowest to highest.
func Anchors() []Anchor {
	return []Anchor{AnchorGamma, AnchorLowC, AnchorLowF, AnchorLowG, AnchorMidC, AnchorHighF, AnchorHighG}
}

// Degrees lists the solmization syllables in scale order.
func Degrees() []Degree {
	return []Degree{Ut, Re, Mi, Fa, Sol, La}
}

func ParseAnchor(s string) (Anchor, bool) {
	a := Anchor(s)
	_, ok := anchorHz[a]
	return a, ok
}

func ParseDegree(s string) (Degree, bool) {
	d := Degree(s)
	_, ok := degreeSemitones[d]
	return d, ok
}

// AnchorFrequency returns the anchor's pitch in Hz, falling back to the
// default anchor for unknown names.
func AnchorFrequency(a Anchor) float64 {
	if hz, ok := anchorHz[a]; ok {
		return hz
	}
	return anchorHz[DefaultAnchor]
}

// Semitone returns the degree's offset above ut. Unknown degrees sound as ut.
func Semitone(d Degree) int {
	return degreeSemitones[d]
}

// Octave shifts outside this range leave the audible band.
const (
	MinOctave = -4
	MaxOctave = 4
)

// Frequency resolves a degree in a hexachord to Hz.
func Frequency(d Degree, octave int, a Anchor) float64 {
	return AnchorFrequency(a) * math.Pow(2, float64(Semitone(d))/12) * math.Pow(2, float64(octave))
}

// EventFrequency is Frequency applied to a note event.
func EventFrequency(ev Event) float64 {
	return Frequency(ev.Degree, ev.Octave, ev.Anchor)
}
