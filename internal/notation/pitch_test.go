package notation

import (
	"math"
	"testing"
)

func TestFrequencyAnchorTable(t *testing.T) {
	if got := Frequency(Ut, 0, AnchorMidC); got != 262 {
		t.Fatalf("ut in c' = %v, want 262", got)
	}
	if got := Frequency(Ut, 0, AnchorGamma); got != 98 {
		t.Fatalf("ut in G = %v, want 98", got)
	}
	if got := Frequency(Ut, 0, AnchorHighG); got != 392 {
		t.Fatalf("ut in g' = %v, want 392", got)
	}
}

func TestFrequencyOctaveDoubling(t *testing.T) {
	for _, a := range Anchors() {
		for _, d := range Degrees() {
			for o := -2; o < 3; o++ {
				lo, hi := Frequency(d, o, a), Frequency(d, o+1, a)
				if math.Abs(hi-2*lo) > 1e-9*hi {
					t.Fatalf("%s/%s octave %d: %v is not double %v", a, d, o, hi, lo)
				}
			}
		}
	}
}

func TestFrequencySemitones(t *testing.T) {
	want := map[Degree]int{Ut: 0, Re: 2, Mi: 4, Fa: 5, Sol: 7, La: 9}
	for d, semis := range want {
		got := Frequency(d, 0, AnchorLowC)
		exp := 130 * math.Pow(2, float64(semis)/12)
		if math.Abs(got-exp) > 1e-9 {
			t.Fatalf("%s: got %v, want %v", d, got, exp)
		}
	}
}

func TestFrequencyUnknownAnchorFallsBack(t *testing.T) {
	if got := Frequency(Sol, 0, Anchor("h")); got != Frequency(Sol, 0, AnchorMidC) {
		t.Fatalf("unknown anchor should resolve as c', got %v", got)
	}
}

func TestBeatLength(t *testing.T) {
	for n := 1; n <= 32; n *= 2 {
		for d := 0; d < 4; d++ {
			want := (4 / float64(n)) * math.Pow(1.5, float64(d))
			if got := BeatLength(n, d); math.Abs(got-want) > 1e-12 {
				t.Fatalf("BeatLength(%d, %d) = %v, want %v", n, d, got, want)
			}
		}
	}
	if BeatLength(0, 1) != 0 {
		t.Fatalf("zero denominator should yield 0")
	}
}

func TestTempoFactor(t *testing.T) {
	if got := TempoFactor(120); got != 2 {
		t.Fatalf("TempoFactor(120) = %v, want 2", got)
	}
	if got := Seconds(BeatLength(4, 0), TempoFactor(120)); got != 0.5 {
		t.Fatalf("quarter at 120 bpm = %v, want 0.5", got)
	}
}
