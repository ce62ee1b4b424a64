package effects

import (
	"math"
	"testing"
)

func TestHallProducesTail(t *testing.T) {
	h := NewHall(44100, 0.5, 0.7, 0.5)
	h.Process(1.0)
	var maxOut float32
	for i := 0; i < 10000; i++ {
		if v := h.Process(0); v > maxOut {
			maxOut = v
		}
	}
	if maxOut < 0.001 {
		t.Error("expected reverb tail")
	}
}

func TestHallDryWhenWetIsZero(t *testing.T) {
	h := NewHall(44100, 0.8, 0.75, 0)
	for _, x := range []float32{0.5, -0.25, 1, 0} {
		if got := h.Process(x); got != x {
			t.Fatalf("expected dry passthrough %v, got %v", x, got)
		}
	}
}

func TestHallResetClearsState(t *testing.T) {
	h := NewHall(44100, 0.5, 0.7, 1)
	for i := 0; i < 5000; i++ {
		h.Process(1)
	}
	h.Reset()
	if got := h.Process(0); got != 0 {
		t.Fatalf("expected silence after reset, got %v", got)
	}
}

func TestLimiterReducesLoud(t *testing.T) {
	l := NewLimiter(44100, -10, 4, 1, 50, 0)
	var out float32
	for i := 0; i < 1000; i++ {
		out = l.Process(1.0)
	}
	if out >= 1.0 {
		t.Errorf("expected gain reduction, got %f", out)
	}
}

func TestLimiterPassesQuiet(t *testing.T) {
	l := NewLimiter(44100, -3, 8, 2, 120, 0)
	var out float32
	for i := 0; i < 1000; i++ {
		out = l.Process(0.1)
	}
	if math.Abs(float64(out)-0.1) > 1e-6 {
		t.Errorf("expected quiet signal untouched, got %f", out)
	}
}

func TestLimiterCeiling(t *testing.T) {
	l := NewLimiter(44100, 0, 1, 1, 50, 12)
	for i := 0; i < 100; i++ {
		if v := l.Process(0.9); v > 1 {
			t.Fatalf("sample %d above full scale: %f", i, v)
		}
	}
}

func TestChainApplyInOrder(t *testing.T) {
	c := NewChain(NewHall(44100, 0.8, 0.75, 0), NewLimiter(44100, 0, 1, 1, 50, 6))
	buf := []float32{0.9, -0.9, 0.1}
	c.Apply(buf)
	if buf[0] != 1 || buf[1] != -1 {
		t.Fatalf("expected makeup gain clipped to full scale, got %v", buf)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 effects, got %d", c.Len())
	}
}
