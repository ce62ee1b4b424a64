package organum

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/organum-go/organum/internal/config"
)

const twoVoices = `\instruct {
  title: Alleluia
}
\score {
  \voice {
    ut re+ mi
  }
  \bpm 60
  \voice {
    <sol la> - 2 fa
  }
}
`

func mustCompile(t *testing.T, src string) *Score {
	t.Helper()
	score, err := CompileString(src)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return score
}

func TestCompileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alleluia.organum")
	if err := os.WriteFile(path, []byte(twoVoices), 0o644); err != nil {
		t.Fatal(err)
	}
	score, err := Compile(path)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if score.Metadata.Title != "Alleluia" || len(score.Voices) != 2 {
		t.Fatalf("unexpected score: %+v", score)
	}
}

func TestCompileMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.organum")
	score, err := Compile(path)
	if score != nil {
		t.Fatalf("expected no score on file error")
	}
	var fe *FileError
	if !errors.As(err, &fe) || fe.Path != path {
		t.Fatalf("expected FileError for %s, got %v", path, err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestCompileLongLineIsNotFileError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.organum")
	src := "\\voice\n" + strings.Repeat("re ", 500_000) + "\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	score, err := Compile(path)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if n := len(score.Voices[0].Chords); n != 500_000 {
		t.Fatalf("expected 500000 chords, got %d", n)
	}
}

func TestRenderEqualsMixOfVoices(t *testing.T) {
	score := mustCompile(t, twoVoices)
	got, err := Render(score)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	a, err := Synthesize(score.Voices[0])
	if err != nil {
		t.Fatalf("voice 0: %v", err)
	}
	b, err := Synthesize(score.Voices[1])
	if err != nil {
		t.Fatalf("voice 1: %v", err)
	}
	want, err := Mix(a, b)
	if err != nil {
		t.Fatalf("mix: %v", err)
	}
	if len(got) != len(want) || len(got) != max(len(a), len(b)) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRenderSkipsEmptyVoices(t *testing.T) {
	score := mustCompile(t, "\\voice\n\\voice\nut\n")
	got, err := Render(score)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want, _ := Synthesize(score.Voices[1])
	if len(got) != len(want) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRenderNoVoices(t *testing.T) {
	for _, src := range []string{"", "\\instruct\ntitle: x\n", "\\voice\n\\voice\n"} {
		if _, err := Render(mustCompile(t, src)); !errors.Is(err, ErrNoVoices) {
			t.Fatalf("%q: expected ErrNoVoices, got %v", src, err)
		}
	}
}

func TestRenderAppliesEffects(t *testing.T) {
	score := mustCompile(t, twoVoices)
	dry, _ := Render(score)
	cfg := config.Default()
	cfg.Hall.Enabled = true
	cfg.Limiter.Enabled = true
	cfg.Limiter.MakeupDB = 12
	wet, err := Render(score, WithConfig(cfg))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(wet) != len(dry) {
		t.Fatalf("effects changed length")
	}
	differs := false
	for i := range wet {
		if wet[i] > 1 || wet[i] < -1 {
			t.Fatalf("sample %d out of range: %v", i, wet[i])
		}
		if wet[i] != dry[i] {
			differs = true
		}
	}
	if !differs {
		t.Fatalf("expected effects to change the mix")
	}
}

func TestRenderSampleRate(t *testing.T) {
	score := mustCompile(t, "\\voice\nut\n")
	buf, err := Render(score, WithSampleRate(8000))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := 4000 + 8000; len(buf) != want {
		t.Fatalf("expected %d samples, got %d", want, len(buf))
	}
	if _, err := Render(score, WithSampleRate(0)); err == nil {
		t.Fatalf("expected error for zero sample rate")
	}
}

func TestRenderVoicesOrder(t *testing.T) {
	score := mustCompile(t, twoVoices)
	bufs, err := RenderVoices(score)
	if err != nil {
		t.Fatalf("render voices: %v", err)
	}
	if len(bufs) != 2 {
		t.Fatalf("expected 2 buffers, got %d", len(bufs))
	}
	a, _ := Synthesize(score.Voices[0])
	if len(bufs[0]) != len(a) {
		t.Fatalf("voice 0 length %d, want %d", len(bufs[0]), len(a))
	}
}
