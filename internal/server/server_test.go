package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/organum-go/organum"
	"github.com/organum-go/organum/internal/config"
)

const source = "\\instruct\ntitle: Haec dies\n\\voice\nut re <mi sol>\n\\bogus\n"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.SampleRate = 8000
	ts := httptest.NewServer(New(cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatalf("missing request id")
	}
}

func TestCompile(t *testing.T) {
	resp := post(t, newTestServer(t), "/compile", source)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var score organum.Score
	if err := json.NewDecoder(resp.Body).Decode(&score); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if score.Metadata.Title != "Haec dies" {
		t.Fatalf("title = %q", score.Metadata.Title)
	}
	if len(score.Voices) != 1 || len(score.Voices[0].Chords) != 3 {
		t.Fatalf("unexpected voices: %+v", score.Voices)
	}
	if len(score.Diagnostics) != 1 || score.Diagnostics[0].Line != 5 {
		t.Fatalf("unexpected diagnostics: %+v", score.Diagnostics)
	}
}

func TestRender(t *testing.T) {
	resp := post(t, newTestServer(t), "/render", source)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "audio/wav" {
		t.Fatalf("content type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	// three half-second chords plus a one second tail at 8 kHz
	if want := 44 + (3*4000+8000)*4; len(body) != want {
		t.Fatalf("body length = %d, want %d", len(body), want)
	}
}

func TestRenderNoVoices(t *testing.T) {
	resp := post(t, newTestServer(t), "/render", "\\instruct\ntitle: empty\n")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestRenderRejectsOverlongVoice(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "/render", "\\voice\n999999999/1 ut\n")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	// the server is still up
	if resp := post(t, ts, "/render", source); resp.StatusCode != http.StatusOK {
		t.Fatalf("follow-up render status = %d", resp.StatusCode)
	}
}

func TestRenderLimitTighterThanSynth(t *testing.T) {
	cfg := config.Default()
	cfg.SampleRate = 8000
	cfg.Server.MaxRenderSeconds = 1
	ts := httptest.NewServer(New(cfg).Handler())
	defer ts.Close()
	resp := post(t, ts, "/render", "\\voice\n1 ut\n")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 for a 2s voice over a 1s limit", resp.StatusCode)
	}
}

func TestMIDI(t *testing.T) {
	resp := post(t, newTestServer(t), "/midi", source)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(body), "MThd") {
		t.Fatalf("missing MIDI header")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/compile")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
