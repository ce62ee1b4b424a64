package midifile

import (
	"bytes"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/organum-go/organum/internal/notation"
)

func parse(t *testing.T, src string) *notation.Score {
	t.Helper()
	score, err := notation.NewParser(notation.DefaultParserConfig()).Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return score
}

type noteStart struct {
	tick uint32
	ch   uint8
	key  uint8
}

func roundTrip(t *testing.T, score *notation.Score) *smf.SMF {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(&buf, score); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	return s
}

func starts(tr smf.Track) []noteStart {
	var out []noteStart
	var abs uint32
	for _, ev := range tr {
		abs += ev.Delta
		var ch, key, vel uint8
		if midi.Message(ev.Message).GetNoteOn(&ch, &key, &vel) && vel > 0 {
			out = append(out, noteStart{tick: abs, ch: ch, key: key})
		}
	}
	return out
}

func TestKey(t *testing.T) {
	tests := []struct {
		freq float64
		want uint8
	}{
		{440, 69},
		{262, 60},
		{98, 43},
		{0, 0},
		{1e9, 127},
	}
	for _, tc := range tests {
		if got := Key(tc.freq); got != tc.want {
			t.Fatalf("Key(%v) = %d, want %d", tc.freq, got, tc.want)
		}
	}
}

func TestChannelSkipsDrums(t *testing.T) {
	for v := 0; v < 40; v++ {
		if Channel(v) == 9 || Channel(v) > 15 {
			t.Fatalf("voice %d mapped to channel %d", v, Channel(v))
		}
	}
}

func TestWriteTracksPerVoice(t *testing.T) {
	score := parse(t, "\\instruct\ntitle: Viderunt\n\\score\n\\voice\nut re\n\\voice\n<sol la>\n")
	s := roundTrip(t, score)
	if len(s.Tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(s.Tracks))
	}
	got := starts(s.Tracks[1])
	if len(got) != 2 || got[0].key != 60 || got[1].key != 62 || got[1].tick != 480 {
		t.Fatalf("unexpected first voice notes: %+v", got)
	}
	chord := starts(s.Tracks[2])
	if len(chord) != 2 || chord[0].tick != 0 || chord[1].tick != 0 {
		t.Fatalf("expected simultaneous chord onsets, got %+v", chord)
	}
	if chord[0].ch != 1 {
		t.Fatalf("second voice channel = %d, want 1", chord[0].ch)
	}
}

func TestWriteTempoAndTitle(t *testing.T) {
	score := parse(t, "\\instruct\ntitle: Sederunt\n\\voice\nut\n")
	s := roundTrip(t, score)
	var bpm float64
	titled := false
	for _, ev := range s.Tracks[0] {
		ev.Message.GetMetaTempo(&bpm)
		if bytes.Contains(ev.Message, []byte("Sederunt")) {
			titled = true
		}
	}
	if bpm != tempoBPM {
		t.Fatalf("tempo = %v, want %v", bpm, tempoBPM)
	}
	if !titled {
		t.Fatalf("title missing from conductor track")
	}
}

func TestTiedNotesMerge(t *testing.T) {
	score := parse(t, "\\voice\nut+ ut re\n")
	sp := spans(score.Voices[0])
	if len(sp) != 2 {
		t.Fatalf("expected 2 spans, got %+v", sp)
	}
	if sp[0].on != 0 || sp[0].off != 960 {
		t.Fatalf("tied span = %+v, want 0..960", sp[0])
	}
}

func TestRestsAdvanceTime(t *testing.T) {
	score := parse(t, "\\voice\nut - re\n")
	got := starts(roundTrip(t, score).Tracks[1])
	if len(got) != 2 || got[1].tick != 960 {
		t.Fatalf("expected second onset at 960, got %+v", got)
	}
}
