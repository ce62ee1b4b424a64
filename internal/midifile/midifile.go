// Package midifile exports a compiled score as a Standard MIDI File.
package midifile

import (
	"fmt"
	"io"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/organum-go/organum/internal/notation"
)

// Resolution is the number of ticks per quarter note. The conductor track
// pins the tempo at 60 bpm so one quarter is one second and event times
// stay exact regardless of \bpm changes in the source.
const (
	Resolution = 960
	tempoBPM   = 60
	velocity   = 96
)

// Key returns the MIDI key nearest to freq, clamped to 0..127.
func Key(freq float64) uint8 {
	if freq <= 0 {
		return 0
	}
	k := math.Round(69 + 12*math.Log2(freq/440))
	return uint8(max(0, min(127, k)))
}

func ticks(sec float64) uint32 {
	return uint32(math.Round(sec * Resolution * tempoBPM / 60))
}

// Channel maps a voice index onto a melodic channel, skipping the GM drum
// channel.
func Channel(voice int) uint8 {
	ch := voice % 15
	if ch >= 9 {
		ch++
	}
	return uint8(ch)
}

type span struct {
	on, off uint32
	key     uint8
}

// spans lays a voice out on the tick grid. A tied note held into a chord
// containing the same key is extended rather than struck again.
func spans(v notation.Voice) []span {
	var out []span
	held := map[uint8]int{}
	var t float64
	for _, ch := range v.Chords {
		start := ticks(t)
		t += ch.Duration()
		end := ticks(t)
		next := map[uint8]int{}
		for _, ev := range ch.Events {
			if ev.Type != notation.EventNote {
				continue
			}
			k := Key(notation.EventFrequency(ev))
			i, ok := held[k]
			if ok {
				out[i].off = end
			} else {
				out = append(out, span{on: start, off: end, key: k})
				i = len(out) - 1
			}
			if ch.Tied() {
				next[k] = i
			}
		}
		held = next
	}
	return out
}

type event struct {
	tick uint32
	msg  midi.Message
	off  bool
}

func voiceTrack(v notation.Voice) smf.Track {
	ch := Channel(v.Index)
	var events []event
	for _, s := range spans(v) {
		events = append(events,
			event{tick: s.on, msg: midi.NoteOn(ch, s.key, velocity)},
			event{tick: s.off, msg: midi.NoteOff(ch, s.key), off: true},
		)
	}
	// note-offs first at equal ticks so repeated keys re-strike cleanly
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(fmt.Sprintf("voice %d", v.Index)))
	var last uint32
	for _, ev := range events {
		tr.Add(ev.tick-last, ev.msg)
		last = ev.tick
	}
	tr.Close(0)
	return tr
}

func conductorTrack(meta notation.Metadata) smf.Track {
	var tr smf.Track
	if meta.Title != "" {
		tr.Add(0, smf.MetaTrackSequenceName(meta.Title))
	}
	if meta.Composer != "" {
		tr.Add(0, smf.MetaCopyright(meta.Composer))
	}
	tr.Add(0, smf.MetaTempo(tempoBPM))
	tr.Close(0)
	return tr
}

// Build converts score into a format 1 file: a conductor track followed by
// one track per voice.
func Build(score *notation.Score) (*smf.SMF, error) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(Resolution)
	if err := s.Add(conductorTrack(score.Metadata)); err != nil {
		return nil, err
	}
	for _, v := range score.Voices {
		if err := s.Add(voiceTrack(v)); err != nil {
			return nil, fmt.Errorf("voice %d: %w", v.Index, err)
		}
	}
	return s, nil
}

func Write(w io.Writer, score *notation.Score) error {
	s, err := Build(score)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return err
}
