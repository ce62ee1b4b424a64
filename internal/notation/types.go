package notation

import "fmt"

// EventType distinguishes the members of a chord.
type EventType int

const (
	EventNote EventType = iota + 1
	EventRest
)

func (t EventType) String() string {
	switch t {
	case EventNote:
		return "note"
	case EventRest:
		return "rest"
	}
	return "unknown"
}

// MarshalText lets yaml and json dumps show "note"/"rest".
func (t EventType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *EventType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "note":
		*t = EventNote
	case "rest":
		*t = EventRest
	default:
		return fmt.Errorf("unknown event type %q", b)
	}
	return nil
}

// Degree is a solmization syllable inside a hexachord.
type Degree string

const (
	Ut  Degree = "ut"
	Re  Degree = "re"
	Mi  Degree = "mi"
	Fa  Degree = "fa"
	Sol Degree = "sol"
	La  Degree = "la"
)

// Anchor names the reference pitch a hexachord is built on.
type Anchor string

const (
	AnchorGamma Anchor = "G"
	AnchorLowC  Anchor = "c"
	AnchorLowF  Anchor = "f"
	AnchorLowG  Anchor = "g"
	AnchorMidC  Anchor = "c'"
	AnchorHighF Anchor = "f'"
	AnchorHighG Anchor = "g'"
)

// DefaultAnchor is the "middle" hexachord used until a \mutation directive.
const DefaultAnchor = AnchorMidC

// Event is a single note or rest. Degree, Octave, Anchor and Tie are only
// meaningful for EventNote.
type Event struct {
	Type     EventType `json:"type" yaml:"type"`
	Degree   Degree    `json:"degree,omitempty" yaml:"degree,omitempty"`
	Octave   int       `json:"octave" yaml:"octave"`
	Anchor   Anchor    `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	Duration float64   `json:"duration" yaml:"duration"`
	Tie      bool      `json:"tie,omitempty" yaml:"tie,omitempty"`
}

// Chord is a non-empty group of events sharing one onset.
type Chord struct {
	Events []Event `json:"events" yaml:"events"`
}

// Duration is the longest member duration.
func (c Chord) Duration() float64 {
	var d float64
	for _, ev := range c.Events {
		if ev.Duration > d {
			d = ev.Duration
		}
	}
	return d
}

// Tied reports whether any sounding member carries a tie.
func (c Chord) Tied() bool {
	for _, ev := range c.Events {
		if ev.Type == EventNote && ev.Tie {
			return true
		}
	}
	return false
}

// Silent reports whether the chord has no notes.
func (c Chord) Silent() bool {
	for _, ev := range c.Events {
		if ev.Type == EventNote {
			return false
		}
	}
	return true
}

type Voice struct {
	Index  int     `json:"index" yaml:"index"`
	Chords []Chord `json:"chords" yaml:"chords"`
}

type Metadata struct {
	Title    string `json:"title" yaml:"title"`
	Composer string `json:"composer" yaml:"composer"`
}

type Score struct {
	Metadata    Metadata     `json:"metadata" yaml:"metadata"`
	Voices      []Voice      `json:"voices" yaml:"voices"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

type ParserConfig struct {
	DefaultBPM    int
	DefaultOctave int
	DefaultAnchor Anchor
	// DefaultLValue is the beat denominator of the running duration before
	// any duration token is seen.
	DefaultLValue int
}

func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		DefaultBPM:    120,
		DefaultOctave: 0,
		DefaultAnchor: DefaultAnchor,
		DefaultLValue: 4,
	}
}
