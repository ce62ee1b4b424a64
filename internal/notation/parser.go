package notation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Mode is the block kind the parser is currently inside.
type Mode int

const (
	ModeNone Mode = iota
	ModeInstruct
	ModeScore
	ModeVoice
)

const (
	chordOpen  = "<"
	chordClose = ">"
	restToken  = "-"
	tieSuffix  = "+"
)

type chordState int

const (
	chordIdle chordState = iota
	chordAccumulating
)

// ParseContext is the state carried from one line to the next. Octave,
// anchor, tempo and running duration persist until a directive or duration
// token changes them.
type ParseContext struct {
	Mode     Mode
	Octave   int
	Anchor   Anchor
	Tempo    float64 // beats per second
	Voice    int     // index of the active voice, -1 before the first \voice
	Duration float64 // running duration in seconds

	chord     chordState
	pending   []Event
	chordLine int
}

func NewParseContext(cfg ParserConfig) ParseContext {
	tempo := TempoFactor(cfg.DefaultBPM)
	if tempo <= 0 {
		tempo = TempoFactor(120)
	}
	anchor := cfg.DefaultAnchor
	if _, ok := ParseAnchor(string(anchor)); !ok {
		anchor = DefaultAnchor
	}
	lval := cfg.DefaultLValue
	if lval <= 0 {
		lval = 4
	}
	return ParseContext{
		Mode:     ModeNone,
		Octave:   cfg.DefaultOctave,
		Anchor:   anchor,
		Tempo:    tempo,
		Voice:    -1,
		Duration: Seconds(BeatLength(lval, 0), tempo),
	}
}

// event builds the note or rest named by tok from the current context.
func (c *ParseContext) event(tok string) (Event, bool) {
	if tok == restToken {
		return Event{Type: EventRest, Duration: c.Duration}, true
	}
	name, tie := strings.CutSuffix(tok, tieSuffix)
	deg, ok := ParseDegree(name)
	if !ok {
		return Event{}, false
	}
	return Event{
		Type:     EventNote,
		Degree:   deg,
		Octave:   c.Octave,
		Anchor:   c.Anchor,
		Duration: c.Duration,
		Tie:      tie,
	}, true
}

type Parser struct{ cfg ParserConfig }

func NewParser(cfg ParserConfig) *Parser { return &Parser{cfg: cfg} }

func (p *Parser) Parse(input string) (*Score, error) {
	return p.ParseReader(strings.NewReader(input))
}

// ParseReader compiles a whole document. Line-level anomalies are recorded
// as diagnostics; only a read failure is returned as an error. Lines have
// no length limit.
func (p *Parser) ParseReader(r io.Reader) (*Score, error) {
	b := &builder{ctx: NewParseContext(p.cfg), score: &Score{}}
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			b.line++
			if tokens, ok := Tokenize(line); ok {
				b.applyLine(tokens)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	b.flushChord()
	return b.score, nil
}

type builder struct {
	ctx   ParseContext
	score *Score
	line  int
}

func (b *builder) diag(kind DiagnosticKind, format string, args ...any) {
	b.score.Diagnostics = append(b.score.Diagnostics, Diagnostic{
		Line:    b.line,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

func (b *builder) applyLine(tokens []string) {
	if isDirective(tokens[0]) {
		b.applyDirective(tokens)
		return
	}
	switch b.ctx.Mode {
	case ModeInstruct:
		b.applyMetadata(tokens)
	case ModeVoice:
		for _, tok := range tokens {
			b.applyToken(tok)
		}
	}
}

func (b *builder) applyDirective(tokens []string) {
	kw := directiveKeyword(tokens[0])
	switch kw {
	case "instruct":
		b.ctx.Mode = ModeInstruct
	case "score":
		b.ctx.Mode = ModeScore
	case "voice":
		b.flushChord()
		b.score.Voices = append(b.score.Voices, Voice{Index: len(b.score.Voices)})
		b.ctx.Voice = len(b.score.Voices) - 1
		b.ctx.Mode = ModeVoice
	case "octave":
		arg, ok := directiveArg(tokens)
		if !ok {
			b.diag(DiagBadArgument, "\\octave needs an integer argument")
			return
		}
		oct, err := strconv.Atoi(arg)
		if err != nil {
			b.diag(DiagBadArgument, "\\octave %q is not an integer", arg)
			return
		}
		if oct < MinOctave || oct > MaxOctave {
			b.diag(DiagBadArgument, "\\octave %d is outside %d..%d", oct, MinOctave, MaxOctave)
			return
		}
		b.ctx.Octave = oct
	case "mutation":
		arg, ok := directiveArg(tokens)
		if !ok {
			b.diag(DiagBadArgument, "\\mutation needs a hexachord name")
			return
		}
		anchor, ok := ParseAnchor(arg)
		if !ok {
			b.diag(DiagBadArgument, "\\mutation %q is not one of %v", arg, Anchors())
			return
		}
		b.ctx.Anchor = anchor
	case "bpm":
		arg, ok := directiveArg(tokens)
		if !ok {
			b.diag(DiagBadArgument, "\\bpm needs an integer argument")
			return
		}
		bpm, err := strconv.Atoi(arg)
		if err != nil || bpm <= 0 {
			b.diag(DiagBadArgument, "\\bpm %q must be a positive integer", arg)
			return
		}
		b.ctx.Tempo = TempoFactor(bpm)
	default:
		b.ctx.Mode = ModeNone
		b.diag(DiagUnknownDirective, "unknown directive %q, content ignored until the next block", tokens[0])
	}
}

// applyMetadata handles `key: value` lines inside \instruct. Unknown keys
// are dropped and a repeated key overwrites the earlier value.
func (b *builder) applyMetadata(tokens []string) {
	key, rest := tokens[0], tokens[1:]
	if k, v, ok := strings.Cut(key, ":"); ok && v != "" {
		key = k
		rest = append([]string{v}, rest...)
	}
	key = strings.TrimRight(key, ":")
	value := strings.Join(rest, " ")
	switch key {
	case "title":
		b.score.Metadata.Title = value
	case "composer":
		b.score.Metadata.Composer = value
	}
}

func (b *builder) applyToken(tok string) {
	opens := strings.Contains(tok, chordOpen)
	if opens {
		tok = strings.ReplaceAll(tok, chordOpen, "")
		if b.ctx.chord == chordAccumulating {
			b.diag(DiagUnbalancedChord, "chord opened inside an open chord")
		} else {
			b.ctx.chordLine = b.line
		}
		b.ctx.chord = chordAccumulating
	}
	closes := strings.Contains(tok, chordClose)
	if closes {
		tok = strings.ReplaceAll(tok, chordClose, "")
	}
	if containsDigit(tok) || strings.Contains(tok, "/") {
		tok = b.applyDuration(tok)
	}

	ev, ok := b.ctx.event(tok)
	switch {
	case ok:
		if ev.Tie && (opens || closes || b.ctx.chord == chordAccumulating) {
			b.diag(DiagAmbiguousTie, "tie %q at a chord boundary ties forward into the next event", tok)
		}
		b.ctx.pending = append(b.ctx.pending, ev)
	case !closes:
		return
	}

	if b.ctx.chord == chordAccumulating && !closes {
		return
	}
	if closes && b.ctx.chord == chordIdle {
		b.diag(DiagUnbalancedChord, "chord closed without being opened")
	}
	b.emitChord()
}

// applyDuration consumes the duration part of tok, updates the running
// duration and returns what is left (normally a pitch name or nothing).
func (b *builder) applyDuration(tok string) string {
	start := strings.IndexFunc(tok, isDigit)
	if slash := strings.Index(tok, "/"); slash >= 0 {
		if start < 0 || slash < start {
			start = slash
		}
		prefix, frac := tok[:start], tok[start:]
		dots := strings.Count(frac, ".")
		frac = strings.ReplaceAll(frac, ".", "")
		numText, denText, _ := strings.Cut(frac, "/")
		num, errNum := strconv.Atoi(numText)
		den, errDen := strconv.Atoi(denText)
		if errNum != nil || errDen != nil || num < 0 {
			b.diag(DiagMalformedDuration, "duration %q is not a fraction of integers, using one beat", frac)
			b.ctx.Duration = Seconds(1, b.ctx.Tempo)
			return prefix
		}
		if num > 0 && den > 0 {
			b.ctx.Duration = Seconds(FractionLength(num, den, dots), b.ctx.Tempo)
		}
		return prefix
	}

	dots := strings.Count(tok, ".")
	tok = strings.ReplaceAll(tok, ".", "")
	start = strings.IndexFunc(tok, isDigit)
	end := start
	for end < len(tok) && tok[end] >= '0' && tok[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(tok[start:end])
	switch {
	case err != nil:
		b.diag(DiagMalformedDuration, "duration %q out of range, using one beat", tok[start:end])
		b.ctx.Duration = Seconds(1, b.ctx.Tempo)
	case n > 0:
		b.ctx.Duration = Seconds(BeatLength(n, dots), b.ctx.Tempo)
	}
	return tok[:start] + tok[end:]
}

func (b *builder) emitChord() {
	wasOpen := b.ctx.chord == chordAccumulating
	b.ctx.chord = chordIdle
	if len(b.ctx.pending) == 0 {
		if wasOpen {
			b.diag(DiagUnbalancedChord, "empty chord")
		}
		return
	}
	events := make([]Event, len(b.ctx.pending))
	copy(events, b.ctx.pending)
	b.ctx.pending = b.ctx.pending[:0]
	v := &b.score.Voices[b.ctx.Voice]
	v.Chords = append(v.Chords, Chord{Events: events})
}

// flushChord closes a chord left open at the end of a voice. Its notes are
// kept rather than dropped.
func (b *builder) flushChord() {
	if b.ctx.chord == chordIdle && len(b.ctx.pending) == 0 {
		return
	}
	b.score.Diagnostics = append(b.score.Diagnostics, Diagnostic{
		Line:    b.ctx.chordLine,
		Kind:    DiagUnterminatedChord,
		Message: fmt.Sprintf("chord opened here is never closed, keeping its %d notes", len(b.ctx.pending)),
	})
	b.emitChord()
}
