package notation

import "fmt"

// DiagnosticKind classifies recoverable anomalies found while parsing.
type DiagnosticKind string

const (
	DiagUnknownDirective  DiagnosticKind = "unknown-directive"
	DiagBadArgument       DiagnosticKind = "bad-argument"
	DiagMalformedDuration DiagnosticKind = "malformed-duration"
	DiagUnterminatedChord DiagnosticKind = "unterminated-chord"
	DiagUnbalancedChord   DiagnosticKind = "unbalanced-chord"
	DiagAmbiguousTie      DiagnosticKind = "ambiguous-tie"
)

type Diagnostic struct {
	Line    int            `json:"line" yaml:"line"`
	Kind    DiagnosticKind `json:"kind" yaml:"kind"`
	Message string         `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d: %s: %s", d.Line, d.Kind, d.Message)
}
