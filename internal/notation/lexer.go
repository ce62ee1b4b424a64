package notation

import "strings"

const (
	directiveMarker = '\\'
	commentMarker   = '#'
)

// Tokenize splits one raw line into whitespace-separated tokens. It returns
// false for lines that carry nothing: blank lines, a lone closing brace, and
// comments.
func Tokenize(line string) ([]string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line == "}" || line[0] == commentMarker {
		return nil, false
	}
	return strings.Fields(line), true
}

func isDirective(tok string) bool {
	return len(tok) > 0 && tok[0] == directiveMarker
}

// directiveKeyword extracts the keyword from a directive token, dropping the
// marker and any fused brace: `\voice{` -> "voice".
func directiveKeyword(tok string) string {
	kw := strings.TrimLeft(tok, string(directiveMarker))
	if i := strings.IndexAny(kw, "{}"); i >= 0 {
		kw = kw[:i]
	}
	return strings.TrimSpace(kw)
}

// directiveArg returns the first argument token after the keyword, ignoring
// an opening brace.
func directiveArg(tokens []string) (string, bool) {
	if len(tokens) < 2 {
		return "", false
	}
	arg := strings.TrimRight(tokens[1], "{")
	if arg == "" {
		return "", false
	}
	return arg, true
}

func containsDigit(s string) bool {
	return strings.IndexFunc(s, isDigit) >= 0
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
