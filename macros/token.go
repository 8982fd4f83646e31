package macros

import (
	"strings"

	"github.com/nickwells/location.mod/location"
)

// Kind records the lexical shape of a token. It is decided when the token
// is scanned and never changes afterwards.
type Kind int

// These are the token kinds, in the order the lexical rules are tried
const (
	KindTerminator Kind = iota // !!
	KindFloat                  // -12.5
	KindInt                    // -12
	KindSigil                  // !name or @name
	KindWord                   // name, name: or name!
	KindString                 // "text"
)

var kindNames = [...]string{
	KindTerminator: "terminator",
	KindFloat:      "float",
	KindInt:        "int",
	KindSigil:      "sigil",
	KindWord:       "word",
	KindString:     "string",
}

// String returns the name of the kind
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Token is a single lexical unit. Line is the 1-based index of the source
// line among the non-blank lines of the input.
type Token struct {
	Kind Kind
	Text string
	Line int
}

// String returns the token text
func (t Token) String() string {
	return t.Text
}

// isDefinitionStart reports whether the token opens a definition block
func (t Token) isDefinitionStart() bool {
	return t.Kind == KindSigil && strings.HasPrefix(t.Text, "!")
}

// isBanged reports whether the token is a word with a trailing '!'. Such a
// token names a macro when it starts a line and a parameter when it
// appears in a macro body.
func (t Token) isBanged() bool {
	return t.Kind == KindWord && strings.HasSuffix(t.Text, "!")
}

// bangName returns the token text without its trailing '!'
func (t Token) bangName() string {
	return strings.TrimSuffix(t.Text, "!")
}

// Line is the sequence of tokens scanned from one source line. Loc gives
// the source name and line number and is used in diagnostics.
type Line struct {
	Tokens []Token
	Loc    *location.L
}

// String returns the tokens joined with single spaces
func (l Line) String() string {
	texts := make([]string, 0, len(l.Tokens))
	for _, t := range l.Tokens {
		texts = append(texts, t.Text)
	}
	return strings.Join(texts, " ")
}

// first returns the leading token of the line. Every line produced by the
// tokenizer has at least one token.
func (l Line) first() Token {
	return l.Tokens[0]
}

// isTerminator reports whether the line closes a definition block
func (l Line) isTerminator() bool {
	return len(l.Tokens) > 0 && l.first().Kind == KindTerminator
}

// JoinLines flattens the lines into text: tokens are separated by a single
// space and lines by a newline. No trailing newline is added.
func JoinLines(lines []Line) string {
	strs := make([]string, 0, len(lines))
	for _, l := range lines {
		strs = append(strs, l.String())
	}
	return strings.Join(strs, "\n")
}
