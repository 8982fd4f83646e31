package macros

import (
	"regexp"
	"strings"

	"github.com/nickwells/location.mod/location"
)

// DfltSourceName is the name given to the source by Tokenize
const DfltSourceName = "input"

// lexRule pairs a token kind with the pattern recognising it. Patterns must
// not contain capturing groups.
type lexRule struct {
	kind    Kind
	pattern string
}

// lexRules is the grammar. At each position the first rule that matches
// wins so the more specific shapes must come first.
var lexRules = []lexRule{
	{KindTerminator, `!!`},
	{KindFloat, `-?\d+\.\d+`},
	{KindInt, `-?\d+`},
	{KindSigil, `[@!]\w+`},
	{KindWord, `\w+[:!]?`},
	{KindString, `"(?:[^"\\\n]|\\"|\\)*?"`},
}

var lexRE = compileRules(lexRules)

// compileRules builds a single alternation from the rules, one capturing
// group per rule, so that the index of the matching group gives the kind.
func compileRules(rules []lexRule) *regexp.Regexp {
	alts := make([]string, 0, len(rules))
	for _, r := range rules {
		alts = append(alts, "("+r.pattern+")")
	}
	return regexp.MustCompile(strings.Join(alts, "|"))
}

// Tokenize splits the source into lines of tokens. See TokenizeNamed.
func Tokenize(src string) []Line {
	return TokenizeNamed(DfltSourceName, src)
}

// TokenizeNamed splits the source into lines of tokens. Each physical line
// is trimmed and blank lines are dropped; the remaining lines are numbered
// from 1 and that number is recorded in the location of the line and in
// each of its tokens. Text that matches none of the lexical rules is
// skipped without comment and a line that yields no tokens is dropped.
func TokenizeNamed(name, src string) []Line {
	var lines []Line

	loc := location.New(name)
	for _, s := range strings.Split(src, "\n") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		loc.Incr()

		tokens := scanLine(s, int(loc.Idx()))
		if len(tokens) == 0 {
			continue
		}
		lineLoc := *loc
		lines = append(lines, Line{Tokens: tokens, Loc: &lineLoc})
	}
	return lines
}

// scanLine extracts the tokens from a single trimmed line
func scanLine(s string, lineNum int) []Token {
	var tokens []Token
	for _, m := range lexRE.FindAllStringSubmatchIndex(s, -1) {
		for i := range lexRules {
			start := m[2*(i+1)]
			if start < 0 {
				continue
			}
			tokens = append(tokens, Token{
				Kind: lexRules[i].kind,
				Text: s[start:m[2*(i+1)+1]],
				Line: lineNum,
			})
			break
		}
	}
	return tokens
}
