package commit

import (
	"strings"
	"unicode"
)

// tokenize splits a name into lower-case words. Separators are any
// non-alphanumeric rune, letter/digit boundaries and camelCase humps, so
// "TestMain_v2" yields [test main v 2].
func tokenize(s string) []string {
	var (
		tokens []string
		cur    []rune
	)
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsDigit(r) != unicode.IsDigit(prev):
				flush()
			case unicode.IsUpper(r) && unicode.IsLower(prev):
				flush()
			case unicode.IsUpper(r) && unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				// "HTTPServer": break before the last capital of the run.
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return tokens
}

// keywordSet matches tokens by prefix so that "testing" hits "test" but
// "latest" does not.
type keywordSet []string

func (k keywordSet) matchToken(tok string) bool {
	for _, kw := range k {
		if strings.HasPrefix(tok, kw) {
			return true
		}
	}
	return false
}

func (k keywordSet) matchAny(tokens []string) bool {
	for _, tok := range tokens {
		if k.matchToken(tok) {
			return true
		}
	}
	return false
}

// exactSet matches whole tokens only.
type exactSet []string

func (e exactSet) matchAny(tokens []string) bool {
	for _, tok := range tokens {
		for _, w := range e {
			if tok == w {
				return true
			}
		}
	}
	return false
}
