package commit

import (
	"bytes"
	"path"
	"path/filepath"
	"strings"

	"github.com/thomas-vilte/gravitycommit/internal/models"
)

// ContentReader lazily returns a file's content. It is only invoked when the
// name-based tiers find nothing.
type ContentReader func() ([]byte, error)

const (
	maxContentScan = 64 << 10
	binarySniffLen = 8000
)

type keywords struct {
	prefix keywordSet
	exact  exactSet
}

func (k keywords) match(tokens []string) bool {
	return k.prefix.matchAny(tokens) || k.exact.matchAny(tokens)
}

type rule struct {
	category Category
	words    keywords
	// suppressedBy vetoes the rule when the lower-cased file name contains it.
	suppressedBy string
}

func (r rule) matches(name string, tokens []string) bool {
	if r.suppressedBy != "" && strings.Contains(name, r.suppressedBy) {
		return false
	}
	return r.words.match(tokens)
}

// progressMarkers covers the generic progress words and the 25/50/75/100%
// marker sets. Numbers must be whole tokens.
var progressMarkers = []keywords{
	{prefix: keywordSet{"progress", "percent"}, exact: exactSet{"pct", "wip"}},
	{prefix: keywordSet{"quarter"}, exact: exactSet{"25"}},
	{prefix: keywordSet{"half", "midway"}, exact: exactSet{"50"}},
	{prefix: keywordSet{"almost", "nearly"}, exact: exactSet{"75"}},
	{prefix: keywordSet{"fully"}, exact: exactSet{"100"}},
}

// filenameRules are consulted in slice order; the order is the precedence.
var filenameRules = []rule{
	{category: Start, words: keywords{prefix: keywordSet{"start", "begin", "init", "kickoff"}}, suppressedBy: "create"},
	{category: Milestone, words: keywords{prefix: keywordSet{"milestone", "checkpoint", "phase", "stage", "step"}}},
	{category: Complete, words: keywords{prefix: keywordSet{"complete", "finish", "done", "final"}, exact: exactSet{"end"}}, suppressedBy: "percent"},
	{category: Deploy, words: keywords{prefix: keywordSet{"deploy", "release", "publish", "launch", "production"}}},
	{category: Review, words: keywords{prefix: keywordSet{"review", "feedback", "validat", "check"}, exact: exactSet{"qa"}}},
	{category: Test, words: keywords{prefix: keywordSet{"test"}, exact: exactSet{"spec", "specs"}}},
	{category: Docs, words: keywords{prefix: keywordSet{"readme", "changelog", "history"}}},
	{category: Chore, words: keywords{prefix: keywordSet{"setup", "install", "makefile", "config", "settings", "environment"}, exact: exactSet{"env"}}},
	{category: Security, words: keywords{prefix: keywordSet{"security", "authenticat", "authoriz", "login", "encrypt"}, exact: exactSet{"auth"}}},
	{category: Fix, words: keywords{prefix: keywordSet{"fix", "bug", "issue", "error"}}},
	{category: Feat, words: keywords{prefix: keywordSet{"feature", "feat"}, exact: exactSet{"new"}}},
	{category: Refactor, words: keywords{prefix: keywordSet{"refactor", "cleanup"}}},
	{category: Style, words: keywords{prefix: keywordSet{"style", "format", "lint"}}},
	{category: Perf, words: keywords{prefix: keywordSet{"perf", "speed", "optimiz"}}},
	{category: Revert, words: keywords{prefix: keywordSet{"revert", "rollback"}}},
}

// dirRules match whole parent directory names.
var dirRules = []rule{
	{category: Test, words: keywords{exact: exactSet{"test", "tests", "spec", "specs", "__tests__"}}},
	{category: Docs, words: keywords{exact: exactSet{"doc", "docs"}}},
	{category: Chore, words: keywords{exact: exactSet{"config", "configs", "build"}}},
	{category: Security, words: keywords{exact: exactSet{"security", "auth"}}},
	{category: Feat, words: keywords{exact: exactSet{"feature", "features", "new"}}},
	{category: Fix, words: keywords{exact: exactSet{"fix", "fixes", "bug", "bugs"}}},
}

var extensionCategories = map[string]Category{
	".md":   Docs,
	".txt":  Docs,
	".rst":  Docs,
	".adoc": Docs,
	".json": Chore,
	".yaml": Chore,
	".yml":  Chore,
	".toml": Chore,
	".ini":  Chore,
	".cfg":  Chore,
}

// contentRules lists the priority subset first and then the remaining
// categories in declaration order. Keep it that way: the order is the
// tie-break when content mentions several categories.
var contentRules = []rule{
	{category: Complete, words: keywords{prefix: keywordSet{"complete", "finished", "finaliz"}}},
	{category: Deploy, words: keywords{prefix: keywordSet{"deploy", "production"}}},
	{category: Review, words: keywords{prefix: keywordSet{"review", "feedback"}}},
	{category: Start, words: keywords{prefix: keywordSet{"start", "begin", "kickoff"}}},
	{category: Milestone, words: keywords{prefix: keywordSet{"milestone", "checkpoint"}}},

	{category: Progress, words: keywords{prefix: keywordSet{"progress"}, exact: exactSet{"wip"}}},
	{category: Fix, words: keywords{prefix: keywordSet{"fix", "bug", "hotfix"}}},
	{category: Refactor, words: keywords{prefix: keywordSet{"refactor", "restructur", "cleanup"}}},
	{category: Docs, words: keywords{prefix: keywordSet{"documentation", "docstring"}, exact: exactSet{"doc", "docs"}}},
	{category: Test, words: keywords{prefix: keywordSet{"test", "unittest"}}},
	{category: Feat, words: keywords{prefix: keywordSet{"feature"}}},
	{category: Style, words: keywords{prefix: keywordSet{"formatting", "lint", "stylesheet"}, exact: exactSet{"style"}}},
	{category: Perf, words: keywords{prefix: keywordSet{"performance", "optimiz", "benchmark"}}},
	{category: Security, words: keywords{prefix: keywordSet{"security", "vulnerab", "encrypt", "sanitiz"}}},
	{category: Revert, words: keywords{prefix: keywordSet{"revert", "rollback"}}},
	{category: Chore, words: keywords{prefix: keywordSet{"dependenc", "chore"}, exact: exactSet{"deps"}}},
}

// Classify assigns exactly one category to a changed file. It never fails:
// when no tier matches, the change kind decides.
func Classify(filePath string, kind models.ChangeKind, content ContentReader) Category {
	slashed := filepath.ToSlash(filePath)
	name := path.Base(slashed)
	lowerName := strings.ToLower(name)
	nameTokens := tokenize(name)

	var dirs []string
	if dir := path.Dir(slashed); dir != "." && dir != "/" {
		for _, seg := range strings.Split(dir, "/") {
			if seg != "" && seg != "." && seg != ".." {
				dirs = append(dirs, strings.ToLower(seg))
			}
		}
	}

	if isProgress(nameTokens, dirs) {
		return Progress
	}

	for _, r := range filenameRules {
		if r.matches(lowerName, nameTokens) {
			return r.category
		}
	}

	for _, r := range dirRules {
		if r.words.match(dirs) {
			return r.category
		}
	}

	if c, ok := extensionCategories[strings.ToLower(path.Ext(name))]; ok {
		return c
	}

	if c, ok := classifyContent(content); ok {
		return c
	}

	return fallback(kind)
}

func isProgress(nameTokens, dirs []string) bool {
	pathTokens := nameTokens
	for _, d := range dirs {
		pathTokens = append(pathTokens[:len(pathTokens):len(pathTokens)], tokenize(d)...)
	}
	for _, m := range progressMarkers {
		if m.match(pathTokens) {
			return true
		}
	}
	return false
}

func classifyContent(read ContentReader) (Category, bool) {
	if read == nil {
		return 0, false
	}
	data, err := read()
	if err != nil || len(data) == 0 {
		return 0, false
	}
	if isBinary(data) {
		return 0, false
	}
	if len(data) > maxContentScan {
		data = data[:maxContentScan]
	}

	tokens := tokenize(strings.ToLower(string(data)))
	for _, r := range contentRules {
		if r.words.match(tokens) {
			return r.category, true
		}
	}
	return 0, false
}

func isBinary(data []byte) bool {
	sniff := data
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	return bytes.IndexByte(sniff, 0) >= 0
}

func fallback(kind models.ChangeKind) Category {
	switch kind {
	case models.Added:
		return Add
	case models.Deleted:
		return Remove
	default:
		return Update
	}
}
