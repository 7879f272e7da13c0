// Package commit classifies changed files into commit categories and renders
// the commit message for them. Everything here is pure and safe for
// concurrent use.
package commit

import "fmt"

// Category is one tag of the fixed commit taxonomy.
type Category int

const (
	Start Category = iota
	Progress
	Milestone
	Complete
	Fix
	Refactor
	Docs
	Test
	Deploy
	Review
	Feat
	Style
	Perf
	Security
	Revert
	Chore
	Add
	Update
	Remove

	numCategories
)

type categoryInfo struct {
	name   string
	glyph  string
	title  string
	verb   string
	plural string
}

var categories = [numCategories]categoryInfo{
	Start:     {"start", "🚀", "START", "start", "start"},
	Progress:  {"progress", "📈", "PROGRESS", "continue", "continue work on"},
	Milestone: {"milestone", "🎯", "MILESTONE", "reach", "reach milestone in"},
	Complete:  {"complete", "✅", "COMPLETE", "complete", "complete"},
	Fix:       {"fix", "🐛", "FIX", "fix", "fix"},
	Refactor:  {"refactor", "♻️", "REFACTOR", "refactor", "refactor"},
	Docs:      {"docs", "📚", "DOCS", "update", "update"},
	Test:      {"test", "🧪", "TEST", "update", "update"},
	Deploy:    {"deploy", "🚀", "DEPLOY", "deploy", "deploy"},
	Review:    {"review", "👀", "REVIEW", "review", "review"},
	Feat:      {"feat", "✨", "FEAT", "implement", "implement"},
	Style:     {"style", "💄", "STYLE", "format", "format"},
	Perf:      {"perf", "⚡", "PERF", "optimize", "optimize"},
	Security:  {"security", "🔒", "SECURITY", "secure", "secure"},
	Revert:    {"revert", "⏪", "REVERT", "revert", "revert"},
	Chore:     {"chore", "🔧", "CHORE", "update", "update"},
	Add:       {"add", "➕", "ADD", "add", "add"},
	Update:    {"update", "📝", "UPDATE", "update", "update"},
	Remove:    {"remove", "🔥", "REMOVE", "remove", "remove"},
}

func (c Category) info() categoryInfo {
	if c < 0 || c >= numCategories {
		panic(fmt.Sprintf("commit: unknown category %d", int(c)))
	}
	return categories[c]
}

func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categories[c].name
}

// Label is the display label, optionally prefixed by the category glyph.
func (c Category) Label(emoji bool) string {
	info := c.info()
	if emoji {
		return info.glyph + " " + info.title
	}
	return info.name
}

// Verb is the singular action verb.
func (c Category) Verb() string { return c.info().verb }

// PluralVerb is the action verb used for multi-file messages.
func (c Category) PluralVerb() string { return c.info().plural }

// Categories lists the taxonomy in declaration order.
func Categories() []Category {
	out := make([]Category, 0, numCategories)
	for c := Category(0); c < numCategories; c++ {
		out = append(out, c)
	}
	return out
}

// ParseCategory maps a category name back to its value.
func ParseCategory(name string) (Category, bool) {
	for c := Category(0); c < numCategories; c++ {
		if categories[c].name == name {
			return c, true
		}
	}
	return 0, false
}

// CategoryFromMessage recovers the category from a message produced by
// Render, with or without glyphs. It returns false for foreign messages.
func CategoryFromMessage(message string) (Category, bool) {
	for c := Category(0); c < numCategories; c++ {
		for _, emoji := range []bool{true, false} {
			prefix := c.Label(emoji) + ": "
			if len(message) >= len(prefix) && message[:len(prefix)] == prefix {
				return c, true
			}
		}
	}
	return 0, false
}
