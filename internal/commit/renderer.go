package commit

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/thomas-vilte/gravitycommit/internal/models"
)

// Renderer turns a category and a set of file descriptions into a commit
// message.
type Renderer struct {
	UseEmoji bool
}

// NewRenderer returns a renderer with glyph labels enabled or disabled.
func NewRenderer(useEmoji bool) Renderer {
	return Renderer{UseEmoji: useEmoji}
}

// Render builds "{label}: {verb} {description}" for a single file and
// "{label}: {plural} {n} files" for several. Added and Deleted changes force
// the verb to "add" and "remove".
func (r Renderer) Render(c Category, descriptions []string, kind models.ChangeKind) string {
	label := c.Label(r.UseEmoji)

	if len(descriptions) == 1 {
		return fmt.Sprintf("%s: %s %s", label, verbFor(c.Verb(), kind), descriptions[0])
	}
	return fmt.Sprintf("%s: %s %d files", label, verbFor(c.PluralVerb(), kind), len(descriptions))
}

// Message classifies and renders a single change in one step.
func (r Renderer) Message(change models.ChangeRecord, content ContentReader) (Category, string) {
	c := Classify(change.Path, change.Kind, content)
	return c, r.Render(c, []string{DescribeFile(change.Path)}, change.Kind)
}

func verbFor(natural string, kind models.ChangeKind) string {
	switch kind {
	case models.Added:
		return "add"
	case models.Deleted:
		return "remove"
	default:
		return natural
	}
}

// DescribeFile renders "stem (ext)" for a path with an extension and the bare
// file name otherwise. Directories are dropped.
func DescribeFile(filePath string) string {
	name := path.Base(filepath.ToSlash(filePath))
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if ext == "" || stem == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", stem, strings.TrimPrefix(ext, "."))
}
