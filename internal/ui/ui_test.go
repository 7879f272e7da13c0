package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
)

func init() {
	color.NoColor = true
}

func TestHandleAppError(t *testing.T) {
	t.Run("app error with suggestion", func(t *testing.T) {
		var buf bytes.Buffer
		err := domainErrors.ErrNotInGitRepo.WithError(errors.New("exit status 128"))

		HandleAppError(&buf, err, nil)

		out := buf.String()
		assert.Contains(t, out, "REPOSITORY: Not a git repository")
		assert.Contains(t, out, "exit status 128")
		assert.Contains(t, out, "💡 Suggestion: ")
	})

	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer
		HandleAppError(&buf, errors.New("boom"), nil)
		assert.Equal(t, "❌ Error: boom\n", buf.String())
	})

	t.Run("nil error prints nothing", func(t *testing.T) {
		var buf bytes.Buffer
		HandleAppError(&buf, nil, nil)
		assert.Empty(t, buf.String())
	})
}

func TestAskConfirmation(t *testing.T) {
	for input, want := range map[string]bool{"y\n": true, "YES\n": true, "si\n": true, "n\n": false, "": false} {
		var out bytes.Buffer
		assert.Equal(t, want, AskConfirmation(strings.NewReader(input), &out, "Continue?"), input)
		assert.Contains(t, out.String(), "Continue? (y/n)")
	}
}

func TestWithSpinner(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WithSpinner(&buf, "Reading history", func() error { return nil }))
	assert.Contains(t, buf.String(), "Reading history")

	buf.Reset()
	assert.EqualError(t, WithSpinner(&buf, "Reading history", func() error { return errors.New("x") }), "x")
}

func TestPrintKeyValue(t *testing.T) {
	var buf bytes.Buffer
	PrintKeyValue(&buf, "Branch", "main")
	assert.Equal(t, "   Branch: main\n", buf.String())
}
