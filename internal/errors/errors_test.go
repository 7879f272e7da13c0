package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_WithError(t *testing.T) {
	baseErr := errors.New("original error")
	appErr := ErrCreateCommit.WithError(baseErr)

	if appErr.Err != baseErr {
		t.Errorf("Expected underlying error to be %v, got %v", baseErr, appErr.Err)
	}

	if appErr.Type != TypeCommit {
		t.Errorf("Expected type %s, got %s", TypeCommit, appErr.Type)
	}
}

func TestAppError_WithContext(t *testing.T) {
	appErr := ErrAddFile.WithContext("file", "test.txt").WithContext("stderr", "file not found")

	if appErr.Context["file"] != "test.txt" {
		t.Errorf("Expected file context 'test.txt', got %v", appErr.Context["file"])
	}

	if appErr.Context["stderr"] != "file not found" {
		t.Errorf("Expected stderr context 'file not found', got %v", appErr.Context["stderr"])
	}

	if ErrAddFile.Context != nil {
		t.Error("Original error should not have context")
	}
}

func TestAppError_Error_Format(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		contains []string
	}{
		{
			name:     "Simple error without underlying error",
			err:      ErrNotInGitRepo,
			contains: []string{"REPOSITORY", "Not a git repository"},
		},
		{
			name:     "Error with underlying error",
			err:      ErrGetStatus.WithError(errors.New("exit status 128")),
			contains: []string{"REPOSITORY", "Failed to read repository status", "exit status 128"},
		},
		{
			name: "Error with context including stderr",
			err: ErrAddFile.WithError(errors.New("exit status 128")).
				WithContext("file", "main.go").
				WithContext("stderr", "did not match any files"),
			contains: []string{"COMMIT", "Failed to add file to staging", "exit status 128", "did not match any files"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errMsg := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(errMsg, substr) {
					t.Errorf("Expected error message to contain %q, got: %s", substr, errMsg)
				}
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	baseErr := errors.New("base error")
	appErr := ErrCreateCommit.WithError(baseErr)

	if appErr.Unwrap() != baseErr {
		t.Errorf("Expected unwrapped error to be %v, got %v", baseErr, appErr.Unwrap())
	}

	if !errors.Is(appErr, baseErr) {
		t.Error("errors.Is should work with AppError")
	}
}

func TestAppError_IsMatchesSentinelCopies(t *testing.T) {
	wrapped := fmt.Errorf("cycle: %w", ErrGetStatus.WithError(errors.New("boom")).WithContext("path", "/tmp"))

	if !errors.Is(wrapped, ErrGetStatus) {
		t.Error("copies of a sentinel should match it with errors.Is")
	}
	if errors.Is(wrapped, ErrNotInGitRepo) {
		t.Error("different sentinels must not match")
	}
}

func TestTypeOf(t *testing.T) {
	if got := TypeOf(fmt.Errorf("x: %w", ErrConfigMalformed)); got != TypeConfiguration {
		t.Errorf("expected %s, got %s", TypeConfiguration, got)
	}
	if got := TypeOf(errors.New("plain")); got != TypeInternal {
		t.Errorf("expected %s, got %s", TypeInternal, got)
	}
}
