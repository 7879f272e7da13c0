package commit

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/thomas-vilte/gravitycommit/internal/errors"
)

// FileContent returns a reader for a file relative to the repository root.
// At most the scanned prefix is read; deleted files yield an IO error that
// the classifier ignores.
func FileContent(root, relPath string) ContentReader {
	return func() ([]byte, error) {
		f, err := os.Open(filepath.Join(root, relPath))
		if err != nil {
			return nil, errors.ErrReadContent.WithError(err).WithContext("path", relPath)
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, maxContentScan))
		if err != nil {
			return nil, errors.ErrReadContent.WithError(err).WithContext("path", relPath)
		}
		sniff := data
		if len(sniff) > binarySniffLen {
			sniff = sniff[:binarySniffLen]
		}
		if bytes.IndexByte(sniff, 0) >= 0 {
			return nil, errors.ErrBinaryContent.WithContext("path", relPath)
		}
		return data, nil
	}
}
