// Package secretfile reads secrets from a local JSON credentials file.
package secretfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ericfisherdev/studyassistant/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SecretReader = (*File)(nil)

// File reads a flat JSON object of string secrets, e.g.
// {"GOOGLE_API_KEY": "..."}. The file is read on every call.
type File struct {
	path string
}

// New returns a File reading from path.
func New(path string) *File {
	return &File{path: path}
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// ReadSecret returns the value stored under name. A missing file, a missing
// key, or a blank value all yield ("", nil). A file that exists but is not a
// JSON object of strings is an error.
func (f *File) ReadSecret(name string) (string, error) {
	if f.path == "" {
		return "", nil
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read credentials file %s: %w", f.path, err)
	}

	var secrets map[string]string
	if err := json.Unmarshal(data, &secrets); err != nil {
		return "", fmt.Errorf("parse credentials file %s: %w", f.path, err)
	}

	return strings.TrimSpace(secrets[name]), nil
}
