package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Dir serves documents from a local directory, keyed by relative file
// path. Intended for development without object storage.
type Dir struct {
	root string
}

// NewDir creates a Dir source rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Fetch reads the file under key. A missing file maps to ErrNotFound.
func (d *Dir) Fetch(ctx context.Context, key string) (string, error) {
	b, err := os.ReadFile(filepath.Join(d.root, key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(b), nil
}

// Put writes text to the file under key, creating directories as needed.
func (d *Dir) Put(ctx context.Context, key, text string) error {
	path := filepath.Join(d.root, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
