package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Dir reports one directory handled by Ensure.
type Dir struct {
	Path    string
	Created bool
}

// Ensure creates every missing directory in paths.
func Ensure(paths ...string) ([]Dir, error) {
	out := make([]Dir, 0, len(paths))
	for _, p := range paths {
		if p == "" || p == "." {
			continue
		}
		_, err := os.Stat(p)
		switch {
		case err == nil:
			out = append(out, Dir{Path: p})
		case errors.Is(err, fs.ErrNotExist):
			if err := os.MkdirAll(p, 0o755); err != nil {
				return out, fmt.Errorf("mkdir %s: %w", p, err)
			}
			out = append(out, Dir{Path: p, Created: true})
		default:
			return out, fmt.Errorf("stat %s: %w", p, err)
		}
	}
	return out, nil
}

// EnsureAt prepares the uploads and database directories of a service
// rooted at base.
func EnsureAt(base string) ([]Dir, error) {
	return Ensure(
		filepath.Join(base, "uploads"),
		filepath.Join(base, "database"),
	)
}
