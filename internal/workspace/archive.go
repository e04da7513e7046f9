package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"ocena/internal/config"
)

const (
	ArchiveLocal = "local"
	ArchiveMinIO = "minio"
	ArchiveNone  = "none"
)

// Archive keeps a copy of every accepted upload and returns where it went.
type Archive interface {
	Store(ctx context.Context, name string, data []byte) (string, error)
}

// NewArchive builds the archive selected by cfg.Archive.
func NewArchive(ctx context.Context, cfg config.StorageConfig) (Archive, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Archive)) {
	case "", ArchiveLocal:
		return NewLocalArchive(cfg.UploadsDir)
	case ArchiveMinIO:
		return NewMinIOArchive(ctx, cfg.MinIO)
	case ArchiveNone:
		return discardArchive{}, nil
	default:
		return nil, fmt.Errorf("unknown archive backend: %s", cfg.Archive)
	}
}

type LocalArchive struct {
	dir string
}

func NewLocalArchive(dir string) (*LocalArchive, error) {
	if _, err := Ensure(dir); err != nil {
		return nil, err
	}
	return &LocalArchive{dir: dir}, nil
}

func (a *LocalArchive) Store(_ context.Context, name string, data []byte) (string, error) {
	path := filepath.Join(a.dir, StoredName(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path, nil
}

type discardArchive struct{}

func (discardArchive) Store(context.Context, string, []byte) (string, error) {
	return "", nil
}

// StoredName prefixes the sanitized upload name with a fresh id.
func StoredName(name string) string {
	return uuid.NewString() + "_" + sanitizeSourceName(name)
}

func sanitizeSourceName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), `\`, "/")
	base := filepath.Base(name)
	if base == "" || base == "." || base == "/" || base == string(filepath.Separator) {
		return "upload"
	}
	base = strings.ReplaceAll(base, "..", "")
	if base == "" {
		return "upload"
	}
	return base
}
