package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/plantio/backend/internal/domain/providers"
)

// LocalBlobStore stores uploads on the local filesystem, content-addressed
// by the SHA-256 of the bytes. Saving the same bytes twice is a no-op.
type LocalBlobStore struct {
	baseDir string
}

var _ providers.BlobStore = (*LocalBlobStore)(nil)

// NewLocalBlobStore creates the base directory when missing.
func NewLocalBlobStore(baseDir string) (*LocalBlobStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalBlobStore{baseDir: baseDir}, nil
}

// Save writes content under <sha256><ext>, keeping the original extension
// for tooling convenience. Existing files are left untouched.
func (s *LocalBlobStore) Save(filename string, content []byte) (string, string, error) {
	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}

	path := filepath.Join(s.baseDir, hash+ext)
	if _, err := os.Stat(path); err == nil {
		return path, hash, nil
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write upload: %w", err)
	}

	return path, hash, nil
}
