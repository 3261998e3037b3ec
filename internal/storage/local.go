// Package storage provides attachment content backends.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local writes attachment bytes to a directory on disk and addresses them
// under baseURL/uploads/. The server exposes the directory as static files.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) *Local {
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Local) Save(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	// random name on disk; the original filename lives on the attachment record
	name := uuid.New().String() + filepath.Ext(filename)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write attachment: %w", err)
	}
	return s.baseURL + "/uploads/" + name, nil
}
