package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/satriahrh/mika/domain/repositories"
)

const defaultExtension = "webm"

// DiskUploadStore writes uploaded audio under a directory
type DiskUploadStore struct {
	dir    string
	logger *zap.Logger
}

var _ repositories.UploadStore = (*DiskUploadStore)(nil)

// NewDiskUploadStore creates the upload directory if needed
func NewDiskUploadStore(dir string, logger *zap.Logger) (*DiskUploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}

	return &DiskUploadStore{dir: dir, logger: logger}, nil
}

// Save implements repositories.UploadStore.
// Files are named chat_<unix-ms>_<id>.<ext>, keeping the client's extension.
func (s *DiskUploadStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := fmt.Sprintf("chat_%d_%s.%s", time.Now().UnixMilli(), uuid.NewString()[:8], extension(filename))
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, readerWithContext{ctx: ctx, r: r})
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	s.logger.Debug("Upload saved",
		zap.String("path", path),
		zap.Int64("bytes", n))

	return path, nil
}

// extension returns the part after the last dot, or the default
func extension(filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filepath.Base(filename)), ".")
	if ext == "" {
		return defaultExtension
	}
	return ext
}

// readerWithContext stops a copy once the request is gone
type readerWithContext struct {
	ctx context.Context
	r   io.Reader
}

func (r readerWithContext) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
