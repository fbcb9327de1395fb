package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FSStore writes documents under a root directory and serves them from
// a URL prefix (the API mounts the root as a static file group).
type FSStore struct {
	root    string
	baseURL string
	logger  *zap.Logger
}

func NewFSStore(root, baseURL string, logger ...*zap.Logger) *FSStore {
	l := zap.L().Named("document.fs_store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("document.fs_store")
	}
	return &FSStore{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  l,
	}
}

func (s *FSStore) Put(ctx context.Context, path string, content []byte, contentType string) (string, error) {
	clean := filepath.Clean("/" + path)
	if clean == "/" {
		return "", fmt.Errorf("empty document path")
	}

	target := filepath.Join(s.root, clean)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create document dir: %w", err)
	}

	if err := os.WriteFile(target, content, 0o644); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}

	url := s.baseURL + filepath.ToSlash(clean)
	s.logger.Debug("document stored",
		zap.String("path", clean),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(content)),
	)
	return url, nil
}

// Root exposes the storage directory so the router can mount it.
func (s *FSStore) Root() string {
	return s.root
}
