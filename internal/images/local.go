package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/charlesng35/storeadmin/pkg/logger"
)

// LocalConfig configures a LocalStore.
type LocalConfig struct {
	// Root is the directory served as static content, for example "./public".
	Root string
	// BaseURL prefixes every returned URL, for example "http://localhost:8000".
	BaseURL string
}

// LocalStore writes images below Root. A file stored at <Root>/<dir>/<name>
// is reachable at <BaseURL>/<dir>/<name>.
type LocalStore struct {
	root    string
	baseURL string
	log     *zap.Logger
}

// NewLocalStore validates cfg and creates the root directory.
func NewLocalStore(cfg LocalConfig) (*LocalStore, error) {
	root := strings.TrimSpace(cfg.Root)
	if root == "" {
		return nil, errors.New("images: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("images: create root: %w", err)
	}
	return &LocalStore{
		root:    filepath.Clean(root),
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		log:     logger.WithModule("images"),
	}, nil
}

// Upload stores r under dir with a random name keeping the extension of filename.
func (s *LocalStore) Upload(ctx context.Context, dir, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel, err := cleanDir(dir)
	if err != nil {
		return "", err
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))

	target := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("images: create directory: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(target, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("images: create file: %w", err)
	}
	if _, err := io.Copy(file, r); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return "", fmt.Errorf("images: write file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("images: close file: %w", err)
	}

	return s.url(path.Join(rel, name)), nil
}

// Replace uploads the new image and then removes oldURL. Failing to remove the
// old file is logged; the new URL is still returned.
func (s *LocalStore) Replace(ctx context.Context, dir, filename string, r io.Reader, oldURL string) (string, error) {
	url, err := s.Upload(ctx, dir, filename, r)
	if err != nil {
		return "", err
	}
	if oldURL != "" {
		if err := s.Delete(ctx, oldURL); err != nil {
			s.log.Warn("failed to remove replaced image", zap.String("url", oldURL), zap.Error(err))
		}
	}
	return url, nil
}

// Delete removes the file behind url. Missing files are not an error.
func (s *LocalStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rel, ok := s.relative(url)
	if !ok {
		return ErrForeignURL
	}
	if _, err := cleanDir(path.Dir(rel)); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("images: remove file: %w", err)
	}
	return nil
}

func (s *LocalStore) url(rel string) string {
	if s.baseURL == "" {
		return "/" + rel
	}
	return s.baseURL + "/" + rel
}

func (s *LocalStore) relative(url string) (string, bool) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	rel := path.Clean(strings.TrimPrefix(url, prefix))
	if rel == "." || rel == "/" || strings.HasPrefix(rel, "..") || strings.HasPrefix(rel, "/") {
		return "", false
	}
	return rel, true
}

func cleanDir(dir string) (string, error) {
	rel := path.Clean("/" + strings.Trim(filepath.ToSlash(strings.TrimSpace(dir)), "/"))
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || rel == "." {
		return "", errors.New("images: directory is required")
	}
	return rel, nil
}
