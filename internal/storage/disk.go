package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskStorage implements FileStorage on the local filesystem. Assets are
// written under root/<container>/<uuid><ext> and exposed through the
// server's static /uploads route, so the returned URL is
// baseURL/uploads/<container>/<name>.
type DiskStorage struct {
	root    string // directory that holds one subdirectory per container
	baseURL string // external base URL, no trailing slash
}

// NewDiskStorage creates the root directory if needed and returns a
// DiskStorage rooted there.
func NewDiskStorage(root, baseURL string) (*DiskStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &DiskStorage{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save writes content to a freshly named object in container and returns its
// URL. The object name is a UUID plus the original file extension, so two
// uploads of the same file never collide.
func (s *DiskStorage) Save(ctx context.Context, container, fileName string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := filepath.Join(s.root, container)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(fileName))
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return s.baseURL + "/uploads/" + container + "/" + name, nil
}

// Edit replaces the asset at oldRoute with content: the old object is
// deleted first (missing objects are fine) and the new one saved under a new
// name.
func (s *DiskStorage) Edit(ctx context.Context, container, fileName string, content io.Reader, oldRoute string) (string, error) {
	if err := s.Delete(ctx, oldRoute, container); err != nil {
		return "", err
	}
	return s.Save(ctx, container, fileName, content)
}

// Delete removes the object addressed by fileRoute from container. An empty
// route and a missing object are both no-ops so deletes stay idempotent.
func (s *DiskStorage) Delete(ctx context.Context, fileRoute, container string) error {
	if fileRoute == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	name := objectName(fileRoute)
	if name == "" || name == "." || name == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, container, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// objectName extracts the stored object name from a URL or plain route,
// dropping any query string.
func objectName(fileRoute string) string {
	if u, err := url.Parse(fileRoute); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	if i := strings.IndexByte(fileRoute, '?'); i >= 0 {
		fileRoute = fileRoute[:i]
	}
	return path.Base(fileRoute)
}
