// Package staging manages request-scoped scratch directories for uploaded
// and derived files.
package staging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Area is one request's staging directory. Areas under a shared base are
// keyed by a fresh UUID, so concurrent requests never collide.
type Area struct {
	dir    string
	retain bool
}

// New creates a staging area under base. When retain is true, Cleanup keeps
// the directory for post-mortem inspection instead of removing it.
func New(base string, retain bool) (*Area, error) {
	dir := filepath.Join(base, uuid.New().String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Area{dir: dir, retain: retain}, nil
}

// Dir returns the area's directory.
func (a *Area) Dir() string { return a.dir }

// Stage copies one uploaded part into the area under the base name of its
// original filename and returns the staged path.
func (a *Area) Stage(src io.Reader, name string) (string, error) {
	dst := filepath.Join(a.dir, filepath.Base(name))
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", filepath.Base(name), err)
	}
	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("stage %s: %w", filepath.Base(name), err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("stage %s: %w", filepath.Base(name), err)
	}
	return dst, nil
}

// Cleanup removes the area and everything staged in it. It is safe to call
// on every exit path, including after failures.
func (a *Area) Cleanup() {
	if a.retain {
		log.Printf("staging.Cleanup: retaining %s", a.dir)
		return
	}
	if err := os.RemoveAll(a.dir); err != nil {
		log.Printf("staging.Cleanup: removing %s: %v", a.dir, err)
	}
}
