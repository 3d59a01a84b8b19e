// Package artifact stores generated receipt files under the public uploads tree.
package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrUnavailable is returned when the receipts directory cannot be created.
var ErrUnavailable = errors.New("artifact store unavailable")

// FSWriter writes files to <Root>/<Dir>/<id>/<name> and returns the public URL path.
type FSWriter struct {
	Root          string
	Dir           string
	PublicBaseURL string
}

// NewFSWriter returns a writer rooted at the directory served under /uploads.
func NewFSWriter(root, dir, publicBaseURL string) *FSWriter {
	return &FSWriter{
		Root:          root,
		Dir:           strings.Trim(dir, "/"),
		PublicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// WriteFile stores data for id and returns the pointer to it.
func (w *FSWriter) WriteFile(id, name string, data []byte) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("invalid artifact id %q", id)
	}
	dir := filepath.Join(w.Root, w.Dir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	out := filepath.Join(dir, name)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", err
	}
	return w.buildURL(path.Join("/uploads", w.Dir, id, name)), nil
}

// Put stores an uploaded file as <Root>/<Dir>/<name> and returns its pointer.
// Pointers share the shape of WriteFile's, including PublicBaseURL.
func (w *FSWriter) Put(name string, src io.Reader) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}
	dir := filepath.Join(w.Root, w.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	out := filepath.Join(dir, name)
	f, err := os.Create(out)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(out)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(out)
		return "", err
	}
	return w.buildURL(path.Join("/uploads", w.Dir, name)), nil
}

// Remove deletes the file behind pointer. A missing file is not an error.
func (w *FSWriter) Remove(pointer string) error {
	local, ok := w.LocalPath(pointer)
	if !ok {
		return fmt.Errorf("pointer %q is outside the uploads tree", pointer)
	}
	if err := os.Remove(local); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// LocalPath maps a pointer returned by WriteFile (or an uploaded file URL) back to disk.
// It returns false when the pointer does not live under the uploads tree.
func (w *FSWriter) LocalPath(pointer string) (string, bool) {
	p := pointer
	if w.PublicBaseURL != "" {
		p = strings.TrimPrefix(p, w.PublicBaseURL)
	}
	if !strings.HasPrefix(p, "/uploads/") {
		return "", false
	}
	rel := path.Clean(strings.TrimPrefix(p, "/uploads/"))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.Join(w.Root, filepath.FromSlash(rel)), true
}

// ReadFile returns the content behind pointer.
func (w *FSWriter) ReadFile(pointer string) ([]byte, error) {
	local, ok := w.LocalPath(pointer)
	if !ok {
		return nil, fmt.Errorf("pointer %q is outside the uploads tree", pointer)
	}
	return os.ReadFile(local)
}

func (w *FSWriter) buildURL(p string) string {
	if w.PublicBaseURL == "" {
		return p
	}
	return w.PublicBaseURL + p
}
