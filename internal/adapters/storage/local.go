package storage

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

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// LocalBackend stores content under a directory.
type LocalBackend struct {
	root string
}

// NewLocal creates root if needed.
func NewLocal(root string) (*LocalBackend, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalBackend{root: root}, nil
}

// resolve maps a store path to a filesystem path inside root.
func (l *LocalBackend) resolve(p string) (string, error) {
	clean := path.Clean("/" + p)
	if clean == "/" {
		return "", fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}
	if strings.Contains(p, "..") {
		return "", fmt.Errorf("%w: path %q escapes the store", domain.ErrInvalidInput, p)
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

func (l *LocalBackend) Store(_ context.Context, p string, r io.Reader) (int64, error) {
	return l.write(p, func(w io.Writer) (int64, error) { return io.Copy(w, r) })
}

func (l *LocalBackend) StoreObject(_ context.Context, p string, v any) (int64, error) {
	return l.write(p, func(w io.Writer) (int64, error) { return encodeObject(w, v) })
}

// write goes through a temp file so readers never see partial content.
func (l *LocalBackend) write(p string, fill func(io.Writer) (int64, error)) (int64, error) {
	fn, err := l.resolve(p)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(fn), 0o755); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(fn), ".tmp-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := fill(tmp)
	if err != nil {
		tmp.Close()
		return n, err
	}
	if err := tmp.Close(); err != nil {
		return n, err
	}
	return n, os.Rename(tmp.Name(), fn)
}

func (l *LocalBackend) OpenRead(_ context.Context, p string) (io.ReadCloser, error) {
	fn, err := l.resolve(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fn)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", p, domain.ErrNotFound)
	}
	return f, err
}

func (l *LocalBackend) List(_ context.Context, prefix string) (map[string]int64, error) {
	m := make(map[string]int64)
	err := filepath.WalkDir(l.root, func(fn string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(l.root, fn)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !strings.HasPrefix(rel, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		m[rel] = info.Size()
		return nil
	})
	return m, err
}

func (l *LocalBackend) Delete(_ context.Context, p string) error {
	fn, err := l.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(fn); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (l *LocalBackend) Close() error { return nil }
