// Package storage keeps uploaded files on the local disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/invoicing"
)

// LocalStore writes uploads below a root directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates root if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		return nil, errors.New("storage: empty upload directory")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

// Root returns the upload directory.
func (s *LocalStore) Root() string { return s.root }

// Save streams r into root/key. The file only appears under its final name once
// complete; on any failure the partial file is removed. A key is written at
// most once: a second Save for it fails with invoicing.ErrAlreadyUploaded.
func (s *LocalStore) Save(ctx context.Context, key string, r io.Reader, limit int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return 0, fmt.Errorf("storage: invalid key %q", key)
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("storage: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	// One byte more than allowed tells "exactly limit" from "too large".
	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	n, err := io.Copy(tmp, src)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("storage: write %s: %w", key, err)
	}
	if limit > 0 && n > limit {
		return 0, invoicing.ErrTooLarge
	}

	// Link fails when the name exists, so concurrent uploads of one key
	// cannot overwrite each other.
	if err := os.Link(tmp.Name(), filepath.Join(s.root, key)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, invoicing.ErrAlreadyUploaded
		}
		return 0, fmt.Errorf("storage: commit %s: %w", key, err)
	}
	return n, nil
}
