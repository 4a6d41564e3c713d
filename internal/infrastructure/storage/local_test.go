package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/invoicing"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/storage"
)

func TestLocalStore_Save(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	n, err := s.Save(context.Background(), "a.pdf", strings.NewReader("%PDF-1.7"), 1024)

	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
	got, err := os.ReadFile(filepath.Join(dir, "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(got))
}

func TestLocalStore_Save_ExactLimit(t *testing.T) {
	s, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	n, err := s.Save(context.Background(), "x.xml", strings.NewReader("12345"), 5)

	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestLocalStore_Save_TooLarge(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "x.xml", strings.NewReader("123456"), 5)

	assert.ErrorIs(t, err, invoicing.ErrTooLarge)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries, "no partial file is left behind")
}

func TestLocalStore_Save_KeyIsWrittenOnce(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.NewLocalStore(dir)
	require.NoError(t, err)
	_, err = s.Save(context.Background(), "a.pdf", strings.NewReader("first"), 1024)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "a.pdf", strings.NewReader("second"), 1024)

	assert.ErrorIs(t, err, invoicing.ErrAlreadyUploaded)
	got, err := os.ReadFile(filepath.Join(dir, "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))
	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 1, "no temp file is left behind")
}

func TestLocalStore_Save_RejectsPaths(t *testing.T) {
	s, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../evil.pdf", "sub/dir.pdf", ".hidden"} {
		_, err := s.Save(context.Background(), key, strings.NewReader("x"), 10)
		assert.Error(t, err, key)
	}
}

func TestNewLocalStore_EmptyRoot(t *testing.T) {
	_, err := storage.NewLocalStore("")
	assert.Error(t, err)
}
