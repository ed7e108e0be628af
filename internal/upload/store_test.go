package upload

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dypcet/linuxsaga-backend/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestNewStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "transient")

	s, err := NewStore(dir)
	require.NoError(t, err)
	require.Equal(t, dir, s.Dir())

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestNewStore_EmptyDirRejected(t *testing.T) {
	_, err := NewStore("")
	require.Error(t, err)
}

func TestSave_WritesFileKeepingExtension(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	data := []byte("fake png bytes")
	tu, err := s.Save("screenshot.PNG", "image/png", bytes.NewReader(data))
	require.NoError(t, err)

	require.Equal(t, "screenshot.PNG", tu.OriginalName)
	require.Equal(t, "image/png", tu.ContentType)
	require.Equal(t, int64(len(data)), tu.SizeBytes)
	require.True(t, strings.HasSuffix(tu.StoredPath, ".png"))

	got, err := os.ReadFile(tu.StoredPath)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestSave_UniqueNamesForSameOriginal(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	first, err := s.Save("qr.jpg", "image/jpeg", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := s.Save("qr.jpg", "image/jpeg", strings.NewReader("two"))
	require.NoError(t, err)

	require.NotEqual(t, first.StoredPath, second.StoredPath)
}

func TestSave_ExactCapAccepted(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	data := bytes.Repeat([]byte{0xAB}, domain.MaxPaymentProofSize)
	tu, err := s.Save("max.png", "image/png", bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, int64(domain.MaxPaymentProofSize), tu.SizeBytes)
}

func TestSave_OneByteOverCapRejected(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)

	data := bytes.Repeat([]byte{0xAB}, domain.MaxPaymentProofSize+1)
	_, err = s.Save("big.png", "image/png", bytes.NewReader(data))
	require.ErrorIs(t, err, ErrFileTooLarge)

	// Nothing may survive in the transient area after a rejection.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRemove_DeletesFile(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	tu, err := s.Save("proof.png", "image/png", strings.NewReader("data"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(tu))
	_, err = os.Stat(tu.StoredPath)
	require.True(t, os.IsNotExist(err))
}

func TestRemove_MissingFileIsNotAnError(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	tu, err := s.Save("proof.png", "image/png", strings.NewReader("data"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(tu))
	require.NoError(t, s.Remove(tu))
	require.NoError(t, s.Remove(nil))
}
