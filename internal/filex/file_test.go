package filex

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNestedDirectory(t *testing.T) {
	tmp := t.TempDir()
	want := filepath.Join(tmp, "public", "uploads")

	got, err := EnsureDir(want)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	first, err := EnsureDir(dir)
	require.NoError(t, err)
	second, err := EnsureDir(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uploads")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := EnsureDir(path)
	assert.Error(t, err)
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"my house.jpg":         "my_house.jpg",
		"  a   b\tc.png ":      "a_b_c.png",
		"../../etc/passwd":     "passwd",
		`C:\Users\me\pic.jpeg`: "pic.jpeg",
		"":                     "upload",
		"/":                    "upload",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeName(in), in)
	}
}

func TestTimestampedName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "1700000000123-front_view.jpg", TimestampedName(now, "front view.jpg"))
}

func TestWriteNew(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteNew(dir, "a.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.txt"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	_, err = WriteNew(dir, "a.txt", strings.NewReader("again"))
	assert.Error(t, err, "existing files are never overwritten")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestWriteNew_RemovesPartialFile(t *testing.T) {
	dir := t.TempDir()

	_, err := WriteNew(dir, "broken.bin", failingReader{})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "broken.bin"))
	assert.True(t, os.IsNotExist(statErr))
}
