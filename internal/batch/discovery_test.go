package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte{}, 0o600))
	return path
}

func TestDiscoverImageFiles(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "a.png"))
	b := touch(t, filepath.Join(dir, "b.JPG"))
	touch(t, filepath.Join(dir, "notes.txt"))
	nested := touch(t, filepath.Join(dir, "sub", "c.bmp"))

	tests := []struct {
		name      string
		recursive bool
		include   []string
		exclude   []string
		want      []string
	}{
		{name: "flat", want: []string{a, b}},
		{name: "recursive", recursive: true, want: []string{a, b, nested}},
		{name: "include", recursive: true, include: []string{"*.bmp"}, want: []string{nested}},
		{name: "exclude", recursive: true, exclude: []string{"a.*", "c.*"}, want: []string{b}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DiscoverImageFiles([]string{dir}, tt.recursive, tt.include, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscoverImageFiles_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	txt := touch(t, filepath.Join(dir, "notes.txt"))

	got, err := DiscoverImageFiles([]string{txt}, false, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{txt}, got)

	got, err = DiscoverImageFiles([]string{txt}, false, nil, []string{"*.txt"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiscoverImageFiles_Missing(t *testing.T) {
	_, err := DiscoverImageFiles([]string{"/nonexistent"}, false, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot access")
}
