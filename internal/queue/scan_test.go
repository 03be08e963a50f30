package queue

import (
	"os"
	"path/filepath"
	"testing"

	"keysort/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher(t *testing.T) {
	m, err := NewMatcher([]string{"*.{jpg,jpeg,png,gif,webp}"})
	require.NoError(t, err)

	assert.True(t, m.Match("a.png"))
	assert.True(t, m.Match("/x/y/B.JPG"), "matching ignores case")
	assert.True(t, m.Match("photo.webp"))
	assert.False(t, m.Match("notes.txt"))
	assert.False(t, m.Match("png"))

	_, err = NewMatcher([]string{"[a-"})
	assert.Error(t, err)
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{
		"c.png":     "c",
		"a.JPG":     "a",
		"b.gif":     "b",
		"notes.txt": "skip",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0755))

	m, err := NewMatcher([]string{"*.{jpg,png,gif}"})
	require.NoError(t, err)

	got, err := Scan(dir, m)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "a.JPG", got[0].Name())
	assert.Equal(t, "b.gif", got[1].Name())
	assert.Equal(t, "c.png", got[2].Name())
	assert.Equal(t, filepath.Join(dir, "a.JPG"), got[0].SourcePath)
	assert.NotEmpty(t, got[0].ID)
}

func TestScanErrors(t *testing.T) {
	m, err := NewMatcher([]string{"*.png"})
	require.NoError(t, err)

	_, err = Scan(filepath.Join(t.TempDir(), "missing"), m)
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	_, err = Scan(file, m)
	assert.Error(t, err)
}
