package upload_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/posturelab/postura/internal/model"
	"github.com/posturelab/postura/internal/upload"
)

func TestSave(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := upload.NewStore(dir)

	result, err := store.Save("presentation.mp4", strings.NewReader("video bytes"))
	require.NoError(t, err)

	require.True(t, strings.HasSuffix(result.Filename, "_presentation.mp4"))
	require.Equal(t, filepath.Join(dir, result.Filename), result.Path)
	require.Equal(t, int64(len("video bytes")), result.Size)

	content, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	require.Equal(t, "video bytes", string(content))
}

func TestSaveUniqueNames(t *testing.T) {
	t.Parallel()
	store := upload.NewStore(t.TempDir())

	first, err := store.Save("talk.mp4", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Save("talk.mp4", strings.NewReader("b"))
	require.NoError(t, err)

	require.NotEqual(t, first.Filename, second.Filename)
}

func TestSaveRejectsUnsupportedExtension(t *testing.T) {
	t.Parallel()
	store := upload.NewStore(t.TempDir())

	testCases := []string{"notes.txt", "archive.zip", "video", "clip.MP3"}
	for _, filename := range testCases {
		filename := filename
		t.Run(filename, func(t *testing.T) {
			t.Parallel()
			_, err := store.Save(filename, strings.NewReader("data"))
			require.ErrorIs(t, err, model.ErrUnsupportedFormat)
		})
	}
}

func TestSaveAcceptsUppercaseExtension(t *testing.T) {
	t.Parallel()
	store := upload.NewStore(t.TempDir())

	_, err := store.Save("CLIP.MOV", strings.NewReader("data"))
	require.NoError(t, err)
}

func TestSaveStripsDirectoryComponents(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := upload.NewStore(dir)

	result, err := store.Save("../../etc/evil.mp4", strings.NewReader("data"))
	require.NoError(t, err)
	require.Equal(t, dir, filepath.Dir(result.Path))
	require.True(t, strings.HasSuffix(result.Filename, "_evil.mp4"))
}

func TestList(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := upload.NewStore(dir)

	_, err := store.Save("one.mp4", strings.NewReader("aaaa"))
	require.NoError(t, err)
	_, err = store.Save("two.webm", strings.NewReader("bb"))
	require.NoError(t, err)

	// Directories are skipped.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "subdir"), 0o755))

	files, err := store.List()
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, f := range files {
		require.NotEmpty(t, f.Filename)
		require.NotZero(t, f.Size)
		require.NotEmpty(t, f.Modified)
		require.Equal(t, f.Modified, f.Created)
	}
}

func TestListEmptyDirectory(t *testing.T) {
	t.Parallel()
	store := upload.NewStore(t.TempDir())

	files, err := store.List()
	require.NoError(t, err)
	require.Empty(t, files)
}
