package upload

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/posturelab/postura/internal/model"
)

// allowedExtensions is the set of video containers accepted for upload.
var allowedExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

// StoredFile describes one file in the upload directory.
type StoredFile struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Created  string `json:"created"`
	Modified string `json:"modified"`
}

// SaveResult reports where an accepted upload landed.
type SaveResult struct {
	Filename string
	Path     string
	Size     int64
}

// Store saves uploaded videos under a single directory with
// collision-free names.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the upload directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save streams content into the upload directory under a
// uuid-prefixed version of the original filename. Disallowed
// extensions are rejected with ErrUnsupportedFormat.
func (s *Store) Save(filename string, content io.Reader) (*SaveResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: %s (allowed: %s)",
			model.ErrUnsupportedFormat, ext, strings.Join(sortedExtensions(), ", "))
	}

	safeName := uuid.New().String() + "_" + filepath.Base(filename)
	path := filepath.Join(s.dir, safeName)

	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	size, err := io.Copy(out, content)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			slog.Warn("Failed to remove partial upload", "path", path, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	slog.Info("File uploaded", "filename", safeName, "size", size)
	return &SaveResult{
		Filename: safeName,
		Path:     path,
		Size:     size,
	}, nil
}

// List returns metadata for every regular file in the upload
// directory. Creation time falls back to the modification time on
// platforms without birth-time support.
func (s *Store) List() ([]StoredFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}

	files := make([]StoredFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		modified := info.ModTime().UTC().Format(time.RFC3339)
		files = append(files, StoredFile{
			Filename: entry.Name(),
			Size:     info.Size(),
			Created:  modified,
			Modified: modified,
		})
	}
	return files, nil
}

func sortedExtensions() []string {
	exts := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
