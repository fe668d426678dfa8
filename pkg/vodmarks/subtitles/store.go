// Package subtitles stores uploaded subtitle files on disk.
// Bookmarks keep only the relative path; the store owns the directory.
package subtitles

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxFileSize caps subtitle uploads at 5 MiB.
const MaxFileSize = 5 << 20

// ErrInvalidExtension is returned for files that are not .srt.
var ErrInvalidExtension = errors.New("subtitles: only .srt files are allowed")

// Store saves subtitle files under a base directory.
type Store struct {
	dir string
}

// NewStore creates the base directory if needed and returns a store over it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Save writes the uploaded file and returns its stored relative path.
// Filenames get a uuid component so concurrent uploads for the same bookmark
// never collide.
func (s *Store) Save(bookmarkID uint, filename string, r io.Reader) (string, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".srt") {
		return "", ErrInvalidExtension
	}
	name := fmt.Sprintf("bookmark_%d_%s.srt", bookmarkID, uuid.NewString())
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, io.LimitReader(r, MaxFileSize)); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Path resolves a stored relative path to an absolute path on disk.
func (s *Store) Path(rel string) string {
	return filepath.Join(s.dir, filepath.Base(rel))
}

// Remove deletes a stored file. A missing file is not an error: the path
// reference is authoritative, the file is best effort.
func (s *Store) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(s.Path(rel))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
