// Package localfs stores uploaded files under a local directory.
package localfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Storage struct{ dir string }

func New(dir string) *Storage { return &Storage{dir: dir} }

// Save writes the file under a unique name and returns the relative path.
func (s *Storage) Save(name string, r io.Reader) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "upload"
	}
	base = strings.ReplaceAll(base, " ", "_")
	unique := uuid.New().String()[:8] + "_" + base
	full := filepath.Join(s.dir, unique)
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return unique, nil
}

// Remove deletes a previously stored file. Missing files are not an error.
func (s *Storage) Remove(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(path)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
