package domain

import "io"

// FileStorage stores uploaded 3D model and G-code files and returns the
// path the row keeps a reference to.
type FileStorage interface {
	Save(name string, r io.Reader) (string, error)
	Remove(path string) error
}
