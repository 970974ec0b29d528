package filesystem

import (
	"io"
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
type FileInfo = fs.FileInfo

// FileSystemProvider abstracts the filesystem operations of a generation run.
// Errors for missing paths wrap fs.ErrNotExist.
type FileSystemProvider interface {
	// ReadDir returns the entries directly inside path, sorted by name.
	ReadDir(path string) ([]FileInfo, error)

	// Open opens a file for reading. The caller must close it.
	Open(path string) (io.ReadCloser, error)

	// Create creates or truncates a file for writing. The caller must close it.
	Create(path string) (io.WriteCloser, error)

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string) error

	// Stat returns file information for the given path.
	Stat(path string) (FileInfo, error)
}
