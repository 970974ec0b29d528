package filesystem

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// memoryFileInfo implements fs.FileInfo for in-memory files
type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryEntry struct {
	content []byte
	info    *memoryFileInfo
}

// MemoryFileSystem implements FileSystemProvider for in-memory testing.
// Paths are virtual and always use forward slashes; relative paths resolve
// against the root given to NewMemoryFileSystem.
type MemoryFileSystem struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	root    string
}

// NewMemoryFileSystem creates a new in-memory filesystem whose root directory exists.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	mfs := &MemoryFileSystem{
		entries: make(map[string]*memoryEntry),
		root:    path.Clean(filepath.ToSlash(root)),
	}
	mfs.mkdirLocked(mfs.root)
	return mfs
}

func (mfs *MemoryFileSystem) resolve(p string) string {
	p = filepath.ToSlash(p)
	if p == "" || p == "." {
		return mfs.root
	}
	if !path.IsAbs(p) {
		p = path.Join(mfs.root, p)
	}
	return path.Clean(p)
}

// AddFile adds a file, creating parent directories as needed.
func (mfs *MemoryFileSystem) AddFile(filePath string, content string) {
	mfs.AddBytes(filePath, []byte(content))
}

// AddBytes adds a file with binary content, creating parent directories as needed.
func (mfs *MemoryFileSystem) AddBytes(filePath string, content []byte) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	abs := mfs.resolve(filePath)
	mfs.mkdirLocked(path.Dir(abs))
	mfs.putLocked(abs, content)
}

// Content returns the content of a file and whether it exists.
func (mfs *MemoryFileSystem) Content(filePath string) ([]byte, bool) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	e, ok := mfs.entries[mfs.resolve(filePath)]
	if !ok || e.info.isDir {
		return nil, false
	}
	return append([]byte(nil), e.content...), true
}

func (mfs *MemoryFileSystem) putLocked(abs string, content []byte) {
	mfs.entries[abs] = &memoryEntry{
		content: content,
		info: &memoryFileInfo{
			name:    path.Base(abs),
			size:    int64(len(content)),
			mode:    0644,
			modTime: time.Now(),
		},
	}
}

func (mfs *MemoryFileSystem) mkdirLocked(dir string) error {
	for d := dir; ; d = path.Dir(d) {
		if e, ok := mfs.entries[d]; ok {
			if !e.info.isDir {
				return fmt.Errorf("mkdir %s: not a directory", d)
			}
		} else {
			mfs.entries[d] = &memoryEntry{info: &memoryFileInfo{
				name:    path.Base(d),
				mode:    0755 | fs.ModeDir,
				modTime: time.Now(),
				isDir:   true,
			}}
		}
		if d == "/" || d == "." || path.Dir(d) == d {
			return nil
		}
	}
}

// ReadDir implements FileSystemProvider.ReadDir
func (mfs *MemoryFileSystem) ReadDir(dirPath string) ([]FileInfo, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	abs := mfs.resolve(dirPath)
	dir, ok := mfs.entries[abs]
	if !ok {
		return nil, fmt.Errorf("failed to read directory %s: %w", dirPath, fs.ErrNotExist)
	}
	if !dir.info.isDir {
		return nil, fmt.Errorf("path is not a directory: %s", dirPath)
	}

	var result []FileInfo
	for p, e := range mfs.entries {
		if p != abs && path.Dir(p) == abs {
			result = append(result, e.info)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result, nil
}

// Open implements FileSystemProvider.Open
func (mfs *MemoryFileSystem) Open(filePath string) (io.ReadCloser, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	e, ok := mfs.entries[mfs.resolve(filePath)]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", filePath, fs.ErrNotExist)
	}
	if e.info.isDir {
		return nil, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	return io.NopCloser(bytes.NewReader(e.content)), nil
}

// Create implements FileSystemProvider.Create.
// Written bytes are visible through Content immediately, so a writer that
// fails midway leaves a partial file just like the OS implementation.
func (mfs *MemoryFileSystem) Create(filePath string) (io.WriteCloser, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	abs := mfs.resolve(filePath)
	parent, ok := mfs.entries[path.Dir(abs)]
	if !ok {
		return nil, fmt.Errorf("create %s: %w", filePath, fs.ErrNotExist)
	}
	if !parent.info.isDir {
		return nil, fmt.Errorf("create %s: parent is not a directory", filePath)
	}
	if e, exists := mfs.entries[abs]; exists && e.info.isDir {
		return nil, fmt.Errorf("create %s: is a directory", filePath)
	}
	mfs.putLocked(abs, nil)
	return &memoryWriter{fs: mfs, abs: abs}, nil
}

// MkdirAll implements FileSystemProvider.MkdirAll
func (mfs *MemoryFileSystem) MkdirAll(dirPath string) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	return mfs.mkdirLocked(mfs.resolve(dirPath))
}

// Stat implements FileSystemProvider.Stat
func (mfs *MemoryFileSystem) Stat(statPath string) (FileInfo, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	e, ok := mfs.entries[mfs.resolve(statPath)]
	if !ok {
		return nil, fmt.Errorf("stat %s: %w", statPath, fs.ErrNotExist)
	}
	return e.info, nil
}

type memoryWriter struct {
	fs     *MemoryFileSystem
	abs    string
	closed bool
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fs.ErrClosed
	}
	w.fs.mu.Lock()
	defer w.fs.mu.Unlock()

	e, ok := w.fs.entries[w.abs]
	if !ok {
		return 0, fmt.Errorf("write %s: %w", w.abs, fs.ErrNotExist)
	}
	e.content = append(e.content, p...)
	e.info.size = int64(len(e.content))
	return len(p), nil
}

func (w *memoryWriter) Close() error {
	if w.closed {
		return fs.ErrClosed
	}
	w.closed = true
	return nil
}
