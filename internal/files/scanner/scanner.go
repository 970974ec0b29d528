package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/vvka-141/taxseed/internal/files/compression"
	"github.com/vvka-141/taxseed/internal/files/filesystem"
	"github.com/vvka-141/taxseed/pkg/taxseed"
)

var stateFromName = regexp.MustCompile(`^TAXRATES_ZIP5_([A-Z]{2})`)

// Scanner discovers rate tables in a directory.
// Scanner is safe for concurrent use by multiple goroutines as long as
// the provided fsProvider is also thread-safe.
type Scanner struct {
	fsProvider filesystem.FileSystemProvider
}

// NewScanner creates a new scanner over the OS filesystem.
func NewScanner() *Scanner {
	return &Scanner{fsProvider: filesystem.NewOSFileSystem()}
}

// NewScannerWithFS creates a new scanner with a custom filesystem provider.
// This is primarily useful for testing with in-memory filesystems.
// Panics if fsProvider is nil.
func NewScannerWithFS(fsProvider filesystem.FileSystemProvider) *Scanner {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{fsProvider: fsProvider}
}

// Discover returns the regular files in dir whose names match pattern once any
// known compression suffix is removed. Results are sorted by file name.
//
// A missing dir is reported as zero matches. A malformed pattern is an
// ErrInvalidConfig.
func (s *Scanner) Discover(dir, pattern string) ([]taxseed.InputFile, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid input pattern %q: %v: %w", pattern, err, taxseed.ErrInvalidConfig)
	}

	entries, err := s.fsProvider.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list input directory %s: %w", dir, err)
	}

	var files []taxseed.InputFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ok, err := path.Match(pattern, compression.TrimExtension(name))
		if err != nil {
			return nil, fmt.Errorf("invalid input pattern %q: %v: %w", pattern, err, taxseed.ErrInvalidConfig)
		}
		if !ok {
			continue
		}
		files = append(files, taxseed.InputFile{
			Path:        filepath.Join(dir, name),
			Name:        name,
			StateCode:   StateCodeFromName(name),
			Compression: compression.Detect(name),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// StateCodeFromName extracts the state from names like TAXRATES_ZIP5_CA202512.csv.
// It returns an empty string for names that do not follow the convention.
func StateCodeFromName(name string) string {
	m := stateFromName.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}
