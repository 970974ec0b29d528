package taxseed

// FileScanner discovers the rate tables of a generation run.
// Implementations must be safe for concurrent use by multiple goroutines.
type FileScanner interface {
	// Discover returns the files in dir whose names match pattern, sorted by name.
	// A missing dir yields an empty result, not an error.
	Discover(dir, pattern string) ([]InputFile, error)
}
