// Package scanner discovers per-state rate tables in an input directory.
//
// The scanner package is responsible for:
//   - Listing the input directory (non-recursively)
//   - Matching file names against a glob, ignoring compression suffixes
//   - Ordering matches by name so runs are deterministic
//   - Deriving the state code from the TAXRATES_ZIP5_<ST> naming convention
//
// The scanner is filesystem-agnostic through the filesystem.FileSystemProvider
// interface, enabling both production use with the OS filesystem and testing
// with in-memory filesystems.
package scanner
