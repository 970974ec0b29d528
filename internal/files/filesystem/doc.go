// Package filesystem provides the filesystem abstraction used to discover rate
// tables, read them and write the seed script.
//
// Key interfaces:
//   - FileSystemProvider: Lists directories, opens files for reading, creates files for writing
//   - FileInfo: File metadata, an alias of fs.FileInfo
//
// Implementations:
//   - OSFileSystem: Production implementation using the OS filesystem
//   - MemoryFileSystem: In-memory implementation for testing
package filesystem
