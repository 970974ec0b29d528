// Package files groups the input-side file handling of taxseed into sub-packages:
//   - filesystem: filesystem abstraction with OS and in-memory implementations
//   - scanner: rate table discovery and state code extraction
//   - compression: suffix detection and decompressing readers
//
// # Usage
//
//	import (
//	    "github.com/vvka-141/taxseed/internal/files/filesystem"
//	    "github.com/vvka-141/taxseed/internal/files/scanner"
//	)
//
//	fsProvider := filesystem.NewOSFileSystem()
//	files, err := scanner.NewScannerWithFS(fsProvider).Discover("docs/state_tax_rates", "TAXRATES_ZIP5_*.csv")
package files
