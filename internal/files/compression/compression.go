// Package compression transparently decompresses rate tables shipped as
// .gz, .bz2, .xz or .zst archives.
package compression

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/vvka-141/taxseed/pkg/taxseed"
)

var known = []taxseed.Compression{
	taxseed.CompressionGZ,
	taxseed.CompressionBZ2,
	taxseed.CompressionXZ,
	taxseed.CompressionZSTD,
}

// Detect returns the compression implied by the file name suffix (case-insensitive).
func Detect(name string) taxseed.Compression {
	lower := strings.ToLower(name)
	for _, c := range known {
		if strings.HasSuffix(lower, c.Extension()) {
			return c
		}
	}
	return taxseed.CompressionNone
}

// TrimExtension removes a known compression suffix from name.
// "TAXRATES_ZIP5_CA.csv.gz" becomes "TAXRATES_ZIP5_CA.csv".
func TrimExtension(name string) string {
	c := Detect(name)
	return name[:len(name)-len(c.Extension())]
}

// NewReader wraps reader with a decompressor for c. The returned close
// function releases decoder resources; it does not close reader.
func NewReader(reader io.Reader, c taxseed.Compression) (io.Reader, func() error, error) {
	switch c {
	case taxseed.CompressionNone:
		return reader, func() error { return nil }, nil

	case taxseed.CompressionGZ:
		gzReader, err := gzip.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzReader, gzReader.Close, nil

	case taxseed.CompressionBZ2:
		return bzip2.NewReader(reader), func() error { return nil }, nil

	case taxseed.CompressionXZ:
		xzReader, err := xz.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return xzReader, func() error { return nil }, nil

	case taxseed.CompressionZSTD:
		decoder, err := zstd.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return decoder, func() error {
			decoder.Close()
			return nil
		}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported compression %q", string(c))
	}
}
