package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
)

// Writer passes bytes through to an underlying writer and hashes exactly the
// bytes that were accepted by it.
// Writer is not safe for concurrent use.
type Writer struct {
	dst  io.Writer
	hash hash.Hash
	size int64
}

// NewWriter wraps dst.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst, hash: sha256.New()}
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.dst.Write(p)
	w.hash.Write(p[:n])
	w.size += int64(n)
	return n, err
}

// Sum returns the hex SHA-256 of everything written so far.
func (w *Writer) Sum() string {
	return hex.EncodeToString(w.hash.Sum(nil))
}

// Size returns the number of bytes written so far.
func (w *Writer) Size() int64 {
	return w.size
}

// Sum returns the hex SHA-256 of content.
func Sum(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}
