package checksum

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum_KnownVector(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Sum(nil))
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		Sum([]byte("abc")))
}

func TestWriter_PassesThroughAndHashes(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	_, err := io.WriteString(w, "INSERT INTO t VALUES\n")
	require.NoError(t, err)
	_, err = io.WriteString(w, "  ('90001', 'CA', 'Los Angeles', 0.095000)")
	require.NoError(t, err)

	assert.Equal(t, Sum(buf.Bytes()), w.Sum())
	assert.Equal(t, int64(buf.Len()), w.Size())
}

func TestWriter_SumIsStableAcrossCalls(t *testing.T) {
	w := NewWriter(io.Discard)
	_, _ = io.WriteString(w, "abc")

	assert.Equal(t, w.Sum(), w.Sum())
	assert.Equal(t, Sum([]byte("abc")), w.Sum())
}

type shortWriter struct{ limit int }

func (s *shortWriter) Write(p []byte) (int, error) {
	if len(p) > s.limit {
		return s.limit, errors.New("disk full")
	}
	return len(p), nil
}

func TestWriter_HashesOnlyAcceptedBytes(t *testing.T) {
	w := NewWriter(&shortWriter{limit: 2})

	n, err := w.Write([]byte("abcdef"))
	assert.Error(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, Sum([]byte("ab")), w.Sum())
	assert.Equal(t, int64(2), w.Size())
}
