package input

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const record = ">gene1\nATGAAATAG\n"

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestNewReaderPlain(t *testing.T) {
	r, c, err := NewReader(strings.NewReader(record))
	require.NoError(t, err)
	assert.Equal(t, None, c)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, record, string(got))
}

func TestNewReaderGzip(t *testing.T) {
	r, c, err := NewReader(bytes.NewReader(gzipped(t, record)))
	require.NoError(t, err)
	assert.Equal(t, Gzip, c)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, record, string(got))
}

func TestNewReaderShortInput(t *testing.T) {
	r, c, err := NewReader(strings.NewReader(">"))
	require.NoError(t, err)
	assert.Equal(t, None, c)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, ">", string(got))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	// Detection ignores the file name.
	path := filepath.Join(dir, "genes.fa")
	require.NoError(t, os.WriteFile(path, gzipped(t, record), 0644))

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, Gzip, f.Compression)

	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, record, string(got))

	_, err = Open(filepath.Join(dir, "missing.fa"))
	assert.Error(t, err)
}

func TestCompressionString(t *testing.T) {
	assert.Equal(t, "gzip", Gzip.String())
	assert.Equal(t, "xz", XZ.String())
	assert.Equal(t, "bzip2", BZip2.String())
	assert.Equal(t, "none", None.String())
}
