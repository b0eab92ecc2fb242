// Package input opens sequence and annotation files, detecting compression
// from the leading bytes of the stream rather than the file name.
package input

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/xi2/xz"
)

// Compression identifies how a stream is encoded.
type Compression byte

const (
	None Compression = iota
	Gzip
	XZ
	BZip2
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case XZ:
		return "xz"
	case BZip2:
		return "bzip2"
	default:
		return "none"
	}
}

var signatures = []struct {
	c   Compression
	sig []byte
}{
	{Gzip, []byte{0x1f, 0x8b, 0x08}},
	{XZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{BZip2, []byte{0x42, 0x5a, 0x68}},
}

// Detect reports the compression of the stream buffered in br without
// consuming any of it.
func Detect(br *bufio.Reader) Compression {
	head, _ := br.Peek(6)
	for _, s := range signatures {
		if bytes.HasPrefix(head, s.sig) {
			return s.c
		}
	}
	return None
}

// NewReader wraps r with a decompressor matching its leading bytes.
func NewReader(r io.Reader) (io.Reader, Compression, error) {
	br := bufio.NewReader(r)
	c := Detect(br)
	switch c {
	case Gzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, c, err
		}
		return gz, c, nil
	case XZ:
		xr, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, c, err
		}
		return xr, c, nil
	case BZip2:
		return bzip2.NewReader(br), c, nil
	}
	return br, c, nil
}

// File is an opened, possibly decompressed, input file.
type File struct {
	io.Reader
	Compression Compression
	f           *os.File
}

// Open opens path and wraps it with the decompressor its content needs.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r, c, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %s stream: %w", path, c, err)
	}
	return &File{Reader: r, Compression: c, f: f}, nil
}

// Close closes the underlying file.
func (f *File) Close() error {
	return f.f.Close()
}
