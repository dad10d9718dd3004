// Package archive opens and creates wordnet documents that may be compressed
// or packaged in a tar archive. It supports plain, .gz and .xz files and
// .tar, .tar.gz (.tgz) and .tar.xz packages.
package archive

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/FocuswithJustin/wnlmf/core/errors"
	"github.com/ulikunitz/xz"
)

// Compression identifies the compression layer of a file.
type Compression int

const (
	None Compression = iota
	Gzip
	XZ
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// DetectCompression identifies compression from the leading bytes of a file.
func DetectCompression(head []byte) Compression {
	switch {
	case hasPrefix(head, gzipMagic):
		return Gzip
	case hasPrefix(head, xzMagic):
		return XZ
	}
	return None
}

func hasPrefix(b, prefix []byte) bool {
	return len(b) >= len(prefix) && string(b[:len(prefix)]) == string(prefix)
}

// IsPackage reports whether path names a tar package by its suffix.
func IsPackage(path string) bool {
	for _, ext := range []string{".tar", ".tar.gz", ".tgz", ".tar.xz"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// IsDocument reports whether a package member name looks like an LMF document.
func IsDocument(name string) bool {
	base := path.Base(name)
	return strings.HasSuffix(base, ".xml") && !strings.HasPrefix(base, ".")
}

// decompress wraps r according to its leading bytes.
func decompress(r io.Reader) (io.Reader, io.Closer, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(xzMagic))
	switch DetectCompression(head) {
	case Gzip:
		gzr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip reader: %w", err)
		}
		return gzr, gzr, nil
	case XZ:
		xzr, err := xz.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("xz reader: %w", err)
		}
		return xzr, nil, nil // xz reader doesn't need closing
	}
	return br, nil, nil
}

// Reader wraps a tar.Reader with automatic decompression handling.
type Reader struct {
	*tar.Reader
	file         *os.File
	decompressor io.Closer
}

// NewReader opens the tar package at path, decompressing it if needed.
func NewReader(path string) (*Reader, error) {
	if !IsPackage(path) {
		return nil, errors.NewUnsupported("archive format", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	reader, decompressor, err := decompress(f)
	if err != nil {
		f.Close()
		return nil, errors.NewIO("open", path, err)
	}
	return &Reader{
		Reader:       tar.NewReader(reader),
		file:         f,
		decompressor: decompressor,
	}, nil
}

// Close closes the archive reader and any underlying decompressors.
func (r *Reader) Close() error {
	var errs []error
	if r.decompressor != nil {
		if err := r.decompressor.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// Visitor is a callback function for iterating archive entries.
// Return true to stop iteration, false to continue.
type Visitor func(header *tar.Header, content io.Reader) (stop bool, err error)

// Iterate walks through all entries in the archive, calling the visitor for each.
func (r *Reader) Iterate(visitor Visitor) error {
	for {
		header, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}

		stop, err := visitor(header, r)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// Members lists the names of the regular files in the package at path.
func Members(path string) ([]string, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var names []string
	err = r.Iterate(func(h *tar.Header, _ io.Reader) (bool, error) {
		if h.Typeflag == tar.TypeReg {
			names = append(names, h.Name)
		}
		return false, nil
	})
	return names, err
}

// Open returns a reader over the document at path. Compressed files are
// decompressed; for tar packages the first .xml member is returned.
func Open(path string) (io.ReadCloser, error) {
	if IsPackage(path) {
		return openMember(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	r, c, err := decompress(f)
	if err != nil {
		f.Close()
		return nil, errors.NewIO("open", path, err)
	}
	return &readCloser{Reader: r, closers: []io.Closer{c, f}}, nil
}

func openMember(path string) (io.ReadCloser, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	for {
		h, err := r.Next()
		if err == io.EOF {
			r.Close()
			return nil, errors.NewNotFound("LMF document in package", path)
		}
		if err != nil {
			r.Close()
			return nil, errors.NewIO("read", path, err)
		}
		if h.Typeflag == tar.TypeReg && IsDocument(h.Name) {
			return &readCloser{Reader: r, closers: []io.Closer{r}}, nil
		}
	}
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
