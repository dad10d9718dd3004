package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FocuswithJustin/wnlmf/core/errors"
	"github.com/ulikunitz/xz"
)

// CompressionFor picks the compression for an output path from its suffix.
func CompressionFor(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".gz"), strings.HasSuffix(path, ".tgz"):
		return Gzip
	case strings.HasSuffix(path, ".xz"):
		return XZ
	}
	return None
}

// MemberName derives the document name stored in a package written to path.
func MemberName(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".tar.gz", ".tgz", ".tar.xz", ".tar"} {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext) + ".xml"
		}
	}
	return base
}

// Create opens path for writing a document, compressing it by suffix. Tar
// package paths get a single member named by MemberName. Parent directories
// are created as needed. The document is complete only once Close returns nil.
func Create(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.NewIO("create", path, fmt.Errorf("failed to create parent directory: %w", err))
	}
	if IsPackage(path) {
		return newPackageWriter(path)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.NewIO("create", path, err)
	}
	w, err := compress(f, CompressionFor(path))
	if err != nil {
		f.Close()
		return nil, errors.NewIO("create", path, err)
	}
	return &writeCloser{Writer: w, closers: []io.Closer{w, f}}, nil
}

// compress wraps w in a compressor. The returned writer must be closed
// before w; for None it is a no-op closer.
func compress(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case Gzip:
		return gzip.NewWriter(w), nil
	case XZ:
		xzw, err := xz.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("xz writer: %w", err)
		}
		return xzw, nil
	}
	return nopWriteCloser{w}, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (wc *writeCloser) Close() error {
	var first error
	for _, c := range wc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// packageWriter spools the document to a temporary file because a tar
// header needs the member size up front.
type packageWriter struct {
	path  string
	spool *os.File
}

func newPackageWriter(path string) (*packageWriter, error) {
	spool, err := os.CreateTemp(filepath.Dir(path), ".wnlmf-*")
	if err != nil {
		return nil, errors.NewIO("create", path, err)
	}
	return &packageWriter{path: path, spool: spool}, nil
}

func (p *packageWriter) Write(b []byte) (int, error) {
	return p.spool.Write(b)
}

func (p *packageWriter) Close() error {
	defer os.Remove(p.spool.Name())
	defer p.spool.Close()

	info, err := p.spool.Stat()
	if err != nil {
		return errors.NewIO("stat", p.spool.Name(), err)
	}
	if _, err := p.spool.Seek(0, io.SeekStart); err != nil {
		return errors.NewIO("seek", p.spool.Name(), err)
	}
	out, err := os.Create(p.path)
	if err != nil {
		return errors.NewIO("create", p.path, err)
	}
	defer out.Close()

	cw, err := compress(out, CompressionFor(p.path))
	if err != nil {
		return errors.NewIO("create", p.path, err)
	}
	tw := tar.NewWriter(cw)
	header := &tar.Header{
		Name:     MemberName(p.path),
		Typeflag: tar.TypeReg,
		Mode:     0644,
		Size:     info.Size(),
		ModTime:  time.Now(),
	}
	if err := tw.WriteHeader(header); err != nil {
		return errors.NewIO("write", p.path, err)
	}
	if _, err := io.Copy(tw, p.spool); err != nil {
		return errors.NewIO("write", p.path, err)
	}
	if err := tw.Close(); err != nil {
		return errors.NewIO("write", p.path, err)
	}
	if err := cw.Close(); err != nil {
		return errors.NewIO("write", p.path, err)
	}
	return out.Close()
}
