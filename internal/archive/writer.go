package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
)

// Writer wraps a tar.Writer with automatic compression handling.
// Compression is chosen from the destination path suffix: .tar.xz or .tar.gz.
type Writer struct {
	*tar.Writer
	file       *os.File
	compressor io.Closer
}

// NewWriter creates a new archive writer at the given path.
func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}

	var writer io.Writer = f
	var compressor io.Closer

	switch {
	case strings.HasSuffix(path, ".tar.xz"):
		xzw, err := xz.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz writer: %w", err)
		}
		writer = xzw
		compressor = xzw
	case strings.HasSuffix(path, ".tar.gz"):
		gzw := gzip.NewWriter(f)
		writer = gzw
		compressor = gzw
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported archive format: %s", path)
	}

	return &Writer{
		Writer:     tar.NewWriter(writer),
		file:       f,
		compressor: compressor,
	}, nil
}

// AddFile writes one regular-file entry. All entries of a snapshot share the
// snapshot's creation time so repeated creation from unchanged input stays
// reproducible.
func (w *Writer) AddFile(name string, data []byte, modTime time.Time) error {
	header := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(data)),
		ModTime:  modTime,
		Typeflag: tar.TypeReg,
	}
	if err := w.WriteHeader(header); err != nil {
		return fmt.Errorf("write header %s: %w", name, err)
	}
	if _, err := io.Copy(w.Writer, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write entry %s: %w", name, err)
	}
	return nil
}

// Close flushes and closes the tar stream, the compressor and the file,
// in that order. The archive is incomplete until Close returns nil.
func (w *Writer) Close() error {
	var errs []error
	if err := w.Writer.Close(); err != nil {
		errs = append(errs, err)
	}
	if w.compressor != nil {
		if err := w.compressor.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := w.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
