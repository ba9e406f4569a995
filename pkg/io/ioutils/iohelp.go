package ioutils

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// LookupEncoding maps an encoding name to a single-byte charmap.
// UTF-8 (and the empty name) returns nil, meaning no transcoding.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8", "utf-8-sig":
		return nil, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// OpenMaybeCompressed opens a file path or stdin ("-") and returns a reader.
// If the input appears to be gzip (by extension or magic), it wraps with gzip.
// A non-nil enc decodes the content to UTF-8.
func OpenMaybeCompressed(path string, enc encoding.Encoding) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		br := bufio.NewReader(os.Stdin)
		if isGzip(br) {
			zr, err := gzip.NewReader(br)
			if err != nil {
				return nil, err
			}
			return decode(zr, zr.Close, enc), nil
		}
		return decode(br, func() error { return nil }, enc), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	if filepath.Ext(path) == ".gz" || isGzip(br) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return decode(zr, func() error { _ = zr.Close(); return f.Close() }, enc), nil
	}
	return decode(br, f.Close, enc), nil
}

// CreateMaybeCompressed creates a file (or stdout if path is "-") and
// returns a buffered writer. If the path ends in .gz, the writer is gzip
// compressed. A non-nil enc encodes UTF-8 text written to it.
func CreateMaybeCompressed(path string, enc encoding.Encoding) (io.WriteCloser, error) {
	if path == "-" || path == "" {
		bw := bufio.NewWriter(os.Stdout)
		return encode(bw, bw.Flush, enc), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(f)
	if filepath.Ext(path) == ".gz" {
		zw := gzip.NewWriter(bw)
		return encode(zw, func() error {
			return errors.Join(zw.Close(), bw.Flush(), f.Close())
		}, enc), nil
	}
	return encode(bw, func() error {
		return errors.Join(bw.Flush(), f.Close())
	}, enc), nil
}

func isGzip(br *bufio.Reader) bool {
	b, err := br.Peek(2)
	return err == nil && len(b) >= 2 && b[0] == 0x1f && b[1] == 0x8b
}

func decode(r io.Reader, closeFn func() error, enc encoding.Encoding) io.ReadCloser {
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}
	return readCloser{Reader: r, closeFn: closeFn}
}

func encode(w io.Writer, closeFn func() error, enc encoding.Encoding) io.WriteCloser {
	if enc == nil {
		return writeCloser{Writer: w, closeFn: closeFn}
	}
	tw := transform.NewWriter(w, enc.NewEncoder())
	return writeCloser{Writer: tw, closeFn: func() error {
		// the transformer holds back partial input until closed
		return errors.Join(tw.Close(), closeFn())
	}}
}

type readCloser struct {
	io.Reader
	closeFn func() error
}

func (r readCloser) Close() error {
	if r.closeFn != nil {
		return r.closeFn()
	}
	return errors.New("no closeFn")
}

type writeCloser struct {
	io.Writer
	closeFn func() error
}

func (w writeCloser) Close() error {
	if w.closeFn != nil {
		return w.closeFn()
	}
	return errors.New("no closeFn")
}
