package csvio

import (
	"io"

	"golang.org/x/text/encoding"

	iox "github.com/wdm0006/csvsplit/pkg/io/ioutils"
)

// WriterOptions configures a StreamWriter.
type WriterOptions struct {
	// Encoding re-encodes lines on the way out; nil writes UTF-8 as is.
	Encoding encoding.Encoding
}

// StreamWriter appends raw lines to a file, writing the header (if any)
// once before the first line.
type StreamWriter struct {
	w           io.WriteCloser
	header      string
	wroteHeader bool
	rows        int
}

// NewStreamWriter creates (or truncates) path. A ".gz" path is compressed.
func NewStreamWriter(path, header string, opt WriterOptions) (*StreamWriter, error) {
	w, err := iox.CreateMaybeCompressed(path, opt.Encoding)
	if err != nil {
		return nil, err
	}
	return &StreamWriter{w: w, header: header, wroteHeader: header == ""}, nil
}

// WriteLine writes raw exactly as given.
func (s *StreamWriter) WriteLine(raw string) error {
	if !s.wroteHeader {
		if _, err := io.WriteString(s.w, s.header); err != nil {
			return err
		}
		s.wroteHeader = true
	}
	if _, err := io.WriteString(s.w, raw); err != nil {
		return err
	}
	s.rows++
	return nil
}

// Rows reports the number of data lines written.
func (s *StreamWriter) Rows() int { return s.rows }

func (s *StreamWriter) Close() error { return s.w.Close() }
