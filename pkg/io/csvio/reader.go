package csvio

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// DefaultBufferSize bounds the sniffing sample and the read buffer.
const DefaultBufferSize = 1 << 20

// LineReader yields raw physical lines, terminators included.
type LineReader struct {
	br   *bufio.Reader
	line int
	// first holds a line read ahead by Sample when it outgrew the buffer.
	first   string
	hasHead bool
}

// NewLineReader wraps r with a buffer of DefaultBufferSize.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{br: bufio.NewReaderSize(r, DefaultBufferSize)}
}

// Sample returns up to n leading lines without consuming them. Only complete
// lines are returned, except for a final unterminated line at end of input.
// A first line longer than the buffer is read ahead in full and becomes the
// whole sample. Call Sample before Next.
func (r *LineReader) Sample(n int) ([]string, error) {
	if n <= 0 {
		n = 1
	}
	if r.hasHead {
		return []string{r.first}, nil
	}
	buf, err := r.br.Peek(r.br.Size())
	atEOF := errors.Is(err, io.EOF)
	if err != nil && !atEOF && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, err
	}
	var lines []string
	rest := string(buf)
	for len(lines) < n && rest != "" {
		i := strings.IndexByte(rest, '\n')
		if i < 0 {
			if atEOF {
				lines = append(lines, rest)
			}
			break
		}
		lines = append(lines, rest[:i+1])
		rest = rest[i+1:]
	}
	if len(lines) == 0 && !atEOF && len(buf) > 0 {
		s, err := r.br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		r.first, r.hasHead = s, true
		return []string{s}, nil
	}
	return lines, nil
}

// Next returns the next raw line. The last line of the input is returned
// without error even when it has no terminator; io.EOF follows it.
func (r *LineReader) Next() (string, error) {
	if r.hasHead {
		r.hasHead = false
		r.line++
		s := r.first
		r.first = ""
		return s, nil
	}
	s, err := r.br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && s != "" {
			r.line++
			return s, nil
		}
		return "", err
	}
	r.line++
	return s, nil
}

// Line reports the 1-based number of the line last returned by Next.
func (r *LineReader) Line() int { return r.line }
