package csvio

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnterminatedQuote is returned when a quoted field does not close on
	// the same physical line. Quoted fields spanning lines are not supported.
	ErrUnterminatedQuote = errors.New("unterminated quoted field")
	// ErrTrailingQuote is returned when a closing quote is followed by
	// something other than a delimiter or the end of the line.
	ErrTrailingQuote = errors.New("unexpected character after closing quote")
)

// TrimTerminator strips a trailing "\n" or "\r\n".
func TrimTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// Terminator returns the line ending of a raw line, or "" if it has none.
func Terminator(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	}
	return ""
}

// ParseLine splits one physical line into fields. A field that starts with
// the quote character runs to the matching close quote; a doubled quote
// inside it is a literal quote. Quote characters elsewhere are literal.
func ParseLine(line string, d Dialect) ([]string, error) {
	line = TrimTerminator(line)
	fields := make([]string, 0, 8)
	var b strings.Builder
	pos := 0
	for {
		if d.Quote != 0 && pos < len(line) && line[pos] == d.Quote {
			pos++
			b.Reset()
			for {
				i := strings.IndexByte(line[pos:], d.Quote)
				if i < 0 {
					return nil, fmt.Errorf("field %d: %w", len(fields)+1, ErrUnterminatedQuote)
				}
				b.WriteString(line[pos : pos+i])
				pos += i + 1
				if pos < len(line) && line[pos] == d.Quote {
					b.WriteByte(d.Quote)
					pos++
					continue
				}
				break
			}
			fields = append(fields, b.String())
			if pos == len(line) {
				return fields, nil
			}
			if line[pos] != d.Delimiter {
				return nil, fmt.Errorf("field %d: %w", len(fields), ErrTrailingQuote)
			}
			pos++
			continue
		}
		i := strings.IndexByte(line[pos:], d.Delimiter)
		if i < 0 {
			return append(fields, line[pos:]), nil
		}
		fields = append(fields, line[pos:pos+i])
		pos += i + 1
	}
}
