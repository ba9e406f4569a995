package csvio

import (
	"errors"
	"regexp"
	"strings"
)

// DefaultDelimiters are the sniffing candidates, in tie-break order.
var DefaultDelimiters = []byte{',', ';', '\t'}

// ErrNoDialect is returned when no candidate delimiter fits the sample.
var ErrNoDialect = errors.New("could not determine delimiter")

const bom = "\ufeff"

// StripBOM removes a leading UTF-8 byte order mark.
func StripBOM(s string) string { return strings.TrimPrefix(s, bom) }

var quotedField = map[byte]*regexp.Regexp{
	'"':  regexp.MustCompile(`(?:^|[,;\t])"[^"]*"(?:[,;\t]|\r?\n?$)`),
	'\'': regexp.MustCompile(`(?:^|[,;\t])'[^']*'(?:[,;\t]|\r?\n?$)`),
}

// Sniff infers the dialect from sample lines; lines[0] is the first line of
// the input. A candidate is plausible when it splits the first line into at
// least two fields. Among plausible candidates the one whose field count is
// most consistent across the rest of the sample wins; lines that fail to
// parse count against it.
func Sniff(lines []string, candidates []byte) (Dialect, error) {
	if len(lines) == 0 {
		return Dialect{}, ErrNoDialect
	}
	if len(candidates) == 0 {
		candidates = DefaultDelimiters
	}
	first := StripBOM(lines[0])
	quote := sniffQuote(lines)
	term := Terminator(first)
	if term == "" {
		term = "\n"
	}

	best, bestScore, bestWidth := -1, -1.0, 0
	for ci, c := range candidates {
		d := Dialect{Delimiter: c, Quote: quote}
		head, err := ParseLine(first, d)
		if err != nil || len(head) < 2 {
			continue
		}
		same, total := 0, 0
		for _, l := range lines[1:] {
			if strings.TrimSpace(l) == "" {
				continue
			}
			total++
			if fs, err := ParseLine(l, d); err == nil && len(fs) == len(head) {
				same++
			}
		}
		score := 1.0
		if total > 0 {
			score = float64(same) / float64(total)
		}
		if score > bestScore || (score == bestScore && len(head) > bestWidth) {
			best, bestScore, bestWidth = ci, score, len(head)
		}
	}
	if best < 0 {
		return Dialect{}, ErrNoDialect
	}
	return Dialect{Delimiter: candidates[best], Quote: quote, LineTerminator: term}, nil
}

// sniffQuote prefers the single quote only when it demonstrably wraps fields.
func sniffQuote(lines []string) byte {
	dq, sq := 0, 0
	for _, l := range lines {
		dq += len(quotedField['"'].FindAllStringIndex(l, -1))
		sq += len(quotedField['\''].FindAllStringIndex(l, -1))
	}
	if sq > dq {
		return '\''
	}
	return '"'
}

var numre = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

// column shape: numeric, or a fixed string length; -1 = inconsistent.
type shape struct {
	numeric bool
	length  int
	values  map[string]struct{}
}

// HasHeader guesses whether lines[0] is a header by comparing each header
// cell with the shape of the same column in the following lines. A numeric
// column with a non-numeric first cell votes for a header, as does a column
// of fixed-length strings whose first cell has a different length; a first
// cell that also appears as a value in its column votes against. With no
// evidence either way the first line is taken as a header.
func HasHeader(lines []string, d Dialect) bool {
	if len(lines) == 0 {
		return false
	}
	header, err := ParseLine(StripBOM(lines[0]), d)
	if err != nil {
		return false
	}
	cols := make([]*shape, len(header))
	rows := 0
	for _, l := range lines[1:] {
		if strings.TrimSpace(l) == "" {
			continue
		}
		fs, err := ParseLine(l, d)
		if err != nil || len(fs) != len(header) {
			continue
		}
		rows++
		for i, v := range fs {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			s := cols[i]
			if s == nil {
				s = &shape{numeric: numre.MatchString(v), length: len(v), values: map[string]struct{}{}}
				cols[i] = s
			}
			s.values[v] = struct{}{}
			if s.numeric && !numre.MatchString(v) {
				s.numeric = false
				s.length = -1
			}
			if !s.numeric && s.length != len(v) {
				s.length = -1
			}
		}
	}
	if rows == 0 {
		return true
	}
	votes := 0
	for i, s := range cols {
		if s == nil {
			continue
		}
		h := strings.TrimSpace(header[i])
		if _, seen := s.values[h]; seen {
			votes--
			continue
		}
		switch {
		case s.numeric:
			if numre.MatchString(h) {
				votes--
			} else {
				votes++
			}
		case s.length >= 0:
			if len(h) != s.length {
				votes++
			} else {
				votes--
			}
		}
	}
	return votes >= 0
}
