package split

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Match them with errors.Is.
var (
	ErrDetection     = errors.New("detection error")
	ErrConfiguration = errors.New("configuration error")
	ErrParse         = errors.New("parse error")
	ErrIO            = errors.New("io error")
)

// Error reports the failing stage of a run and, where known, the input line
// and the offending value.
type Error struct {
	Kind  error
	Stage string
	Line  int
	Value string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Stage != "" {
		fmt.Fprintf(&b, " (%s)", e.Stage)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Value != "" {
		fmt.Fprintf(&b, ": %q", e.Value)
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
