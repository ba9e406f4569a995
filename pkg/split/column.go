package split

import (
	"errors"
	"strconv"
)

var errNoHeaderMatch = errors.New("no header field matching column")

// Selector picks the partition column by header name or by zero-based index.
type Selector struct {
	Name    string
	Index   int
	byIndex bool
}

// ByName selects a column by header name, falling back to a numeric index.
func ByName(name string) Selector { return Selector{Name: name} }

// ByIndex selects a column by zero-based position.
func ByIndex(i int) Selector { return Selector{Index: i, byIndex: true} }

func (s Selector) String() string {
	if s.byIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Name
}

// Resolve maps the selector to a field index. A name is first matched
// exactly against the header fields; failing that, or without a header, it
// is read as a non-negative integer index.
func (s Selector) Resolve(header []string) (int, error) {
	if s.byIndex {
		if s.Index < 0 {
			return 0, &Error{Kind: ErrConfiguration, Stage: "resolve", Err: errors.New("negative column index"), Value: s.String()}
		}
		return s.Index, nil
	}
	for i, h := range header {
		if h == s.Name {
			return i, nil
		}
	}
	if i, err := strconv.Atoi(s.Name); err == nil && i >= 0 {
		return i, nil
	}
	return 0, &Error{Kind: ErrConfiguration, Stage: "resolve", Err: errNoHeaderMatch, Value: s.Name}
}
