// Package csvio reads delimited text one physical line at a time and writes
// raw lines back out. Rows are never re-serialized.
package csvio

import (
	"fmt"
	"sort"
	"strings"
)

// Dialect describes the conventions of a delimited file.
type Dialect struct {
	Delimiter byte
	Quote     byte // 0 disables quoting
	// LineTerminator is informational; raw lines keep their own terminators.
	LineTerminator string
}

func (d Dialect) String() string {
	q := "none"
	if d.Quote != 0 {
		q = fmt.Sprintf("%q", d.Quote)
	}
	return fmt.Sprintf("delimiter=%q quote=%s terminator=%q", d.Delimiter, q, d.LineTerminator)
}

var dialects = map[string]Dialect{
	"excel":     {Delimiter: ',', Quote: '"', LineTerminator: "\r\n"},
	"excel-tab": {Delimiter: '\t', Quote: '"', LineTerminator: "\r\n"},
	"unix":      {Delimiter: ',', Quote: '"', LineTerminator: "\n"},
	"semicolon": {Delimiter: ';', Quote: '"', LineTerminator: "\n"},
}

// LookupDialect returns a registered dialect by name.
func LookupDialect(name string) (Dialect, error) {
	d, ok := dialects[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Dialect{}, fmt.Errorf("unknown dialect %q (known: %s)", name, strings.Join(DialectNames(), ", "))
	}
	return d, nil
}

// DialectNames lists the registered dialect names, sorted.
func DialectNames() []string {
	names := make([]string, 0, len(dialects))
	for n := range dialects {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
