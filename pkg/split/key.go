package split

import (
	"fmt"
	"regexp"
)

// isoDate matches a leading YYYY-MM-DD by digit shape only; 2021-02-31 is
// accepted.
var isoDate = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])`)

// BucketDate reduces an ISO-date-shaped value to "YYYY-MM".
func BucketDate(v string) (string, bool) {
	m := isoDate.FindStringSubmatch(v)
	if m == nil {
		return v, false
	}
	return m[1] + "-" + m[2], true
}

// KeyDeriver extracts the partition key from a parsed row.
type KeyDeriver struct {
	Index       int
	DateBuckets bool
}

// Derive returns the key of a row; a row without the column is an error.
func (k KeyDeriver) Derive(fields []string) (string, error) {
	if k.Index >= len(fields) {
		return "", fmt.Errorf("row has %d fields, column index %d is missing", len(fields), k.Index)
	}
	v := fields[k.Index]
	if k.DateBuckets {
		v, _ = BucketDate(v)
	}
	return v, nil
}
