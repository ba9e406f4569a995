package split

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	header := []string{"id", "date", "3"}

	i, err := ByName("date").Resolve(header)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	// an exact header match wins over the numeric reading
	i, err = ByName("3").Resolve(header)
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	i, err = ByName("0").Resolve(header)
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	i, err = ByName("7").Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, 7, i)

	i, err = ByIndex(4).Resolve(header)
	require.NoError(t, err)
	assert.Equal(t, 4, i)
}

func TestResolveFailures(t *testing.T) {
	for _, sel := range []Selector{ByName("Date"), ByName("-1"), ByName(""), ByIndex(-2)} {
		_, err := sel.Resolve([]string{"id", "date"})
		require.Error(t, err, sel.String())
		assert.True(t, errors.Is(err, ErrConfiguration))
	}

	_, err := ByName("nope").Resolve(nil)
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "nope", se.Value)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestBucketDate(t *testing.T) {
	cases := []struct {
		in, want string
		ok       bool
	}{
		{"2021-07-15", "2021-07", true},
		{"2021-02-31", "2021-02", true},
		{"2021-07-15T10:00:00Z", "2021-07", true},
		{"2021-13-01", "2021-13-01", false},
		{"2021-00-10", "2021-00-10", false},
		{"2021-07-32", "2021-07-32", false},
		{"2021-07-00", "2021-07-00", false},
		{" 2021-07-15", " 2021-07-15", false},
		{"21-07-15", "21-07-15", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := BucketDate(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}

func TestKeyDeriver(t *testing.T) {
	row := []string{"a", "2021-07-15"}

	k, err := KeyDeriver{Index: 1, DateBuckets: true}.Derive(row)
	require.NoError(t, err)
	assert.Equal(t, "2021-07", k)

	k, err = KeyDeriver{Index: 1}.Derive(row)
	require.NoError(t, err)
	assert.Equal(t, "2021-07-15", k)

	_, err = KeyDeriver{Index: 2}.Derive(row)
	assert.Error(t, err)
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: ErrParse, Stage: "parse", Line: 4, Err: errors.New("boom")}
	assert.Equal(t, "parse error (parse) at line 4: boom", err.Error())
	assert.True(t, errors.Is(err, ErrParse))
	assert.False(t, errors.Is(err, ErrIO))
}
