package csvio

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(s string) []string {
	var out []string
	for _, l := range strings.SplitAfter(s, "\n") {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func TestSniffDelimiter(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  byte
	}{
		{"comma", "date,amount\n2021-07-15,3\n2021-08-01,4\n", ','},
		{"semicolon", "date;amount;note\n2021-07-15;3,5;x\n2021-08-01;4,0;y\n", ';'},
		{"tab", "a\tb\n1\t2\n", '\t'},
		{"quoted commas in semicolon file", "\"a,b\";c\n\"d,e\";f\n", ';'},
		{"single line", "x,y,z\n", ','},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Sniff(lines(tc.input), nil)
			require.NoError(t, err)
			assert.Equal(t, string(tc.want), string(d.Delimiter))
			assert.Equal(t, byte('"'), d.Quote)
			assert.Equal(t, "\n", d.LineTerminator)
		})
	}
}

func TestSniffQuoteAndTerminator(t *testing.T) {
	d, err := Sniff([]string{"'a,b',c\r\n", "'d',e\r\n"}, nil)
	require.NoError(t, err)
	assert.Equal(t, byte(','), d.Delimiter)
	assert.Equal(t, byte('\''), d.Quote)
	assert.Equal(t, "\r\n", d.LineTerminator)
}

func TestSniffFails(t *testing.T) {
	_, err := Sniff([]string{"justonecolumn\n", "more\n"}, nil)
	assert.True(t, errors.Is(err, ErrNoDialect))

	_, err = Sniff(nil, nil)
	assert.True(t, errors.Is(err, ErrNoDialect))
}

func TestSniffToleratesBadLineInSample(t *testing.T) {
	d, err := Sniff(lines("a,b\n1,2\n\"3,4\n5,6\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, byte(','), d.Delimiter)
}

func TestHasHeader(t *testing.T) {
	comma := Dialect{Delimiter: ',', Quote: '"'}
	assert.True(t, HasHeader(lines("date,amount\n2021-07-15,3\n2021-08-01,4\n"), comma))
	assert.False(t, HasHeader(lines("2021-07-15,3\n2021-08-01,4\n2021-09-09,7\n"), comma))
	assert.True(t, HasHeader(lines("\ufeffid,code\n1,AB\n2,CD\n"), comma))
	assert.False(t, HasHeader(lines("1,AB\n2,CD\n3,EF\n"), comma))
	// a single line offers nothing to compare against
	assert.True(t, HasHeader(lines("a,b\n"), comma))
	assert.False(t, HasHeader(nil, comma))
}
