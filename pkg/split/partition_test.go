package split

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionsWriteAndClose(t *testing.T) {
	dir := t.TempDir()
	p := NewPartitions(PartitionOptions{Prefix: filepath.Join(dir, "out_"), Header: "k,v\n"})

	require.NoError(t, p.Write("a", "a,1\n"))
	require.NoError(t, p.Write("b", "b,2\n"))
	require.NoError(t, p.Write("a", "a,3\n"))
	assert.Equal(t, 2, p.Len())

	require.NoError(t, p.CloseAll())
	require.NoError(t, p.CloseAll())

	a, err := os.ReadFile(filepath.Join(dir, "out_a.csv"))
	require.NoError(t, err)
	assert.Equal(t, "k,v\na,1\na,3\n", string(a))
	b, err := os.ReadFile(filepath.Join(dir, "out_b.csv"))
	require.NoError(t, err)
	assert.Equal(t, "k,v\nb,2\n", string(b))

	err = p.Write("c", "c,4\n")
	assert.True(t, errors.Is(err, ErrIO))
}

func TestPartitionsCreateFailure(t *testing.T) {
	p := NewPartitions(PartitionOptions{Prefix: filepath.Join(t.TempDir(), "missing", "out_")})
	err := p.Write("a", "a\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
	assert.NoError(t, p.CloseAll())
}

func TestEscapeKey(t *testing.T) {
	assert.Equal(t, "2021-07", EscapeKey("2021-07"))
	assert.Equal(t, "New York", EscapeKey("New York"))
	assert.Equal(t, "Zürich", EscapeKey("Zürich"))
	assert.Equal(t, "a%2Fb", EscapeKey("a/b"))
	assert.Equal(t, "a%5Cb", EscapeKey(`a\b`))
	assert.Equal(t, "a%09b", EscapeKey("a\tb"))
	assert.Equal(t, "a%252Fb", EscapeKey("a%2Fb"))
	assert.Equal(t, "", EscapeKey(""))

	// literal "%2F" and "/" must not collide
	assert.NotEqual(t, EscapeKey("a%2Fb"), EscapeKey("a/b"))
}
