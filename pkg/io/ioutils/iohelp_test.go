package ioutils

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGzipRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "part.csv.gz")
	w, err := CreateMaybeCompressed(p, nil)
	require.NoError(t, err)
	_, err = io.WriteString(w, "a,b\n1,2\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2])

	r, err := OpenMaybeCompressed(p, nil)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(b))
}

func TestGzipSniffedByMagic(t *testing.T) {
	dir := t.TempDir()
	gz := filepath.Join(dir, "data.csv.gz")
	w, err := CreateMaybeCompressed(gz, nil)
	require.NoError(t, err)
	_, _ = io.WriteString(w, "x\n")
	require.NoError(t, w.Close())

	plain := filepath.Join(dir, "data.bin")
	b, err := os.ReadFile(gz)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(plain, b, 0o644))

	r, err := OpenMaybeCompressed(plain, nil)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(out))
}

func TestLatin1RoundTripIsByteExact(t *testing.T) {
	enc, err := LookupEncoding("latin1")
	require.NoError(t, err)
	require.NotNil(t, enc)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	src := []byte("caf\xe9;1\n")
	require.NoError(t, os.WriteFile(in, src, 0o644))

	r, err := OpenMaybeCompressed(in, enc)
	require.NoError(t, err)
	decoded, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "café;1\n", string(decoded))

	out := filepath.Join(dir, "out.csv")
	w, err := CreateMaybeCompressed(out, enc)
	require.NoError(t, err)
	_, err = w.Write(decoded)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestLookupEncoding(t *testing.T) {
	enc, err := LookupEncoding("UTF-8")
	assert.NoError(t, err)
	assert.Nil(t, enc)

	_, err = LookupEncoding("ebcdic")
	assert.Error(t, err)
}
