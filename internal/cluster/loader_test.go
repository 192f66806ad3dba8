package cluster

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}

func TestLoad(t *testing.T) {
	path := writeSnapshot(t, sampleCSV)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.Source)
	assert.Len(t, c.Stars, 4)
	assert.False(t, c.LoadedAt.IsZero())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "open cluster data")
}

func TestLoad_ParseError(t *testing.T) {
	path := writeSnapshot(t, "x,y,z\n1,2,three\n")

	_, err := Load(path)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 0, pe.Row)
	assert.Equal(t, "z", pe.Field())
}

func TestLoader_Load(t *testing.T) {
	path := writeSnapshot(t, sampleCSV)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewLoader(path, withClock(func() time.Time { return fixed }))

	res := l.Load(context.Background())
	require.NoError(t, res.Error)
	assert.Equal(t, fixed, res.LoadedAt)
	assert.Equal(t, fixed, res.Cluster.LoadedAt)
	assert.Equal(t, path, l.Path())

	assert.Len(t, res.Buckets.MainSequence, 2)
	assert.Len(t, res.Buckets.WhiteDwarf, 1)
	assert.Equal(t, []int{2}, res.Buckets.Unrecognized)
	assert.Equal(t, len(res.Cluster.Stars), res.Buckets.Total())
}

func TestLoader_Load_Error(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "missing.csv"))
	res := l.Load(context.Background())
	assert.Error(t, res.Error)
	assert.Nil(t, res.Cluster)
}

func TestLoader_Load_Cancelled(t *testing.T) {
	path := writeSnapshot(t, sampleCSV)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewLoader(path).Load(ctx)
	assert.ErrorIs(t, res.Error, context.Canceled)
}
