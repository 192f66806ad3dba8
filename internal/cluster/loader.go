package cluster

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Load reads the snapshot at path. A missing or unreadable file fails before
// any parsing begins.
func Load(path string) (*Cluster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cluster data: %w", err)
	}
	defer f.Close()

	stars, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &Cluster{
		Source:   path,
		Stars:    stars,
		LoadedAt: time.Now().UTC(),
	}, nil
}

// Loader loads and classifies a snapshot file.
type Loader struct {
	path string
	now  func() time.Time
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// withClock sets the clock used to stamp results.
func withClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		l.now = now
	}
}

// NewLoader creates a loader for the snapshot at path.
func NewLoader(path string, opts ...LoaderOption) *Loader {
	l := &Loader{
		path: path,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoadResult contains the result of a load operation.
type LoadResult struct {
	Cluster  *Cluster
	Buckets  Buckets
	LoadedAt time.Time
	Duration time.Duration
	Error    error
}

// Load reads, parses and classifies the snapshot.
func (l *Loader) Load(ctx context.Context) LoadResult {
	start := l.now()
	result := LoadResult{
		LoadedAt: start,
	}

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	c, err := Load(l.path)
	result.Duration = l.now().Sub(start)
	if err != nil {
		result.Error = err
		return result
	}
	c.LoadedAt = start

	result.Cluster = c
	result.Buckets = Classify(c.Stars)
	return result
}

// Path returns the configured snapshot path.
func (l *Loader) Path() string {
	return l.path
}
