package cluster

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/litescript/ls-cluster/internal/astro"
)

// CategoryStats aggregates one bucket.
type CategoryStats struct {
	Category     Category
	Count        int
	TotalMass    float64 // solar masses
	MeanSpeed    float64 // km/s
	CenterOfMass astro.Vec3
	Bounds       astro.Bounds
	Batches      int
}

// Summary aggregates a classified cluster.
type Summary struct {
	Source       string
	LoadedAt     time.Time
	Total        int
	Unrecognized int
	MaxBatchSize int
	Categories   []CategoryStats
	Bounds       astro.Bounds
}

// Summarize computes per-category statistics. Categories appear in bucket
// order, including empty ones.
func Summarize(c *Cluster, b Buckets, maxBatchSize int) Summary {
	if maxBatchSize <= 0 {
		maxBatchSize = MaxParticlesPerSystem
	}

	s := Summary{
		Total:        b.Total(),
		Unrecognized: b.UnrecognizedCount(),
		MaxBatchSize: maxBatchSize,
	}
	if c != nil {
		s.Source = c.Source
		s.LoadedAt = c.LoadedAt
		s.Bounds = astro.BoundsOf(c.Positions())
	}

	for _, cat := range Categories {
		s.Categories = append(s.Categories, categoryStats(cat, b.Get(cat), maxBatchSize))
	}
	return s
}

func categoryStats(cat Category, stars []Star, maxBatchSize int) CategoryStats {
	st := CategoryStats{
		Category: cat,
		Count:    len(stars),
		Batches:  BatchCount(len(stars), maxBatchSize),
	}
	if len(stars) == 0 {
		return st
	}

	var weighted, plain astro.Vec3
	var speed float64
	st.Bounds = astro.Bounds{Min: stars[0].Position, Max: stars[0].Position}
	for _, s := range stars {
		st.TotalMass += s.Mass
		weighted = weighted.Add(s.Position.Scale(s.Mass))
		plain = plain.Add(s.Position)
		speed += s.Speed()
		st.Bounds = st.Bounds.Extend(s.Position)
	}

	n := float64(len(stars))
	st.MeanSpeed = speed / n
	if st.TotalMass > 0 {
		st.CenterOfMass = weighted.Scale(1 / st.TotalMass)
	} else {
		st.CenterOfMass = plain.Scale(1 / n)
	}
	return st
}

// Stats returns the statistics for one category.
func (s Summary) Stats(c Category) CategoryStats {
	for _, st := range s.Categories {
		if st.Category == c {
			return st
		}
	}
	return CategoryStats{Category: c}
}

// TotalBatches returns the number of particle containers the cluster needs.
func (s Summary) TotalBatches() int {
	n := 0
	for _, st := range s.Categories {
		n += st.Batches
	}
	return n
}

// WriteSummaryTable writes a text table to the given writer.
func WriteSummaryTable(w io.Writer, s Summary) {
	fmt.Fprintf(w, "Cluster %s @ %s\n", s.Source, s.LoadedAt.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 78))

	if s.Total == 0 {
		fmt.Fprintln(w, "No stars")
		return
	}

	fmt.Fprintf(w, "%-14s %12s %14s %10s %8s  %s\n",
		"Category", "Count", "Mass (Msun)", "v (km/s)", "Batches", "Center (pc)")
	fmt.Fprintln(w, strings.Repeat("─", 78))

	for _, st := range s.Categories {
		fmt.Fprintf(w, "%-14s %12s %14s %10.2f %8d  %s\n",
			st.Category.Label(),
			humanize.Comma(int64(st.Count)),
			humanize.CommafWithDigits(st.TotalMass, 2),
			st.MeanSpeed,
			st.Batches,
			FormatVec(st.CenterOfMass),
		)
	}

	fmt.Fprintln(w, strings.Repeat("─", 78))
	fmt.Fprintf(w, "Total: %s stars, %s unrecognized, %d containers (cap %s)\n",
		humanize.Comma(int64(s.Total)),
		humanize.Comma(int64(s.Unrecognized)),
		s.TotalBatches(),
		humanize.Comma(int64(s.MaxBatchSize)),
	)
}

// WriteUnrecognized lists up to limit stars whose type code was not
// recognized. A non-positive limit lists all of them.
func WriteUnrecognized(w io.Writer, c *Cluster, b Buckets, limit int) {
	if b.UnrecognizedCount() == 0 || c == nil {
		return
	}

	fmt.Fprintf(w, "Unrecognized type codes (%s rows):\n", humanize.Comma(int64(b.UnrecognizedCount())))
	for i, idx := range b.Unrecognized {
		if limit > 0 && i >= limit {
			fmt.Fprintf(w, "  ... %d more\n", b.UnrecognizedCount()-limit)
			break
		}
		if idx < 0 || idx >= len(c.Stars) {
			continue
		}
		fmt.Fprintf(w, "  row %-8d type %q\n", idx, c.Stars[idx].Type.Raw)
	}
}

// FormatVec formats a vector with two decimals.
func FormatVec(v astro.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}
