package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pelletier/go-toml/v2"
)

// SceneExport is the serializable representation of a recorded scene.
type SceneExport struct {
	ID         string            `json:"id" toml:"id"`
	Source     string            `json:"source,omitempty" toml:"source,omitempty"`
	CreatedAt  time.Time         `json:"created_at" toml:"created_at"`
	Particles  int               `json:"particles" toml:"particles"`
	Containers []ContainerExport `json:"containers" toml:"containers"`
}

// ContainerExport is one particle container.
type ContainerExport struct {
	Name       string       `json:"name" toml:"name"`
	Category   string       `json:"category" toml:"category"`
	Count      int          `json:"count" toml:"count"`
	Timeline   Timeline     `json:"timeline" toml:"timeline"`
	Appearance Appearance   `json:"appearance" toml:"appearance"`
	Positions  [][3]float64 `json:"positions,omitempty" toml:"positions,omitempty"`
}

// ExportOption configures Export.
type ExportOption func(*exportConfig)

type exportConfig struct {
	positions bool
	source    string
}

// WithPositions includes every particle position in the export.
func WithPositions(include bool) ExportOption {
	return func(c *exportConfig) {
		c.positions = include
	}
}

// WithSource records the data file the scene was built from.
func WithSource(path string) ExportOption {
	return func(c *exportConfig) {
		c.source = path
	}
}

// Export converts a scene to its serializable form.
func Export(s *Scene, opts ...ExportOption) *SceneExport {
	cfg := exportConfig{positions: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if s == nil {
		return &SceneExport{Source: cfg.source, Containers: []ContainerExport{}}
	}

	export := &SceneExport{
		ID:         s.ID.String(),
		Source:     cfg.source,
		CreatedAt:  s.CreatedAt,
		Particles:  s.Particles(),
		Containers: make([]ContainerExport, 0, len(s.Containers)),
	}

	for _, c := range s.Containers {
		ce := ContainerExport{
			Name:       c.Name,
			Category:   c.Category.String(),
			Count:      c.Count(),
			Timeline:   c.Timeline,
			Appearance: c.Appearance,
		}
		if cfg.positions {
			ce.Positions = make([][3]float64, len(c.Positions))
			for i, p := range c.Positions {
				ce.Positions[i] = [3]float64{p.X, p.Y, p.Z}
			}
		}
		export.Containers = append(export.Containers, ce)
	}

	return export
}

// WriteJSON writes the scene as indented JSON.
func (e *SceneExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// WriteTOML writes the scene as TOML.
func (e *SceneExport) WriteTOML(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(e)
}

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ParseFormat parses an export format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatTOML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json or toml)", s)
	}
}

// Write encodes the export in the given format.
func (e *SceneExport) Write(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		return e.WriteJSON(w)
	case FormatTOML:
		return e.WriteTOML(w)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// WritePlan writes the container plan as a text table.
func WritePlan(w io.Writer, p Plan, maxBatchSize int) {
	fmt.Fprintf(w, "Container plan (cap %s particles)\n", humanize.Comma(int64(maxBatchSize)))
	fmt.Fprintln(w, strings.Repeat("─", 56))

	if len(p.Containers) == 0 {
		fmt.Fprintln(w, "No containers")
		return
	}

	fmt.Fprintf(w, "%-20s %-14s %12s %12s\n", "Container", "Category", "Offset", "Particles")
	fmt.Fprintln(w, strings.Repeat("─", 56))

	for _, c := range p.Containers {
		fmt.Fprintf(w, "%-20s %-14s %12s %12s\n",
			c.Name,
			c.Category.Label(),
			humanize.Comma(int64(c.Offset)),
			humanize.Comma(int64(c.Count)),
		)
	}

	fmt.Fprintf(w, "\nTotal: %d containers, %s particles\n", len(p.Containers), humanize.Comma(int64(p.Particles)))
}
