// Package scene drives a particle host from classified cluster data.
//
// The host is whatever owns the renderable particle containers: an external
// 3D tool, the terminal viewer, or the in-memory Recorder used for export.
package scene

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/litescript/ls-cluster/internal/astro"
	"github.com/litescript/ls-cluster/internal/cluster"
)

var (
	// ErrCapacityExceeded is returned when a container is requested larger
	// than a host accepts.
	ErrCapacityExceeded = errors.New("particle capacity exceeded")

	// ErrUnknownHandle is returned for a handle the host never issued.
	ErrUnknownHandle = errors.New("unknown container handle")

	// ErrIndexOutOfRange is returned when a particle index is outside the
	// container's capacity.
	ErrIndexOutOfRange = errors.New("particle index out of range")
)

// Handle identifies a particle container on a host.
type Handle int

// Host is the set of operations the builder needs from a particle host.
type Host interface {
	// CreateContainer allocates a container holding up to capacity
	// particles. capacity never exceeds cluster.MaxParticlesPerSystem.
	CreateContainer(name string, capacity int) (Handle, error)

	// SetPosition places particle index of the container.
	SetPosition(h Handle, index int, pos astro.Vec3) error

	// ConfigureLifetime sets when particles are emitted and how long they
	// live.
	ConfigureLifetime(h Handle, t Timeline) error

	// ConfigureAppearance sets the material and render style.
	ConfigureAppearance(h Handle, a Appearance) error
}

// Timeline configures particle emission in frames.
type Timeline struct {
	StartFrame     int `json:"start_frame" toml:"start_frame" mapstructure:"start_frame"`
	EndFrame       int `json:"end_frame" toml:"end_frame" mapstructure:"end_frame"`
	LifetimeFrames int `json:"lifetime_frames" toml:"lifetime_frames" mapstructure:"lifetime_frames"`
}

// DefaultTimeline emits every particle on frame 1 and keeps it alive for the
// whole animation.
func DefaultTimeline() Timeline {
	return Timeline{StartFrame: 1, EndFrame: 1, LifetimeFrames: 10000}
}

// Validate checks frame ordering and lifetime.
func (t Timeline) Validate() error {
	if t.EndFrame < t.StartFrame {
		return fmt.Errorf("end frame %d before start frame %d", t.EndFrame, t.StartFrame)
	}
	if t.LifetimeFrames <= 0 {
		return fmt.Errorf("lifetime must be positive, got %d", t.LifetimeFrames)
	}
	return nil
}

// RenderStyle selects how the host draws each particle.
type RenderStyle string

const (
	StyleHalo   RenderStyle = "halo"
	StylePoint  RenderStyle = "point"
	StyleObject RenderStyle = "object"
)

// Valid reports whether s is a known style.
func (s RenderStyle) Valid() bool {
	switch s {
	case StyleHalo, StylePoint, StyleObject:
		return true
	}
	return false
}

// Appearance configures how a container's particles look.
type Appearance struct {
	Material       string      `json:"material" toml:"material" mapstructure:"material"`
	EmissionVolume float64     `json:"emission_volume" toml:"emission_volume" mapstructure:"emission_volume"`
	Style          RenderStyle `json:"style" toml:"style" mapstructure:"style"`
}

// DefaultAppearances returns the stock look for each category.
func DefaultAppearances() map[cluster.Category]Appearance {
	return map[cluster.Category]Appearance{
		cluster.CategoryMainSequence: {Material: "star_main", EmissionVolume: 1.0, Style: StyleHalo},
		cluster.CategoryWhiteDwarf:   {Material: "star_white_dwarf", EmissionVolume: 2.0, Style: StyleHalo},
		cluster.CategoryNeutronStar:  {Material: "star_neutron", EmissionVolume: 4.0, Style: StylePoint},
		cluster.CategoryBlackHole:    {Material: "star_black_hole", EmissionVolume: 0.0, Style: StyleObject},
	}
}

// ContainerName returns the host-side name for batch index of a category,
// e.g. "WhiteDwarf.002".
func ContainerName(c cluster.Category, index int) string {
	return fmt.Sprintf("%s.%03d", c, index)
}

// ParseContainerName splits a name produced by ContainerName.
func ParseContainerName(name string) (cluster.Category, int, bool) {
	prefix, num, ok := strings.Cut(name, ".")
	if !ok {
		return 0, 0, false
	}
	c, ok := cluster.ParseCategory(prefix)
	if !ok {
		return 0, 0, false
	}
	idx, err := strconv.Atoi(num)
	if err != nil || idx < 0 {
		return 0, 0, false
	}
	return c, idx, true
}
