// Package cluster parses stellar-cluster snapshots and sorts their members
// into the categories used to build particle systems.
package cluster

import (
	"time"

	"github.com/litescript/ls-cluster/internal/astro"
)

// Defaults applied when a CSV row is too short to carry a field group.
var (
	DefaultPosition = astro.Vec3{X: 1, Y: 1, Z: 1}
	DefaultVelocity = astro.Vec3{}
)

const (
	// DefaultMass is the mass in solar masses for rows without a mass column.
	DefaultMass = 1.0

	// DefaultTypeCode is the raw type code for rows without a type column.
	DefaultTypeCode = "1.0"
)

// Star is one star or compact object from a snapshot.
type Star struct {
	Position astro.Vec3 // parsecs
	Velocity astro.Vec3 // km/s
	Mass     float64    // solar masses
	Type     TypeCode
}

// Speed returns the velocity magnitude in km/s.
func (s Star) Speed() float64 {
	return s.Velocity.Norm()
}

// Kind is the closed set of stellar types found in snapshots.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindMainSequence
	KindEvolved
	KindWhiteDwarf
	KindNeutronStar
	KindBlackHole
)

func (k Kind) String() string {
	switch k {
	case KindMainSequence:
		return "MainSequence"
	case KindEvolved:
		return "Evolved"
	case KindWhiteDwarf:
		return "WhiteDwarf"
	case KindNeutronStar:
		return "NeutronStar"
	case KindBlackHole:
		return "BlackHole"
	default:
		return "Unrecognized"
	}
}

// TypeCode is a parsed type column. Raw always holds the original text.
type TypeCode struct {
	Kind Kind
	Raw  string
}

// ParseTypeCode maps a raw type column to its kind. Matching is exact;
// anything outside the known codes is KindUnrecognized.
func ParseTypeCode(raw string) TypeCode {
	tc := TypeCode{Raw: raw}
	switch raw {
	case "1.0":
		tc.Kind = KindMainSequence
	case "2.0", "2.2":
		tc.Kind = KindEvolved
	case "3.0":
		tc.Kind = KindWhiteDwarf
	case "4.0":
		tc.Kind = KindNeutronStar
	case "5.0":
		tc.Kind = KindBlackHole
	default:
		tc.Kind = KindUnrecognized
	}
	return tc
}

// Category returns the bucket the code belongs to. Evolved stars share the
// main-sequence bucket. ok is false for unrecognized codes.
func (tc TypeCode) Category() (c Category, ok bool) {
	switch tc.Kind {
	case KindMainSequence, KindEvolved:
		return CategoryMainSequence, true
	case KindWhiteDwarf:
		return CategoryWhiteDwarf, true
	case KindNeutronStar:
		return CategoryNeutronStar, true
	case KindBlackHole:
		return CategoryBlackHole, true
	}
	return 0, false
}

func (tc TypeCode) String() string {
	return tc.Raw
}

// Category is one of the four particle-system buckets.
type Category int

const (
	CategoryMainSequence Category = iota
	CategoryWhiteDwarf
	CategoryNeutronStar
	CategoryBlackHole
)

// Categories lists every category in bucket order.
var Categories = []Category{
	CategoryMainSequence,
	CategoryWhiteDwarf,
	CategoryNeutronStar,
	CategoryBlackHole,
}

func (c Category) String() string {
	switch c {
	case CategoryMainSequence:
		return "MainSequence"
	case CategoryWhiteDwarf:
		return "WhiteDwarf"
	case CategoryNeutronStar:
		return "NeutronStar"
	case CategoryBlackHole:
		return "BlackHole"
	default:
		return "Unknown"
	}
}

// Label returns a human-readable name.
func (c Category) Label() string {
	switch c {
	case CategoryMainSequence:
		return "Main sequence"
	case CategoryWhiteDwarf:
		return "White dwarf"
	case CategoryNeutronStar:
		return "Neutron star"
	case CategoryBlackHole:
		return "Black hole"
	default:
		return "Unknown"
	}
}

// ParseCategory parses a category name as produced by String. It is case
// sensitive.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// Cluster is an ordered set of stars loaded from one snapshot.
type Cluster struct {
	Source   string
	Stars    []Star
	LoadedAt time.Time
}

// Positions returns the position of every star in order.
func (c *Cluster) Positions() []astro.Vec3 {
	if c == nil {
		return nil
	}
	out := make([]astro.Vec3, len(c.Stars))
	for i, s := range c.Stars {
		out[i] = s.Position
	}
	return out
}
