// Package astro provides the vector math and camera projection used to place
// cluster members on screen.
package astro

import (
	"math"
)

// Vec3 represents a 3D vector in any reference frame.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Min returns the component-wise minimum.
func (v Vec3) Min(u Vec3) Vec3 {
	return Vec3{X: math.Min(v.X, u.X), Y: math.Min(v.Y, u.Y), Z: math.Min(v.Z, u.Z)}
}

// Max returns the component-wise maximum.
func (v Vec3) Max(u Vec3) Vec3 {
	return Vec3{X: math.Max(v.X, u.X), Y: math.Max(v.Y, u.Y), Z: math.Max(v.Z, u.Z)}
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max Vec3
}

// Size returns the box extent along each axis.
func (b Bounds) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extend grows the box to contain v.
func (b Bounds) Extend(v Vec3) Bounds {
	return Bounds{Min: b.Min.Min(v), Max: b.Max.Max(v)}
}

// BoundsOf returns the bounding box of the points. The zero box is returned
// for an empty slice.
func BoundsOf(points []Vec3) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b
}

// Latitude returns the angle above the XY plane in degrees.
func Latitude(v Vec3) float64 {
	r := v.Norm()
	if r == 0 {
		return 0
	}
	return radToDeg(math.Asin(v.Z / r))
}

// Longitude returns the angle in the XY plane in degrees (0-360).
func Longitude(v Vec3) float64 {
	lon := radToDeg(math.Atan2(v.Y, v.X))
	if lon < 0 {
		lon += 360
	}
	return lon
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
