package astro

import "math"

// ProjectedPoint represents a 2D projected position with metadata.
type ProjectedPoint struct {
	X     float64 // Screen X coordinate (normalized, -1 to 1)
	Y     float64 // Screen Y coordinate (normalized, -1 to 1, up is positive)
	Depth float64 // Distance along the view axis, larger is farther
}

// Visible reports whether the point falls inside the normalized viewport.
func (p ProjectedPoint) Visible() bool {
	return p.X >= -1 && p.X <= 1 && p.Y >= -1 && p.Y <= 1
}

// Camera is an orthographic camera orbiting a target point.
//
// Azimuth rotates the view around the Z axis; elevation tilts it toward the
// +Z pole. At El=0 the camera looks along +Y with Z up; at El=90 it looks
// straight down the -Z axis with +Y up on screen.
type Camera struct {
	Target Vec3    // Point at the center of the screen
	AzDeg  float64 // Azimuth in degrees
	ElDeg  float64 // Elevation in degrees (-90 to +90)
	Radius float64 // Half-height of the viewport in scene units
}

// DefaultCamera returns a camera framing the given bounds.
func DefaultCamera(b Bounds) Camera {
	size := b.Size()
	radius := math.Max(size.X, math.Max(size.Y, size.Z)) * 0.6
	if radius <= 0 {
		radius = 1
	}
	return Camera{
		Target: b.Center(),
		AzDeg:  30,
		ElDeg:  20,
		Radius: radius,
	}
}

// Project maps a scene point to normalized screen coordinates.
func (c Camera) Project(v Vec3) ProjectedPoint {
	radius := c.Radius
	if radius <= 0 {
		radius = 1
	}

	d := v.Sub(c.Target)
	az := degToRad(c.AzDeg)
	el := degToRad(c.ElDeg)

	// Rotate around Z by -az
	x1 := d.X*math.Cos(az) + d.Y*math.Sin(az)
	y1 := -d.X*math.Sin(az) + d.Y*math.Cos(az)

	// Tilt around the new X axis by el
	sy := y1*math.Sin(el) + d.Z*math.Cos(el)
	depth := y1*math.Cos(el) - d.Z*math.Sin(el)

	return ProjectedPoint{
		X:     x1 / radius,
		Y:     sy / radius,
		Depth: depth,
	}
}

// Orbit returns the camera rotated by the given deltas. Elevation is clamped
// to the poles.
func (c Camera) Orbit(dAz, dEl float64) Camera {
	c.AzDeg = NormalizeDegrees(c.AzDeg + dAz)
	c.ElDeg = clamp(c.ElDeg+dEl, -90, 90)
	return c
}

// Zoom returns the camera with its radius multiplied by factor.
func (c Camera) Zoom(factor float64) Camera {
	if factor > 0 {
		c.Radius *= factor
	}
	return c
}

// NormalizeDegrees wraps an angle to 0..360.
func NormalizeDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
