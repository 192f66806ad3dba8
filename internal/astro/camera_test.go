package astro

import (
	"math"
	"testing"
)

func TestCameraProject_FrontView(t *testing.T) {
	cam := Camera{Radius: 10}

	tests := []struct {
		name string
		v    Vec3
		want ProjectedPoint
	}{
		{"target", Vec3{0, 0, 0}, ProjectedPoint{0, 0, 0}},
		{"right", Vec3{5, 0, 0}, ProjectedPoint{0.5, 0, 0}},
		{"up", Vec3{0, 0, 5}, ProjectedPoint{0, 0.5, 0}},
		{"behind", Vec3{0, 5, 0}, ProjectedPoint{0, 0, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cam.Project(tt.v)
			if !pointClose(got, tt.want, 1e-9) {
				t.Errorf("Project(%v) = %+v, want %+v", tt.v, got, tt.want)
			}
		})
	}
}

func TestCameraProject_TopDown(t *testing.T) {
	cam := Camera{ElDeg: 90, Radius: 10}

	// Looking down -Z: +Y is up on screen, higher Z is closer.
	got := cam.Project(Vec3{0, 5, 0})
	if !pointClose(got, ProjectedPoint{0, 0.5, 0}, 1e-9) {
		t.Errorf("Project(+Y) = %+v, want Y=0.5", got)
	}

	got = cam.Project(Vec3{0, 0, 5})
	if !pointClose(got, ProjectedPoint{0, 0, -5}, 1e-9) {
		t.Errorf("Project(+Z) = %+v, want depth -5", got)
	}
}

func TestCameraProject_Azimuth(t *testing.T) {
	cam := Camera{AzDeg: 90, Radius: 10}

	// After a quarter turn the +Y axis points right.
	got := cam.Project(Vec3{0, 5, 0})
	if !pointClose(got, ProjectedPoint{0.5, 0, 0}, 1e-9) {
		t.Errorf("Project = %+v, want X=0.5", got)
	}
}

func TestCameraProject_Target(t *testing.T) {
	cam := Camera{Target: Vec3{10, 10, 10}, AzDeg: 47, ElDeg: 12, Radius: 3}
	got := cam.Project(Vec3{10, 10, 10})
	if !pointClose(got, ProjectedPoint{}, 1e-9) {
		t.Errorf("target should project to origin, got %+v", got)
	}
}

func TestProjectedPoint_Visible(t *testing.T) {
	tests := []struct {
		p    ProjectedPoint
		want bool
	}{
		{ProjectedPoint{0, 0, 0}, true},
		{ProjectedPoint{1, -1, 0}, true},
		{ProjectedPoint{1.01, 0, 0}, false},
		{ProjectedPoint{0, -1.5, 0}, false},
	}

	for _, tt := range tests {
		if got := tt.p.Visible(); got != tt.want {
			t.Errorf("Visible(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestCameraOrbit(t *testing.T) {
	cam := Camera{AzDeg: 350, ElDeg: 80, Radius: 1}

	moved := cam.Orbit(20, 30)
	if math.Abs(moved.AzDeg-10) > 1e-9 {
		t.Errorf("AzDeg = %v, want 10", moved.AzDeg)
	}
	if moved.ElDeg != 90 {
		t.Errorf("ElDeg = %v, want clamped 90", moved.ElDeg)
	}

	moved = cam.Orbit(0, -200)
	if moved.ElDeg != -90 {
		t.Errorf("ElDeg = %v, want clamped -90", moved.ElDeg)
	}
}

func TestCameraZoom(t *testing.T) {
	cam := Camera{Radius: 4}
	if got := cam.Zoom(0.5).Radius; got != 2 {
		t.Errorf("Zoom(0.5) radius = %v, want 2", got)
	}
	if got := cam.Zoom(0).Radius; got != 4 {
		t.Errorf("Zoom(0) radius = %v, want unchanged 4", got)
	}
}

func TestDefaultCamera(t *testing.T) {
	b := Bounds{Min: Vec3{-10, -5, 0}, Max: Vec3{10, 5, 2}}
	cam := DefaultCamera(b)

	if cam.Target != (Vec3{0, 0, 1}) {
		t.Errorf("Target = %v, want {0 0 1}", cam.Target)
	}
	if math.Abs(cam.Radius-12) > 1e-9 {
		t.Errorf("Radius = %v, want 12", cam.Radius)
	}

	// Degenerate bounds still produce a usable camera
	if r := DefaultCamera(Bounds{}).Radius; r != 1 {
		t.Errorf("degenerate Radius = %v, want 1", r)
	}
}

func TestNormalizeDegrees(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{370, 10},
		{-10, 350},
		{-370, 350},
		{720, 0},
	}
	for _, tt := range tests {
		if got := NormalizeDegrees(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func pointClose(a, b ProjectedPoint, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Depth-b.Depth) <= tol
}
