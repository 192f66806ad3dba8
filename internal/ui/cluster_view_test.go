package ui

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-cluster/internal/astro"
	"github.com/litescript/ls-cluster/internal/cluster"
	"github.com/litescript/ls-cluster/internal/scene"
	"github.com/litescript/ls-cluster/internal/state"
)

func testScene(containers ...scene.Container) *scene.Scene {
	return &scene.Scene{Containers: containers}
}

func container(c cluster.Category, pts ...astro.Vec3) scene.Container {
	return scene.Container{Name: scene.ContainerName(c, 0), Category: c, Positions: pts}
}

func loadedView(sc *scene.Scene) ClusterViewModel {
	m := NewClusterViewModel(30, 20).SetSize(80, 30)
	return m.UpdateData(state.Snapshot{Scene: sc})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0, 0},
		{180, 180},
		{-180, -180},
		{360, 0},
		{-360, 0},
		{350, -10},   // wraps to -10
		{370, 10},    // wraps to 10
		{-190, 170},  // wraps to 170
		{540, 180},   // multiple wraps
		{-540, -180}, // multiple wraps
	}

	for _, tt := range tests {
		got := normalizeAngle(tt.input)
		if math.Abs(got-tt.expected) > 0.001 {
			t.Errorf("normalizeAngle(%v) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLerpAngle_ShortestPath(t *testing.T) {
	tests := []struct {
		from     float64
		to       float64
		t        float64
		expected float64
	}{
		{0, 90, 0.5, 45},
		{0, 180, 0.5, 90},

		// Wrap-around: 350 to 10 should go +20, not -340
		{350, 10, 0.5, 360},
		{350, 10, 0.0, 350},
		{350, 10, 1.0, 370},

		// Other direction: 10 to 350 should go -20
		{10, 350, 0.5, 0},
		{10, 350, 1.0, -10},
	}

	for _, tt := range tests {
		got := lerpAngle(tt.from, tt.to, tt.t)
		if math.Abs(got-tt.expected) > 0.001 {
			t.Errorf("lerpAngle(%v, %v, %v) = %v, want %v", tt.from, tt.to, tt.t, got, tt.expected)
		}
	}
}

func TestEaseOutCubic(t *testing.T) {
	if easeOutCubic(0) != 0 || easeOutCubic(1) != 1 {
		t.Error("ease should map 0 to 0 and 1 to 1")
	}
	if easeOutCubic(0.5) <= 0.5 {
		t.Error("ease-out should be ahead of linear at the midpoint")
	}
}

func TestClusterView_UpdateDataFramesFirstScene(t *testing.T) {
	sc := testScene(container(cluster.CategoryMainSequence,
		astro.Vec3{X: -10, Y: -10, Z: -10},
		astro.Vec3{X: 10, Y: 10, Z: 10},
	))
	m := loadedView(sc)

	cam := m.Camera()
	if cam.Target != (astro.Vec3{}) {
		t.Errorf("target = %+v, want origin", cam.Target)
	}
	if cam.AzDeg != 30 || cam.ElDeg != 20 {
		t.Errorf("camera = %.0f/%.0f, want 30/20", cam.AzDeg, cam.ElDeg)
	}
	if math.Abs(cam.Radius-12) > 1e-9 {
		t.Errorf("radius = %v, want 12", cam.Radius)
	}

	// A reload keeps the user's orientation
	m.cam = m.cam.Orbit(90, 0)
	m = m.UpdateData(state.Snapshot{Scene: testScene(container(cluster.CategoryWhiteDwarf, astro.Vec3{}))})
	if m.Camera().AzDeg != 120 {
		t.Errorf("reload reset azimuth to %v", m.Camera().AzDeg)
	}
}

func TestClusterView_Project_CenterIsCenter(t *testing.T) {
	m := loadedView(testScene(container(cluster.CategoryMainSequence,
		astro.Vec3{X: -1, Y: -1, Z: -1},
		astro.Vec3{X: 1, Y: 1, Z: 1},
	)))

	x, y, _, ok := m.project(astro.Vec3{}, 100, 50)
	if !ok {
		t.Fatal("center point should be visible")
	}
	if x != 50 || y != 25 {
		t.Errorf("center = (%d, %d), want (50, 25)", x, y)
	}

	if _, _, _, ok := m.project(astro.Vec3{X: 100}, 100, 50); ok {
		t.Error("far point should be outside the viewport")
	}
}

func TestClusterView_NearestParticleWins(t *testing.T) {
	m := loadedView(testScene(
		container(cluster.CategoryBlackHole, astro.Vec3{X: 0, Y: 1, Z: 0}),
		container(cluster.CategoryNeutronStar, astro.Vec3{X: 0, Y: -1, Z: 0}),
	))
	m.cam = astro.Camera{AzDeg: 0, ElDeg: 0, Radius: 10}

	grid := m.rasterize(40, 20)
	x, y, _, _ := m.project(astro.Vec3{}, 40, 20)
	cl := grid[y][x]

	if !cl.set {
		t.Fatal("cell should be set")
	}
	if cl.cat != cluster.CategoryNeutronStar {
		t.Errorf("cell category = %v, want NeutronStar (nearer)", cl.cat)
	}
	if cl.hits != 2 {
		t.Errorf("hits = %d, want 2", cl.hits)
	}
}

func TestClusterView_DenseGlyph(t *testing.T) {
	pts := []astro.Vec3{{}, {}, {}}
	m := loadedView(testScene(container(cluster.CategoryMainSequence, pts...)))
	m.cam = astro.Camera{Radius: 1}

	out := m.renderCanvas(40, 20)
	if !strings.ContainsRune(out, categoryGlyphs[cluster.CategoryMainSequence].dense) {
		t.Errorf("expected dense glyph in canvas")
	}

	m = loadedView(testScene(container(cluster.CategoryMainSequence, astro.Vec3{})))
	m.cam = astro.Camera{Radius: 1}
	out = m.renderCanvas(40, 20)
	if !strings.ContainsRune(out, categoryGlyphs[cluster.CategoryMainSequence].sparse) {
		t.Errorf("expected sparse glyph in canvas")
	}
}

func TestClusterView_Filter(t *testing.T) {
	m := loadedView(testScene(
		container(cluster.CategoryMainSequence, astro.Vec3{}),
		container(cluster.CategoryBlackHole, astro.Vec3{X: 0.5}),
	))

	if _, ok := m.Filter(); ok {
		t.Fatal("filter should start empty")
	}

	seen := []cluster.Category{}
	for i := 0; i < len(cluster.Categories); i++ {
		m, _ = m.Update(key("f"))
		c, ok := m.Filter()
		if !ok {
			t.Fatalf("step %d: expected a filter", i)
		}
		seen = append(seen, c)
	}
	for i, c := range cluster.Categories {
		if seen[i] != c {
			t.Errorf("filter[%d] = %v, want %v", i, seen[i], c)
		}
	}

	m, _ = m.Update(key("f"))
	if _, ok := m.Filter(); ok {
		t.Error("filter should wrap back to all")
	}

	m = m.SetFilter(cluster.CategoryBlackHole)
	grid := m.rasterize(40, 20)
	for _, row := range grid {
		for _, cl := range row {
			if cl.set && cl.cat != cluster.CategoryBlackHole {
				t.Errorf("filtered canvas drew %v", cl.cat)
			}
		}
	}
}

func TestClusterView_OrbitAnimation(t *testing.T) {
	m := loadedView(testScene(container(cluster.CategoryMainSequence, astro.Vec3{X: 1}, astro.Vec3{X: -1})))
	start := m.Camera()

	m, cmd := m.Update(key("right"))
	if cmd == nil {
		t.Fatal("orbit should start the frame loop")
	}
	if !m.animating {
		t.Fatal("orbit should animate")
	}
	if m.animTo.AzDeg != start.AzDeg+orbitStep {
		t.Errorf("target azimuth = %v, want %v", m.animTo.AzDeg, start.AzDeg+orbitStep)
	}

	// A second press accumulates on the target and reuses the running loop
	m, cmd = m.Update(key("right"))
	if cmd != nil {
		t.Error("second press should not start another loop")
	}
	if m.animTo.AzDeg != start.AzDeg+2*orbitStep {
		t.Errorf("target azimuth = %v, want %v", m.animTo.AzDeg, start.AzDeg+2*orbitStep)
	}

	// Stale ticks are ignored
	before := m.Camera()
	m, _ = m.Update(animTickMsg{gen: m.tickGen + 1})
	if m.Camera() != before {
		t.Error("stale tick moved the camera")
	}

	m.animStart = time.Now().Add(-time.Second)
	m, cmd = m.Update(animTickMsg{gen: m.tickGen})
	if m.animating || cmd != nil {
		t.Error("animation should be complete")
	}
	if m.Camera().AzDeg != start.AzDeg+2*orbitStep {
		t.Errorf("final azimuth = %v", m.Camera().AzDeg)
	}
}

func TestClusterView_ZoomAndReset(t *testing.T) {
	m := loadedView(testScene(container(cluster.CategoryMainSequence, astro.Vec3{X: 5}, astro.Vec3{X: -5})))
	home := m.Camera()

	m, _ = m.Update(key("+"))
	if math.Abs(m.animTo.Radius-home.Radius/zoomStep) > 1e-9 {
		t.Errorf("zoom in radius = %v", m.animTo.Radius)
	}

	m, _ = m.Update(key("0"))
	if m.animTo != home {
		t.Errorf("reset target = %+v, want %+v", m.animTo, home)
	}
}

func TestClusterView_Spin(t *testing.T) {
	m := loadedView(testScene(container(cluster.CategoryMainSequence, astro.Vec3{})))
	az := m.Camera().AzDeg

	m, cmd := m.Update(key(" "))
	if !m.spinning || cmd == nil {
		t.Fatal("space should start spinning")
	}

	m, cmd = m.Update(animTickMsg{gen: m.tickGen})
	if cmd == nil {
		t.Error("spinning should keep ticking")
	}
	if m.Camera().AzDeg != astro.NormalizeDegrees(az+spinStep) {
		t.Errorf("azimuth = %v, want %v", m.Camera().AzDeg, az+spinStep)
	}

	m, _ = m.Update(key(" "))
	_, cmd = m.Update(animTickMsg{gen: m.tickGen})
	if cmd != nil {
		t.Error("loop should stop once spinning is off")
	}
}

func TestClusterView_Stride(t *testing.T) {
	m := loadedView(testScene(scene.Container{
		Name:      "MainSequence.000",
		Category:  cluster.CategoryMainSequence,
		Positions: make([]astro.Vec3, maxDrawn+1),
	}))
	if got := m.stride(); got != 2 {
		t.Errorf("stride = %d, want 2", got)
	}

	m = m.SetFilter(cluster.CategoryWhiteDwarf)
	if got := m.stride(); got != 1 {
		t.Errorf("filtered stride = %d, want 1", got)
	}
}

func TestClusterView_View(t *testing.T) {
	m := NewClusterViewModel(30, 20).SetSize(10, 5)
	if !strings.Contains(m.View(), "larger terminal") {
		t.Error("small terminal should be reported")
	}

	m = m.SetSize(80, 30)
	if !strings.Contains(m.View(), "No scene") {
		t.Error("missing scene should be reported")
	}

	m = loadedView(testScene(container(cluster.CategoryNeutronStar, astro.Vec3{}, astro.Vec3{X: 1})))
	out := m.View()
	for _, want := range []string{"Cluster View", "All categories", "Neutron star 2", "Az:30°"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestClusterView_FilterBearing(t *testing.T) {
	sc := testScene(
		container(cluster.CategoryMainSequence, astro.Vec3{X: -1, Y: -1, Z: -1}, astro.Vec3{X: 1, Y: 1, Z: 1}),
		container(cluster.CategoryBlackHole, astro.Vec3{Y: 1}),
		container(cluster.CategoryWhiteDwarf, astro.Vec3{Z: 1}),
	)
	m := loadedView(sc)

	if _, _, ok := m.filterBearing(); ok {
		t.Error("bearing without a filter")
	}

	tests := []struct {
		cat      cluster.Category
		lon, lat float64
	}{
		{cluster.CategoryBlackHole, 90, 0},
		{cluster.CategoryWhiteDwarf, 0, 90},
	}
	for _, tt := range tests {
		lon, lat, ok := m.SetFilter(tt.cat).filterBearing()
		if !ok {
			t.Fatalf("%s: no bearing", tt.cat)
		}
		if math.Abs(lon-tt.lon) > 1e-9 || math.Abs(lat-tt.lat) > 1e-9 {
			t.Errorf("%s: lon/lat = %v/%v, want %v/%v", tt.cat, lon, lat, tt.lon, tt.lat)
		}
	}

	if _, _, ok := m.SetFilter(cluster.CategoryNeutronStar).filterBearing(); ok {
		t.Error("bearing for an empty category")
	}

	out := m.SetFilter(cluster.CategoryBlackHole).View()
	if !strings.Contains(out, "lon:90°") {
		t.Errorf("header missing centroid bearing:\n%s", out)
	}
}
