package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/litescript/ls-cluster/internal/astro"
	"github.com/litescript/ls-cluster/internal/cluster"
	"github.com/litescript/ls-cluster/internal/scene"
	"github.com/litescript/ls-cluster/internal/state"
)

const (
	// Camera steps
	orbitStep = 15.0 // degrees per keypress
	tiltStep  = 10.0
	zoomStep  = 1.25
	spinStep  = 1.5 // degrees per frame

	// Animation
	animDuration  = 400 * time.Millisecond
	animFrameRate = 30 * time.Millisecond

	// Above this many particles only every n-th one is drawn
	maxDrawn = 200_000

	// Cells hit by at least this many particles use the dense glyph
	denseThreshold = 3

	colorBackground = "236"
)

// categoryGlyph is how one category is drawn on the terminal canvas.
type categoryGlyph struct {
	sparse rune
	dense  rune
	color  lipgloss.Color
}

var categoryGlyphs = map[cluster.Category]categoryGlyph{
	cluster.CategoryMainSequence: {'·', '•', "229"}, // pale gold
	cluster.CategoryWhiteDwarf:   {'∘', '○', "255"}, // white
	cluster.CategoryNeutronStar:  {'✧', '✦', "45"},  // cyan
	cluster.CategoryBlackHole:    {'◌', '●', "135"}, // violet
}

// ClusterViewModel is a terminal particle host: it draws every recorded
// container through an orbiting camera.
type ClusterViewModel struct {
	width  int
	height int

	scene *scene.Scene

	// Camera
	home   astro.Camera
	cam    astro.Camera
	homeAz float64
	homeEl float64

	// Animation state
	animating bool
	animFrom  astro.Camera
	animTo    astro.Camera
	animStart time.Time
	spinning  bool
	tickGen   int

	// Category filter: 0 = all, otherwise index into cluster.Categories + 1
	filterIdx int
}

// NewClusterViewModel creates a cluster view whose home camera looks from
// the given azimuth and elevation.
func NewClusterViewModel(azDeg, elDeg float64) ClusterViewModel {
	cam := astro.Camera{AzDeg: azDeg, ElDeg: elDeg, Radius: 1}
	return ClusterViewModel{
		home:   cam,
		cam:    cam,
		homeAz: azDeg,
		homeEl: elDeg,
	}
}

// Init returns nil cmd
func (m ClusterViewModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the viewport size.
func (m ClusterViewModel) SetSize(width, height int) ClusterViewModel {
	m.width = width
	m.height = height
	return m
}

// SetHome changes the home azimuth and elevation. Before a scene is loaded
// the current camera moves with it.
func (m ClusterViewModel) SetHome(azDeg, elDeg float64) ClusterViewModel {
	m.homeAz = azDeg
	m.homeEl = elDeg
	m.home.AzDeg = azDeg
	m.home.ElDeg = elDeg
	if m.scene == nil {
		m.cam = m.home
	}
	return m
}

// SetSpinning turns continuous rotation on or off.
func (m ClusterViewModel) SetSpinning(on bool) ClusterViewModel {
	m.spinning = on
	return m
}

// UpdateData updates with a new data snapshot. The camera is reframed on the
// first scene only, so a reload keeps the user's view.
func (m ClusterViewModel) UpdateData(snapshot state.Snapshot) ClusterViewModel {
	if snapshot.Scene == nil {
		return m
	}

	first := m.scene == nil
	m.scene = snapshot.Scene

	home := astro.DefaultCamera(m.scene.Bounds())
	home.AzDeg = m.homeAz
	home.ElDeg = m.homeEl
	m.home = home

	if first {
		m.cam = home
	}
	return m
}

// Filter returns the category being shown, or false when all are shown.
func (m ClusterViewModel) Filter() (cluster.Category, bool) {
	if m.filterIdx == 0 {
		return 0, false
	}
	return cluster.Categories[m.filterIdx-1], true
}

// SetFilter shows only one category.
func (m ClusterViewModel) SetFilter(c cluster.Category) ClusterViewModel {
	for i, cat := range cluster.Categories {
		if cat == c {
			m.filterIdx = i + 1
		}
	}
	return m
}

// Camera returns the current camera.
func (m ClusterViewModel) Camera() astro.Camera {
	return m.cam
}

// animTickMsg is sent during animation
type animTickMsg struct {
	gen int
	at  time.Time
}

func animTick(gen int) tea.Cmd {
	return tea.Tick(animFrameRate, func(t time.Time) tea.Msg {
		return animTickMsg{gen: gen, at: t}
	})
}

// Resume restarts the frame loop after the view was hidden. Ticks from an
// earlier loop are ignored.
func (m ClusterViewModel) Resume() (ClusterViewModel, tea.Cmd) {
	if !m.animating && !m.spinning {
		return m, nil
	}
	m.tickGen++
	return m, animTick(m.tickGen)
}

// frameCmd continues the current frame loop, if any.
func (m ClusterViewModel) frameCmd() tea.Cmd {
	if !m.animating && !m.spinning {
		return nil
	}
	return animTick(m.tickGen)
}

// Update handles messages.
func (m ClusterViewModel) Update(msg tea.Msg) (ClusterViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			return m.animateTo(m.target().Orbit(-orbitStep, 0))
		case "right", "l":
			return m.animateTo(m.target().Orbit(orbitStep, 0))
		case "up", "k":
			return m.animateTo(m.target().Orbit(0, tiltStep))
		case "down", "j":
			return m.animateTo(m.target().Orbit(0, -tiltStep))
		case "+", "=":
			return m.animateTo(m.target().Zoom(1 / zoomStep))
		case "-", "_":
			return m.animateTo(m.target().Zoom(zoomStep))
		case "0":
			return m.animateTo(m.home)
		case "f":
			m = m.cycleFilter()
		case " ":
			idle := !m.animating && !m.spinning
			m.spinning = !m.spinning
			if idle {
				return m.Resume()
			}
		}

	case animTickMsg:
		if msg.gen == m.tickGen {
			return m.updateAnimation()
		}
	}

	return m, nil
}

// target is where the camera is heading, so repeated keypresses accumulate.
func (m ClusterViewModel) target() astro.Camera {
	if m.animating {
		return m.animTo
	}
	return m.cam
}

func (m ClusterViewModel) animateTo(to astro.Camera) (ClusterViewModel, tea.Cmd) {
	running := m.animating || m.spinning

	m.animating = true
	m.animFrom = m.cam
	m.animTo = to
	m.animStart = time.Now()

	if running {
		return m, nil
	}
	m.tickGen++
	return m, animTick(m.tickGen)
}

func (m ClusterViewModel) updateAnimation() (ClusterViewModel, tea.Cmd) {
	if m.animating {
		elapsed := time.Since(m.animStart)
		t := float64(elapsed) / float64(animDuration)

		if t >= 1.0 {
			// Animation complete
			m.animating = false
			m.cam = m.animTo
		} else {
			m.cam = interpolateCamera(m.animFrom, m.animTo, easeOutCubic(t))
		}
	}

	if m.spinning {
		m.cam = m.cam.Orbit(spinStep, 0)
		if m.animating {
			m.animTo = m.animTo.Orbit(spinStep, 0)
		}
	}

	if m.animating || m.spinning {
		return m, animTick(m.tickGen)
	}
	return m, nil
}

func easeOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

func interpolateCamera(from, to astro.Camera, t float64) astro.Camera {
	return astro.Camera{
		Target: astro.Vec3{
			X: lerp(from.Target.X, to.Target.X, t),
			Y: lerp(from.Target.Y, to.Target.Y, t),
			Z: lerp(from.Target.Z, to.Target.Z, t),
		},
		AzDeg:  astro.NormalizeDegrees(lerpAngle(from.AzDeg, to.AzDeg, t)),
		ElDeg:  lerp(from.ElDeg, to.ElDeg, t),
		Radius: lerp(from.Radius, to.Radius, t),
	}
}

func (m ClusterViewModel) cycleFilter() ClusterViewModel {
	m.filterIdx = (m.filterIdx + 1) % (len(cluster.Categories) + 1)
	return m
}

func (m ClusterViewModel) shows(c cluster.Category) bool {
	f, ok := m.Filter()
	return !ok || f == c
}

// View renders the cluster view.
func (m ClusterViewModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Cluster view requires larger terminal"
	}

	if m.scene == nil {
		return "No scene loaded"
	}

	// Reserve lines for header and status
	viewHeight := m.height - 4
	viewWidth := m.width

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCanvas(viewWidth, viewHeight))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	return b.String()
}

func (m ClusterViewModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	title := titleStyle.Render("Cluster View")

	filterStr := dimStyle.Render("All categories")
	if c, ok := m.Filter(); ok {
		g := categoryGlyphs[c]
		filterStr = lipgloss.NewStyle().Foreground(g.color).Render(string(g.dense) + " " + c.Label())
	}

	zoom := 1.0
	if m.cam.Radius > 0 {
		zoom = m.home.Radius / m.cam.Radius
	}
	compass := dimStyle.Render(fmt.Sprintf("Az:%.0f° El:%.0f° Zoom:x%.1f", m.cam.AzDeg, m.cam.ElDeg, zoom))

	if lon, lat, ok := m.filterBearing(); ok {
		compass += dimStyle.Render(fmt.Sprintf(" | Centroid lon:%.0f° lat:%+.0f°", lon, lat))
	}

	spin := ""
	if m.spinning {
		spin = " | " + dimStyle.Render("spinning")
	}

	return fmt.Sprintf("%s | %s | %s%s", title, filterStr, compass, spin)
}

func (m ClusterViewModel) renderStatus() string {
	var parts []string
	for _, c := range cluster.Categories {
		n := 0
		for _, ct := range m.scene.Containers {
			if ct.Category == c {
				n += ct.Count()
			}
		}
		g := categoryGlyphs[c]
		style := lipgloss.NewStyle().Foreground(g.color)
		if !m.shows(c) {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		}
		parts = append(parts, style.Render(fmt.Sprintf("%c %s %s", g.dense, c.Label(), humanize.Comma(int64(n)))))
	}

	status := strings.Join(parts, "  ")
	if stride := m.stride(); stride > 1 {
		dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
		status += "\n" + dimStyle.Render(fmt.Sprintf("    drawing 1 in %d particles", stride))
	}
	return status
}

// filterBearing returns the direction from the scene center to the mean
// position of the filtered category. ok is false without a filter or
// particles.
func (m ClusterViewModel) filterBearing() (lon, lat float64, ok bool) {
	c, filtered := m.Filter()
	if !filtered || m.scene == nil {
		return 0, 0, false
	}

	var sum astro.Vec3
	n := 0
	for _, ct := range m.scene.Containers {
		if ct.Category != c {
			continue
		}
		for _, p := range ct.Positions {
			sum = sum.Add(p)
		}
		n += len(ct.Positions)
	}
	if n == 0 {
		return 0, 0, false
	}

	d := sum.Scale(1 / float64(n)).Sub(m.scene.Bounds().Center())
	return astro.Longitude(d), astro.Latitude(d), true
}

// stride returns the sampling step that keeps a frame under maxDrawn
// particles.
func (m ClusterViewModel) stride() int {
	total := 0
	for _, c := range m.scene.Containers {
		if m.shows(c.Category) {
			total += c.Count()
		}
	}
	if total <= maxDrawn {
		return 1
	}
	return (total + maxDrawn - 1) / maxDrawn
}

// cell is one character of the canvas.
type cell struct {
	set   bool
	cat   cluster.Category
	depth float64
	hits  int
}

// project maps a scene point to a canvas cell. Terminal cells are about
// twice as tall as they are wide.
func (m ClusterViewModel) project(v astro.Vec3, width, height int) (x, y int, depth float64, ok bool) {
	p := m.cam.Project(v)
	if !p.Visible() {
		return 0, 0, 0, false
	}

	scaleY := float64(height) / 2
	scaleX := scaleY * 2
	if half := float64(width) / 2; scaleX > half {
		scaleX = half
		scaleY = half / 2
	}

	x = int(math.Floor(float64(width)/2 + p.X*scaleX))
	y = int(math.Floor(float64(height)/2 - p.Y*scaleY))
	if x < 0 || x >= width || y < 0 || y >= height {
		return 0, 0, 0, false
	}
	return x, y, p.Depth, true
}

func (m ClusterViewModel) rasterize(width, height int) [][]cell {
	grid := make([][]cell, height)
	for y := range grid {
		grid[y] = make([]cell, width)
	}

	stride := m.stride()
	for _, c := range m.scene.Containers {
		if !m.shows(c.Category) {
			continue
		}
		for i := 0; i < len(c.Positions); i += stride {
			x, y, depth, ok := m.project(c.Positions[i], width, height)
			if !ok {
				continue
			}
			cl := &grid[y][x]
			cl.hits++
			// Nearest particle wins the cell
			if cl.set && depth >= cl.depth {
				continue
			}
			cl.set = true
			cl.cat = c.Category
			cl.depth = depth
		}
	}
	return grid
}

func (m ClusterViewModel) renderCanvas(width, height int) string {
	grid := m.rasterize(width, height)
	bg := lipgloss.NewStyle().Foreground(lipgloss.Color(colorBackground))

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cl := grid[y][x]
			if !cl.set {
				b.WriteString(bg.Render(" "))
				continue
			}
			g := categoryGlyphs[cl.cat]
			glyph := g.sparse
			if cl.hits >= denseThreshold {
				glyph = g.dense
			}
			b.WriteString(lipgloss.NewStyle().Foreground(g.color).Render(string(glyph)))
		}
		if y < height-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// normalizeAngle wraps angle to -180..+180 range
func normalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}
	return a
}

// lerpAngle interpolates between angles, taking shortest path
func lerpAngle(a, b, t float64) float64 {
	diff := normalizeAngle(b - a)
	return a + diff*t
}

// lerp linear interpolation
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
