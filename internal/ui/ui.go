// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/litescript/ls-cluster/internal/state"
	"github.com/litescript/ls-cluster/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewDashboard ViewMode = iota
	ViewCluster
)

const viewCount = 2

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals a new cluster snapshot is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a load error.
	ErrorMsg struct {
		Error error
	}
)

// ReloadFunc reloads the data file into the state manager.
type ReloadFunc func() error

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state  *state.Manager
	reload ReloadFunc

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	watching  bool
	statusMsg string
	animTick  int // Animation tick for the spinner

	// Sub-models
	dashboard   DashboardModel
	clusterView ClusterViewModel

	// Data snapshot (updated on DataUpdateMsg)
	snapshot state.Snapshot
}

// Option configures the root model.
type Option func(*Model)

// WithReload enables the reload key.
func WithReload(fn ReloadFunc) Option {
	return func(m *Model) {
		m.reload = fn
	}
}

// WithWatching marks the data file as watched in the footer.
func WithWatching(on bool) Option {
	return func(m *Model) {
		m.watching = on
	}
}

// WithCamera sets the cluster view's home azimuth and elevation.
func WithCamera(azDeg, elDeg float64) Option {
	return func(m *Model) {
		m.clusterView = m.clusterView.SetHome(azDeg, elDeg)
	}
}

// WithSpin starts the cluster view rotating.
func WithSpin(on bool) Option {
	return func(m *Model) {
		m.clusterView = m.clusterView.SetSpinning(on)
	}
}

// WithView selects the initial view.
func WithView(v ViewMode) Option {
	return func(m *Model) {
		m.viewMode = v
	}
}

// New creates a new root UI model.
func New(stateMgr *state.Manager, opts ...Option) Model {
	m := Model{
		state:       stateMgr,
		viewMode:    ViewDashboard,
		dashboard:   NewDashboardModel(),
		clusterView: NewClusterViewModel(30, 20),
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.setSnapshot(stateMgr.Snapshot())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(),
		animTickCmd(),
		m.dashboard.Init(),
	}
	if m.viewMode == ViewCluster {
		cmds = append(cmds, m.clusterView.frameCmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "d":
			m.viewMode = ViewDashboard
		case "2", "c":
			cmds = append(cmds, m.showCluster())

		case "tab":
			// Cycle through views
			if next := (m.viewMode + 1) % viewCount; next == ViewCluster {
				cmds = append(cmds, m.showCluster())
			} else {
				m.viewMode = next
			}

		case "r":
			if m.reload != nil {
				m.statusMsg = "Reloading..."
				cmds = append(cmds, reloadCmd(m.state, m.reload))
			}

		default:
			// Pass to active view
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Propagate to sub-models
		// Logo takes 6 lines, footer 2
		contentHeight := msg.Height - 8
		m.dashboard = m.dashboard.SetSize(msg.Width, contentHeight)
		m.clusterView = m.clusterView.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		// Request fresh snapshot
		m.setSnapshot(m.state.Snapshot())

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case DataUpdateMsg:
		m.statusMsg = ""
		m.setSnapshot(msg.Snapshot)

	case FocusCategoryMsg:
		m.clusterView = m.clusterView.SetFilter(msg.Category)
		cmds = append(cmds, m.showCluster())

	case ErrorMsg:
		m.statusMsg = ""
		snap := m.state.Snapshot()
		snap.LastError = msg.Error
		m.setSnapshot(snap)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

// setSnapshot keeps the footer and both views on the same snapshot.
func (m *Model) setSnapshot(s state.Snapshot) {
	m.snapshot = s
	m.dashboard = m.dashboard.UpdateData(s)
	m.clusterView = m.clusterView.UpdateData(s)
}

func (m *Model) showCluster() tea.Cmd {
	if m.viewMode == ViewCluster {
		return nil
	}
	m.viewMode = ViewCluster
	var cmd tea.Cmd
	m.clusterView, cmd = m.clusterView.Resume()
	return cmd
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewCluster:
		m.clusterView, cmd = m.clusterView.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewDashboard:
		content = m.dashboard.View()
	case ViewCluster:
		content = m.clusterView.View()
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	header := m.renderHeader()
	footer := m.renderFooter()

	return header + "\n" + content + "\n" + footer
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	title := []rune("✦  L S - C L U S T E R  ✦")

	var b strings.Builder
	b.WriteString("\n  ")
	for i, r := range title {
		c := titlePalette.at(float64(i) / float64(len(title)-1))
		b.WriteString(lipgloss.NewStyle().Foreground(c.color()).Bold(true).Render(string(r)))
	}
	b.WriteString("\n")

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render("  Star Cluster Snapshot · Particle Layout"))
	b.WriteString("\n")
	b.WriteString(muted.Render(fmt.Sprintf("  (c) 2025 litescript.net | v%s", version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

type rgb struct{ r, g, b float64 }

func (c rgb) scale(f float64) rgb {
	return rgb{c.r * f, c.g * f, c.b * f}
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.r), channel(c.g), channel(c.b))
}

func (c rgb) color() lipgloss.Color {
	return lipgloss.Color(c.hex())
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(255, v))))
}

// palette is a list of evenly spaced color stops.
type palette []rgb

// Title runs hot to cold: main sequence gold, white dwarf, neutron cyan,
// black hole violet.
var titlePalette = palette{
	{0xF5, 0xD0, 0x6F},
	{0xF2, 0xF2, 0xF2},
	{0x38, 0xBD, 0xF8},
	{0x8B, 0x5C, 0xF6},
}

// at returns the color at t in [0, 1], clamped.
func (p palette) at(t float64) rgb {
	if len(p) == 0 {
		return rgb{}
	}
	if t <= 0 || len(p) == 1 {
		return p[0]
	}
	if t >= 1 {
		return p[len(p)-1]
	}

	pos := t * float64(len(p)-1)
	i := int(pos)
	f := pos - float64(i)
	lo, hi := p[i], p[i+1]
	return rgb{lerp(lo.r, hi.r, f), lerp(lo.g, hi.g, f), lerp(lo.b, hi.b, f)}
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Dashboard", "[2] Cluster"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	// Animated spinner frames
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	if m.snapshot.LastError != nil {
		status = errStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	} else if !m.snapshot.LastLoad.IsZero() {
		status = dimStyle.Render("loaded " + humanize.Time(m.snapshot.LastLoad))
		if m.snapshot.LoadDuration > 0 {
			status += dimStyle.Render(" (" + m.snapshot.LoadDuration.Round(time.Millisecond).String() + ")")
		}
		if m.watching {
			status = accentStyle.Render(spinner) + " " + status + dimStyle.Render(" · watching")
		}
	} else {
		status = accentStyle.Render(spinner) + " " + m.renderTwinkle("Loading cluster...")
	}

	// View-specific help hints
	var help string
	switch m.viewMode {
	case ViewCluster:
		help = dimStyle.Render("←/→: orbit | ↑↓: tilt | +/-: zoom | 0: reset | f: filter | space: spin")
	default:
		help = dimStyle.Render("↑↓: select | enter: view category | tab: switch view")
	}
	if m.reload != nil {
		help += dimStyle.Render(" | r: reload")
	}

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help

	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}

	return footer
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

func reloadCmd(mgr *state.Manager, reload ReloadFunc) tea.Cmd {
	return func() tea.Msg {
		if err := reload(); err != nil {
			return ErrorMsg{Error: err}
		}
		return DataUpdateMsg{Snapshot: mgr.Snapshot()}
	}
}

// renderTwinkle draws text in the title's cold end with a bright band
// sweeping across it on each animation tick.
func (m Model) renderTwinkle(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	const band = 4
	base := titlePalette[len(titlePalette)-1].scale(0.55)
	center := m.animTick%(len(runes)+2*band) - band

	var b strings.Builder
	for i, r := range runes {
		d := math.Abs(float64(i - center))
		glow := math.Max(0, 1-d/band)
		c := rgb{
			lerp(base.r, 0xE0, glow),
			lerp(base.g, 0xD4, glow),
			lerp(base.b, 0xFF, glow),
		}
		b.WriteString(lipgloss.NewStyle().Foreground(c.color()).Render(string(r)))
	}
	return b.String()
}
