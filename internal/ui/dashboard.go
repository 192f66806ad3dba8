package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/litescript/ls-cluster/internal/cluster"
	"github.com/litescript/ls-cluster/internal/state"
)

// Styles for the dashboard
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

const dashboardEvents = 5

// trendWidth is the number of loads shown in the trend column.
const trendWidth = 8

// trendBlocks are the sparkline levels, lowest first.
var trendBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// FocusCategoryMsg asks the root model to open the cluster view filtered to
// one category.
type FocusCategoryMsg struct {
	Category cluster.Category
}

// DashboardModel is the per-category overview.
type DashboardModel struct {
	width    int
	height   int
	cursor   int
	snapshot state.Snapshot
	lastErr  error
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel() DashboardModel {
	return DashboardModel{}
}

// Init implements the Bubble Tea model interface.
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the viewport size.
func (m DashboardModel) SetSize(width, height int) DashboardModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m DashboardModel) UpdateData(snapshot state.Snapshot) DashboardModel {
	m.snapshot = snapshot
	m.lastErr = snapshot.LastError
	return m
}

// Update handles messages.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		rows := len(cluster.Categories)

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < rows-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			m.cursor = rows - 1
		case "enter":
			c := m.SelectedCategory()
			return m, func() tea.Msg {
				return FocusCategoryMsg{Category: c}
			}
		}
	}

	return m, nil
}

// SelectedCategory returns the category under the cursor.
func (m DashboardModel) SelectedCategory() cluster.Category {
	return cluster.Categories[m.cursor]
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	var b strings.Builder

	// Show error state if present
	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("Error: " + m.lastErr.Error()))
		b.WriteString("\n\n")
	}

	// Show loading state
	if m.snapshot.Cluster == nil {
		if m.lastErr == nil {
			b.WriteString("Waiting for cluster data...\n")
		}
		return b.String()
	}

	b.WriteString(m.renderSource())
	b.WriteString("\n\n")

	b.WriteString(m.renderCategoryTable())
	b.WriteString("\n")

	b.WriteString(m.renderEvents())

	return b.String()
}

func (m DashboardModel) renderSource() string {
	var b strings.Builder
	s := m.snapshot.Summary

	b.WriteString(titleStyle.Render("Cluster Snapshot"))
	b.WriteString("\n")
	b.WriteString(rowStyle.Render(fmt.Sprintf("  %s", s.Source)))
	b.WriteString("\n")

	line := fmt.Sprintf("  %s stars · %d containers (cap %s) · loaded %s",
		humanize.Comma(int64(s.Total)),
		s.TotalBatches(),
		humanize.Comma(int64(s.MaxBatchSize)),
		s.LoadedAt.Local().Format(time.TimeOnly),
	)
	b.WriteString(mutedStyle.Render(line))

	if s.Unrecognized > 0 {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render(fmt.Sprintf("  %s rows skipped: unrecognized type code", humanize.Comma(int64(s.Unrecognized)))))
	}

	return b.String()
}

func (m DashboardModel) renderCategoryTable() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Categories"))
	b.WriteString("\n")

	header := fmt.Sprintf("%-15s %12s %-14s %14s %12s %10s  %-*s",
		"Category", "Stars", "Share", "Mass (Msun)", "Mean |v|", "Containers", trendWidth, "Trend")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	total := m.snapshot.Summary.Total
	for i, c := range cluster.Categories {
		st := m.snapshot.Summary.Stats(c)

		share := 0.0
		if total > 0 {
			share = float64(st.Count) / float64(total)
		}

		g := categoryGlyphs[c]
		glyph := lipgloss.NewStyle().Foreground(g.color).Render(string(g.dense))

		row := fmt.Sprintf("%-13s %12s %s %14s %12s %10d",
			c.Label(),
			humanize.Comma(int64(st.Count)),
			m.renderShareBar(share, 12),
			humanize.CommafWithDigits(st.TotalMass, 1),
			humanize.CommafWithDigits(st.MeanSpeed, 2),
			st.Batches,
		)
		trend := lipgloss.NewStyle().Foreground(g.color).Render(renderTrend(m.snapshot.CountHistory(c), trendWidth))

		if i == m.cursor {
			b.WriteString(glyph + " " + selectedRowStyle.Render(row))
		} else {
			b.WriteString(glyph + " " + rowStyle.Render(row))
		}
		b.WriteString("  " + trend)
		b.WriteString("\n")
	}

	return b.String()
}

func (m DashboardModel) renderShareBar(share float64, width int) string {
	filled := int(share * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return "[" + lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Render(bar) + "]"
}

// renderTrend draws the last width counts as a sparkline scaled between
// their minimum and maximum, right-aligned. A flat series stays on the
// lowest level.
func renderTrend(counts []int, width int) string {
	if len(counts) > width {
		counts = counts[len(counts)-width:]
	}
	if len(counts) == 0 {
		return strings.Repeat(" ", width)
	}

	lo, hi := counts[0], counts[0]
	for _, n := range counts[1:] {
		lo = min(lo, n)
		hi = max(hi, n)
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", width-len(counts)))
	for _, n := range counts {
		idx := 0
		if hi > lo {
			idx = int(float64(n-lo) / float64(hi-lo) * float64(len(trendBlocks)-1))
		}
		b.WriteRune(trendBlocks[idx])
	}
	return b.String()
}

func (m DashboardModel) renderEvents() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Recent Events"))
	b.WriteString("\n")

	events := m.snapshot.Events
	if len(events) == 0 {
		b.WriteString(mutedStyle.Render("  No events"))
		b.WriteString("\n")
		return b.String()
	}
	if len(events) > dashboardEvents {
		events = events[len(events)-dashboardEvents:]
	}

	for _, e := range events {
		style := mutedStyle
		switch e.Type {
		case state.EventLoadFailed:
			style = errorStyle
		case state.EventUnrecognizedRows:
			style = warnStyle
		}
		line := fmt.Sprintf("  %s %-17s %s", e.Timestamp.Local().Format(time.TimeOnly), e.Type, state.DescribeEvent(e))
		b.WriteString(style.Render(truncate(line, max(m.width, 40))))
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
