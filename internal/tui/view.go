package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI based on the model state
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	// Header with title and file status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// View mode tabs
	b.WriteString(m.renderViewTabs())
	b.WriteString("\n")

	if m.loadErr != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.loadErr)))
		b.WriteString("\n")
	}

	if m.report == nil {
		if m.loadErr == nil {
			b.WriteString(m.styles.Muted.Render("Analyzing " + m.path + "..."))
		}
		b.WriteString("\n")
		b.WriteString(m.renderHelp())
		return b.String()
	}

	// Main content area based on view mode
	switch m.viewMode {
	case ViewEvents:
		b.WriteString(m.renderEventsView())
	case ViewInsights:
		b.WriteString(m.renderInsightsView())
	case ViewSequences:
		b.WriteString(m.renderSequencesView())
	case ViewHistogram:
		b.WriteString(m.renderHistogramView())
	}

	// Help footer
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

// renderHeader renders the top header bar
func (m Model) renderHeader() string {
	title := m.styles.Title.Render("Timeline Stats")

	var status string
	if r := m.report; r == nil {
		status = m.styles.Status.Render("No report")
	} else {
		status = m.styles.Status.Render(fmt.Sprintf(
			"%d events | %ds video | loaded %s",
			r.Insights.TotalEvents,
			r.Session.VideoDuration,
			m.loadedAt.Format("15:04:05"),
		))
	}

	// Live indicator shows whether the file is being followed
	name := " [" + filepath.Base(m.path) + "]"
	var indicator string
	if m.watcher != nil {
		indicator = m.styles.ActiveIndicator.Render(name)
	} else {
		indicator = m.styles.InactiveIndicator.Render(name)
	}

	leftPart := lipgloss.Width(title)
	rightPart := lipgloss.Width(status) + lipgloss.Width(indicator)
	spacing := max(m.width-leftPart-rightPart-4, 1)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		title,
		strings.Repeat(" ", spacing),
		status,
		indicator,
	)
}

// renderViewTabs renders the tab bar for view modes
func (m Model) renderViewTabs() string {
	tabs := []struct {
		name string
		mode ViewMode
		key  string
	}{
		{"Events", ViewEvents, "1"},
		{"Insights", ViewInsights, "2"},
		{"Sequences", ViewSequences, "3"},
		{"Histogram", ViewHistogram, "4"},
	}

	rendered := make([]string, len(tabs))
	for i, t := range tabs {
		label := fmt.Sprintf("%s %s", t.key, t.name)
		if t.mode == m.viewMode {
			rendered[i] = m.styles.ActiveTab.Render(label)
		} else {
			rendered[i] = m.styles.InactiveTab.Render(label)
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	gap := strings.Repeat("─", max(0, m.width-lipgloss.Width(row)-2))

	return row + m.styles.TabGap.Render(gap)
}

// renderEventsView renders the event list with an optional detail panel
func (m Model) renderEventsView() string {
	list := m.renderEventHeaders() + "\n" + m.eventList.View()
	if !m.detailPanelOpen {
		return list
	}

	listWidth := max(m.width-4, 20)
	panelWidth := listWidth - int(float64(listWidth)*0.58) - 2
	panel := m.renderDetailPanel(panelWidth, max(m.height-8, 5))
	return lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", panel)
}

// renderEventHeaders renders column headers for the event list
func (m Model) renderEventHeaders() string {
	header := fmt.Sprintf("%s  %s  %s  %s",
		padLeft("#", EventPositionWidth),
		padRight("Clock", EventClockWidth),
		padRight("Event", EventNameWidth),
		padLeft("Value", EventValueWidth),
	)
	return m.styles.ColumnHeader.Width(m.width - 4).Render(header)
}

// renderInsightsView renders contributions beside the value breakdown
func (m Model) renderInsightsView() string {
	contrib := m.styles.Label.Render("Event types") + "\n" + m.contribTable.View()

	valuesTitle := "Top values"
	if m.cfg.TopValues <= 0 {
		valuesTitle = "All values"
	}
	values := m.styles.Label.Render(valuesTitle) + "\n" + m.valuesTable.View()

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Box.Render(contrib),
		"  ",
		m.styles.Box.Render(values),
	)
}

// renderSequencesView renders the continuous viewing members
func (m Model) renderSequencesView() string {
	r := m.report
	summary := fmt.Sprintf("%d runs, %d of %d periodic events retained",
		len(r.Runs), len(r.Continuous.Values), len(r.Periodic))
	return m.styles.Status.Render(summary) + "\n" + m.seqTable.View()
}

// renderHistogramView renders per-second frequencies and their normalization
func (m Model) renderHistogramView() string {
	r := m.report
	summary := fmt.Sprintf("%d of %d members binned | normalized to [%g, %g]",
		r.Histogram.Total(), len(r.Continuous.Values), r.Normalized.Min, r.Normalized.Max)

	var b strings.Builder
	b.WriteString(m.styles.Status.Render(summary))
	for _, w := range r.Warnings {
		b.WriteString("  ")
		b.WriteString(m.styles.Warning.Render("! " + w.Detail))
	}
	b.WriteString("\n")
	b.WriteString(m.histTable.View())
	return b.String()
}

// renderHelp renders the help footer
func (m Model) renderHelp() string {
	var help []string

	switch m.viewMode {
	case ViewEvents:
		help = []string{"j/k:navigate", "enter:details", "h/l:switch view", "r:reload", "q:quit"}
	case ViewInsights:
		help = []string{"j/k:navigate", "tab:switch table", "h/l:switch view", "esc:back", "q:quit"}
	case ViewSequences, ViewHistogram:
		help = []string{"j/k:navigate", "h/l:switch view", "esc:back", "r:reload", "q:quit"}
	}

	return m.styles.Help.Render(strings.Join(help, " | "))
}

// padRight pads a string with spaces on the right to reach target width
func padRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string with spaces on the left to reach target width
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return strings.Repeat(" ", width-len(s)) + s
}
