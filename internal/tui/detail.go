package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"timeline_stats/internal/timeline"
)

// renderDetailPanel renders the side panel for the highlighted event
func (m Model) renderDetailPanel(width, height int) string {
	var b strings.Builder

	b.WriteString(m.styles.DetailHeader.Width(width).Render("Event Details"))
	b.WriteString("\n")

	e := m.SelectedEvent()
	if e == nil || m.report == nil {
		b.WriteString(m.styles.Muted.Render("Select an event and press Enter"))
		return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
	}

	field := func(label, value string) {
		b.WriteString(m.styles.Label.Render(label + ": "))
		b.WriteString(truncate(value, max(width-len(label)-2, 4)))
		b.WriteString("\n")
	}

	field("Name", string(e.Name))
	field("Position", fmt.Sprintf("#%d", e.Position))
	field("Time", e.Timestamp.Format(time.RFC3339Nano))
	field("Clock", e.Clock())
	field("Value", fmt.Sprintf("%ds", e.Value))
	b.WriteString("\n")

	b.WriteString(m.formatRunSection(e))
	b.WriteString(m.formatValueSection(e.Value))

	return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
}

// formatRunSection reports whether the event belongs to a continuous run
func (m Model) formatRunSection(e *timeline.Event) string {
	var b strings.Builder
	b.WriteString(m.styles.Label.Render("Continuous viewing"))
	b.WriteString("\n")

	if e.Name != timeline.EventPeriodic {
		b.WriteString(m.styles.Muted.Render("  not a periodic event"))
		b.WriteString("\n\n")
		return b.String()
	}

	idx, run := findRun(m.report, e.Position)
	if idx < 0 {
		b.WriteString(m.styles.Warning.Render("  dropped (isolated sample)"))
		b.WriteString("\n\n")
		return b.String()
	}

	fmt.Fprintf(&b, "  run %d of %d: %ds to %ds (%d samples)\n\n",
		idx+1, len(m.report.Runs), run.Start(), run.End(), run.Len())
	return b.String()
}

// formatValueSection shows what else happened at the event's playback second
func (m Model) formatValueSection(value int) string {
	var b strings.Builder
	b.WriteString(m.styles.Label.Render(fmt.Sprintf("At %ds", value)))
	b.WriteString("\n")

	for _, v := range m.report.Insights.Values {
		if v.Value != value {
			continue
		}
		fmt.Fprintf(&b, "  %d events: %d periodic, %d seek, %d play, %d pause\n",
			v.Total, v.Periodic, v.Seek, v.Play, v.Pause)
		break
	}

	if value >= 0 && value < len(m.report.Histogram) {
		fmt.Fprintf(&b, "  watched %d times (normalized %.3f)\n",
			m.report.Histogram[value], m.report.Normalized.Values[value])
	} else {
		b.WriteString(m.styles.Muted.Render("  outside the video duration"))
		b.WriteString("\n")
	}
	return b.String()
}

// findRun locates the run containing the periodic event at source position pos
func findRun(r *timeline.Report, pos int) (int, timeline.Sequence) {
	for i, run := range r.Runs {
		for _, idx := range run.Indices {
			if r.Periodic[idx].Position == pos {
				return i, run
			}
		}
	}
	return -1, timeline.Sequence{}
}

// truncate shortens a string to max length with ellipsis
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 4 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
