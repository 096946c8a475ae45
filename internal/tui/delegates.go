package tui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"timeline_stats/internal/config"
	"timeline_stats/internal/timeline"
)

// Column widths for the events list, shared with the header
const (
	EventPositionWidth = 6
	EventClockWidth    = 11
	EventNameWidth     = 12
	EventValueWidth    = 7
)

// eventItem wraps an Event for the list component
type eventItem struct {
	event timeline.Event
}

func (i eventItem) FilterValue() string { return string(i.event.Name) }
func (i eventItem) Title() string       { return string(i.event.Name) }
func (i eventItem) Description() string { return i.event.Timestamp.String() }

// eventDelegate renders one event per line, colored by its configured style
type eventDelegate struct {
	cfg    *config.Config
	styles Styles
	width  int
}

func newEventDelegate(cfg *config.Config, styles Styles) *eventDelegate {
	return &eventDelegate{cfg: cfg, styles: styles}
}

// SetWidth updates the delegate's render width
func (d *eventDelegate) SetWidth(w int) { d.width = w }

func (d *eventDelegate) Height() int                             { return 1 }
func (d *eventDelegate) Spacing() int                            { return 0 }
func (d *eventDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d *eventDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(eventItem)
	if !ok {
		return
	}

	e := i.event
	nameStyle := d.styles.ForEvent(d.cfg, e.Name)
	line := fmt.Sprintf("%s  %s  %s  %s",
		padLeft(strconv.Itoa(e.Position), EventPositionWidth),
		d.styles.Muted.Render(padRight(e.Clock(), EventClockWidth)),
		nameStyle.Render(padRight(string(e.Name), EventNameWidth)),
		padLeft(strconv.Itoa(e.Value), EventValueWidth),
	)

	if index == m.Index() {
		line = d.styles.SelectedRow.Width(d.width).Render(line)
	}
	_, _ = fmt.Fprint(w, line)
}
