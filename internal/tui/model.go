package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"timeline_stats/internal/config"
	"timeline_stats/internal/timeline"
)

// ViewMode represents the current view
type ViewMode int

const (
	ViewEvents    ViewMode = iota // Raw event log
	ViewInsights                  // Contributions and value breakdown
	ViewSequences                 // Continuous viewing members
	ViewHistogram                 // Per-second frequency, normalized
	viewCount
)

// barWidth is the widest histogram bar in cells
const barWidth = 30

// Model represents the application state
type Model struct {
	// Core state
	cfg      *config.Config
	opts     timeline.Options
	path     string
	watcher  *timeline.Watcher // Nil when not following the file
	report   *timeline.Report
	loadedAt time.Time
	viewMode ViewMode

	// UI components
	styles        Styles
	eventList     list.Model
	eventDelegate *eventDelegate
	contribTable  table.Model
	valuesTable   table.Model
	seqTable      table.Model
	histTable     table.Model
	valuesFocused bool // Insights: which table receives keys

	// Detail panel state
	detailPanelOpen bool

	// UI dimensions
	width  int
	height int

	// loadErr is the last failed load; the previous report stays on screen
	loadErr error
}

// NewModel creates a model for one event log. watcher may be nil.
func NewModel(path string, cfg *config.Config, watcher *timeline.Watcher) Model {
	styles := NewStyles(cfg.Theme)
	delegate := newEventDelegate(cfg, styles)

	m := Model{
		cfg:           cfg,
		opts:          cfg.Options(),
		path:          path,
		watcher:       watcher,
		viewMode:      ViewEvents,
		styles:        styles,
		eventDelegate: delegate,
		valuesFocused: true,
	}

	m.eventList = list.New([]list.Item{}, delegate, 0, 0)
	m.eventList.SetShowTitle(false)
	m.eventList.SetShowHelp(false)
	m.eventList.SetShowStatusBar(false)
	m.eventList.SetFilteringEnabled(false)
	m.eventList.DisableQuitKeybindings()

	ts := styles.Table()
	m.contribTable = table.New(table.WithColumns(contributionColumns), table.WithStyles(ts))
	m.valuesTable = table.New(table.WithColumns(valueColumns), table.WithStyles(ts), table.WithFocused(true))
	m.seqTable = table.New(table.WithColumns(sequenceColumns), table.WithStyles(ts), table.WithFocused(true))
	m.histTable = table.New(table.WithColumns(histogramColumns), table.WithStyles(ts), table.WithFocused(true))

	return m
}

var (
	contributionColumns = []table.Column{
		{Title: "Type", Width: 12},
		{Title: "Count", Width: 7},
		{Title: "Share", Width: 8},
	}
	valueColumns = []table.Column{
		{Title: "Value", Width: 7},
		{Title: "Total", Width: 6},
		{Title: "Periodic", Width: 9},
		{Title: "Seek", Width: 5},
		{Title: "Play", Width: 5},
		{Title: "Pause", Width: 6},
	}
	sequenceColumns = []table.Column{
		{Title: "Run", Width: 4},
		{Title: "Timestamp", Width: 25},
		{Title: "Clock", Width: 11},
		{Title: "Value", Width: 7},
	}
	histogramColumns = []table.Column{
		{Title: "Second", Width: 7},
		{Title: "Freq", Width: 5},
		{Title: "Norm", Width: 7},
		{Title: "", Width: barWidth},
	}
)

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadCmd(),
		m.watchCmd(),
	)
}

// Message types
type (
	reportLoadedMsg timeline.WatchEvent // Result of an explicit load
	watchEventMsg   timeline.WatchEvent // Result of a file change
	errMsg          struct{ error }     // Watcher error
)

// loadCmd analyzes the file once. Its result arrives only as reportLoadedMsg.
func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		if m.watcher != nil {
			return reportLoadedMsg(m.watcher.Analyze())
		}
		ev := timeline.WatchEvent{Path: m.path, At: time.Now()}
		ev.Report, ev.Err = timeline.AnalyzeFile(m.path, m.opts)
		return reportLoadedMsg(ev)
	}
}

// watchCmd waits for the next watcher event
func (m Model) watchCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case event := <-m.watcher.Events:
			return watchEventMsg(event)
		case err := <-m.watcher.Errors:
			return errMsg{err}
		}
	}
}

// applyEvent installs a new report, or records why loading failed
func (m Model) applyEvent(ev timeline.WatchEvent) Model {
	if ev.Err != nil {
		m.loadErr = ev.Err
		return m
	}
	m.loadErr = nil
	m.report = ev.Report
	m.loadedAt = ev.At
	return m.updateTables()
}

// updateTables rebuilds every view from the current report
func (m Model) updateTables() Model {
	r := m.report
	if r == nil {
		return m
	}

	// Keep the cursor where it was if the user had scrolled
	prevIdx := m.eventList.Index()
	items := make([]list.Item, 0, len(r.Session.Events))
	for _, e := range r.Session.Events {
		if m.cfg.ShouldHide(e.Name) {
			continue
		}
		items = append(items, eventItem{event: e})
	}
	m.eventList.SetItems(items)
	if prevIdx < len(items) {
		m.eventList.Select(prevIdx)
	}

	contribRows := make([]table.Row, len(r.Insights.Contributions))
	for i, c := range r.Insights.Contributions {
		contribRows[i] = table.Row{string(c.Type), strconv.Itoa(c.Count), c.Percentage}
	}
	m.contribTable.SetRows(contribRows)

	top := r.Insights.TopValues(m.cfg.TopValues)
	valueRows := make([]table.Row, len(top))
	for i, v := range top {
		valueRows[i] = table.Row{
			strconv.Itoa(v.Value),
			strconv.Itoa(v.Total),
			strconv.Itoa(v.Periodic),
			strconv.Itoa(v.Seek),
			strconv.Itoa(v.Play),
			strconv.Itoa(v.Pause),
		}
	}
	m.valuesTable.SetRows(valueRows)

	runOf := runNumbers(r.Runs)
	seqRows := make([]table.Row, 0, len(r.Continuous.Values))
	for i, row := range r.Continuous.Rows() {
		seqRows = append(seqRows, table.Row{
			strconv.Itoa(runOf[i]),
			row.Timestamp.Format(time.RFC3339),
			row.Clock,
			strconv.Itoa(row.Value),
		})
	}
	m.seqTable.SetRows(seqRows)

	peak := 0
	for _, c := range r.Histogram {
		peak = max(peak, c)
	}
	histRows := make([]table.Row, 0, len(r.Histogram))
	for _, row := range r.NormalizedRows() {
		histRows = append(histRows, table.Row{
			strconv.Itoa(row.Second),
			strconv.Itoa(row.Frequency),
			fmt.Sprintf("%.3f", row.NormalizedFrequency),
			bar(row.Frequency, peak, barWidth),
		})
	}
	m.histTable.SetRows(histRows)

	return m
}

// runNumbers maps each flattened continuous member to its 1-based run
func runNumbers(runs []timeline.Sequence) []int {
	var out []int
	for i, run := range runs {
		for range run.Len() {
			out = append(out, i+1)
		}
	}
	return out
}

// bar draws n scaled against peak as a row of blocks
func bar(n, peak, width int) string {
	if peak <= 0 || n <= 0 {
		return ""
	}
	cells := max(1, n*width/peak)
	out := make([]rune, cells)
	for i := range out {
		out[i] = '█'
	}
	return string(out)
}

// updateListSizes updates component dimensions based on terminal size
func (m Model) updateListSizes() Model {
	// Reserve space for header (2), tabs (2), column headers (2), help (2), margins (2)
	listHeight := max(m.height-10, 5)
	listWidth := max(m.width-4, 20)

	eventWidth := listWidth
	if m.detailPanelOpen {
		eventWidth = int(float64(listWidth) * 0.58)
	}
	m.eventDelegate.SetWidth(eventWidth)
	m.eventList.SetSize(eventWidth, listHeight)

	m.contribTable.SetHeight(listHeight)
	m.valuesTable.SetHeight(listHeight)
	m.seqTable.SetHeight(listHeight)
	m.histTable.SetHeight(listHeight)

	return m
}

// SelectedEvent returns the highlighted event in the events view, or nil
func (m Model) SelectedEvent() *timeline.Event {
	item, ok := m.eventList.SelectedItem().(eventItem)
	if !ok {
		return nil
	}
	return &item.event
}

// Report returns the report on screen, or nil before the first load
func (m Model) Report() *timeline.Report { return m.report }
