package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"timeline_stats/internal/timeline"
)

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.updateListSizes(), nil

	case reportLoadedMsg:
		return m.applyEvent(timeline.WatchEvent(msg)), nil

	case watchEventMsg:
		m = m.applyEvent(timeline.WatchEvent(msg))
		return m, m.watchCmd()

	case errMsg:
		m.loadErr = msg.error
		return m, m.watchCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey processes global keys, then forwards the rest to the active view
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "1":
		m.viewMode = ViewEvents
		return m.updateListSizes(), nil
	case "2":
		m.viewMode = ViewInsights
		return m, nil
	case "3":
		m.viewMode = ViewSequences
		return m, nil
	case "4":
		m.viewMode = ViewHistogram
		return m, nil

	case "l", "right":
		m.viewMode = (m.viewMode + 1) % viewCount
		return m, nil
	case "h", "left":
		m.viewMode = (m.viewMode + viewCount - 1) % viewCount
		return m, nil

	case "esc":
		if m.viewMode == ViewEvents && m.detailPanelOpen {
			m.detailPanelOpen = false
			return m.updateListSizes(), nil
		}
		m.viewMode = ViewEvents
		return m, nil

	case "r":
		return m, m.loadCmd()

	case "enter":
		if m.viewMode == ViewEvents {
			m.detailPanelOpen = !m.detailPanelOpen
			return m.updateListSizes(), nil
		}

	case "tab":
		if m.viewMode == ViewInsights {
			m.valuesFocused = !m.valuesFocused
			if m.valuesFocused {
				m.valuesTable.Focus()
				m.contribTable.Blur()
			} else {
				m.contribTable.Focus()
				m.valuesTable.Blur()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.viewMode {
	case ViewEvents:
		m.eventList, cmd = m.eventList.Update(msg)
	case ViewInsights:
		if m.valuesFocused {
			m.valuesTable, cmd = m.valuesTable.Update(msg)
		} else {
			m.contribTable, cmd = m.contribTable.Update(msg)
		}
	case ViewSequences:
		m.seqTable, cmd = m.seqTable.Update(msg)
	case ViewHistogram:
		m.histTable, cmd = m.histTable.Update(msg)
	}
	return m, cmd
}
