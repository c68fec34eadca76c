package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"admingrid/internal/export"
	"admingrid/internal/util/logx"
)

func (m *Model) buildHelpItems() []helpItem {
	km := m.keymap
	return []helpItem{
		{group: "Rows", text: "Previous row", key: tea.Key{Type: tea.KeyUp}},
		{group: "Rows", text: "Next row", key: tea.Key{Type: tea.KeyDown}},
		{group: "Rows", text: "Open row", key: km.Open},
		{group: "Rows", text: "Inspect row", key: km.Inspect},
		{group: "Rows", text: "Copy row as JSON", key: km.CopyRow},

		{group: "Filter", text: "Edit filter", key: km.Filter},
		{group: "Filter", text: "Clear filter", key: km.ClearFilter},

		{group: "Sort", text: "Previous column", key: km.PrevColumn},
		{group: "Sort", text: "Next column", key: km.NextColumn},
		{group: "Sort", text: "Cycle sort on column", key: km.Sort},

		{group: "Pages", text: "Previous page", key: km.PrevPage},
		{group: "Pages", text: "Next page", key: km.NextPage},
		{group: "Pages", text: "First page", key: km.FirstPage},
		{group: "Pages", text: "Last page", key: km.LastPage},
		{group: "Pages", text: "Larger page size", key: km.PageSizeUp},
		{group: "Pages", text: "Smaller page size", key: km.PageSizeDown},

		{group: "Control", text: "Pause/Resume feed", key: km.Pause},
		{group: "Control", text: "Export view", key: km.Export},
		{group: "Control", text: "Application logs", key: km.AppLogs},
		{group: "Control", text: "Help", key: km.Help},
		{group: "Control", text: "Quit", key: km.Quit},
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		m.tbl.SetWidth(msg.Width)
		m.refresh()
		if m.modalActive {
			m.resizeModal()
		}
		return m, nil
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err
			m.lastMsg = "load failed: " + msg.err.Error()
			logx.Errorf("load: %v", msg.err)
			return m, nil
		}
		if err := m.setRows(msg.rows); err != nil {
			m.loadErr = err
			m.lastMsg = err.Error()
			logx.Errorf("columns: %v", err)
			return m, nil
		}
		m.lastMsg = fmt.Sprintf("loaded %d rows from %s", len(msg.rows), m.sourceLabel())
		logx.Infof("%s", m.lastMsg)
		return m, nil
	case tickMsg:
		m.drain()
		m.flush()
		if m.feed == nil && m.errs == nil {
			m.loading = false
			return m, nil
		}
		return m, tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.modalActive {
		return m.handleModalKey(msg)
	}
	if m.filterIn.Focused() {
		if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter {
			m.filterIn.Blur()
			return m, nil
		}
		cmd := m.filterIn.Update(msg)
		if err := m.filterIn.Err(); err != nil {
			m.lastMsg = "filter: " + err.Error()
		} else {
			m.lastMsg = ""
		}
		return m, cmd
	}

	switch {
	case keyMatches(msg, m.keymap.Quit):
		return m, tea.Quit
	case keyMatches(msg, m.keymap.Help):
		m.openHelpModal()
		return m, nil
	case keyMatches(msg, m.keymap.AppLogs):
		m.openAppLogsModal()
		return m, nil
	case keyMatches(msg, m.keymap.Pause):
		if m.ring != nil {
			m.paused = !m.paused
			m.lastMsg = "resumed"
			if m.paused {
				m.lastMsg = "paused"
			}
		}
		return m, nil
	}
	if m.grid == nil {
		return m, nil
	}

	switch {
	case keyMatches(msg, m.keymap.Filter):
		return m, m.filterIn.Focus()
	case keyMatches(msg, m.keymap.ClearFilter):
		m.filterIn.SetValue("")
		m.lastMsg = "filter cleared"
	case keyMatches(msg, m.keymap.Sort):
		m.toggleSort()
	case keyMatches(msg, m.keymap.PrevColumn):
		if m.selCol > 0 {
			m.selCol--
			m.refresh()
		}
	case keyMatches(msg, m.keymap.NextColumn):
		if m.selCol < len(m.grid.Columns())-1 {
			m.selCol++
			m.refresh()
		}
	case keyMatches(msg, m.keymap.PrevPage):
		m.pager.Prev()
	case keyMatches(msg, m.keymap.NextPage):
		m.pager.Next()
	case keyMatches(msg, m.keymap.FirstPage):
		m.pager.First()
	case keyMatches(msg, m.keymap.LastPage):
		m.pager.Last()
	case keyMatches(msg, m.keymap.PageSizeUp):
		m.stepPageSize(m.sizes.Next)
	case keyMatches(msg, m.keymap.PageSizeDown):
		m.stepPageSize(m.sizes.Prev)
	case keyMatches(msg, m.keymap.Open):
		m.openRow()
	case keyMatches(msg, m.keymap.Inspect):
		m.openInspectorModal()
	case keyMatches(msg, m.keymap.CopyRow):
		if row, ok := m.currentRow(); ok {
			m.clipboard(row.PrettyJSON())
			m.lastMsg = "row copied to clipboard"
		}
	case keyMatches(msg, m.keymap.Export):
		m.exportView()
	default:
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modalKind == modalHelp {
		switch {
		case msg.Type == tea.KeyUp:
			if m.helpSel > 0 {
				m.helpSel--
				m.modalVP.SetContent(m.renderHelp())
			}
		case msg.Type == tea.KeyDown:
			if m.helpSel+1 < len(m.helpItems) {
				m.helpSel++
				m.modalVP.SetContent(m.renderHelp())
			}
		case msg.Type == tea.KeyEnter:
			m.modalActive = false
			if len(m.helpItems) > 0 {
				return m, keyCmd(m.helpItems[m.helpSel].key)
			}
		case msg.Type == tea.KeyEsc, keyMatches(msg, m.keymap.Quit), keyMatches(msg, m.keymap.Help):
			m.modalActive = false
		}
		return m, nil
	}
	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter || keyMatches(msg, m.keymap.Quit) {
		m.modalActive = false
		return m, nil
	}
	if keyMatches(msg, m.keymap.CopyRow) {
		m.clipboard(m.modalBody)
		m.lastMsg = "copied to clipboard"
		return m, nil
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return m, cmd
}

func (m *Model) toggleSort() {
	cols := m.grid.Columns()
	if len(cols) == 0 {
		return
	}
	c := cols[m.selCol]
	if err := m.grid.ToggleSort(c.ID); err != nil {
		m.lastMsg = err.Error()
		return
	}
	m.lastMsg = fmt.Sprintf("sort %s: %s", c.Header, m.grid.Sort().DirectionOf(c.ID))
	m.refresh()
}

func (m *Model) stepPageSize(step func() error) {
	if err := step(); err != nil {
		m.lastMsg = err.Error()
		return
	}
	m.lastMsg = fmt.Sprintf("page size %d", m.sizes.Value())
}

func (m *Model) openRow() {
	if !m.grid.Clickable() {
		return
	}
	m.grid.Click(m.tbl.Cursor())
}

func (m *Model) exportView() {
	f := m.cfg.ExportFormat
	if f == "" {
		f = export.FormatCSV
	}
	path := m.cfg.ExportOut
	if path == "" || path == "-" {
		path = fmt.Sprintf("admingrid-%s.%s", time.Now().Format("20060102-150405"), f)
	}
	rows := m.grid.Rows()
	if err := export.ToFile(path, f, m.grid.Columns(), rows); err != nil {
		m.lastMsg = "export failed: " + err.Error()
		logx.Errorf("export: %v", err)
		return
	}
	m.lastMsg = fmt.Sprintf("exported %d rows to %s (%s)", len(rows), path, f)
	logx.Infof("export: wrote %d rows to %s (%s)", len(rows), path, f)
}
