package ui

import (
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"admingrid/internal/util/logx"
)

func (m *Model) View() string {
	v := m.renderGrid()
	if m.modalActive {
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

func (m *Model) renderGrid() string {
	st := m.styles
	var b strings.Builder
	b.WriteString(st.Title.Render(m.opts.Title))
	if c := m.countLabel(); c != "" {
		b.WriteString(st.Status.Render("  " + c))
	}
	b.WriteString("\n")

	switch {
	case m.grid == nil && m.loadErr != nil:
		b.WriteString(st.Error.Render(m.loadErr.Error()))
		b.WriteString("\n")
		return b.String() + m.renderStatus()
	case m.grid == nil:
		b.WriteString(st.Status.Render("loading " + m.sourceLabel() + "..."))
		b.WriteString("\n")
		return b.String() + m.renderStatus()
	}

	if m.filterIn.Focused() || m.filterIn.Value() != "" {
		b.WriteString(m.filterIn.View())
	} else {
		b.WriteString(st.Help.Render("[/]=filter"))
	}
	b.WriteString("\n")
	b.WriteString(m.tbl.View())
	b.WriteString("\n")
	if len(m.grid.Page()) == 0 {
		b.WriteString(st.Status.Render("no matching rows"))
		b.WriteString("\n")
	}
	b.WriteString(m.pager.View(st))
	b.WriteString("   ")
	b.WriteString(m.sizes.View(st))
	b.WriteString("\n")
	return b.String() + m.renderStatus()
}

func (m *Model) renderStatus() string {
	hint := "[?]=help"
	switch {
	case m.filterIn.Focused():
		hint = "[enter/esc]=done"
	case m.grid != nil && m.grid.Clickable():
		hint += " [enter]=open"
	}
	if m.ring != nil {
		state := "live"
		if m.paused {
			state = "paused"
		}
		hint += fmt.Sprintf(" [%s %d/%d]", state, m.ring.Len(), m.ring.Cap())
	}
	msg := m.lastMsg
	if msg == "" {
		return m.styles.Status.Render(hint)
	}
	return m.styles.Status.Render(hint + "  " + msg)
}

func (m *Model) renderHelp() string {
	if len(m.helpItems) == 0 {
		m.helpItems = m.buildHelpItems()
	}
	m.helpSel = min(max(m.helpSel, 0), len(m.helpItems)-1)
	lines := []string{"Shortcuts:"}
	currentGroup := ""
	lineIndexOfSel := 0
	for i, it := range m.helpItems {
		if it.group != currentGroup {
			currentGroup = it.group
			lines = append(lines, "", currentGroup+":")
		}
		prefix := "  "
		if i == m.helpSel {
			prefix = "> "
			lineIndexOfSel = len(lines)
		}
		lines = append(lines, fmt.Sprintf("%s[%s] %s", prefix, keyLabel(it.key), it.text))
	}
	// keep the selection inside the viewport
	if m.modalVP.Height > 0 {
		top := m.modalVP.YOffset
		bottom := top + m.modalVP.Height - 1
		if lineIndexOfSel <= top {
			m.modalVP.YOffset = max(lineIndexOfSel-1, 0)
		} else if lineIndexOfSel >= bottom {
			m.modalVP.YOffset = max(lineIndexOfSel-m.modalVP.Height+2, 0)
		}
	}
	return m.styles.Help.Render(strings.Join(lines, "\n"))
}

func (m *Model) openHelpModal() {
	m.modalActive = true
	m.modalKind = modalHelp
	m.modalTitle = "Help"
	m.helpItems = m.buildHelpItems()
	m.helpSel = 0
	m.modalBody = m.renderHelp()
	m.resizeModal()
}

func (m *Model) openInspectorModal() {
	row, ok := m.currentRow()
	if !ok {
		return
	}
	m.modalActive = true
	m.modalKind = modalInspector
	m.modalTitle = "Row " + row.ID()
	m.modalBody = colorizeJSON(map[string]any(row), m.styles.JSON)
	m.resizeModal()
}

func (m *Model) openAppLogsModal() {
	m.modalActive = true
	m.modalKind = modalLogs
	m.modalTitle = "Application Logs"
	m.modalBody = logx.Dump()
	m.resizeModal()
}

func (m *Model) resizeModal() {
	w := max(m.termWidth-6, 20)
	h := max(m.termHeight-6, 5)
	m.modalVP = viewport.New(w-4, h-4)
	m.modalVP.SetContent(m.modalBody)
}

func (m *Model) renderModal() string {
	var content string
	switch m.modalKind {
	case modalHelp:
		m.modalVP.SetContent(m.renderHelp())
		content = m.modalVP.View() + "\n[esc]=close  [enter]=run"
	case modalLogs:
		header := []string{
			"Status:",
			fmt.Sprintf("source: %s  follow: %v", m.sourceLabel(), m.cfg.Follow),
			fmt.Sprintf("view: %s", m.countLabel()),
		}
		if m.lastNav != "" {
			header = append(header, "last navigation: "+m.lastNav)
		}
		content = m.styles.Help.Render(strings.Join(header, "\n")) + "\n" + m.modalVP.View() + "\n[esc/enter]=close  [c]=copy"
	default:
		content = m.modalVP.View() + "\n[esc/enter]=close  [c]=copy"
	}
	boxW := max(m.termWidth-6, 20)
	title := m.styles.PopupTitle.Render(m.modalTitle)
	body := m.styles.PopupBox.Width(boxW).Render(title + "\n" + content)
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, body)
}

func overlay(base, top string) string {
	bLines := strings.Split(base, "\n")
	oLines := strings.Split(top, "\n")
	n := max(len(bLines), len(oLines))
	out := make([]string, n)
	for i := 0; i < n; i++ {
		var b, o string
		if i < len(bLines) {
			b = bLines[i]
		}
		if i < len(oLines) {
			o = oLines[i]
		}
		// whitespace-only overlay lines are transparent
		if strings.TrimSpace(o) != "" {
			out[i] = o
		} else {
			out[i] = b
		}
	}
	return strings.Join(out, "\n")
}

// copyToClipboard copies text using OSC52, which most terminals honor.
func copyToClipboard(s string) {
	enc := base64.StdEncoding.EncodeToString([]byte(stripANSI(s)))
	payload := fmt.Sprintf("\x1b]52;c;%s\x07", enc)
	// /dev/tty keeps the sequence out of the program's stdout buffer
	if f, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0); err == nil {
		defer f.Close()
		_, _ = f.WriteString(payload)
		return
	}
	fmt.Fprint(os.Stdout, payload)
}

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func colorizeJSON(v any, st JSONStyles) string {
	var b strings.Builder
	renderJSON(&b, v, st, 0)
	return b.String()
}

func renderJSON(b *strings.Builder, v any, st JSONStyles, indent int) {
	ind := strings.Repeat("  ", indent)
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(st.Punct.Render("{"))
		if len(keys) > 0 {
			b.WriteString("\n")
		}
		for i, k := range keys {
			b.WriteString(ind + "  ")
			b.WriteString(st.Key.Render(`"` + escapeString(k) + `"`))
			b.WriteString(st.Punct.Render(": "))
			renderJSON(b, t[k], st, indent+1)
			if i < len(keys)-1 {
				b.WriteString(st.Punct.Render(","))
			}
			b.WriteString("\n")
		}
		if len(keys) > 0 {
			b.WriteString(ind)
		}
		b.WriteString(st.Punct.Render("}"))
	case []any:
		b.WriteString(st.Punct.Render("["))
		if len(t) > 0 {
			b.WriteString("\n")
		}
		for i, it := range t {
			b.WriteString(ind + "  ")
			renderJSON(b, it, st, indent+1)
			if i < len(t)-1 {
				b.WriteString(st.Punct.Render(","))
			}
			b.WriteString("\n")
		}
		if len(t) > 0 {
			b.WriteString(ind)
		}
		b.WriteString(st.Punct.Render("]"))
	case string:
		b.WriteString(st.String.Render(`"` + escapeString(t) + `"`))
	case float64, float32, int, int32, int64, uint, uint32, uint64:
		b.WriteString(st.Number.Render(fmt.Sprint(t)))
	case bool:
		b.WriteString(st.Bool.Render(fmt.Sprint(t)))
	case nil:
		b.WriteString(st.Null.Render("null"))
	default:
		b.WriteString(st.String.Render(fmt.Sprint(t)))
	}
}

func escapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
