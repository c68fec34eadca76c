package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/mattn/go-runewidth"

	"admingrid/internal/grid"
)

const (
	glyphAsc     = "▲"
	glyphDesc    = "▼"
	glyphNeutral = "↕"

	minColWidth = 4
	maxColWidth = 40
)

// sortGlyph marks a header with its sort state; unsortable columns get none.
func sortGlyph[R any](c grid.Column[R], s grid.SortState) string {
	if c.NoSort {
		return ""
	}
	switch s.DirectionOf(c.ID) {
	case grid.SortAsc:
		return glyphAsc
	case grid.SortDesc:
		return glyphDesc
	}
	return glyphNeutral
}

func headerTitle[R any](c grid.Column[R], s grid.SortState, selected bool) string {
	title := c.Header
	if g := sortGlyph(c, s); g != "" {
		title += " " + g
	}
	if selected {
		title = "›" + title
	}
	return title
}

// headerColumns builds the table header for the current page. Widths come
// from the column hint, else from the widest header or visible cell.
func headerColumns[R any](t *grid.Table[R], selected int) []table.Column {
	cols := t.Columns()
	page := t.Page()
	s := t.Sort()
	out := make([]table.Column, len(cols))
	for i, c := range cols {
		title := headerTitle(c, s, i == selected)
		w := c.Width
		if w <= 0 {
			w = runewidth.StringWidth(title)
			for _, r := range page {
				w = max(w, runewidth.StringWidth(c.Text(r)))
			}
			w = min(max(w, minColWidth), maxColWidth)
		}
		out[i] = table.Column{Title: title, Width: w}
	}
	return out
}

// pageRows renders the visible rows as cell text; missing values are blank.
func pageRows[R any](t *grid.Table[R]) []table.Row {
	cols := t.Columns()
	page := t.Page()
	rows := make([]table.Row, len(page))
	for i, r := range page {
		cells := make(table.Row, len(cols))
		for j, c := range cols {
			cells[j] = t.CellText(r, c)
		}
		rows[i] = cells
	}
	return rows
}
