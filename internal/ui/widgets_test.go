package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admingrid/internal/grid"
	"admingrid/internal/model"
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestFilterInputEmitsEveryKeystroke(t *testing.T) {
	var got []string
	f := NewFilterInput("", func(s string) error {
		got = append(got, s)
		return nil
	})
	f.Focus()
	for _, r := range "abc" {
		f.Update(runes(string(r)))
	}
	f.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	f.SetValue("")
	assert.Equal(t, []string{"a", "ab", "abc", "ab", ""}, got)
}

func TestFilterInputIgnoresNonEdits(t *testing.T) {
	calls := 0
	f := NewFilterInput("", func(string) error { calls++; return nil })
	f.Update(runes("x"))
	assert.Zero(t, calls, "blurred input must not edit")

	f.Focus()
	f.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Zero(t, calls)
}

func TestFilterInputKeepsSetterError(t *testing.T) {
	bad := errors.New("bad pattern")
	f := NewFilterInput("", func(s string) error {
		if s == "(" {
			return bad
		}
		return nil
	})
	f.Focus()
	f.Update(runes("("))
	assert.ErrorIs(t, f.Err(), bad)
	f.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.NoError(t, f.Err())
}

func TestPageSizeSelectorClosedSet(t *testing.T) {
	var chosen []int
	s := NewPageSizeSelector([]int{10, 20, 40}, 20, func(n int) error {
		chosen = append(chosen, n)
		return nil
	})
	assert.Equal(t, 20, s.Value())

	err := s.Select(25)
	assert.ErrorIs(t, err, grid.ErrPageSize)
	assert.Empty(t, chosen)
	assert.Equal(t, 20, s.Value())

	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	require.NoError(t, s.Prev())
	require.NoError(t, s.Select(10))
	assert.Equal(t, []int{40, 10, 40, 10}, chosen)
	assert.Contains(t, s.View(NewStyles(true)), "[10]")
}

func TestPageSizeSelectorSetterRejects(t *testing.T) {
	s := NewPageSizeSelector([]int{10, 20}, 10, func(int) error { return errors.New("no") })
	assert.Error(t, s.Next())
	assert.Equal(t, 10, s.Value())
}

func TestPaginationNav(t *testing.T) {
	var asked []int
	p := NewPaginationNav(func(i int) { asked = append(asked, i) })
	p.Sync(grid.PageState{PageIndex: 0, PageSize: 20, PageCount: 3, RowCount: 45, CanNext: true})

	assert.False(t, p.Prev())
	assert.True(t, p.Next())
	assert.True(t, p.Last())
	assert.False(t, p.Goto(3))
	assert.False(t, p.Goto(0), "already on page 0")
	assert.Equal(t, []int{1, 2}, asked)
	assert.Contains(t, p.View(NewStyles(true)), "rows 1-20 of 45")

	p.Sync(grid.PageState{PageIndex: 2, PageSize: 20, PageCount: 3, RowCount: 45, CanPrevious: true})
	assert.Contains(t, p.View(NewStyles(true)), "rows 41-45 of 45")
	assert.False(t, p.Next())

	p.Sync(grid.PageState{PageSize: 20})
	assert.Contains(t, p.View(NewStyles(true)), "no rows")
	assert.False(t, p.First())
}

func TestSortGlyphs(t *testing.T) {
	title := grid.Column[model.Record]{ID: "title", Header: "Title"}
	fixed := grid.Column[model.Record]{ID: "order", Header: "Order", NoSort: true}

	assert.Equal(t, "Title ↕", headerTitle(title, grid.SortState{}, false))
	assert.Equal(t, "Title ▲", headerTitle(title, grid.SortState{ColumnID: "title", Direction: grid.SortAsc}, false))
	assert.Equal(t, "›Title ▼", headerTitle(title, grid.SortState{ColumnID: "title", Direction: grid.SortDesc}, true))
	assert.Equal(t, "Title ↕", headerTitle(title, grid.SortState{ColumnID: "other", Direction: grid.SortAsc}, false))
	assert.Equal(t, "Order", headerTitle(fixed, grid.SortState{}, false))
}

func TestPageRowsBlankOnAccessorMiss(t *testing.T) {
	cols := []grid.Column[model.Record]{grid.Path("Title", "title"), grid.Path("Missing", "nonexistent.field")}
	tbl, err := grid.New(cols, grid.Options[model.Record]{})
	require.NoError(t, err)
	tbl.SetData([]model.Record{{"title": "a"}, {"title": "b", "nonexistent": "scalar"}})

	rows := pageRows(tbl)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "", r[1])
	}
	hdr := headerColumns(tbl, 0)
	assert.Equal(t, "›Title ↕", hdr[0].Title)
	assert.GreaterOrEqual(t, hdr[1].Width, minColWidth)
}
