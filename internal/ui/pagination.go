package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/paginator"

	"admingrid/internal/grid"
)

const maxDots = 12

// PaginationNav renders page controls from a PageState and forwards moves
// to gotoPage. It derives nothing itself.
type PaginationNav struct {
	pager    paginator.Model
	state    grid.PageState
	gotoPage func(int)
}

func NewPaginationNav(gotoPage func(int)) PaginationNav {
	p := paginator.New()
	p.ActiveDot = "●"
	p.InactiveDot = "○"
	p.ArabicFormat = "%d/%d"
	return PaginationNav{pager: p, gotoPage: gotoPage}
}

// Sync adopts the table's current page state.
func (p *PaginationNav) Sync(s grid.PageState) {
	p.state = s
	p.pager.PerPage = max(s.PageSize, 1)
	p.pager.TotalPages = max(s.PageCount, 1)
	p.pager.Page = s.PageIndex
	if s.PageCount > maxDots {
		p.pager.Type = paginator.Arabic
	} else {
		p.pager.Type = paginator.Dots
	}
}

func (p *PaginationNav) State() grid.PageState { return p.state }

func (p *PaginationNav) Prev() bool {
	if !p.state.CanPrevious {
		return false
	}
	return p.Goto(p.state.PageIndex - 1)
}

func (p *PaginationNav) Next() bool {
	if !p.state.CanNext {
		return false
	}
	return p.Goto(p.state.PageIndex + 1)
}

func (p *PaginationNav) First() bool { return p.Goto(0) }

func (p *PaginationNav) Last() bool { return p.Goto(p.state.PageCount - 1) }

// Goto asks for page i; out-of-range requests are ignored.
func (p *PaginationNav) Goto(i int) bool {
	if i < 0 || i >= p.state.PageCount || i == p.state.PageIndex || p.gotoPage == nil {
		return false
	}
	p.gotoPage(i)
	return true
}

func (p *PaginationNav) View(st Styles) string {
	if p.state.PageCount == 0 {
		return st.PagerOff.Render("‹ prev") + "  no rows  " + st.PagerOff.Render("next ›")
	}
	prev, next := st.PagerOff.Render("‹ prev"), st.PagerOff.Render("next ›")
	if p.state.CanPrevious {
		prev = st.PagerOn.Render("‹ prev")
	}
	if p.state.CanNext {
		next = st.PagerOn.Render("next ›")
	}
	first := p.state.PageIndex*p.state.PageSize + 1
	last := min(first+p.state.PageSize-1, p.state.RowCount)
	return fmt.Sprintf("%s %s %s  rows %d-%d of %d", prev, p.pager.View(), next, first, last, p.state.RowCount)
}
