package ui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"admingrid/internal/grid"
)

// PageSizeSelector offers a closed set of page sizes and reports the chosen
// one through onSelect. Values outside the set are rejected.
type PageSizeSelector struct {
	sizes    []int
	idx      int
	onSelect func(int) error
}

func NewPageSizeSelector(sizes []int, current int, onSelect func(int) error) PageSizeSelector {
	s := PageSizeSelector{sizes: slices.Clone(sizes), onSelect: onSelect}
	if i := slices.Index(s.sizes, current); i >= 0 {
		s.idx = i
	}
	return s
}

func (s *PageSizeSelector) Options() []int { return slices.Clone(s.sizes) }

func (s *PageSizeSelector) Value() int {
	if len(s.sizes) == 0 {
		return 0
	}
	return s.sizes[s.idx]
}

// Select picks n if it is one of the options.
func (s *PageSizeSelector) Select(n int) error {
	i := slices.Index(s.sizes, n)
	if i < 0 {
		return fmt.Errorf("%w: %d not in %v", grid.ErrPageSize, n, s.sizes)
	}
	return s.choose(i)
}

// Next and Prev step through the options, wrapping at either end.
func (s *PageSizeSelector) Next() error { return s.step(1) }
func (s *PageSizeSelector) Prev() error { return s.step(-1) }

func (s *PageSizeSelector) step(d int) error {
	if len(s.sizes) == 0 {
		return nil
	}
	return s.choose((s.idx + d + len(s.sizes)) % len(s.sizes))
}

func (s *PageSizeSelector) choose(i int) error {
	if s.onSelect != nil {
		if err := s.onSelect(s.sizes[i]); err != nil {
			return err
		}
	}
	s.idx = i
	return nil
}

func (s *PageSizeSelector) View(st Styles) string {
	parts := make([]string, len(s.sizes))
	for i, n := range s.sizes {
		if i == s.idx {
			parts[i] = st.SizeActive.Render("[" + strconv.Itoa(n) + "]")
		} else {
			parts[i] = st.PagerOff.Render(strconv.Itoa(n))
		}
	}
	return "rows/page " + strings.Join(parts, " ")
}
