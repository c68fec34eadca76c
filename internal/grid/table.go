// Package grid composes a global filter, a single-column sort and
// fixed-size pagination over an in-memory row set. It performs no I/O and
// never mutates the rows it is given.
package grid

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"admingrid/internal/filter"
)

var (
	ErrPageSize          = errors.New("grid: page size not in the allowed set")
	ErrUnknownColumn     = errors.New("grid: unknown column")
	ErrNotSortable       = errors.New("grid: column is not sortable")
	ErrDuplicateColumn   = errors.New("grid: duplicate column id")
	ErrUnknownComparator = errors.New("grid: unknown comparator")
)

// DefaultPageSizes is the enumerated page-size set used when none is given.
var DefaultPageSizes = []int{10, 20, 30, 40, 50}

const DefaultPageSize = 20

type Options[R any] struct {
	PageSizes  []int
	PageSize   int
	Filter     filter.Policy
	RowID      func(R) string
	OnRowClick func(R)
	Logger     *zap.Logger
}

// PageState is the derived pagination view handed to navigation widgets.
type PageState struct {
	PageIndex   int
	PageSize    int
	PageCount   int
	RowCount    int // rows left after filtering
	TotalRows   int // rows supplied by the caller
	CanPrevious bool
	CanNext     bool
}

// Table is the single source of truth for filter, sort and page state.
// It is not safe for concurrent use; callers serialize transitions the way
// a UI event loop does.
type Table[R any] struct {
	cols  []Column[R]
	index map[string]int
	opts  Options[R]
	log   *zap.Logger

	data      []R
	matcher   *filter.Matcher
	sort      SortState
	pageIndex int
	pageSize  int

	rows []R
}

func New[R any](columns []Column[R], opts Options[R]) (*Table[R], error) {
	if len(opts.PageSizes) == 0 {
		opts.PageSizes = DefaultPageSizes
	}
	opts.PageSizes = slices.Clone(opts.PageSizes)
	if opts.PageSize == 0 {
		opts.PageSize = DefaultPageSize
		if !slices.Contains(opts.PageSizes, opts.PageSize) {
			opts.PageSize = opts.PageSizes[0]
		}
	}
	for _, n := range opts.PageSizes {
		if n <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrPageSize, n)
		}
	}
	if !slices.Contains(opts.PageSizes, opts.PageSize) {
		return nil, fmt.Errorf("%w: %d not in %v", ErrPageSize, opts.PageSize, opts.PageSizes)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	t := &Table[R]{
		cols:     slices.Clone(columns),
		index:    make(map[string]int, len(columns)),
		opts:     opts,
		log:      opts.Logger,
		pageSize: opts.PageSize,
	}
	for i, c := range t.cols {
		if c.ID == "" {
			return nil, fmt.Errorf("%w: column %d (%q) has no id", ErrUnknownColumn, i, c.Header)
		}
		if _, dup := t.index[c.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.ID)
		}
		t.index[c.ID] = i
	}
	m, err := filter.Compile(opts.Filter, "")
	if err != nil {
		return nil, err
	}
	t.matcher = m
	t.derive()
	return t, nil
}

// SetData replaces the row set. Filter and sort are kept; the page index is
// clamped to the new page count.
func (t *Table[R]) SetData(rows []R) {
	t.data = rows
	t.derive()
	t.log.Debug("grid data replaced", zap.Int("rows", len(rows)), zap.Int("visible", len(t.rows)))
}

// SetFilter applies the global filter. A changed query returns to the first
// page. An invalid query leaves the previous filter in place.
func (t *Table[R]) SetFilter(query string) error {
	if query == t.matcher.Query() {
		return nil
	}
	m, err := filter.Compile(t.matcher.Policy(), query)
	if err != nil {
		t.log.Debug("grid filter rejected", zap.String("query", query), zap.Error(err))
		return err
	}
	t.matcher = m
	t.pageIndex = 0
	t.derive()
	return nil
}

// SetFilterPolicy recompiles the current query under a new policy.
func (t *Table[R]) SetFilterPolicy(p filter.Policy) error {
	m, err := filter.Compile(p, t.matcher.Query())
	if err != nil {
		return err
	}
	t.matcher = m
	t.pageIndex = 0
	t.derive()
	return nil
}

func (t *Table[R]) Filter() string { return t.matcher.Query() }

func (t *Table[R]) FilterPolicy() filter.Policy { return t.matcher.Policy() }

// ToggleSort advances the header-click cycle for a column. Clicking a
// different column starts it ascending and drops the previous sort.
func (t *Table[R]) ToggleSort(columnID string) error {
	c, err := t.sortable(columnID)
	if err != nil {
		return err
	}
	dir := SortAsc
	if t.sort.ColumnID == c.ID {
		dir = t.sort.Direction.next()
	}
	t.applySort(SortState{ColumnID: c.ID, Direction: dir})
	return nil
}

func (t *Table[R]) SetSort(s SortState) error {
	if s.ColumnID == "" || s.Direction == SortNone {
		t.applySort(SortState{})
		return nil
	}
	if _, err := t.sortable(s.ColumnID); err != nil {
		return err
	}
	t.applySort(s)
	return nil
}

func (t *Table[R]) Sort() SortState { return t.sort }

func (t *Table[R]) applySort(s SortState) {
	if s.Direction == SortNone {
		s = SortState{}
	}
	t.sort = s
	t.derive()
}

func (t *Table[R]) sortable(id string) (Column[R], error) {
	i, ok := t.index[id]
	if !ok {
		return Column[R]{}, fmt.Errorf("%w: %q", ErrUnknownColumn, id)
	}
	c := t.cols[i]
	if c.NoSort {
		return Column[R]{}, fmt.Errorf("%w: %q", ErrNotSortable, id)
	}
	return c, nil
}

func (t *Table[R]) GotoPage(i int) {
	t.pageIndex = i
	t.clamp()
}

func (t *Table[R]) NextPage()     { t.GotoPage(t.pageIndex + 1) }
func (t *Table[R]) PreviousPage() { t.GotoPage(t.pageIndex - 1) }
func (t *Table[R]) FirstPage()    { t.GotoPage(0) }
func (t *Table[R]) LastPage()     { t.GotoPage(t.pageCount() - 1) }

// SetPageSize switches to one of the enumerated sizes, keeping the first
// visible row on screen.
func (t *Table[R]) SetPageSize(n int) error {
	if !slices.Contains(t.opts.PageSizes, n) {
		return fmt.Errorf("%w: %d not in %v", ErrPageSize, n, t.opts.PageSizes)
	}
	first := t.pageIndex * t.pageSize
	t.pageSize = n
	t.pageIndex = first / n
	t.clamp()
	return nil
}

func (t *Table[R]) PageSizes() []int { return slices.Clone(t.opts.PageSizes) }

// Page returns a copy of the visible slice of the filtered and sorted rows.
func (t *Table[R]) Page() []R {
	start := t.pageIndex * t.pageSize
	if start >= len(t.rows) {
		return nil
	}
	end := min(start+t.pageSize, len(t.rows))
	return slices.Clone(t.rows[start:end])
}

// Rows returns a copy of every row that passed the filter, in sorted order.
func (t *Table[R]) Rows() []R { return slices.Clone(t.rows) }

func (t *Table[R]) State() PageState {
	pc := t.pageCount()
	return PageState{
		PageIndex:   t.pageIndex,
		PageSize:    t.pageSize,
		PageCount:   pc,
		RowCount:    len(t.rows),
		TotalRows:   len(t.data),
		CanPrevious: t.pageIndex > 0,
		CanNext:     t.pageIndex < pc-1,
	}
}

func (t *Table[R]) Columns() []Column[R] { return t.cols }

// Column returns the column with the given ID.
func (t *Table[R]) Column(id string) (Column[R], bool) {
	i, ok := t.index[id]
	if !ok {
		return Column[R]{}, false
	}
	return t.cols[i], true
}

// CellText renders one cell; missing values render blank.
func (t *Table[R]) CellText(row R, c Column[R]) string { return c.Text(row) }

func (t *Table[R]) RowID(row R) string {
	if t.opts.RowID == nil {
		return ""
	}
	return t.opts.RowID(row)
}

// SetOnRowClick replaces the row-click callback; nil makes rows inert.
func (t *Table[R]) SetOnRowClick(fn func(R)) { t.opts.OnRowClick = fn }

func (t *Table[R]) Clickable() bool { return t.opts.OnRowClick != nil }

// Click hands the i-th visible row to the row-click callback.
func (t *Table[R]) Click(i int) bool {
	page := t.Page()
	if t.opts.OnRowClick == nil || i < 0 || i >= len(page) {
		return false
	}
	t.opts.OnRowClick(page[i])
	return true
}

func (t *Table[R]) pageCount() int {
	return (len(t.rows) + t.pageSize - 1) / t.pageSize
}

func (t *Table[R]) clamp() {
	last := max(t.pageCount(), 1) - 1
	if t.pageIndex > last {
		t.pageIndex = last
	}
	if t.pageIndex < 0 {
		t.pageIndex = 0
	}
}

// derive reruns filter then sort over the caller's rows, then clamps.
func (t *Table[R]) derive() {
	rows := t.filtered()
	if t.sort.Active() {
		if i, ok := t.index[t.sort.ColumnID]; ok {
			cmp := t.cols[i].compareRows()
			if t.sort.Direction == SortDesc {
				asc := cmp
				cmp = func(a, b R) int { return -asc(a, b) }
			}
			slices.SortStableFunc(rows, cmp)
		}
	}
	t.rows = rows
	t.clamp()
}

func (t *Table[R]) filtered() []R {
	out := make([]R, 0, len(t.data))
	if t.matcher.Empty() {
		return append(out, t.data...)
	}
	values := make(map[string]any, len(t.cols))
	for _, r := range t.data {
		clear(values)
		for _, c := range t.cols {
			if c.NoFilter {
				continue
			}
			values[c.ID] = c.Value(r)
		}
		if t.matcher.Match(values) {
			out = append(out, r)
		}
	}
	return out
}
