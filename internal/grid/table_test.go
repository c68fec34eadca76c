package grid

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admingrid/internal/filter"
	"admingrid/internal/model"
)

type place struct {
	ID       string
	Name     string
	Capacity int
	Owner    *owner
}

type owner struct{ Email string }

func placeColumns() []Column[place] {
	return []Column[place]{
		Field("id", "ID", func(p place) string { return p.ID }),
		Field("name", "Name", func(p place) string { return p.Name }),
		Field("capacity", "Capacity", func(p place) int { return p.Capacity }),
	}
}

// places returns n rows; names repeat every ten so filters have predictable
// match counts.
func places(n int) []place {
	out := make([]place, n)
	for i := range out {
		out[i] = place{
			ID:       fmt.Sprintf("p%02d", i+1),
			Name:     fmt.Sprintf("%s %d", []string{"Library", "Gym", "Cafe", "Lab", "Hall"}[i%5], i+1),
			Capacity: (i * 37) % 101,
		}
	}
	return out
}

func ids(rows []place) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func newTable(t *testing.T, rows []place, opts Options[place]) *Table[place] {
	t.Helper()
	tbl, err := New(placeColumns(), opts)
	require.NoError(t, err)
	tbl.SetData(rows)
	return tbl
}

func TestNewValidation(t *testing.T) {
	_, err := New(placeColumns(), Options[place]{PageSize: 25})
	assert.ErrorIs(t, err, ErrPageSize)

	cols := append(placeColumns(), Field("name", "Again", func(p place) string { return p.Name }))
	_, err = New(cols, Options[place]{})
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = New([]Column[place]{{Header: "no id"}}, Options[place]{})
	assert.ErrorIs(t, err, ErrUnknownColumn)

	tbl, err := New(placeColumns(), Options[place]{PageSizes: []int{5, 15}})
	require.NoError(t, err)
	assert.Equal(t, 5, tbl.State().PageSize)
}

func TestDefaults(t *testing.T) {
	tbl := newTable(t, places(45), Options[place]{})
	st := tbl.State()
	assert.Equal(t, DefaultPageSize, st.PageSize)
	assert.Equal(t, 3, st.PageCount)
	assert.Equal(t, 45, st.RowCount)
	assert.False(t, st.CanPrevious)
	assert.True(t, st.CanNext)
	assert.Equal(t, []int{10, 20, 30, 40, 50}, tbl.PageSizes())
}

func TestEmptyFilterIsIdentity(t *testing.T) {
	rows := places(33)
	tbl := newTable(t, rows, Options[place]{})
	require.NoError(t, tbl.SetFilter("gym"))
	require.NoError(t, tbl.SetFilter(""))
	if diff := cmp.Diff(ids(rows), ids(tbl.Rows())); diff != "" {
		t.Fatalf("rows differ (-want +got):\n%s", diff)
	}
}

func TestPaginationCoverage(t *testing.T) {
	rows := places(97)
	for _, size := range []int{10, 20, 30, 40, 50} {
		t.Run(fmt.Sprint(size), func(t *testing.T) {
			tbl := newTable(t, rows, Options[place]{PageSize: size})
			require.NoError(t, tbl.SetFilter("l")) // Library, Hall, Lab
			require.NoError(t, tbl.ToggleSort("capacity"))

			var got []string
			seen := map[string]bool{}
			for i := 0; i < tbl.State().PageCount; i++ {
				tbl.GotoPage(i)
				for _, r := range tbl.Page() {
					require.False(t, seen[r.ID], "duplicate %s", r.ID)
					seen[r.ID] = true
					got = append(got, r.ID)
				}
			}
			assert.Equal(t, ids(tbl.Rows()), got)
			assert.Len(t, got, tbl.State().RowCount)
		})
	}
}

func TestSortNumericAndToggleCycle(t *testing.T) {
	rows := places(40)
	tbl := newTable(t, rows, Options[place]{PageSize: 50})

	require.NoError(t, tbl.ToggleSort("capacity"))
	assert.Equal(t, SortState{ColumnID: "capacity", Direction: SortAsc}, tbl.Sort())
	got := tbl.Rows()
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Capacity, got[i].Capacity)
	}

	require.NoError(t, tbl.ToggleSort("capacity"))
	assert.Equal(t, SortDesc, tbl.Sort().Direction)
	got = tbl.Rows()
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Capacity, got[i].Capacity)
	}

	require.NoError(t, tbl.ToggleSort("capacity"))
	assert.False(t, tbl.Sort().Active())
	assert.Equal(t, ids(rows), ids(tbl.Rows()))
}

type rank int

type ranked struct {
	ID    string
	Small int16
	Rank  rank
	Wait  time.Duration
}

func TestSortTypedNumericColumns(t *testing.T) {
	cols := []Column[ranked]{
		Field("id", "ID", func(r ranked) string { return r.ID }),
		Field("small", "Small", func(r ranked) int16 { return r.Small }),
		Field("rank", "Rank", func(r ranked) rank { return r.Rank }),
		Field("wait", "Wait", func(r ranked) time.Duration { return r.Wait }),
	}
	tbl, err := New(cols, Options[ranked]{})
	require.NoError(t, err)
	tbl.SetData([]ranked{
		{ID: "a", Small: 10, Rank: 10, Wait: 10 * time.Second},
		{ID: "b", Small: 9, Rank: 9, Wait: 9 * time.Second},
		{ID: "c", Small: 100, Rank: 100, Wait: 100 * time.Second},
	})

	for _, col := range []string{"small", "rank", "wait"} {
		t.Run(col, func(t *testing.T) {
			require.NoError(t, tbl.SetSort(SortState{ColumnID: col, Direction: SortAsc}))
			var got []string
			for _, r := range tbl.Rows() {
				got = append(got, r.ID)
			}
			assert.Equal(t, []string{"b", "a", "c"}, got)
		})
	}
}

func TestSortNamesThatLookNumeric(t *testing.T) {
	rows := []place{{ID: "1", Name: "Zed"}, {ID: "2", Name: "Nan"}, {ID: "3", Name: "Amy"}, {ID: "4", Name: "Inf"}, {ID: "5", Name: "Bob"}}
	tbl := newTable(t, rows, Options[place]{})
	require.NoError(t, tbl.ToggleSort("name"))
	var names []string
	for _, r := range tbl.Rows() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Amy", "Bob", "Inf", "Nan", "Zed"}, names)
}

func TestReturnedRowsAreCopies(t *testing.T) {
	rows := places(5)
	tbl := newTable(t, rows, Options[place]{PageSize: 10})
	page := tbl.Page()
	page[0], page[4] = page[4], page[0]
	all := tbl.Rows()
	all[1] = place{ID: "zz"}
	assert.Equal(t, ids(rows), ids(tbl.Page()))
	assert.Equal(t, ids(rows), ids(tbl.Rows()))
}

func TestSortSwitchesColumn(t *testing.T) {
	tbl := newTable(t, places(12), Options[place]{})
	require.NoError(t, tbl.ToggleSort("capacity"))
	require.NoError(t, tbl.ToggleSort("capacity"))
	require.NoError(t, tbl.ToggleSort("name"))
	assert.Equal(t, SortState{ColumnID: "name", Direction: SortAsc}, tbl.Sort())
	assert.Equal(t, SortNone, tbl.Sort().DirectionOf("capacity"))

	assert.ErrorIs(t, tbl.ToggleSort("missing"), ErrUnknownColumn)
}

func TestNoSortColumn(t *testing.T) {
	cols := placeColumns()
	cols[1].NoSort = true
	tbl, err := New(cols, Options[place]{})
	require.NoError(t, err)
	assert.ErrorIs(t, tbl.ToggleSort("name"), ErrNotSortable)
	assert.ErrorIs(t, tbl.SetSort(SortState{ColumnID: "name", Direction: SortAsc}), ErrNotSortable)
	require.NoError(t, tbl.SetSort(SortState{}))
}

func TestCustomSortReceivesRows(t *testing.T) {
	cols := placeColumns()
	// order by name length, a derived value the accessor does not expose
	cols[1].Sort = func(a, b place) int { return len(a.Name) - len(b.Name) }
	tbl, err := New(cols, Options[place]{})
	require.NoError(t, err)
	tbl.SetData([]place{{ID: "a", Name: "Library"}, {ID: "b", Name: "Gym"}, {ID: "c", Name: "Cafe"}})
	require.NoError(t, tbl.ToggleSort("name"))
	assert.Equal(t, []string{"b", "c", "a"}, ids(tbl.Rows()))
	require.NoError(t, tbl.ToggleSort("name"))
	assert.Equal(t, []string{"a", "c", "b"}, ids(tbl.Rows()))
}

func TestDescendingKeepsTiesInInputOrder(t *testing.T) {
	tbl := newTable(t, []place{{ID: "a", Capacity: 1}, {ID: "b", Capacity: 1}, {ID: "c", Capacity: 2}}, Options[place]{})
	require.NoError(t, tbl.SetSort(SortState{ColumnID: "capacity", Direction: SortDesc}))
	assert.Equal(t, []string{"c", "a", "b"}, ids(tbl.Rows()))
}

func TestFilterNarrowingClampsToFirstPage(t *testing.T) {
	rows := places(45)
	for i := range rows {
		rows[i].Name = "Hall"
	}
	for i := 0; i < 10; i++ {
		rows[i].Name = "Library"
	}
	tbl := newTable(t, rows, Options[place]{PageSize: 20})
	tbl.GotoPage(2)
	require.Equal(t, []string{"p41", "p42", "p43", "p44", "p45"}, ids(tbl.Page()))

	require.NoError(t, tbl.SetFilter("library"))
	st := tbl.State()
	assert.Equal(t, 0, st.PageIndex)
	assert.Equal(t, 1, st.PageCount)
	assert.Equal(t, ids(rows[:10]), ids(tbl.Page()))
}

func TestDataShrinkClampsPage(t *testing.T) {
	tbl := newTable(t, places(45), Options[place]{PageSize: 20})
	tbl.GotoPage(2)
	tbl.SetData(places(25))
	assert.Equal(t, 1, tbl.State().PageIndex)
	assert.Len(t, tbl.Page(), 5)

	tbl.SetData(nil)
	st := tbl.State()
	assert.Equal(t, 0, st.PageIndex)
	assert.Equal(t, 0, st.PageCount)
	assert.Empty(t, tbl.Page())
	assert.False(t, st.CanNext)
}

func TestGotoPageClamps(t *testing.T) {
	tbl := newTable(t, places(45), Options[place]{PageSize: 20})
	tbl.GotoPage(99)
	assert.Equal(t, 2, tbl.State().PageIndex)
	tbl.NextPage()
	assert.Equal(t, 2, tbl.State().PageIndex)
	tbl.GotoPage(-3)
	assert.Equal(t, 0, tbl.State().PageIndex)
	tbl.PreviousPage()
	assert.Equal(t, 0, tbl.State().PageIndex)
	tbl.LastPage()
	assert.Equal(t, 2, tbl.State().PageIndex)
	tbl.FirstPage()
	assert.Equal(t, 0, tbl.State().PageIndex)
}

func TestSetPageSize(t *testing.T) {
	tbl := newTable(t, places(45), Options[place]{PageSize: 10})
	tbl.GotoPage(3) // rows 31-40
	require.NoError(t, tbl.SetPageSize(20))
	st := tbl.State()
	assert.Equal(t, 1, st.PageIndex) // row 31 lives on page 1 of 20
	assert.Equal(t, 3, st.PageCount)

	require.NoError(t, tbl.SetPageSize(50))
	assert.Equal(t, 0, tbl.State().PageIndex)

	err := tbl.SetPageSize(7)
	assert.ErrorIs(t, err, ErrPageSize)
	assert.Equal(t, 50, tbl.State().PageSize)
}

func TestInvalidFilterKeepsPrevious(t *testing.T) {
	tbl := newTable(t, places(20), Options[place]{Filter: filter.Policy{Mode: filter.ModeExpr}})
	require.NoError(t, tbl.SetFilter("capacity > 50"))
	n := tbl.State().RowCount
	assert.Error(t, tbl.SetFilter("capacity >"))
	assert.Equal(t, "capacity > 50", tbl.Filter())
	assert.Equal(t, n, tbl.State().RowCount)
	for _, r := range tbl.Rows() {
		assert.Greater(t, r.Capacity, 50)
	}
}

func TestSetFilterPolicy(t *testing.T) {
	tbl := newTable(t, places(20), Options[place]{})
	require.NoError(t, tbl.SetFilter("GYM"))
	before := tbl.State().RowCount
	require.NoError(t, tbl.SetFilterPolicy(filter.Policy{CaseSensitive: true}))
	assert.Equal(t, 0, tbl.State().RowCount)
	require.NoError(t, tbl.SetFilterPolicy(filter.Policy{}))
	assert.Equal(t, before, tbl.State().RowCount)
	assert.Equal(t, filter.ModeSubstring, tbl.FilterPolicy().Mode)
}

func TestNoFilterColumnIsSkipped(t *testing.T) {
	cols := placeColumns()
	cols[0].NoFilter = true
	tbl, err := New(cols, Options[place]{})
	require.NoError(t, err)
	tbl.SetData(places(5))
	require.NoError(t, tbl.SetFilter("p01"))
	assert.Zero(t, tbl.State().RowCount)
}

func TestAccessorMissRendersBlank(t *testing.T) {
	rows := []model.Record{{"id": "1", "name": "Library"}, {"id": "2"}}
	cols := []Column[model.Record]{Path("Name", "name"), Path("Missing", "nonexistent.field")}
	tbl, err := New(cols, Options[model.Record]{})
	require.NoError(t, err)
	tbl.SetData(rows)
	for _, r := range tbl.Page() {
		assert.Equal(t, "", tbl.CellText(r, cols[1]))
	}
	assert.Equal(t, "Library", tbl.CellText(rows[0], cols[0]))
	assert.Equal(t, "", tbl.CellText(rows[1], cols[0]))
	require.NoError(t, tbl.ToggleSort("nonexistent.field"))
	assert.Len(t, tbl.Rows(), 2)
}

func TestPanickingAccessorReadsNil(t *testing.T) {
	cols := []Column[place]{
		Field("email", "Email", func(p place) string { return p.Owner.Email }),
		{ID: "cell", Header: "Cell", Accessor: func(p place) any { return p.Name }, Cell: func(p place, _ any) string { return p.Owner.Email }},
	}
	tbl, err := New(cols, Options[place]{})
	require.NoError(t, err)
	rows := []place{{ID: "x", Name: "no owner"}}
	tbl.SetData(rows)
	assert.Equal(t, "", tbl.CellText(rows[0], cols[0]))
	assert.Equal(t, "", tbl.CellText(rows[0], cols[1]))
}

func TestClick(t *testing.T) {
	var clicked []string
	tbl := newTable(t, places(25), Options[place]{
		RowID:      func(p place) string { return p.ID },
		OnRowClick: func(p place) { clicked = append(clicked, p.ID) },
	})
	assert.True(t, tbl.Clickable())
	tbl.NextPage()
	assert.True(t, tbl.Click(0))
	assert.False(t, tbl.Click(5))
	assert.Equal(t, []string{"p21"}, clicked)
	assert.Equal(t, "p21", tbl.RowID(tbl.Page()[0]))

	tbl.SetOnRowClick(nil)
	assert.False(t, tbl.Click(0))
	assert.Len(t, clicked, 1)
}

func TestRowsAreNotMutated(t *testing.T) {
	rows := places(30)
	before := ids(rows)
	tbl := newTable(t, rows, Options[place]{})
	require.NoError(t, tbl.ToggleSort("capacity"))
	require.NoError(t, tbl.SetFilter("a"))
	assert.Equal(t, before, ids(rows))
	assert.True(t, strings.HasPrefix(tbl.Rows()[0].ID, "p"))
}
