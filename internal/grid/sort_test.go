package grid

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"nil first", nil, "a", -1},
		{"both nil", nil, nil, 0},
		{"numbers", 2.0, 10.0, -1},
		{"numeric strings", "9", "10", -1},
		{"number before text", 5, "apple", -1},
		{"bools", true, false, 1},
		{"times", now, now.Add(time.Second), -1},
		{"case-insensitive", "apple", "Banana", -1},
		{"case tie-break", "Apple", "apple", -1},
		{"int16", int16(9), int16(10), -1},
		{"named int", rank(9), rank(100), -1},
		{"duration", 9 * time.Second, time.Minute, -1},
		{"nan name is text", "Nan", "Amy", 1},
		{"inf name is text", "Inf", "Bob", 1},
		{"hex is text", "0x10", "9", 1},
		{"NaN first", math.NaN(), -1.0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.want, Compare(tt.b, tt.a))
		})
	}
}

func TestNamedComparators(t *testing.T) {
	natural, err := Comparator("natural")
	require.NoError(t, err)
	rooms := []any{"room 10", "room 9", "Room 100", "room 09b"}
	slices.SortStableFunc(rooms, natural)
	assert.Equal(t, []any{"room 9", "room 09b", "room 10", "Room 100"}, rooms)

	byTime, err := Comparator("time")
	require.NoError(t, err)
	assert.Equal(t, -1, byTime("2024-01-01", "2024-03-01T10:00:00Z"))
	assert.Equal(t, -1, byTime("not a date", "2024-01-01"))

	byLen, err := Comparator("length")
	require.NoError(t, err)
	assert.Equal(t, -1, byLen("zz", "aaa"))

	byNum, err := Comparator("number")
	require.NoError(t, err)
	assert.Equal(t, 1, byNum("12", 3))
	assert.Equal(t, -1, byNum(1, "n/a"))

	text, err := Comparator("TEXT")
	require.NoError(t, err)
	assert.Equal(t, 1, text("9", "10"))

	_, err = Comparator("random")
	assert.ErrorIs(t, err, ErrUnknownComparator)
}

func TestSortDirectionCycle(t *testing.T) {
	d := SortNone
	var seen []string
	for i := 0; i < 4; i++ {
		d = d.next()
		seen = append(seen, d.String())
	}
	assert.Equal(t, []string{"asc", "desc", "none", "asc"}, seen)
}

func TestParseSort(t *testing.T) {
	st, err := ParseSort("units:desc")
	require.NoError(t, err)
	assert.Equal(t, SortState{ColumnID: "units", Direction: SortDesc}, st)

	st, err = ParseSort("title")
	require.NoError(t, err)
	assert.Equal(t, SortAsc, st.Direction)

	st, err = ParseSort("")
	require.NoError(t, err)
	assert.False(t, st.Active())

	_, err = ParseSort("title:sideways")
	assert.Error(t, err)
	_, err = ParseSort(":desc")
	assert.Error(t, err)
}
