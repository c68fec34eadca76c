package grid

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"admingrid/internal/model"
)

type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

func (d SortDirection) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return "none"
	}
}

// next is the header-click cycle: none -> asc -> desc -> none.
func (d SortDirection) next() SortDirection {
	switch d {
	case SortNone:
		return SortAsc
	case SortAsc:
		return SortDesc
	default:
		return SortNone
	}
}

// SortState names the single actively sorted column, if any.
type SortState struct {
	ColumnID  string
	Direction SortDirection
}

func (s SortState) Active() bool { return s.ColumnID != "" && s.Direction != SortNone }

// DirectionOf reports the direction for a column ID.
func (s SortState) DirectionOf(id string) SortDirection {
	if s.ColumnID != id {
		return SortNone
	}
	return s.Direction
}

// ParseSort reads "column", "column:asc" or "column:desc". An empty string
// is no sort.
func ParseSort(s string) (SortState, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortState{}, nil
	}
	id, dir, _ := strings.Cut(s, ":")
	st := SortState{ColumnID: strings.TrimSpace(id), Direction: SortAsc}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
	case "desc":
		st.Direction = SortDesc
	default:
		return SortState{}, fmt.Errorf("sort %q: direction must be asc or desc", s)
	}
	if st.ColumnID == "" {
		return SortState{}, fmt.Errorf("sort %q: missing column", s)
	}
	return st, nil
}

// Compare is the default value ordering: nil first, then numbers (numeric
// strings included), booleans, times, and finally text compared without
// case with a case-sensitive tie-break.
func Compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	switch {
	case aNum && bNum:
		return cmpFloat(fa, fb)
	case aNum:
		return -1
	case bNum:
		return 1
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			return cmpBool(ba, bb)
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	return CompareText(model.Text(a), model.Text(b))
}

// CompareText orders strings ignoring case, falling back to byte order.
func CompareText(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// CompareNumber orders values by their numeric reading; non-numbers sort last.
func CompareNumber(a, b any) int {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	switch {
	case aNum && bNum:
		return cmpFloat(fa, fb)
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return 0
}

// CompareTime orders values parsed as RFC 3339 (or time.Time); unparsable
// values sort first.
func CompareTime(a, b any) int {
	ta, aOK := toTime(a)
	tb, bOK := toTime(b)
	switch {
	case aOK && bOK:
		return ta.Compare(tb)
	case aOK:
		return 1
	case bOK:
		return -1
	}
	return 0
}

// CompareLength orders by the length of the rendered text, then by text.
func CompareLength(a, b any) int {
	sa, sb := model.Text(a), model.Text(b)
	if la, lb := len([]rune(sa)), len([]rune(sb)); la != lb {
		if la < lb {
			return -1
		}
		return 1
	}
	return CompareText(sa, sb)
}

// CompareNatural orders text so embedded numbers compare numerically
// ("room 9" < "room 10").
func CompareNatural(a, b any) int {
	ra, rb := []rune(strings.ToLower(model.Text(a))), []rune(strings.ToLower(model.Text(b)))
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		if unicode.IsDigit(ra[i]) && unicode.IsDigit(rb[j]) {
			si := i
			for i < len(ra) && unicode.IsDigit(ra[i]) {
				i++
			}
			sj := j
			for j < len(rb) && unicode.IsDigit(rb[j]) {
				j++
			}
			na := strings.TrimLeft(string(ra[si:i]), "0")
			nb := strings.TrimLeft(string(rb[sj:j]), "0")
			if len(na) != len(nb) {
				if len(na) < len(nb) {
					return -1
				}
				return 1
			}
			if c := strings.Compare(na, nb); c != 0 {
				return c
			}
			continue
		}
		if ra[i] != rb[j] {
			if ra[i] < rb[j] {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(ra)-i < len(rb)-j:
		return -1
	case len(ra)-i > len(rb)-j:
		return 1
	}
	return 0
}

// comparators maps the names usable in column descriptor files.
var comparators = map[string]func(a, b any) int{
	"":        Compare,
	"auto":    Compare,
	"text":    func(a, b any) int { return CompareText(model.Text(a), model.Text(b)) },
	"number":  CompareNumber,
	"time":    CompareTime,
	"natural": CompareNatural,
	"length":  CompareLength,
}

// Comparator looks up a named value comparator.
func Comparator(name string) (func(a, b any) int, error) {
	c, ok := comparators[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComparator, name)
	}
	return c, nil
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case bool:
		return 0, false
	case string:
		return parseNumber(t)
	}
	// Narrow widths, named numeric types and time.Duration.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// parseNumber accepts plain decimal numbers only: names such as "Nan" or
// "Inf" and hex literals stay text.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xXpP_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, strings.TrimSpace(t)); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

// cmpFloat orders NaN before every other value.
func cmpFloat(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
