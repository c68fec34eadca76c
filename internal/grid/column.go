package grid

import (
	"admingrid/internal/model"
)

// Column describes how one column reads, renders and orders a row.
type Column[R any] struct {
	ID     string
	Header string
	// Accessor extracts the raw cell value. A nil accessor yields nil.
	Accessor func(R) any
	// Cell renders the cell; when nil the value is rendered with model.Text.
	Cell func(row R, value any) string
	// Width is a rendering hint in terminal cells; 0 lets the renderer decide.
	Width int
	// Sort overrides the default ordering and receives whole rows so it
	// can compare derived values.
	Sort     func(a, b R) int
	NoFilter bool
	NoSort   bool
}

// Field builds a column from a typed getter.
func Field[R, V any](id, header string, get func(R) V) Column[R] {
	return Column[R]{ID: id, Header: header, Accessor: func(r R) any { return get(r) }}
}

// Path builds a column over records addressed by a dotted path. The path
// doubles as the column ID. Missing paths read as nil.
func Path(header, path string) Column[model.Record] {
	return Column[model.Record]{
		ID:     path,
		Header: header,
		Accessor: func(r model.Record) any {
			v, _ := r.Lookup(path)
			return v
		},
	}
}

// Value extracts the raw value; a panicking accessor reads as nil.
func (c Column[R]) Value(row R) (v any) {
	if c.Accessor == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			v = nil
		}
	}()
	return c.Accessor(row)
}

// Text renders the cell for row.
func (c Column[R]) Text(row R) (s string) {
	v := c.Value(row)
	if c.Cell == nil {
		return model.Text(v)
	}
	defer func() {
		if recover() != nil {
			s = ""
		}
	}()
	return c.Cell(row, v)
}

// compareRows returns the effective row comparator for c.
func (c Column[R]) compareRows() func(a, b R) int {
	if c.Sort != nil {
		return c.Sort
	}
	return func(a, b R) int { return Compare(c.Value(a), c.Value(b)) }
}
