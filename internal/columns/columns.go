// Package columns loads column descriptor files and turns them into grid
// columns over model.Record rows.
package columns

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"

	"admingrid/internal/grid"
	"admingrid/internal/model"
	"admingrid/internal/util"
)

var (
	ErrNoAccessor    = errors.New("columns: accessor is required")
	ErrUnknownFormat = errors.New("columns: unknown format")
)

// Spec is one column entry of a descriptor file.
type Spec struct {
	ID       string `yaml:"id,omitempty"`
	Header   string `yaml:"header"`
	Accessor string `yaml:"accessor"`
	Width    int    `yaml:"width,omitempty"`
	Sort     string `yaml:"sort,omitempty"`
	Format   string `yaml:"format,omitempty"`
	Filter   *bool  `yaml:"filter,omitempty"`
	Sortable *bool  `yaml:"sortable,omitempty"`
}

// File is a per-screen descriptor: its columns plus optional paging and
// click-through settings.
type File struct {
	Title     string `yaml:"title,omitempty"`
	Route     string `yaml:"route,omitempty"`
	PageSize  int    `yaml:"pageSize,omitempty"`
	PageSizes []int  `yaml:"pageSizes,omitempty"`
	Columns   []Spec `yaml:"columns"`
}

func Load(path string) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	f, err := Parse(b)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse accepts either a File document or a bare list of column specs.
func Parse(b []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err == nil && len(f.Columns) > 0 {
		return f, nil
	}
	var list []Spec
	if err := yaml.Unmarshal(b, &list); err != nil {
		return File{}, fmt.Errorf("parse columns: %w", err)
	}
	return File{Columns: list}, nil
}

// Build converts specs into grid columns.
func Build(specs []Spec) ([]grid.Column[model.Record], error) {
	out := make([]grid.Column[model.Record], 0, len(specs))
	for i, s := range specs {
		c, err := s.column()
		if err != nil {
			return nil, fmt.Errorf("column %d (%s): %w", i, s.Header, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (s Spec) column() (grid.Column[model.Record], error) {
	path := strings.TrimSpace(s.Accessor)
	if path == "" {
		return grid.Column[model.Record]{}, ErrNoAccessor
	}
	header := s.Header
	if header == "" {
		header = Title(path)
	}
	c := grid.Path(header, path)
	if s.ID != "" {
		c.ID = s.ID
	}
	c.Width = s.Width
	c.NoFilter = s.Filter != nil && !*s.Filter
	c.NoSort = s.Sortable != nil && !*s.Sortable
	if s.Sort != "" {
		cmp, err := grid.Comparator(s.Sort)
		if err != nil {
			return grid.Column[model.Record]{}, err
		}
		get := c.Accessor
		c.Sort = func(a, b model.Record) int { return cmp(get(a), get(b)) }
	}
	cell, err := formatter(s.Format)
	if err != nil {
		return grid.Column[model.Record]{}, err
	}
	c.Cell = cell
	return c, nil
}

func formatter(name string) (func(model.Record, any) string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return nil, nil
	case "bool":
		return func(_ model.Record, v any) string {
			switch t := v.(type) {
			case bool:
				if t {
					return "✓"
				}
				return "✗"
			case nil:
				return ""
			}
			return model.Text(v)
		}, nil
	case "date":
		return func(_ model.Record, v any) string {
			s := model.Text(v)
			for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
				if ts, err := time.Parse(layout, s); err == nil {
					return ts.Format("2006-01-02 15:04")
				}
			}
			return s
		}, nil
	case "count":
		return func(_ model.Record, v any) string {
			switch t := v.(type) {
			case []any:
				return fmt.Sprint(len(t))
			case map[string]any:
				return fmt.Sprint(len(t))
			case nil:
				return "0"
			}
			return model.Text(v)
		}, nil
	case "redact":
		return func(_ model.Record, v any) string { return util.RedactPII(model.Text(v)) }, nil
	case "upper":
		return func(_ model.Record, v any) string { return strings.ToUpper(model.Text(v)) }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Infer builds default specs from a discovered schema: every field in
// preferred order, numbers sorted numerically.
func Infer(s model.Schema) []Spec {
	types := map[string]string{}
	for _, f := range s.Fields {
		types[f.Name] = f.Type
	}
	cols := s.ColumnOrder()
	out := make([]Spec, 0, len(cols))
	for _, name := range cols {
		sp := Spec{Header: Title(name), Accessor: name}
		switch types[name] {
		case "number":
			sp.Sort = "number"
		case "bool":
			sp.Format = "bool"
		case "array", "object":
			sp.Format = "count"
			sp.Sort = "length"
		}
		out = append(out, sp)
	}
	return out
}

// Title turns an accessor into a header: "owner.firstName" -> "Owner First Name".
func Title(path string) string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	prev := rune(0)
	for _, r := range path {
		switch {
		case r == '.' || r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r) && prev != 0 && unicode.IsLower(prev):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	for i, w := range words {
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	if len(words) == 1 && strings.EqualFold(words[0], "id") {
		return "ID"
	}
	return strings.Join(words, " ")
}
