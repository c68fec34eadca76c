package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Record is one row as delivered by a data source. The grid only reads it.
type Record map[string]any

// idKeys are checked in order when a record is asked for its identifier.
var idKeys = []string{"id", "_id", "uuid", "ID", "Id"}

// Lookup resolves a dotted path ("owner.email", "tags.0") against nested
// maps and slices. A miss returns (nil, false) and never panics.
func (r Record) Lookup(path string) (any, bool) {
	if r == nil || path == "" {
		return nil, false
	}
	if v, ok := r[path]; ok {
		return v, true
	}
	var cur any = map[string]any(r)
	for _, part := range strings.Split(path, ".") {
		switch t := cur.(type) {
		case map[string]any:
			v, ok := t[part]
			if !ok {
				return nil, false
			}
			cur = v
		case Record:
			v, ok := t[part]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(t) {
				return nil, false
			}
			cur = t[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// ID returns the record identifier as a string, or "" when none is present.
func (r Record) ID() string {
	for _, k := range idKeys {
		if v, ok := r[k]; ok && v != nil {
			switch t := v.(type) {
			case string:
				return t
			case float64:
				return strconv.FormatFloat(t, 'f', -1, 64)
			default:
				return fmt.Sprint(t)
			}
		}
	}
	return ""
}

func (r Record) PrettyJSON() string {
	b, _ := json.MarshalIndent(map[string]any(r), "", "  ")
	return string(b)
}

type FieldDef struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Schema is the set of fields discovered across a row set.
type Schema struct {
	Source string     `json:"source"`
	Fields []FieldDef `json:"fields"`
}

// preferred leading columns for admin data sets
var preferred = []string{"id", "_id", "name", "title", "firstName", "lastName", "email", "role", "type", "status", "category", "createdAt", "updatedAt"}

func (s Schema) ColumnOrder() []string {
	cols := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		cols = append(cols, f.Name)
	}
	sort.SliceStable(cols, func(i, j int) bool {
		pi := indexOf(preferred, cols[i])
		pj := indexOf(preferred, cols[j])
		if pi == pj {
			return cols[i] < cols[j]
		}
		return pi < pj
	})
	return cols
}

// Discover builds a schema from the top-level keys of the given records.
// The field type is taken from the first non-nil value seen.
func Discover(source string, rows []Record) Schema {
	types := map[string]string{}
	order := []string{}
	for _, r := range rows {
		for k, v := range r {
			if strings.TrimSpace(k) == "" {
				continue
			}
			t, seen := types[k]
			if !seen {
				order = append(order, k)
			}
			if t == "" && v != nil {
				types[k] = typeName(v)
			} else if !seen {
				types[k] = ""
			}
		}
	}
	fields := make([]FieldDef, 0, len(order))
	for _, k := range order {
		t := types[k]
		if t == "" {
			t = "string"
		}
		fields = append(fields, FieldDef{Name: k, Type: t})
	}
	return Schema{Source: source, Fields: fields}
}

func typeName(v any) string {
	switch v.(type) {
	case float64, float32, int, int32, int64, uint, uint32, uint64:
		return "number"
	case bool:
		return "bool"
	case map[string]any, Record:
		return "object"
	case []any:
		return "array"
	default:
		return "string"
	}
}

func indexOf(arr []string, s string) int {
	for i, v := range arr {
		if v == s {
			return i
		}
	}
	return len(arr) + 1
}

// Ring is a bounded record store used by live feeds; the oldest rows are
// overwritten once capacity is reached.
type Ring struct {
	mu      sync.RWMutex
	buf     []Record
	cap     int
	start   int
	size    int
	total   uint64
	dropped uint64
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring{cap: capacity, buf: make([]Record, capacity)}
}

func (r *Ring) Push(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.size < r.cap {
		r.buf[(r.start+r.size)%r.cap] = rec
		r.size++
	} else {
		r.buf[r.start] = rec
		r.start = (r.start + 1) % r.cap
		r.dropped++
	}
	r.total++
}

// PushAll appends rows in order.
func (r *Ring) PushAll(recs []Record) {
	for _, rec := range recs {
		r.Push(rec)
	}
}

func (r *Ring) Snapshot() ([]Record, uint64, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.start+i)%r.cap]
	}
	return out, r.total, r.dropped
}

func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

func (r *Ring) Cap() int { return r.cap }

// Text renders a cell value as display text. nil renders blank.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32, int, int32, int64, uint, uint32, uint64, bool:
		return fmt.Sprint(t)
	case fmt.Stringer:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
