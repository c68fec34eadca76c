package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Knetic/govaluate"

	"admingrid/internal/model"
)

// Mode selects how the global filter query is matched against a row.
type Mode int

const (
	// ModeSubstring: case-insensitive substring, OR across columns.
	ModeSubstring Mode = iota
	// ModeToken: every whitespace-separated token must match some column.
	ModeToken
	// ModeRegex: the whole query is a regular expression.
	ModeRegex
	// ModeExpr: the query is a boolean expression over column IDs.
	ModeExpr
)

func (m Mode) String() string {
	switch m {
	case ModeToken:
		return "token"
	case ModeRegex:
		return "regex"
	case ModeExpr:
		return "expr"
	default:
		return "substring"
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "substring", "contains":
		return ModeSubstring, nil
	case "token", "tokens":
		return ModeToken, nil
	case "regex", "regexp":
		return ModeRegex, nil
	case "expr", "expression":
		return ModeExpr, nil
	}
	return ModeSubstring, fmt.Errorf("unknown filter mode %q", s)
}

// Policy is the configurable matching policy for the global filter.
type Policy struct {
	Mode          Mode
	CaseSensitive bool
	// Columns limits matching to these column IDs; empty means every
	// column handed to Match.
	Columns []string
}

// Matcher is a compiled query. The zero query matches everything.
type Matcher struct {
	policy Policy
	query  string
	needle string
	tokens []string
	re     *regexp.Regexp
	expr   *govaluate.EvaluableExpression
	cols   map[string]bool
}

func Compile(p Policy, query string) (*Matcher, error) {
	m := &Matcher{policy: p, query: query}
	if len(p.Columns) > 0 {
		m.cols = make(map[string]bool, len(p.Columns))
		for _, c := range p.Columns {
			m.cols[c] = true
		}
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return m, nil
	}
	switch {
	case p.Mode == ModeExpr:
		expr, err := govaluate.NewEvaluableExpression(q)
		if err != nil {
			return nil, fmt.Errorf("filter expression: %w", err)
		}
		m.expr = expr
	case p.Mode == ModeRegex || slashed(q):
		pat := q
		if slashed(q) {
			pat = q[1 : len(q)-1]
		}
		if !p.CaseSensitive {
			pat = "(?i)" + pat
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("filter regex: %w", err)
		}
		m.re = re
	case p.Mode == ModeToken:
		for _, tok := range strings.Fields(q) {
			m.tokens = append(m.tokens, m.fold(tok))
		}
	default:
		// Surrounding spaces are kept: "ann " skips "Annabelle".
		m.needle = m.fold(query)
	}
	return m, nil
}

// Empty reports whether the matcher is the identity filter.
func (m *Matcher) Empty() bool {
	return m == nil || strings.TrimSpace(m.query) == ""
}

func (m *Matcher) Query() string {
	if m == nil {
		return ""
	}
	return m.query
}

func (m *Matcher) Policy() Policy {
	if m == nil {
		return Policy{}
	}
	return m.policy
}

// Match reports whether the row, given as column ID -> raw value, passes.
func (m *Matcher) Match(values map[string]any) bool {
	if m.Empty() {
		return true
	}
	if m.expr != nil {
		return m.matchExpr(values)
	}
	texts := make([]string, 0, len(values))
	for id, v := range values {
		if m.cols != nil && !m.cols[id] {
			continue
		}
		texts = append(texts, model.Text(v))
	}
	if m.re != nil {
		for _, t := range texts {
			if m.re.MatchString(t) {
				return true
			}
		}
		return false
	}
	if len(m.tokens) > 0 {
		for _, tok := range m.tokens {
			if !anyContains(texts, tok, m.fold) {
				return false
			}
		}
		return true
	}
	return anyContains(texts, m.needle, m.fold)
}

func (m *Matcher) matchExpr(values map[string]any) bool {
	params := make(map[string]any, len(values)*2)
	for k, v := range values {
		if m.cols != nil && !m.cols[k] {
			continue
		}
		if f, ok := v.(float32); ok {
			v = float64(f)
		}
		params[k] = v
		// dotted accessor paths are exposed with underscores as well
		if strings.Contains(k, ".") {
			params[strings.ReplaceAll(k, ".", "_")] = v
		}
	}
	for _, name := range m.expr.Vars() {
		if _, ok := params[name]; !ok {
			params[name] = nil
		}
	}
	result, err := m.expr.Evaluate(params)
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}

func (m *Matcher) fold(s string) string {
	if m.policy.CaseSensitive {
		return s
	}
	return strings.ToLower(s)
}

func anyContains(texts []string, needle string, fold func(string) string) bool {
	for _, t := range texts {
		if strings.Contains(fold(t), needle) {
			return true
		}
	}
	return false
}

// slashed reports a /pattern/ query.
func slashed(q string) bool {
	return len(q) > 2 && strings.HasPrefix(q, "/") && strings.HasSuffix(q, "/")
}
