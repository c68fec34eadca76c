package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"admingrid/internal/model"
)

var ErrNotObject = errors.New("parse: line is not a JSON object")

type Parser interface {
	Parse(line string) (model.Record, error)
}

func NewParser(format string) (Parser, error) {
	switch strings.ToLower(format) {
	case "json", "ndjson", "jsonl":
		return &JSONParser{}, nil
	case "logfmt", "kv":
		return &LogfmtParser{}, nil
	}
	return nil, fmt.Errorf("parse: no line parser for format %q", format)
}

// JSONParser decodes one JSON object per line.
type JSONParser struct{}

func (p *JSONParser) Parse(line string) (model.Record, error) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "{") {
		return nil, ErrNotObject
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return model.Record(m), nil
}

// LogfmtParser decodes key=value pairs; quoted values may contain spaces.
type LogfmtParser struct{}

func (p *LogfmtParser) Parse(line string) (model.Record, error) {
	parts := splitLogfmt(line)
	if len(parts) == 0 {
		return nil, fmt.Errorf("parse: no key=value pairs in %q", line)
	}
	rec := make(model.Record, len(parts))
	for k, v := range parts {
		rec[k] = Scalar(v)
	}
	return rec, nil
}

func splitLogfmt(s string) map[string]string {
	res := map[string]string{}
	var cur strings.Builder
	inQuote := false
	key := ""
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' {
			inQuote = !inQuote
			continue
		}
		if !inQuote && (c == ' ' || c == '\t') {
			if key != "" {
				res[key] = cur.String()
				key = ""
			}
			cur.Reset()
			continue
		}
		if !inQuote && c == '=' && key == "" {
			key = cur.String()
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	if key != "" {
		res[key] = cur.String()
	}
	return res
}

// Scalar types a textual value: numbers become float64 and true/false
// become bool, matching what encoding/json produces.
func Scalar(s string) any {
	t := strings.TrimSpace(s)
	switch t {
	case "":
		return s
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil && !strings.ContainsAny(t, "xXpP_") {
		return f
	}
	return s
}
