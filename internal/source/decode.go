package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"admingrid/internal/model"
	"admingrid/internal/parse"
)

var envelopeKeys = []string{"data", "items", "results", "rows", "records"}

func decode(kind Kind, data []byte, maxBuf int, log *zap.Logger) ([]model.Record, error) {
	switch kind {
	case KindJSON:
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return fromJSON(v)
	case KindNDJSON, KindLogfmt:
		return decodeLines(kind, bytes.NewReader(data), maxBuf, log)
	case KindCSV:
		return decodeCSV(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// fromJSON accepts an array of objects or an object wrapping one under a
// common envelope key such as "data".
func fromJSON(v any) ([]model.Record, error) {
	switch t := v.(type) {
	case []any:
		out := make([]model.Record, 0, len(t))
		for i, e := range t {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("element %d is not an object", i)
			}
			out = append(out, model.Record(m))
		}
		return out, nil
	case map[string]any:
		for _, k := range envelopeKeys {
			if inner, ok := t[k]; ok {
				if _, isArr := inner.([]any); isArr {
					return fromJSON(inner)
				}
			}
		}
		return []model.Record{model.Record(t)}, nil
	}
	return nil, errors.New("expected a JSON array of objects")
}

func decodeLines(kind Kind, r io.Reader, maxBuf int, log *zap.Logger) ([]model.Record, error) {
	p, err := parse.NewParser(string(kind))
	if err != nil {
		return nil, err
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxBuf)
	var out []model.Record
	n, skipped := 0, 0
	for sc.Scan() {
		n++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := p.Parse(line)
		if err != nil {
			skipped++
			log.Debug("skip line", zap.Int("line", n), zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Warn("lines skipped", zap.Int("skipped", skipped), zap.String("kind", string(kind)))
	}
	return out, nil
}

func decodeCSV(r io.Reader) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	var out []model.Record
	for {
		vals, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		rec := make(model.Record, len(header))
		for i, h := range header {
			if i < len(vals) {
				rec[h] = parse.Scalar(vals[i])
			}
		}
		out = append(out, rec)
	}
	return out, nil
}
