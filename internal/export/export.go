package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"admingrid/internal/grid"
)

type Format string

const (
	FormatCSV    Format = "csv"
	FormatNDJSON Format = "ndjson"
	FormatJSON   Format = "json"
)

var ErrUnknownFormat = errors.New("export: unknown format")

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "ndjson", "jsonl":
		return FormatNDJSON, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// View writes rows (normally the table's full filtered and sorted set) in
// the given format. CSV carries the column headers and rendered cell text;
// the JSON formats carry whole rows.
func View[R any](w io.Writer, f Format, cols []grid.Column[R], rows []R) error {
	switch f {
	case FormatCSV:
		return ToCSV(w, cols, rows)
	case FormatNDJSON:
		return ToNDJSON(w, rows)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if rows == nil {
			rows = []R{}
		}
		return enc.Encode(rows)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// ToFile writes the view to path, replacing any existing file.
func ToFile[R any](path string, f Format, cols []grid.Column[R], rows []R) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := View(out, f, cols, rows); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func ToCSV[R any](w io.Writer, cols []grid.Column[R], rows []R) error {
	if len(cols) == 0 {
		return errors.New("export: no columns")
	}
	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	rec := make([]string, len(cols))
	for _, r := range rows {
		for i, c := range cols {
			rec[i] = c.Text(r)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ToNDJSON[R any](w io.Writer, rows []R) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		b, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := bw.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return bw.Flush()
}
