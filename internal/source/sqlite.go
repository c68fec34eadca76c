package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"admingrid/internal/model"
)

func loadSQLite(ctx context.Context, path, query string) ([]model.Record, error) {
	if path == "" {
		return nil, ErrNoInput
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, errors.New("source: sqlite needs a query or table name")
	}
	if !strings.ContainsAny(q, " \t\n") {
		q = "SELECT * FROM " + quoteIdent(q)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite query: %w", err)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []model.Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(model.Record, len(cols))
		for i, c := range cols {
			rec[c] = sqlValue(vals[i])
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// sqlValue normalizes driver values to the shapes encoding/json produces.
func sqlValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case int64:
		return float64(t)
	}
	return v
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
