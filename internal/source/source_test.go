package source

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admingrid/internal/model"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func titles(rows []model.Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = model.Text(r["title"])
	}
	return out
}

func TestLoadFiles(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		file string
		body string
		want []string
	}{
		{"json array", "m.json", `[{"id":"a","title":"Safety"},{"id":"b","title":"Privacy"}]`, []string{"Safety", "Privacy"}},
		{"json envelope", "m.json", `{"data":[{"id":"a","title":"Safety"}],"total":1}`, []string{"Safety"}},
		{"ndjson with junk", "m.ndjson", "{\"id\":\"a\",\"title\":\"Safety\"}\n\nnot json\n{\"id\":\"b\",\"title\":\"Privacy\"}\n", []string{"Safety", "Privacy"}},
		{"logfmt", "m.log", "id=a title=Safety units=3\nid=b title=\"First Aid\"\n", []string{"Safety", "First Aid"}},
		{"csv", "m.csv", "id,title,units\na,Safety,3\nb,Privacy,1\n", []string{"Safety", "Privacy"}},
		{"sniffed", "modules.txt", "id,title\na,Safety\nb,Privacy\n", []string{"Safety", "Privacy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Load(ctx, Options{Path: writeFile(t, tt.file, tt.body)})
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, titles(rows)); diff != "" {
				t.Fatalf("titles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadCSVTypesValues(t *testing.T) {
	rows, err := Load(context.Background(), Options{Kind: KindCSV, Path: writeFile(t, "x", "id,units,active\na,3,true\n")})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3.0, rows[0]["units"])
	assert.Equal(t, true, rows[0]["active"])
}

func TestLoadAssignsMissingIDs(t *testing.T) {
	rows, err := Load(context.Background(), Options{Path: writeFile(t, "m.json", `[{"title":"No id"},{"_id":"keep"}]`)})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	_, err = uuid.Parse(rows[0].ID())
	assert.NoError(t, err)
	assert.Equal(t, "keep", rows[1].ID())
	_, hasID := rows[1]["id"]
	assert.False(t, hasID)
}

func TestLoadStdin(t *testing.T) {
	rows, err := Load(context.Background(), Options{Path: "-", Stdin: strings.NewReader(`{"id":"s1","title":"Piped"}` + "\n")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Piped"}, titles(rows))
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()
	_, err := Load(ctx, Options{Kind: "yaml", Path: "x"})
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Load(ctx, Options{Path: writeFile(t, "notes.txt", "just some prose\nnothing tabular")})
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Load(ctx, Options{Kind: KindNDJSON})
	assert.ErrorIs(t, err, ErrNoInput)

	_, err = Load(ctx, Options{Path: writeFile(t, "bad.json", `[1,2]`)})
	assert.Error(t, err)

	_, err = Load(ctx, Options{Path: filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE modules (id TEXT PRIMARY KEY, title TEXT, units INTEGER, notes BLOB)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO modules VALUES ('m1','Safety',3,'x'), ('m2','Privacy',12,NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	ctx := context.Background()
	rows, err := Load(ctx, Options{Path: path, Query: "modules"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "m1", rows[0].ID())
	assert.Equal(t, 3.0, rows[0]["units"])
	assert.Nil(t, rows[1]["notes"])

	rows, err = Load(ctx, Options{Kind: KindSQLite, Path: path, Query: "SELECT title FROM modules WHERE units > 5"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Privacy"}, titles(rows))
	assert.NotEmpty(t, rows[0].ID())

	_, err = Load(ctx, Options{Path: path})
	assert.Error(t, err)
	_, err = Load(ctx, Options{Path: path, Query: "no_such_table"})
	assert.Error(t, err)
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/modules":
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"items":[{"id":"abc123","title":"Safety"}]}`))
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	rows, err := Load(ctx, Options{URL: srv.URL + "/api/modules"})
	require.NoError(t, err)
	assert.Equal(t, "abc123", rows[0].ID())

	_, err = Load(ctx, Options{URL: srv.URL + "/broken"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestDemoRowsDeterministic(t *testing.T) {
	a := DemoRows(5, 7)
	b := DemoRows(5, 7)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different rows:\n%s", diff)
	}
	assert.Len(t, DemoRows(0, 1), defaultDemoRows)
	for _, r := range a {
		assert.NotEmpty(t, r.ID())
		v, ok := r.Lookup("author.email")
		assert.True(t, ok)
		assert.Contains(t, v, "@example.edu")
	}

	rows, err := Load(context.Background(), Options{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"": KindAuto, "auto": KindAuto, "JSONL": KindNDJSON, "db": KindSQLite, "http": KindHTTP, "csv": KindCSV} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseKind("xml")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestResolveKind(t *testing.T) {
	assert.Equal(t, KindDemo, ResolveKind(Options{}))
	assert.Equal(t, KindHTTP, ResolveKind(Options{URL: "http://x"}))
	assert.Equal(t, KindSQLite, ResolveKind(Options{Path: "admin.sqlite3"}))
	assert.Equal(t, KindAuto, ResolveKind(Options{Path: "-"}))
	assert.Equal(t, KindCSV, ResolveKind(Options{Kind: KindCSV, Path: "x.json"}))
}
