// Package source loads admin rows from files, stdin, SQLite, HTTP
// endpoints and a built-in demo generator.
package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"admingrid/internal/detect"
	"admingrid/internal/model"
)

type Kind string

const (
	KindAuto   Kind = ""
	KindJSON   Kind = "json"
	KindNDJSON Kind = "ndjson"
	KindLogfmt Kind = "logfmt"
	KindCSV    Kind = "csv"
	KindSQLite Kind = "sqlite"
	KindHTTP   Kind = "http"
	KindDemo   Kind = "demo"
)

var (
	ErrUnknownKind   = errors.New("source: unknown kind")
	ErrNotFollowable = errors.New("source: kind cannot be followed")
	ErrNoInput       = errors.New("source: no input")
)

type Options struct {
	Kind        Kind
	Path        string // file or database path; "-" reads stdin
	URL         string
	Query       string // sqlite: SELECT statement or table name
	ScanBufSize int    // per-line max (bytes)
	Limit       int    // demo rows; 0 = 120
	Seed        int64  // demo seed
	Interval    time.Duration
	Timeout     time.Duration
	Client      *http.Client
	Stdin       io.Reader
	Logger      *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) stdin() io.Reader {
	if o.Stdin == nil {
		return os.Stdin
	}
	return o.Stdin
}

func (o Options) scanBuf() int {
	if o.ScanBufSize <= 0 {
		return 1024 * 1024
	}
	return o.ScanBufSize
}

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "auto":
		return KindAuto, nil
	case "jsonl":
		return KindNDJSON, nil
	case "sqlite3", "db":
		return KindSQLite, nil
	case KindAuto, KindJSON, KindNDJSON, KindLogfmt, KindCSV, KindSQLite, KindHTTP, KindDemo:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// ResolveKind picks a kind from the options without reading any data:
// explicit kind first, then URL, then file extension. KindAuto is returned
// when the content has to be sniffed.
func ResolveKind(opt Options) Kind {
	if opt.Kind != KindAuto {
		return opt.Kind
	}
	if opt.URL != "" {
		return KindHTTP
	}
	switch strings.ToLower(filepath.Ext(opt.Path)) {
	case ".json":
		return KindJSON
	case ".ndjson", ".jsonl":
		return KindNDJSON
	case ".csv":
		return KindCSV
	case ".logfmt", ".log":
		return KindLogfmt
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	}
	if opt.Path == "" {
		return KindDemo
	}
	return KindAuto
}

// Load reads the whole source and returns its rows. Rows without an id
// are given a generated one.
func Load(ctx context.Context, opt Options) ([]model.Record, error) {
	log := opt.logger()
	kind := ResolveKind(opt)
	var (
		rows []model.Record
		err  error
	)
	switch kind {
	case KindSQLite:
		rows, err = loadSQLite(ctx, opt.Path, opt.Query)
	case KindHTTP:
		rows, err = loadHTTP(ctx, opt)
	case KindDemo:
		rows = DemoRows(opt.Limit, opt.Seed)
	case KindAuto, KindJSON, KindNDJSON, KindLogfmt, KindCSV:
		var data []byte
		data, err = readInput(opt)
		if err != nil {
			return nil, err
		}
		if kind == KindAuto {
			kind, err = sniff(data)
			if err != nil {
				return nil, err
			}
		}
		rows, err = decode(kind, data, opt.scanBuf(), log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, err
	}
	ensureIDs(rows)
	log.Info("source loaded", zap.String("kind", string(kind)), zap.Int("rows", len(rows)))
	return rows, nil
}

func readInput(opt Options) ([]byte, error) {
	if opt.Path == "-" {
		return io.ReadAll(opt.stdin())
	}
	if opt.Path == "" {
		return nil, ErrNoInput
	}
	return os.ReadFile(opt.Path)
}

func sniff(data []byte) (Kind, error) {
	var sample []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() && len(sample) < 20 {
		sample = append(sample, sc.Text())
	}
	g := detect.Format(sample)
	if g.Format == detect.FormatUnknown {
		return "", fmt.Errorf("%w: could not detect input format", ErrUnknownKind)
	}
	return Kind(g.Format), nil
}

func ensureIDs(rows []model.Record) {
	for _, r := range rows {
		ensureID(r)
	}
}

func ensureID(r model.Record) {
	if r != nil && r.ID() == "" {
		r["id"] = uuid.NewString()
	}
}
