package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"admingrid/internal/export"
	"admingrid/internal/filter"
	"admingrid/internal/grid"
	"admingrid/internal/source"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

const EnvPrefix = "ADMINGRID"

// Flag and config-file keys.
const (
	keyConfig        = "config"
	keySource        = "source"
	keyFile          = "file"
	keyURL           = "url"
	keyQuery         = "query"
	keyFollow        = "follow"
	keyMaxRows       = "max-rows"
	keyColumns       = "columns"
	keyRoute         = "route"
	keyPageSize      = "page-size"
	keyPageSizes     = "page-sizes"
	keyFilter        = "filter"
	keySort          = "sort"
	keyFilterMode    = "filter-mode"
	keyCaseSensitive = "case-sensitive"
	keyTheme         = "theme"
	keyDemoRows      = "demo-rows"
	keySeed          = "seed"
	keyExport        = "export"
	keyOut           = "out"
	keyVersion       = "version"
)

type Config struct {
	Source        source.Kind
	FilePath      string
	URL           string
	Query         string
	Follow        bool
	MaxRows       int
	ColumnsFile   string
	Route         string
	PageSize      int
	PageSizes     []int
	Filter        string
	Sort          string
	FilterMode    filter.Mode
	CaseSensitive bool
	Theme         Theme
	DemoRows      int
	Seed          int64
	ExportFormat  export.Format
	ExportOut     string
	ShowVersion   bool
	ConfigFile    string

	// Internal
	IsPipedStdin bool
}

// stdinPiped reports whether stdin is a pipe rather than a terminal.
var stdinPiped = func() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) == 0
}

// RegisterFlags defines every setting on fs. Values resolve through Load as
// flag > ADMINGRID_* env > config file > default.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(keyConfig, "", "YAML config file")
	fs.String(keySource, "auto", "source kind: auto|json|ndjson|logfmt|csv|sqlite|http|demo")
	fs.StringP(keyFile, "f", "", "data file, sqlite database, or - for stdin")
	fs.String(keyURL, "", "HTTP endpoint returning a JSON array")
	fs.String(keyQuery, "", "sqlite table name or SELECT statement")
	fs.Bool(keyFollow, false, "follow an ndjson/logfmt file (tail -f) or stream demo rows")
	fs.Int(keyMaxRows, 50000, "rows kept in memory while following (min 100)")
	fs.StringP(keyColumns, "c", "", "column descriptor YAML file")
	fs.StringP(keyRoute, "r", "", "base route for row click-through, e.g. /admin/learn/modules")
	fs.Int(keyPageSize, grid.DefaultPageSize, "initial page size")
	fs.IntSlice(keyPageSizes, grid.DefaultPageSizes, "page size choices")
	fs.String(keyFilter, "", "initial filter query")
	fs.String(keySort, "", "initial sort: column[:asc|desc]")
	fs.String(keyFilterMode, filter.ModeSubstring.String(), "filter mode: substring|token|regex|expr")
	fs.Bool(keyCaseSensitive, false, "case-sensitive filtering")
	fs.String(keyTheme, string(ThemeDark), "theme: dark|light")
	fs.Int(keyDemoRows, 120, "rows generated by the demo source")
	fs.Int64(keySeed, 1, "demo generator seed")
	fs.String(keyExport, "", "export the filtered view and exit: csv|ndjson|json")
	fs.StringP(keyOut, "o", "", "output path for export (- for stdout)")
	fs.BoolP(keyVersion, "v", false, "print version and exit")
}

// Load resolves the settings registered on fs.
func Load(v *viper.Viper, fs *pflag.FlagSet) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		FilePath:      v.GetString(keyFile),
		URL:           v.GetString(keyURL),
		Query:         v.GetString(keyQuery),
		Follow:        v.GetBool(keyFollow),
		MaxRows:       v.GetInt(keyMaxRows),
		ColumnsFile:   v.GetString(keyColumns),
		Route:         v.GetString(keyRoute),
		PageSize:      v.GetInt(keyPageSize),
		Filter:        v.GetString(keyFilter),
		Sort:          v.GetString(keySort),
		CaseSensitive: v.GetBool(keyCaseSensitive),
		Theme:         Theme(strings.ToLower(v.GetString(keyTheme))),
		DemoRows:      v.GetInt(keyDemoRows),
		Seed:          v.GetInt64(keySeed),
		ExportOut:     v.GetString(keyOut),
		ShowVersion:   v.GetBool(keyVersion),
		ConfigFile:    v.ConfigFileUsed(),
		IsPipedStdin:  stdinPiped(),
	}
	var err error
	if cfg.Source, err = source.ParseKind(v.GetString(keySource)); err != nil {
		return nil, err
	}
	if cfg.FilterMode, err = filter.ParseMode(v.GetString(keyFilterMode)); err != nil {
		return nil, err
	}
	if cfg.PageSizes, err = ints(v.Get(keyPageSizes)); err != nil {
		return nil, fmt.Errorf("%s: %w", keyPageSizes, err)
	}
	if f := v.GetString(keyExport); f != "" {
		if cfg.ExportFormat, err = export.ParseFormat(f); err != nil {
			return nil, err
		}
	}
	if cfg.ShowVersion {
		return cfg, nil
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Piped input wins when no other input was named.
	if cfg.FilePath == "" && cfg.URL == "" && cfg.IsPipedStdin && cfg.Source != source.KindDemo {
		cfg.FilePath = "-"
	}
	if cfg.MaxRows < 100 {
		cfg.MaxRows = 100
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ExportFormat != "" && c.ExportOut == "" {
		return errors.New("--export requires --out path")
	}
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	if len(c.PageSizes) == 0 {
		c.PageSizes = slices.Clone(grid.DefaultPageSizes)
	}
	if !slices.Contains(c.PageSizes, c.PageSize) {
		return fmt.Errorf("%w: %d not in %v", grid.ErrPageSize, c.PageSize, c.PageSizes)
	}
	if c.Follow && c.ExportFormat != "" {
		return errors.New("--follow cannot be combined with --export")
	}
	if c.Source == source.KindSQLite && c.Query == "" {
		return errors.New("--source sqlite requires --query")
	}
	return nil
}

// SourceOptions maps the input settings onto source options.
func (c *Config) SourceOptions() source.Options {
	return source.Options{
		Kind:  c.Source,
		Path:  c.FilePath,
		URL:   c.URL,
		Query: c.Query,
		Limit: c.DemoRows,
		Seed:  c.Seed,
	}
}

// ints reads an int list from a flag slice, a YAML list, or a
// comma-separated env value.
func ints(v any) ([]int, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []int:
		return slices.Clone(t), nil
	case []any:
		out := make([]int, 0, len(t))
		for _, e := range t {
			n, err := strconv.Atoi(strings.TrimSpace(fmt.Sprint(e)))
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	case string:
		s := strings.Trim(strings.TrimSpace(t), "[]")
		if s == "" {
			return nil, nil
		}
		var out []int
		for _, p := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
			n, err := strconv.Atoi(p)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value %v", v)
}

func (c *Config) String() string {
	in := c.FilePath
	if c.URL != "" {
		in = c.URL
	}
	return fmt.Sprintf("source=%s input=%s follow=%v columns=%s route=%s page=%d/%v filter=%s theme=%s",
		c.Source, in, c.Follow, c.ColumnsFile, c.Route, c.PageSize, c.PageSizes, c.FilterMode, c.Theme)
}
