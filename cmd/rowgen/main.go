// Command rowgen writes generated learning-module rows for trying out
// admingrid: a fixed batch in any source format, or a paced ndjson/logfmt
// stream for --follow.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"admingrid/internal/columns"
	"admingrid/internal/export"
	"admingrid/internal/model"
	"admingrid/internal/source"
)

const (
	formatNDJSON = "ndjson"
	formatLogfmt = "logfmt"
	formatCSV    = "csv"
	formatJSON   = "json"
)

type genOptions struct {
	format   string
	count    int
	rate     float64
	duration time.Duration
	seed     int64
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		opt     genOptions
		outPath string
	)
	cmd := &cobra.Command{
		Use:          "rowgen",
		Short:        "Generate learning-module rows as ndjson, logfmt, csv or json",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" && outPath != "-" {
				f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			n, err := generate(ctx, w, opt)
			if outPath != "" && outPath != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", n, outPath)
			}
			return err
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opt.format, "format", formatNDJSON, "output format: ndjson|logfmt|csv|json")
	fs.IntVarP(&opt.count, "count", "n", 120, "rows to write; 0 with --rate streams until interrupted")
	fs.Float64Var(&opt.rate, "rate", 0, "rows per second; 0 writes the batch at once")
	fs.DurationVar(&opt.duration, "duration", 0, "stop streaming after this long (e.g. 30s)")
	fs.Int64Var(&opt.seed, "seed", 1, "generator seed")
	fs.StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

// generate writes rows to w and reports how many it wrote. Paced output
// stops at count, at the deadline, or when ctx is cancelled.
func generate(ctx context.Context, w io.Writer, opt genOptions) (int, error) {
	format := strings.ToLower(strings.TrimSpace(opt.format))
	switch format {
	case formatCSV, formatJSON:
		if opt.rate > 0 {
			return 0, fmt.Errorf("--rate needs a line format (ndjson or logfmt), not %s", format)
		}
		return writeBatch(w, format, opt)
	case formatNDJSON, formatLogfmt:
	default:
		return 0, fmt.Errorf("unsupported format: %s", opt.format)
	}
	if opt.rate <= 0 && opt.count <= 0 {
		return 0, errors.New("--count must be positive without --rate")
	}

	bw := bufio.NewWriter(w)
	defer bw.Flush()
	g := source.NewGenerator(opt.seed)
	if opt.rate <= 0 {
		for i := 0; i < opt.count; i++ {
			if err := writeLine(bw, format, g.Next()); err != nil {
				return i, err
			}
		}
		return opt.count, nil
	}

	if opt.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opt.duration)
		defer cancel()
	}
	interval := time.Duration(float64(time.Second) / opt.rate)
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	n := 0
	for opt.count <= 0 || n < opt.count {
		select {
		case <-ctx.Done():
			return n, nil
		case <-ticker.C:
		}
		if err := writeLine(bw, format, g.Next()); err != nil {
			return n, err
		}
		// Followers see each row as soon as it is written.
		if err := bw.Flush(); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func writeBatch(w io.Writer, format string, opt genOptions) (int, error) {
	if opt.count <= 0 {
		return 0, errors.New("--count must be positive")
	}
	rows := source.DemoRows(opt.count, opt.seed)
	f := export.FormatCSV
	if format == formatJSON {
		f = export.FormatJSON
	}
	cols, err := columns.Build(columns.Infer(model.Discover("rowgen", rows)))
	if err != nil {
		return 0, err
	}
	// Nested values stay as JSON text in CSV so they survive a reload.
	for i := range cols {
		cols[i].Cell = nil
	}
	return len(rows), export.View(w, f, cols, rows)
}

func writeLine(w *bufio.Writer, format string, rec model.Record) error {
	if format == formatLogfmt {
		_, err := w.WriteString(logfmtLine(rec) + "\n")
		return err
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// logfmtLine renders top-level fields in key order; nested values are
// written as quoted JSON.
func logfmtLine(rec model.Record) string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		v := model.Text(rec[k])
		b.WriteString(k)
		b.WriteByte('=')
		if strings.ContainsAny(v, " \t=\"") {
			v = `"` + strings.ReplaceAll(v, `"`, `'`) + `"`
		}
		b.WriteString(v)
	}
	return b.String()
}
