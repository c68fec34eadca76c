package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"admingrid/internal/columns"
	"admingrid/internal/config"
	"admingrid/internal/export"
	"admingrid/internal/filter"
	"admingrid/internal/grid"
	"admingrid/internal/model"
	"admingrid/internal/source"
	"admingrid/internal/ui"
	"admingrid/internal/util/logx"
	"admingrid/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:          version.Name + " [file]",
		Short:        "Browse records in a filterable, sortable, paginated terminal table",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			if len(args) == 1 && !fs.Changed("file") {
				if err := fs.Set("file", args[0]); err != nil {
					return err
				}
			}
			logx.SetLevelFromEnv()
			cfg, err := config.Load(v, fs)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if cfg.ShowVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.Name, version.String())
				return nil
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			opts, err := screenOptions(cfg, fs.Changed)
			if err != nil {
				return err
			}
			if cfg.ExportFormat != "" {
				return runExport(ctx, cfg, opts, cmd.OutOrStdout())
			}
			logx.Infof("starting %s %s: %s", version.Name, version.String(), cfg.String())
			if err := ui.Run(ctx, cfg, opts); err != nil {
				logx.Errorf("%s exited with error: %v", version.Name, err)
				return err
			}
			return nil
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

// screenOptions applies the column descriptor file, if any. Descriptor
// paging and route settings fill in whatever the command line left unset.
func screenOptions(cfg *config.Config, changed func(string) bool) (ui.Options, error) {
	var opts ui.Options
	if cfg.ColumnsFile == "" {
		opts.Route = cfg.Route
		return opts, nil
	}
	f, err := columns.Load(cfg.ColumnsFile)
	if err != nil {
		return opts, err
	}
	if opts.Columns, err = columns.Build(f.Columns); err != nil {
		return opts, fmt.Errorf("%s: %w", cfg.ColumnsFile, err)
	}
	opts.Title = f.Title
	opts.Route = cfg.Route
	if opts.Route == "" {
		opts.Route = f.Route
	}
	if len(f.PageSizes) > 0 && !changed("page-sizes") {
		cfg.PageSizes = f.PageSizes
	}
	if f.PageSize > 0 && !changed("page-size") {
		cfg.PageSize = f.PageSize
	}
	return opts, nil
}

// runExport loads the source, applies the filter and sort, and writes the
// whole derived view without starting the terminal UI.
func runExport(ctx context.Context, cfg *config.Config, opts ui.Options, stdout io.Writer) error {
	opt := cfg.SourceOptions()
	opt.Logger = logx.Logger()
	rows, err := source.Load(ctx, opt)
	if err != nil {
		return err
	}
	cols := opts.Columns
	if cols == nil {
		if cols, err = columns.Build(columns.Infer(model.Discover(string(cfg.Source), rows))); err != nil {
			return err
		}
	}
	t, err := grid.New(cols, grid.Options[model.Record]{
		PageSizes: cfg.PageSizes,
		PageSize:  cfg.PageSize,
		Filter:    filter.Policy{Mode: cfg.FilterMode, CaseSensitive: cfg.CaseSensitive},
		RowID:     model.Record.ID,
		Logger:    logx.Logger(),
	})
	if err != nil {
		return err
	}
	t.SetData(rows)
	if err := t.SetFilter(cfg.Filter); err != nil {
		return err
	}
	st, err := grid.ParseSort(cfg.Sort)
	if err != nil {
		return err
	}
	if err := t.SetSort(st); err != nil {
		return err
	}

	if cfg.ExportOut == "-" {
		return export.View(stdout, cfg.ExportFormat, t.Columns(), t.Rows())
	}
	if err := export.ToFile(cfg.ExportOut, cfg.ExportFormat, t.Columns(), t.Rows()); err != nil {
		return err
	}
	logx.Infof("exported %d rows to %s", len(t.Rows()), cfg.ExportOut)
	return nil
}
