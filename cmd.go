package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"taskman/internal/config"
	"taskman/internal/export"
	"taskman/internal/logutil"
	"taskman/internal/process"
)

// flagValues holds command-line overrides for config.Config
type flagValues struct {
	configPath  string
	refresh     time.Duration
	autoRefresh bool
	sort        string
	descending  bool
	exportDir   string
	logFile     string
	logFormat   string
	debug       bool
	notify      bool
}

// bindFlags registers the persistent flags shared by every command
func bindFlags(fs *pflag.FlagSet, f *flagValues) {
	def := config.Default()
	fs.StringVar(&f.configPath, "config", config.DefaultPath(), "path to the YAML config file")
	fs.DurationVar(&f.refresh, "refresh", def.RefreshInterval, "auto-refresh period")
	fs.BoolVar(&f.autoRefresh, "auto-refresh", def.AutoRefresh, "start with auto-refresh enabled")
	fs.StringVar(&f.sort, "sort", def.Sort, "sort key: pid, name, status, cpu, memory, description")
	fs.BoolVar(&f.descending, "desc", def.Descending, "sort descending")
	fs.StringVar(&f.exportDir, "export-dir", "", "directory for relative export paths")
	fs.StringVar(&f.logFile, "log-file", "", "write logs to this file")
	fs.StringVar(&f.logFormat, "log-format", def.LogFormat, "log format: text or json")
	fs.BoolVar(&f.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&f.notify, "notify", false, "show a desktop notification when a process cannot be stopped")
}

// applyFlags overlays flags the user actually set on top of cfg
func applyFlags(fs *pflag.FlagSet, f *flagValues, cfg *config.Config) error {
	if fs.Changed("refresh") {
		cfg.RefreshInterval = f.refresh
	}
	if fs.Changed("auto-refresh") {
		cfg.AutoRefresh = f.autoRefresh
	}
	if fs.Changed("sort") {
		cfg.Sort = f.sort
	}
	if fs.Changed("desc") {
		cfg.Descending = f.descending
	}
	if fs.Changed("export-dir") {
		cfg.ExportDir = f.exportDir
	}
	if fs.Changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if fs.Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if fs.Changed("debug") {
		cfg.Debug = f.debug
	}
	if fs.Changed("notify") {
		cfg.Notify = f.notify
	}
	return cfg.Validate()
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command, f *flagValues) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	if err := applyFlags(cmd.Flags(), f, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// setupLogging points the global logger at the configured file. The returned
// closer must be called on exit.
func setupLogging(cfg config.Config) (io.Closer, error) {
	format, err := logutil.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	if cfg.LogFile == "" {
		logutil.Setup(io.Discard, cfg.Debug, format)
		return nopCloser{}, nil
	}
	f, err := logutil.OpenFile(cfg.LogFile)
	if err != nil {
		return nil, err
	}
	logutil.Setup(f, cfg.Debug, format)
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newReporter builds the event fan-out for a session
func newReporter(cfg config.Config, extra ...process.Reporter) process.Reporter {
	reporters := process.MultiReporter{process.LogReporter{Logger: logutil.NewLogger("events")}}
	if cfg.Notify {
		reporters = append(reporters, process.NotifyReporter{Title: "taskman"})
	}
	return append(reporters, extra...)
}

func newRootCmd() *cobra.Command {
	f := &flagValues{}

	cmd := &cobra.Command{
		Use:   "taskman",
		Short: "Interactive terminal process manager",
		Long: `taskman lists running processes and lets you search, sort, select,
terminate, kill, copy, and export them, with optional auto-refresh.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			reload, stop := watchConfig(cmd, f)
			defer stop()
			return runTUI(cmd.Context(), cfg, reload)
		},
	}
	bindFlags(cmd.PersistentFlags(), f)

	cmd.AddCommand(newListCmd(f), newKillCmd(f), newVersionCmd())
	return cmd
}

// watchConfig returns a function that blocks until the config file changes
// and yields the new settings with flag overrides reapplied. It returns a nil
// function when the file cannot be watched.
func watchConfig(cmd *cobra.Command, f *flagValues) (func(context.Context) (config.Config, error), func()) {
	if f.configPath == "" {
		return nil, func() {}
	}
	w, err := config.Watch(f.configPath)
	if err != nil {
		logutil.NewLogger("config").Debug("config reload disabled", "error", err)
		return nil, func() {}
	}
	reload := func(ctx context.Context) (config.Config, error) {
		cfg, err := w.Next(ctx)
		if err != nil {
			return cfg, err
		}
		return cfg, applyFlags(cmd.Flags(), f, &cfg)
	}
	return reload, func() { w.Close() }
}

// runTUI starts the interactive interface
func runTUI(ctx context.Context, cfg config.Config, reload func(context.Context) (config.Config, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the interactive interface needs a terminal; use 'taskman list' instead")
	}

	closer, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	events := process.NewSubscription(MaxEventLog)
	reporter := newReporter(cfg, events)

	m := NewModel(ctx, Options{
		Provider:      process.NewSystemProvider(),
		Dispatcher:    process.NewDispatcher(process.SystemController{}, reporter),
		Clipboard:     export.NewOSC52Clipboard(),
		Events:        events,
		Hostname:      process.Hostname(ctx),
		RefreshPeriod: cfg.RefreshInterval,
		AutoRefresh:   cfg.AutoRefresh,
		SortKey:       cfg.SortKey(),
		Descending:    cfg.Descending,
		ExportDir:     cfg.ResolvedExportDir(),
		Reload:        reload,
	})

	logutil.NewLogger("tui").Info("starting", "version", version)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func newListCmd(f *flagValues) *cobra.Command {
	var (
		format string
		filter string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one process snapshot and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			closer, err := setupLogging(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			q, err := process.ParseQuery(filter)
			if err != nil {
				return err
			}
			snap, err := process.NewSystemProvider().Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			cache := process.NewCache()
			cache.SetOrder(cfg.SortKey(), !cfg.Descending)
			cache.Replace(snap)
			rows := export.Rows(cache.View(q))

			out := cmd.OutOrStdout()
			switch format {
			case "csv":
				return export.WriteCSV(out, rows)
			case "table", "":
				_, err := fmt.Fprintln(out, renderTable(rows, isTerminal(out)))
				return err
			}
			return fmt.Errorf("unknown format %q (want table or csv)", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "table", "output format: table or csv")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "name substring, PID, or comma-separated PIDs")
	return cmd
}

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// renderTable lays rows out under the visible column labels. Styling is only
// applied when writing to a terminal.
func renderTable(rows [][]string, styled bool) string {
	t := table.New().
		Headers(export.Columns...).
		Rows(rows...)

	if !styled {
		return t.Border(lipgloss.HiddenBorder()).String()
	}

	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		t = t.Width(width)
	}
	return t.
		Border(lipgloss.NormalBorder()).
		BorderStyle(headerStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if row >= 0 && row < len(rows) && rows[row][2] == string(process.StatusStopped) {
				return stoppedStyle.Padding(0, 1)
			}
			return normalStyle.Padding(0, 1)
		}).
		String()
}

func newKillCmd(f *flagValues) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "kill PID...",
		Short: "Terminate processes by PID",
		Long:  "Ask each process to exit, or kill it outright with --force. Every PID is attempted even when earlier ones fail.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			closer, err := setupLogging(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			targets, err := parsePIDArgs(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printer := process.ReporterFunc(func(e process.Event) {
				fmt.Fprintln(out, e.String())
			})
			d := process.NewDispatcher(process.SystemController{}, newReporter(cfg, printer))

			var res process.BatchResult
			if force {
				res = d.Kill(cmd.Context(), targets)
			} else {
				res = d.Terminate(cmd.Context(), targets)
			}
			if len(res.Failed) > 0 {
				return errors.New(res.Summary())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "kill instead of asking the process to exit")
	return cmd
}

// parsePIDArgs converts command arguments to PIDs
func parsePIDArgs(args []string) ([]int32, error) {
	out := make([]int32, 0, len(args))
	for _, a := range args {
		n, err := strconv.ParseInt(a, 10, 32)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid PID %q", a)
		}
		out = append(out, int32(n))
	}
	return out, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "taskman", version)
		},
	}
}
