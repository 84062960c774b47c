package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/iterlife/expdash/internal/api"
	"github.com/iterlife/expdash/internal/cli"
	"github.com/iterlife/expdash/internal/config"
	"github.com/iterlife/expdash/internal/dashboard"
	"github.com/iterlife/expdash/internal/logging"
)

var (
	flagServer  string
	flagQuiet   bool
	flagVerbose bool
)

// errReported marks a failure whose details were already printed.
var errReported = errors.New("one or more requests failed")

var rootCmd = &cobra.Command{
	Use:           "expdash",
	Short:         "Expense statistics dashboard",
	Long:          "Browse monthly, category and recent spending from an expense-tracking server.",
	RunE:          runSummary,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, cli.RenderError(err.Error()))
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagServer, "server", "s", "", "Expense server base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log requests to stderr")
}

// session bundles what every data command needs.
type session struct {
	cfg    config.Config
	log    *slog.Logger
	client *api.Client
	ctrl   *dashboard.Controller
	fmt    *cli.Formatter

	logCloser io.Closer
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagServer != "" {
		cfg.Server.BaseURL = flagServer
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openSession is the shared setup path used by all data commands.
// logWriter receives log output when the config names no log file.
func openSession(component string, logWriter io.Writer) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	switch {
	case flagVerbose:
		level = slog.LevelDebug
	case flagQuiet:
		level = slog.LevelError
	}
	logger, closer, err := logging.New(logging.Options{
		Level:     level,
		Component: component,
		File:      cfg.Log.File,
		Writer:    logWriter,
	})
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(cfg.Server.BaseURL,
		api.WithTimeout(time.Duration(cfg.Server.TimeoutSec)*time.Second),
		api.WithMaxExportSize(int64(cfg.Server.MaxExportMB)<<20),
		api.WithLogger(logger),
	)
	if err != nil {
		closer.Close()
		return nil, err
	}

	f := cli.NewFormatter(cfg.Display.CurrencySymbol, cfg.Display.Locale, cfg.Display.DateLayout)
	ctrl := dashboard.New(client, dashboard.Options{
		Formatter:   f,
		RecentLimit: cfg.Display.RecentLimit,
		TrendDays:   cfg.Display.TrendDays,
		Logger:      logger,
	})

	return &session{
		cfg:       cfg,
		log:       logger,
		client:    client,
		ctrl:      ctrl,
		fmt:       f,
		logCloser: closer,
	}, nil
}

func (s *session) Close() {
	s.ctrl.Close()
	s.logCloser.Close()
}

// progress prints a status line to stderr unless --quiet.
func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
}

// reportErrors prints notified failures to stderr. It returns errReported
// when a primary source failed so the process exits non-zero.
func reportErrors(r *dashboard.Report) error {
	for _, msg := range r.Notify() {
		fmt.Fprintln(os.Stderr, cli.RenderError(msg))
	}
	if r.Failed() {
		return errReported
	}
	return nil
}

// sourceFailed prints a single-source failure and returns errReported.
func sourceFailed(src dashboard.Source, err error) error {
	fmt.Fprintln(os.Stderr, cli.RenderError((&dashboard.SourceError{Source: src, Err: err}).Error()))
	return errReported
}
