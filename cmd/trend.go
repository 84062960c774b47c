package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iterlife/expdash/internal/dashboard"
)

var (
	flagCategory string
	flagDays     int
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Print the raw trend payload for a category",
	RunE:  runTrend,
}

func init() {
	trendCmd.Flags().StringVarP(&flagCategory, "category", "c", "", "Category (empty = all)")
	trendCmd.Flags().IntVarP(&flagDays, "days", "d", 0, "Window in days (default from config)")
	rootCmd.AddCommand(trendCmd)
}

func runTrend(cmd *cobra.Command, _ []string) error {
	s, err := openSession("cli", cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	days := flagDays
	if days <= 0 {
		days = s.cfg.Display.TrendDays
	}

	progress("Fetching trend data...")
	tp, err := s.client.FetchTrendData(cmd.Context(), flagCategory, days)
	if err != nil {
		return sourceFailed(dashboard.SourceTrend, err)
	}

	// Trend output is for piping, so it goes to stdout as plain JSON.
	var buf bytes.Buffer
	if err := json.Indent(&buf, tp.Raw, "", "  "); err != nil {
		buf.Reset()
		buf.Write(tp.Raw)
	}
	fmt.Fprintln(cmd.OutOrStdout(), buf.String())
	return nil
}
