package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iterlife/expdash/internal/cli"
	"github.com/iterlife/expdash/internal/dashboard"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Stat cards, monthly totals, categories and recent expenses",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	s, err := openSession("cli", cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	progress("Fetching statistics from %s...", s.client.BaseURL())
	report := s.ctrl.LoadAll(cmd.Context())
	s.log.Info("summary loaded", "duration", report.Duration(), "errors", len(report.Errors))
	st := s.ctrl.Snapshot()

	fmt.Println()
	fmt.Println(cli.RenderTitle("EXPENSES  " + st.CurrentDate))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"This month", st.Cards.CurrentMonthTotal},
			{"Monthly average", st.Cards.AvgMonthly},
			{"Transactions", st.Cards.TotalTransactions},
			{"---"},
			{"Statistics year", strconv.Itoa(st.StatsYear)},
			{"Years on record", strconv.Itoa(len(st.YearSelect.Options) - 1)},
		},
	}))

	if !st.Monthly.Empty() {
		fmt.Println()
		fmt.Print(monthlyChartTable(s.fmt, st.Monthly))
	}
	if len(st.CategoryTable) > 0 {
		fmt.Println()
		fmt.Print(categoryTable(st.CategoryTable))
	}
	if len(st.RecentTable) > 0 {
		fmt.Println()
		fmt.Print(recentTable(st.RecentTable))
	}

	fmt.Println()
	fmt.Println(cli.RenderMuted("  Loaded in " + cli.FormatDuration(report.Duration())))
	return reportErrors(report)
}

func monthlyChartTable(f *cli.Formatter, c *dashboard.Chart) string {
	rows := make([][]string, 0, len(c.Labels))
	for i, label := range c.Labels {
		rows = append(rows, []string{label, f.CurrencyFloat(c.Values()[i])})
	}
	return cli.RenderTable(cli.Table{
		Title:   c.Title,
		Headers: []string{"Month", "Total"},
		Rows:    rows,
	})
}

func categoryTable(rows []dashboard.CategoryRow) string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			cli.RenderBadge(r.Category, cli.TonePrimary),
			r.Total,
			cli.RenderPercentBar(r.Percent, 20) + " " + r.BarWidth,
			r.Count,
		})
	}
	return cli.RenderTable(cli.Table{
		Title:   "Category analysis",
		Headers: []string{"Category", "Total", "Share", "Count"},
		Rows:    out,
	})
}

func recentTable(rows []dashboard.RecentRow) string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Date,
			cli.RenderBadge(r.Category, cli.ToneInfo),
			r.Amount,
			r.Description,
		})
	}
	return cli.RenderTable(cli.Table{
		Title:   "Recent expenses",
		Headers: []string{"Date", "Category", "Amount", "Description"},
		Rows:    out,
	})
}
