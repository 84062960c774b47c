package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/iterlife/expdash/internal/cli"
	"github.com/iterlife/expdash/internal/dashboard"
)

var flagYear int

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Monthly spending totals",
	RunE:  runMonthly,
}

func init() {
	monthlyCmd.Flags().IntVarP(&flagYear, "year", "y", 0, "Limit to one year (0 = all years)")
	rootCmd.AddCommand(monthlyCmd)
}

func runMonthly(cmd *cobra.Command, _ []string) error {
	s, err := openSession("cli", cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	progress("Fetching monthly stats...")
	stats, err := s.client.FetchMonthlyStats(cmd.Context(), flagYear)
	if err != nil {
		return sourceFailed(dashboard.SourceMonthly, err)
	}
	if len(stats) == 0 {
		fmt.Println("\n  No expenses recorded for this period.")
		return nil
	}

	st := dashboard.NewState(s.fmt, time.Now())
	st.UpdateStatsCards(s.fmt, stats, time.Now())

	title := "MONTHLY SPENDING  All years"
	if flagYear > 0 {
		title = "MONTHLY SPENDING  " + strconv.Itoa(flagYear)
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	rows := make([][]string, 0, len(stats)+4)
	for _, m := range stats {
		rows = append(rows, []string{m.Month, s.fmt.Currency(m.TotalAmount), s.fmt.Count(m.TransactionCount)})
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"This month", st.Cards.CurrentMonthTotal, ""},
		[]string{"Average", st.Cards.AvgMonthly, st.Cards.TotalTransactions},
	)

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Total", "Transactions"},
		Rows:    rows,
	}))
	return nil
}
