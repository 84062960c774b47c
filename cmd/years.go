package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iterlife/expdash/internal/cli"
	"github.com/iterlife/expdash/internal/dashboard"
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "Yearly spending totals",
	RunE:  runYears,
}

func init() {
	rootCmd.AddCommand(yearsCmd)
}

func runYears(cmd *cobra.Command, _ []string) error {
	s, err := openSession("cli", cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	progress("Fetching yearly stats...")
	years, err := s.client.FetchYearlyStats(cmd.Context())
	if err != nil {
		return sourceFailed(dashboard.SourceYears, err)
	}
	if len(years) == 0 {
		fmt.Println("\n  No expenses recorded yet.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("YEARLY SPENDING"))
	fmt.Println()

	rows := make([][]string, 0, len(years))
	for _, y := range years {
		rows = append(rows, []string{
			strconv.Itoa(y.Year),
			s.fmt.Currency(y.TotalAmount),
			s.fmt.Count(y.TransactionCount),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Year", "Total", "Transactions"},
		Rows:    rows,
	}))
	return nil
}
