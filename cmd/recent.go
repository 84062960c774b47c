package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iterlife/expdash/internal/cli"
	"github.com/iterlife/expdash/internal/dashboard"
)

var flagLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Most recent expenses",
	RunE:  runRecent,
}

func init() {
	recentCmd.Flags().IntVarP(&flagLimit, "limit", "l", 0, "Number of expenses (default from config)")
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, _ []string) error {
	s, err := openSession("cli", cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	limit := flagLimit
	if limit <= 0 {
		limit = s.cfg.Display.RecentLimit
	}

	progress("Fetching recent expenses...")
	expenses, err := s.client.FetchRecentExpenses(cmd.Context(), limit)
	if err != nil {
		return sourceFailed(dashboard.SourceRecent, err)
	}
	if len(expenses) == 0 {
		fmt.Println("\n  No expenses recorded yet.")
		return nil
	}

	st := dashboard.NewState(s.fmt, time.Now())
	st.UpdateRecentTable(s.fmt, expenses)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("RECENT EXPENSES  Last %d", len(expenses))))
	fmt.Println()
	fmt.Print(recentTable(st.RecentTable))
	return nil
}
