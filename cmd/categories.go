package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iterlife/expdash/internal/cli"
	"github.com/iterlife/expdash/internal/dashboard"
)

var (
	flagStart string
	flagEnd   string
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Spending share per category",
	RunE:  runCategories,
}

func init() {
	categoriesCmd.Flags().StringVar(&flagStart, "start", "", "Start date (YYYY-MM-DD)")
	categoriesCmd.Flags().StringVar(&flagEnd, "end", "", "End date (YYYY-MM-DD)")
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, _ []string) error {
	if err := dashboard.ValidateDateRange(flagStart, flagEnd); err != nil {
		return err
	}

	s, err := openSession("cli", cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	progress("Fetching category analysis...")
	stats, err := s.client.FetchCategoryAnalysis(cmd.Context(), flagStart, flagEnd)
	if err != nil {
		return sourceFailed(dashboard.SourceCategories, err)
	}
	if len(stats) == 0 {
		fmt.Println("\n  No expenses in the selected range.")
		return nil
	}

	st := dashboard.NewState(s.fmt, time.Now())
	st.UpdateCategoryTable(s.fmt, stats)

	title := "CATEGORIES"
	if flagStart != "" || flagEnd != "" {
		title += fmt.Sprintf("  %s → %s", orAny(flagStart), orAny(flagEnd))
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()
	fmt.Print(categoryTable(st.CategoryTable))
	return nil
}

func orAny(s string) string {
	if s == "" {
		return "…"
	}
	return s
}
