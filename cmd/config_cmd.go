// Package cmd implements the expdash CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iterlife/expdash/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Base URL:       %s\n", cfg.Server.BaseURL)
	fmt.Printf("    Timeout:        %ds\n", cfg.Server.TimeoutSec)
	fmt.Printf("    Max export:     %d MB\n", cfg.Server.MaxExportMB)
	fmt.Println()

	fmt.Println("  [Display]")
	fmt.Printf("    Currency:       %s\n", cfg.Display.CurrencySymbol)
	fmt.Printf("    Locale:         %s\n", cfg.Display.Locale)
	fmt.Printf("    Date layout:    %s\n", cfg.Display.DateLayout)
	fmt.Printf("    Recent limit:   %d\n", cfg.Display.RecentLimit)
	fmt.Printf("    Trend window:   %d days\n", cfg.Display.TrendDays)
	fmt.Println()

	fmt.Println("  [Export]")
	fmt.Printf("    Directory:      %s\n", cfg.Export.Dir)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:          %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto-refresh:   %v (every %ds)\n", cfg.TUI.AutoRefresh, cfg.TUI.RefreshIntervalSec)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:          %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Printf("    File:           %s\n", cfg.Log.File)
	}
	fmt.Println()

	fmt.Println("  Run `expdash setup` to reconfigure.")
	return nil
}
