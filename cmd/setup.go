package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/iterlife/expdash/internal/config"
	"github.com/iterlife/expdash/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runSetupForm()
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// runSetupForm asks for the server and display settings and saves them.
func runSetupForm() error {
	// Existing file or defaults, without environment overrides
	cfg, err := config.LoadFile(config.ConfigPath())
	if err != nil {
		return err
	}

	vals := tui.NewSetupValues(cfg)
	if err := tui.NewSetupForm(vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("\n  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}
	vals.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `expdash setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
