package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iterlife/expdash/internal/cli"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the expense server is up",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	s, err := openSession("cli", cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	ts, err := s.client.Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("server %s is not healthy: %w", s.client.BaseURL(), err)
	}

	fmt.Printf("  %s %s\n", cli.RenderBadge("healthy", cli.ToneInfo), s.client.BaseURL())
	if ts != "" {
		fmt.Println(cli.RenderMuted("  server time " + ts))
	}
	return nil
}
