package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iterlife/expdash/internal/api"
)

var flagExportDir string

var exportCmd = &cobra.Command{
	Use:   "export <type> <format>",
	Short: "Download an export file",
	Long: fmt.Sprintf("Download an export from the server and save it.\n\nTypes: %s\nFormats: %s",
		strings.Join(api.ExportTypes, ", "), strings.Join(api.ExportFormats, ", ")),
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportDir, "dir", "o", "", "Output directory (default from config)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	dataType, format := args[0], args[1]
	if err := api.ValidateExport(dataType, format); err != nil {
		return err
	}

	s, err := openSession("cli", cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	dir := flagExportDir
	if dir == "" {
		dir = s.cfg.Export.Dir
	}

	progress("Downloading %s export as %s...", dataType, format)
	saved, err := s.ctrl.Export(cmd.Context(), dataType, format, dir)
	if err != nil {
		// Already a "Failed to export data" SourceError.
		return err
	}

	fmt.Printf("  Saved %s (%s)\n", saved.Path, saved.HumanSize())
	return nil
}
