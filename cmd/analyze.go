package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/inflammation-cli/internal/analysis"
	"github.com/KaramelBytes/inflammation-cli/internal/parser"
	"github.com/KaramelBytes/inflammation-cli/internal/utils"
)

var (
	anaOutputPath string
	anaFormat     string
	anaNormalise  bool
	anaPrecision  int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Compute daily statistics for an observation file (JSON or CSV)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, format, err := reportSettings(cmd, anaFormat, anaNormalise, anaPrecision)
		if err != nil {
			return err
		}
		t, err := parser.ParseFile(path)
		if err != nil {
			return err
		}
		patients, days := t.Shape()
		logger.Debug().Str("path", path).Int("patients", patients).Int("days", days).Msg("loaded observations")

		rep, err := analysis.Analyze(filepath.Base(path), t, opt)
		if err != nil {
			return err
		}
		body, err := render(rep, format)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, []byte(body)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(out, body)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "", "report format: markdown | json (default from config)")
	analyzeCmd.Flags().BoolVar(&anaNormalise, "normalise", false, "include the per-patient normalised table")
	analyzeCmd.Flags().IntVar(&anaPrecision, "precision", 3, "decimal places in Markdown reports")
}
