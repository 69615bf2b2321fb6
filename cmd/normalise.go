package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/inflammation-cli/internal/models"
	"github.com/KaramelBytes/inflammation-cli/internal/parser"
	"github.com/KaramelBytes/inflammation-cli/internal/utils"
)

var normOutputPath string

var normaliseCmd = &cobra.Command{
	Use:     "normalise <file>",
	Aliases: []string{"normalize"},
	Short:   "Scale each patient's readings by their peak and emit observations JSON",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parser.ParseFile(args[0])
		if err != nil {
			return err
		}
		norm, err := models.PatientNormalise(t)
		if err != nil {
			return err
		}
		b, err := parser.EncodeJSON(norm)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if normOutputPath == "" {
			fmt.Fprintln(out, string(b))
			return nil
		}
		if err := utils.SafeWriteFile(normOutputPath, b); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		patients, days := norm.Shape()
		logger.Debug().Str("output", normOutputPath).Int("patients", patients).Int("days", days).Msg("normalised")
		fmt.Fprintf(out, "✓ Wrote normalised observations to %s\n", normOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(normaliseCmd)
	normaliseCmd.Flags().StringVarP(&normOutputPath, "output", "o", "", "optional path to write the normalised observations (JSON)")
}
