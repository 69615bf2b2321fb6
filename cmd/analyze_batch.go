package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/inflammation-cli/internal/analysis"
	"github.com/KaramelBytes/inflammation-cli/internal/parser"
	"github.com/KaramelBytes/inflammation-cli/internal/utils"
)

var (
	abOutDir    string
	abFormat    string
	abNormalise bool
	abPrecision int
	abQuiet     bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple observation files with progress and optional output directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		opt, format, err := reportSettings(cmd, abFormat, abNormalise, abPrecision)
		if err != nil {
			return err
		}
		outDir := abOutDir
		if outDir == "" && cfg != nil {
			outDir = cfg.OutDir
		}
		if outDir != "" {
			if err := utils.EnsureDir(outDir); err != nil {
				return fmt.Errorf("create out dir: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			t, err := parser.ParseFile(path)
			if err != nil {
				return err
			}
			rep, err := analysis.Analyze(filepath.Base(path), t, opt)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			logger.Debug().Str("path", path).Str("report", rep.ID).Int("patients", rep.Patients).Int("days", rep.Days).Msg("analyzed")
			body, err := render(rep, format)
			if err != nil {
				return err
			}

			if outDir == "" {
				if !abQuiet {
					fmt.Fprintln(out, body)
				}
				continue
			}
			base := utils.BaseName(path)
			outFile, err := utils.UniquePath(outDir, base, reportExt(format))
			if err != nil {
				return err
			}
			if filepath.Base(outFile) != base+reportExt(format) && !abQuiet {
				fmt.Fprintf(out, "⚠ Detected existing summary, writing to %s to avoid overwrite.\n", filepath.Base(outFile))
			}
			if err := utils.SafeWriteFile(outFile, []byte(body)); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			if !abQuiet {
				fmt.Fprintf(out, "✓ Wrote %s\n", outFile)
			}
		}
		return nil
	},
}

// expandInputs resolves glob patterns and literal paths into a sorted, de-duplicated list
// of files that a parser can handle.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			if !parser.Supported(m) {
				logger.Warn().Str("path", m).Msg("skipping unsupported file")
				continue
			}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory for per-file summaries (default from config; stdout if empty)")
	analyzeBatchCmd.Flags().StringVar(&abFormat, "format", "", "report format: markdown | json (default from config)")
	analyzeBatchCmd.Flags().BoolVar(&abNormalise, "normalise", false, "include the per-patient normalised table")
	analyzeBatchCmd.Flags().IntVar(&abPrecision, "precision", 3, "decimal places in Markdown reports")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
