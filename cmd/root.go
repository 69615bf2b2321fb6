package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/inflammation-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/inflammation-cli/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration; nil when loading failed.
	cfg *cfgpkg.Global

	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "inflammation",
	Short: "Inflammation CLI: daily statistics and normalisation for patient observation data",
	Long: `Inflammation loads per-patient observation files (JSON or CSV), computes daily mean, max,
min and standard deviation across patients, and normalises each patient's readings against
their peak value.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogger, loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.inflammation/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func initLogger() {
	lvl := zerolog.WarnLevel
	if debug {
		lvl = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		logger.Warn().Err(err).Msg("failed to load config")
		cfg = nil
		return
	}
	cfg = c
	logger.Debug().Str("format", cfg.OutputFormat).Int("precision", cfg.Precision).Bool("normalise", cfg.Normalise).Msg("config loaded")
}

// reportSettings resolves report options and output format from flags, falling back to config.
func reportSettings(cmd *cobra.Command, format string, normalise bool, precision int) (analysis.Options, string, error) {
	opt := analysis.DefaultOptions()
	outFormat := cfgpkg.FormatMarkdown
	if cfg != nil {
		opt.Normalise = cfg.Normalise
		opt.Precision = cfg.Precision
		outFormat = cfg.OutputFormat
	}
	f := cmd.Flags()
	if f.Changed("normalise") {
		opt.Normalise = normalise
	}
	if f.Changed("precision") {
		if precision < 0 || precision > cfgpkg.MaxPrecision {
			return opt, "", fmt.Errorf("invalid --precision: %d (use 0-%d)", precision, cfgpkg.MaxPrecision)
		}
		opt.Precision = precision
	}
	if format != "" {
		nf, err := cfgpkg.NormalizeFormat(format)
		if err != nil {
			return opt, "", err
		}
		outFormat = nf
	}
	return opt, outFormat, nil
}

// render produces the report body in the requested format.
func render(rep *analysis.Report, format string) (string, error) {
	if format == cfgpkg.FormatJSON {
		b, err := rep.JSON()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return rep.Markdown(), nil
}

func reportExt(format string) string {
	if format == cfgpkg.FormatJSON {
		return ".summary.json"
	}
	return ".summary.md"
}
