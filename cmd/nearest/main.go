package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"

	"github.com/chriscorrea/nearest/internal/app"
	"github.com/chriscorrea/nearest/internal/config"
	"github.com/chriscorrea/nearest/internal/fetch"
	"github.com/chriscorrea/nearest/internal/tui"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// buildConfig constructs an app.Config from command flags, arguments, and the loaded config file
func buildConfig(cmd *cobra.Command, args []string, defaults *config.Config, stdinIsTerminal bool) (app.Config, error) {
	// get flag values
	question, _ := cmd.Flags().GetString("question")
	selector, _ := cmd.Flags().GetString("selector")
	split, _ := cmd.Flags().GetString("split")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	precision, _ := cmd.Flags().GetInt("precision")
	mdFlag, _ := cmd.Flags().GetBool("md")
	textFlag, _ := cmd.Flags().GetBool("text")
	jsonFlag, _ := cmd.Flags().GetBool("json")
	bm25Flag, _ := cmd.Flags().GetBool("bm25")
	quiet, _ := cmd.Flags().GetBool("quiet")
	debug, _ := cmd.Flags().GetBool("debug")
	includeAll, _ := cmd.Flags().GetBool("include-all")

	splitMode, err := app.ParseSplitMode(split)
	if err != nil {
		return app.Config{}, err
	}

	// flags win over the config file
	if !cmd.Flags().Changed("question") {
		question = defaults.Question
	}
	if !cmd.Flags().Changed("threshold") {
		threshold = defaults.ThresholdValue()
	}
	if !cmd.Flags().Changed("precision") {
		precision = defaults.PrecisionValue()
	}
	if threshold < 0 || threshold >= 1 {
		return app.Config{}, fmt.Errorf("threshold must be in [0, 1), got %v", threshold)
	}
	if precision < 0 || precision > 10 {
		return app.Config{}, fmt.Errorf("precision must be between 0 and 10, got %d", precision)
	}

	// determine output format
	var outputFormat app.OutputFormat
	switch {
	case textFlag:
		outputFormat = app.Text
	case jsonFlag:
		outputFormat = app.JSON
	case mdFlag:
		outputFormat = app.Markdown
	default:
		outputFormat = app.Markdown // default if no format flag
	}

	// positional arguments are sources; piped stdin is read when there are none
	var sources []string
	switch {
	case len(args) > 0:
		sources = args
	case !stdinIsTerminal:
		sources = []string{"-"}
	}

	analysis := app.DefaultOptions()
	analysis.Threshold = threshold
	analysis.CompareBM25 = bm25Flag

	return app.Config{
		Sources:          sources,
		DefaultDocuments: defaults.Documents,
		Selector:         selector,
		IncludeAll:       includeAll,
		Split:            splitMode,
		Question:         question,
		OutputFormat:     outputFormat,
		Precision:        precision,
		Analysis:         analysis,
		Quiet:            quiet,
		Debug:            debug,
	}, nil
}

// effectiveConfig merges the flag values of cfg into the loaded defaults so they can be saved
func effectiveConfig(defaults *config.Config, cfg app.Config) *config.Config {
	threshold := cfg.Analysis.Threshold
	precision := cfg.Precision
	return &config.Config{
		Documents:   defaults.Documents,
		Question:    cfg.Question,
		Suggestions: defaults.Suggestions,
		Threshold:   &threshold,
		Precision:   &precision,
	}
}

// loadEnv reads a .env file from the working directory when one exists
func loadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	var level slog.Level
	if debug {
		level = slog.LevelDebug
	} else {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

var rootCmd = &cobra.Command{
	Use:   "nearest [sources...]",
	Short: "Find the document that best answers a question",
	Long: `Nearest ranks short documents against a question with TF-IDF weighting over
Spanish stems and cosine similarity, and reports the closest one. Each line of the
input is one document. Sources may include URLs, local files, or standard input;
without sources the documents from the config file are used.

Examples:
  nearest -q "¿Dónde juegan el perro y el gato?"
  nearest documentos.txt -q "¿Qué animal maúlla?" --text
  nearest https://example.com/articulo --split sentences -q "¿Cuándo cantan los pájaros?"
  cat documentos.txt | nearest -q "perro" --json
  nearest --interactive`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		setupLogger(debug)

		if err := loadEnv(); err != nil {
			return err
		}

		configPath, _ := cmd.Flags().GetString("config")
		defaults, err := config.Load(config.Resolve(configPath))
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		cfg, err := buildConfig(cmd, args, defaults, fetch.StdinIsTerminal())
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		savePath, _ := cmd.Flags().GetString("save-config")
		if savePath != "" {
			if err := config.Save(savePath, effectiveConfig(defaults, cfg)); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			if !cfg.Quiet {
				fmt.Fprintf(os.Stderr, "Config saved to %s\n", savePath)
			}
		}

		// create context with signal handling for graceful shutdown
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		interactive, _ := cmd.Flags().GetBool("interactive")
		if interactive {
			documents, err := app.CollectDocuments(ctx, cfg)
			if err != nil {
				return err
			}
			return tui.Run(ctx, tui.Options{
				Documents:   documents,
				Question:    cfg.Question,
				Suggestions: defaults.Suggestions,
				Analysis:    cfg.Analysis,
				Precision:   cfg.Precision,
			})
		}

		result, err := app.Run(ctx, cfg)
		if err != nil {
			return err
		}

		fmt.Print(result)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	addFlags(rootCmd)
}

// addFlags registers the command line flags on cmd
func addFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("question", "q", "", "Question to answer (default: the configured question)")
	cmd.Flags().StringP("selector", "s", "", "CSS selector for HTML sources")
	cmd.Flags().String("split", "lines", "Split loaded text into documents by lines or sentences")
	cmd.Flags().Float64("threshold", 0.01, "Similarity the best document must exceed to be a confident answer")
	cmd.Flags().IntP("precision", "p", 3, "Decimal places for weights and scores")

	// output format flags
	cmd.Flags().Bool("md", false, "Output in Markdown format (default)")
	cmd.Flags().Bool("text", false, "Output in plain text format")
	cmd.Flags().Bool("json", false, "Output in JSON format")

	// output format flags are mutually exclusive
	cmd.MarkFlagsMutuallyExclusive("md", "text", "json")

	cmd.Flags().Bool("bm25", false, "Also show BM25 scores for comparison")
	cmd.Flags().BoolP("interactive", "I", false, "Start the interactive terminal UI")
	cmd.MarkFlagsMutuallyExclusive("interactive", "json")

	// other flags
	cmd.Flags().StringP("config", "c", "", "Path to a YAML config file (default: $"+config.EnvPath+" or ./"+config.DefaultFile+")")
	cmd.Flags().String("save-config", "", "Write the effective settings to a YAML config file before running")
	cmd.Flags().Bool("quiet", false, "Suppress warning messages")
	cmd.Flags().BoolP("debug", "D", false, "Enable debug logging")
	_ = cmd.Flags().MarkHidden("debug")
	cmd.Flags().BoolP("include-all", "i", false, "Include all content without readability filtering")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
