package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/textlift/textlift/internal/batch"
	"github.com/textlift/textlift/internal/config"
	"github.com/textlift/textlift/internal/pipeline"
	"github.com/textlift/textlift/internal/recognizer"
	"github.com/textlift/textlift/internal/version"
)

var (
	// Global configuration loader.
	configLoader *config.Loader
	// Global configuration.
	globalConfig *config.Config
	// Configuration file path.
	cfgFile string
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "textlift [files...]",
	Short: "Extract text and bounding geometry from raster images",
	Long: `textlift extracts text and per-line bounding geometry from raster images.

Without flags it prints recognized text for each input file to stdout.
With --ocr it writes a sibling .txt file per input instead. With --server
it runs an HTTP service accepting image uploads on POST /upload and
returning structured JSON results.

Examples:
  textlift scan.png photo.jpg
  textlift --ocr *.png
  textlift --server --port 8000 --auth admin:secret`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			ver, commit, date := version.Info()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "textlift %s (commit: %s, built: %s)\n", ver, commit, date)
			return nil
		}

		cfg := GetConfig()

		if serverMode, _ := cmd.Flags().GetBool("server"); serverMode {
			return runServe(cmd, cfg)
		}
		if len(args) == 0 {
			return errors.New("no input files provided")
		}
		writeTxt, _ := cmd.Flags().GetBool("ocr")
		return runBatch(cmd.Context(), cfg, args, writeTxt)
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes.
func GetRootCommand() *cobra.Command {
	return rootCmd
}

// runBatch processes the input files through the recognition pipeline.
// A non-nil error (and therefore a non-zero exit status) is returned when
// any file failed.
func runBatch(ctx context.Context, cfg *config.Config, files []string, writeTxt bool) error {
	engine := recognizer.NewTesseract(cfg.Recognizer.LanguageList()...)
	pl, err := pipeline.New(engine)
	if err != nil {
		return fmt.Errorf("failed to build recognition pipeline: %w", err)
	}

	batchCfg := batch.DefaultConfig()
	batchCfg.WriteTextFiles = writeTxt
	batchCfg.Workers = cfg.Batch.Workers

	if ctx == nil {
		ctx = context.Background()
	}
	res, err := batch.Run(ctx, pl, files, batchCfg)
	if err != nil {
		return err
	}
	if failed := res.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(res.Files))
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().String("config", "", "config file (default is search in ., $HOME, $HOME/.config/textlift, /etc/textlift)")
	rootCmd.Flags().BoolP("ocr", "o", false, "write recognized text to sibling .txt files instead of stdout")
	rootCmd.Flags().BoolP("server", "s", false, "run the HTTP upload service")
	rootCmd.Flags().StringP("auth", "a", "", "HTTP Basic Auth credentials (username:password)")
	rootCmd.Flags().IntP("port", "p", 8000, "HTTP listen port")
	rootCmd.Flags().String("host", "0.0.0.0", "HTTP listen host")
	rootCmd.Flags().Int("workers", 1, "parallel workers for batch processing")
	rootCmd.Flags().String("languages", "eng", "comma-separated recognition language codes")
	rootCmd.Flags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().Bool("version", false, "print version information and exit")

	rootCmd.MarkFlagsMutuallyExclusive("ocr", "server")

	// Bind flags to viper so the layered config sees CLI overrides.
	_ = viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.Flags().Lookup("log-level"))
	_ = viper.BindPFlag("server.host", rootCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", rootCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.auth", rootCmd.Flags().Lookup("auth"))
	_ = viper.BindPFlag("batch.workers", rootCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("recognizer.languages", rootCmd.Flags().Lookup("languages"))

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if globalConfig == nil {
			initConfig()
		}

		var logLevel slog.Level
		if globalConfig.Verbose {
			logLevel = slog.LevelDebug
		} else {
			switch globalConfig.LogLevel {
			case "debug":
				logLevel = slog.LevelDebug
			case "warn":
				logLevel = slog.LevelWarn
			case "error":
				logLevel = slog.LevelError
			default:
				logLevel = slog.LevelInfo
			}
		}

		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configLoader = config.NewLoader()

	if cfgFile == "" {
		cfgFile, _ = rootCmd.Flags().GetString("config")
	}

	var err error
	if cfgFile != "" {
		globalConfig, err = configLoader.LoadWithFile(cfgFile)
	} else {
		globalConfig, err = configLoader.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

// GetConfig returns the global configuration, re-unmarshaled so bound CLI
// flags are reflected.
func GetConfig() *config.Config {
	if globalConfig == nil {
		initConfig()
	}

	var cfg config.Config
	if err := config.NewLoader().GetViper().Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling updated configuration: %v\n", err)
		return globalConfig
	}
	return &cfg
}
