package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"periodcheck/internal/config"
)

var (
	configPath string
	verbose    bool
	noStore    bool

	cfg     *config.AppConfig
	cfgInfo config.LoadConfigInfo
	logger  *zap.Logger
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "periodcheck",
	Short: "기간 누락 점검 - normalize year/month columns and report missing months",
	Long: `periodcheck normalizes the temporal dimension of heterogeneous CSV files
into a canonical year/month pair and reports which months of a reference
interval each file covers.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, cfgInfo, err = config.LoadConfigWithInfo(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Debug("config loaded",
			zap.String("path", cfgInfo.Path),
			zap.Bool("found", cfgInfo.Found),
			zap.Strings("keys", cfgInfo.Keys),
			zap.String("reference", cfg.ReferenceInterval().Label()),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config.toml path (default: next to the executable)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noStore, "no-store", false, "Do not record runs in the history database")

	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
