package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"periodcheck/internal/files"
	"periodcheck/internal/importer"
	"periodcheck/internal/store"
	"periodcheck/internal/util"
)

var (
	normalizeAll  bool
	summarizeOut  string
	summarizeOpen bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <root>",
	Short: "Rewrite <root>/<index>/*.csv with year,month columns first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		var (
			paths []string
			err   error
		)
		if normalizeAll {
			paths, err = files.WalkCSV(root, cfg.Report.OutputDir)
		} else {
			paths, err = files.NormalizeTargets(root, cfg.Layout.Indices)
		}
		if err != nil {
			return err
		}
		return runBatch(cmd, func(ctx context.Context, c *importer.Coordinator, progress chan<- importer.ProgressEvent) (*importer.RunReport, error) {
			return c.Normalize(ctx, root, paths, progress)
		})
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize <dir>",
	Short: "Report missing months of the reference interval for <dir>/*.csv",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		paths, err := files.SummaryTargets(dir)
		if err != nil {
			return err
		}
		outDir := summarizeOut
		if outDir == "" {
			outDir = filepath.Join(dir, cfg.Report.OutputDir)
		}
		return runBatch(cmd, func(ctx context.Context, c *importer.Coordinator, progress chan<- importer.ProgressEvent) (*importer.RunReport, error) {
			report, err := c.Summarize(ctx, dir, paths, outDir, progress)
			if err != nil || report.Outputs == nil {
				return report, err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "- CSV: %s\n- Markdown: %s\n", report.Outputs.CSV, report.Outputs.Markdown)
			if report.Outputs.XLSX != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "- XLSX: %s\n", report.Outputs.XLSX)
			}
			if summarizeOpen {
				if err := util.Open(report.Outputs.Markdown); err != nil {
					logger.Warn("failed to open report", zap.Error(err))
				}
			}
			return report, nil
		})
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup <root>",
	Short: "Drop date-like columns other than year/month from every CSV under <root>",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		paths, err := files.WalkCSV(root, cfg.Report.OutputDir)
		if err != nil {
			return err
		}
		return runBatch(cmd, func(ctx context.Context, c *importer.Coordinator, progress chan<- importer.ProgressEvent) (*importer.RunReport, error) {
			return c.Cleanup(ctx, root, paths, progress)
		})
	},
}

func init() {
	normalizeCmd.Flags().BoolVar(&normalizeAll, "all", false, "Walk <root> recursively instead of the configured index folders")
	summarizeCmd.Flags().StringVarP(&summarizeOut, "output", "o", "", "Report directory (default: <dir>/<report.output_dir>)")
	summarizeCmd.Flags().BoolVar(&summarizeOpen, "open", false, "Open the Markdown report when done")
}

// runBatch 构建协调器并执行一次批处理，结束时打印计数
func runBatch(cmd *cobra.Command, fn func(ctx context.Context, c *importer.Coordinator, progress chan<- importer.ProgressEvent) (*importer.RunReport, error)) error {
	opts, err := importer.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	var st *store.Store
	if !noStore {
		st, err = openStore()
		if err != nil {
			return err
		}
		defer st.Close()
	}

	coord, err := importer.NewCoordinator(opts, st, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var progress chan importer.ProgressEvent
	printed := make(chan struct{})
	if verbose {
		progress = make(chan importer.ProgressEvent, 64)
		go func() {
			defer close(printed)
			for ev := range progress {
				fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", ev.Type, ev.Message)
			}
		}()
	} else {
		close(printed)
	}

	report, err := fn(ctx, coord, progress)
	if progress != nil {
		close(progress)
	}
	<-printed
	if report != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: processed %d, skipped %d of %d files.\n",
			report.Kind, report.Processed, report.Skipped, report.TotalFiles)
		for _, fe := range report.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "  skipped %s (%s): %s\n", fe.Path, fe.Kind, fe.Message)
		}
	}
	return err
}

func openStore() (*store.Store, error) {
	dbPath, err := configDBPath()
	if err != nil {
		return nil, err
	}
	return store.New(dbPath)
}
