package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"periodcheck/internal/config"
	"periodcheck/internal/model"
	"periodcheck/internal/server"
)

var (
	servePort int
	serveDev  bool
	runsKind  string
	runsLimit int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the run history over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 命令行端口仅在配置文件未显式设置时生效
		if servePort > 0 && !cfgInfo.PortSpecified {
			cfg.Server.Port = servePort
		}
		if serveDev {
			cfg.Server.DevMode = true
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "listening on http://localhost:%d (Ctrl+C to stop)\n", cfg.Server.Port)
		if err := server.NewServer(cfg, st, logger).Run(ctx, cfg.Server.Port); err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(model.RunKind(runsKind), runsLimit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tSTATUS\tSTARTED\tFILES\tPROCESSED\tSKIPPED\tROOT")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				r.ID, r.Kind, r.Status, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				r.TotalFiles, r.Processed, r.Skipped, r.Root)
		}
		return w.Flush()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port (only used when config.toml does not set server.port)")
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "Development mode")
	runsCmd.Flags().StringVar(&runsKind, "kind", "", "Filter by kind: normalize, summarize, cleanup")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum runs to list (0 for all)")
}

func configDBPath() (string, error) {
	return config.DBPath(cfg)
}
