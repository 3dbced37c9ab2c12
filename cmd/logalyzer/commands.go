package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/jom-io/gorig/utils/logger"
	"github.com/jom-io/logalyzer/src/conf"
	"github.com/jom-io/logalyzer/src/logtool"
	"github.com/jom-io/logalyzer/src/report"
	"github.com/jom-io/logalyzer/src/route"
	"github.com/jom-io/logalyzer/src/runstat"
	"github.com/jom-io/logalyzer/src/stats"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cfg := conf.Get()

	rootCmd := &cobra.Command{
		Use:          "logalyzer",
		Short:        "Simple, fast, memory-efficient log analyzer",
		SilenceUsage: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	statsCmd := &cobra.Command{
		Use:   "stats PATH...",
		Short: "Compute statistics for access logs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meter := runstat.Start()
			output, err := outputFlag(cmd)
			if err != nil {
				return err
			}
			opts := stats.Options{Paths: args}
			opts.Format, _ = cmd.Flags().GetString("format")
			opts.Strict, _ = cmd.Flags().GetBool("strict")
			opts.Parallel, _ = cmd.Flags().GetBool("parallel")
			topN, _ := cmd.Flags().GetInt("top-paths")
			opts.TopPaths = &topN
			opts.Workers, _ = cmd.Flags().GetInt("workers")
			opts.QueueSize, _ = cmd.Flags().GetInt("queue-size")

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			result, e := stats.New(cfg).Compute(ctx, opts)
			if e != nil {
				return e
			}
			if err := report.Stats(cmd.OutOrStdout(), result, output); err != nil {
				return err
			}
			return meter.Take(ctx).Write(cmd.ErrOrStderr())
		},
	}
	statsCmd.Flags().StringP("format", "f", cfg.Format, "log format, see the formats command")
	statsCmd.Flags().Bool("strict", false, "report every line that could not be parsed")
	statsCmd.Flags().Bool("parallel", false, "read files concurrently")
	statsCmd.Flags().Int("top-paths", cfg.TopN, "number of top paths and top error paths")
	statsCmd.Flags().Int("workers", cfg.Workers, "max files open at once with --parallel, 0 for one per file")
	statsCmd.Flags().Int("queue-size", cfg.QueueSize, "records buffered between readers and the aggregator")
	statsCmd.Flags().StringP("output", "o", string(report.FormatText), "output format: text|json")
	rootCmd.AddCommand(statsCmd)

	parseCmd := &cobra.Command{
		Use:   "parse PATH",
		Short: "Parse a log file and print every record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := outputFlag(cmd)
			if err != nil {
				return err
			}
			opts := logtool.SearchOptions{Paths: args}
			opts.Format, _ = cmd.Flags().GetString("format")
			opts.Strict, _ = cmd.Flags().GetBool("strict")

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			seq, e := logtool.Stream(ctx, opts, nil)
			if e != nil {
				return e
			}
			_, err = report.Records(cmd.OutOrStdout(), seq, output)
			return err
		},
	}
	parseCmd.Flags().StringP("format", "f", cfg.Format, "log format, see the formats command")
	parseCmd.Flags().Bool("strict", false, "report every line that could not be parsed")
	parseCmd.Flags().StringP("output", "o", string(report.FormatText), "output format: text|json")
	rootCmd.AddCommand(parseCmd)

	formatsCmd := &cobra.Command{
		Use:   "formats",
		Short: "List the supported log formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range logtool.Formats() {
				suffix := ""
				if f.Default {
					suffix = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", f.Name, suffix)
			}
			return nil
		},
	}
	rootCmd.AddCommand(formatsCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serveCfg := cfg
			serveCfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
			serveCfg.HTTP.Root, _ = cmd.Flags().GetString("root")

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, serveCfg)
		},
	}
	serveCmd.Flags().String("addr", cfg.HTTP.Addr, "listen address")
	serveCmd.Flags().String("root", cfg.HTTP.Root, "only serve files below this directory")
	rootCmd.AddCommand(serveCmd)

	return rootCmd
}

func outputFlag(cmd *cobra.Command) (report.Format, error) {
	s, _ := cmd.Flags().GetString("output")
	return report.ParseFormat(s)
}

func serve(ctx context.Context, cfg conf.Config) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           route.NewEngine(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.HTTP.Token == "" {
		logger.Warn(ctx, "serving without token, set "+conf.EnvName(conf.KeyHTTPToken)+" to require one")
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "logalyzer listening", zap.String("addr", cfg.HTTP.Addr), zap.String("root", cfg.HTTP.Root))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info(ctx, "logalyzer shutting down")
	return srv.Shutdown(shutdownCtx)
}
