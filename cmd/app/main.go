package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ybird-labs/senate-insight-lab/internal/di"
	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
	"github.com/ybird-labs/senate-insight-lab/internal/usecase"
	"github.com/ybird-labs/senate-insight-lab/pkg/config"
	"github.com/ybird-labs/senate-insight-lab/pkg/logger"
	"github.com/ybird-labs/senate-insight-lab/pkg/server"
)

var (
	configPath string
	app        *server.App
)

func main() {
	root := &cobra.Command{
		Use:           "senate-insight",
		Short:         "Suspicion scoring for congressional stock transactions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithEnv(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			app, err = di.InitializeApp(cfg)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				app.Close()
			}
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path")

	root.AddCommand(
		initDBCmd(),
		collectMembersCmd(),
		analyzeCmd(),
		analyzeAllCmd(),
		reportCmd(),
		serveCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func initDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the ClickHouse schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()
			if err := app.InitDB(ctx); err != nil {
				return err
			}
			app.Logger().Info("schema ready")
			return nil
		},
	}
}

func collectMembersCmd() *cobra.Command {
	var chamber string
	cmd := &cobra.Command{
		Use:   "collect-members",
		Short: "Fetch the current roster and store it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()
			n, err := app.CollectMembers(ctx, chamber)
			if err != nil {
				return err
			}
			app.Logger().Info("members collected",
				logger.String("chamber", chamber), logger.Int("count", n))
			return nil
		},
	}
	cmd.Flags().StringVar(&chamber, "chamber", "senate", "senate, house, or both")
	return cmd
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <member-id>",
		Short: "Score a single member's transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()
			alerts, err := app.AnalyzeMember(ctx, args[0])
			if err != nil {
				return err
			}
			return usecase.WriteAlertsJSON(cmd.OutOrStdout(), alerts)
		},
	}
}

func analyzeAllCmd() *cobra.Command {
	var (
		chamber       string
		format        string
		top           int
		minConfidence float64
	)
	cmd := &cobra.Command{
		Use:   "analyze-all",
		Short: "Score every member of a chamber",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()
			result, err := app.AnalyzeAll(ctx, chamber)
			if err != nil {
				return err
			}
			if minConfidence > 0 {
				filterResult(result, minConfidence, top)
			}
			return writeResult(cmd.OutOrStdout(), format, result, top)
		},
	}
	cmd.Flags().StringVar(&chamber, "chamber", "senate", "senate, house, or both")
	cmd.Flags().StringVar(&format, "format", "text", "output format: json, csv, or text")
	cmd.Flags().IntVar(&top, "top", 10, "alerts shown in the text summary")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "drop alerts below this confidence")
	return cmd
}

// filterResult re-applies a stricter confidence floor after the run and
// rebuilds the alert-derived summary fields. Member counts are untouched.
func filterResult(result *usecase.RunResult, minConfidence float64, top int) {
	kept := make([]models.Alert, 0, len(result.Alerts))
	for _, a := range result.Alerts {
		if a.Confidence >= minConfidence {
			kept = append(kept, a)
		}
	}
	result.Alerts = kept

	s := usecase.Summarize(kept, top)
	s.StartedAt = result.Summary.StartedAt
	s.FinishedAt = result.Summary.FinishedAt
	s.MembersProcessed = result.Summary.MembersProcessed
	s.MembersFailed = result.Summary.MembersFailed
	s.Failures = result.Summary.Failures
	result.Summary = s
}

func writeResult(w io.Writer, format string, result *usecase.RunResult, top int) error {
	f, err := usecase.ParseReportFormat(format)
	if err != nil {
		return err
	}
	switch f {
	case usecase.FormatJSON:
		return usecase.WriteAlertsJSON(w, result.Alerts)
	case usecase.FormatCSV:
		return usecase.WriteAlertsCSV(w, result.Alerts)
	default:
		summary := result.Summary
		summary.TopAlerts = usecase.Summarize(result.Alerts, top).TopAlerts
		return usecase.WriteSummaryText(w, summary)
	}
}

func reportCmd() *cobra.Command {
	var (
		format string
		top    int
		output string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export stored alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()
			f, err := usecase.ParseReportFormat(format)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer file.Close()
				w = file
			}
			return app.Report(ctx, f, top, w)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: json, csv, or text")
	cmd.Flags().IntVar(&top, "top", 10, "alerts shown in the text summary")
	cmd.Flags().StringVar(&output, "output", "", "write to file instead of stdout")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()
			return app.Serve(ctx)
		},
	}
}
