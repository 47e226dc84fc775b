// Command leetinsight runs the LeetInsight API server and its one-shot
// maintenance commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	app "github.com/devakmmm/LeetInsight/internal/app"
	"github.com/devakmmm/LeetInsight/internal/config"
	"github.com/devakmmm/LeetInsight/pkg/logger"
	"github.com/spf13/cobra"
)

// configEnv names the YAML file read by config.Load.
const configEnv = "LEETINSIGHT_CONFIG"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the root with no subcommand
// starts the server.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "leetinsight",
		Short: "Interview-readiness analytics for LeetCode users",
		Long: `leetinsight serves dashboards, snapshots, readiness insights and a
leaderboard built from LeetCode's public GraphQL API.

Run 'leetinsight' with no arguments to start the HTTP server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if configPath != "" {
				return os.Setenv(configEnv, configPath)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides "+configEnv+")")

	root.AddCommand(
		newServeCmd(),
		newSnapshotCmd(),
		newInsightsCmd(),
		newTierCmd(),
	)
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server, snapshot workers and scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <username>",
		Short: "Capture and store a snapshot of a user now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *app.Service) error {
				res, err := svc.TakeSnapshot(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newInsightsCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "insights <username>",
		Short: "Compute the readiness report of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *app.Service) error {
				res, _, err := svc.Insights(ctx, args[0], days)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", app.DefaultInsightsDays, "velocity window in days, clamped to [7, 365]")
	return cmd
}

func newTierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tier <total>",
		Short: "Classify a total solved count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("total must be an integer: %w", err)
			}
			info, err := app.Tier(total)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), info)
		},
	}
}

// withService runs fn against a started service without the scheduler.
// Logs go to stderr so stdout carries only the JSON result.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *app.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := setup(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	opts := append(serviceOptions(cfg), app.WithSnapshotCron(""))
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := svc.Stop(stopCtx); err != nil {
			logger.Get().Warn(ctx, "service stop failed", logger.Error(err))
		}
	}()

	return fn(ctx, svc)
}

// setup loads configuration and initializes the global logger on w.
func setup(ctx context.Context, w io.Writer) (*config.Config, error) {
	// The logger is needed to report config problems, so start with the
	// default format and re-init once the configured one is known.
	if err := logger.InitWriter(w, logger.FormatText); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := logger.InitWriter(w, cfg.LogFormat); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// serviceOptions maps configuration onto service options.
func serviceOptions(cfg *config.Config) []app.Option {
	return []app.Option{
		app.WithLogger(logger.Named("service")),
		app.WithDBPath(cfg.DBPath),
		app.WithUpstream(cfg.UpstreamURL, cfg.UpstreamTimeout()),
		app.WithCache(cfg.CacheTTL(), cfg.CacheMaxEntries),
		app.WithSnapshotCron(cfg.SnapshotCron),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithMaxLeaderboardLimit(cfg.MaxLeaderboardLimit),
		app.WithRecentAcceptedLimit(cfg.RecentAcceptedLimit),
		app.WithTopTopics(cfg.TopTopics),
		app.WithTagWeights(cfg.TagWeights, cfg.DefaultTagWeight),
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
