package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"stock-ranker/internal/store"
	"stock-ranker/internal/trace"
)

var (
	configPath string
	cfg        *store.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ranker",
	Short: "Rank names for the next trading morning from today's news",
	Long: `ranker collects domestic and global market news, scores every tracked
name by mentions, keyword sentiment, sector weight and global topic bonuses,
and stores a daily top-10 with declining names, emerging trends and
influential-entity narratives. Stored rankings can later be checked against
realized returns.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeSystem(); err != nil {
			return err
		}
		var err error
		cfg, err = loadConfig(cmd.Context(), configPath)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = trace.Shutdown(context.Background())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "config file path")

	validateCmd.Flags().Int("days", 0, "days of history to validate (default: performance.validate_days)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(weeklyCmd)
	rootCmd.AddCommand(scheduleCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect news, rank, store, notify and print today's result",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := initializeApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		result, err := a.RunDaily(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderDaily(result))
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Compare stored rankings with realized returns",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			days = cfg.Performance.ValidateDays
		}

		ctx := cmd.Context()
		a, err := initializeApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		report, err := a.Validate(ctx, days)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderPerformance(report))
		return nil
	},
}

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Summarize the last week of rankings and their realized returns",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := initializeApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		summary, report, err := a.Weekly(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderWeekly(summary))
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprint(cmd.OutOrStdout(), renderPerformance(report))
		return nil
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the daily ranking at the configured times until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := initializeApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		return runSchedule(ctx, a, cfg.Schedule.Times, cfg.Location())
	},
}
