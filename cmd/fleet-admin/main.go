package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"fleet-platform/internal/app"
	"fleet-platform/internal/config"
	"fleet-platform/internal/logx"
	"fleet-platform/internal/repository"
	"fleet-platform/internal/seed"
)

var rootCmd = &cobra.Command{
	Use:           "fleet-admin",
	Short:         "Maintenance commands for the fleet platform database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, logger logx.Logger) error {
			if err := repository.NewSchemaRepo(pool).Apply(ctx); err != nil {
				return err
			}
			logger.Info("schema applied", logx.String("event", "migrate_completed"))
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which schema tables exist",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, _ logx.Logger) error {
			status, err := repository.NewSchemaRepo(pool).TableStatus(ctx)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(status))
			for name := range status {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				state := "missing"
				if status[name] {
					state = "ok"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", name, state)
			}
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert generated drivers and trucks",
	RunE: func(cmd *cobra.Command, _ []string) error {
		drivers, _ := cmd.Flags().GetInt("drivers")
		trucks, _ := cmd.Flags().GetInt("trucks")
		rnd, _ := cmd.Flags().GetInt64("seed")
		return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, logger logx.Logger) error {
			res, err := seed.New(repository.NewStore(pool), rnd, logger).Run(ctx, drivers, trucks)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d drivers and %d trucks\n", res.Drivers, res.Trucks)
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().Int("drivers", 10, "number of driver profiles to create")
	seedCmd.Flags().Int("trucks", 10, "number of trucks to create")
	seedCmd.Flags().Int64("seed", time.Now().UnixNano(), "random seed for generated data")

	rootCmd.AddCommand(migrateCmd, statusCmd, seedCmd)
}

func withPool(ctx context.Context, fn func(context.Context, *pgxpool.Pool, logx.Logger) error) error {
	cfg, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("config load error: %w", err)
	}
	logger := app.NewLogger()
	defer func() { _ = logger.Sync() }()

	pool, err := repository.NewPool(ctx, cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("database connection error: %w", err)
	}
	defer pool.Close()

	return fn(ctx, pool, logger)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}
