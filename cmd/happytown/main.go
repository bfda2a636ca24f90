package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/happytownlabs/happytown/internal/analysis"
	"github.com/happytownlabs/happytown/internal/clock"
	complexfx "github.com/happytownlabs/happytown/internal/complex"
	"github.com/happytownlabs/happytown/internal/config"
	"github.com/happytownlabs/happytown/internal/household"
	"github.com/happytownlabs/happytown/internal/ingest"
	"github.com/happytownlabs/happytown/internal/migration"
	"github.com/happytownlabs/happytown/internal/observability"
	"github.com/happytownlabs/happytown/internal/payment"
	"github.com/happytownlabs/happytown/internal/poster"
	"github.com/happytownlabs/happytown/internal/rank"
	"github.com/happytownlabs/happytown/internal/seed"
	"github.com/happytownlabs/happytown/internal/server"
	"github.com/happytownlabs/happytown/internal/upload"
	"github.com/happytownlabs/happytown/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "happytown",
		Short:   "Happy Town arrears tracker",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newServeCmd(), newAllCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newSeedCmd() *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Provision the complex layout and default rank rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(demo)
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "also seed demo households and balances")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the ingestion and analysis API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run migrations and seed, then start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runMigrate(); err != nil {
				return err
			}
			if err := runSeed(false); err != nil {
				return err
			}
			runServe()
			return nil
		},
	}
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runSeed(demo bool) error {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		fx.Invoke(func(conn *gorm.DB, node *snowflake.Node) error {
			if err := seed.ProvisionComplex(conn, node); err != nil {
				return err
			}
			if demo {
				return seed.SeedDemoData(conn, node)
			}
			return nil
		}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runServe() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,

		complexfx.Module,
		household.Module,
		payment.Module,
		rank.Module,
		upload.Module,
		poster.Module,
		ingest.Module,
		analysis.Module,

		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
