package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/rsmhq/rsm/modules"
	"github.com/rsmhq/rsm/pkg/application"
	"github.com/rsmhq/rsm/pkg/configuration"
	"github.com/rsmhq/rsm/pkg/eventbus"
)

// loadApp builds an application with all modules registered so their schema
// sets and seeders are available to the CLI.
func loadApp(ctx context.Context) (application.Application, *pgxpool.Pool, error) {
	conf := configuration.Use()

	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(conf.Logger()),
		Logger:   conf.Logger(),
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to load modules: %w", err)
	}
	return app, pool, nil
}

func newMigrateCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Apply or roll back database schema migrations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) > 0 {
				direction = args[0]
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			app, pool, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			switch direction {
			case "up":
				if err := app.Migrations().Run(ctx); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Println("migrations applied")
			case "down":
				if err := app.Migrations().Rollback(ctx); err != nil {
					return fmt.Errorf("rollback failed: %w", err)
				}
				fmt.Println("migrations rolled back")
			default:
				return fmt.Errorf("unknown direction %q, want up or down", direction)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall command timeout")
	return cmd
}
