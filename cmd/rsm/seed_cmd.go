package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed roles, permissions and bootstrap users",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			app, pool, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := app.Seeder().Seed(ctx, app); err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			fmt.Println("seed data applied")
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "overall command timeout")
	return cmd
}
