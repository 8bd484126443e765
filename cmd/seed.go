package main

import (
	"context"
	"fmt"

	"rentalhub/internal/config"
	"rentalhub/internal/repositories"
	"rentalhub/internal/seed"
	"rentalhub/pkg/database"

	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with the demo data set",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.RequireDatabase(); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			pool, err := database.NewPool(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.ClosePool(pool)

			if _, err := database.Migrate(ctx, pool); err != nil {
				return err
			}

			seeder := seed.NewSeeder(pool,
				repositories.NewUserRepo(pool),
				repositories.NewPropertyRepo(pool),
				repositories.NewBookingRepo(pool),
				repositories.NewReviewRepo(pool),
			)
			return seeder.Run(ctx)
		},
	}
}
