package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"boosterClubAPI/internal/config"
	"boosterClubAPI/internal/database"
	"boosterClubAPI/internal/qr"
	"boosterClubAPI/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func openDB(cmd *cobra.Command) (*config.Config, *pgxpool.Pool, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{ConfigFile: path})
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	pool, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pool, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := database.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print payment coverage across active clubs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pool, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer pool.Close()

			store := services.NewPostgresClubStore(database.SQLX(pool))
			svc := services.NewPaymentSettingsService(store, qr.NewRenderer(cfg.QR), zap.NewNop().Sugar())

			status, err := svc.PaymentStatus(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		},
	}
}
