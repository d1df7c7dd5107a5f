package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/rollcall/integration/database/pg"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, log := loadConfig()

			db, err := pg.Connect(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			return pg.Migrate(ctx, db, log.With("component", "migration"))
		},
	}
}
