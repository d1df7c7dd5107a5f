package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/rollcall/core/secrets"
	"github.com/dmitrymomot/rollcall/core/totp"
	"github.com/dmitrymomot/rollcall/integration/database/pg"
)

func newSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secret <presenter-id>",
		Short: "Provision a shared secret for a presenter",
		Long: "Generates a new shared secret for the presenter, stores it " +
			"encrypted, and prints the otpauth provisioning URI. Fails if the " +
			"presenter already holds a secret.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			presenterID := args[0]
			cfg, _ := loadConfig()

			db, err := pg.Connect(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			vaultKey, err := cfg.vaultKey()
			if err != nil {
				return err
			}
			vault, err := secrets.NewVault(pg.NewSecretStore(db), vaultKey)
			if err != nil {
				return err
			}

			secret, err := vault.Provision(ctx, presenterID)
			if err != nil {
				return err
			}

			uri, err := totp.URI(totp.URIParams{
				Secret:      secret,
				AccountName: presenterID,
				Issuer:      cfg.AppName,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "secret:", secret)
			fmt.Fprintln(out, "uri:   ", uri)
			return nil
		},
	}
}
