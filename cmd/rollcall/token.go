package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/rollcall/pkg/jwt"
)

func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <presenter-id>",
		Short: "Issue a bearer token for a presenter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := loadConfig()

			tokens, err := jwt.NewFromString(cfg.JWTSigningKey,
				jwt.WithIssuer(cfg.AppName),
				jwt.WithTTL(cfg.TokenTTL),
			)
			if err != nil {
				return err
			}

			token, err := tokens.Generate(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a random vault key",
		Long:  "Prints a fresh 32-byte key, base64 encoded, for the VAULT_KEY environment variable.",
		RunE: func(cmd *cobra.Command, args []string) error {
			key := make([]byte, 32)
			if _, err := rand.Read(key); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(key))
			return nil
		},
	}
}
