// Command rollcall runs the attendance service and its operational tooling:
// the HTTP server, database migrations, presenter secret provisioning, and
// presenter token issuance.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/rollcall/core/config"
	"github.com/dmitrymomot/rollcall/core/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:           "rollcall",
		Short:         "Proof-of-presence attendance service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSecretCmd(),
		newTokenCmd(),
		newKeygenCmd(),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment into Config and builds the app logger.
func loadConfig() (Config, *slog.Logger) {
	var cfg Config
	config.MustLoad(&cfg)

	var log *slog.Logger
	if cfg.IsProduction() {
		log = logger.New(logger.WithProduction(cfg.AppName))
	} else {
		log = logger.New(logger.WithDevelopment(cfg.AppName))
	}
	return cfg, log
}
