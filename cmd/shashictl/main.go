// Command shashictl bundles operator tooling: schema migrations, demo data
// seeding and local bearer tokens.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shashictl",
		Short:         "Operator tooling for the Shashi billing backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if err := godotenv.Load(); err != nil {
				logger.Debug().Msg("no .env file found, relying on environment variables")
			}
		},
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newTokenCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
