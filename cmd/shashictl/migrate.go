package main

import (
	"errors"
	"fmt"
	"os"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/devaakutty/Shashi-backend/internal/db"
)

func databaseURL() (string, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return "", errors.New("DATABASE_URL is not set")
	}
	return url, nil
}

func withMigrator(fn func(*migrate.Migrate) error) error {
	url, err := databaseURL()
	if err != nil {
		return err
	}
	m, err := db.NewMigrator(url)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the embedded schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(*cobra.Command, []string) error {
			if err := withMigrator(func(m *migrate.Migrate) error { return m.Up() }); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			logger.Info().Msg("migrations applied")
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Example: `  shashictl migrate down --steps 1
  shashictl migrate down          # rolls back everything`,
		RunE: func(*cobra.Command, []string) error {
			err := withMigrator(func(m *migrate.Migrate) error {
				if steps > 0 {
					return m.Steps(-steps)
				}
				return m.Down()
			})
			if err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			logger.Info().Int("steps", steps).Msg("migrations rolled back")
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 0, "number of migrations to roll back (0 rolls back all)")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(*cobra.Command, []string) error {
			return withMigrator(func(m *migrate.Migrate) error {
				v, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					logger.Info().Msg("no migrations applied")
					return nil
				}
				if err != nil {
					return err
				}
				logger.Info().Uint("version", v).Bool("dirty", dirty).Msg("schema version")
				return nil
			})
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}
