package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"motormarket_backend/migrations"
	"motormarket_backend/platform/db"

	"github.com/spf13/cobra"
)

var databaseURL string

// migrateCmd groups schema migration commands
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *db.Migrator) error {
			applied, err := m.Up(ctx)
			if err != nil {
				return err
			}
			log.Info("migrations applied", "count", applied)
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *db.Migrator) error {
			statuses, err := m.Status(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tSTATE\tFILE")
			for _, st := range statuses {
				state := "pending"
				if st.Applied {
					state = "applied"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", st.Version, state, st.Path)
			}
			return w.Flush()
		})
	},
}

func init() {
	migrateCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres URL (default: $DATABASE_URL)")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

type dbSettings struct{ url string }

func (s dbSettings) GetDatabaseURL() string  { return s.url }
func (s dbSettings) GetMigrateOnStart() bool { return false }

func withMigrator(ctx context.Context, fn func(context.Context, *db.Migrator) error) error {
	url := databaseURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return fmt.Errorf("database url required: pass --database-url or set DATABASE_URL")
	}

	pool, err := db.NewPool(ctx, dbSettings{url: url})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	m, err := db.NewMigrator(pool, migrations.FS)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	return fn(ctx, m)
}
