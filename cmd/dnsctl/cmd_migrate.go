package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edvin/mailwatch/internal/db"
)

func newCmdMigrate() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(true)
			if err != nil {
				return err
			}
			e.logger.Info().Str("dir", dir).Msg("running database migrations")
			if err := db.RunMigrations(e.cfg.CoreDatabaseURL, dir); err != nil {
				return err
			}
			version, err := db.MigrationVersion(e.cfg.CoreDatabaseURL)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database at version %d\n", version)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", db.DefaultMigrationsDir, "Migration files directory")
	return cmd
}
