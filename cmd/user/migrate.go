package main

import (
	"github.com/spf13/cobra"

	"github.com/tair/user-favorites/pkg/logger"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users and favorites tables",
		Long: `Create or update the users and favorites tables.

The gorm driver runs GORM AutoMigrate; the postgres driver applies the SQL
schema. The memory driver has nothing to migrate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			s, err := openStores(cfg)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.migrate(cmd.Context()); err != nil {
				return err
			}

			logger.Logger.Info().
				Str("driver", cfg.Database.Driver).
				Msg("Migrations applied")
			return nil
		},
	}
}
