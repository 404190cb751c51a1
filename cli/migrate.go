package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kutbudev/todolists/pkg/config"
	"github.com/kutbudev/todolists/pkg/repository"
)

func newMigrateCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Store != config.StorePostgres {
				return fmt.Errorf("nothing to migrate for store %q", cfg.Store)
			}

			db, err := repository.NewDatabase(cfg)
			if err != nil {
				return err
			}
			defer repository.Close(db)

			if err := repository.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}
