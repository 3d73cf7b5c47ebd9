package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storekeeper/internal/database"
	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

func newInitCmd(app *App) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize settings and the database schema",
		Long: `Init creates the configuration directory with a default config.yaml,
then applies the bundled schema. A sqlite database is always created or
brought up to date. A mysql server is migrated, including the
makepurchase and updatesale procedures, only when --migrate is given.`,
		Args: userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg := app.cfg

			if cfg.Driver == types.DriverSQLite || migrate {
				if err := database.Migrate(cfg, app.settings.Credentials()); err != nil {
					return fmt.Errorf("initialize database: %w", err)
				}
			}

			fmt.Fprintln(out, "Storekeeper initialized successfully")
			fmt.Fprintf(out, "settings: %s\n", app.settings.Path())
			if cfg.Driver == types.DriverSQLite {
				fmt.Fprintf(out, "database: %s\n", database.DBPath(cfg))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema to a mysql server")
	return cmd
}
