package cli

import (
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Enter and store database credentials",
		Long: `Login shows the credential dialog pre-filled from the settings file.
Accepted values are saved and checked against the database; the dialog
repeats until the connection succeeds or is canceled.`,
		Args: userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			creds, err := app.authenticate(ctx, true)
			if err != nil {
				return err
			}
			if err := app.Close(); err != nil {
				return err
			}
			if _, err := app.open(ctx, creds); err != nil {
				return err
			}
			app.status("Database connected successfully.")
			return nil
		},
	}
}
