package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storekeeper/internal/controller"
)

func newSavepointCmds(app *App) []*cobra.Command {
	return []*cobra.Command{
		app.checkpointCmd("savepoint", "Set the undo checkpoint, replacing any earlier one",
			(*controller.Controller).Savepoint),
		app.checkpointCmd("rollback", "Undo every change made since the savepoint",
			(*controller.Controller).RollbackToSavepoint),
		app.checkpointCmd("commit", "Keep every change made since the savepoint and clear it",
			(*controller.Controller).Commit),
	}
}

func (a *App) checkpointCmd(use, short string, action func(*controller.Controller, context.Context) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			if !a.inShell {
				a.log.WithField("op", use).Warn("the session ends with this command; use the shell to keep a savepoint across commands")
			}
			status, err := action(ctrl, cmd.Context())
			if err != nil {
				return err
			}
			a.status(status)
			return nil
		},
	}
}
