// Package cli implements the storekeeper command-line interface: one
// command per screen action, plus a shell that keeps the session and its
// savepoint alive across commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storekeeper/internal/grid"
	"github.com/mesh-intelligence/storekeeper/internal/login"
	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

const defaultOutput = grid.FormatTable

// rootFlags holds the global flag values of one command tree.
type rootFlags struct {
	configDir string
	dataDir   string
	output    string
	logLevel  string
}

// NewRootCmd creates the top-level "storekeeper" command bound to app.
// Every call builds a fresh tree, so the shell can parse each line with
// its own flag state.
func NewRootCmd(app *App) *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:   "storekeeper",
		Short: "Inventory and point-of-sale records for a small shop",
		Long: `Storekeeper keeps the suppliers, products, stock, customers and sales
of a single shop in one database. Every change reloads the supplier,
product and sale grids; a savepoint can be set and rolled back to.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			if f.output != "" && !validOutput(f.output) {
				return usageErrorf("invalid --output %q (valid: %s)", f.output, strings.Join(grid.Formats, ", "))
			}
			return app.setup(f)
		},
	}

	root.PersistentFlags().StringVar(&f.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&f.dataDir, "data-dir", "", "data directory for the sqlite database (default: $(CWD)/.storekeeper-db)")
	root.PersistentFlags().StringVarP(&f.output, "output", "o", "", "output format: table, json or yaml (default table)")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error (default warn)")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return userError{err}
	})

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(app))
	root.AddCommand(newLoginCmd(app))
	root.AddCommand(newSupplierCmd(app))
	root.AddCommand(newProductCmd(app))
	root.AddCommand(newSaleCmd(app))
	root.AddCommand(newSavepointCmds(app)...)
	root.AddCommand(newShellCmd(app))

	return root
}

// Execute runs one command line against a fresh App and returns the
// process exit code.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	app := NewApp(in, out, errOut)
	code := app.run(ctx, args)
	if err := app.Close(); err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		if code == exitSuccess {
			code = exitSysError
		}
	}
	return code
}

// run executes args on a new command tree and reports any error.
func (a *App) run(ctx context.Context, args []string) int {
	root := NewRootCmd(a)
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(a.errOut, "Error:", err)
	return exitCode(err)
}

func validOutput(format string) bool {
	for _, f := range grid.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// userError marks an error caused by the command line itself.
type userError struct{ error }

func (e userError) Unwrap() error { return e.error }

func usageErrorf(format string, args ...any) error {
	return userError{fmt.Errorf(format, args...)}
}

// userSentinels are failures the user can fix by changing the input.
var userSentinels = []error{
	types.ErrMissingFields,
	types.ErrInvalidInput,
	types.ErrNoSelection,
	types.ErrNoSavepoint,
	types.ErrInvalidMode,
	types.ErrInvalidName,
	types.ErrInvalidID,
	types.ErrInvalidQuantity,
	types.ErrInsufficientStock,
	types.ErrNotFound,
	login.ErrCanceled,
}

// exitCode maps err to exitUserError or exitSysError.
func exitCode(err error) int {
	var ue userError
	if errors.As(err, &ue) {
		return exitUserError
	}
	for _, sentinel := range userSentinels {
		if errors.Is(err, sentinel) {
			return exitUserError
		}
	}
	// cobra reports unknown subcommands as plain errors.
	if strings.HasPrefix(err.Error(), "unknown command") {
		return exitUserError
	}
	return exitSysError
}

// parseID parses a positional identifier argument.
func parseID(what, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, usageErrorf("invalid %s ID %q", what, arg)
	}
	return id, nil
}

// userArgs wraps a cobra positional argument check so its failures are user
// errors.
func userArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := check(cmd, a); err != nil {
			return userError{err}
		}
		return nil
	}
}
