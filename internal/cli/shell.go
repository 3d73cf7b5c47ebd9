package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const shellPrompt = "storekeeper> "

func newShellCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands against one open session",
		Long: `Shell opens the database session once and then reads commands line by
line, without the "storekeeper" prefix. A savepoint set by one command
can be rolled back by a later one. "exit", "quit" or end of input leave
the shell; an open savepoint is committed on the way out.

Quote arguments that contain spaces:
  product add --supplier 1 --name "Blue Widget" --price 2.50 --quantity 10`,
		Args: userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.inShell {
				return usageErrorf("already in the shell")
			}
			ctx := cmd.Context()
			if _, err := app.connect(ctx); err != nil {
				return err
			}

			app.inShell = true
			defer func() { app.inShell = false }()

			out := cmd.OutOrStdout()
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				fmt.Fprint(out, shellPrompt)
				line, err := app.prompt.Line()
				if errors.Is(err, io.EOF) {
					fmt.Fprintln(out)
					return nil
				}
				if err != nil {
					return err
				}

				fields, err := splitLine(line)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
					continue
				}
				if len(fields) == 0 {
					continue
				}
				switch fields[0] {
				case "exit", "quit":
					return nil
				}

				code := app.run(ctx, fields)
				app.log.WithField("exit_code", code).Debug("shell command done")
			}
		},
	}
}

// splitLine splits a shell line on spaces, honoring double quotes.
func splitLine(line string) ([]string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	r := csv.NewReader(strings.NewReader(line))
	r.Comma = ' '
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	record, err := r.Read()
	if err != nil {
		return nil, usageErrorf("cannot parse line: %v", err)
	}

	fields := make([]string, 0, len(record))
	for _, f := range record {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields, nil
}
