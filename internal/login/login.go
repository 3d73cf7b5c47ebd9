// Package login implements the credential dialog shown before the
// storekeeper session opens, and the loop that repeats it until the
// database accepts the credentials.
package login

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mesh-intelligence/storekeeper/internal/prompt"
	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// ErrCanceled is returned when the user rejects the dialog.
var ErrCanceled = errors.New("login canceled")

// FailedMessage is printed after credentials fail the connection check.
const FailedMessage = "Database connection failed. Please check your credentials."

// CredentialStore is where the dialog reads its initial values and
// persists accepted ones.
type CredentialStore interface {
	Credentials() types.Credentials
	SaveCredentials(types.Credentials) error
}

// Gate reports whether creds can open a database connection.
type Gate func(ctx context.Context, creds types.Credentials) bool

// Dialog asks for user, password and port.
type Dialog struct {
	store  CredentialStore
	prompt *prompt.Prompter
}

// NewDialog returns a dialog over store that asks through p.
func NewDialog(store CredentialStore, p *prompt.Prompter) *Dialog {
	return &Dialog{store: store, prompt: p}
}

// Exec shows the dialog pre-filled from the store. On accept the entered
// values are saved before they are returned; nothing is checked here.
// Rejecting, or reaching end of input, returns ErrCanceled and leaves the
// store untouched.
func (d *Dialog) Exec() (types.Credentials, error) {
	creds := d.store.Credentials()
	fmt.Fprintln(d.prompt.Out(), "Database login")
	fmt.Fprintf(d.prompt.Out(), "Press Enter to keep a value, %q to clear it.\n", prompt.Clear)

	var err error
	if creds.User, err = d.prompt.Ask("User", creds.User); err != nil {
		return types.Credentials{}, canceled(err)
	}
	if creds.Password, err = d.prompt.Secret("Password", creds.Password); err != nil {
		return types.Credentials{}, canceled(err)
	}
	if creds.Port, err = d.prompt.Ask("Port", creds.Port); err != nil {
		return types.Credentials{}, canceled(err)
	}

	ok, err := d.prompt.Confirm("Connect?", true)
	if err != nil {
		return types.Credentials{}, canceled(err)
	}
	if !ok {
		return types.Credentials{}, ErrCanceled
	}

	if err := d.store.SaveCredentials(creds); err != nil {
		return types.Credentials{}, fmt.Errorf("save credentials: %w", err)
	}
	return creds, nil
}

func canceled(err error) error {
	if errors.Is(err, io.EOF) {
		return ErrCanceled
	}
	return err
}

// Run executes the dialog until gate accepts the credentials, printing
// FailedMessage to warn after every rejected attempt.
func Run(ctx context.Context, d *Dialog, gate Gate, warn io.Writer) (types.Credentials, error) {
	for {
		if err := ctx.Err(); err != nil {
			return types.Credentials{}, err
		}
		creds, err := d.Exec()
		if err != nil {
			return types.Credentials{}, err
		}
		if gate(ctx, creds) {
			return creds, nil
		}
		fmt.Fprintln(warn, FailedMessage)
	}
}
