package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/storekeeper/internal/controller"
	"github.com/mesh-intelligence/storekeeper/internal/database"
	"github.com/mesh-intelligence/storekeeper/internal/login"
	"github.com/mesh-intelligence/storekeeper/internal/paths"
	"github.com/mesh-intelligence/storekeeper/internal/prompt"
	"github.com/mesh-intelligence/storekeeper/internal/settings"
	"github.com/mesh-intelligence/storekeeper/internal/storage"
	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// App is the state shared by every command run in one process: the
// settings store, the open session and the controller over it. The shell
// command runs many command trees against the same App.
type App struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	logger *logrus.Logger
	log    logrus.FieldLogger
	prompt *prompt.Prompter

	settings *settings.Store
	cfg      types.Config

	// output is the format of the running command; baseOutput is the one
	// chosen when the process started.
	output     string
	baseOutput string

	session *storage.Session
	ctrl    *controller.Controller
	inShell bool
}

// NewApp returns an App reading from in and writing to out and errOut.
func NewApp(in io.Reader, out, errOut io.Writer) *App {
	logger := logrus.New()
	logger.SetOutput(errOut)
	logger.SetLevel(logrus.WarnLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	return &App{
		in:         in,
		out:        out,
		errOut:     errOut,
		logger:     logger,
		log:        logger.WithField("session", uuid.NewString()),
		prompt:     prompt.New(in, out),
		output:     defaultOutput,
		baseOutput: defaultOutput,
	}
}

// setup applies the global flags of one command tree and loads the
// settings store once per process. Flags given to the first tree become
// the defaults of later ones.
func (a *App) setup(f *rootFlags) error {
	if f.logLevel != "" {
		level, err := logrus.ParseLevel(f.logLevel)
		if err != nil {
			return usageErrorf("invalid --log-level %q", f.logLevel)
		}
		a.logger.SetLevel(level)
	}

	first := a.settings == nil
	if first && f.output != "" {
		a.baseOutput = f.output
	}
	a.output = a.baseOutput
	if f.output != "" {
		a.output = f.output
	}

	if !first {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	store, err := settings.Open(configDir)
	if err != nil {
		return err
	}

	cfg := store.Config()
	if cfg.DataDir, err = paths.ResolveDataDir(f.dataDir, cfg.DataDir); err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", store.Path(), err)
	}

	a.settings = store
	a.cfg = cfg
	a.log.WithFields(logrus.Fields{
		"config":   store.Path(),
		"driver":   cfg.Driver,
		"data_dir": cfg.DataDir,
	}).Debug("settings loaded")
	return nil
}

func (a *App) gate(ctx context.Context, creds types.Credentials) bool {
	return database.Check(ctx, a.cfg, creds, a.log)
}

// authenticate returns working credentials. The stored ones are tried
// first unless force is set; otherwise the login dialog repeats until the
// database accepts what the user enters.
func (a *App) authenticate(ctx context.Context, force bool) (types.Credentials, error) {
	if !force {
		creds := a.settings.Credentials()
		if a.gate(ctx, creds) {
			return creds, nil
		}
	}
	dialog := login.NewDialog(a.settings, a.prompt)
	return login.Run(ctx, dialog, a.gate, a.errOut)
}

// connect opens the session and loads the grids. It is a no-op when a
// session is already open.
func (a *App) connect(ctx context.Context) (*controller.Controller, error) {
	if a.ctrl != nil {
		return a.ctrl, nil
	}

	creds, err := a.authenticate(ctx, false)
	if err != nil {
		return nil, err
	}
	return a.open(ctx, creds)
}

func (a *App) open(ctx context.Context, creds types.Credentials) (*controller.Controller, error) {
	session, err := storage.Open(ctx, a.cfg, creds, a.log)
	if err != nil {
		return nil, err
	}
	ctrl := controller.New(session, a.log)
	if err := ctrl.Reload(ctx); err != nil {
		session.Close()
		return nil, err
	}

	a.session = session
	a.ctrl = ctrl
	a.log.Info("database connected")
	return ctrl, nil
}

// Close releases the session, committing an open savepoint.
func (a *App) Close() error {
	if a.session == nil {
		return nil
	}
	err := a.session.Close()
	a.session = nil
	a.ctrl = nil
	return err
}

// status prints a controller status line.
func (a *App) status(msg string) {
	fmt.Fprintln(a.out, msg)
}
