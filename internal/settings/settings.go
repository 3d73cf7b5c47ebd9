// Package settings persists the connection settings in a YAML file under
// the configuration directory, using viper.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// FileName is the settings file inside the configuration directory.
const FileName = "config.yaml"

// Setting keys. The three credential keys are the Database/user,
// Database/password and Database/port values edited by the login dialog.
const (
	KeyUser       = "database.user"
	KeyPassword   = "database.password"
	KeyPort       = "database.port"
	KeyDriver     = "database.driver"
	KeyHost       = "database.host"
	KeyDatabase   = "database.name"
	KeyProcedures = "database.procedures"
	KeyDataDir    = "data_dir"
)

// defaultFile is written on first run so the file is discoverable and
// editable before the first successful login.
const defaultFile = `# storekeeper settings

database:
  # sqlite keeps the store in <data_dir>/<name>.db; mysql connects to host:port.
  driver: sqlite
  host: localhost
  name: storedb
  user: ""
  password: ""
  port: ""
  # native | server (empty picks native for sqlite, server for mysql)
  procedures: ""

# data_dir:
`

// Store reads and writes the settings file.
type Store struct {
	v    *viper.Viper
	path string
}

// Open loads the settings file from configDir, creating the directory and
// a default file on first run.
func Open(configDir string) (*Store, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	path := filepath.Join(configDir, FileName)
	if err := ensureFile(path); err != nil {
		return nil, fmt.Errorf("ensure settings file: %w", err)
	}

	v := viper.New()
	v.SetDefault(KeyDriver, types.DriverSQLite)
	v.SetDefault(KeyHost, types.DefaultHost)
	v.SetDefault(KeyDatabase, types.DefaultDatabase)
	v.SetDefault(KeyUser, "")
	v.SetDefault(KeyPassword, "")
	v.SetDefault(KeyPort, "")
	v.SetDefault(KeyProcedures, "")
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	return &Store{v: v, path: path}, nil
}

func ensureFile(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultFile), 0o600)
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Credentials returns the stored user, password and port.
func (s *Store) Credentials() types.Credentials {
	return types.Credentials{
		User:     s.v.GetString(KeyUser),
		Password: s.v.GetString(KeyPassword),
		Port:     s.v.GetString(KeyPort),
	}
}

// SaveCredentials stores c and rewrites the settings file.
func (s *Store) SaveCredentials(c types.Credentials) error {
	s.v.Set(KeyUser, c.User)
	s.v.Set(KeyPassword, c.Password)
	s.v.Set(KeyPort, c.Port)

	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Config returns the connection target. DataDir is the raw data_dir
// value; callers resolve it with paths.ResolveDataDir.
func (s *Store) Config() types.Config {
	return types.Config{
		Driver:     s.v.GetString(KeyDriver),
		Host:       s.v.GetString(KeyHost),
		Database:   s.v.GetString(KeyDatabase),
		DataDir:    s.v.GetString(KeyDataDir),
		Procedures: s.v.GetString(KeyProcedures),
	}
}
