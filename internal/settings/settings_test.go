package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

func TestOpen_CreatesDefaultFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	s, err := Open(dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err, "settings file should exist after Open")
	assert.Equal(t, filepath.Join(dir, FileName), s.Path())

	cfg := s.Config()
	assert.Equal(t, types.DriverSQLite, cfg.Driver)
	assert.Equal(t, types.DefaultHost, cfg.Host)
	assert.Equal(t, types.DefaultDatabase, cfg.Database)
	assert.Empty(t, cfg.DataDir)
	assert.Equal(t, types.Credentials{}, s.Credentials())
}

func TestOpen_ReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	content := `database:
  driver: mysql
  host: db.local
  name: shop
  user: clerk
  password: secret
  port: 3307
data_dir: /var/lib/shop
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o600))

	s, err := Open(dir)
	require.NoError(t, err)

	assert.Equal(t, types.Credentials{User: "clerk", Password: "secret", Port: "3307"}, s.Credentials())
	assert.Equal(t, types.Config{
		Driver:   types.DriverMySQL,
		Host:     "db.local",
		Database: "shop",
		DataDir:  "/var/lib/shop",
	}, s.Config())
}

func TestOpen_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("database: [unclosed"), 0o600))

	_, err := Open(dir)
	assert.Error(t, err)
}

func TestSaveCredentials_RoundTrip(t *testing.T) {
	tests := []types.Credentials{
		{User: "root", Password: "hunter2", Port: "3306"},
		{User: "", Password: "", Port: ""},
		{User: "o'brien", Password: "p: w#d", Port: "not-a-port"},
	}

	for _, creds := range tests {
		t.Run(creds.User+"/"+creds.Port, func(t *testing.T) {
			dir := t.TempDir()
			s, err := Open(dir)
			require.NoError(t, err)

			require.NoError(t, s.SaveCredentials(creds))
			assert.Equal(t, creds, s.Credentials())

			reopened, err := Open(dir)
			require.NoError(t, err)
			assert.Equal(t, creds, reopened.Credentials())
			assert.Equal(t, s.Config(), reopened.Config(), "saving credentials must keep the connection target")
		})
	}
}
