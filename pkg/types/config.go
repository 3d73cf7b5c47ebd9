package types

import "errors"

// Supported database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Sale procedure strategies. ProceduresServer delegates to the
// makepurchase and updatesale stored procedures; ProceduresNative runs
// the same contract in Go inside the write transaction.
const (
	ProceduresNative = "native"
	ProceduresServer = "server"
)

// Defaults for the fixed connection target.
const (
	DefaultHost     = "localhost"
	DefaultDatabase = "storedb"
)

// Config selects the database the session connects to. Host and Database
// are fixed per installation; the per-user parts live in Credentials.
type Config struct {
	Driver     string `json:"driver" yaml:"driver"`
	Host       string `json:"host" yaml:"host"`
	Database   string `json:"database" yaml:"database"`
	DataDir    string `json:"data_dir" yaml:"data_dir"`
	Procedures string `json:"procedures" yaml:"procedures"`
}

// Credentials are the three values the credential dialog edits. Port is
// kept as text, exactly as typed and stored.
type Credentials struct {
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	Port     string `json:"port" yaml:"port"`
}

// Config validation errors.
var (
	ErrDriverEmpty       = errors.New("driver must not be empty")
	ErrDriverUnknown     = errors.New("unknown driver")
	ErrDatabaseEmpty     = errors.New("database name must not be empty")
	ErrProceduresUnknown = errors.New("unknown procedures strategy")
	ErrServerProcedures  = errors.New("server procedures require the mysql driver")
)

var knownDrivers = map[string]bool{
	DriverSQLite: true,
	DriverMySQL:  true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Driver == "" {
		return ErrDriverEmpty
	}
	if !knownDrivers[c.Driver] {
		return ErrDriverUnknown
	}
	if c.Database == "" {
		return ErrDatabaseEmpty
	}
	switch c.Procedures {
	case "", ProceduresNative:
	case ProceduresServer:
		if c.Driver != DriverMySQL {
			return ErrServerProcedures
		}
	default:
		return ErrProceduresUnknown
	}
	return nil
}

// EffectiveProcedures resolves an empty Procedures value: sqlite has no
// stored procedures so it runs natively, mysql delegates to the server.
func (c Config) EffectiveProcedures() string {
	if c.Procedures != "" {
		return c.Procedures
	}
	if c.Driver == DriverMySQL {
		return ProceduresServer
	}
	return ProceduresNative
}
