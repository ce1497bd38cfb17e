package types

import "errors"

// Config holds backend selection and parameters for opening a Store.
type Config struct {
	Backend  string `json:"backend" yaml:"backend"`
	DataDir  string `json:"data_dir" yaml:"data_dir"`
	DSN      string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	MaxConns int    `json:"max_conns,omitempty" yaml:"max_conns,omitempty"`
	Seed     bool   `json:"seed" yaml:"seed"`
}

// Supported backend names.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrDSNRequired    = errors.New("postgres backend requires a dsn")
	ErrMaxConnsRange  = errors.New("max conns must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendMemory:   true,
	BackendSQLite:   true,
	BackendPostgres: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendPostgres && c.DSN == "" {
		return ErrDSNRequired
	}
	if c.MaxConns < 0 {
		return ErrMaxConnsRange
	}
	return nil
}
