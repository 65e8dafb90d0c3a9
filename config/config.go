// Package config contains configuration options for rowjam tools and the
// reference stores.
package config

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rowjam/logging"
)

// Log contains logging options.
type Log struct {
	// Enabled is whether to enable built-in logging statements.
	Enabled bool

	// Provider must be the name of one of the logging providers. If set to
	// None or unset, it will default to logging.Jellog.
	Provider logging.Provider

	// File to log to. If not set, all logging will be done to stderr and it
	// will display all logging statements. If set, the file will receive all
	// levels of log messages and stderr will show only those of Info level or
	// higher.
	File string
}

func (log Log) Create() (logging.Logger, error) {
	return logging.New(log.Provider, log.File)
}

func (log Log) FillDefaults() Log {
	newLog := log

	if newLog.Provider == logging.None {
		newLog.Provider = logging.Jellog
	}

	return newLog
}

func (log Log) Validate() error {
	if log.Provider == logging.None {
		return fmt.Errorf("provider: must not be empty")
	}

	return nil
}

// Mapper contains options for the entity marshaller.
type Mapper struct {
	// KeepZeroValues is whether zero-valued encodings (empty string, 0,
	// false) are written to rows instead of being omitted. Changing this
	// changes the shape of rows written to the store; leave it off when
	// reading data written by older tooling.
	KeepZeroValues bool
}

func (m Mapper) FillDefaults() Mapper {
	return m
}

func (m Mapper) Validate() error {
	return nil
}

// StoreType is the kind of backing store to open.
type StoreType string

const (
	StoreInMemory StoreType = "inmem"
	StoreSQLite   StoreType = "sqlite"
)

// Store contains options for the reference store that a tool will open.
type Store struct {
	// Type is the type of the store. It must be one of the Store* constants.
	Type StoreType

	// DataDir is the directory the store keeps its data files in. Unused for
	// in-memory stores with no persistence.
	DataDir string

	// DataFile is the name of the file within DataDir that an in-memory store
	// persists its snapshots to. If empty, snapshots are not persisted.
	DataFile string

	// Table is the name of the table that entities are stored in.
	Table string
}

func (s Store) FillDefaults() Store {
	newStore := s

	if newStore.Type == "" {
		newStore.Type = StoreInMemory
	}
	if newStore.Table == "" {
		newStore.Table = "entities"
	}

	return newStore
}

func (s Store) Validate() error {
	switch s.Type {
	case StoreInMemory:
		break
	case StoreSQLite:
		if s.DataDir == "" {
			return fmt.Errorf("data dir: must not be empty for sqlite stores")
		}
	default:
		return fmt.Errorf("type: %q is not a supported store type", s.Type)
	}

	if strings.ContainsAny(s.Table, " \t\n\"'`;") {
		return fmt.Errorf("table: %q is not a usable table name", s.Table)
	}

	return nil
}

// Config is the complete rowjam tool configuration.
type Config struct {
	Log    Log
	Mapper Mapper
	Store  Store
}

// FillDefaults returns a new Config identical to cfg but with unset values
// set to their defaults.
func (cfg Config) FillDefaults() Config {
	newCfg := cfg

	newCfg.Log = newCfg.Log.FillDefaults()
	newCfg.Mapper = newCfg.Mapper.FillDefaults()
	newCfg.Store = newCfg.Store.FillDefaults()

	return newCfg
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be
// used, call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	if err := cfg.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := cfg.Mapper.Validate(); err != nil {
		return fmt.Errorf("mapper: %w", err)
	}
	if err := cfg.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	return nil
}
