/*
Rowjamtest opens a rowjam reference store, round-trips a handful of
demonstration entities through it, and prints what came back. It is mostly
useful as a smoke test that a config file, table spec, and store type all work
together, and as a living example of how the pieces fit.

Usage:

	rowjamtest [flags]

For every sample entity, the tool marshals it into the configured store, reads
it back out, and prints both the raw stored row shape and the reconstructed
entity so that type-hint behavior can be eyeballed.

The flags are:

	-c, --config PATH
		Use the given file for the configuration instead of './rowjam.yml'.
		The file must be in JSON or YAML format.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dekarrin/rowjam"
	"github.com/dekarrin/rowjam/config"
	"github.com/dekarrin/rowjam/logging"
	"github.com/dekarrin/rowjam/store/inmem"
	"github.com/dekarrin/rowjam/store/sqlite"
	"github.com/dekarrin/rowjam/tablemap"
	"github.com/spf13/pflag"
)

const (
	exitSuccess = 0
	exitError   = 1
	exitPanic   = 2
)

var exitCode int

var (
	flagConf = pflag.StringP("config", "c", "rowjam.yml", "Path to configuration file")
)

// entityStore is what both reference stores provide; rowjamtest does not care
// which one it gets.
type entityStore interface {
	Create(ctx context.Context, ent rowjam.Entity) (string, error)
	Get(ctx context.Context, id string, proto rowjam.Entity) (rowjam.Entity, error)
	Close() error
}

// sampleSpec covers every codec family: character columns that will need type
// hints, all four datetime types, a numeric, and one type rowjam has never
// heard of to show the passthrough fallback.
var sampleSpec = rowjam.TableSpec{
	"name":     {Type: "NVARCHAR"},
	"active":   {Type: "VARCHAR"},
	"tags":     {Type: "SHORTTEXT"},
	"settings": {Type: "NVARCHAR"},
	"count":    {Type: "INTEGER"},
	"created":  {Type: "TIMESTAMP"},
	"birthday": {Type: "DATE"},
	"alarm":    {Type: "TIME"},
	"mystery":  {Type: "GEOMETRY"},
}

var sampleEntities = []rowjam.MapEntity{
	{
		"name":    "violet",
		"active":  true,
		"tags":    []interface{}{"alpha", "beta"},
		"count":   8,
		"created": time.Date(2023, 6, 1, 12, 30, 0, 0, time.UTC),
	},
	{
		"name":     "roxy",
		"active":   false,
		"settings": map[string]interface{}{"volume": 11},
		"birthday": "2020-01-02T00:00:00Z",
		"alarm":    "07:15:00",
		"mystery":  "POINT(1 2)",
	},
}

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			fmt.Fprintf(os.Stderr, "fatal panic: %v\n", panicErr)
			exitCode = exitPanic
		}
		os.Exit(exitCode)
	}()

	pflag.Parse()

	conf, err := config.Load(*flagConf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		exitCode = exitError
		return
	}
	conf = conf.FillDefaults()
	if err := conf.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		exitCode = exitError
		return
	}

	var logger logging.Logger = logging.NoOpLogger{}
	if conf.Log.Enabled {
		logger, err = conf.Log.Create()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			exitCode = exitError
			return
		}
	}

	mapper := tablemap.Mapper{
		Log:            logger,
		KeepZeroValues: conf.Mapper.KeepZeroValues,
	}

	store, err := openStore(conf, mapper)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		exitCode = exitError
		return
	}
	defer store.Close()

	ctx := context.Background()

	for i, ent := range sampleEntities {
		id, err := store.Create(ctx, ent)
		if err != nil {
			logger.Errorf("store entity #%d: %v", i+1, err)
			exitCode = exitError
			return
		}

		row := mapper.ToRow(ent, sampleSpec)
		fmt.Printf("entity #%d (id %s)\n", i+1, id)
		fmt.Printf("  stored row: %v\n", row)

		back, err := store.Get(ctx, id, rowjam.MapEntity{})
		if err != nil {
			logger.Errorf("load entity #%d: %v", i+1, err)
			exitCode = exitError
			return
		}
		fmt.Printf("  read back:  %v\n", back)
	}

	logger.Info("All sample entities round-tripped")
}

func openStore(conf config.Config, mapper tablemap.Mapper) (entityStore, error) {
	switch conf.Store.Type {
	case config.StoreSQLite:
		return sqlite.New(conf.Store.DataDir, conf.Store.Table, sampleSpec, mapper)
	case config.StoreInMemory:
		var file string
		if conf.Store.DataFile != "" {
			if conf.Store.DataDir != "" {
				if err := os.MkdirAll(conf.Store.DataDir, 0770); err != nil {
					return nil, fmt.Errorf("create data dir: %w", err)
				}
			}
			file = filepath.Join(conf.Store.DataDir, conf.Store.DataFile)
		}
		s, err := inmem.Open(file)
		if err != nil {
			return nil, err
		}
		s.Mapper = mapper
		s.Spec = sampleSpec
		return s, nil
	default:
		return nil, fmt.Errorf("%q is not a supported store type", conf.Store.Type)
	}
}
