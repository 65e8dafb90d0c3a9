package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dekarrin/rowjam/logging"
	"gopkg.in/yaml.v3"
)

type marshaledLog struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Provider string `yaml:"provider" json:"provider"`
	File     string `yaml:"file" json:"file"`
}

type marshaledMapper struct {
	KeepZeroValues bool `yaml:"keep_zero_values" json:"keep_zero_values"`
}

type marshaledStore struct {
	Type  string `yaml:"type" json:"type"`
	Dir   string `yaml:"dir" json:"dir"`
	File  string `yaml:"file" json:"file"`
	Table string `yaml:"table" json:"table"`
}

type marshaledConfig struct {
	Log    marshaledLog    `yaml:"logging" json:"logging"`
	Mapper marshaledMapper `yaml:"mapper" json:"mapper"`
	Store  marshaledStore  `yaml:"store" json:"store"`
}

// Load loads a configuration from a JSON or YAML file. The format of the file
// is determined by examining its extension; files ending in .json are parsed
// as JSON files, and files ending in .yaml or .yml are parsed as YAML files.
// Other extensions are not supported. The extension is not case-sensitive.
func Load(file string) (Config, error) {
	var cfg Config
	var mc marshaledConfig

	switch filepath.Ext(strings.ToLower(file)) {
	case ".json":
		// json file
		data, err := os.ReadFile(file)
		if err != nil {
			return cfg, fmt.Errorf("%q: %w", file, err)
		}
		err = json.Unmarshal(data, &mc)
		if err != nil {
			return cfg, fmt.Errorf("%q: %w", file, err)
		}
	case ".yaml", ".yml":
		// yaml file
		data, err := os.ReadFile(file)
		if err != nil {
			return cfg, fmt.Errorf("%q: %w", file, err)
		}
		err = yaml.Unmarshal(data, &mc)
		if err != nil {
			return cfg, fmt.Errorf("%q: %w", file, err)
		}
	default:
		return cfg, fmt.Errorf("%q: incompatible format; must be .json, .yml, or .yaml file", file)
	}

	err := cfg.unmarshal(mc)
	return cfg, err
}

func (cfg *Config) unmarshal(mc marshaledConfig) error {
	prov, err := logging.ParseProvider(mc.Log.Provider)
	if err != nil {
		return fmt.Errorf("logging: provider: %w", err)
	}

	cfg.Log = Log{
		Enabled:  mc.Log.Enabled,
		Provider: prov,
		File:     mc.Log.File,
	}
	cfg.Mapper = Mapper{
		KeepZeroValues: mc.Mapper.KeepZeroValues,
	}
	cfg.Store = Store{
		Type:     StoreType(strings.ToLower(mc.Store.Type)),
		DataDir:  mc.Store.Dir,
		DataFile: mc.Store.File,
		Table:    mc.Store.Table,
	}

	return nil
}

// Dump marshals the Config to YAML bytes suitable for writing back to a
// config file.
func (cfg Config) Dump() ([]byte, error) {
	mc := marshaledConfig{
		Log: marshaledLog{
			Enabled:  cfg.Log.Enabled,
			Provider: cfg.Log.Provider.String(),
			File:     cfg.Log.File,
		},
		Mapper: marshaledMapper{
			KeepZeroValues: cfg.Mapper.KeepZeroValues,
		},
		Store: marshaledStore{
			Type:  string(cfg.Store.Type),
			Dir:   cfg.Store.DataDir,
			File:  cfg.Store.DataFile,
			Table: cfg.Store.Table,
		},
	}

	return yaml.Marshal(mc)
}
