package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/rowjam/logging"
	"github.com/stretchr/testify/assert"
)

func Test_Load(t *testing.T) {
	t.Run("yaml config file", func(t *testing.T) {
		assert := assert.New(t)

		file := filepath.Join(t.TempDir(), "rowjam.yml")
		err := os.WriteFile(file, []byte(""+
			"logging:\n"+
			"  enabled: true\n"+
			"  provider: jellog\n"+
			"  file: /tmp/rowjam.log\n"+
			"mapper:\n"+
			"  keep_zero_values: true\n"+
			"store:\n"+
			"  type: sqlite\n"+
			"  dir: /tmp/rowjam-data\n"+
			"  table: things\n"), 0660)
		if !assert.NoError(err) {
			return
		}

		cfg, err := Load(file)

		if !assert.NoError(err) {
			return
		}
		assert.True(cfg.Log.Enabled)
		assert.Equal(logging.Jellog, cfg.Log.Provider)
		assert.Equal("/tmp/rowjam.log", cfg.Log.File)
		assert.True(cfg.Mapper.KeepZeroValues)
		assert.Equal(StoreSQLite, cfg.Store.Type)
		assert.Equal("/tmp/rowjam-data", cfg.Store.DataDir)
		assert.Equal("things", cfg.Store.Table)
	})

	t.Run("json config file", func(t *testing.T) {
		assert := assert.New(t)

		file := filepath.Join(t.TempDir(), "rowjam.json")
		err := os.WriteFile(file, []byte(`{"store": {"type": "inmem", "file": "snap.dat"}}`), 0660)
		if !assert.NoError(err) {
			return
		}

		cfg, err := Load(file)

		if !assert.NoError(err) {
			return
		}
		assert.Equal(StoreInMemory, cfg.Store.Type)
		assert.Equal("snap.dat", cfg.Store.DataFile)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		assert := assert.New(t)

		_, err := Load("rowjam.toml")

		assert.Error(err)
	})

	t.Run("unknown log provider", func(t *testing.T) {
		assert := assert.New(t)

		file := filepath.Join(t.TempDir(), "rowjam.yml")
		err := os.WriteFile(file, []byte("logging:\n  provider: syslog\n"), 0660)
		if !assert.NoError(err) {
			return
		}

		_, err = Load(file)

		assert.Error(err)
	})
}

func Test_Config_FillDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{}.FillDefaults()

	assert.Equal(logging.Jellog, cfg.Log.Provider)
	assert.Equal(StoreInMemory, cfg.Store.Type)
	assert.Equal("entities", cfg.Store.Table)
}

func Test_Config_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       Config
		expectErr bool
	}{
		{
			name:      "defaults are valid",
			cfg:       Config{}.FillDefaults(),
			expectErr: false,
		},
		{
			name: "sqlite store without data dir",
			cfg: Config{
				Log:   Log{Provider: logging.Jellog},
				Store: Store{Type: StoreSQLite, Table: "entities"},
			},
			expectErr: true,
		},
		{
			name: "unknown store type",
			cfg: Config{
				Log:   Log{Provider: logging.Jellog},
				Store: Store{Type: "carrier pigeon", Table: "entities"},
			},
			expectErr: true,
		},
		{
			name: "unusable table name",
			cfg: Config{
				Log:   Log{Provider: logging.Jellog},
				Store: Store{Type: StoreInMemory, Table: "entities; DROP TABLE users"},
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := tc.cfg.Validate()

			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_Dump_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{
		Log:    Log{Enabled: true, Provider: logging.Jellog},
		Mapper: Mapper{KeepZeroValues: true},
		Store:  Store{Type: StoreSQLite, DataDir: "/data", Table: "things"},
	}

	data, err := cfg.Dump()
	if !assert.NoError(err) {
		return
	}

	file := filepath.Join(t.TempDir(), "rowjam.yml")
	err = os.WriteFile(file, data, 0660)
	if !assert.NoError(err) {
		return
	}

	back, err := Load(file)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(cfg, back)
}
