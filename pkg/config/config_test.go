package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
		assert.Equal(t, ",", cfg.Formats.Delimiter)
		assert.Equal(t, "alchemy", cfg.Formats.Default)
		assert.Equal(t, "boolean", cfg.Store.Type)
	})

	t.Run("config file", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)

		path := filepath.Join(t.TempDir(), "ecopredicate.yaml")
		content := "formats:\n  delimiter: \";\"\n  default: aleph\nstore:\n  type: fuzzy\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		viper.SetConfigFile(path)
		require.NoError(t, viper.ReadInConfig())

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ";", cfg.Formats.Delimiter)
		assert.Equal(t, "aleph", cfg.Formats.Default)
		assert.Equal(t, "fuzzy", cfg.Store.Type)
	})

	t.Run("environment overrides", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		t.Setenv("ECOPREDICATE_DELIMITER", "|")
		t.Setenv("ECOPREDICATE_LOG_LEVEL", "debug")
		t.Setenv("ECOPREDICATE_SNAPSHOT_DIR", "/tmp/snaps")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "|", cfg.Formats.Delimiter)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "/tmp/snaps", cfg.Snapshot.Dir)
	})

	t.Run("invalid values", func(t *testing.T) {
		tests := []struct {
			key   string
			value string
		}{
			{"formats.delimiter", "::"},
			{"formats.default", "prolog"},
			{"store.type", "graph"},
			{"log.format", "xml"},
		}
		for _, tt := range tests {
			t.Run(tt.key, func(t *testing.T) {
				viper.Reset()
				t.Cleanup(viper.Reset)
				viper.Set(tt.key, tt.value)

				_, err := Load()
				assert.Error(t, err)
			})
		}
	})
}
