package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "decoder.toml")
	require.NoError(t, os.WriteFile(path, []byte("[decoder]\nbeam_size = 5\nworkers = 2\nmax_phrase_length = 3\n\n[log]\nlevel = \"debug\"\n"), 0o644))
	t.Setenv("FFS_DECODER_WORKERS", "4")

	cfg, err := Load(LoadOptions{
		ConfigPath:    path,
		FlagOverrides: map[string]any{"decoder.max_phrase_length": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Decoder.BeamSize)
	assert.Equal(t, 4, cfg.Decoder.Workers)
	assert.Equal(t, 2, cfg.Decoder.MaxPhraseLength)
	assert.Equal(t, 1, cfg.Decoder.NBest)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decoder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("decoder:\n  legacy_input_scoring: true\n  n_best: 3\n"), 0o644))
	cfg, err := Load(LoadOptions{ConfigPath: path})
	require.NoError(t, err)
	assert.True(t, cfg.Decoder.LegacyInputScoring)
	assert.Equal(t, 3, cfg.Decoder.NBest)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(LoadOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.toml")})
	assert.Error(t, err)
	_, err = Load(LoadOptions{ConfigPath: t.TempDir()})
	assert.Error(t, err)
	_, err = Load(LoadOptions{FlagOverrides: map[string]any{"decoder.beam_size": 0}})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"beam", func(c *Config) { c.Decoder.BeamSize = 0 }},
		{"phrase length", func(c *Config) { c.Decoder.MaxPhraseLength = 0 }},
		{"workers", func(c *Config) { c.Decoder.Workers = -1 }},
		{"n-best", func(c *Config) { c.Decoder.NBest = 0 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, Validate(cfg))
		})
	}
	assert.NoError(t, Validate(DefaultConfig()))
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decoder.toml")
	require.NoError(t, WriteDefault(path))
	assert.Error(t, WriteDefault(path))

	cfg, err := Load(LoadOptions{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
