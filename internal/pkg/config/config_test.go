package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ATLANTIC_API_KEY", "")
	t.Setenv("PTERODACTYL_API_KEY", "")
	t.Setenv("PORT", "")
	t.Setenv("REDIS_ADDR", "")
}

func TestLoad(t *testing.T) {
	t.Run("First run materializes the defaults", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()

		cfg, err := load(dir)
		require.NoError(t, err)

		assert.Equal(t, "3000", cfg.Server.Port)
		assert.Equal(t, "https://atlantich2h.com", cfg.Atlantic.BaseURL)
		assert.Equal(t, "memory", cfg.Store.Driver)
		assert.Len(t, cfg.Packages, 5)

		_, err = os.Stat(filepath.Join(dir, "config.yaml"))
		assert.NoError(t, err, "defaults should be written to config.yaml")
	})

	t.Run("Existing file wins over defaults", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()

		_, err := load(dir)
		require.NoError(t, err)

		raw, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
			append(raw, []byte("\nserver:\n  port: \"8080\"\n")...), 0o644))

		cfg, err := load(dir)
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Server.Port)
	})

	t.Run("Credentials follow the environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ATLANTIC_API_KEY", "env-atlantic")
		t.Setenv("PTERODACTYL_API_KEY", "env-panel")
		dir := t.TempDir()

		cfg, err := load(dir)
		require.NoError(t, err)
		assert.Equal(t, "env-atlantic", cfg.Atlantic.APIKey)
		assert.Equal(t, "env-panel", cfg.Pterodactyl.APIKey)
	})

	t.Run("Corrupt file is a read error", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
			[]byte("packages: [unbalanced"), 0o644))

		_, err := load(dir)
		assert.ErrorIs(t, err, ErrConfigRead)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Atlantic:    AtlanticConfig{BaseURL: "https://atlantich2h.com"},
			Pterodactyl: PterodactylConfig{PanelURL: "https://panel.example.com"},
			Store:       StoreConfig{Driver: "memory"},
			Packages: []Package{
				{ID: 1, Name: "1GB Starter", RAM: 1024, Price: 15000},
			},
		}
	}

	t.Run("Valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("Empty catalog", func(t *testing.T) {
		cfg := valid()
		cfg.Packages = nil
		assert.Error(t, cfg.Validate())
	})

	t.Run("Duplicate package id", func(t *testing.T) {
		cfg := valid()
		cfg.Packages = append(cfg.Packages, Package{ID: 1, Name: "dup", RAM: 2048, Price: 25000})
		assert.Error(t, cfg.Validate())
	})

	t.Run("Unknown store driver", func(t *testing.T) {
		cfg := valid()
		cfg.Store.Driver = "sqlite"
		assert.Error(t, cfg.Validate())
	})
}

func TestFindPackage(t *testing.T) {
	cfg := &Config{Packages: []Package{
		{ID: 1, Name: "1GB Starter", RAM: 1024, Price: 15000},
		{ID: 2, Name: "2GB Basic", RAM: 2048, Price: 25000},
	}}

	pkg, ok := cfg.FindPackage(2)
	assert.True(t, ok)
	assert.Equal(t, "2GB Basic", pkg.Name)

	_, ok = cfg.FindPackage(99)
	assert.False(t, ok)
}
