package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Dana", "dana@example.com")
	cfg.Sources = []ImportSource{
		{Name: "chase-visa", Format: "chase", Card: "Visa"},
	}

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Owner, got.Owner)
	assert.Equal(t, cfg.Data.File, got.Data.File)
	assert.Equal(t, cfg.Currency, got.Currency)
	assert.Equal(t, cfg.Cards.DefaultDueDay, got.Cards.DefaultDueDay)
	assert.Equal(t, cfg.Report.Months, got.Report.Months)
	assert.Equal(t, cfg.Log.Level, got.Log.Level)
	assert.Equal(t, cfg.Sync, got.Sync)
	require.Len(t, got.Sources, 1)
	src, ok := got.Source("chase-visa")
	require.True(t, ok)
	assert.Equal(t, "Visa", src.Card)
	_, ok = got.Source("other")
	assert.False(t, ok)
}

func TestDefaults(t *testing.T) {
	cfg := Default("Dana", "dana@example.com")

	assert.Equal(t, "Dana", cfg.Owner.Name)
	assert.Equal(t, "ledger.json", cfg.Data.File)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, 10, cfg.Cards.DefaultDueDay)
	assert.Equal(t, 6, cfg.Report.Months)
	assert.True(t, cfg.Sync.Git)
	assert.Equal(t, "dana@example.com", cfg.Sync.AuthorEmail)
	assert.Empty(t, cfg.Sources)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"empty data file", func(c *Config) { c.Data.File = " " }, "data.file"},
		{"bad currency", func(c *Config) { c.Currency = "dollars" }, "currency"},
		{"due day too late", func(c *Config) { c.Cards.DefaultDueDay = 31 }, "default_due_day"},
		{"no months", func(c *Config) { c.Report.Months = 0 }, "report.months"},
		{"source without target", func(c *Config) { c.Sources = []ImportSource{{Name: "x"}} }, "account or card"},
		{"duplicate source", func(c *Config) {
			c.Sources = []ImportSource{{Name: "x", Account: "a"}, {Name: "x", Account: "b"}}
		}, "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("Dana", "dana@example.com")
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("currency: USD\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Dana", "dana@example.com")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Dana")
	assert.Contains(t, contents, "file: ledger.json")
	assert.Contains(t, contents, "default_due_day: 10")
	assert.Contains(t, contents, "git: true")
}
