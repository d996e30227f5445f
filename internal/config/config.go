package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the data directory.
const FileName = "pocket.yaml"

// Config represents the top-level pocket.yaml configuration.
type Config struct {
	Owner    OwnerConfig    `yaml:"owner"`
	Data     DataConfig     `yaml:"data"`
	Currency string         `yaml:"currency"`
	Cards    CardsConfig    `yaml:"cards"`
	Report   ReportConfig   `yaml:"report"`
	Log      LogConfig      `yaml:"log"`
	Sync     SyncConfig     `yaml:"sync"`
	Sources  []ImportSource `yaml:"import_sources,omitempty"`
}

// OwnerConfig identifies who the ledger belongs to.
type OwnerConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// DataConfig locates the ledger document, relative to the data directory.
type DataConfig struct {
	File string `yaml:"file"`
}

// CardsConfig holds defaults for new cards.
type CardsConfig struct {
	DefaultDueDay int `yaml:"default_due_day"`
}

// ReportConfig controls the trailing month series.
type ReportConfig struct {
	Months int `yaml:"months"`
}

// LogConfig sets the diagnostic log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// SyncConfig controls git history of the data directory.
type SyncConfig struct {
	Git         bool   `yaml:"git"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// ImportSource maps a bank export to the account or card its rows belong to.
type ImportSource struct {
	Name    string `yaml:"name"`
	Format  string `yaml:"format"`
	Account string `yaml:"account,omitempty"`
	Card    string `yaml:"card,omitempty"`
}

// Load reads a pocket.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(ownerName, ownerEmail string) *Config {
	return &Config{
		Owner:    OwnerConfig{Name: ownerName, Email: ownerEmail},
		Data:     DataConfig{File: "ledger.json"},
		Currency: "USD",
		Cards:    CardsConfig{DefaultDueDay: 10},
		Report:   ReportConfig{Months: 6},
		Log:      LogConfig{Level: "warn"},
		Sync: SyncConfig{
			Git:         true,
			AuthorName:  ownerName,
			AuthorEmail: ownerEmail,
		},
	}
}

// Validate reports every setting that is out of range.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Data.File) == "" {
		errs = append(errs, errors.New("data.file must be set"))
	}
	if len(c.Currency) != 3 {
		errs = append(errs, fmt.Errorf("currency must be a three-letter code, got %q", c.Currency))
	}
	if d := c.Cards.DefaultDueDay; d < 1 || d > 28 {
		errs = append(errs, fmt.Errorf("cards.default_due_day must be between 1 and 28, got %d", d))
	}
	if c.Report.Months < 1 {
		errs = append(errs, fmt.Errorf("report.months must be positive, got %d", c.Report.Months))
	}
	seen := make(map[string]bool)
	for i, s := range c.Sources {
		switch {
		case s.Name == "":
			errs = append(errs, fmt.Errorf("import_sources[%d]: name must be set", i))
		case seen[s.Name]:
			errs = append(errs, fmt.Errorf("import_sources[%d]: duplicate name %q", i, s.Name))
		case s.Account == "" && s.Card == "":
			errs = append(errs, fmt.Errorf("import_sources[%d]: account or card must be set", i))
		}
		seen[s.Name] = true
	}
	return errors.Join(errs...)
}

// Source returns the import source with the given name.
func (c *Config) Source(name string) (ImportSource, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return ImportSource{}, false
}
