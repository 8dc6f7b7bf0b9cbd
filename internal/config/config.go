package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration. It describes where the
// holiday definitions live, where generated calendars go, and how the
// optional watch/serve modes behave. The holiday definitions themselves are
// a separate JSON document (see internal/holiday).
type Config struct {
	// Definitions is the path of the region-keyed holiday definitions file.
	// The file doubles as the persistent identifier store and is rewritten
	// at the end of every successful run.
	Definitions string `yaml:"definitions" json:"definitions"`

	// OutputDir is where per-region .ics files are written.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// StartYear / EndYear bound the inclusive compilation window.
	StartYear int `yaml:"start_year" json:"start_year"`
	EndYear   int `yaml:"end_year" json:"end_year"`

	// ProdID is the iCalendar PRODID emitted into every calendar.
	ProdID string `yaml:"prodid" json:"prodid"`

	// Listen is the HTTP listen address for serve mode.
	Listen string `yaml:"listen" json:"listen"`

	// RefreshCron is a cron-style schedule string (e.g. "0 4 * * *")
	// controlling how often watch mode recompiles the calendars.
	RefreshCron string `yaml:"refresh" json:"refresh"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Definitions: "calendar.json",
		OutputDir:   "./docs",
		StartYear:   1999,
		EndYear:     2099,
		ProdID:      "-//holcal//Holiday Calendars//DE",
		Listen:      "127.0.0.1:8080",
		RefreshCron: "0 4 * * *",
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Definitions == "" {
		c.Definitions = "calendar.json"
	}
	if c.OutputDir == "" {
		c.OutputDir = "./docs"
	}
	if c.StartYear == 0 {
		c.StartYear = 1999
	}
	if c.EndYear == 0 {
		c.EndYear = 2099
	}
	if c.ProdID == "" {
		c.ProdID = "-//holcal//Holiday Calendars//DE"
	}
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "0 4 * * *"
	}
}

// Validate rejects window settings the compiler cannot honor. Normalize
// fills blanks; Validate is about values that are present but wrong.
func (c *Config) Validate() error {
	if c.EndYear < c.StartYear {
		return fmt.Errorf("config: end_year %d is before start_year %d", c.EndYear, c.StartYear)
	}
	return nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return WriteFileAtomic(path, data, 0o600)
}

// WriteFileAtomic writes data to path via a temp file in the same directory
// followed by a rename, creating the parent directory if needed. Shared by
// the config saver, the definitions saver, and the calendar writer.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".holcal-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
