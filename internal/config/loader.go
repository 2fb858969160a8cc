package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/matchsight/matchsight/internal/valuation"
)

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	// Expand path
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	// Read file
	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'matchsight config init' to create)", expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Parse TOML
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Expand paths in config
	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads config or exits with error
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.Database.Path, err = expandPath(c.Database.Path)
	if err != nil {
		return err
	}

	c.Valuations.Dir, err = expandPath(c.Valuations.Dir)
	if err != nil {
		return err
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Accounts validation
	if c.Accounts.Real == "" {
		errs = append(errs, errors.New("accounts.real is required"))
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	// Valuations validation
	if c.Valuations.Dir == "" {
		errs = append(errs, errors.New("valuations.dir is required"))
	}
	if c.Valuations.DefaultSlot == "" {
		errs = append(errs, errors.New("valuations.default_slot is required"))
	}

	// Rating validation
	if len(c.Rating.Categories) == 0 {
		errs = append(errs, errors.New("rating.categories must not be empty"))
	}
	if _, ok := c.Rating.Categories[valuation.CategorySkipped]; ok {
		errs = append(errs, fmt.Errorf("rating.categories key %q is reserved", valuation.CategorySkipped))
	}
	if c.Rating.SaveInterval < 1 {
		errs = append(errs, errors.New("rating.save_interval must be at least 1"))
	}

	// Recommend validation
	if c.Recommend.FCutoff < 0 || c.Recommend.FCutoff > 1 {
		errs = append(errs, errors.New("recommend.f_cutoff must be between 0 and 1"))
	}
	if c.Recommend.NCutoff < 0 {
		errs = append(errs, errors.New("recommend.n_cutoff must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// EnsureDirectories creates necessary directories for database and valuations
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Database.Path),
		c.Valuations.Dir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
