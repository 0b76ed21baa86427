// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML can carry values like "90s" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	td, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: bad duration %q: %w", s, err)
	}
	*d = Duration(td)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// PoolConfig tunes the execution-context pool.
type PoolConfig struct {
	MaxPerCategory int      `yaml:"max_per_category"`
	IdleTimeout    Duration `yaml:"idle_timeout"`
	SweepPeriod    Duration `yaml:"sweep_period"`
}

// CacheConfig tunes the sequence cache.
type CacheConfig struct {
	Shared bool `yaml:"shared"`
}

// ScanConfig carries the anomaly-scan defaults.
type ScanConfig struct {
	Window int `yaml:"window"`
	Step   int `yaml:"step"`
}

// SearchConfig carries the search defaults.
type SearchConfig struct {
	HitCap int `yaml:"hit_cap"`
}

// Config is the full compute-layer configuration.
type Config struct {
	Pool   PoolConfig   `yaml:"pool"`
	Cache  CacheConfig  `yaml:"cache"`
	Scan   ScanConfig   `yaml:"scan"`
	Search SearchConfig `yaml:"search"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Pool: PoolConfig{
			MaxPerCategory: 8,
			IdleTimeout:    Duration(2 * time.Minute),
			SweepPeriod:    Duration(30 * time.Second),
		},
		Cache:  CacheConfig{Shared: true},
		Scan:   ScanConfig{Window: 500, Step: 250},
		Search: SearchConfig{HitCap: 500},
	}
}

// Load overlays a YAML file onto the defaults. A missing path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the pool cannot run with.
func (c Config) Validate() error {
	if c.Pool.MaxPerCategory < 1 {
		return fmt.Errorf("config: pool.max_per_category must be >= 1, got %d", c.Pool.MaxPerCategory)
	}
	if c.Scan.Window < 1 || c.Scan.Step < 1 {
		return fmt.Errorf("config: scan window/step must be >= 1, got %d/%d", c.Scan.Window, c.Scan.Step)
	}
	if c.Search.HitCap < 1 {
		return fmt.Errorf("config: search.hit_cap must be >= 1, got %d", c.Search.HitCap)
	}
	return nil
}
