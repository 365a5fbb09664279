// File: facade/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Runtime configuration: defaults, YAML loading, and validation.

package facade

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-sched/api"
	"github.com/momentics/hioload-sched/core/sched"
	"github.com/momentics/hioload-sched/internal/concurrency"
)

// Config holds parameters immutable per run.
// All fields influence shard construction and cannot be changed at
// runtime; current values remain visible through the Control interface.
type Config struct {
	Shards        int    `yaml:"shards"`         // Number of shard goroutines
	InboxCapacity int    `yaml:"inbox_capacity"` // Capacity of each shard's cross-shard inbox
	BatchSize     int    `yaml:"batch_size"`     // Tasks run per scheduling decision
	PinThreads    bool   `yaml:"pin_threads"`    // Whether to pin shard threads to CPUs
	FirstCPU      int    `yaml:"first_cpu"`      // First CPU index used when pinning
	DefaultShares uint   `yaml:"default_shares"` // Scheduling weight of the default group
	Name          string `yaml:"name"`           // Human-readable runtime instance name
}

// DefaultConfig returns default configuration values.
// These sane defaults support typical use cases without extensive tuning.
func DefaultConfig() *Config {
	return &Config{
		Shards:        concurrency.NumCPUs(), // One shard per CPU
		InboxCapacity: 1024,                  // 1024-entry inbox ring per shard
		BatchSize:     64,                    // 64 tasks per scheduling decision
		PinThreads:    false,                 // Leave thread placement to the OS
		FirstCPU:      0,                     // Pin shard 0 to CPU 0 when pinning
		DefaultShares: sched.DefaultShares,   // Baseline scheduling weight
		Name:          "hioload-sched",       // Instance name for diagnostics
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Fields absent from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config read failure: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config parse failure: %w", err)
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.Shards < 1 {
		return fmt.Errorf("%w: shards must be at least 1", api.ErrInvalidArgument)
	}
	if c.InboxCapacity < 1 {
		return fmt.Errorf("%w: inbox_capacity must be at least 1", api.ErrInvalidArgument)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch_size must be at least 1", api.ErrInvalidArgument)
	}
	if c.DefaultShares < 1 {
		return fmt.Errorf("%w: default_shares must be at least 1", api.ErrInvalidArgument)
	}
	if c.PinThreads && (c.FirstCPU < 0 || c.FirstCPU >= concurrency.NumCPUs()) {
		return fmt.Errorf("%w: first_cpu out of range", api.ErrInvalidArgument)
	}
	return nil
}
