// Package config loads the console configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSlippageBps is applied when the config leaves slippageBps unset.
const DefaultSlippageBps = 100

// ConsoleConfig selects the chain, the snapshot source and the quoting
// defaults. Exactly one of StateStreamURL or SnapshotFile must be set.
type ConsoleConfig struct {
	ChainID        uint64 `yaml:"chainId"`
	StateStreamURL string `yaml:"stateStreamUrl"`
	SnapshotFile   string `yaml:"snapshotFile"`
	SlippageBps    int64  `yaml:"slippageBps"`
}

func (c *ConsoleConfig) validate() error {
	if c.ChainID == 0 {
		return errors.New("config: chainId is required")
	}
	if c.StateStreamURL == "" && c.SnapshotFile == "" {
		return errors.New("config: one of stateStreamUrl or snapshotFile is required")
	}
	if c.StateStreamURL != "" && c.SnapshotFile != "" {
		return errors.New("config: stateStreamUrl and snapshotFile are mutually exclusive")
	}
	if c.SlippageBps < 0 {
		return errors.New("config: slippageBps must not be negative")
	}
	return nil
}

// LoadConfig reads and validates the YAML config at path.
func LoadConfig(path string) (*ConsoleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &ConsoleConfig{SlippageBps: DefaultSlippageBps}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
