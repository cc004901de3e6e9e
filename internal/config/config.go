// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/blinklabs-io/dgcpow/pow"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const (
	StateBackendBadger = "badger"
	StateBackendBolt   = "bolt"
)

type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Debug   DebugConfig   `yaml:"debug"`
	Api     ApiConfig     `yaml:"api"`
	State   StateConfig   `yaml:"state"`
	Chain   ChainConfig   `yaml:"chain"`
	EnvFile string        `yaml:"-"       envconfig:"ENV_FILE"`
}

type LoggingConfig struct {
	Level     string `yaml:"level"     envconfig:"LOGGING_LEVEL"`
	Retargets bool   `yaml:"retargets" envconfig:"LOGGING_RETARGETS"`
}

type DebugConfig struct {
	ListenAddress string `yaml:"address" envconfig:"DEBUG_ADDRESS"`
	ListenPort    uint   `yaml:"port"    envconfig:"DEBUG_PORT"`
}

type MetricsConfig struct {
	ListenAddress string `yaml:"address" envconfig:"METRICS_LISTEN_ADDRESS"`
	ListenPort    uint   `yaml:"port"    envconfig:"METRICS_LISTEN_PORT"`
}

type ApiConfig struct {
	ListenAddress string `yaml:"address" envconfig:"API_LISTEN_ADDRESS"`
	ListenPort    uint   `yaml:"port"    envconfig:"API_LISTEN_PORT"`
}

type StateConfig struct {
	Directory string `yaml:"dir"     envconfig:"STATE_DIR"`
	Backend   string `yaml:"backend" envconfig:"STATE_BACKEND"`
}

type ChainConfig struct {
	Network string `yaml:"network" envconfig:"CHAIN_NETWORK"`
	// Fork height overrides, unset means the network default
	DiffSwitchHeight   *int64 `yaml:"diffSwitchHeight"   envconfig:"CHAIN_DIFF_SWITCH_HEIGHT"`
	InflationFixHeight *int64 `yaml:"inflationFixHeight" envconfig:"CHAIN_INFLATION_FIX_HEIGHT"`
	Diff2SwitchHeight  *int64 `yaml:"diff2SwitchHeight"  envconfig:"CHAIN_DIFF2_SWITCH_HEIGHT"`
	V3Fork             *int64 `yaml:"v3Fork"             envconfig:"CHAIN_V3_FORK"`
	// Minimum-work checkpoint for incoming headers, disabled when bits is 0
	CheckpointBits uint32 `yaml:"checkpointBits" envconfig:"CHAIN_CHECKPOINT_BITS"`
	CheckpointTime int64  `yaml:"checkpointTime" envconfig:"CHAIN_CHECKPOINT_TIME"`
	// Seconds added to the local clock when stamping headers
	TimeOffset int64 `yaml:"timeOffset" envconfig:"CHAIN_TIME_OFFSET"`
}

// Singleton config instance with default values
var globalConfig = &Config{
	Logging: LoggingConfig{
		Level: "info",
	},
	Debug: DebugConfig{
		ListenAddress: "localhost",
		ListenPort:    0,
	},
	Metrics: MetricsConfig{
		ListenAddress: "",
		ListenPort:    8081,
	},
	Api: ApiConfig{
		ListenAddress: "",
		ListenPort:    8080,
	},
	State: StateConfig{
		Directory: "./.state",
		Backend:   StateBackendBadger,
	},
	Chain: ChainConfig{
		Network: "main",
	},
	EnvFile: ".env",
}

func Load(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		err = yaml.Unmarshal(buf, globalConfig)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Populate the environment from a dotenv file, if one exists. Variables
	// already set in the environment take precedence
	envFile := globalConfig.EnvFile
	if v, ok := os.LookupEnv("ENV_FILE"); ok {
		envFile = v
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading env file: %w", err)
		}
	}
	// Load config values from environment variables
	// We use "dummy" as the app name here to (mostly) prevent picking up env
	// vars that we hadn't explicitly specified in annotations above
	err := envconfig.Process("dummy", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if err := globalConfig.validate(); err != nil {
		return nil, err
	}
	return globalConfig, nil
}

func (c *Config) validate() error {
	switch c.State.Backend {
	case StateBackendBadger, StateBackendBolt:
	default:
		return fmt.Errorf(
			"unknown state backend %q: must be %q or %q",
			c.State.Backend,
			StateBackendBadger,
			StateBackendBolt,
		)
	}
	if _, err := c.ChainParams(); err != nil {
		return err
	}
	return nil
}

// ChainParams returns the consensus parameters for the configured network
// with any fork height overrides applied
func (c *Config) ChainParams() (*pow.Params, error) {
	params, err := pow.SelectNetwork(c.Chain.Network)
	if err != nil {
		return nil, err
	}
	overrides := []struct {
		value  *int64
		target *int64
	}{
		{c.Chain.DiffSwitchHeight, &params.Forks.DiffSwitchHeight},
		{c.Chain.InflationFixHeight, &params.Forks.InflationFixHeight},
		{c.Chain.Diff2SwitchHeight, &params.Forks.Diff2SwitchHeight},
		{c.Chain.V3Fork, &params.Forks.V3Fork},
	}
	for _, o := range overrides {
		if o.value != nil {
			*o.target = *o.value
		}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// GetConfig returns the global config instance
func GetConfig() *Config {
	return globalConfig
}
