// Package config loads the optional TOML configuration file
// spec.md §6.3 describes: defaults for the extension bundle, the
// interpreter's step budget/pacing, and trace-on-by-default. The CLI
// replaces the step budget and pacing when their flags are given; its
// boolean flags can only turn an option on, not off.
//
// Grounded on lookbusy1344-arm_emulator/config/config.go's
// DefaultConfig/Load/LoadFrom shape, re-targeted from the ARM
// emulator's debugger/display/statistics sections to the ones RV32I
// execution actually needs.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk shape of rv32i's configuration file.
type Config struct {
	Extensions struct {
		M bool `toml:"m"`
		A bool `toml:"a"`
		F bool `toml:"f"`
		D bool `toml:"d"`
		Q bool `toml:"q"`
		C bool `toml:"c"`
		E bool `toml:"e"`
	} `toml:"extensions"`

	Execution struct {
		MaxSteps         uint64 `toml:"max_steps"`
		StepDelayMillis  int    `toml:"step_delay_millis"`
		AdvancePCOnEcall bool   `toml:"advance_pc_on_ecall"`
	} `toml:"execution"`

	Trace struct {
		Enabled bool `toml:"enabled"`
	} `toml:"trace"`

	Console struct {
		TTY bool `toml:"tty"`
	} `toml:"console"`
}

// DefaultConfig returns the configuration rv32i runs with when no
// --config file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Extensions.M = false
	cfg.Execution.MaxSteps = 0 // 0 means unbounded
	cfg.Execution.StepDelayMillis = 0
	cfg.Execution.AdvancePCOnEcall = true
	cfg.Trace.Enabled = false
	cfg.Console.TTY = false
	return cfg
}

// Load reads and decodes the TOML file at path on top of
// DefaultConfig, so a config file only needs to name the fields it
// overrides. A missing path is not an error: it yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
