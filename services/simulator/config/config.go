package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config maps to the config.toml file for the telemetry simulator
type Config struct {
	RelayURL                     string `toml:"RelayURL"`
	TeamID                       int64  `toml:"TeamID"`
	MotorManufacturer            string `toml:"MotorManufacturer"`
	MotorDesignation             string `toml:"MotorDesignation"`
	UpdateIntervalInMilliseconds uint32 `toml:"UpdateIntervalInMilliseconds"`
	FlightDurationInSeconds      uint32 `toml:"FlightDurationInSeconds"`
	RestartDelayInSeconds        uint32 `toml:"RestartDelayInSeconds"`
	DialTimeoutInSeconds         uint32 `toml:"DialTimeoutInSeconds"`
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &cfg, nil
}
