package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	// StorageTypeMemory keeps the telemetry history in process memory
	StorageTypeMemory = "memory"
	// StorageTypeSQLite keeps the telemetry history in a sqlite database
	StorageTypeSQLite = "sqlite"
)

// StorageConfig defines where the per-team telemetry history is kept
type StorageConfig struct {
	Type string `toml:"Type"`
	Path string `toml:"Path"`
}

// MotorLookupConfig defines the motor catalog used to enrich team registrations
type MotorLookupConfig struct {
	Enabled          bool   `toml:"Enabled"`
	URL              string `toml:"URL"`
	TimeoutInSeconds uint32 `toml:"TimeoutInSeconds"`
}

// Config maps to the config.toml file for the relay service
type Config struct {
	ListenAddress         string            `toml:"ListenAddress"`
	HistorySize           int               `toml:"HistorySize"`
	SendQueueSize         int               `toml:"SendQueueSize"`
	WriteTimeoutInSeconds uint32            `toml:"WriteTimeoutInSeconds"`
	MaxInboundMessageSize int64             `toml:"MaxInboundMessageSize"`
	Storage               StorageConfig     `toml:"Storage"`
	MotorLookup           MotorLookupConfig `toml:"MotorLookup"`
}

// DefaultConfig returns the configuration used when the config file omits values
func DefaultConfig() Config {
	return Config{
		ListenAddress:         ":3005",
		HistorySize:           100,
		SendQueueSize:         256,
		WriteTimeoutInSeconds: 10,
		MaxInboundMessageSize: 1024 * 1024,
		Storage: StorageConfig{
			Type: StorageTypeMemory,
		},
		MotorLookup: MotorLookupConfig{
			Enabled:          true,
			URL:              "https://www.thrustcurve.org",
			TimeoutInSeconds: 5,
		},
	}
}

// LoadConfig parses a TOML file into the Config struct. Values not present in the file keep their defaults.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	cfg := DefaultConfig()
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the values that would otherwise break the relay at runtime
func (cfg Config) Validate() error {
	if cfg.HistorySize < 1 {
		return fmt.Errorf("%w: HistorySize must be positive, got %d", ErrInvalidConfig, cfg.HistorySize)
	}
	if cfg.SendQueueSize < 1 {
		return fmt.Errorf("%w: SendQueueSize must be positive, got %d", ErrInvalidConfig, cfg.SendQueueSize)
	}
	if cfg.MaxInboundMessageSize < 1 {
		return fmt.Errorf("%w: MaxInboundMessageSize must be positive, got %d", ErrInvalidConfig, cfg.MaxInboundMessageSize)
	}

	switch cfg.Storage.Type {
	case StorageTypeMemory:
	case StorageTypeSQLite:
		if len(cfg.Storage.Path) == 0 {
			return fmt.Errorf("%w: sqlite storage requires a Path", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage type %q", ErrInvalidConfig, cfg.Storage.Type)
	}

	if cfg.MotorLookup.Enabled && len(cfg.MotorLookup.URL) == 0 {
		return fmt.Errorf("%w: motor lookup is enabled but has no URL", ErrInvalidConfig)
	}

	return nil
}
