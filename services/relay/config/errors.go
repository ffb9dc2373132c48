package config

import "errors"

// ErrInvalidConfig signals a config value the relay can not run with
var ErrInvalidConfig = errors.New("invalid config")
