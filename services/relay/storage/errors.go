package storage

import "errors"

// ErrInvalidHistorySize signals a non-positive history size
var ErrInvalidHistorySize = errors.New("history size must be positive")
