package api

import "errors"

// ErrNilSocketHandler signals that a nil socket handler was provided
var ErrNilSocketHandler = errors.New("nil socket handler")

// ErrNilClientsProvider signals that a nil clients provider was provided
var ErrNilClientsProvider = errors.New("nil clients provider")

// ErrNilDropsProvider signals that a nil drops provider was provided
var ErrNilDropsProvider = errors.New("nil drops provider")

// ErrNilHTTPHandler signals that a nil general HTTP handler was provided
var ErrNilHTTPHandler = errors.New("nil http handler")
