package broker

import "errors"

// ErrNilConnectionRegistry signals that a nil connection registry was provided
var ErrNilConnectionRegistry = errors.New("nil connection registry")

// ErrNilTelemetryStorage signals that a nil telemetry storage was provided
var ErrNilTelemetryStorage = errors.New("nil telemetry storage")

// ErrNilEmitter signals that a nil emitter was provided
var ErrNilEmitter = errors.New("nil emitter")

// ErrInvalidLookupTimeout signals a non-positive motor lookup timeout
var ErrInvalidLookupTimeout = errors.New("invalid motor lookup timeout")
