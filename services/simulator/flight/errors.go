package flight

import "errors"

// ErrInvalidFlightDuration signals that an invalid flight duration was provided
var ErrInvalidFlightDuration = errors.New("invalid flight duration")

// ErrInvalidTickInterval signals that an invalid tick interval was provided
var ErrInvalidTickInterval = errors.New("invalid tick interval")

// ErrNilNoiseSource signals that a nil noise source was provided
var ErrNilNoiseSource = errors.New("nil noise source")
