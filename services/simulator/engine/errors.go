package engine

import "errors"

// ErrNilSender signals that a nil sender was provided
var ErrNilSender = errors.New("nil sender")

// ErrNilFlightModel signals that a nil flight model was provided
var ErrNilFlightModel = errors.New("nil flight model")

// ErrInvalidTeamID signals that an invalid team ID was provided
var ErrInvalidTeamID = errors.New("invalid team ID")
