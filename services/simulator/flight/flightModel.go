package flight

import (
	"math"
	"time"

	"github.com/iulianpascalau/telemetry-relay/services/simulator/common"
)

const (
	timestampLayout     = "2006-01-02T15:04:05.000Z"
	gravity             = -9.8
	parachuteVelocity   = -15.0
	groundTemperature   = 25.0
	seaLevelPressureKPa = 101.325
)

// ArgsFlightModel defines the arguments needed to create a new flight model
type ArgsFlightModel struct {
	FlightID       int64
	TeamID         int64
	FlightDuration time.Duration
	TickInterval   time.Duration
	// NoiseSource returns uniformly distributed values in [0, 1)
	NoiseSource func() float64
}

// flightModel produces a loosely physical altitude profile split into phases by the elapsed fraction of the flight
type flightModel struct {
	flightID       int64
	teamID         int64
	flightDuration time.Duration
	dt             float64
	noise          func() float64

	startTime    time.Time
	phase        string
	altitude     float64
	velocity     float64
	acceleration float64
	temperature  float64
	maxAltitude  float64
	maxVelocity  float64
	pressure     float64
}

// NewFlightModel creates a new flight model
func NewFlightModel(args ArgsFlightModel) (*flightModel, error) {
	if args.FlightDuration <= 0 {
		return nil, ErrInvalidFlightDuration
	}
	if args.TickInterval <= 0 {
		return nil, ErrInvalidTickInterval
	}
	if args.NoiseSource == nil {
		return nil, ErrNilNoiseSource
	}

	fm := &flightModel{
		flightID:       args.FlightID,
		teamID:         args.TeamID,
		flightDuration: args.FlightDuration,
		dt:             args.TickInterval.Seconds(),
		noise:          args.NoiseSource,
	}
	fm.Start(time.Now())

	return fm, nil
}

// Start resets the model for a new flight beginning at the provided time
func (fm *flightModel) Start(now time.Time) {
	fm.startTime = now
	fm.phase = common.PhasePreLaunch
	fm.altitude = 0
	fm.velocity = 0
	fm.acceleration = 0
	fm.temperature = groundTemperature
	fm.maxAltitude = 0
	fm.maxVelocity = 0
	fm.pressure = seaLevelPressureKPa
}

// Next advances the model by one tick and returns the resulting packet
func (fm *flightModel) Next(now time.Time) common.Telemetry {
	fraction := now.Sub(fm.startTime).Seconds() / fm.flightDuration.Seconds()

	fm.phase = phaseOf(fraction)
	fm.advance(fraction)

	fm.maxAltitude = math.Max(fm.maxAltitude, fm.altitude)
	fm.maxVelocity = math.Max(fm.maxVelocity, math.Abs(fm.velocity))

	return common.Telemetry{
		ID:           fm.flightID,
		TeamID:       fm.teamID,
		Timestamp:    now.UTC().Format(timestampLayout),
		Altitude:     fm.altitude,
		Velocity:     fm.velocity,
		Acceleration: fm.acceleration,
		Temperature:  fm.temperature,
		MaxAltitude:  fm.maxAltitude,
		MaxVelocity:  fm.maxVelocity,
		Pressure:     fm.pressure,
		Status:       fm.phase,
	}
}

func phaseOf(fraction float64) string {
	switch {
	case fraction < 0.1:
		return common.PhaseBoost
	case fraction < 0.4:
		return common.PhaseCoast
	case fraction < 0.5:
		return common.PhaseApogee
	case fraction < 0.9:
		return common.PhaseDescent
	default:
		return common.PhaseLanded
	}
}

func (fm *flightModel) advance(fraction float64) {
	switch fm.phase {
	case common.PhaseBoost:
		fm.acceleration = 30 + 10*math.Sin(fraction*10)
		fm.velocity += fm.acceleration * fm.dt
		fm.altitude += fm.velocity * fm.dt
		fm.temperature = groundTemperature + 40*fraction
	case common.PhaseCoast:
		fm.acceleration = gravity
		fm.velocity += fm.acceleration * fm.dt
		fm.altitude += fm.velocity * fm.dt
		fm.temperature = math.Max(groundTemperature, fm.temperature-2)
	case common.PhaseApogee:
		fm.acceleration = gravity
		fm.velocity *= 0.5
		fm.altitude += fm.velocity * fm.dt
		fm.temperature = math.Max(0, fm.temperature-5)
	case common.PhaseDescent:
		fm.acceleration = gravity
		if fm.velocity < parachuteVelocity {
			fm.velocity = parachuteVelocity
		} else {
			fm.velocity += fm.acceleration * fm.dt
		}
		fm.altitude = math.Max(0, fm.altitude+fm.velocity*fm.dt)
		fm.temperature = math.Max(10, fm.temperature-1)
	default:
		fm.acceleration = 0
		fm.velocity = 0
		fm.altitude = 0
		fm.temperature = groundTemperature
	}

	// simplified barometric formula
	fm.pressure = seaLevelPressureKPa * math.Exp(-0.0001*fm.altitude)

	fm.altitude += (fm.noise() - 0.5) * 2
	fm.velocity += fm.noise() - 0.5
	fm.temperature += (fm.noise() - 0.5) * 0.5
	fm.pressure += (fm.noise() - 0.5) * 0.1
}

// IsInterfaceNil returns true if the value under the interface is nil
func (fm *flightModel) IsInterfaceNil() bool {
	return fm == nil
}
