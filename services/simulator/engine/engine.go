package engine

import (
	"context"
	"time"

	"github.com/iulianpascalau/telemetry-relay/services/simulator/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const roleTeam = "team"

var log = logger.GetOrCreate("engine")

// ArgsSimulatorEngine defines the arguments needed to create a new simulator engine
type ArgsSimulatorEngine struct {
	FlightID          int64
	TeamID            int64
	MotorManufacturer string
	MotorDesignation  string
	RestartDelay      time.Duration
	Sender            Sender
	FlightModel       FlightModel
}

// simulatorEngine flies the model one tick at a time and keeps the relay connection registered
type simulatorEngine struct {
	registration common.Registration
	restartDelay time.Duration
	sender       Sender
	flightModel  FlightModel
	now          func() time.Time

	connected bool
	started   bool
	landedAt  *time.Time
}

// NewSimulatorEngine creates a new engine instance
func NewSimulatorEngine(args ArgsSimulatorEngine) (*simulatorEngine, error) {
	if check.IfNil(args.Sender) {
		return nil, ErrNilSender
	}
	if check.IfNil(args.FlightModel) {
		return nil, ErrNilFlightModel
	}
	if args.TeamID <= 0 {
		return nil, ErrInvalidTeamID
	}

	return &simulatorEngine{
		registration: createRegistration(args),
		restartDelay: args.RestartDelay,
		sender:       args.Sender,
		flightModel:  args.FlightModel,
		now:          time.Now,
	}, nil
}

// createRegistration only declares the motor when both of its fields are known
func createRegistration(args ArgsSimulatorEngine) common.Registration {
	registration := common.Registration{
		Role:   roleTeam,
		TeamID: args.TeamID,
		ID:     args.FlightID,
	}
	if len(args.MotorManufacturer) > 0 && len(args.MotorDesignation) > 0 {
		manufacturer := args.MotorManufacturer
		designation := args.MotorDesignation
		registration.MotorManufacturer = &manufacturer
		registration.MotorDesignation = &designation
	}

	return registration
}

// Process sends the next telemetry packet, (re)connecting and registering first if needed
func (e *simulatorEngine) Process(ctx context.Context) {
	if !e.connected {
		err := e.connect(ctx)
		if err != nil {
			log.Warn("relay is unreachable, will retry on the next tick", "error", err)
			return
		}
	}

	now := e.now()
	if !e.started {
		e.started = true
		e.flightModel.Start(now)
	}
	if e.landedAt != nil {
		if now.Sub(*e.landedAt) < e.restartDelay {
			return
		}

		log.Info("restarting the flight simulation", "team", e.registration.TeamID)
		e.landedAt = nil
		e.flightModel.Start(now)
	}

	packet := e.flightModel.Next(now)
	err := e.sender.SendTelemetry(packet)
	if err != nil {
		log.Warn("failed to send telemetry, reconnecting on the next tick", "error", err)
		e.connected = false
		return
	}

	log.Debug("sent telemetry", "altitude", packet.Altitude, "velocity", packet.Velocity, "phase", packet.Status)

	if packet.Status == common.PhaseLanded {
		log.Info("flight simulation complete", "max altitude", packet.MaxAltitude, "max velocity", packet.MaxVelocity)
		e.landedAt = &now
	}
}

func (e *simulatorEngine) connect(ctx context.Context) error {
	err := e.sender.Connect(ctx)
	if err != nil {
		return err
	}

	err = e.sender.Register(e.registration)
	if err != nil {
		return err
	}

	e.connected = true
	log.Info("registered with the relay", "team", e.registration.TeamID, "motor declared", e.registration.MotorManufacturer != nil)

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (e *simulatorEngine) IsInterfaceNil() bool {
	return e == nil
}
