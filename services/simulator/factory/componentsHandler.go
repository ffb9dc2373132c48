package factory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/iulianpascalau/telemetry-relay/commonGo"
	"github.com/iulianpascalau/telemetry-relay/services/simulator/config"
	"github.com/iulianpascalau/telemetry-relay/services/simulator/engine"
	"github.com/iulianpascalau/telemetry-relay/services/simulator/flight"
	"github.com/iulianpascalau/telemetry-relay/services/simulator/sender"
)

const maxFlightID = 100000

type componentsHandler struct {
	sender         engine.Sender
	flightModel    engine.FlightModel
	engine         Engine
	mutCancel      sync.Mutex
	cancel         func()
	updateInterval time.Duration
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(cfg config.Config) (*componentsHandler, error) {
	updateInterval := time.Duration(cfg.UpdateIntervalInMilliseconds) * time.Millisecond

	wsSender, err := sender.NewWebsocketSender(cfg.RelayURL, time.Duration(cfg.DialTimeoutInSeconds)*time.Second)
	if err != nil {
		return nil, err
	}

	flightID := rand.Int63n(maxFlightID)
	model, err := flight.NewFlightModel(flight.ArgsFlightModel{
		FlightID:       flightID,
		TeamID:         cfg.TeamID,
		FlightDuration: time.Duration(cfg.FlightDurationInSeconds) * time.Second,
		TickInterval:   updateInterval,
		NoiseSource:    rand.Float64,
	})
	if err != nil {
		return nil, err
	}

	eng, err := engine.NewSimulatorEngine(engine.ArgsSimulatorEngine{
		FlightID:          flightID,
		TeamID:            cfg.TeamID,
		MotorManufacturer: cfg.MotorManufacturer,
		MotorDesignation:  cfg.MotorDesignation,
		RestartDelay:      time.Duration(cfg.RestartDelayInSeconds) * time.Second,
		Sender:            wsSender,
		FlightModel:       model,
	})
	if err != nil {
		return nil, err
	}

	return &componentsHandler{
		sender:         wsSender,
		flightModel:    model,
		engine:         eng,
		updateInterval: updateInterval,
	}, nil
}

// GetSender returns the relay sender component
func (ch *componentsHandler) GetSender() engine.Sender {
	return ch.sender
}

// GetFlightModel returns the flight model component
func (ch *componentsHandler) GetFlightModel() engine.FlightModel {
	return ch.flightModel
}

// GetEngine returns the engine component
func (ch *componentsHandler) GetEngine() Engine {
	return ch.engine
}

// Start starts the inner components
func (ch *componentsHandler) Start() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		return
	}

	var ctx context.Context
	ctx, ch.cancel = context.WithCancel(context.Background())

	commonGo.CronJobStarter(ctx, ch.engine.Process, ch.updateInterval)
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel == nil {
		return
	}

	ch.cancel()
	ch.cancel = nil

	_ = ch.sender.Close()
}
