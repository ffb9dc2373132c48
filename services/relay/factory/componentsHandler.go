package factory

import (
	"fmt"
	"time"

	"github.com/iulianpascalau/telemetry-relay/services/relay/api"
	"github.com/iulianpascalau/telemetry-relay/services/relay/broker"
	"github.com/iulianpascalau/telemetry-relay/services/relay/config"
	"github.com/iulianpascalau/telemetry-relay/services/relay/motor"
	"github.com/iulianpascalau/telemetry-relay/services/relay/registry"
	"github.com/iulianpascalau/telemetry-relay/services/relay/storage"
	"github.com/iulianpascalau/telemetry-relay/services/relay/transport"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("factory")

type componentsHandler struct {
	store     Storage
	hub       Hub
	relayCore RelayCore
	server    Server
}

// NewComponentsHandler creates and wires all the relay components
func NewComponentsHandler(cfg config.Config) (*componentsHandler, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	store, err := createStorage(cfg)
	if err != nil {
		return nil, err
	}

	ch, err := createComponents(cfg, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return ch, nil
}

func createStorage(cfg config.Config) (Storage, error) {
	switch cfg.Storage.Type {
	case config.StorageTypeSQLite:
		log.Info("using sqlite telemetry storage", "path", cfg.Storage.Path, "history size", cfg.HistorySize)
		return storage.NewSQLiteStorage(cfg.Storage.Path, cfg.HistorySize)
	case config.StorageTypeMemory:
		log.Info("using in-memory telemetry storage", "history size", cfg.HistorySize)
		return storage.NewMemoryStorage(cfg.HistorySize)
	default:
		return nil, fmt.Errorf("%w: unknown storage type %q", config.ErrInvalidConfig, cfg.Storage.Type)
	}
}

func createMotorLookup(cfg config.MotorLookupConfig) (broker.MotorLookup, time.Duration, error) {
	if !cfg.Enabled {
		return nil, 0, nil
	}

	timeout := time.Duration(cfg.TimeoutInSeconds) * time.Second
	client, err := motor.NewThrustCurveClient(cfg.URL, timeout)
	if err != nil {
		return nil, 0, err
	}

	return client, timeout, nil
}

func createComponents(cfg config.Config, store Storage) (*componentsHandler, error) {
	motorLookup, lookupTimeout, err := createMotorLookup(cfg.MotorLookup)
	if err != nil {
		return nil, err
	}

	hub, err := transport.NewHub(transport.ArgsHub{
		SendQueueSize:  cfg.SendQueueSize,
		WriteTimeout:   time.Duration(cfg.WriteTimeoutInSeconds) * time.Second,
		MaxMessageSize: cfg.MaxInboundMessageSize,
	})
	if err != nil {
		return nil, err
	}

	connectionsRegistry := registry.NewConnectionRegistry()
	relayCore, err := broker.NewBroker(broker.ArgsBroker{
		Registry:      connectionsRegistry,
		Storage:       store,
		Emitter:       hub,
		MotorLookup:   motorLookup,
		LookupTimeout: lookupTimeout,
	})
	if err != nil {
		_ = hub.Close()
		return nil, err
	}

	err = hub.SetEventHandler(relayCore)
	if err != nil {
		_ = hub.Close()
		_ = relayCore.Close()
		return nil, err
	}

	server, err := api.NewServer(api.ArgsWebServer{
		ListenAddress:  cfg.ListenAddress,
		SocketHandler:  hub,
		Clients:        connectionsRegistry,
		Drops:          relayCore,
		GeneralHandler: api.CORSMiddleware,
	})
	if err != nil {
		_ = hub.Close()
		_ = relayCore.Close()
		return nil, err
	}

	return &componentsHandler{
		store:     store,
		hub:       hub,
		relayCore: relayCore,
		server:    server,
	}, nil
}

// GetStore returns the storage component
func (ch *componentsHandler) GetStore() Storage {
	return ch.store
}

// GetHub returns the websocket hub
func (ch *componentsHandler) GetHub() Hub {
	return ch.hub
}

// GetRelayCore returns the connection events dispatcher
func (ch *componentsHandler) GetRelayCore() RelayCore {
	return ch.relayCore
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// Start starts the inner components
func (ch *componentsHandler) Start() error {
	return ch.server.Start()
}

// Close closes the inner components. The server stops accepting first, then the open connections are closed
func (ch *componentsHandler) Close() {
	err := ch.server.Close()
	log.LogIfError(err)

	err = ch.hub.Close()
	log.LogIfError(err)

	err = ch.relayCore.Close()
	log.LogIfError(err)

	err = ch.store.Close()
	log.LogIfError(err)
}
