package broker

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iulianpascalau/telemetry-relay/services/relay/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"
)

const maxGeneratedSampleID = 100000

var log = logger.GetOrCreate("broker")

// ArgsBroker defines the arguments needed to create a new broker
type ArgsBroker struct {
	Registry      ConnectionRegistry
	Storage       TelemetryStorage
	Emitter       Emitter
	MotorLookup   MotorLookup
	LookupTimeout time.Duration
}

// broker dispatches the connection events: it owns the registration, telemetry ingest, command and history protocols.
// Every unauthorized or malformed event is dropped silently, the sender never gets an error back
type broker struct {
	registry      ConnectionRegistry
	storage       TelemetryStorage
	emitter       Emitter
	motorLookup   MotorLookup
	lookupTimeout time.Duration
	pending       *pendingLookups
	drops         *dropCounter
	now           func() time.Time
	randomID      func() int64
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// NewBroker creates a new broker. A nil MotorLookup disables the registration enrichment
func NewBroker(args ArgsBroker) (*broker, error) {
	if check.IfNil(args.Registry) {
		return nil, ErrNilConnectionRegistry
	}
	if check.IfNil(args.Storage) {
		return nil, ErrNilTelemetryStorage
	}
	if check.IfNil(args.Emitter) {
		return nil, ErrNilEmitter
	}

	motorLookup := args.MotorLookup
	if check.IfNil(motorLookup) {
		log.Info("motor lookup is disabled, registrations will not be enriched")
		motorLookup = nil
	} else if args.LookupTimeout <= 0 {
		return nil, ErrInvalidLookupTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &broker{
		registry:      args.Registry,
		storage:       args.Storage,
		emitter:       args.Emitter,
		motorLookup:   motorLookup,
		lookupTimeout: args.LookupTimeout,
		pending:       newPendingLookups(),
		drops:         newDropCounter(),
		now:           time.Now,
		randomID: func() int64 {
			return rand.Int63n(maxGeneratedSampleID)
		},
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// HandleConnect records the new connection as an unregistered viewer
func (b *broker) HandleConnect(connectionID string) {
	b.registry.Put(connectionID, common.Identity{
		ID:   connectionID,
		Role: common.RoleViewer,
	})

	log.Debug("client connected", "connection", connectionID)
}

// HandleEvent dispatches one inbound event. The transport calls it serially for each connection
func (b *broker) HandleEvent(ctx context.Context, connectionID string, event string, data json.RawMessage) {
	switch event {
	case common.EventRegister:
		b.handleRegister(ctx, connectionID, data)
	case common.EventTelemetry:
		b.handleTelemetry(ctx, connectionID, data)
	case common.EventCommand:
		b.handleCommand(connectionID, data)
	case common.EventCurrentTeamTelemetryUpdate:
		b.emitter.BroadcastExcept(connectionID, common.EventCurrentTeamTelemetryUpdate, rawOrNull(data))
	case common.EventRequestTelemetryHistory:
		b.handleHistoryRequest(ctx, connectionID, data)
	default:
		b.drop(connectionID, ReasonMalformedEvent, "event", event)
	}
}

// HandleDisconnect discards any pending lookup, notifies the other connections and forgets the connection
func (b *broker) HandleDisconnect(connectionID string) {
	b.pending.discard(connectionID)

	notice := common.DisconnectNotice{
		ID: connectionID,
	}

	identity, found := b.registry.Get(connectionID)
	if found {
		role := identity.Role
		notice.Role = &role
		notice.TeamID = identity.TeamID
	}

	log.Debug("client disconnected", "connection", connectionID, "role", identity.Role, "team", formatTeamID(identity.TeamID))

	b.emitter.BroadcastExcept(connectionID, common.EventClientDisconnected, notice)
	b.registry.Remove(connectionID)
}

func (b *broker) handleRegister(ctx context.Context, connectionID string, data json.RawMessage) {
	reg, ok := parseRegistration(data)
	if !ok {
		b.drop(connectionID, ReasonMissingRole)
		return
	}

	// a newer registration supersedes any lookup still in flight for this connection
	b.pending.discard(connectionID)

	identity := reg.identity(connectionID)
	b.registry.Put(connectionID, identity)

	log.Debug("client registered", "connection", connectionID, "role", identity.Role, "team", formatTeamID(identity.TeamID))

	if reg.hasMotor() && b.motorLookup != nil {
		b.startMotorLookup(connectionID, identity)
		return
	}

	b.notifyRegistration(ctx, connectionID, identity)
}

func (b *broker) startMotorLookup(connectionID string, identity common.Identity) {
	ctx, cancel := context.WithTimeout(b.ctx, b.lookupTimeout)
	token := b.pending.start(connectionID, cancel)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer cancel()

		stats, err := b.motorLookup.Lookup(ctx, *identity.MotorManufacturer, *identity.MotorDesignation)
		if err != nil {
			log.Warn("motor lookup failed, registering without motor stats", "connection", connectionID,
				"manufacturer", *identity.MotorManufacturer, "designation", *identity.MotorDesignation, "error", err)
			stats = nil
		}
		identity.MotorStats = stats

		applied := b.pending.complete(connectionID, token, func() {
			b.registry.Put(connectionID, identity)
			b.notifyRegistration(b.ctx, connectionID, identity)
		})
		if !applied {
			log.Debug("discarding motor lookup result of a stale registration", "connection", connectionID)
		}
	}()
}

func (b *broker) notifyRegistration(ctx context.Context, connectionID string, identity common.Identity) {
	if identity.Role == common.RoleTeam && identity.HasTeam() {
		history, err := b.storage.History(ctx, *identity.TeamID)
		if err != nil {
			log.Warn("failed to read team history", "connection", connectionID, "team", *identity.TeamID, "error", err)
		} else if len(history) > 0 {
			b.emitter.Emit(connectionID, common.EventTelemetryHistory, history)
		}
	}

	b.emitter.BroadcastExcept(connectionID, common.EventClientConnected, identity)
}

func (b *broker) handleTelemetry(ctx context.Context, connectionID string, data json.RawMessage) {
	sender, found := b.registry.Get(connectionID)
	if !found {
		b.drop(connectionID, ReasonUnregisteredSender)
		return
	}

	payload := gjson.ParseBytes(data)
	if !payload.IsObject() {
		b.drop(connectionID, ReasonMalformedEvent, "event", common.EventTelemetry)
		return
	}

	reportedTeam := payload.Get("teamId")
	if isFalsy(reportedTeam) {
		b.drop(connectionID, ReasonMissingTeamID)
		return
	}
	teamID, ok := parseTeamID(reportedTeam)
	if !ok {
		b.drop(connectionID, ReasonInvalidTeamID, "team", reportedTeam.Raw)
		return
	}
	if sender.Role == common.RoleTeam && (!sender.HasTeam() || *sender.TeamID != teamID) {
		b.drop(connectionID, ReasonTeamMismatch, "registered team", formatTeamID(sender.TeamID), "reported team", teamID)
		return
	}

	sample := standardizeSample(payload, teamID, sender, b.now(), b.randomID)
	stored, err := b.storage.Append(ctx, teamID, sample)
	if err != nil {
		b.drop(connectionID, ReasonStoreFailure, "team", teamID, "error", err)
		return
	}

	b.emitter.BroadcastExcept(connectionID, common.EventTelemetryUpdate, stored)
}

func (b *broker) handleCommand(connectionID string, data json.RawMessage) {
	sender, found := b.registry.Get(connectionID)
	if !found || sender.Role != common.RoleAdmin {
		b.drop(connectionID, ReasonUnauthorizedCommand)
		return
	}

	log.Info("admin command", "connection", connectionID, "command", string(data))
	b.emitter.BroadcastExcept(connectionID, common.EventCommand, rawOrNull(data))
}

func (b *broker) handleHistoryRequest(ctx context.Context, connectionID string, data json.RawMessage) {
	sender, found := b.registry.Get(connectionID)
	if !found || sender.Role != common.RoleAdmin {
		b.drop(connectionID, ReasonUnauthorizedHistoryRequest)
		return
	}

	requested := gjson.ParseBytes(data)
	if isFalsy(requested) {
		b.drop(connectionID, ReasonMissingTeamID)
		return
	}

	history := make([]common.TelemetrySample, 0)
	teamID, ok := parseRequestedTeam(requested)
	if ok {
		var err error
		history, err = b.storage.History(ctx, teamID)
		if err != nil {
			log.Warn("failed to read team history", "connection", connectionID, "team", teamID, "error", err)
			history = make([]common.TelemetrySample, 0)
		}
	}

	b.emitter.Emit(connectionID, common.EventTelemetryHistory, history)
}

// parseRequestedTeam reads the leading integer of the request, an unparsable request resolves to no team
func parseRequestedTeam(requested gjson.Result) (int64, bool) {
	if requested.Type == gjson.Number {
		return requested.Int(), true
	}

	str := strings.TrimSpace(requested.String())
	end := 0
	for end < len(str) && (str[end] >= '0' && str[end] <= '9' || end == 0 && (str[end] == '-' || str[end] == '+')) {
		end++
	}

	teamID, err := strconv.ParseInt(str[:end], 10, 64)
	if err != nil {
		return 0, false
	}

	return teamID, true
}

func (b *broker) drop(connectionID string, reason string, args ...interface{}) {
	b.drops.increment(reason)

	logArgs := append([]interface{}{"connection", connectionID, "reason", reason}, args...)
	log.Debug("dropped inbound event", logArgs...)
}

func formatTeamID(teamID *int64) string {
	if teamID == nil {
		return "none"
	}

	return strconv.FormatInt(*teamID, 10)
}

func rawOrNull(data json.RawMessage) json.RawMessage {
	if len(data) == 0 {
		return json.RawMessage("null")
	}

	return data
}

// DroppedEvents returns the number of dropped inbound events, by reason
func (b *broker) DroppedEvents() map[string]uint64 {
	return b.drops.snapshot()
}

// Close discards all the pending lookups and waits for their go routines to finish
func (b *broker) Close() error {
	b.cancel()
	b.pending.discardAll()
	b.wg.Wait()

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (b *broker) IsInterfaceNil() bool {
	return b == nil
}
