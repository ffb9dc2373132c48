package common

import "encoding/json"

// Role is the self-declared role of a connection
type Role string

const (
	// RoleViewer is the default role of every connection until it registers
	RoleViewer Role = "viewer"
	// RoleTeam is the role of a telemetry source speaking for a single team
	RoleTeam Role = "team"
	// RoleAdmin is the role allowed to issue commands and request any team's history
	RoleAdmin Role = "admin"
)

// Inbound event names
const (
	EventRegister                   = "register"
	EventTelemetry                  = "telemetry"
	EventCommand                    = "command"
	EventCurrentTeamTelemetryUpdate = "current-team-telemetry-update"
	EventRequestTelemetryHistory    = "request-telemetry-history"
)

// Outbound event names
const (
	EventClientConnected    = "client-connected"
	EventClientDisconnected = "client-disconnected"
	EventTelemetryUpdate    = "telemetry-update"
	EventTelemetryHistory   = "telemetry-history"
)

// NotAvailable is the placeholder used for missing text fields in a standardized sample
const NotAvailable = "N/A"

// MotorStats holds the performance figures of a registered motor
type MotorStats struct {
	CommonName     string  `json:"commonName"`
	TotalImpulseNs float64 `json:"totalImpulseNs"`
	MaxThrustN     float64 `json:"maxThrustN"`
	BurnTimeS      float64 `json:"burnTimeS"`
}

// Identity is the self-declared identity of a live connection
type Identity struct {
	ID                string      `json:"id"`
	Role              Role        `json:"role"`
	TeamID            *int64      `json:"teamId"`
	Name              *string     `json:"name"`
	MotorManufacturer *string     `json:"motorManufacturer"`
	MotorDesignation  *string     `json:"motorDesignation"`
	MotorStats        *MotorStats `json:"motorStats"`
}

// Clone returns a deep copy of the identity
func (identity Identity) Clone() Identity {
	clone := identity
	clone.TeamID = cloneValue(identity.TeamID)
	clone.Name = cloneValue(identity.Name)
	clone.MotorManufacturer = cloneValue(identity.MotorManufacturer)
	clone.MotorDesignation = cloneValue(identity.MotorDesignation)
	clone.MotorStats = cloneValue(identity.MotorStats)

	return clone
}

// HasTeam returns true if the identity declared a team
func (identity Identity) HasTeam() bool {
	return identity.TeamID != nil
}

func cloneValue[T any](value *T) *T {
	if value == nil {
		return nil
	}

	v := *value
	return &v
}

// DisconnectNotice is the payload broadcast when a connection goes away
type DisconnectNotice struct {
	ID     string `json:"id"`
	Role   *Role  `json:"role"`
	TeamID *int64 `json:"teamId"`
}

// PlotPoint is one entry of a team's altitude plot
type PlotPoint struct {
	Altitude float64 `json:"altitude"`
	Time     string  `json:"time"`
}

// TelemetrySample is one standardized telemetry packet
type TelemetrySample struct {
	ID                int64       `json:"id"`
	TeamID            int64       `json:"teamId"`
	Timestamp         string      `json:"timestamp"`
	Altitude          float64     `json:"altitude"`
	AltitudePlot      []PlotPoint `json:"altitudePlot"`
	Velocity          float64     `json:"velocity"`
	Acceleration      float64     `json:"acceleration"`
	Temperature       float64     `json:"temperature"`
	MaxAltitude       *float64    `json:"maxAltitude"`
	MaxVelocity       float64     `json:"maxVelocity"`
	Pressure          float64     `json:"pressure"`
	Status            string      `json:"status"`
	MotorManufacturer string      `json:"motorManufacturer"`
	MotorDesignation  string      `json:"motorDesignation"`
	MotorStats        *MotorStats `json:"motorStats"`
}

// Envelope is the wire frame exchanged over the websocket transport
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}
