package common

// Flight phases reported in the telemetry status field
const (
	PhasePreLaunch = "pre-launch"
	PhaseBoost     = "boost"
	PhaseCoast     = "coast"
	PhaseApogee    = "apogee"
	PhaseDescent   = "descent"
	PhaseLanded    = "landed"
)

// Event names the simulator emits
const (
	EventRegister  = "register"
	EventTelemetry = "telemetry"
)

// Registration is the payload of the register event
type Registration struct {
	Role              string  `json:"role"`
	TeamID            int64   `json:"teamId"`
	ID                int64   `json:"id"`
	MotorManufacturer *string `json:"motorManufacturer,omitempty"`
	MotorDesignation  *string `json:"motorDesignation,omitempty"`
}

// Telemetry is one simulated sensor packet
type Telemetry struct {
	ID           int64   `json:"id"`
	TeamID       int64   `json:"teamId"`
	Timestamp    string  `json:"timestamp"`
	Altitude     float64 `json:"altitude"`
	Velocity     float64 `json:"velocity"`
	Acceleration float64 `json:"acceleration"`
	Temperature  float64 `json:"temperature"`
	MaxAltitude  float64 `json:"maxAltitude"`
	MaxVelocity  float64 `json:"maxVelocity"`
	Pressure     float64 `json:"pressure"`
	Status       string  `json:"status"`
}

// Envelope is the wire frame exchanged with the relay
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}
