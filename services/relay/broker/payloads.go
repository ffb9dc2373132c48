package broker

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/iulianpascalau/telemetry-relay/services/relay/common"
	"github.com/tidwall/gjson"
)

const isoTimestampLayout = "2006-01-02T15:04:05.000Z"

type registration struct {
	role              common.Role
	teamID            *int64
	name              *string
	motorManufacturer *string
	motorDesignation  *string
}

func (r registration) hasMotor() bool {
	return r.motorManufacturer != nil && r.motorDesignation != nil
}

func (r registration) identity(connectionID string) common.Identity {
	return common.Identity{
		ID:                connectionID,
		Role:              r.role,
		TeamID:            r.teamID,
		Name:              r.name,
		MotorManufacturer: r.motorManufacturer,
		MotorDesignation:  r.motorDesignation,
	}
}

// parseRegistration returns false if the payload does not declare a role. Non-string roles are kept in their JSON
// form and grant nothing beyond what a viewer gets
func parseRegistration(data []byte) (registration, bool) {
	payload := gjson.ParseBytes(data)
	if !payload.IsObject() {
		return registration{}, false
	}

	role := payload.Get("role")
	if isFalsy(role) {
		return registration{}, false
	}

	reg := registration{
		role:              roleOf(role),
		name:              optionalString(payload.Get("name")),
		motorManufacturer: optionalString(payload.Get("motorManufacturer")),
		motorDesignation:  optionalString(payload.Get("motorDesignation")),
	}

	teamID, ok := parseTeamID(payload.Get("teamId"))
	if ok {
		reg.teamID = &teamID
	}

	return reg, true
}

func roleOf(value gjson.Result) common.Role {
	if value.Type == gjson.String {
		return common.Role(value.Str)
	}

	return common.Role(value.Raw)
}

// parseTeamID accepts non-zero integers, given either as whole JSON numbers or as numeric strings
func parseTeamID(value gjson.Result) (int64, bool) {
	switch value.Type {
	case gjson.Number:
		if value.Num != math.Trunc(value.Num) {
			return 0, false
		}
		teamID := value.Int()
		return teamID, teamID != 0
	case gjson.String:
		teamID, err := strconv.ParseInt(strings.TrimSpace(value.Str), 10, 64)
		if err != nil {
			return 0, false
		}
		return teamID, teamID != 0
	default:
		return 0, false
	}
}

func isFalsy(value gjson.Result) bool {
	switch value.Type {
	case gjson.Null, gjson.False:
		return true
	case gjson.Number:
		return value.Num == 0
	case gjson.String:
		return len(value.Str) == 0
	default:
		return !value.Exists()
	}
}

func optionalString(value gjson.Result) *string {
	if value.Type != gjson.String || len(value.Str) == 0 {
		return nil
	}

	str := value.Str
	return &str
}

func isMissing(value gjson.Result) bool {
	return !value.Exists() || value.Type == gjson.Null
}

func floatOrDefault(value gjson.Result, defaultValue float64) float64 {
	if isMissing(value) {
		return defaultValue
	}

	return value.Float()
}

func stringOrDefault(value gjson.Result, defaultValue string) string {
	if isMissing(value) {
		return defaultValue
	}

	return value.String()
}

func stringOrNotAvailable(value *string) string {
	if value == nil {
		return common.NotAvailable
	}

	return *value
}

// standardizeSample applies the defaults of every missing field and copies the motor identity of the sender.
// The altitude plot is attached later, by the storage
func standardizeSample(
	payload gjson.Result,
	teamID int64,
	sender common.Identity,
	receivedAt time.Time,
	randomID func() int64,
) common.TelemetrySample {
	id := payload.Get("id").Int()
	if id == 0 {
		id = randomID()
	}

	sample := common.TelemetrySample{
		ID:                id,
		TeamID:            teamID,
		Timestamp:         stringOrDefault(payload.Get("timestamp"), receivedAt.UTC().Format(isoTimestampLayout)),
		Altitude:          floatOrDefault(payload.Get("altitude"), 0),
		Velocity:          floatOrDefault(payload.Get("velocity"), 0),
		Acceleration:      floatOrDefault(payload.Get("acceleration"), 0),
		Temperature:       floatOrDefault(payload.Get("temperature"), 0),
		MaxVelocity:       floatOrDefault(payload.Get("maxVelocity"), 0),
		Pressure:          floatOrDefault(payload.Get("pressure"), 0),
		Status:            stringOrDefault(payload.Get("status"), common.NotAvailable),
		MotorManufacturer: stringOrNotAvailable(sender.MotorManufacturer),
		MotorDesignation:  stringOrNotAvailable(sender.MotorDesignation),
		MotorStats:        sender.MotorStats,
	}

	maxAltitude := payload.Get("maxAltitude")
	if !isMissing(maxAltitude) {
		value := maxAltitude.Float()
		sample.MaxAltitude = &value
	}

	return sample
}
