package flight

import (
	"math"
	"testing"
	"time"

	"github.com/iulianpascalau/telemetry-relay/services/simulator/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noNoise() float64 {
	return 0.5
}

func createTestModel(t *testing.T) *flightModel {
	fm, err := NewFlightModel(ArgsFlightModel{
		FlightID:       123,
		TeamID:         4,
		FlightDuration: 100 * time.Second,
		TickInterval:   time.Second,
		NoiseSource:    noNoise,
	})
	require.NoError(t, err)

	return fm
}

func TestNewFlightModel(t *testing.T) {
	t.Parallel()

	t.Run("invalid flight duration should error", func(t *testing.T) {
		fm, err := NewFlightModel(ArgsFlightModel{TickInterval: time.Second, NoiseSource: noNoise})
		assert.Nil(t, fm)
		assert.True(t, fm.IsInterfaceNil())
		assert.Equal(t, ErrInvalidFlightDuration, err)
	})
	t.Run("invalid tick interval should error", func(t *testing.T) {
		fm, err := NewFlightModel(ArgsFlightModel{FlightDuration: time.Minute, NoiseSource: noNoise})
		assert.Nil(t, fm)
		assert.Equal(t, ErrInvalidTickInterval, err)
	})
	t.Run("nil noise source should error", func(t *testing.T) {
		fm, err := NewFlightModel(ArgsFlightModel{FlightDuration: time.Minute, TickInterval: time.Second})
		assert.Nil(t, fm)
		assert.Equal(t, ErrNilNoiseSource, err)
	})
	t.Run("should work", func(t *testing.T) {
		fm, err := NewFlightModel(ArgsFlightModel{FlightDuration: time.Minute, TickInterval: time.Second, NoiseSource: noNoise})
		assert.NoError(t, err)
		assert.False(t, fm.IsInterfaceNil())
	})
}

func TestPhaseOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, common.PhaseBoost, phaseOf(0))
	assert.Equal(t, common.PhaseBoost, phaseOf(0.09))
	assert.Equal(t, common.PhaseCoast, phaseOf(0.1))
	assert.Equal(t, common.PhaseCoast, phaseOf(0.39))
	assert.Equal(t, common.PhaseApogee, phaseOf(0.4))
	assert.Equal(t, common.PhaseDescent, phaseOf(0.5))
	assert.Equal(t, common.PhaseDescent, phaseOf(0.89))
	assert.Equal(t, common.PhaseLanded, phaseOf(0.9))
	assert.Equal(t, common.PhaseLanded, phaseOf(1.5))
}

func TestFlightModel_FullFlight(t *testing.T) {
	t.Parallel()

	fm := createTestModel(t)
	start := time.Date(2025, 4, 12, 10, 0, 0, 0, time.UTC)
	fm.Start(start)

	phases := make([]string, 0)
	previousMaxAltitude := 0.0
	var apogee common.Telemetry
	for second := 1; second <= 95; second++ {
		packet := fm.Next(start.Add(time.Duration(second) * time.Second))

		assert.Equal(t, int64(123), packet.ID)
		assert.Equal(t, int64(4), packet.TeamID)
		assert.GreaterOrEqual(t, packet.MaxAltitude, previousMaxAltitude)
		assert.GreaterOrEqual(t, packet.Altitude, 0.0)
		assert.InDelta(t, seaLevelPressureKPa*math.Exp(-0.0001*packet.Altitude), packet.Pressure, 1e-9)
		previousMaxAltitude = packet.MaxAltitude

		if packet.Status == common.PhaseDescent {
			assert.GreaterOrEqual(t, packet.Velocity, parachuteVelocity+gravity)
		}
		if len(phases) == 0 || phases[len(phases)-1] != packet.Status {
			phases = append(phases, packet.Status)
		}
		if packet.Status == common.PhaseApogee {
			apogee = packet
		}
	}

	assert.Equal(t, []string{
		common.PhaseBoost,
		common.PhaseCoast,
		common.PhaseApogee,
		common.PhaseDescent,
		common.PhaseLanded,
	}, phases)
	assert.Greater(t, apogee.MaxAltitude, 1000.0)
}

func TestFlightModel_BoostTick(t *testing.T) {
	t.Parallel()

	fm := createTestModel(t)
	start := time.Date(2025, 4, 12, 10, 0, 0, 0, time.UTC)
	fm.Start(start)

	packet := fm.Next(start.Add(time.Second))
	expectedAcceleration := 30 + 10*math.Sin(0.1)
	assert.Equal(t, common.PhaseBoost, packet.Status)
	assert.InDelta(t, expectedAcceleration, packet.Acceleration, 1e-9)
	assert.InDelta(t, expectedAcceleration, packet.Velocity, 1e-9)
	assert.InDelta(t, expectedAcceleration, packet.Altitude, 1e-9)
	assert.InDelta(t, 25.4, packet.Temperature, 1e-9)
	assert.Equal(t, "2025-04-12T10:00:01.000Z", packet.Timestamp)
}

func TestFlightModel_LandedAndRestart(t *testing.T) {
	t.Parallel()

	fm := createTestModel(t)
	start := time.Date(2025, 4, 12, 10, 0, 0, 0, time.UTC)
	fm.Start(start)

	for second := 1; second <= 50; second++ {
		_ = fm.Next(start.Add(time.Duration(second) * time.Second))
	}

	landed := fm.Next(start.Add(91 * time.Second))
	assert.Equal(t, common.PhaseLanded, landed.Status)
	assert.Equal(t, 0.0, landed.Altitude)
	assert.Equal(t, 0.0, landed.Velocity)
	assert.Equal(t, groundTemperature, landed.Temperature)
	assert.Greater(t, landed.MaxAltitude, 0.0)

	restart := start.Add(100 * time.Second)
	fm.Start(restart)
	packet := fm.Next(restart.Add(time.Second))
	assert.Equal(t, common.PhaseBoost, packet.Status)
	assert.Less(t, packet.MaxAltitude, landed.MaxAltitude)
}

func TestFlightModel_NoiseIsApplied(t *testing.T) {
	t.Parallel()

	fm, err := NewFlightModel(ArgsFlightModel{
		FlightDuration: 100 * time.Second,
		TickInterval:   time.Second,
		NoiseSource: func() float64 {
			return 1
		},
	})
	require.NoError(t, err)

	start := time.Now()
	fm.Start(start)
	packet := fm.Next(start.Add(95 * time.Second))

	assert.Equal(t, common.PhaseLanded, packet.Status)
	assert.Equal(t, 1.0, packet.Altitude)
	assert.Equal(t, 0.5, packet.Velocity)
	assert.Equal(t, groundTemperature+0.25, packet.Temperature)
	assert.InDelta(t, seaLevelPressureKPa+0.05, packet.Pressure, 1e-9)
}
