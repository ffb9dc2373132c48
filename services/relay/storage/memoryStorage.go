package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/iulianpascalau/telemetry-relay/services/relay/common"
)

// memoryStorage keeps the bounded per-team history in process memory
type memoryStorage struct {
	mut         sync.Mutex
	historySize int
	teams       map[int64][]common.TelemetrySample
}

// NewMemoryStorage creates an in-memory telemetry storage retaining at most historySize samples per team
func NewMemoryStorage(historySize int) (*memoryStorage, error) {
	if historySize < 1 {
		return nil, ErrInvalidHistorySize
	}

	return &memoryStorage{
		historySize: historySize,
		teams:       make(map[int64][]common.TelemetrySample),
	}, nil
}

// Append attaches the team's altitude plot to the sample, stores it and drops the oldest samples above the history size
func (s *memoryStorage) Append(_ context.Context, teamID int64, sample common.TelemetrySample) (common.TelemetrySample, error) {
	s.mut.Lock()
	defer s.mut.Unlock()

	history := s.teams[teamID]

	var previousPlot []common.PlotPoint
	if len(history) > 0 {
		previousPlot = history[len(history)-1].AltitudePlot
	}

	sample.TeamID = teamID
	// the plot only ever grows at its tail, so consecutive samples can share the backing array
	sample.AltitudePlot = append(previousPlot, common.PlotPoint{
		Altitude: sample.Altitude,
		Time:     sample.Timestamp,
	})

	history = append(history, sample)
	if len(history) > s.historySize {
		history = slices.Clone(history[len(history)-s.historySize:])
	}
	s.teams[teamID] = history

	return clipPlot(sample), nil
}

// History returns the retained samples of the team in arrival order
func (s *memoryStorage) History(_ context.Context, teamID int64) ([]common.TelemetrySample, error) {
	s.mut.Lock()
	defer s.mut.Unlock()

	history := s.teams[teamID]
	result := make([]common.TelemetrySample, 0, len(history))
	for _, sample := range history {
		result = append(result, clipPlot(sample))
	}

	return result, nil
}

// Close does nothing for the in-memory storage
func (s *memoryStorage) Close() error {
	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *memoryStorage) IsInterfaceNil() bool {
	return s == nil
}

// clipPlot makes sure a caller appending to the returned plot can not write into the shared backing array
func clipPlot(sample common.TelemetrySample) common.TelemetrySample {
	sample.AltitudePlot = slices.Clip(sample.AltitudePlot)
	return sample
}
