package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/iulianpascalau/telemetry-relay/services/relay/common"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const inMemoryDSN = ":memory:"

var log = logger.GetOrCreate("storage")

// sqliteStorage is the sqlite implementation of the bounded per-team history. The altitude plot of every team
// touched since start is also kept in memory, so ingesting a sample does not read the plot back
type sqliteStorage struct {
	mut         sync.Mutex
	db          *sql.DB
	historySize int
	plots       map[int64][]common.PlotPoint
}

// NewSQLiteStorage creates the database and the schema. Use ":memory:" as dbPath for a non-persistent database
func NewSQLiteStorage(dbPath string, historySize int) (*sqliteStorage, error) {
	if historySize < 1 {
		return nil, ErrInvalidHistorySize
	}

	dsn := dbPath
	if dbPath != inMemoryDSN {
		err := prepareDirectories(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create the database directory: %w", err)
		}
		dsn = dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every new connection to ":memory:" would open a different database
	db.SetMaxOpenConns(1)

	err = createSchema(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Debug("sqlite telemetry storage opened", "path", dbPath, "history size", historySize)

	return &sqliteStorage{
		db:          db,
		historySize: historySize,
		plots:       make(map[int64][]common.PlotPoint),
	}, nil
}

func prepareDirectories(dbPath string) error {
	return os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS telemetry_samples (
		team_id  INTEGER NOT NULL,
		seq      INTEGER NOT NULL,
		payload  TEXT    NOT NULL,
		plot_len INTEGER NOT NULL,
		PRIMARY KEY (team_id, seq)
	);

	CREATE TABLE IF NOT EXISTS altitude_plot (
		team_id  INTEGER NOT NULL,
		seq      INTEGER NOT NULL,
		altitude REAL    NOT NULL,
		time     TEXT    NOT NULL,
		PRIMARY KEY (team_id, seq)
	);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Append stores the sample and its plot point, trims the team's samples to the history size and returns the
// sample with the full altitude plot attached
func (s *sqliteStorage) Append(ctx context.Context, teamID int64, sample common.TelemetrySample) (common.TelemetrySample, error) {
	sample.TeamID = teamID
	sample.AltitudePlot = nil

	payload, err := json.Marshal(sample)
	if err != nil {
		return common.TelemetrySample{}, fmt.Errorf("failed to marshal sample: %w", err)
	}

	s.mut.Lock()
	defer s.mut.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.TelemetrySample{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	plot, err := s.teamPlot(ctx, tx, teamID)
	if err != nil {
		return common.TelemetrySample{}, err
	}

	point := common.PlotPoint{
		Altitude: sample.Altitude,
		Time:     sample.Timestamp,
	}
	plotLen := int64(len(plot)) + 1

	_, err = tx.ExecContext(ctx, `
		INSERT INTO altitude_plot (team_id, seq, altitude, time)
		VALUES (?, ?, ?, ?)
	`, teamID, plotLen, point.Altitude, point.Time)
	if err != nil {
		return common.TelemetrySample{}, fmt.Errorf("failed to insert plot point: %w", err)
	}

	var seq int64
	err = tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) FROM telemetry_samples WHERE team_id = ?", teamID).Scan(&seq)
	if err != nil {
		return common.TelemetrySample{}, fmt.Errorf("failed to read sample sequence: %w", err)
	}
	seq++

	_, err = tx.ExecContext(ctx, `
		INSERT INTO telemetry_samples (team_id, seq, payload, plot_len)
		VALUES (?, ?, ?, ?)
	`, teamID, seq, string(payload), plotLen)
	if err != nil {
		return common.TelemetrySample{}, fmt.Errorf("failed to insert sample: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM telemetry_samples
		WHERE team_id = ?
		  AND seq <= ?
	`, teamID, seq-int64(s.historySize))
	if err != nil {
		return common.TelemetrySample{}, fmt.Errorf("failed to trim team history: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return common.TelemetrySample{}, fmt.Errorf("failed to commit sample: %w", err)
	}

	plot = append(plot, point)
	s.plots[teamID] = plot
	sample.AltitudePlot = slices.Clip(plot)

	return sample, nil
}

// History returns the retained samples of the team in arrival order, each one with its altitude plot
func (s *sqliteStorage) History(ctx context.Context, teamID int64) ([]common.TelemetrySample, error) {
	s.mut.Lock()
	defer s.mut.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT payload, plot_len
		FROM telemetry_samples
		WHERE team_id = ?
		ORDER BY seq
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	type storedSample struct {
		sample  common.TelemetrySample
		plotLen int
	}

	stored := make([]storedSample, 0, s.historySize)
	for rows.Next() {
		var payload string
		var plotLen int

		err = rows.Scan(&payload, &plotLen)
		if err != nil {
			return nil, err
		}

		var sample common.TelemetrySample
		err = json.Unmarshal([]byte(payload), &sample)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal stored sample: %w", err)
		}

		stored = append(stored, storedSample{sample: sample, plotLen: plotLen})
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}

	result := make([]common.TelemetrySample, 0, len(stored))
	if len(stored) == 0 {
		return result, nil
	}

	plot, err := s.teamPlot(ctx, tx, teamID)
	if err != nil {
		return nil, err
	}

	for _, st := range stored {
		if st.plotLen > len(plot) {
			return nil, fmt.Errorf("stored sample references %d plot points, only %d available", st.plotLen, len(plot))
		}

		st.sample.AltitudePlot = plot[:st.plotLen:st.plotLen]
		result = append(result, st.sample)
	}

	return result, nil
}

// teamPlot returns the cached plot of the team, reading it from the database the first time the team is seen
func (s *sqliteStorage) teamPlot(ctx context.Context, tx *sql.Tx, teamID int64) ([]common.PlotPoint, error) {
	plot, found := s.plots[teamID]
	if found {
		return plot, nil
	}

	plot, err := loadPlot(ctx, tx, teamID)
	if err != nil {
		return nil, err
	}
	s.plots[teamID] = plot

	return plot, nil
}

func loadPlot(ctx context.Context, tx *sql.Tx, teamID int64) ([]common.PlotPoint, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT altitude, time
		FROM altitude_plot
		WHERE team_id = ?
		ORDER BY seq
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("plot query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	plot := make([]common.PlotPoint, 0)
	for rows.Next() {
		var point common.PlotPoint

		err = rows.Scan(&point.Altitude, &point.Time)
		if err != nil {
			return nil, err
		}

		plot = append(plot, point)
	}

	return plot, rows.Err()
}

// Close closes the database
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *sqliteStorage) IsInterfaceNil() bool {
	return s == nil
}
