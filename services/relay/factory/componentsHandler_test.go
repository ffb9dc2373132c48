package factory

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iulianpascalau/telemetry-relay/services/relay/api"
	"github.com/iulianpascalau/telemetry-relay/services/relay/common"
	"github.com/iulianpascalau/telemetry-relay/services/relay/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.ListenAddress = "127.0.0.1:0"
	cfg.MotorLookup.Enabled = false

	return cfg
}

func TestNewComponentsHandler(t *testing.T) {
	t.Parallel()

	t.Run("invalid config should error", func(t *testing.T) {
		t.Parallel()

		cfg := createTestConfig()
		cfg.HistorySize = 0

		handler, err := NewComponentsHandler(cfg)
		assert.Nil(t, handler)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
	t.Run("invalid write timeout should error", func(t *testing.T) {
		t.Parallel()

		cfg := createTestConfig()
		cfg.WriteTimeoutInSeconds = 0

		handler, err := NewComponentsHandler(cfg)
		assert.Nil(t, handler)
		assert.Error(t, err)
	})
	t.Run("memory storage", func(t *testing.T) {
		t.Parallel()

		handler, err := NewComponentsHandler(createTestConfig())
		require.NoError(t, err)
		assert.Equal(t, "*storage.memoryStorage", fmt.Sprintf("%T", handler.GetStore()))
		assert.Equal(t, "*transport.hub", fmt.Sprintf("%T", handler.GetHub()))
		assert.Equal(t, "*broker.broker", fmt.Sprintf("%T", handler.GetRelayCore()))
		assert.Equal(t, "*api.server", fmt.Sprintf("%T", handler.GetServer()))

		handler.Close()
	})
	t.Run("sqlite storage with motor lookup", func(t *testing.T) {
		t.Parallel()

		cfg := createTestConfig()
		cfg.Storage.Type = config.StorageTypeSQLite
		cfg.Storage.Path = ":memory:"
		cfg.MotorLookup.Enabled = true
		cfg.MotorLookup.URL = "http://127.0.0.1:1"

		handler, err := NewComponentsHandler(cfg)
		require.NoError(t, err)
		assert.Equal(t, "*storage.sqliteStorage", fmt.Sprintf("%T", handler.GetStore()))

		handler.Close()
	})
}

func TestComponentsHandler_StartServesTheRelay(t *testing.T) {
	t.Parallel()

	handler, err := NewComponentsHandler(createTestConfig())
	require.NoError(t, err)
	defer handler.Close()

	err = handler.Start()
	require.NoError(t, err)

	address := handler.GetServer().Address()
	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/socket", address), nil)
	require.NoError(t, err)
	defer func() {
		_ = conn.Close()
	}()

	err = conn.WriteJSON(map[string]interface{}{
		"event": common.EventRegister,
		"data": map[string]interface{}{
			"role":   "admin",
			"teamId": 1,
		},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		status, errStatus := fetchStatus(address)
		return errStatus == nil && status.Roles["admin"] == 1
	}, 2*time.Second, 10*time.Millisecond)

	status, err := fetchStatus(address)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Clients)
	assert.Equal(t, 1, handler.GetHub().Len())
}

func fetchStatus(address string) (api.StatusResponse, error) {
	status := api.StatusResponse{}
	resp, err := http.Get(fmt.Sprintf("http://%s/api/status", address))
	if err != nil {
		return status, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return status, err
	}

	err = json.Unmarshal(body, &status)

	return status, err
}
