package motor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iulianpascalau/telemetry-relay/services/relay/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchResponse = `{
	"criteria": [
		{"name": "manufacturer", "value": "AeroTech", "matches": 1},
		{"name": "designation", "value": "H128W", "matches": 1}
	],
	"results": [
		{
			"motorId": "5f4294d20002e900000002b8",
			"manufacturer": "AeroTech",
			"manufacturerAbbrev": "AeroTech",
			"designation": "H128W",
			"commonName": "H128",
			"impulseClass": "H",
			"avgThrustN": 128.4,
			"maxThrustN": 173.5,
			"totImpulseNs": 219.5,
			"burnTimeS": 1.7
		},
		{
			"designation": "H128W-M",
			"commonName": "H128-M",
			"maxThrustN": 1,
			"totImpulseNs": 1,
			"burnTimeS": 1
		}
	]
}`

func TestNewThrustCurveClient(t *testing.T) {
	t.Parallel()

	t.Run("empty base URL should error", func(t *testing.T) {
		client, err := NewThrustCurveClient("", time.Second)

		assert.Nil(t, client)
		assert.True(t, client.IsInterfaceNil())
		assert.Equal(t, ErrEmptyBaseURL, err)
	})
	t.Run("should work", func(t *testing.T) {
		client, err := NewThrustCurveClient("https://www.thrustcurve.org/", time.Second)

		assert.Nil(t, err)
		assert.False(t, client.IsInterfaceNil())
	})
}

func TestThrustCurveClient_Lookup(t *testing.T) {
	t.Parallel()

	t.Run("should map the first result", func(t *testing.T) {
		t.Parallel()

		var received searchRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, searchPath, r.URL.Path)
			_ = json.NewDecoder(r.Body).Decode(&received)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(searchResponse))
		}))
		defer server.Close()

		client, _ := NewThrustCurveClient(server.URL, time.Second)
		stats, err := client.Lookup(context.Background(), "AeroTech", "H128W")

		require.NoError(t, err)
		assert.Equal(t, searchRequest{Manufacturer: "AeroTech", Designation: "H128W"}, received)
		assert.Equal(t, &common.MotorStats{
			CommonName:     "H128",
			TotalImpulseNs: 219.5,
			MaxThrustN:     173.5,
			BurnTimeS:      1.7,
		}, stats)
	})
	t.Run("zero matches should error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"criteria": [], "results": []}`))
		}))
		defer server.Close()

		client, _ := NewThrustCurveClient(server.URL, time.Second)
		stats, err := client.Lookup(context.Background(), "Nobody", "Z9000")

		assert.Nil(t, stats)
		assert.True(t, errors.Is(err, ErrLookupFailure))
		assert.True(t, errors.Is(err, ErrNoMatches))
	})
	t.Run("non-2xx status should error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client, _ := NewThrustCurveClient(server.URL, time.Second)
		stats, err := client.Lookup(context.Background(), "AeroTech", "H128W")

		assert.Nil(t, stats)
		assert.True(t, errors.Is(err, ErrLookupFailure))
		assert.Contains(t, err.Error(), http.StatusText(http.StatusInternalServerError))
	})
	t.Run("timeout should error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
			_, _ = w.Write([]byte(searchResponse))
		}))
		defer server.Close()

		client, _ := NewThrustCurveClient(server.URL, 100*time.Millisecond)
		stats, err := client.Lookup(context.Background(), "AeroTech", "H128W")

		assert.Nil(t, stats)
		assert.True(t, errors.Is(err, ErrLookupFailure))
	})
	t.Run("cancelled context should error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(searchResponse))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client, _ := NewThrustCurveClient(server.URL, time.Second)
		stats, err := client.Lookup(ctx, "AeroTech", "H128W")

		assert.Nil(t, stats)
		assert.True(t, errors.Is(err, ErrLookupFailure))
	})
	t.Run("connection refused should error", func(t *testing.T) {
		t.Parallel()

		client, _ := NewThrustCurveClient("http://127.0.0.1:59999", time.Second)
		stats, err := client.Lookup(context.Background(), "AeroTech", "H128W")

		assert.Nil(t, stats)
		assert.True(t, errors.Is(err, ErrLookupFailure))
	})
}
