package motor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/iulianpascalau/telemetry-relay/services/relay/common"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"
)

const searchPath = "/api/v1/search.json"

var log = logger.GetOrCreate("motor")

type searchRequest struct {
	Manufacturer string `json:"manufacturer"`
	Designation  string `json:"designation"`
}

// thrustCurveClient queries the ThrustCurve motor catalog search API
type thrustCurveClient struct {
	httpClient *resty.Client
}

// NewThrustCurveClient creates a catalog client. The timeout bounds every lookup
func NewThrustCurveClient(baseURL string, timeout time.Duration) (*thrustCurveClient, error) {
	if len(baseURL) == 0 {
		return nil, ErrEmptyBaseURL
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &thrustCurveClient{
		httpClient: client,
	}, nil
}

// Lookup searches the catalog and maps the first result to the motor stats
func (c *thrustCurveClient) Lookup(ctx context.Context, manufacturer string, designation string) (*common.MotorStats, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(searchRequest{
			Manufacturer: manufacturer,
			Designation:  designation,
		}).
		Post(searchPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailure, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailure, errStatusNotOK(resp.StatusCode()))
	}

	body := resp.Body()
	if gjson.GetBytes(body, "results.#").Int() == 0 {
		return nil, fmt.Errorf("%w: %w for %s %s", ErrLookupFailure, ErrNoMatches, manufacturer, designation)
	}

	first := gjson.GetBytes(body, "results.0")
	stats := &common.MotorStats{
		CommonName:     first.Get("commonName").String(),
		TotalImpulseNs: first.Get("totImpulseNs").Float(),
		MaxThrustN:     first.Get("maxThrustN").Float(),
		BurnTimeS:      first.Get("burnTimeS").Float(),
	}

	log.Debug("motor lookup resolved", "manufacturer", manufacturer, "designation", designation,
		"common name", stats.CommonName, "matches", gjson.GetBytes(body, "results.#").Int())

	return stats, nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (c *thrustCurveClient) IsInterfaceNil() bool {
	return c == nil
}
