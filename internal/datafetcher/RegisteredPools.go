package datafetcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/liquidswap/yieldscan/internal/logger"
	"github.com/liquidswap/yieldscan/internal/types"
)

var registryLogger = logger.GetForComponent("registry_retriever")

const (
	REGISTERED_POOLS_ROUTE = "/pools/registered"
	DEFAULT_REGISTRY_API   = "https://api.liquidswap.com"
)

// RegistryClient reads the pre-aggregated pool registry of the Liquidswap API.
type RegistryClient struct {
	http      *HTTPClient
	baseURL   string
	networkID uint64
}

func NewRegistryClient(baseURL string, networkID uint64, httpClient *HTTPClient) *RegistryClient {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	if baseURL == "" {
		baseURL = DEFAULT_REGISTRY_API
	}
	return &RegistryClient{
		http:      httpClient,
		baseURL:   strings.TrimRight(baseURL, "/"),
		networkID: networkID,
	}
}

// FetchRegisteredPools returns every registered pool of the configured network, unfiltered.
func (c *RegistryClient) FetchRegisteredPools(ctx context.Context) ([]types.RegisteredPool, error) {
	requestURL := fmt.Sprintf("%s%s?networkId=%d", c.baseURL, REGISTERED_POOLS_ROUTE, c.networkID)

	var pools []types.RegisteredPool
	if err := c.http.getJSON(ctx, requestURL, &pools); err != nil {
		return nil, fmt.Errorf("registered pools fetch failed: %w", err)
	}

	registryLogger.Info().
		Uint64("networkId", c.networkID).
		Int("poolCount", len(pools)).
		Msg("Fetched registered pools")

	return pools, nil
}
