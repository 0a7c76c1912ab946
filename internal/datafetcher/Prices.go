/*
This file fetches current USD prices from the DefiLlama coins API.

Missing ids are not an error: the API simply omits coins it cannot price and the caller decides
what an absent price means.
*/

package datafetcher

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/liquidswap/yieldscan/internal/logger"
	"github.com/liquidswap/yieldscan/internal/types"
)

var priceLogger = logger.GetForComponent("price_retriever")

const (
	PRICES_ROUTE      = "/prices/current/"
	ORACLE_ID_PREFIX  = "coingecko:"
	DEFAULT_COINS_API = "https://coins.llama.fi"
)

type coinsResponse struct {
	Coins map[string]struct {
		Price      float64 `json:"price"`
		Symbol     string  `json:"symbol"`
		Timestamp  int64   `json:"timestamp"`
		Confidence float64 `json:"confidence"`
	} `json:"coins"`
}

// PriceClient reads prices keyed by coingecko id.
type PriceClient struct {
	http    *HTTPClient
	baseURL string
}

func NewPriceClient(baseURL string, httpClient *HTTPClient) *PriceClient {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	if baseURL == "" {
		baseURL = DEFAULT_COINS_API
	}
	return &PriceClient{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// GetPrices returns the USD price of every oracle id the feed knows about.
// Ids are coingecko ids without prefix ("aptos"); the quote is keyed the same way.
func (c *PriceClient) GetPrices(ctx context.Context, oracleIDs []string) (types.PriceQuote, error) {
	keys := make([]string, 0, len(oracleIDs))
	seen := make(map[string]bool, len(oracleIDs))
	for _, id := range oracleIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, url.PathEscape(ORACLE_ID_PREFIX+id))
	}

	quote := make(types.PriceQuote, len(keys))
	if len(keys) == 0 {
		return quote, nil
	}

	var resp coinsResponse
	requestURL := c.baseURL + PRICES_ROUTE + strings.Join(keys, ",")
	if err := c.http.getJSON(ctx, requestURL, &resp); err != nil {
		return nil, fmt.Errorf("price fetch failed: %w", err)
	}

	for key, coin := range resp.Coins {
		if math.IsNaN(coin.Price) || math.IsInf(coin.Price, 0) || coin.Price < 0 {
			priceLogger.Warn().
				Str("coin", key).
				Float64("price", coin.Price).
				Msg("Skipping invalid price")
			continue
		}
		quote[strings.TrimPrefix(key, ORACLE_ID_PREFIX)] = coin.Price
	}

	if len(quote) < len(keys) {
		priceLogger.Warn().
			Int("requested", len(keys)).
			Int("returned", len(quote)).
			Msg("Price feed did not return every requested coin")
	}

	return quote, nil
}
