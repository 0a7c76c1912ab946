/*

This is a custom type for coins which contains all the static data needed to value a coin on chain.

*/

package types

import "strings"

// CoinInfo describes a Move coin used by a pool or a farm.
type CoinInfo struct {
	Type          string `json:"type"`            // e.g., "0x1::aptos_coin::AptosCoin"
	Symbol        string `json:"symbol"`          // e.g., "APT"
	Decimals      int    `json:"decimals"`        // e.g., 8 = 100000000 raw units per 1 coin
	PriceOracleID string `json:"price_oracle_id"` // e.g., "aptos" (coingecko id)
}

// PriceQuote maps a price oracle id to its USD price.
// Ids the price feed did not return are simply absent.
type PriceQuote map[string]float64

// Lookup returns the USD price for the oracle id and whether the feed returned it.
func (q PriceQuote) Lookup(oracleID string) (float64, bool) {
	if q == nil {
		return 0, false
	}
	price, ok := q[strings.TrimSpace(oracleID)]
	return price, ok
}
