/*

This is a custom type for Liquidswap farms (Harvest stake pools) and the on-chain state read for each of them.

*/

package types

import (
	"fmt"
	"time"

	"cosmossdk.io/math"
)

// FarmDescriptor is the static configuration of one farm. Loaded once, never mutated.
type FarmDescriptor struct {
	DeployedAddress string   `json:"deployed_address"` // Harvest module address holding the stake pool
	CoinX           CoinInfo `json:"coin_x"`
	CoinY           CoinInfo `json:"coin_y"`
	Curve           string   `json:"curve"` // full Move type tag of the curve
	RewardToken     CoinInfo `json:"reward_token"`
	ResourceAccount string   `json:"resource_account"` // Liquidswap resource account (pools and LP coins live here)
	ModuleAccount   string   `json:"module_account"`   // Liquidswap module account (liquidity_pool, curves)
	UniqueFarmKey   string   `json:"unique_farm_key"`  // stable id published as the pool id
}

// LPCoinType is the Move type of the LP coin minted by the farm's pool.
func (f FarmDescriptor) LPCoinType() string {
	return fmt.Sprintf("%s::lp_coin::LP<%s, %s, %s>", f.ResourceAccount, f.CoinX.Type, f.CoinY.Type, f.Curve)
}

// Symbol is the display pair, e.g. "APT-USDC".
func (f FarmDescriptor) Symbol() string {
	return f.CoinX.Symbol + "-" + f.CoinY.Symbol
}

// OracleIDs lists the price feeds needed to value the farm: reward, x, y.
func (f FarmDescriptor) OracleIDs() []string {
	return []string{f.RewardToken.PriceOracleID, f.CoinX.PriceOracleID, f.CoinY.PriceOracleID}
}

// FarmState is the on-chain snapshot of a stake pool. Fetched fresh per computation.
type FarmState struct {
	StakeCoins   math.Int `json:"stake_coins"`    // total LP staked in the farm (raw)
	RewardPerSec math.Int `json:"reward_per_sec"` // reward emission in raw reward units per second
	EndTimestamp uint64   `json:"end_timestamp"`  // unix seconds when emission stops, 0 if unknown
}

// EmissionEnded reports whether the farm stopped paying rewards at now.
// An unknown end (0) or an unknown time (zero) never ends emission.
func (s FarmState) EmissionEnded(now time.Time) bool {
	if s.EndTimestamp == 0 || now.IsZero() {
		return false
	}
	return uint64(now.Unix()) >= s.EndTimestamp
}

// FarmSnapshot groups every read needed for one farm valuation.
type FarmSnapshot struct {
	Farm       FarmDescriptor
	State      FarmState
	Pool       LiquidityPoolState
	LPSupply   math.Int
	Prices     PriceQuote
	ObservedAt time.Time // when the state was read
}

// ValuationResult holds APR (percent) and TVL (USD). Either may be NaN when it
// could not be computed.
type ValuationResult struct {
	APR float64 `json:"apr"`
	TVL float64 `json:"tvl"`
}
