/*

This file contains the per-farm valuation: reward APR and TVL of one Liquidswap farm from a single
snapshot of farm state, pool reserves, LP supply and prices.

APR and TVL go through the same valueBurn helper and only differ by the amount of LP burned:
one human readable LP token for APR, the whole farm stake for TVL.

*/

package valuation

import (
	"errors"
	"fmt"
	"math"

	sdkmath "cosmossdk.io/math"
	"github.com/liquidswap/yieldscan/internal/logger"
	"github.com/liquidswap/yieldscan/internal/types"
	"github.com/liquidswap/yieldscan/internal/utils"
)

var valuationLogger = logger.GetForComponent("valuation")

// ValueFarm computes {APR, TVL} for one farm.
//
// Division by zero (no LP minted, nothing staked) and missing prices are not
// errors: the affected figure is NaN. Errors are reserved for configuration and
// malformed data, which make the whole farm unusable.
func ValueFarm(snapshot types.FarmSnapshot) (types.ValuationResult, error) {
	farm := snapshot.Farm
	result := types.ValuationResult{APR: math.NaN(), TVL: math.NaN()}

	oneLP, err := utils.ScaleFactor(LPDecimals)
	if err != nil {
		return result, err
	}

	// APR
	rewardUSD, err := rewardPerWeekUSD(snapshot)
	if err != nil && !errors.Is(err, ErrZeroStake) {
		return result, fmt.Errorf("farm %s reward rate: %w", farm.UniqueFarmKey, err)
	}

	oneLpUSD, err := valueBurn(snapshot, oneLP)
	if err != nil && !errors.Is(err, ErrZeroLPSupply) {
		return result, fmt.Errorf("farm %s one LP value: %w", farm.UniqueFarmKey, err)
	}

	result.APR = AnnualizeAPR(rewardUSD, oneLpUSD)

	// TVL
	tvl, err := valueBurn(snapshot, snapshot.State.StakeCoins)
	if err != nil && !errors.Is(err, ErrZeroLPSupply) {
		return result, fmt.Errorf("farm %s staked LP value: %w", farm.UniqueFarmKey, err)
	}
	result.TVL = tvl

	valuationLogger.Debug().
		Str("farm", farm.UniqueFarmKey).
		Str("symbol", farm.Symbol()).
		Str("stakeCoins", snapshot.State.StakeCoins.String()).
		Str("lpSupply", snapshot.LPSupply.String()).
		Float64("rewardPerWeekUSD", rewardUSD).
		Float64("oneLpUSD", oneLpUSD).
		Float64("apr", result.APR).
		Float64("tvl", result.TVL).
		Msg("Farm valuation computed")

	return result, nil
}

// rewardPerWeekUSD prices the weekly reward of one LP token. Zero once the
// emission has ended; NaN with ErrZeroStake when nothing is staked.
func rewardPerWeekUSD(snapshot types.FarmSnapshot) (float64, error) {
	if snapshot.State.EmissionEnded(snapshot.ObservedAt) {
		return 0, nil
	}

	perLP, err := RewardPerWeekPerOneLP(snapshot.State, LPDecimals)
	if err != nil {
		return math.NaN(), err
	}

	reward := snapshot.Farm.RewardToken
	human, err := utils.DecToHumanReadable(perLP, reward.Decimals)
	if err != nil {
		return math.NaN(), err
	}

	price, ok := snapshot.Prices.Lookup(reward.PriceOracleID)
	return USDValue(human, price, ok), nil
}

// valueBurn is the USD value of the reserves redeemed by burning toBurn LP.
// NaN with ErrZeroLPSupply when the pool has no LP supply.
func valueBurn(snapshot types.FarmSnapshot, toBurn sdkmath.Int) (float64, error) {
	out, err := BurnLiquidity(BurnInput{
		XReserve: snapshot.Pool.CoinXReserves,
		YReserve: snapshot.Pool.CoinYReserves,
		LPSupply: snapshot.LPSupply,
		ToBurn:   toBurn,
		Curve:    snapshot.Pool.Curve,
	})
	if err != nil {
		return math.NaN(), err
	}

	xUSD, err := RawUSDValue(out.X, snapshot.Farm.CoinX, snapshot.Prices)
	if err != nil {
		return math.NaN(), err
	}
	yUSD, err := RawUSDValue(out.Y, snapshot.Farm.CoinY, snapshot.Prices)
	if err != nil {
		return math.NaN(), err
	}

	return xUSD + yUSD, nil
}
