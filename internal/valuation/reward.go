package valuation

import (
	"errors"
	"math"

	sdkmath "cosmossdk.io/math"
	"github.com/liquidswap/yieldscan/internal/types"
	"github.com/liquidswap/yieldscan/internal/utils"
)

const (
	// LPDecimals is the decimals of every Liquidswap LP coin.
	LPDecimals = 6

	SecondsPerWeek = 7 * 24 * 60 * 60
	DaysPerYear    = 365
	DaysPerWeek    = 7
)

var ErrZeroStake = errors.New("farm has no staked LP")

// RewardPerWeekPerOneLP is the weekly emission owed to one human readable LP
// token at the current stake, in raw reward units:
//
//	rewardPerSec * SecondsPerWeek * 10^lpDecimals / stakeCoins
func RewardPerWeekPerOneLP(state types.FarmState, lpDecimals int) (sdkmath.LegacyDec, error) {
	if state.StakeCoins.IsNil() || state.RewardPerSec.IsNil() {
		return sdkmath.LegacyZeroDec(), utils.ErrAmountNil
	}
	if state.StakeCoins.IsNegative() || state.RewardPerSec.IsNegative() {
		return sdkmath.LegacyZeroDec(), utils.ErrAmountNegative
	}
	if state.StakeCoins.IsZero() {
		return sdkmath.LegacyZeroDec(), ErrZeroStake
	}

	oneLP, err := utils.ScaleFactor(lpDecimals)
	if err != nil {
		return sdkmath.LegacyZeroDec(), err
	}

	weekly := state.RewardPerSec.MulRaw(SecondsPerWeek)
	return sdkmath.LegacyNewDecFromInt(weekly.Mul(oneLP)).QuoInt(state.StakeCoins), nil
}

// AnnualizeAPR turns a weekly reward per LP into a simple yearly percentage:
//
//	(rewardPerWeekUSD / oneLpUSD) * 100 * 365 / 7
//
// A zero, NaN or infinite LP value gives NaN rather than an infinite APR.
func AnnualizeAPR(rewardPerWeekUSD, oneLpUSD float64) float64 {
	if oneLpUSD == 0 || math.IsNaN(oneLpUSD) || math.IsInf(oneLpUSD, 0) {
		return math.NaN()
	}
	if math.IsNaN(rewardPerWeekUSD) || math.IsInf(rewardPerWeekUSD, 0) {
		return math.NaN()
	}

	return (rewardPerWeekUSD / oneLpUSD) * 100 * DaysPerYear / DaysPerWeek
}
