/*

This file contains the burn-liquidity decomposition: how much of each reserve asset a given amount
of LP tokens redeems for, without submitting a transaction.

Redemption is pro rata for every Liquidswap curve. Burning never solves the swap invariant, it
hands back toBurn/lpSupply of each reserve, so Uncorrelated and Stable pools share one formula.
Curves not listed in burnFormulas are rejected instead of falling back to that formula.

*/

package valuation

import (
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/liquidswap/yieldscan/internal/types"
)

var (
	ErrUnsupportedCurve = errors.New("unsupported curve type for burn liquidity")
	ErrZeroLPSupply     = errors.New("LP supply is zero")
	ErrInvalidAmount    = errors.New("invalid amount for burn liquidity")
)

// BurnInput is the pool state and the LP amount to redeem, all raw.
type BurnInput struct {
	XReserve sdkmath.Int
	YReserve sdkmath.Int
	LPSupply sdkmath.Int
	ToBurn   sdkmath.Int
	Curve    types.CurveType
}

// BurnOutput is the raw amount of each reserve asset returned.
type BurnOutput struct {
	X sdkmath.Int
	Y sdkmath.Int
}

type burnFormula func(in BurnInput) BurnOutput

var burnFormulas = map[types.CurveType]burnFormula{
	types.CurveUncorrelated: proportionalBurn,
	types.CurveStable:       proportionalBurn,
}

// proportionalBurn floors like the on-chain liquidity_pool::burn.
func proportionalBurn(in BurnInput) BurnOutput {
	return BurnOutput{
		X: in.XReserve.Mul(in.ToBurn).Quo(in.LPSupply),
		Y: in.YReserve.Mul(in.ToBurn).Quo(in.LPSupply),
	}
}

// BurnLiquidity computes the reserves redeemable for in.ToBurn LP tokens.
// It fails with ErrZeroLPSupply for pools that have not minted any LP yet.
func BurnLiquidity(in BurnInput) (BurnOutput, error) {
	formula, ok := burnFormulas[in.Curve]
	if !ok {
		return BurnOutput{}, fmt.Errorf("%w: %q", ErrUnsupportedCurve, in.Curve)
	}

	amounts := []struct {
		value sdkmath.Int
		name  string
	}{
		{in.XReserve, "x reserve"},
		{in.YReserve, "y reserve"},
		{in.LPSupply, "LP supply"},
		{in.ToBurn, "burn amount"},
	}
	for _, amount := range amounts {
		if amount.value.IsNil() || amount.value.IsNegative() {
			return BurnOutput{}, fmt.Errorf("%w: %s is nil or negative", ErrInvalidAmount, amount.name)
		}
	}

	if in.LPSupply.IsZero() {
		return BurnOutput{}, ErrZeroLPSupply
	}

	return formula(in), nil
}
