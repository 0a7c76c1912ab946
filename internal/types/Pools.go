/*

This is a custom type for Liquidswap pools which contains the on-chain state needed to value LP tokens.

*/

package types

import (
	"errors"
	"fmt"
	"strings"

	"cosmossdk.io/math"
)

var ErrUnknownCurve = errors.New("unknown curve type")

// CurveType is the pricing invariant a pool uses.
type CurveType string

const (
	CurveUncorrelated CurveType = "Uncorrelated" // constant product, x*y=k
	CurveStable       CurveType = "Stable"       // stable swap
)

// ParseCurveType resolves a curve from either its bare name ("Stable") or a
// full Move type tag ("0x190d...::curves::Stable").
func ParseCurveType(tag string) (CurveType, error) {
	name := strings.TrimSpace(tag)
	if idx := strings.LastIndex(name, "::"); idx >= 0 {
		name = name[idx+2:]
	}

	switch CurveType(name) {
	case CurveUncorrelated:
		return CurveUncorrelated, nil
	case CurveStable:
		return CurveStable, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCurve, tag)
	}
}

// LiquidityPoolState is a snapshot of a pool's reserves in smallest units.
type LiquidityPoolState struct {
	CoinXReserves math.Int  `json:"coin_x_reserves"`
	CoinYReserves math.Int  `json:"coin_y_reserves"`
	Curve         CurveType `json:"curve"`
}
