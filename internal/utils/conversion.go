/*
This file contains the decimal scaling helpers used to move between raw on-chain integer amounts
(smallest denomination) and human readable amounts. Everything stays in SDK math until the
final USD conversion.
*/

package utils

import (
	"errors"
	"fmt"
	"math"

	sdkmath "cosmossdk.io/math"
)

// MaxPrecision is the highest decimals value representable by LegacyDec.
const MaxPrecision = sdkmath.LegacyPrecision

// Error definitions for zero-tolerance error handling
var (
	ErrInvalidPrecision = errors.New("precision is invalid")
	ErrAmountNil        = errors.New("amount is nil")
	ErrAmountNegative   = errors.New("amount is negative")
	ErrNotFinite        = errors.New("value is not finite")
	ErrConversionFailed = errors.New("conversion failed")
)

// ScaleFactor returns 10^decimals as an SDK Int.
func ScaleFactor(decimals int) (sdkmath.Int, error) {
	if decimals < 0 || decimals > MaxPrecision {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: %d (must be between 0 and %d)", ErrInvalidPrecision, decimals, MaxPrecision)
	}

	factor := sdkmath.OneInt()
	ten := sdkmath.NewInt(10)
	for i := 0; i < decimals; i++ {
		factor = factor.Mul(ten)
	}
	return factor, nil
}

// ToHumanReadable converts a raw amount to its human readable decimal: raw / 10^decimals.
func ToHumanReadable(raw sdkmath.Int, decimals int) (sdkmath.LegacyDec, error) {
	if raw.IsNil() {
		return sdkmath.LegacyZeroDec(), ErrAmountNil
	}
	if raw.IsNegative() {
		return sdkmath.LegacyZeroDec(), ErrAmountNegative
	}

	factor, err := ScaleFactor(decimals)
	if err != nil {
		return sdkmath.LegacyZeroDec(), err
	}

	return sdkmath.LegacyNewDecFromInt(raw).QuoInt(factor), nil
}

// DecToHumanReadable is ToHumanReadable for amounts that are already fractional,
// e.g. a per-LP reward rate.
func DecToHumanReadable(raw sdkmath.LegacyDec, decimals int) (sdkmath.LegacyDec, error) {
	if raw.IsNil() {
		return sdkmath.LegacyZeroDec(), ErrAmountNil
	}
	if raw.IsNegative() {
		return sdkmath.LegacyZeroDec(), ErrAmountNegative
	}

	factor, err := ScaleFactor(decimals)
	if err != nil {
		return sdkmath.LegacyZeroDec(), err
	}

	return raw.QuoInt(factor), nil
}

// ToRaw converts a human readable amount back to smallest units, truncating
// anything below one raw unit.
func ToRaw(human sdkmath.LegacyDec, decimals int) (sdkmath.Int, error) {
	if human.IsNil() {
		return sdkmath.ZeroInt(), ErrAmountNil
	}
	if human.IsNegative() {
		return sdkmath.ZeroInt(), ErrAmountNegative
	}

	factor, err := ScaleFactor(decimals)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}

	return human.MulInt(factor).TruncateInt(), nil
}

// DecToFloat64 is the only place a decimal becomes a float64. It is meant for
// the final USD conversion, where display precision is enough.
func DecToFloat64(amount sdkmath.LegacyDec) (float64, error) {
	if amount.IsNil() {
		return 0, ErrAmountNil
	}

	result, err := amount.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%w: result is %f", ErrNotFinite, result)
	}

	return result, nil
}

// SDKIntToFloat64 converts an SDK Int to a human readable float64 with proper precision handling
func SDKIntToFloat64(amount sdkmath.Int, precision int) (float64, error) {
	human, err := ToHumanReadable(amount, precision)
	if err != nil {
		return 0, err
	}
	return DecToFloat64(human)
}
