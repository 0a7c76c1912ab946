package valuation

import (
	"math"

	sdkmath "cosmossdk.io/math"
	"github.com/liquidswap/yieldscan/internal/types"
	"github.com/liquidswap/yieldscan/internal/utils"
)

// USDValue returns human * price. A price the feed did not return (ok == false)
// yields NaN so the gap is visible downstream instead of reading as zero.
func USDValue(human sdkmath.LegacyDec, price float64, ok bool) float64 {
	if !ok {
		return math.NaN()
	}

	amount, err := utils.DecToFloat64(human)
	if err != nil {
		return math.NaN()
	}

	return amount * price
}

// RawUSDValue scales a raw amount with the coin's decimals and prices it with
// the coin's oracle id.
func RawUSDValue(raw sdkmath.Int, coin types.CoinInfo, prices types.PriceQuote) (float64, error) {
	human, err := utils.ToHumanReadable(raw, coin.Decimals)
	if err != nil {
		return math.NaN(), err
	}

	price, ok := prices.Lookup(coin.PriceOracleID)
	return USDValue(human, price, ok), nil
}
