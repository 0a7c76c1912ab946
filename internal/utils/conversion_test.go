package utils

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleFactor(t *testing.T) {
	factor, err := ScaleFactor(0)
	require.NoError(t, err)
	assert.True(t, sdkmath.OneInt().Equal(factor))

	factor, err = ScaleFactor(8)
	require.NoError(t, err)
	assert.True(t, sdkmath.NewInt(100_000_000).Equal(factor), "got %s", factor)

	_, err = ScaleFactor(-1)
	assert.ErrorIs(t, err, ErrInvalidPrecision)

	_, err = ScaleFactor(MaxPrecision + 1)
	assert.ErrorIs(t, err, ErrInvalidPrecision)
}

func TestToHumanReadable(t *testing.T) {
	human, err := ToHumanReadable(sdkmath.NewInt(123_456_789), 6)
	require.NoError(t, err)
	assert.True(t, sdkmath.LegacyMustNewDecFromStr("123.456789").Equal(human), "got %s", human)

	_, err = ToHumanReadable(sdkmath.NewInt(-1), 6)
	assert.ErrorIs(t, err, ErrAmountNegative)

	_, err = ToHumanReadable(sdkmath.Int{}, 6)
	assert.ErrorIs(t, err, ErrAmountNil)
}

func TestScalingRoundTrip(t *testing.T) {
	huge, ok := sdkmath.NewIntFromString("340282366920938463463374607431768211455")
	require.True(t, ok)

	amounts := []sdkmath.Int{
		sdkmath.ZeroInt(),
		sdkmath.OneInt(),
		sdkmath.NewInt(999),
		sdkmath.NewInt(1_000_000),
		sdkmath.NewInt(18_446_744_073_709_551),
		huge,
	}

	for _, raw := range amounts {
		for decimals := 0; decimals <= MaxPrecision; decimals++ {
			human, err := ToHumanReadable(raw, decimals)
			require.NoError(t, err)

			back, err := ToRaw(human, decimals)
			require.NoError(t, err)
			assert.True(t, raw.Equal(back), "raw=%s decimals=%d back=%s", raw, decimals, back)
		}
	}
}

func TestToRawTruncates(t *testing.T) {
	raw, err := ToRaw(sdkmath.LegacyMustNewDecFromStr("1.23456789"), 6)
	require.NoError(t, err)
	assert.True(t, sdkmath.NewInt(1_234_567).Equal(raw), "got %s", raw)
}

func TestSDKIntToFloat64(t *testing.T) {
	value, err := SDKIntToFloat64(sdkmath.NewInt(250_000_000), 8)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, value, 1e-12)

	_, err = SDKIntToFloat64(sdkmath.NewInt(1), 19)
	assert.ErrorIs(t, err, ErrInvalidPrecision)
}

func TestDecToHumanReadable(t *testing.T) {
	human, err := DecToHumanReadable(sdkmath.LegacyMustNewDecFromStr("1500.5"), 3)
	require.NoError(t, err)
	assert.True(t, sdkmath.LegacyMustNewDecFromStr("1.5005").Equal(human), "got %s", human)
}
