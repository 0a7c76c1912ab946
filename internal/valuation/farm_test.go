package valuation

import (
	"math"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/liquidswap/yieldscan/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() types.FarmSnapshot {
	return types.FarmSnapshot{
		Farm: types.FarmDescriptor{
			CoinX:         types.CoinInfo{Type: "0x1::aptos_coin::AptosCoin", Symbol: "APT", Decimals: 8, PriceOracleID: "aptos"},
			CoinY:         types.CoinInfo{Type: "0xf22b::asset::USDC", Symbol: "USDC", Decimals: 6, PriceOracleID: "usd-coin"},
			RewardToken:   types.CoinInfo{Type: "0x53a3::lsd::LSD", Symbol: "LSD", Decimals: 8, PriceOracleID: "liquidswap"},
			Curve:         "0x190d::curves::Uncorrelated",
			UniqueFarmKey: "apt-usdc-farm",
		},
		State: types.FarmState{
			StakeCoins:   sdkmath.NewInt(50_000_000), // 50 LP
			RewardPerSec: sdkmath.NewInt(1_000),
		},
		Pool: types.LiquidityPoolState{
			CoinXReserves: sdkmath.NewInt(100_000_000_000), // 1000 APT
			CoinYReserves: sdkmath.NewInt(10_000_000_000),  // 10000 USDC
			Curve:         types.CurveUncorrelated,
		},
		LPSupply: sdkmath.NewInt(100_000_000), // 100 LP
		Prices:   types.PriceQuote{"aptos": 10, "usd-coin": 1, "liquidswap": 0.5},
	}
}

func TestValueFarm(t *testing.T) {
	result, err := ValueFarm(testSnapshot())
	require.NoError(t, err)

	// one LP = 10 APT + 100 USDC = $200
	// weekly reward per LP = 12096000 raw = 0.12096 LSD = $0.06048
	wantAPR := (0.06048 / 200.0) * 100 * 365 / 7
	assert.InDelta(t, wantAPR, result.APR, 1e-9)

	// 50 LP = 500 APT + 5000 USDC
	assert.InDelta(t, 10_000.0, result.TVL, 1e-6)
}

func TestValueFarm_MissingPoolTokenPrice(t *testing.T) {
	snapshot := testSnapshot()
	delete(snapshot.Prices, "aptos")

	result, err := ValueFarm(snapshot)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(result.APR), "APR must not be masked, got %f", result.APR)
	assert.True(t, math.IsNaN(result.TVL), "TVL must not be masked, got %f", result.TVL)
}

func TestValueFarm_MissingRewardPrice(t *testing.T) {
	snapshot := testSnapshot()
	delete(snapshot.Prices, "liquidswap")

	result, err := ValueFarm(snapshot)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(result.APR))
	assert.InDelta(t, 10_000.0, result.TVL, 1e-6)
}

func TestValueFarm_ZeroLPSupply(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.LPSupply = sdkmath.ZeroInt()

	result, err := ValueFarm(snapshot)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(result.APR))
	assert.True(t, math.IsNaN(result.TVL))
}

func TestValueFarm_ZeroStake(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.State.StakeCoins = sdkmath.ZeroInt()

	result, err := ValueFarm(snapshot)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(result.APR))
	assert.Equal(t, 0.0, result.TVL)
}

func TestValueFarm_UnsupportedCurve(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.Pool.Curve = "Weighted"

	_, err := ValueFarm(snapshot)
	assert.ErrorIs(t, err, ErrUnsupportedCurve)
}

func TestValueFarm_EmissionEnded(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.ObservedAt = time.Unix(1_700_000_000, 0)

	snapshot.State.EndTimestamp = 1_700_000_000
	result, err := ValueFarm(snapshot)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.APR)
	assert.InDelta(t, 10_000.0, result.TVL, 1e-6)

	// a missing reward price does not matter once nothing is paid
	delete(snapshot.Prices, "liquidswap")
	result, err = ValueFarm(snapshot)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.APR)

	// still running
	snapshot = testSnapshot()
	snapshot.ObservedAt = time.Unix(1_700_000_000, 0)
	snapshot.State.EndTimestamp = 1_700_000_001
	result, err = ValueFarm(snapshot)
	require.NoError(t, err)
	assert.InDelta(t, (0.06048/200.0)*100*365/7, result.APR, 1e-9)
}
