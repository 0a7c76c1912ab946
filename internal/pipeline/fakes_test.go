package pipeline

import (
	"context"
	"errors"
	"sync/atomic"

	sdkmath "cosmossdk.io/math"
	"github.com/liquidswap/yieldscan/internal/types"
)

var errChainDown = errors.New("fullnode unavailable")

var (
	aptCoin  = types.CoinInfo{Type: "0x1::aptos_coin::AptosCoin", Symbol: "APT", Decimals: 8, PriceOracleID: "aptos"}
	usdcCoin = types.CoinInfo{Type: "0xf22b::asset::USDC", Symbol: "USDC", Decimals: 6, PriceOracleID: "usd-coin"}
	lsdCoin  = types.CoinInfo{Type: "0x53a3::liquid_coin::LiquidCoin", Symbol: "LSD", Decimals: 8, PriceOracleID: "liquidswap"}
)

func testFarm(key string) types.FarmDescriptor {
	return types.FarmDescriptor{
		DeployedAddress: "0xharvest",
		CoinX:           aptCoin,
		CoinY:           usdcCoin,
		Curve:           "0x190d::curves::Uncorrelated",
		RewardToken:     lsdCoin,
		ResourceAccount: "0x05a9",
		ModuleAccount:   "0x190d",
		UniqueFarmKey:   key,
	}
}

// fakeChain serves the same healthy pool for every farm unless the farm key is
// listed in failing. Safe for concurrent use.
type fakeChain struct {
	failing      map[string]error
	curve        types.CurveType
	endTimestamp uint64
	calls        atomic.Int32
}

func (c *fakeChain) fail(farm types.FarmDescriptor) error {
	c.calls.Add(1)
	return c.failing[farm.UniqueFarmKey]
}

func (c *fakeChain) FetchFarmPoolData(_ context.Context, farm types.FarmDescriptor) (types.FarmState, error) {
	if err := c.fail(farm); err != nil {
		return types.FarmState{}, err
	}
	return types.FarmState{
		StakeCoins:   sdkmath.NewInt(50_000_000),
		RewardPerSec: sdkmath.NewInt(1000),
		EndTimestamp: c.endTimestamp,
	}, nil
}

func (c *fakeChain) FetchLiquidityPoolData(_ context.Context, farm types.FarmDescriptor) (types.LiquidityPoolState, error) {
	c.calls.Add(1)
	curve := c.curve
	if curve == "" {
		curve = types.CurveUncorrelated
	}
	return types.LiquidityPoolState{
		CoinXReserves: sdkmath.NewInt(100_000_000_000),
		CoinYReserves: sdkmath.NewInt(10_000_000_000),
		Curve:         curve,
	}, nil
}

func (c *fakeChain) FetchPoolTotalMintedLP(_ context.Context, farm types.FarmDescriptor) (sdkmath.Int, error) {
	c.calls.Add(1)
	return sdkmath.NewInt(100_000_000), nil
}

type fakePrices struct {
	quote types.PriceQuote
	err   error
}

func (p *fakePrices) GetPrices(_ context.Context, oracleIDs []string) (types.PriceQuote, error) {
	if p.err != nil {
		return nil, p.err
	}
	quote := make(types.PriceQuote, len(oracleIDs))
	for _, id := range oracleIDs {
		if price, ok := p.quote[id]; ok {
			quote[id] = price
		}
	}
	return quote, nil
}

func healthyPrices() *fakePrices {
	return &fakePrices{quote: types.PriceQuote{"aptos": 10, "usd-coin": 1, "liquidswap": 0.5}}
}

type fakeRegistry struct {
	pools []types.RegisteredPool
	err   error
}

func (r *fakeRegistry) FetchRegisteredPools(context.Context) ([]types.RegisteredPool, error) {
	return r.pools, r.err
}
