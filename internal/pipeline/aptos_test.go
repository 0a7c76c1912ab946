package pipeline

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/liquidswap/yieldscan/internal/types"
	"github.com/liquidswap/yieldscan/internal/valuation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1 LP redeems 10 APT + 100 USDC = $200 and earns 0.12096 LSD ($0.06048) a week.
var (
	expectedAPR = (0.06048 / 200.0) * 100 * 365 / 7
	expectedTVL = 10_000.0
)

func TestAptosPipelineValuesFarms(t *testing.T) {
	farms := []types.FarmDescriptor{testFarm("apt-usdc-1"), testFarm("apt-usdc-2")}
	p := NewAptosPipeline(farms, &fakeChain{}, healthyPrices(), 1)

	records, failures := p.Run(context.Background())
	require.Empty(t, failures)
	require.Len(t, records, 2)

	for i, record := range records {
		assert.Equal(t, farms[i].UniqueFarmKey, record.Pool)
		assert.Equal(t, ChainAptos, record.Chain)
		assert.Equal(t, Project, record.Project)
		assert.Equal(t, "APT-USDC", record.Symbol)
		assert.InDelta(t, expectedTVL, float64(record.TvlUsd), 1e-6)
		require.NotNil(t, record.Apy)
		assert.InDelta(t, expectedAPR, float64(*record.Apy), 1e-6)
		assert.Nil(t, record.ApyBase)
	}
}

func TestAptosPipelineIsolatesFarmFailures(t *testing.T) {
	for _, concurrency := range []int{1, 4} {
		farms := []types.FarmDescriptor{testFarm("a"), testFarm("b"), testFarm("c")}
		chain := &fakeChain{failing: map[string]error{"b": errChainDown}}
		p := NewAptosPipeline(farms, chain, healthyPrices(), concurrency)

		records, failures := p.Run(context.Background())

		require.Len(t, records, 2)
		assert.Equal(t, "a", records[0].Pool)
		assert.Equal(t, "c", records[1].Pool)

		require.Len(t, failures, 1)
		assert.Equal(t, ChainAptos, failures[0].Chain)
		assert.Equal(t, "b", failures[0].Key)
		assert.ErrorIs(t, failures[0], errChainDown)
	}
}

func TestAptosPipelinePriceFeedFailureFailsEveryFarm(t *testing.T) {
	farms := []types.FarmDescriptor{testFarm("a"), testFarm("b")}
	p := NewAptosPipeline(farms, &fakeChain{}, &fakePrices{err: errors.New("rate limited")}, 2)

	records, failures := p.Run(context.Background())
	assert.Empty(t, records)
	assert.Len(t, failures, 2)
}

func TestAptosPipelineMissingPricesPropagateNaN(t *testing.T) {
	prices := &fakePrices{quote: types.PriceQuote{"usd-coin": 1, "liquidswap": 0.5}}
	p := NewAptosPipeline([]types.FarmDescriptor{testFarm("a")}, &fakeChain{}, prices, 1)

	records, failures := p.Run(context.Background())
	require.Empty(t, failures)
	require.Len(t, records, 1)

	assert.True(t, math.IsNaN(float64(records[0].TvlUsd)))
	require.NotNil(t, records[0].Apy)
	assert.True(t, math.IsNaN(float64(*records[0].Apy)))
}

func TestAptosPipelineUnsupportedCurveIsAFailure(t *testing.T) {
	p := NewAptosPipeline([]types.FarmDescriptor{testFarm("a")}, &fakeChain{curve: "Weighted"}, healthyPrices(), 1)

	records, failures := p.Run(context.Background())
	assert.Empty(t, records)
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], valuation.ErrUnsupportedCurve)
}

func TestAptosPipelineStopsReadingAfterFirstFailure(t *testing.T) {
	chain := &fakeChain{failing: map[string]error{"a": errChainDown}}
	p := NewAptosPipeline([]types.FarmDescriptor{testFarm("a")}, chain, healthyPrices(), 0)

	_, failures := p.Run(context.Background())
	require.Len(t, failures, 1)
	assert.Equal(t, int32(1), chain.calls.Load())

	healthy := &fakeChain{}
	_, failures = NewAptosPipeline([]types.FarmDescriptor{testFarm("a")}, healthy, healthyPrices(), 1).Run(context.Background())
	require.Empty(t, failures)
	assert.Equal(t, int32(3), healthy.calls.Load())
}

func TestAptosPipelineEndedFarmEarnsNothing(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	farms := []types.FarmDescriptor{testFarm("ended"), testFarm("running")}

	ended := NewAptosPipeline(farms[:1], &fakeChain{endTimestamp: uint64(now.Unix()) - 1}, healthyPrices(), 1)
	ended.now = func() time.Time { return now }
	running := NewAptosPipeline(farms[1:], &fakeChain{endTimestamp: uint64(now.Unix()) + 3600}, healthyPrices(), 1)
	running.now = func() time.Time { return now }

	records, failures := ended.Run(context.Background())
	require.Empty(t, failures)
	require.Len(t, records, 1)
	assert.Equal(t, 0.0, float64(*records[0].Apy))
	assert.InDelta(t, expectedTVL, float64(records[0].TvlUsd), 1e-6)

	records, failures = running.Run(context.Background())
	require.Empty(t, failures)
	require.Len(t, records, 1)
	assert.InDelta(t, expectedAPR, float64(*records[0].Apy), 1e-6)
}
