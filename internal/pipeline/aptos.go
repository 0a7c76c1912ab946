/*

This file contains the Aptos farm pipeline: every configured farm is read (stake pool, liquidity
pool, LP supply, prices) and valued in its own task. A failing farm becomes a Failure and never
stops its siblings.

*/

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/liquidswap/yieldscan/internal/logger"
	"github.com/liquidswap/yieldscan/internal/types"
	"github.com/liquidswap/yieldscan/internal/valuation"
	"golang.org/x/sync/errgroup"
)

var aptosLogger = logger.GetForComponent("aptos_pipeline")

const ChainAptos = "Aptos"

// farmOutcome is the result-or-error of one farm task.
type farmOutcome struct {
	record types.PoolRecord
	err    error
}

// AptosPipeline values the configured Liquidswap farms.
type AptosPipeline struct {
	farms       []types.FarmDescriptor
	chain       FarmDataFetcher
	prices      PriceFetcher
	concurrency int
	now         func() time.Time
}

func NewAptosPipeline(farms []types.FarmDescriptor, chain FarmDataFetcher, prices PriceFetcher, concurrency int) *AptosPipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &AptosPipeline{
		farms:       farms,
		chain:       chain,
		prices:      prices,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Run values every farm. Records keep the configured farm order.
func (p *AptosPipeline) Run(ctx context.Context) ([]types.PoolRecord, []Failure) {
	outcomes := make([]farmOutcome, len(p.farms))

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, farm := range p.farms {
		g.Go(func() error {
			record, err := p.valueFarm(ctx, farm)
			outcomes[i] = farmOutcome{record: record, err: err}
			return nil
		})
	}
	_ = g.Wait()

	records := make([]types.PoolRecord, 0, len(p.farms))
	var failures []Failure
	for i, outcome := range outcomes {
		if outcome.err != nil {
			key := p.farms[i].UniqueFarmKey
			aptosLogger.Error().
				Err(outcome.err).
				Str("farm", key).
				Msg("Farm valuation failed")
			failures = append(failures, Failure{Chain: ChainAptos, Key: key, Err: outcome.err})
			continue
		}
		records = append(records, outcome.record)
	}

	aptosLogger.Info().
		Int("farms", len(p.farms)).
		Int("records", len(records)).
		Int("failures", len(failures)).
		Msg("Aptos farms processed")

	return records, failures
}

func (p *AptosPipeline) valueFarm(ctx context.Context, farm types.FarmDescriptor) (types.PoolRecord, error) {
	snapshot, err := p.fetchSnapshot(ctx, farm)
	if err != nil {
		return types.PoolRecord{}, err
	}

	result, err := valuation.ValueFarm(snapshot)
	if err != nil {
		return types.PoolRecord{}, err
	}

	return types.PoolRecord{
		Pool:    farm.UniqueFarmKey,
		Chain:   ChainAptos,
		Project: Project,
		Symbol:  farm.Symbol(),
		TvlUsd:  types.Metric(result.TVL),
		Apy:     types.MetricPtr(result.APR),
	}, nil
}

// fetchSnapshot reads everything one valuation needs. Any failing read fails the farm.
func (p *AptosPipeline) fetchSnapshot(ctx context.Context, farm types.FarmDescriptor) (types.FarmSnapshot, error) {
	state, err := p.chain.FetchFarmPoolData(ctx, farm)
	if err != nil {
		return types.FarmSnapshot{}, fmt.Errorf("fetch farm state: %w", err)
	}

	pool, err := p.chain.FetchLiquidityPoolData(ctx, farm)
	if err != nil {
		return types.FarmSnapshot{}, fmt.Errorf("fetch liquidity pool: %w", err)
	}

	supply, err := p.chain.FetchPoolTotalMintedLP(ctx, farm)
	if err != nil {
		return types.FarmSnapshot{}, fmt.Errorf("fetch LP supply: %w", err)
	}

	prices, err := p.prices.GetPrices(ctx, farm.OracleIDs())
	if err != nil {
		return types.FarmSnapshot{}, fmt.Errorf("fetch prices: %w", err)
	}

	return types.FarmSnapshot{
		Farm:       farm,
		State:      state,
		Pool:       pool,
		LPSupply:   supply,
		Prices:     prices,
		ObservedAt: p.now(),
	}, nil
}
