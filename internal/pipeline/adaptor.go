/*

This file contains the adaptor entry point: both chain pipelines are run and their records
concatenated into one list. Pool ids are chain qualified so nothing is deduplicated.

*/

package pipeline

import (
	"context"
	"errors"

	"github.com/liquidswap/yieldscan/internal/logger"
	"github.com/liquidswap/yieldscan/internal/types"
)

var adaptorLogger = logger.GetForComponent("adaptor")

const (
	Project    = "liquidswap"
	ProjectURL = "https://farms.liquidswap.com/#/stakes"

	// chainWideKey marks a failure that affected every pool of a chain.
	chainWideKey = "*"
)

// Config wires the adaptor collaborators. Farms is injected so tests and
// alternative deployments can supply their own list.
type Config struct {
	Farms           []types.FarmDescriptor
	Chain           FarmDataFetcher
	Prices          PriceFetcher
	Registry        RegistryFetcher
	FarmConcurrency int
}

// Result is one complete run: the published records and what could not be produced.
type Result struct {
	Pools    []types.PoolRecord
	Failures []Failure
}

// Err joins every failure, nil when the run was clean.
func (r Result) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// Adaptor aggregates the Aptos farms and the Movement registry.
type Adaptor struct {
	aptos    *AptosPipeline
	movement *MovementPipeline
}

func NewAdaptor(cfg Config) *Adaptor {
	return &Adaptor{
		aptos:    NewAptosPipeline(cfg.Farms, cfg.Chain, cfg.Prices, cfg.FarmConcurrency),
		movement: NewMovementPipeline(cfg.Registry),
	}
}

// Run computes Aptos records followed by Movement records. A Movement
// registry outage leaves the Aptos records in place.
func (a *Adaptor) Run(ctx context.Context) Result {
	var result Result

	pools, failures := a.aptos.Run(ctx)
	result.Pools = append(result.Pools, pools...)
	result.Failures = append(result.Failures, failures...)

	pools, failures, err := a.movement.Run(ctx)
	if err != nil {
		adaptorLogger.Error().
			Err(err).
			Msg("Movement registry unavailable, publishing Aptos pools only")
		result.Failures = append(result.Failures, Failure{Chain: ChainMovement, Key: chainWideKey, Err: err})
	}
	result.Pools = append(result.Pools, pools...)
	result.Failures = append(result.Failures, failures...)

	return result
}

// APY returns every pool that could be computed and the joined failures, if any.
func (a *Adaptor) APY(ctx context.Context) ([]types.PoolRecord, error) {
	result := a.Run(ctx)
	return result.Pools, result.Err()
}

func (a *Adaptor) Metadata() types.Metadata {
	return types.Metadata{URL: ProjectURL, TimeTravel: false}
}
