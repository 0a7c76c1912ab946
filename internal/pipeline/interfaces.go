package pipeline

import (
	"context"

	sdkmath "cosmossdk.io/math"
	"github.com/liquidswap/yieldscan/internal/types"
)

// FarmDataFetcher reads the on-chain state of one Aptos farm.
type FarmDataFetcher interface {
	FetchFarmPoolData(ctx context.Context, farm types.FarmDescriptor) (types.FarmState, error)
	FetchLiquidityPoolData(ctx context.Context, farm types.FarmDescriptor) (types.LiquidityPoolState, error)
	FetchPoolTotalMintedLP(ctx context.Context, farm types.FarmDescriptor) (sdkmath.Int, error)
}

// PriceFetcher returns USD prices keyed by oracle id. Ids it cannot price are absent.
type PriceFetcher interface {
	GetPrices(ctx context.Context, oracleIDs []string) (types.PriceQuote, error)
}

// RegistryFetcher returns the raw registered pools of the Movement network.
type RegistryFetcher interface {
	FetchRegisteredPools(ctx context.Context) ([]types.RegisteredPool, error)
}
