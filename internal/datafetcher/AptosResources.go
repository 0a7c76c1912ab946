/*
This file reads Liquidswap farm, pool and LP coin state from an Aptos fullnode REST API.

Every read is a single account resource:

	GET {node}/v1/accounts/{address}/resource/{move type}

u64/u128 fields arrive as JSON strings and are parsed into SDK Ints without ever passing
through float64.
*/

package datafetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/liquidswap/yieldscan/internal/logger"
	"github.com/liquidswap/yieldscan/internal/types"
)

var aptosLogger = logger.GetForComponent("aptos_resources")

const CoinInfoModule = "0x1::coin::CoinInfo"

// AptosClient reads Move resources from a fullnode.
type AptosClient struct {
	http    *HTTPClient
	nodeURL string
}

// NewAptosClient creates a client for the fullnode REST API rooted at nodeURL
// (e.g. https://fullnode.mainnet.aptoslabs.com).
func NewAptosClient(nodeURL string, httpClient *HTTPClient) *AptosClient {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	return &AptosClient{
		http:    httpClient,
		nodeURL: strings.TrimRight(nodeURL, "/"),
	}
}

type moveResource[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

type coinValue struct {
	Value string `json:"value"`
}

type stakePoolData struct {
	RewardPerSec string    `json:"reward_per_sec"`
	EndTimestamp string    `json:"end_timestamp"`
	StakeCoins   coinValue `json:"stake_coins"`
}

type liquidityPoolData struct {
	CoinXReserve coinValue `json:"coin_x_reserve"`
	CoinYReserve coinValue `json:"coin_y_reserve"`
}

type optionVec[T any] struct {
	Vec []T `json:"vec"`
}

type integerValue struct {
	Value string `json:"value"`
}

type optionalAggregator struct {
	Aggregator optionVec[json.RawMessage] `json:"aggregator"`
	Integer    optionVec[integerValue]    `json:"integer"`
}

type coinInfoData struct {
	Supply optionVec[optionalAggregator] `json:"supply"`
}

func (c *AptosClient) resourceURL(account, resourceType string) string {
	return fmt.Sprintf("%s/v1/accounts/%s/resource/%s", c.nodeURL, account, url.PathEscape(resourceType))
}

// StakePoolType is the Move type of the farm's stake pool resource.
func StakePoolType(farm types.FarmDescriptor) string {
	return fmt.Sprintf("%s::stake::StakePool<%s, %s>", farm.DeployedAddress, farm.LPCoinType(), farm.RewardToken.Type)
}

// LiquidityPoolType is the Move type of the farm's liquidity pool resource.
func LiquidityPoolType(farm types.FarmDescriptor) string {
	return fmt.Sprintf("%s::liquidity_pool::LiquidityPool<%s, %s, %s>", farm.ModuleAccount, farm.CoinX.Type, farm.CoinY.Type, farm.Curve)
}

// FetchFarmPoolData reads the farm's stake pool: total staked LP and reward emission.
func (c *AptosClient) FetchFarmPoolData(ctx context.Context, farm types.FarmDescriptor) (types.FarmState, error) {
	var resource moveResource[stakePoolData]
	if err := c.http.getJSON(ctx, c.resourceURL(farm.DeployedAddress, StakePoolType(farm)), &resource); err != nil {
		return types.FarmState{}, fmt.Errorf("farm %s stake pool: %w", farm.UniqueFarmKey, err)
	}

	stake, err := parseU128(resource.Data.StakeCoins.Value, "stake_coins")
	if err != nil {
		return types.FarmState{}, fmt.Errorf("farm %s: %w", farm.UniqueFarmKey, err)
	}
	rewardPerSec, err := parseU128(resource.Data.RewardPerSec, "reward_per_sec")
	if err != nil {
		return types.FarmState{}, fmt.Errorf("farm %s: %w", farm.UniqueFarmKey, err)
	}

	state := types.FarmState{
		StakeCoins:   stake,
		RewardPerSec: rewardPerSec,
	}
	if resource.Data.EndTimestamp != "" {
		state.EndTimestamp, err = strconv.ParseUint(resource.Data.EndTimestamp, 10, 64)
		if err != nil {
			return types.FarmState{}, fmt.Errorf("farm %s: %w: end_timestamp %q", farm.UniqueFarmKey, ErrInvalidResponse, resource.Data.EndTimestamp)
		}
	}

	aptosLogger.Debug().
		Str("farm", farm.UniqueFarmKey).
		Str("stakeCoins", state.StakeCoins.String()).
		Str("rewardPerSec", state.RewardPerSec.String()).
		Uint64("endTimestamp", state.EndTimestamp).
		Msg("Fetched farm state")

	return state, nil
}

// FetchLiquidityPoolData reads the reserves of the farm's pool.
func (c *AptosClient) FetchLiquidityPoolData(ctx context.Context, farm types.FarmDescriptor) (types.LiquidityPoolState, error) {
	curve, err := types.ParseCurveType(farm.Curve)
	if err != nil {
		return types.LiquidityPoolState{}, fmt.Errorf("farm %s: %w", farm.UniqueFarmKey, err)
	}

	var resource moveResource[liquidityPoolData]
	if err := c.http.getJSON(ctx, c.resourceURL(farm.ResourceAccount, LiquidityPoolType(farm)), &resource); err != nil {
		return types.LiquidityPoolState{}, fmt.Errorf("farm %s liquidity pool: %w", farm.UniqueFarmKey, err)
	}

	x, err := parseU128(resource.Data.CoinXReserve.Value, "coin_x_reserve")
	if err != nil {
		return types.LiquidityPoolState{}, fmt.Errorf("farm %s: %w", farm.UniqueFarmKey, err)
	}
	y, err := parseU128(resource.Data.CoinYReserve.Value, "coin_y_reserve")
	if err != nil {
		return types.LiquidityPoolState{}, fmt.Errorf("farm %s: %w", farm.UniqueFarmKey, err)
	}

	aptosLogger.Debug().
		Str("farm", farm.UniqueFarmKey).
		Str("coinXReserve", x.String()).
		Str("coinYReserve", y.String()).
		Str("curve", string(curve)).
		Msg("Fetched liquidity pool reserves")

	return types.LiquidityPoolState{CoinXReserves: x, CoinYReserves: y, Curve: curve}, nil
}

// FetchPoolTotalMintedLP reads the LP coin supply from its CoinInfo resource.
func (c *AptosClient) FetchPoolTotalMintedLP(ctx context.Context, farm types.FarmDescriptor) (sdkmath.Int, error) {
	resourceType := fmt.Sprintf("%s<%s>", CoinInfoModule, farm.LPCoinType())

	var resource moveResource[coinInfoData]
	if err := c.http.getJSON(ctx, c.resourceURL(farm.ResourceAccount, resourceType), &resource); err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("farm %s LP coin info: %w", farm.UniqueFarmKey, err)
	}

	supply := resource.Data.Supply.Vec
	if len(supply) == 0 {
		return sdkmath.ZeroInt(), fmt.Errorf("farm %s: %w: LP supply is not tracked", farm.UniqueFarmKey, ErrInvalidResponse)
	}
	if len(supply[0].Integer.Vec) == 0 {
		// parallelizable aggregator supplies live in a table and cannot be read from CoinInfo
		return sdkmath.ZeroInt(), fmt.Errorf("farm %s: %w: LP supply is aggregator backed", farm.UniqueFarmKey, ErrInvalidResponse)
	}

	lpSupply, err := parseU128(supply[0].Integer.Vec[0].Value, "supply")
	if err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("farm %s: %w", farm.UniqueFarmKey, err)
	}

	aptosLogger.Debug().
		Str("farm", farm.UniqueFarmKey).
		Str("lpSupply", lpSupply.String()).
		Msg("Fetched LP supply")

	return lpSupply, nil
}

func parseU128(value, field string) (sdkmath.Int, error) {
	amount, ok := sdkmath.NewIntFromString(strings.TrimSpace(value))
	if !ok || amount.IsNegative() {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: field %s has invalid integer %q", ErrInvalidResponse, field, value)
	}
	return amount, nil
}
