/*

This file contains the Liquidswap farms (Harvest stake pools) valued on Aptos.

Every farm lives at the Harvest deployer address and stakes the LP coin of a pool held by the
Liquidswap resource account. If a farm is added on chain, add it here (or point FARMS_FILE at a
JSON list with the same fields).

*/

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/liquidswap/yieldscan/internal/types"
)

const (
	HarvestAddress            = "0xb247ddeee87e848315caf9a33b8e4c71ac53db888cb88143d62d2370cca0ead2"
	LiquidswapResourceAccount = "0x05a97986a9d031c4567e15b797be516910cfcb4156312482efc6a19c0a30c948"
	LiquidswapModuleAccount   = "0x190d44266241744264b964a37b8f09863167a12d3e70cda39376cfb4e3561e12"

	UncorrelatedCurve = LiquidswapModuleAccount + "::curves::Uncorrelated"
	StableCurve       = LiquidswapModuleAccount + "::curves::Stable"
)

var (
	APT = types.CoinInfo{
		Type:          "0x1::aptos_coin::AptosCoin",
		Symbol:        "APT",
		Decimals:      8,
		PriceOracleID: "aptos",
	}
	AmAPT = types.CoinInfo{
		Type:          "0x111ae3e5bc816a5e63c2da97d0aa3886519e0cd5e4b046659fa35796bd11542a::amapt_token::AmnisApt",
		Symbol:        "amAPT",
		Decimals:      8,
		PriceOracleID: "amnis-aptos",
	}
	StAPT = types.CoinInfo{
		Type:          "0x111ae3e5bc816a5e63c2da97d0aa3886519e0cd5e4b046659fa35796bd11542a::stapt_token::StakedApt",
		Symbol:        "stAPT",
		Decimals:      8,
		PriceOracleID: "amnis-staked-aptos-coin",
	}
	LzUSDC = types.CoinInfo{
		Type:          "0xf22bede237a07e121b56d91a491eb7bcdfd1f5907926a9e58338f964a01b17fa::asset::USDC",
		Symbol:        "USDC",
		Decimals:      6,
		PriceOracleID: "usd-coin",
	}
	LzUSDT = types.CoinInfo{
		Type:          "0xf22bede237a07e121b56d91a491eb7bcdfd1f5907926a9e58338f964a01b17fa::asset::USDT",
		Symbol:        "USDT",
		Decimals:      6,
		PriceOracleID: "tether",
	}
)

func liquidswapFarm(key string, x, y types.CoinInfo, curve string, reward types.CoinInfo) types.FarmDescriptor {
	return types.FarmDescriptor{
		DeployedAddress: HarvestAddress,
		CoinX:           x,
		CoinY:           y,
		Curve:           curve,
		RewardToken:     reward,
		ResourceAccount: LiquidswapResourceAccount,
		ModuleAccount:   LiquidswapModuleAccount,
		UniqueFarmKey:   key,
	}
}

// DefaultFarms returns a fresh copy of the built-in farm list.
func DefaultFarms() []types.FarmDescriptor {
	return []types.FarmDescriptor{
		liquidswapFarm("liquidswap-farm-amapt-apt-stable", AmAPT, APT, StableCurve, AmAPT),
		liquidswapFarm("liquidswap-farm-stapt-amapt-stable", StAPT, AmAPT, StableCurve, AmAPT),
		liquidswapFarm("liquidswap-farm-apt-usdc-uncorrelated", APT, LzUSDC, UncorrelatedCurve, APT),
		liquidswapFarm("liquidswap-farm-usdt-usdc-stable", LzUSDT, LzUSDC, StableCurve, APT),
	}
}

// LoadFarms returns the farms of FarmsFile, or DefaultFarms when it is unset.
func LoadFarms() ([]types.FarmDescriptor, error) {
	if FarmsFile == "" {
		return DefaultFarms(), nil
	}
	return loadFarmsFile(FarmsFile)
}

func loadFarmsFile(path string) ([]types.FarmDescriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read farms file: %w", err)
	}

	var farms []types.FarmDescriptor
	if err := json.Unmarshal(raw, &farms); err != nil {
		return nil, fmt.Errorf("parse farms file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(farms))
	for i, farm := range farms {
		if err := validateFarm(farm); err != nil {
			return nil, fmt.Errorf("farms file %s entry %d: %w", path, i, err)
		}
		if seen[farm.UniqueFarmKey] {
			return nil, fmt.Errorf("farms file %s: duplicate farm key %s", path, farm.UniqueFarmKey)
		}
		seen[farm.UniqueFarmKey] = true
	}
	return farms, nil
}

var ErrCurveNotQualified = errors.New("curve must be a fully qualified Move type <address>::curves::<Name>")

// validateCurveTag requires the full type tag: it is embedded as-is in the LP
// coin and liquidity pool resource types.
func validateCurveTag(curve string) error {
	parts := strings.Split(curve, "::")
	if len(parts) != 3 || parts[0] == "" || parts[1] != "curves" || strings.ContainsAny(curve, " <>,") {
		return fmt.Errorf("%w, got %q", ErrCurveNotQualified, curve)
	}
	_, err := types.ParseCurveType(curve)
	return err
}

func validateFarm(farm types.FarmDescriptor) error {
	if farm.UniqueFarmKey == "" {
		return fmt.Errorf("unique_farm_key is required")
	}
	if farm.DeployedAddress == "" || farm.ResourceAccount == "" || farm.ModuleAccount == "" {
		return fmt.Errorf("farm %s: deployed_address, resource_account and module_account are required", farm.UniqueFarmKey)
	}
	if err := validateCurveTag(farm.Curve); err != nil {
		return fmt.Errorf("farm %s: %w", farm.UniqueFarmKey, err)
	}
	for _, coin := range []types.CoinInfo{farm.CoinX, farm.CoinY, farm.RewardToken} {
		if coin.Type == "" || coin.PriceOracleID == "" {
			return fmt.Errorf("farm %s: coin type and price_oracle_id are required", farm.UniqueFarmKey)
		}
		if coin.Decimals < 0 || coin.Decimals > 18 {
			return fmt.Errorf("farm %s: coin %s has invalid decimals %d", farm.UniqueFarmKey, coin.Type, coin.Decimals)
		}
	}
	return nil
}
