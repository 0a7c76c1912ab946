/*

This file contains the Movement registry pipeline. Pools are pre-aggregated by the Liquidswap
API; each record only needs its identifier recovered from the curve descriptor and its fee APY
derived from 24h volume and the normalized fee rate.

*/

package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/liquidswap/yieldscan/internal/logger"
	"github.com/liquidswap/yieldscan/internal/types"
	"github.com/shopspring/decimal"
)

var movementLogger = logger.GetForComponent("movement_pipeline")

const (
	ChainMovement = "Movement"

	curveSeparator = "::"
)

var (
	daysPerYear = decimal.NewFromInt(365)
	hundred     = decimal.NewFromInt(100)
)

// CurveDescriptor is the parsed form of "<lpId>::<module>::<curveId>".
type CurveDescriptor struct {
	LPID    string
	Module  string
	CurveID string
}

// ParseCurveDescriptor splits a registry curve descriptor. Exactly three
// non-empty segments are accepted.
func ParseCurveDescriptor(s string) (CurveDescriptor, error) {
	parts := strings.Split(strings.TrimSpace(s), curveSeparator)
	if len(parts) != 3 {
		return CurveDescriptor{}, fmt.Errorf("%w: %q has %d segments", ErrMalformedCurve, s, len(parts))
	}
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			return CurveDescriptor{}, fmt.Errorf("%w: %q has an empty segment", ErrMalformedCurve, s)
		}
	}
	return CurveDescriptor{LPID: parts[0], Module: parts[1], CurveID: parts[2]}, nil
}

// FeeAPY annualizes the fee income of one day of volume, in percent.
// Zero (or negative) volume yields exactly zero.
func FeeAPY(volume, feeRate decimal.Decimal) decimal.Decimal {
	if !volume.IsPositive() {
		return decimal.Zero
	}
	return volume.Mul(feeRate).Mul(daysPerYear).Mul(hundred).Div(volume)
}

// MovementPipeline normalizes the registered pools of the Movement network.
type MovementPipeline struct {
	registry RegistryFetcher
}

func NewMovementPipeline(registry RegistryFetcher) *MovementPipeline {
	return &MovementPipeline{registry: registry}
}

// Run fetches the registry once. A fetch error fails the whole chain; bad
// records only fail themselves.
func (p *MovementPipeline) Run(ctx context.Context) ([]types.PoolRecord, []Failure, error) {
	registered, err := p.registry.FetchRegisteredPools(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("movement registry: %w", err)
	}

	records := make([]types.PoolRecord, 0, len(registered))
	var failures []Failure
	skipped := 0
	for _, pool := range registered {
		if isNullNumber(pool.TVL) {
			skipped++
			continue
		}

		record, err := normalizeRegisteredPool(pool)
		if err != nil {
			movementLogger.Warn().
				Err(err).
				Str("curve", pool.Stats.Curve).
				Msg("Skipping registry record")
			failures = append(failures, Failure{Chain: ChainMovement, Key: pool.Stats.Curve, Err: err})
			continue
		}
		records = append(records, record)
	}

	movementLogger.Info().
		Int("registered", len(registered)).
		Int("nullTvl", skipped).
		Int("records", len(records)).
		Int("failures", len(failures)).
		Msg("Movement pools processed")

	return records, failures, nil
}

func normalizeRegisteredPool(pool types.RegisteredPool) (types.PoolRecord, error) {
	curve, err := ParseCurveDescriptor(pool.Stats.Curve)
	if err != nil {
		return types.PoolRecord{}, err
	}
	if pool.CoinX.Symbol == "" || pool.CoinY.Symbol == "" {
		return types.PoolRecord{}, fmt.Errorf("%w: missing coin symbol", ErrInvalidRegistryRecord)
	}
	tvl, err := parseRegistryNumber(pool.TVL, "tvl")
	if err != nil {
		return types.PoolRecord{}, err
	}
	volume, err := parseRegistryNumber(pool.Volume24, "volume24")
	if err != nil {
		return types.PoolRecord{}, err
	}
	fee, err := parseRegistryNumber(pool.NormalizedFee, "normalizedFee")
	if err != nil {
		return types.PoolRecord{}, err
	}

	apyBase := FeeAPY(volume, fee)

	return types.PoolRecord{
		Pool:        fmt.Sprintf("%s-%s-%s-%s", curve.LPID, pool.CoinX.Symbol, pool.CoinY.Symbol, curve.CurveID),
		Chain:       ChainMovement,
		Project:     Project,
		Symbol:      pool.CoinX.Symbol + "-" + pool.CoinY.Symbol,
		TvlUsd:      types.Metric(tvl.InexactFloat64()),
		ApyBase:     types.MetricPtr(apyBase.InexactFloat64()),
		VolumeUsd1d: types.MetricPtr(volume.InexactFloat64()),
	}, nil
}

func isNullNumber(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// parseRegistryNumber accepts a decimal string or a JSON number. Null, empty
// and non numeric values are ErrInvalidRegistryRecord.
func parseRegistryNumber(raw json.RawMessage, field string) (decimal.Decimal, error) {
	if isNullNumber(raw) {
		return decimal.Zero, fmt.Errorf("%w: %s is null", ErrInvalidRegistryRecord, field)
	}

	text := string(bytes.TrimSpace(raw))
	if strings.HasPrefix(text, `"`) {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, fmt.Errorf("%w: %s: %v", ErrInvalidRegistryRecord, field, err)
		}
	}

	value, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a number", ErrInvalidRegistryRecord, field, text)
	}
	return value, nil
}
