/*

These are the normalized records published for the yield dashboard, and the raw registry records
returned by the Liquidswap partner API.

*/

package types

import (
	"encoding/json"
	"math"
	"strconv"
)

// Metric is a dashboard number. NaN and Inf mean "could not compute" and are
// encoded as JSON null, never as 0.
type Metric float64

// MarshalJSON implements json.Marshaler.
func (m Metric) MarshalJSON() ([]byte, error) {
	f := float64(m)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// IsNumeric reports whether the metric holds a finite number.
func (m Metric) IsNumeric() bool {
	f := float64(m)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// MetricPtr is a helper for the optional record fields.
func MetricPtr(v float64) *Metric {
	m := Metric(v)
	return &m
}

// PoolRecord is one normalized pool entry.
type PoolRecord struct {
	Pool        string  `json:"pool"`    // chain-qualified pool id
	Chain       string  `json:"chain"`   // e.g., "Aptos"
	Project     string  `json:"project"` // always "liquidswap"
	Symbol      string  `json:"symbol"`  // e.g., "APT-USDC"
	TvlUsd      Metric  `json:"tvlUsd"`
	Apy         *Metric `json:"apy,omitempty"`     // farm reward APR (Aptos)
	ApyBase     *Metric `json:"apyBase,omitempty"` // fee APY (Movement)
	VolumeUsd1d *Metric `json:"volumeUsd1d,omitempty"`
}

// Metadata is the static description of the adaptor.
type Metadata struct {
	URL        string `json:"url"`
	TimeTravel bool   `json:"timetravel"`
}

// RegisteredPool is a pool entry of GET /pools/registered.
// Numbers arrive as strings, JSON numbers or null and are kept raw, so a bad
// value only invalidates its own record when it is parsed.
type RegisteredPool struct {
	TVL           json.RawMessage     `json:"tvl"`
	Volume24      json.RawMessage     `json:"volume24"`
	NormalizedFee json.RawMessage     `json:"normalizedFee"`
	Stats         RegisteredPoolStats `json:"stats"`
	CoinX         RegisteredPoolCoin  `json:"coinX"`
	CoinY         RegisteredPoolCoin  `json:"coinY"`
}

type RegisteredPoolStats struct {
	Curve string `json:"curve"` // "<lpId>::<module>::<curveId>"
}

type RegisteredPoolCoin struct {
	Symbol string `json:"symbol"`
}
