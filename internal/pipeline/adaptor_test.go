package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/liquidswap/yieldscan/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdaptor(chain *fakeChain, registry *fakeRegistry, farms ...types.FarmDescriptor) *Adaptor {
	return NewAdaptor(Config{
		Farms:           farms,
		Chain:           chain,
		Prices:          healthyPrices(),
		Registry:        registry,
		FarmConcurrency: 2,
	})
}

func TestAdaptorConcatenatesChains(t *testing.T) {
	registry := &fakeRegistry{pools: []types.RegisteredPool{
		registeredPool("1000", "200", "0.003", "0xabc::Curve::Uncorrelated"),
	}}
	adaptor := newTestAdaptor(&fakeChain{}, registry, testFarm("apt-usdc"))

	pools, err := adaptor.APY(context.Background())
	require.NoError(t, err)
	require.Len(t, pools, 2)
	assert.Equal(t, ChainAptos, pools[0].Chain)
	assert.Equal(t, ChainMovement, pools[1].Chain)
}

func TestAdaptorDegradesWhenRegistryFails(t *testing.T) {
	registryErr := errors.New("registry timeout")
	adaptor := newTestAdaptor(&fakeChain{}, &fakeRegistry{err: registryErr}, testFarm("apt-usdc"))

	result := adaptor.Run(context.Background())
	require.Len(t, result.Pools, 1)
	assert.Equal(t, "apt-usdc", result.Pools[0].Pool)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, ChainMovement, result.Failures[0].Chain)
	assert.Equal(t, chainWideKey, result.Failures[0].Key)

	pools, err := adaptor.APY(context.Background())
	assert.Len(t, pools, 1)
	assert.ErrorIs(t, err, registryErr)
}

func TestAdaptorJoinsFailures(t *testing.T) {
	chain := &fakeChain{failing: map[string]error{"bad": errChainDown}}
	registry := &fakeRegistry{pools: []types.RegisteredPool{
		registeredPool("1000", "200", "0.003", "broken"),
	}}
	adaptor := newTestAdaptor(chain, registry, testFarm("good"), testFarm("bad"))

	pools, err := adaptor.APY(context.Background())
	require.Len(t, pools, 1)
	assert.ErrorIs(t, err, errChainDown)
	assert.ErrorIs(t, err, ErrMalformedCurve)
}

func TestAdaptorMetadata(t *testing.T) {
	metadata := newTestAdaptor(&fakeChain{}, &fakeRegistry{}).Metadata()
	assert.Equal(t, "https://farms.liquidswap.com/#/stakes", metadata.URL)
	assert.False(t, metadata.TimeTravel)
}

func TestResultErrNilWhenClean(t *testing.T) {
	assert.NoError(t, Result{}.Err())
}
