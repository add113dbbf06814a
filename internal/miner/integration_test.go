package miner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colocation-mining/internal/loader"
	"github.com/colocation-mining/internal/testutil"
	"github.com/colocation-mining/pkg/model"
)

const vegasSample = `Feature,Instance,LocX,LocY
A,1,1.0,1.0
B,1,1.2,1.1
C,1,1.1,1.3
A,2,5.0,5.0
B,2,5.1,5.2
A,3,20.0,20.0
D,1,50.0,50.0
`

func TestEndToEnd_CSVToPatternTable(t *testing.T) {
	path := testutil.WriteTempCSV(t, vegasSample)

	instances, err := loader.NewLoader(nil).LoadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, instances, 7)

	m, err := New(Options{NeighborDistance: 2.0, MinPrevalence: 0.3})
	require.NoError(t, err)

	result, err := m.Run(context.Background(), instances)
	require.NoError(t, err)

	// Every feature type participates fully in its own singleton pattern,
	// isolated instances included.
	for _, f := range []string{"A", "B", "C", "D"} {
		v, ok := result.Lookup(model.NewPattern(f))
		require.True(t, ok, "singleton %s missing", f)
		assert.InDelta(t, 1.0, v, 1e-9)
	}

	// The pair is carried by both A-B sites; the triple only by one of
	// three As.
	v, ok := result.Lookup(model.NewPattern("A", "B"))
	require.True(t, ok)
	assert.InDelta(t, 2.0/3.0, v, 1e-9)

	v, ok = result.Lookup(model.NewPattern("A", "B", "C"))
	require.True(t, ok)
	assert.InDelta(t, 1.0/3.0, v, 1e-9)

	assert.Equal(t, 7, result.Stats.InstanceCount)
	assert.Equal(t, 4, result.Stats.FeatureCount)
}

func TestEndToEnd_Deterministic(t *testing.T) {
	path := testutil.WriteTempCSV(t, vegasSample)

	run := func() *model.MiningResult {
		instances, err := loader.NewLoader(nil).LoadFile(context.Background(), path)
		require.NoError(t, err)
		m, err := New(Options{NeighborDistance: 2.0, MinPrevalence: 0.3})
		require.NoError(t, err)
		result, err := m.Run(context.Background(), instances)
		require.NoError(t, err)
		return result
	}

	assert.Equal(t, run().Patterns, run().Patterns)
}
