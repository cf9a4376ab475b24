package mlp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	n, err := New(testConfig())
	require.NoError(t, err)

	in := testInput()
	for i := 0; i < 10; i++ {
		require.NoError(t, n.Train(in, 2))
	}
	want, err := n.Predict(in)
	require.NoError(t, err)

	// Serialize through JSON to exercise the wire format, then load into a
	// fresh instance.
	data, err := json.Marshal(n.Export())
	require.NoError(t, err)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))

	fresh, err := New(testConfig())
	require.NoError(t, err)
	require.NoError(t, fresh.Load(&snap))

	got, err := fresh.Predict(in)
	require.NoError(t, err)
	assert.Equal(t, want, got, "reloaded weights must reproduce identical predictions")
	assert.Equal(t, int64(10), fresh.TotalSamples())
}

func TestLoadRejectsVersionMismatch(t *testing.T) {
	n, err := New(testConfig())
	require.NoError(t, err)

	snap := n.Export()
	snap.Version = SnapshotVersion + 1
	require.Error(t, n.Load(snap))
}

func TestLoadRejectsShapeMismatch(t *testing.T) {
	n, err := New(testConfig())
	require.NoError(t, err)

	// A snapshot from a network with a different output width (taxonomy
	// size changed) must be rejected, never truncated or padded.
	otherCfg := testConfig()
	otherCfg.OutputSize = 7
	other, err := New(otherCfg)
	require.NoError(t, err)

	in := testInput()
	before, err := n.Predict(in)
	require.NoError(t, err)

	require.Error(t, n.Load(other.Export()))

	after, err := n.Predict(in)
	require.NoError(t, err)
	assert.Equal(t, before, after, "a rejected load must leave weights untouched")
}

func TestLoadRejectsNil(t *testing.T) {
	n, err := New(testConfig())
	require.NoError(t, err)
	require.Error(t, n.Load(nil))
}

func TestSnapshotExportIsDeepCopy(t *testing.T) {
	n, err := New(testConfig())
	require.NoError(t, err)

	snap := n.Export()
	in := testInput()
	before, err := n.Predict(in)
	require.NoError(t, err)

	// Mutating the exported copy must not affect the live network.
	snap.W1[0][0] += 100
	after, err := n.Predict(in)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
