package mlp

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func heldOutSamples(n int) [][]float32 {
	rng := rand.New(rand.NewSource(7))
	samples := make([][]float32, n)
	for i := range samples {
		s := make([]float32, 12)
		for j := range s {
			if rng.Float64() < 0.3 {
				s[j] = rng.Float32()
			}
		}
		samples[i] = s
	}
	return samples
}

func TestFastPathFlattenMatchesNetwork(t *testing.T) {
	n, err := New(testConfig())
	require.NoError(t, err)

	f := NewFastPath(n, FastPathOptions{})
	for _, sample := range heldOutSamples(50) {
		want, err := n.Predict(sample)
		require.NoError(t, err)
		got := f.Predict(sample)
		require.Len(t, got, len(want))
		for i := range want {
			assert.InDelta(t, want[i], got[i], 1e-5)
		}
	}
}

func TestFastPathPrunePreservesTop1(t *testing.T) {
	n, err := New(testConfig())
	require.NoError(t, err)

	f := NewFastPath(n, FastPathOptions{PruneThreshold: 1e-4})
	ok, err := VerifyTop1(n, f, heldOutSamples(100))
	require.NoError(t, err)
	assert.True(t, ok, "near-zero pruning must preserve top-1 predictions")
}

func TestFastPathQuantizeVerification(t *testing.T) {
	n, err := New(testConfig())
	require.NoError(t, err)

	f := NewFastPath(n, FastPathOptions{Quantize: true})
	samples := heldOutSamples(100)

	// Quantization may or may not preserve every top-1 on a random network;
	// the contract is that VerifyTop1 is the gate. Exercise both paths.
	ok, err := VerifyTop1(n, f, samples)
	require.NoError(t, err)
	if ok {
		for _, s := range samples {
			want, err := n.Predict(s)
			require.NoError(t, err)
			assert.Equal(t, argmax(want), argmax(f.Predict(s)))
		}
	}
}

func TestVerifyTop1DetectsDisagreement(t *testing.T) {
	n, err := New(testConfig())
	require.NoError(t, err)

	// An absurd pruning threshold wipes the network, so the fast path must
	// fail verification on some sample set.
	f := NewFastPath(n, FastPathOptions{PruneThreshold: 100})
	ok, err := VerifyTop1(n, f, heldOutSamples(100))
	require.NoError(t, err)
	assert.False(t, ok)
}
