package mlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		InputSize:  12,
		Hidden1:    16,
		Hidden2:    8,
		OutputSize: 5,
		Seed:       42,
	}
}

func testInput() []float32 {
	in := make([]float32, 12)
	in[0], in[3], in[7] = 1, 0.5, 0.25
	return in
}

func TestNewRejectsInvalidArchitecture(t *testing.T) {
	_, err := New(Config{InputSize: 0, OutputSize: 5})
	require.Error(t, err)
	_, err = New(Config{InputSize: 5, OutputSize: 0})
	require.Error(t, err)
}

func TestPredictIsDistribution(t *testing.T) {
	n, err := New(testConfig())
	require.NoError(t, err)

	probs, err := n.Predict(testInput())
	require.NoError(t, err)
	require.Len(t, probs, 5)

	var sum float32
	for _, p := range probs {
		assert.GreaterOrEqual(t, p, float32(0))
		assert.LessOrEqual(t, p, float32(1))
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-4)
}

func TestPredictDeterministic(t *testing.T) {
	n, err := New(testConfig())
	require.NoError(t, err)

	in := testInput()
	first, err := n.Predict(in)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := n.Predict(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPredictRejectsWrongInputLength(t *testing.T) {
	n, err := New(testConfig())
	require.NoError(t, err)
	_, err = n.Predict(make([]float32, 3))
	require.Error(t, err)
}

func TestTrainRejectsBadArguments(t *testing.T) {
	n, err := New(testConfig())
	require.NoError(t, err)

	require.Error(t, n.Train(make([]float32, 3), 0))
	require.Error(t, n.Train(testInput(), -1))
	require.Error(t, n.Train(testInput(), 5))
	assert.Equal(t, int64(0), n.TotalSamples(), "rejected training must not advance the counter")
}

// Repeated training on the same pair must drive probability mass onto the
// target label. Guards the backprop implementation against sign and shape
// regressions.
func TestTrainMonotonicity(t *testing.T) {
	n, err := New(testConfig())
	require.NoError(t, err)

	in := testInput()
	const label = 3

	before, err := n.Predict(in)
	require.NoError(t, err)

	for i := 0; i < 80; i++ {
		require.NoError(t, n.Train(in, label))
	}

	after, err := n.Predict(in)
	require.NoError(t, err)

	assert.Greater(t, after[label], before[label],
		"probability of the trained label should increase")
	assert.Greater(t, after[label], float32(0.5),
		"after 80 identical steps the label should dominate")
	assert.Equal(t, int64(80), n.TotalSamples())
}

func TestConfigZeroFillsDefaultsNegativeDisables(t *testing.T) {
	n, err := New(Config{InputSize: 4, OutputSize: 3, Seed: 1})
	require.NoError(t, err)
	cfg := n.Config()
	assert.Equal(t, 0.0001, cfg.DecayConstant)
	assert.Equal(t, 0.0001, cfg.WeightDecay)
	assert.Equal(t, 0.2, cfg.DropoutRate)

	// Zero means unset, so a true zero is spelled as a negative value.
	n, err = New(Config{
		InputSize:     4,
		OutputSize:    3,
		Seed:          1,
		DecayConstant: -1,
		WeightDecay:   -1,
		DropoutRate:   -1,
	})
	require.NoError(t, err)
	cfg = n.Config()
	assert.Zero(t, cfg.DecayConstant)
	assert.Zero(t, cfg.WeightDecay)
	assert.Zero(t, cfg.DropoutRate)

	// Training with every regularizer disabled still works.
	in := []float32{1, 0, 0.5, 0}
	require.NoError(t, n.Train(in, 2))
	assert.Equal(t, int64(1), n.TotalSamples())
}

func TestTrainOnlyMutatesOnSuccess(t *testing.T) {
	n, err := New(testConfig())
	require.NoError(t, err)

	in := testInput()
	before, err := n.Predict(in)
	require.NoError(t, err)

	require.Error(t, n.Train(in, 99))

	after, err := n.Predict(in)
	require.NoError(t, err)
	assert.Equal(t, before, after, "a rejected step must leave weights untouched")
}
