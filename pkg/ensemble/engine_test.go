package ensemble_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formsense/field-classifier/pkg/classification"
	"github.com/formsense/field-classifier/pkg/ensemble"
	"github.com/formsense/field-classifier/pkg/features"
	"github.com/formsense/field-classifier/pkg/mlp"
	"github.com/formsense/field-classifier/pkg/taxonomy"
)

func newTestEngine(t *testing.T) *ensemble.Engine {
	t.Helper()
	tax := taxonomy.Default()
	enc, err := features.NewEncoder(tax)
	require.NoError(t, err)
	patternClf, err := classification.NewPatternClassifier(tax)
	require.NoError(t, err)
	net, err := mlp.New(mlp.Config{InputSize: enc.Length(), OutputSize: tax.Size(), Seed: 3})
	require.NoError(t, err)
	learnedClf, err := classification.NewLearnedClassifier(tax, enc, net, 0)
	require.NoError(t, err)
	return ensemble.NewEngine(patternClf, learnedClf, ensemble.NewArbiter(ensemble.DefaultArbitrationConfig()), nil)
}

func TestEngineClassifyAlwaysReturnsWellFormedResult(t *testing.T) {
	engine := newTestEngine(t)

	descriptors := []*features.FieldDescriptor{
		{Label: "Email Address", InputType: "email"},
		{Label: "Expected CTC"},
		{Label: "Start Date", ParentContext: "Education History"},
		{}, // entirely empty still yields a decision
	}
	for _, d := range descriptors {
		result := engine.Classify(d)
		assert.NotEmpty(t, result.Tier)
		assert.NotEmpty(t, result.Label)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
	}
}

func TestEngineStrongPatternDecisionsSurvive(t *testing.T) {
	engine := newTestEngine(t)

	// The autofill hint carries 0.99 pattern confidence, so whatever the
	// untrained network says, the final label must be the hint's.
	result := engine.Classify(&features.FieldDescriptor{
		Label:        "Random Text",
		AutofillHint: "family-name",
	})
	assert.Equal(t, "last_name", result.Label)
	assert.GreaterOrEqual(t, result.Confidence, 0.95)

	result = engine.Classify(&features.FieldDescriptor{Label: "Expected CTC"})
	assert.Equal(t, "salary_expected", result.Label)
	assert.GreaterOrEqual(t, result.Confidence, 0.95)

	result = engine.Classify(&features.FieldDescriptor{Label: "Current Salary"})
	assert.Equal(t, "salary_current", result.Label)
	assert.GreaterOrEqual(t, result.Confidence, 0.95)
}

func TestEngineClassifyBatch(t *testing.T) {
	engine := newTestEngine(t)
	engine.SetBatchWorkers(4)

	fields := make([]*features.FieldDescriptor, 50)
	for i := range fields {
		switch i % 3 {
		case 0:
			fields[i] = &features.FieldDescriptor{Label: "Email"}
		case 1:
			fields[i] = &features.FieldDescriptor{Label: "Phone Number"}
		default:
			fields[i] = &features.FieldDescriptor{Label: "City"}
		}
	}

	results := engine.ClassifyBatch(context.Background(), fields)
	require.Len(t, results, len(fields))

	// Results must be index-aligned with the input.
	single := engine.Classify(fields[0])
	assert.Equal(t, single.Label, results[0].Label)
	for i, r := range results {
		assert.NotEmptyf(t, r.Tier, "missing result at index %d", i)
	}
}

func TestEngineStats(t *testing.T) {
	engine := newTestEngine(t)

	engine.Classify(&features.FieldDescriptor{Label: "Email"})
	engine.Classify(&features.FieldDescriptor{Label: "Phone"})
	assert.Equal(t, int64(2), engine.Stats().Classified.Load())

	wins := engine.Stats().TierWins()
	var total int64
	for _, n := range wins {
		total += n
	}
	assert.Equal(t, int64(2), total)
}

func TestEngineTrain(t *testing.T) {
	engine := newTestEngine(t)

	require.NoError(t, engine.Train(&features.FieldDescriptor{Label: "Email"}, "email"))
	assert.Equal(t, int64(1), engine.Stats().TrainedOK.Load())

	require.Error(t, engine.Train(&features.FieldDescriptor{Label: "Email"}, "nonexistent_class"))
	assert.Equal(t, int64(1), engine.Stats().TrainRejects.Load())
}
