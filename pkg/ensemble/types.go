// Package ensemble reconciles the pattern classifier's and the learned
// classifier's proposals into one final decision per field.
package ensemble

import (
	"github.com/formsense/field-classifier/pkg/classification"
	"github.com/formsense/field-classifier/pkg/features"
)

// PatternClassifier is the symbolic side of the ensemble. A nil result means
// no rule matched.
type PatternClassifier interface {
	Classify(d *features.FieldDescriptor) *classification.ClassificationResult
}

// LearnedClassifier is the statistical side of the ensemble.
type LearnedClassifier interface {
	Predict(d *features.FieldDescriptor) (*classification.ClassificationResult, error)
	Train(d *features.FieldDescriptor, label string) error
}

// Profile is one threshold/weight set used by the arbitration policy. All of
// these are hand-tuned operating points, deliberately exposed as
// configuration rather than constants.
type Profile struct {
	// PatternStrong is the confidence at which a pattern result wins outright.
	PatternStrong float64 `yaml:"pattern_strong" json:"pattern_strong"`
	// LearnedStrong is the confidence at which a learned result wins outright,
	// provided the pattern result stays under WeakHeuristicCeiling.
	LearnedStrong        float64 `yaml:"learned_strong" json:"learned_strong"`
	WeakHeuristicCeiling float64 `yaml:"weak_heuristic_ceiling" json:"weak_heuristic_ceiling"`
	// PatternWeight and LearnedWeight scale the two confidences in the
	// weighted-vote tier.
	PatternWeight float64 `yaml:"pattern_weight" json:"pattern_weight"`
	LearnedWeight float64 `yaml:"learned_weight" json:"learned_weight"`
}

// ArbitrationConfig selects a Profile per taxonomy category. Categories in
// PatternFavoredCategories trust the symbolic rules more (short, rigid
// surface forms like emails and postal codes); ContextFavoredCategories
// trust the network more (free-text context the rules cannot reach).
type ArbitrationConfig struct {
	UnanimousConfidence float64 `yaml:"unanimous_confidence" json:"unanimous_confidence"`

	PatternFavoredCategories []string `yaml:"pattern_favored_categories" json:"pattern_favored_categories"`
	ContextFavoredCategories []string `yaml:"context_favored_categories" json:"context_favored_categories"`

	PatternFavored Profile `yaml:"pattern_favored" json:"pattern_favored"`
	ContextFavored Profile `yaml:"context_favored" json:"context_favored"`
	Default        Profile `yaml:"default" json:"default"`
}

// DefaultArbitrationConfig returns the tuned defaults.
func DefaultArbitrationConfig() ArbitrationConfig {
	return ArbitrationConfig{
		UnanimousConfidence: 0.99,
		PatternFavoredCategories: []string{
			"contact", "identity", "online_presence", "location",
		},
		ContextFavoredCategories: []string{
			"work_experience", "education", "skills", "availability",
		},
		PatternFavored: Profile{
			PatternStrong:        0.90,
			LearnedStrong:        0.90,
			WeakHeuristicCeiling: 0.80,
			PatternWeight:        0.7,
			LearnedWeight:        0.3,
		},
		ContextFavored: Profile{
			PatternStrong:        0.97,
			LearnedStrong:        0.82,
			WeakHeuristicCeiling: 0.80,
			PatternWeight:        0.4,
			LearnedWeight:        0.6,
		},
		Default: Profile{
			PatternStrong:        0.95,
			LearnedStrong:        0.85,
			WeakHeuristicCeiling: 0.80,
			PatternWeight:        0.5,
			LearnedWeight:        0.5,
		},
	}
}
