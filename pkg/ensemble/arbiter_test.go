package ensemble_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/formsense/field-classifier/pkg/classification"
	"github.com/formsense/field-classifier/pkg/ensemble"
	"github.com/formsense/field-classifier/pkg/taxonomy"
)

func patternResult(label string, confidence float64) *classification.ClassificationResult {
	return &classification.ClassificationResult{
		Label:      label,
		Confidence: confidence,
		Tier:       classification.TierPatternScan,
		Category:   taxonomy.Default().CategoryOf(label),
	}
}

func learnedResult(label string, confidence float64) *classification.ClassificationResult {
	return &classification.ClassificationResult{
		Label:      label,
		Confidence: confidence,
		Tier:       classification.TierLearned,
		Category:   taxonomy.Default().CategoryOf(label),
	}
}

var _ = Describe("Arbiter", func() {
	var arbiter *ensemble.Arbiter

	BeforeEach(func() {
		arbiter = ensemble.NewArbiter(ensemble.DefaultArbitrationConfig())
	})

	Describe("tier 1: unanimous agreement", func() {
		It("boosts agreeing classifiers to the unanimous constant", func() {
			result := arbiter.Arbitrate(patternResult("email", 0.80), learnedResult("email", 0.70))
			Expect(result.Label).To(Equal("email"))
			Expect(result.Confidence).To(BeNumerically("~", 0.99, 1e-9))
			Expect(result.Tier).To(Equal(classification.TierUnanimous))
		})

		It("fires regardless of how low the individual confidences are", func() {
			result := arbiter.Arbitrate(patternResult("city", 0.61), learnedResult("city", 0.05))
			Expect(result.Tier).To(Equal(classification.TierUnanimous))
			Expect(result.Confidence).To(BeNumerically("~", 0.99, 1e-9))
		})

		It("does not fire on unanimous unknown", func() {
			result := arbiter.Arbitrate(patternResult(taxonomy.Unknown, 0.9), learnedResult(taxonomy.Unknown, 0.9))
			Expect(result.Tier).NotTo(Equal(classification.TierUnanimous))
			Expect(result.Label).To(Equal(taxonomy.Unknown))
		})
	})

	Describe("tier 2: strong pattern override", func() {
		It("returns a strong pattern result as-is", func() {
			result := arbiter.Arbitrate(patternResult("email", 0.95), learnedResult("phone", 0.99))
			Expect(result.Label).To(Equal("email"))
			Expect(result.Confidence).To(Equal(0.95))
			Expect(result.Tier).To(Equal(classification.TierPatternOverride))
		})

		It("uses the pattern-favored threshold for contact classes", func() {
			// 0.91 clears the pattern-favored bar (0.90) but not the default (0.95).
			result := arbiter.Arbitrate(patternResult("email", 0.91), learnedResult("phone", 0.50))
			Expect(result.Tier).To(Equal(classification.TierPatternOverride))
		})

		It("uses the context-favored threshold for work classes", func() {
			// 0.95 is below the context-favored pattern-strong bar (0.97).
			result := arbiter.Arbitrate(patternResult("job_title", 0.95), learnedResult("skills", 0.50))
			Expect(result.Tier).NotTo(Equal(classification.TierPatternOverride))
		})
	})

	Describe("tier 3: strong learned override", func() {
		It("lets a confident network win when patterns are silent", func() {
			result := arbiter.Arbitrate(nil, learnedResult("job_description", 0.90))
			Expect(result.Label).To(Equal("job_description"))
			Expect(result.Tier).To(Equal(classification.TierLearnedOverride))
		})

		It("is blocked when the pattern side is above the weak-heuristic ceiling", func() {
			result := arbiter.Arbitrate(patternResult("job_title", 0.85), learnedResult("job_description", 0.95))
			Expect(result.Tier).NotTo(Equal(classification.TierLearnedOverride))
		})
	})

	Describe("tier 4: weighted vote", func() {
		It("skews toward patterns for pattern-favored categories", func() {
			result := arbiter.Arbitrate(patternResult("email", 0.85), learnedResult("phone", 0.85))
			// 0.85*0.7 beats 0.85*0.3
			Expect(result.Label).To(Equal("email"))
			Expect(result.Tier).To(Equal(classification.TierWeightedVote))
			Expect(result.AltLabel).To(Equal("phone"))
			Expect(result.AltConfidence).To(Equal(0.85))
		})

		It("skews toward the network for context-favored categories", func() {
			result := arbiter.Arbitrate(patternResult("job_title", 0.85), learnedResult("skills", 0.80))
			// 0.85*0.4 < 0.80*0.6
			Expect(result.Label).To(Equal("skills"))
			Expect(result.Tier).To(Equal(classification.TierWeightedVote))
			Expect(result.AltLabel).To(Equal("job_title"))
		})
	})

	Describe("tier 5: fallback", func() {
		It("passes through a lone pattern result", func() {
			result := arbiter.Arbitrate(patternResult("gender", 0.70), nil)
			Expect(result.Label).To(Equal("gender"))
			Expect(result.Confidence).To(Equal(0.70))
			Expect(result.Tier).To(Equal(classification.TierFallback))
		})

		It("passes through a lone learned result", func() {
			result := arbiter.Arbitrate(nil, learnedResult("references", 0.60))
			Expect(result.Label).To(Equal("references"))
			Expect(result.Tier).To(Equal(classification.TierFallback))
		})

		It("returns unknown at confidence zero when both are silent", func() {
			result := arbiter.Arbitrate(nil, nil)
			Expect(result.Label).To(Equal(taxonomy.Unknown))
			Expect(result.Confidence).To(BeZero())
			Expect(result.Tier).To(Equal(classification.TierFallback))
		})
	})

	Describe("tier ordering", func() {
		It("always picks tier 1 for equal non-unknown labels, whatever the confidences", func() {
			for _, conf := range [][2]float64{{0.99, 0.99}, {0.01, 0.01}, {0.95, 0.10}, {0.10, 0.95}} {
				result := arbiter.Arbitrate(patternResult("degree", conf[0]), learnedResult("degree", conf[1]))
				Expect(result.Tier).To(Equal(classification.TierUnanimous))
			}
		})

		It("checks tier 2 before tier 3 even when both would fire", func() {
			// Pattern 0.95 (default profile: strong) and learned 0.99 with a
			// pattern below the ceiling is impossible; with pattern strong,
			// tier 2 must win.
			result := arbiter.Arbitrate(patternResult("gender", 0.96), learnedResult("pronouns", 0.99))
			Expect(result.Tier).To(Equal(classification.TierPatternOverride))
		})
	})

	Describe("confidence bounds", func() {
		It("keeps every arbitrated confidence in [0,1]", func() {
			inputs := []*classification.ClassificationResult{
				nil,
				patternResult("email", 0.0),
				patternResult("email", 1.0),
				patternResult(taxonomy.Unknown, 0.5),
				learnedResult("skills", 0.33),
			}
			for _, p := range inputs {
				for _, l := range inputs {
					result := arbiter.Arbitrate(p, l)
					Expect(result.Confidence).To(BeNumerically(">=", 0))
					Expect(result.Confidence).To(BeNumerically("<=", 1))
				}
			}
		})
	})

	Describe("configuration", func() {
		It("honors overridden voting weights", func() {
			cfg := ensemble.DefaultArbitrationConfig()
			cfg.PatternFavored.PatternWeight = 0.1
			cfg.PatternFavored.LearnedWeight = 0.9
			custom := ensemble.NewArbiter(cfg)

			result := custom.Arbitrate(patternResult("email", 0.85), learnedResult("phone", 0.85))
			Expect(result.Label).To(Equal("phone"))
		})

		It("fills zero values with defaults", func() {
			blank := ensemble.NewArbiter(ensemble.ArbitrationConfig{})
			result := blank.Arbitrate(patternResult("email", 0.80), learnedResult("email", 0.70))
			Expect(result.Confidence).To(BeNumerically("~", 0.99, 1e-9))
		})
	})
})
