package ensemble

import (
	"github.com/formsense/field-classifier/pkg/classification"
	"github.com/formsense/field-classifier/pkg/taxonomy"
)

// Arbiter implements the 5-tier arbitration ladder. It is pure and total:
// any pair of inputs, including two nils, yields a well-formed result in one
// pass with no backtracking.
type Arbiter struct {
	cfg      ArbitrationConfig
	profiles map[string]Profile
}

// NewArbiter builds an arbiter from a config, falling back to the tuned
// defaults for unset values.
func NewArbiter(cfg ArbitrationConfig) *Arbiter {
	def := DefaultArbitrationConfig()
	if cfg.UnanimousConfidence == 0 {
		cfg.UnanimousConfidence = def.UnanimousConfidence
	}
	if cfg.PatternFavoredCategories == nil {
		cfg.PatternFavoredCategories = def.PatternFavoredCategories
	}
	if cfg.ContextFavoredCategories == nil {
		cfg.ContextFavoredCategories = def.ContextFavoredCategories
	}
	if cfg.PatternFavored == (Profile{}) {
		cfg.PatternFavored = def.PatternFavored
	}
	if cfg.ContextFavored == (Profile{}) {
		cfg.ContextFavored = def.ContextFavored
	}
	if cfg.Default == (Profile{}) {
		cfg.Default = def.Default
	}

	profiles := make(map[string]Profile, len(cfg.PatternFavoredCategories)+len(cfg.ContextFavoredCategories))
	for _, cat := range cfg.PatternFavoredCategories {
		profiles[cat] = cfg.PatternFavored
	}
	for _, cat := range cfg.ContextFavoredCategories {
		profiles[cat] = cfg.ContextFavored
	}
	return &Arbiter{cfg: cfg, profiles: profiles}
}

// profileFor picks the threshold profile for the class category under
// decision: the pattern proposal's category when present, otherwise the
// learned proposal's.
func (a *Arbiter) profileFor(pattern, learned *classification.ClassificationResult) Profile {
	category := ""
	if proposed(pattern) {
		category = pattern.Category
	} else if proposed(learned) {
		category = learned.Category
	}
	if p, ok := a.profiles[category]; ok {
		return p
	}
	return a.cfg.Default
}

// proposed reports whether a classifier actually proposed a specific class.
func proposed(r *classification.ClassificationResult) bool {
	return r != nil && r.Label != "" && r.Label != taxonomy.Unknown
}

// Arbitrate merges the two classifier outputs. Tiers are checked strictly in
// order; the returned result carries the tag of the tier that fired so
// borderline decisions can be audited and reproduced.
func (a *Arbiter) Arbitrate(pattern, learned *classification.ClassificationResult) classification.ClassificationResult {
	profile := a.profileFor(pattern, learned)

	// Tier 1: independent agreement between a symbolic and a statistical
	// model is strong evidence even when each alone was only moderately
	// confident.
	if proposed(pattern) && proposed(learned) && pattern.Label == learned.Label {
		return classification.ClassificationResult{
			Label:       pattern.Label,
			Confidence:  a.cfg.UnanimousConfidence,
			Tier:        classification.TierUnanimous,
			Category:    pattern.Category,
			Uncertainty: learned.Uncertainty,
		}
	}

	// Tier 2: strong pattern override.
	if proposed(pattern) && pattern.Confidence >= profile.PatternStrong {
		out := *pattern
		out.Tier = classification.TierPatternOverride
		return out
	}

	// Tier 3: strong learned override, covering free-text phrasings the
	// rules cannot reach, gated on the pattern side being weak.
	if proposed(learned) && learned.Confidence > profile.LearnedStrong &&
		patternConfidence(pattern) < profile.WeakHeuristicCeiling {
		out := *learned
		out.Tier = classification.TierLearnedOverride
		return out
	}

	// Tier 4: weighted vote between disagreeing proposals. The loser rides
	// along as auxiliary metadata for observability.
	if proposed(pattern) && proposed(learned) {
		patternScore := pattern.Confidence * profile.PatternWeight
		learnedScore := learned.Confidence * profile.LearnedWeight
		winner, loser := pattern, learned
		if learnedScore > patternScore {
			winner, loser = learned, pattern
		}
		out := *winner
		out.Tier = classification.TierWeightedVote
		out.AltLabel = loser.Label
		out.AltConfidence = loser.Confidence
		out.Uncertainty = learned.Uncertainty
		return out
	}

	// Tier 5: exactly one proposal, or none at all.
	if proposed(pattern) {
		out := *pattern
		out.Tier = classification.TierFallback
		return out
	}
	if proposed(learned) {
		out := *learned
		out.Tier = classification.TierFallback
		return out
	}
	return classification.ClassificationResult{
		Label:    taxonomy.Unknown,
		Tier:     classification.TierFallback,
		Category: "other",
	}
}

func patternConfidence(r *classification.ClassificationResult) float64 {
	if r == nil {
		return 0
	}
	return r.Confidence
}
