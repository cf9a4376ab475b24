// Package classification holds the deterministic pattern classifier, the
// learned network classifier, and the result types shared with the
// arbitration layer.
package classification

import "github.com/formsense/field-classifier/pkg/features"

// FieldDescriptor re-exports the encoder's input type; both classifiers
// consume the same raw evidence.
type FieldDescriptor = features.FieldDescriptor

// Tier tags identify which decision stage produced a result. The pattern
// stages are carried while a result is in flight; the arbitration policy
// replaces them with the final arbitration tier.
const (
	// Pattern classifier stages.
	TierAutofillHint = "autofill_hint"
	TierCompensation = "compensation_cue"
	TierDateContext  = "date_context"
	TierPatternScan  = "pattern_scan"

	// Learned classifier.
	TierLearned = "learned"

	// Arbitration tiers, in ladder order.
	TierUnanimous       = "unanimous"
	TierPatternOverride = "pattern_override"
	TierLearnedOverride = "learned_override"
	TierWeightedVote    = "weighted_vote"
	TierFallback        = "fallback"
)

// ClassificationResult is the final labeled decision for one field. Never
// mutated after construction.
type ClassificationResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Tier       string  `json:"tier"`
	Category   string  `json:"category"`

	// AltLabel/AltConfidence carry the losing classifier's proposal when the
	// weighted-vote tier decides between disagreeing classifiers. Kept for
	// auditing borderline decisions; empty otherwise.
	AltLabel      string  `json:"alt_label,omitempty"`
	AltConfidence float64 `json:"alt_confidence,omitempty"`

	// Uncertainty is the normalized softmax entropy of the learned
	// classifier's distribution, when it contributed.
	Uncertainty float64 `json:"uncertainty,omitempty"`
}
