// Package entropy quantifies how spread out a classifier's softmax
// distribution is. The learned field classifier surfaces this next to its
// arg-max confidence so downstream review tooling can distinguish "confident
// but wrong-looking" from "genuinely unsure".
package entropy

import (
	"math"
	"sort"
)

// ClassProbability pairs a class label with its predicted probability.
type ClassProbability struct {
	Label       string  `json:"label"`
	Probability float32 `json:"probability"`
}

// Analysis summarizes the uncertainty of one probability distribution.
type Analysis struct {
	Entropy           float64 `json:"entropy"`
	NormalizedEntropy float64 `json:"normalized_entropy"`
	// UncertaintyLevel buckets the normalized entropy: very_low, low,
	// medium, high, very_high.
	UncertaintyLevel string `json:"uncertainty_level"`
}

// CalculateEntropy returns the Shannon entropy (base 2) of a probability
// distribution. Zero probabilities contribute nothing.
func CalculateEntropy(probabilities []float32) float64 {
	var h float64
	for _, p := range probabilities {
		if p > 0 {
			h -= float64(p) * math.Log2(float64(p))
		}
	}
	return h
}

// CalculateNormalizedEntropy scales the entropy by its maximum log2(n), so
// the result is in [0,1] regardless of class count.
func CalculateNormalizedEntropy(probabilities []float32) float64 {
	if len(probabilities) <= 1 {
		return 0
	}
	return CalculateEntropy(probabilities) / math.Log2(float64(len(probabilities)))
}

// AnalyzeEntropy computes entropy measures and buckets them into an
// uncertainty level.
func AnalyzeEntropy(probabilities []float32) Analysis {
	normalized := CalculateNormalizedEntropy(probabilities)
	var level string
	switch {
	case normalized >= 0.8:
		level = "very_high"
	case normalized >= 0.6:
		level = "high"
	case normalized >= 0.4:
		level = "medium"
	case normalized >= 0.2:
		level = "low"
	default:
		level = "very_low"
	}
	return Analysis{
		Entropy:           CalculateEntropy(probabilities),
		NormalizedEntropy: normalized,
		UncertaintyLevel:  level,
	}
}

// TopClasses returns the k most probable classes in descending order.
// Labels must be index-aligned with probabilities.
func TopClasses(probabilities []float32, labels []string, k int) []ClassProbability {
	n := len(probabilities)
	if len(labels) < n {
		n = len(labels)
	}
	ranked := make([]ClassProbability, 0, n)
	for i := 0; i < n; i++ {
		ranked = append(ranked, ClassProbability{Label: labels[i], Probability: probabilities[i]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}
