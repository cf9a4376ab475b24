package classification

import (
	"fmt"

	"github.com/formsense/field-classifier/pkg/features"
	"github.com/formsense/field-classifier/pkg/mlp"
	"github.com/formsense/field-classifier/pkg/observability/logging"
	"github.com/formsense/field-classifier/pkg/taxonomy"
	"github.com/formsense/field-classifier/pkg/utils/entropy"
)

// DefaultConfidenceFloor is the minimum softmax probability below which the
// learned classifier refuses to emit a specific class.
const DefaultConfidenceFloor = 0.30

// LearnedClassifier wraps the feed-forward network with the taxonomy and the
// feature encoder. Inference is read-only and safe to call concurrently;
// training serializes through the network's single-writer lock.
type LearnedClassifier struct {
	tax             *taxonomy.Taxonomy
	encoder         *features.Encoder
	net             *mlp.Network
	confidenceFloor float64
}

// NewLearnedClassifier wires the pieces together, checking that the network's
// input and output widths match the encoder and taxonomy. A mismatch here
// means the network was built for a different model generation.
func NewLearnedClassifier(tax *taxonomy.Taxonomy, encoder *features.Encoder, net *mlp.Network, confidenceFloor float64) (*LearnedClassifier, error) {
	cfg := net.Config()
	if cfg.InputSize != encoder.Length() {
		return nil, fmt.Errorf("network input size %d does not match encoder length %d", cfg.InputSize, encoder.Length())
	}
	if cfg.OutputSize != tax.Size() {
		return nil, fmt.Errorf("network output size %d does not match taxonomy size %d", cfg.OutputSize, tax.Size())
	}
	if confidenceFloor <= 0 {
		confidenceFloor = DefaultConfidenceFloor
	}
	return &LearnedClassifier{tax: tax, encoder: encoder, net: net, confidenceFloor: confidenceFloor}, nil
}

// Network exposes the underlying network for snapshot export/load.
func (lc *LearnedClassifier) Network() *mlp.Network {
	return lc.net
}

// Predict encodes the descriptor and returns the arg-max class. When the top
// probability is under the confidence floor the label is overridden to the
// generic unparsed-question class instead of a weak specific guess.
func (lc *LearnedClassifier) Predict(d *features.FieldDescriptor) (*ClassificationResult, error) {
	probs, err := lc.net.Predict(lc.encoder.Encode(d))
	if err != nil {
		return nil, err
	}

	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}

	label := lc.tax.ClassAt(best)
	confidence := float64(probs[best])
	if confidence < lc.confidenceFloor {
		label = taxonomy.UnparsedQuestion
	}
	return &ClassificationResult{
		Label:       label,
		Confidence:  confidence,
		Tier:        TierLearned,
		Category:    lc.tax.CategoryOf(label),
		Uncertainty: entropy.CalculateNormalizedEntropy(probs),
	}, nil
}

// Probabilities returns the full softmax distribution, index-aligned with the
// taxonomy. Used by evaluation tooling.
func (lc *LearnedClassifier) Probabilities(d *features.FieldDescriptor) ([]float32, error) {
	return lc.net.Predict(lc.encoder.Encode(d))
}

// Train applies one online gradient step for a human-corrected label. The
// label is alias-resolved first; a name outside the taxonomy is rejected
// locally without touching the weights or the sample counter, since label
// vocabularies drift and this is an expected occurrence, not a fault.
func (lc *LearnedClassifier) Train(d *features.FieldDescriptor, label string) error {
	canonical := lc.tax.ResolveAlias(label)
	idx, ok := lc.tax.IndexOf(canonical)
	if !ok {
		logging.Warnf("Training label %q not in taxonomy, skipping", label)
		return fmt.Errorf("unknown class %q", label)
	}
	return lc.net.Train(lc.encoder.Encode(d), idx)
}
