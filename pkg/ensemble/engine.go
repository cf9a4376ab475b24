package ensemble

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/formsense/field-classifier/pkg/classification"
	"github.com/formsense/field-classifier/pkg/features"
	"github.com/formsense/field-classifier/pkg/observability/logging"
	"github.com/formsense/field-classifier/pkg/observability/metrics"
)

// Stats aggregates engine counters. Counters are best-effort aggregates;
// they tolerate interleaving under concurrent access but each individual
// increment is atomic.
type Stats struct {
	Classified   atomic.Int64
	TrainedOK    atomic.Int64
	TrainRejects atomic.Int64

	mu       sync.Mutex
	tierWins map[string]int64
}

// TierWins returns a copy of the per-tier win counts.
func (s *Stats) TierWins() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.tierWins))
	for k, v := range s.tierWins {
		out[k] = v
	}
	return out
}

func (s *Stats) recordTier(tier string) {
	s.mu.Lock()
	if s.tierWins == nil {
		s.tierWins = make(map[string]int64)
	}
	s.tierWins[tier]++
	s.mu.Unlock()
}

// Engine runs both classifiers against a field and arbitrates. The
// classifier instances are injected at construction; the engine never
// discovers them from ambient state.
type Engine struct {
	pattern PatternClassifier
	learned LearnedClassifier
	arbiter *Arbiter
	stats   *Stats

	// batchWorkers bounds the concurrency of ClassifyBatch.
	batchWorkers int
}

// NewEngine wires the engine. stats may be nil, in which case the engine
// allocates its own.
func NewEngine(pattern PatternClassifier, learned LearnedClassifier, arbiter *Arbiter, stats *Stats) *Engine {
	if stats == nil {
		stats = &Stats{}
	}
	return &Engine{
		pattern:      pattern,
		learned:      learned,
		arbiter:      arbiter,
		stats:        stats,
		batchWorkers: 8,
	}
}

// SetBatchWorkers overrides the batch concurrency bound.
func (e *Engine) SetBatchWorkers(n int) {
	if n > 0 {
		e.batchWorkers = n
	}
}

// Stats returns the engine's counter set.
func (e *Engine) Stats() *Stats {
	return e.stats
}

// Classify produces the final arbitrated decision for one field. Both
// classifiers are pure on the inference path, so their evaluation order is
// irrelevant; they run sequentially here because each is microseconds of
// work and a goroutine handoff would cost more than it saves.
func (e *Engine) Classify(d *features.FieldDescriptor) classification.ClassificationResult {
	start := time.Now()

	patternResult := e.pattern.Classify(d)
	learnedResult, err := e.learned.Predict(d)
	if err != nil {
		// Encoder output and network input are sized together at startup, so
		// this only fires on a programming error. Degrade to pattern-only.
		logging.Errorf("Learned classifier failed: %v", err)
		learnedResult = nil
	}

	result := e.arbiter.Arbitrate(patternResult, learnedResult)

	e.stats.Classified.Add(1)
	e.stats.recordTier(result.Tier)
	metrics.RecordClassification(result.Tier, result.Category, time.Since(start))
	return result
}

// ClassifyBatch classifies many fields as an embarrassingly parallel map
// with a bounded worker pool. Results are index-aligned with the input.
// Cancelling the context abandons unstarted fields; their slots keep the
// zero value.
func (e *Engine) ClassifyBatch(ctx context.Context, fields []*features.FieldDescriptor) []classification.ClassificationResult {
	results := make([]classification.ClassificationResult, len(fields))

	sem := make(chan struct{}, e.batchWorkers)
	var wg sync.WaitGroup
	for i, d := range fields {
		select {
		case <-ctx.Done():
			wg.Wait()
			return results
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int, d *features.FieldDescriptor) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = e.Classify(d)
		}(i, d)
	}
	wg.Wait()
	return results
}

// Train forwards one corrected label to the learned classifier. Gradient
// application mutates the shared weights, so calls serialize on the
// network's writer lock; a rejected label leaves both weights and the sample
// counter untouched.
func (e *Engine) Train(d *features.FieldDescriptor, label string) error {
	if err := e.learned.Train(d, label); err != nil {
		e.stats.TrainRejects.Add(1)
		metrics.RecordTraining("rejected")
		return err
	}
	e.stats.TrainedOK.Add(1)
	metrics.RecordTraining("applied")
	return nil
}
