package mlp

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

const leakySlope = 0.01

// Config holds the architecture and training hyperparameters of a network.
type Config struct {
	InputSize  int `yaml:"input_size" json:"input_size"`
	Hidden1    int `yaml:"hidden1" json:"hidden1"`
	Hidden2    int `yaml:"hidden2" json:"hidden2"`
	OutputSize int `yaml:"output_size" json:"output_size"`

	// BaseLearningRate decays as base·exp(−decay·samplesSeen). For the three
	// regularization knobs below, zero means "use the default"; a negative
	// value disables the term outright.
	BaseLearningRate float64 `yaml:"base_learning_rate" json:"base_learning_rate"`
	DecayConstant    float64 `yaml:"decay_constant" json:"decay_constant"`
	WeightDecay      float64 `yaml:"weight_decay" json:"weight_decay"`
	DropoutRate      float64 `yaml:"dropout_rate" json:"dropout_rate"`

	// Seed fixes the random source for initialization and dropout. Zero
	// means time-seeded.
	Seed int64 `yaml:"-" json:"-"`
}

// withDefaults fills unset hyperparameters. Zero is "unset" here, so a
// negative value is how a caller expresses a true zero.
func (c Config) withDefaults() Config {
	if c.Hidden1 == 0 {
		c.Hidden1 = 64
	}
	if c.Hidden2 == 0 {
		c.Hidden2 = 32
	}
	if c.BaseLearningRate == 0 {
		c.BaseLearningRate = 0.05
	}
	switch {
	case c.DecayConstant == 0:
		c.DecayConstant = 0.0001
	case c.DecayConstant < 0:
		c.DecayConstant = 0
	}
	switch {
	case c.WeightDecay == 0:
		c.WeightDecay = 0.0001
	case c.WeightDecay < 0:
		c.WeightDecay = 0
	}
	switch {
	case c.DropoutRate == 0:
		c.DropoutRate = 0.2
	case c.DropoutRate < 0:
		c.DropoutRate = 0
	}
	return c
}

// Network is a three-layer feed-forward classifier:
// input → hidden1 (Leaky-ReLU) → hidden2 (Leaky-ReLU) → output → softmax.
//
// Inference only reads the weights; training is the single writer. Both go
// through the embedded RWMutex, so concurrent Predict calls proceed in
// parallel while Train calls are serialized.
type Network struct {
	mu  sync.RWMutex
	cfg Config

	w1 [][]float32 // input × hidden1
	b1 []float32
	w2 [][]float32 // hidden1 × hidden2
	b2 []float32
	w3 [][]float32 // hidden2 × output
	b3 []float32

	totalSamples int64
	rng          *rand.Rand
}

// New creates a randomly initialized network: He initialization on both
// Leaky-ReLU hidden layers, Xavier on the softmax output layer, zero biases.
func New(cfg Config) (*Network, error) {
	cfg = cfg.withDefaults()
	if cfg.InputSize <= 0 || cfg.OutputSize <= 0 {
		return nil, fmt.Errorf("mlp: invalid architecture %dx%dx%dx%d",
			cfg.InputSize, cfg.Hidden1, cfg.Hidden2, cfg.OutputSize)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	n := &Network{cfg: cfg, rng: rand.New(rand.NewSource(seed))}

	n.w1 = n.initMatrix(cfg.InputSize, cfg.Hidden1, math.Sqrt(2/float64(cfg.InputSize)))
	n.w2 = n.initMatrix(cfg.Hidden1, cfg.Hidden2, math.Sqrt(2/float64(cfg.Hidden1)))
	n.w3 = n.initMatrix(cfg.Hidden2, cfg.OutputSize, math.Sqrt(1/float64(cfg.Hidden2)))
	n.b1 = make([]float32, cfg.Hidden1)
	n.b2 = make([]float32, cfg.Hidden2)
	n.b3 = make([]float32, cfg.OutputSize)
	return n, nil
}

func (n *Network) initMatrix(rows, cols int, scale float64) [][]float32 {
	m := make([][]float32, rows)
	for i := range m {
		m[i] = make([]float32, cols)
		for j := range m[i] {
			m[i][j] = float32(n.rng.NormFloat64() * scale)
		}
	}
	return m
}

// Config returns the network's configuration.
func (n *Network) Config() Config {
	return n.cfg
}

// TotalSamples returns the number of training steps applied so far.
func (n *Network) TotalSamples() int64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.totalSamples
}

// Predict runs a forward pass with dropout disabled and returns the softmax
// probability distribution over the output classes. Deterministic for fixed
// weights and input.
func (n *Network) Predict(input []float32) ([]float32, error) {
	if len(input) != n.cfg.InputSize {
		return nil, fmt.Errorf("mlp: input length %d, want %d", len(input), n.cfg.InputSize)
	}
	n.mu.RLock()
	defer n.mu.RUnlock()

	h1 := forwardLayer(input, n.w1, n.b1, true)
	h2 := forwardLayer(h1, n.w2, n.b2, true)
	logits := forwardLayer(h2, n.w3, n.b3, false)
	return softmax(logits), nil
}

// Train applies one synchronous SGD step for a (features, label) pair:
// forward pass with inverted dropout on both hidden layers, softmax
// cross-entropy gradient at the output, backprop with L2 weight decay, and a
// learning rate decayed by the sample counter. There is no mini-batching;
// corrections arrive one at a time from human overrides, so low-latency
// incremental updates matter more than batch throughput.
func (n *Network) Train(input []float32, label int) error {
	if len(input) != n.cfg.InputSize {
		return fmt.Errorf("mlp: input length %d, want %d", len(input), n.cfg.InputSize)
	}
	if label < 0 || label >= n.cfg.OutputSize {
		return fmt.Errorf("mlp: label index %d out of range [0,%d)", label, n.cfg.OutputSize)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	// Forward with inverted dropout: surviving activations are scaled by
	// 1/(1−p) so the expected activation matches inference.
	h1 := forwardLayer(input, n.w1, n.b1, true)
	mask1 := n.applyDropout(h1)
	h2 := forwardLayer(h1, n.w2, n.b2, true)
	mask2 := n.applyDropout(h2)
	logits := forwardLayer(h2, n.w3, n.b3, false)
	probs := softmax(logits)

	// Softmax cross-entropy gradient: prediction − one_hot(label).
	dOut := make([]float32, len(probs))
	copy(dOut, probs)
	dOut[label] -= 1

	lr := float32(n.cfg.BaseLearningRate * math.Exp(-n.cfg.DecayConstant*float64(n.totalSamples)))
	l2 := float32(n.cfg.WeightDecay)

	dH2 := backpropLayer(n.w3, n.b3, h2, dOut, lr, l2)
	applyLeakyGrad(dH2, h2, mask2)
	dH1 := backpropLayer(n.w2, n.b2, h1, dH2, lr, l2)
	applyLeakyGrad(dH1, h1, mask1)
	backpropLayer(n.w1, n.b1, input, dH1, lr, l2)

	n.totalSamples++
	return nil
}

// forwardLayer computes activation(in·W + b); leaky selects Leaky-ReLU.
func forwardLayer(in []float32, w [][]float32, b []float32, leaky bool) []float32 {
	out := make([]float32, len(b))
	copy(out, b)
	for i, x := range in {
		if x == 0 {
			continue
		}
		row := w[i]
		for j := range row {
			out[j] += x * row[j]
		}
	}
	if leaky {
		for j, v := range out {
			if v < 0 {
				out[j] = v * leakySlope
			}
		}
	}
	return out
}

// applyDropout zeroes each activation with probability p and scales the
// survivors by 1/(1−p). Returns the keep mask (already scaled) so the
// backward pass can gate gradients the same way.
func (n *Network) applyDropout(a []float32) []float32 {
	p := n.cfg.DropoutRate
	mask := make([]float32, len(a))
	scale := float32(1 / (1 - p))
	for i := range a {
		if n.rng.Float64() < p {
			a[i] = 0
		} else {
			mask[i] = scale
			a[i] *= scale
		}
	}
	return mask
}

// backpropLayer applies the SGD update for one layer in place and returns the
// gradient with respect to the layer's input. w is rows=len(in) × cols=len(d).
func backpropLayer(w [][]float32, b []float32, in, d []float32, lr, l2 float32) []float32 {
	dIn := make([]float32, len(in))
	for i, x := range in {
		row := w[i]
		var acc float32
		for j, dj := range d {
			acc += row[j] * dj
			row[j] -= lr * (dj*x + l2*row[j])
		}
		dIn[i] = acc
	}
	for j, dj := range d {
		b[j] -= lr * dj
	}
	return dIn
}

// applyLeakyGrad multiplies the incoming gradient by the Leaky-ReLU
// derivative at the (post-dropout) activation and by the dropout mask.
func applyLeakyGrad(d, activation, mask []float32) {
	for i := range d {
		if activation[i] < 0 {
			d[i] *= leakySlope
		}
		d[i] *= mask[i]
	}
}

// softmax is numerically stabilized by max subtraction.
func softmax(logits []float32) []float32 {
	maxV := logits[0]
	for _, v := range logits[1:] {
		if v > maxV {
			maxV = v
		}
	}
	out := make([]float32, len(logits))
	var sum float64
	for i, v := range logits {
		e := math.Exp(float64(v - maxV))
		out[i] = float32(e)
		sum += e
	}
	inv := float32(1 / sum)
	for i := range out {
		out[i] *= inv
	}
	return out
}
