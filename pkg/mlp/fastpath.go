package mlp

import "math"

// FastPathOptions selects the opt-in inference optimizations. All of them are
// pure performance work: a FastPath must preserve the network's top-1
// predictions, which VerifyTop1 checks against a held-out sample set before
// the fast path is put in front of live traffic.
type FastPathOptions struct {
	// PruneThreshold zeroes weights with magnitude below it. Zero disables
	// pruning.
	PruneThreshold float32
	// Quantize stores weights as int8 with a per-matrix scale.
	Quantize bool
}

// FastPath is an immutable, flattened copy of a network's weights laid out in
// contiguous row-major arrays. It is built from a snapshot of the live
// network and never mutated, so it can serve concurrent inference with no
// locking at all.
type FastPath struct {
	inSize, h1Size, h2Size, outSize int

	w1, w2, w3 []float32
	b1, b2, b3 []float32

	// quantized form, populated when Quantize is set
	q1, q2, q3             []int8
	scale1, scale2, scale3 float32
	quantized              bool
}

// NewFastPath builds a fast inference path from the network's current
// weights.
func NewFastPath(n *Network, opts FastPathOptions) *FastPath {
	s := n.Export()
	f := &FastPath{
		inSize:  n.cfg.InputSize,
		h1Size:  n.cfg.Hidden1,
		h2Size:  n.cfg.Hidden2,
		outSize: n.cfg.OutputSize,
		w1:      flatten(s.W1),
		w2:      flatten(s.W2),
		w3:      flatten(s.W3),
		b1:      s.B1,
		b2:      s.B2,
		b3:      s.B3,
	}
	if opts.PruneThreshold > 0 {
		prune(f.w1, opts.PruneThreshold)
		prune(f.w2, opts.PruneThreshold)
		prune(f.w3, opts.PruneThreshold)
	}
	if opts.Quantize {
		f.q1, f.scale1 = quantize(f.w1)
		f.q2, f.scale2 = quantize(f.w2)
		f.q3, f.scale3 = quantize(f.w3)
		f.w1, f.w2, f.w3 = nil, nil, nil
		f.quantized = true
	}
	return f
}

// Predict runs the flattened forward pass and returns the softmax
// distribution.
func (f *FastPath) Predict(input []float32) []float32 {
	h1 := f.layer(input, f.w1, f.q1, f.scale1, f.b1, f.h1Size, true)
	h2 := f.layer(h1, f.w2, f.q2, f.scale2, f.b2, f.h2Size, true)
	logits := f.layer(h2, f.w3, f.q3, f.scale3, f.b3, f.outSize, false)
	return softmax(logits)
}

func (f *FastPath) layer(in, w []float32, q []int8, scale float32, b []float32, cols int, leaky bool) []float32 {
	out := make([]float32, cols)
	copy(out, b)
	if f.quantized {
		for i, x := range in {
			if x == 0 {
				continue
			}
			row := q[i*cols : (i+1)*cols]
			xs := x * scale
			for j, v := range row {
				out[j] += xs * float32(v)
			}
		}
	} else {
		for i, x := range in {
			if x == 0 {
				continue
			}
			row := w[i*cols : (i+1)*cols]
			for j, v := range row {
				out[j] += x * v
			}
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

// VerifyTop1 reports whether the fast path agrees with the network's arg-max
// prediction on every held-out sample. A disagreeing fast path must not be
// enabled.
func VerifyTop1(n *Network, f *FastPath, samples [][]float32) (bool, error) {
	for _, sample := range samples {
		want, err := n.Predict(sample)
		if err != nil {
			return false, err
		}
		if argmax(want) != argmax(f.Predict(sample)) {
			return false, nil
		}
	}
	return true, nil
}

func argmax(v []float32) int {
	best := 0
	for i, x := range v {
		if x > v[best] {
			best = i
		}
	}
	return best
}

func flatten(m [][]float32) []float32 {
	if len(m) == 0 {
		return nil
	}
	cols := len(m[0])
	out := make([]float32, len(m)*cols)
	for i := range m {
		copy(out[i*cols:], m[i])
	}
	return out
}

func prune(w []float32, threshold float32) {
	for i, v := range w {
		if v < threshold && v > -threshold {
			w[i] = 0
		}
	}
}

// quantize maps a weight array onto int8 with a symmetric per-matrix scale.
func quantize(w []float32) ([]int8, float32) {
	var maxAbs float32
	for _, v := range w {
		a := float32(math.Abs(float64(v)))
		if a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs == 0 {
		return make([]int8, len(w)), 0
	}
	scale := maxAbs / 127
	q := make([]int8, len(w))
	for i, v := range w {
		r := v / scale
		if r > 127 {
			r = 127
		} else if r < -127 {
			r = -127
		}
		q[i] = int8(math.Round(float64(r)))
	}
	return q, scale
}
