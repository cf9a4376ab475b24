package mlp

import (
	"encoding/json"
	"fmt"
	"os"
)

// SnapshotVersion is the current snapshot schema version. Bumped whenever the
// feature encoding or architecture conventions change incompatibly.
const SnapshotVersion = 1

// Snapshot is the versioned persistence format for network weights. Loading
// is strict about shape: a snapshot trained against a different taxonomy or
// feature layout must be rejected, never truncated or padded.
type Snapshot struct {
	Version      int         `json:"version"`
	W1           [][]float32 `json:"W1"`
	B1           []float32   `json:"b1"`
	W2           [][]float32 `json:"W2"`
	B2           []float32   `json:"b2"`
	W3           [][]float32 `json:"W3"`
	B3           []float32   `json:"b3"`
	TotalSamples int64       `json:"totalSamples"`
}

// Export copies the current weights into a snapshot. The copy is deep, so the
// caller can serialize it while training continues.
func (n *Network) Export() *Snapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return &Snapshot{
		Version:      SnapshotVersion,
		W1:           copyMatrix(n.w1),
		B1:           copyVector(n.b1),
		W2:           copyMatrix(n.w2),
		B2:           copyVector(n.b2),
		W3:           copyMatrix(n.w3),
		B3:           copyVector(n.b3),
		TotalSamples: n.totalSamples,
	}
}

// Load replaces the network's weights with a snapshot's. The snapshot's
// version and every tensor shape must match the network's architecture
// exactly; on any mismatch the network is left untouched and an error is
// returned so the caller can fall back to its fresh initialization.
func (n *Network) Load(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("mlp: nil snapshot")
	}
	if s.Version != SnapshotVersion {
		return fmt.Errorf("mlp: snapshot version %d, want %d", s.Version, SnapshotVersion)
	}
	if err := checkShape("W1", s.W1, s.B1, n.cfg.InputSize, n.cfg.Hidden1); err != nil {
		return err
	}
	if err := checkShape("W2", s.W2, s.B2, n.cfg.Hidden1, n.cfg.Hidden2); err != nil {
		return err
	}
	if err := checkShape("W3", s.W3, s.B3, n.cfg.Hidden2, n.cfg.OutputSize); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.w1 = copyMatrix(s.W1)
	n.b1 = copyVector(s.B1)
	n.w2 = copyMatrix(s.W2)
	n.b2 = copyVector(s.B2)
	n.w3 = copyMatrix(s.W3)
	n.b3 = copyVector(s.B3)
	n.totalSamples = s.TotalSamples
	return nil
}

// LoadSnapshotFile reads a snapshot from its JSON wire format.
func LoadSnapshotFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot JSON: %w", err)
	}
	return &s, nil
}

// SaveFile writes the snapshot as JSON.
func (s *Snapshot) SaveFile(path string) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return nil
}

func checkShape(name string, w [][]float32, b []float32, rows, cols int) error {
	if len(w) != rows {
		return fmt.Errorf("mlp: %s has %d rows, want %d", name, len(w), rows)
	}
	for i := range w {
		if len(w[i]) != cols {
			return fmt.Errorf("mlp: %s row %d has %d cols, want %d", name, i, len(w[i]), cols)
		}
	}
	if len(b) != cols {
		return fmt.Errorf("mlp: %s bias has length %d, want %d", name, len(b), cols)
	}
	return nil
}

func copyMatrix(m [][]float32) [][]float32 {
	out := make([][]float32, len(m))
	for i := range m {
		out[i] = make([]float32, len(m[i]))
		copy(out[i], m[i])
	}
	return out
}

func copyVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
