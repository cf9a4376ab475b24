package features

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/formsense/field-classifier/pkg/taxonomy"
)

// EncodingVersion identifies the feature layout. Any change to the structural
// tail, the input-type set or the keyword block sizing requires a bump, which
// in turn invalidates persisted model snapshots.
const EncodingVersion = 1

// inputTypes is the fixed one-hot vocabulary for the structural block. Types
// outside this set encode as all zeros. Order is part of the encoding
// contract.
var inputTypes = []string{"text", "email", "tel", "number", "date", "url", "select", "textarea", "file", "checkbox", "radio"}

// Encoder turns a FieldDescriptor into a fixed-length vector in [0,1]:
// one keyword-presence scalar per taxonomy class, followed by a one-hot
// input-type block and four binary structural flags. Encoding is a pure
// function of the descriptor; identical input always yields an identical
// vector.
type Encoder struct {
	tax *taxonomy.Taxonomy
	// keyword phrases per class index, normalized at construction so the
	// hot path is substring checks only.
	classKeywords [][]string
	kwWordCounts  [][]int
}

// NewEncoder builds an encoder over the taxonomy with the built-in keyword
// table.
func NewEncoder(tax *taxonomy.Taxonomy) (*Encoder, error) {
	return NewEncoderWithKeywords(tax, defaultKeywords)
}

// NewEncoderWithKeywords builds an encoder with an explicit keyword table.
// Every key must be a canonical taxonomy class; this runs once at startup, so
// a bad table is a hard error, not a degraded state.
func NewEncoderWithKeywords(tax *taxonomy.Taxonomy, keywords map[string][]string) (*Encoder, error) {
	e := &Encoder{
		tax:           tax,
		classKeywords: make([][]string, tax.Size()),
		kwWordCounts:  make([][]int, tax.Size()),
	}
	for class, phrases := range keywords {
		idx, ok := tax.IndexOf(class)
		if !ok {
			return nil, fmt.Errorf("keyword table references unknown class %q", class)
		}
		for _, phrase := range phrases {
			norm := NormalizeText(phrase)
			if norm == "" {
				continue
			}
			e.classKeywords[idx] = append(e.classKeywords[idx], norm)
			e.kwWordCounts[idx] = append(e.kwWordCounts[idx], len(strings.Fields(norm)))
		}
	}
	return e, nil
}

// LoadKeywordsFile reads a class→keywords JSON table, letting deployments
// swap the keyword data without a rebuild.
func LoadKeywordsFile(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keywords file: %w", err)
	}
	var table map[string][]string
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse keywords JSON: %w", err)
	}
	return table, nil
}

// Length returns the fixed output vector length for this encoder.
func (e *Encoder) Length() int {
	return e.tax.Size() + len(inputTypes) + 4
}

// Encode produces the feature vector. Pure and total: missing attributes
// degrade to zeros, never errors.
func (e *Encoder) Encode(d *FieldDescriptor) []float32 {
	vec := make([]float32, e.Length())
	if d == nil {
		d = &FieldDescriptor{}
	}

	text := NormalizeText(d.FullContext())
	padded := " " + text + " "

	// Keyword-presence block: per class, accumulate the word-length of every
	// keyword phrase found, squashed with min(score/3, 1).
	for i, phrases := range e.classKeywords {
		score := 0
		for j, phrase := range phrases {
			if strings.Contains(padded, " "+phrase+" ") {
				score += e.kwWordCounts[i][j]
			}
		}
		if score > 0 {
			v := float32(score) / 3
			if v > 1 {
				v = 1
			}
			vec[i] = v
		}
	}

	// Structural tail: one-hot input type, then binary flags.
	base := e.tax.Size()
	inputType := strings.ToLower(strings.TrimSpace(d.InputType))
	for i, t := range inputTypes {
		if inputType == t {
			vec[base+i] = 1
			break
		}
	}
	flags := base + len(inputTypes)
	if d.Label != "" {
		vec[flags] = 1
	}
	if d.Placeholder != "" {
		vec[flags+1] = 1
	}
	if inputType == "select" || inputType == "radio" || inputType == "checkbox" {
		vec[flags+2] = 1
	}
	if inputType == "textarea" {
		vec[flags+3] = 1
	}
	return vec
}
