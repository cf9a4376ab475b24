package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
)

// Unknown is the reserved class at index 0. Every taxonomy must start with it.
const Unknown = "unknown"

// Taxonomy is the single source of truth for semantic field classes.
// The class order is part of the model's serialized contract: the learned
// classifier's output layer is indexed by it, so reordering classes
// invalidates persisted weights.
type Taxonomy struct {
	classes    []string
	index      map[string]int
	categories map[string]string
	aliases    map[string]string
}

// wireFormat is the on-disk JSON representation of a taxonomy.
type wireFormat struct {
	Labels     []string          `json:"labels"`
	Categories map[string]string `json:"categories"`
	Aliases    map[string]string `json:"aliases,omitempty"`
}

// New builds and validates a taxonomy. Validation is strict because this runs
// once at startup: duplicate classes, a first class other than "unknown",
// category or alias entries referencing missing classes, and alias chains are
// all hard errors.
func New(classes []string, categories map[string]string, aliases map[string]string) (*Taxonomy, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("taxonomy: empty class list")
	}
	if classes[0] != Unknown {
		return nil, fmt.Errorf("taxonomy: index 0 must be %q, got %q", Unknown, classes[0])
	}

	index := make(map[string]int, len(classes))
	for i, name := range classes {
		if name == "" {
			return nil, fmt.Errorf("taxonomy: empty class name at index %d", i)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("taxonomy: duplicate class %q", name)
		}
		index[name] = i
	}

	for class := range categories {
		if _, ok := index[class]; !ok {
			return nil, fmt.Errorf("taxonomy: category entry references unknown class %q", class)
		}
	}

	for alias, target := range aliases {
		if _, ok := index[target]; !ok {
			return nil, fmt.Errorf("taxonomy: alias %q targets unknown class %q", alias, target)
		}
		if _, ok := aliases[target]; ok {
			return nil, fmt.Errorf("taxonomy: alias %q chains through %q; aliases must resolve in one hop", alias, target)
		}
		if _, ok := index[alias]; ok {
			return nil, fmt.Errorf("taxonomy: alias %q shadows a canonical class", alias)
		}
	}

	if categories == nil {
		categories = map[string]string{}
	}
	if aliases == nil {
		aliases = map[string]string{}
	}

	return &Taxonomy{
		classes:    classes,
		index:      index,
		categories: categories,
		aliases:    aliases,
	}, nil
}

// LoadFile loads a taxonomy from its JSON wire format.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}
	var wf wireFormat
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy JSON: %w", err)
	}
	return New(wf.Labels, wf.Categories, wf.Aliases)
}

// Size returns the number of classes, including "unknown".
func (t *Taxonomy) Size() int {
	return len(t.classes)
}

// Classes returns the ordered class list. Callers must not mutate it.
func (t *Taxonomy) Classes() []string {
	return t.classes
}

// IndexOf returns the index of a canonical class name.
func (t *Taxonomy) IndexOf(class string) (int, bool) {
	i, ok := t.index[class]
	return i, ok
}

// ClassAt returns the class name at the given index, or "unknown" when the
// index is out of range.
func (t *Taxonomy) ClassAt(i int) string {
	if i < 0 || i >= len(t.classes) {
		return Unknown
	}
	return t.classes[i]
}

// Contains reports whether the name is a canonical class.
func (t *Taxonomy) Contains(class string) bool {
	_, ok := t.index[class]
	return ok
}

// CategoryOf returns the coarse category for a class. Classes without an
// explicit category (including "unknown") map to "other".
func (t *Taxonomy) CategoryOf(class string) string {
	if cat, ok := t.categories[class]; ok {
		return cat
	}
	return "other"
}

// ResolveAlias maps a possibly non-canonical name onto its canonical class.
// Canonical names pass through unchanged, so resolution is idempotent.
func (t *Taxonomy) ResolveAlias(name string) string {
	if _, ok := t.index[name]; ok {
		return name
	}
	if target, ok := t.aliases[name]; ok {
		return target
	}
	return name
}

// MarshalJSON serializes the taxonomy in its wire format.
func (t *Taxonomy) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireFormat{
		Labels:     t.classes,
		Categories: t.categories,
		Aliases:    t.aliases,
	})
}
