package features

import "strings"

// FieldDescriptor is the raw evidence about one form field, produced by an
// external scraping collaborator. Immutable once constructed; the
// classification core never reads the live document itself.
type FieldDescriptor struct {
	Label          string `json:"label"`
	Name           string `json:"name"`
	ID             string `json:"id"`
	Placeholder    string `json:"placeholder"`
	InputType      string `json:"input_type"`
	AutofillHint   string `json:"autofill_hint,omitempty"`
	ParentContext  string `json:"parent_context,omitempty"`
	SiblingContext string `json:"sibling_context,omitempty"`
}

// OwnText concatenates the field's own textual attributes (label, name, id,
// placeholder), skipping empty ones.
func (d *FieldDescriptor) OwnText() string {
	return joinNonEmpty(d.Label, d.Name, d.ID, d.Placeholder)
}

// FullContext concatenates the field's own text with its parent and sibling
// context. Date and exclusion checks run against this wider string.
func (d *FieldDescriptor) FullContext() string {
	return joinNonEmpty(d.Label, d.Name, d.ID, d.Placeholder, d.ParentContext, d.SiblingContext)
}

func joinNonEmpty(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return b.String()
}
