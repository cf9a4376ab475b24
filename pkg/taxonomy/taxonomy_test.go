package taxonomy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	tax := Default()
	require.NotNil(t, tax)

	assert.Equal(t, Unknown, tax.ClassAt(0))
	assert.Greater(t, tax.Size(), 50)
	assert.True(t, tax.Contains(UnparsedQuestion))
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name       string
		classes    []string
		categories map[string]string
		aliases    map[string]string
		wantErr    string
	}{
		{
			name:    "empty class list",
			classes: nil,
			wantErr: "empty class list",
		},
		{
			name:    "index zero not unknown",
			classes: []string{"email", "phone"},
			wantErr: "index 0",
		},
		{
			name:    "duplicate class",
			classes: []string{"unknown", "email", "email"},
			wantErr: "duplicate class",
		},
		{
			name:       "category references missing class",
			classes:    []string{"unknown", "email"},
			categories: map[string]string{"phone": "contact"},
			wantErr:    "unknown class",
		},
		{
			name:    "alias target missing",
			classes: []string{"unknown", "email"},
			aliases: map[string]string{"email_address": "mail"},
			wantErr: "targets unknown class",
		},
		{
			name:    "alias chain",
			classes: []string{"unknown", "email"},
			aliases: map[string]string{"mail": "email", "email_address": "mail"},
			wantErr: "targets unknown class",
		},
		{
			name:    "alias shadows canonical class",
			classes: []string{"unknown", "email", "phone"},
			aliases: map[string]string{"email": "phone"},
			wantErr: "shadows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.classes, tt.categories, tt.aliases)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolveAliasIdempotent(t *testing.T) {
	tax := Default()

	// A canonical name resolves to itself.
	assert.Equal(t, "last_name", tax.ResolveAlias("last_name"))

	// An alias resolves in exactly one hop, and the result is canonical.
	for alias := range defaultAliases {
		resolved := tax.ResolveAlias(alias)
		assert.True(t, tax.Contains(resolved), "alias %q resolved to non-canonical %q", alias, resolved)
		assert.Equal(t, resolved, tax.ResolveAlias(resolved), "resolution of %q is not idempotent", alias)
	}

	// Unrecognized names pass through unchanged.
	assert.Equal(t, "no_such_class", tax.ResolveAlias("no_such_class"))
}

func TestIndexRoundTrip(t *testing.T) {
	tax := Default()
	for i, class := range tax.Classes() {
		idx, ok := tax.IndexOf(class)
		require.True(t, ok, "class %q missing from index", class)
		assert.Equal(t, i, idx)
		assert.Equal(t, class, tax.ClassAt(i))
	}

	assert.Equal(t, Unknown, tax.ClassAt(-1))
	assert.Equal(t, Unknown, tax.ClassAt(tax.Size()))
}

func TestCategoryOf(t *testing.T) {
	tax := Default()
	assert.Equal(t, CategoryContact, tax.CategoryOf("email"))
	assert.Equal(t, CategoryWorkExperience, tax.CategoryOf("job_start_date"))
	assert.Equal(t, CategoryEducation, tax.CategoryOf("education_start_date"))
	assert.Equal(t, CategoryOther, tax.CategoryOf(Unknown))
	assert.Equal(t, CategoryOther, tax.CategoryOf("never_heard_of_it"))
}

func TestWireFormatRoundTrip(t *testing.T) {
	tax := Default()
	data, err := json.Marshal(tax)
	require.NoError(t, err)

	var wf wireFormat
	require.NoError(t, json.Unmarshal(data, &wf))

	reloaded, err := New(wf.Labels, wf.Categories, wf.Aliases)
	require.NoError(t, err)
	assert.Equal(t, tax.Classes(), reloaded.Classes())
	assert.Equal(t, tax.CategoryOf("email"), reloaded.CategoryOf("email"))
}
