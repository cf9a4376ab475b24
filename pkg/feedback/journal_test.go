package feedback

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formsense/field-classifier/pkg/features"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), filepath.Join(t.TempDir(), "feedback.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndCount(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	n, err := j.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	require.NoError(t, j.Record(ctx, &features.FieldDescriptor{Label: "Email"}, "email"))
	require.NoError(t, j.Record(ctx, &features.FieldDescriptor{Label: "Phone"}, "phone"))

	n, err = j.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestReplayPreservesOrder(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	want := []string{"email", "phone", "city", "email"}
	for i, label := range want {
		d := &features.FieldDescriptor{Label: fmt.Sprintf("field-%d", i)}
		require.NoError(t, j.Record(ctx, d, label))
	}

	var got []string
	applied, skipped, err := j.Replay(ctx, func(d *features.FieldDescriptor, label string) error {
		got = append(got, label)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, len(want), applied)
	assert.Zero(t, skipped)
}

func TestReplaySkipsRejectedSignals(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, &features.FieldDescriptor{Label: "a"}, "email"))
	require.NoError(t, j.Record(ctx, &features.FieldDescriptor{Label: "b"}, "stale_class"))
	require.NoError(t, j.Record(ctx, &features.FieldDescriptor{Label: "c"}, "phone"))

	applied, skipped, err := j.Replay(ctx, func(d *features.FieldDescriptor, label string) error {
		if label == "stale_class" {
			return fmt.Errorf("unknown class %q", label)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.Equal(t, 1, skipped)
}

func TestRoundTripDescriptor(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	want := &features.FieldDescriptor{
		Label:          "Start Date",
		Name:           "start_date",
		InputType:      "date",
		ParentContext:  "Education History",
		SiblingContext: "MM/YYYY",
	}
	require.NoError(t, j.Record(ctx, want, "education_start_date"))

	var got *features.FieldDescriptor
	_, _, err := j.Replay(ctx, func(d *features.FieldDescriptor, label string) error {
		got = d
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
