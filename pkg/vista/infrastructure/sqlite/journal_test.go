package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgeyst.com/vista/pkg/vista/domain"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()
	journal, err := NewJournal(filepath.Join(t.TempDir(), "data", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = journal.Close()
	})
	return journal
}

func TestRecordAndRecent(t *testing.T) {
	journal := newTestJournal(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	for i, request := range []string{"read the prescription", "what ingredients are in this", ""} {
		category, prompt := domain.SelectPrompt(request)
		err := journal.Record(ctx, &domain.Analysis{
			CaptureID:      request + "-id",
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
			Request:        request,
			Category:       category,
			Prompt:         prompt,
			Model:          "gemini/gemini-1.5-flash",
			OriginalBytes:  4000,
			OptimizedBytes: 1000,
			Description:    "description " + request,
			Elapsed:        1500 * time.Millisecond,
		})
		require.NoError(t, err)
	}

	recent, err := journal.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	assert.Equal(t, "", recent[0].Request)
	assert.Equal(t, domain.CategoryDefault, recent[0].Category)
	assert.Equal(t, "what ingredients are in this", recent[1].Request)
	assert.Equal(t, domain.CategoryFood, recent[1].Category)
	assert.True(t, base.Add(time.Minute).Equal(recent[1].CreatedAt))
	assert.Equal(t, 1500*time.Millisecond, recent[1].Elapsed)
	assert.InDelta(t, 75.0, recent[1].ReductionPercent(), 1e-9)
}

func TestRecentOnEmptyJournal(t *testing.T) {
	journal := newTestJournal(t)

	recent, err := journal.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)

	recent, err = journal.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestRecordRejectsNil(t *testing.T) {
	assert.Error(t, newTestJournal(t).Record(context.Background(), nil))
}
