package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sophia/internal/testutil"
)

func TestProgressRepo_GetNotFound(t *testing.T) {
	repo := NewSQLiteProgressRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background(), "s1", "governance")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProgressRepo_UpsertRoundTrip(t *testing.T) {
	repo := NewSQLiteProgressRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	p := testutil.NewTestProgress("s1", "governance")
	require.NoError(t, repo.Upsert(ctx, p))

	got, err := repo.Get(ctx, "s1", "governance")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, 1, got.CurrentStep)
	assert.Empty(t, got.CompletedSteps)

	got.Complete(7)
	got.Complete(7)
	got.Notes = "waiting on SCOPE"
	require.NoError(t, repo.Upsert(ctx, got))

	again, err := repo.Get(ctx, "s1", "governance")
	require.NoError(t, err)
	assert.Equal(t, 3, again.CurrentStep)
	assert.Equal(t, []int{1, 2}, again.CompletedSteps)
	assert.Equal(t, "waiting on SCOPE", again.Notes)
}

func TestProgressRepo_UpsertKeepsOriginalID(t *testing.T) {
	repo := NewSQLiteProgressRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	first := testutil.NewTestProgress("s1", "governance")
	require.NoError(t, repo.Upsert(ctx, first))

	second := testutil.NewTestProgress("s1", "governance")
	second.CurrentStep = 4
	require.NoError(t, repo.Upsert(ctx, second))

	got, err := repo.Get(ctx, "s1", "governance")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, 4, got.CurrentStep)
}
