package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sophia/internal/testutil"
)

func TestDialogueStateRepo_DefaultsToZero(t *testing.T) {
	repo := NewSQLiteDialogueStateRepo(testutil.NewTestDB(t))

	n, err := repo.Attempts(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDialogueStateRepo_SetAndOverwrite(t *testing.T) {
	repo := NewSQLiteDialogueStateRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SetAttempts(ctx, "s1", 1))
	require.NoError(t, repo.SetAttempts(ctx, "s1", 2))
	require.NoError(t, repo.SetAttempts(ctx, "s2", 1))

	n, err := repo.Attempts(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, repo.SetAttempts(ctx, "s1", 0))
	n, err = repo.Attempts(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = repo.Attempts(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDialogueStateRepo_RejectsNegative(t *testing.T) {
	repo := NewSQLiteDialogueStateRepo(testutil.NewTestDB(t))
	assert.Error(t, repo.SetAttempts(context.Background(), "s1", -1))
}
