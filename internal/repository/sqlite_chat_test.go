package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sophia/internal/domain"
	"github.com/alexanderramin/sophia/internal/testutil"
)

func TestChatRepo_AppendAndListRecent(t *testing.T) {
	repo := NewSQLiteChatRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	conv := testutil.Conversation("s1", "what is periscope?", "PeriSCOPE is the vetting meeting.", "who attends?")
	for _, m := range conv {
		require.NoError(t, repo.Append(ctx, m))
	}

	msgs, err := repo.ListRecent(ctx, "s1", HistoryLimit)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "what is periscope?", msgs[0].Text)
	assert.Equal(t, domain.AuthorAssistant, msgs[1].Author)
	assert.Equal(t, "who attends?", msgs[2].Text)
	assert.WithinDuration(t, conv[0].CreatedAt, msgs[0].CreatedAt, time.Microsecond)
}

func TestChatRepo_ListRecent_KeepsNewest(t *testing.T) {
	repo := NewSQLiteChatRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	for _, m := range testutil.Conversation("s1", "one", "two", "three", "four") {
		require.NoError(t, repo.Append(ctx, m))
	}

	msgs, err := repo.ListRecent(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "three", msgs[0].Text)
	assert.Equal(t, "four", msgs[1].Text)
}

func TestChatRepo_ListRecent_SameTimestampKeepsInsertOrder(t *testing.T) {
	repo := NewSQLiteChatRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, testutil.NewTestMessage("s1", "q", testutil.WithCreatedAt(at))))
	require.NoError(t, repo.Append(ctx, testutil.NewTestMessage("s1", "a",
		testutil.WithCreatedAt(at), testutil.WithAuthor(domain.AuthorAssistant))))

	msgs, err := repo.ListRecent(ctx, "s1", HistoryLimit)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "q", msgs[0].Text)
	assert.Equal(t, "a", msgs[1].Text)
}

func TestChatRepo_SessionsIsolated(t *testing.T) {
	repo := NewSQLiteChatRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, testutil.NewTestMessage("s1", "mine")))
	require.NoError(t, repo.Append(ctx, testutil.NewTestMessage("s2", "theirs")))

	msgs, err := repo.ListRecent(ctx, "s1", HistoryLimit)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "mine", msgs[0].Text)
}

func TestChatRepo_DeleteBySession(t *testing.T) {
	repo := NewSQLiteChatRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, testutil.NewTestMessage("s1", "a")))
	require.NoError(t, repo.Append(ctx, testutil.NewTestMessage("s2", "b")))
	require.NoError(t, repo.DeleteBySession(ctx, "s1"))

	msgs, err := repo.ListRecent(ctx, "s1", HistoryLimit)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	msgs, err = repo.ListRecent(ctx, "s2", HistoryLimit)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestChatRepo_AppendRejectsInvalid(t *testing.T) {
	repo := NewSQLiteChatRepo(testutil.NewTestDB(t))

	err := repo.Append(context.Background(), testutil.NewTestMessage("s1", "x", testutil.WithAuthor("system")))
	assert.Error(t, err)
	err = repo.Append(context.Background(), testutil.NewTestMessage("", "x"))
	assert.Error(t, err)
}
