package service

import (
	"context"
	"testing"
	"time"

	"codebox/internal/entity"
	"codebox/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seedUser(t *testing.T, users *memory.UserRepository, username string, deleted bool) string {
	t.Helper()
	user := &entity.User{Username: username, Email: username + "@x.io", IsDeleted: deleted}
	require.NoError(t, users.Create(context.Background(), user))
	return user.ID
}

func seedSnippet(t *testing.T, snippets *memory.SnippetRepository, owner *string, title string, updated time.Time, deleted bool) {
	t.Helper()
	require.NoError(t, snippets.Create(context.Background(), &entity.Snippet{
		Title:       title,
		Code:        "print(1)",
		OwnerUserID: owner,
		IsDeleted:   deleted,
		CreatedAt:   updated,
		UpdatedAt:   updated,
	}))
}

func titles(items []entity.Snippet) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

func TestSnippetService_ListGroupedByOwner(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	snippets := memory.NewSnippetRepository()
	svc := NewSnippetService(snippets, users)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bob := seedUser(t, users, "bob", false)
	alice := seedUser(t, users, "alice", false)
	carol := seedUser(t, users, "carol", true)

	seedSnippet(t, snippets, &alice, "a-old", base, false)
	seedSnippet(t, snippets, &alice, "a-new", base.Add(2*time.Hour), false)
	seedSnippet(t, snippets, &bob, "b-1", base.Add(time.Hour), false)
	seedSnippet(t, snippets, &bob, "b-trash", base, true)
	seedSnippet(t, snippets, &carol, "c-1", base, false)
	seedSnippet(t, snippets, nil, "orphan", base, false)
	seedSnippet(t, snippets, strPtr(uuid.NewString()), "ghost", base, false)

	groups, err := svc.ListGroupedByOwner(ctx, true)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "alice", groups[0].Username)
	assert.Equal(t, []string{"a-new", "a-old"}, titles(groups[0].Snippets))
	assert.Equal(t, "bob", groups[1].Username)
	assert.Equal(t, []string{"b-1"}, titles(groups[1].Snippets))

	trash, err := svc.ListGroupedByOwner(ctx, false)
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.Equal(t, "bob", trash[0].Username)
	assert.Equal(t, []string{"b-trash"}, titles(trash[0].Snippets))
}

func TestSnippetService_ListGroupedByOwnerEmpty(t *testing.T) {
	svc := NewSnippetService(memory.NewSnippetRepository(), memory.NewUserRepository())
	groups, err := svc.ListGroupedByOwner(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestSnippetService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	snippets := memory.NewSnippetRepository()
	svc := NewSnippetService(snippets, users)
	owner := seedUser(t, users, "alice", false)

	created, err := svc.Create(ctx, CreateSnippetInput{
		OwnerUserID:   owner,
		OwnerUsername: "alice",
		Code:          "fmt.Println()",
		CodeLanguage:  "go",
		Title:         "hello",
	})
	require.NoError(t, err)
	require.NotNil(t, created.OwnerUserID)
	assert.Equal(t, owner, *created.OwnerUserID)
	assert.False(t, created.IsDeleted)

	anonymous, err := svc.Create(ctx, CreateSnippetInput{Code: "x"})
	require.NoError(t, err)
	assert.Nil(t, anonymous.OwnerUserID)

	title := "renamed"
	updated, err := svc.Update(ctx, created.ID, entity.SnippetUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "fmt.Println()", updated.Code)

	_, err = svc.Update(ctx, "", entity.SnippetUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrMissingID)
	_, err = svc.Update(ctx, uuid.NewString(), entity.SnippetUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrSnippetNotFound)

	deleted, err := svc.SoftDelete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	active, err := svc.ListByOwner(ctx, owner, true, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	reverted, err := svc.Revert(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, reverted.IsDeleted)

	active, err = svc.ListByOwner(ctx, owner, true, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	missing, err := svc.SoftDelete(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)

	found, err := svc.GetByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, found)

	_, err = svc.ListByOwner(ctx, "", true, true)
	assert.ErrorIs(t, err, ErrMissingID)
}
