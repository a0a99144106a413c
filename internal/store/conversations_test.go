package store_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hdfcgpt/server/internal/db"
	"github.com/hdfcgpt/server/internal/models"
	"github.com/hdfcgpt/server/internal/store"
	"github.com/hdfcgpt/server/internal/utils"
)

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "short text kept verbatim", in: "short", want: "short"},
		{name: "exactly forty", in: strings.Repeat("a", 40), want: strings.Repeat("a", 40)},
		{name: "truncated with ellipsis", in: strings.Repeat("a", 50), want: strings.Repeat("a", 40) + "..."},
		{name: "multibyte runes", in: strings.Repeat("é", 41), want: strings.Repeat("é", 40) + "..."},
		{name: "empty", in: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := store.DeriveTitle(tc.in); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func setupMongoStore(t *testing.T) *store.Conversations {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set; skipping mongo integration test")
	}

	database := "hdfcgpt_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	cfg := utils.MongoConfig{
		URI:            uri,
		Database:       database,
		ConnectTimeout: 5 * time.Second,
	}

	mongoStore, err := db.NewMongo(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}
	t.Cleanup(func() {
		ctx := context.Background()
		mongoStore.Database.Drop(ctx)
		mongoStore.Close(ctx)
	})

	if err := mongoStore.EnsureCollections(context.Background()); err != nil {
		t.Fatalf("ensure collections failed: %v", err)
	}

	return store.NewConversations(mongoStore.Conversations)
}

func TestAppendTurnCreateAndAppend(t *testing.T) {
	conversations := setupMongoStore(t)
	ctx := context.Background()

	userID := uuid.NewString()
	firstUserText := strings.Repeat("x", 50)

	id, err := conversations.AppendTurn(ctx, store.NewConversation{UserID: userID}, firstUserText, "first reply")
	if err != nil {
		t.Fatalf("create turn failed: %v", err)
	}
	if id == "" {
		t.Fatalf("expected a conversation id")
	}

	conv, err := conversations.Get(ctx, id)
	if err != nil {
		t.Fatalf("fetch conversation failed: %v", err)
	}

	if conv.UserID != userID {
		t.Fatalf("expected owner %s, got %s", userID, conv.UserID)
	}
	if want := strings.Repeat("x", 40) + "..."; conv.Title != want {
		t.Fatalf("expected title %q, got %q", want, conv.Title)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("expected 2 messages after first round trip, got %d", len(conv.Messages))
	}
	if conv.Messages[0].Role != models.RoleUser || conv.Messages[1].Role != models.RoleModel {
		t.Fatalf("expected user then model, got %s then %s", conv.Messages[0].Role, conv.Messages[1].Role)
	}

	createdAt := conv.CreatedAt

	returnedID, err := conversations.AppendTurn(ctx, store.ExistingConversation{ID: id}, "second question", "second reply")
	if err != nil {
		t.Fatalf("append turn failed: %v", err)
	}
	if returnedID != id {
		t.Fatalf("expected same id %s, got %s", id, returnedID)
	}

	conv, err = conversations.Get(ctx, id)
	if err != nil {
		t.Fatalf("fetch conversation failed: %v", err)
	}

	if len(conv.Messages) != 4 {
		t.Fatalf("expected 4 messages after second round trip, got %d", len(conv.Messages))
	}
	if conv.Messages[2].Content != "second question" || conv.Messages[3].Content != "second reply" {
		t.Fatalf("expected strict append order, got %+v", conv.Messages[2:])
	}
	if want := strings.Repeat("x", 40) + "..."; conv.Title != want {
		t.Fatalf("title must not change on append, got %q", conv.Title)
	}
	if !conv.CreatedAt.Equal(createdAt) {
		t.Fatalf("createdAt must not change on append")
	}
}

func TestAppendTurnUnknownConversation(t *testing.T) {
	conversations := setupMongoStore(t)

	_, err := conversations.AppendTurn(context.Background(),
		store.ExistingConversation{ID: uuid.NewString()}, "hello", "world")
	if err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAndDeleteScopedByUser(t *testing.T) {
	conversations := setupMongoStore(t)
	ctx := context.Background()

	owner := uuid.NewString()
	other := uuid.NewString()

	firstID, err := conversations.AppendTurn(ctx, store.NewConversation{UserID: owner}, "first thread", "reply")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	secondID, err := conversations.AppendTurn(ctx, store.NewConversation{UserID: owner}, "second thread", "reply")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	otherID, err := conversations.AppendTurn(ctx, store.NewConversation{UserID: other}, "someone else", "reply")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	summaries, err := conversations.List(ctx, owner)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 conversations for owner, got %d", len(summaries))
	}
	if summaries[0].CreatedAt.Before(summaries[1].CreatedAt) {
		t.Fatalf("expected newest-first ordering")
	}

	if err := conversations.Delete(ctx, firstID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := conversations.Delete(ctx, firstID); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	deleted, err := conversations.DeleteAll(ctx, owner)
	if err != nil {
		t.Fatalf("delete all failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 remaining conversation deleted, got %d", deleted)
	}

	deleted, err = conversations.DeleteAll(ctx, owner)
	if err != nil {
		t.Fatalf("repeat delete all failed: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected zero deletions on repeat, got %d", deleted)
	}

	if _, err := conversations.Get(ctx, secondID); err != store.ErrNotFound {
		t.Fatalf("expected owner's conversation gone, got %v", err)
	}
	if _, err := conversations.Get(ctx, otherID); err != nil {
		t.Fatalf("other user's conversation must survive: %v", err)
	}
}
