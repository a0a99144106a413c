package db_test

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

func TestMongoEnsureCollectionsAndPostCRUD(t *testing.T) {
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
	defer func() {
		ctx := context.Background()
		mongoStore.Database.Drop(ctx)
		mongoStore.Close(ctx)
	}()

	if err := mongoStore.EnsureCollections(context.Background()); err != nil {
		t.Fatalf("ensure collections failed: %v", err)
	}

	ctx := context.Background()
	posts := store.NewPosts(mongoStore.Posts)

	first := &models.Post{Title: "Older", Content: "first body", UserID: uuid.NewString()}
	if err := posts.Create(ctx, first); err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	if first.ID == "" || first.Timestamp.IsZero() {
		t.Fatalf("expected id and timestamp to be assigned")
	}

	second := &models.Post{Title: "Newer", Content: "second body", UserID: first.UserID}
	if err := posts.Create(ctx, second); err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	listed, err := posts.List(ctx)
	if err != nil {
		t.Fatalf("failed to list posts: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(listed))
	}
	if listed[0].Timestamp.Before(listed[1].Timestamp) {
		t.Fatalf("expected newest-first ordering")
	}

	if err := posts.Update(ctx, first.ID, "Older Edited", "edited body", ""); err != nil {
		t.Fatalf("failed to update post: %v", err)
	}

	fetched, err := posts.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("failed to fetch post: %v", err)
	}
	if fetched.Title != "Older Edited" || fetched.Content != "edited body" {
		t.Fatalf("expected updated fields, got %+v", fetched)
	}
	if !fetched.Timestamp.Equal(listed[1].Timestamp) {
		t.Fatalf("update must not rewrite the original timestamp")
	}

	if err := posts.Delete(ctx, first.ID); err != nil {
		t.Fatalf("failed to delete post: %v", err)
	}
	if err := posts.Delete(ctx, first.ID); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
