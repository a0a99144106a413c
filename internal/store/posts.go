package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hdfcgpt/server/internal/models"
)

// Posts persists blog entries in the posts collection.
type Posts struct {
	collection *mongo.Collection
}

func NewPosts(collection *mongo.Collection) *Posts {
	return &Posts{collection: collection}
}

// Create assigns the id and server-side timestamp and inserts the post.
func (s *Posts) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	post.Timestamp = time.Now().UTC()

	if _, err := s.collection.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("store: insert post: %w", err)
	}
	return nil
}

// List returns all posts, newest first.
func (s *Posts) List(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("store: list posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := make([]models.Post, 0)
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("store: decode posts: %w", err)
	}

	return posts, nil
}

func (s *Posts) Get(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: fetch post: %w", err)
	}
	return &post, nil
}

// Update rewrites the editable fields of an existing post. The author and
// original timestamp are left untouched.
func (s *Posts) Update(ctx context.Context, id, title, content, imageURL string) error {
	update := bson.M{"$set": bson.M{
		"title":     title,
		"content":   content,
		"image_url": imageURL,
	}}

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("store: update post: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Posts) Delete(ctx context.Context, id string) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("store: delete post: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
