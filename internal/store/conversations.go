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

// titleRuneLimit bounds the derived conversation title; longer first
// messages are truncated and marked with an ellipsis.
const titleRuneLimit = 40

// TurnTarget selects the persistence path for one chat round trip: either a
// brand-new conversation or an append to an existing one.
type TurnTarget interface {
	isTurnTarget()
}

// NewConversation creates a thread owned by UserID on the first round trip.
type NewConversation struct {
	UserID string
}

// ExistingConversation appends to the thread identified by ID.
type ExistingConversation struct {
	ID string
}

func (NewConversation) isTurnTarget()      {}
func (ExistingConversation) isTurnTarget() {}

// Conversations persists chat threads as single documents with an embedded,
// append-only message array.
type Conversations struct {
	collection *mongo.Collection
}

func NewConversations(collection *mongo.Collection) *Conversations {
	return &Conversations{collection: collection}
}

// AppendTurn commits one user/model message pair. Both messages land in a
// single insert or a single update, so a transcript can never be observed
// with only half of a round trip.
func (s *Conversations) AppendTurn(ctx context.Context, target TurnTarget, userText, modelText string) (string, error) {
	userMsg := models.Message{Role: models.RoleUser, Content: userText}
	modelMsg := models.Message{Role: models.RoleModel, Content: modelText}

	switch t := target.(type) {
	case NewConversation:
		conv := models.Conversation{
			ID:        uuid.NewString(),
			UserID:    t.UserID,
			Title:     DeriveTitle(userText),
			CreatedAt: time.Now().UTC(),
			Messages:  []models.Message{userMsg, modelMsg},
		}

		if _, err := s.collection.InsertOne(ctx, conv); err != nil {
			return "", fmt.Errorf("store: insert conversation: %w", err)
		}
		return conv.ID, nil

	case ExistingConversation:
		update := bson.M{
			"$push": bson.M{
				"messages": bson.M{"$each": []models.Message{userMsg, modelMsg}},
			},
		}

		result, err := s.collection.UpdateOne(ctx, bson.M{"_id": t.ID}, update)
		if err != nil {
			return "", fmt.Errorf("store: append messages: %w", err)
		}
		if result.MatchedCount == 0 {
			return "", ErrNotFound
		}
		return t.ID, nil

	default:
		return "", fmt.Errorf("store: unknown turn target %T", target)
	}
}

// Get loads a full conversation by id.
func (s *Conversations) Get(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&conv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: fetch conversation: %w", err)
	}
	return &conv, nil
}

// List returns the summaries for a user's history panel, newest first.
func (s *Conversations) List(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.D{{Key: "title", Value: 1}, {Key: "created_at", Value: 1}})

	cursor, err := s.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("store: list conversations: %w", err)
	}
	defer cursor.Close(ctx)

	summaries := make([]models.ConversationSummary, 0)
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("store: decode conversations: %w", err)
	}

	return summaries, nil
}

// Delete removes exactly one conversation.
func (s *Conversations) Delete(ctx context.Context, id string) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("store: delete conversation: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every conversation owned by userID and reports how many
// were deleted. Zero matches is a successful no-op.
func (s *Conversations) DeleteAll(ctx context.Context, userID string) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("store: delete conversations: %w", err)
	}
	return result.DeletedCount, nil
}

// DeriveTitle produces the immutable conversation title from the first user
// message: at most titleRuneLimit runes, with "..." appended only when the
// original text was longer.
func DeriveTitle(userText string) string {
	runes := []rune(userText)
	if len(runes) <= titleRuneLimit {
		return userText
	}
	return string(runes[:titleRuneLimit]) + "..."
}
