package models

import "time"

// Message roles as stored and as exchanged with the model provider.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is a single turn inside a conversation. Messages only exist
// embedded in a Conversation document and have no identity of their own.
type Message struct {
	Role    string `bson:"role" json:"role"`
	Content string `bson:"content" json:"content"`
}

// Conversation is one persisted chat thread. The title is derived from the
// first user message at creation time and never recomputed; messages are
// append-only.
type Conversation struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	Title     string    `bson:"title" json:"title"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	Messages  []Message `bson:"messages" json:"messages"`
}

// ConversationSummary is the listing shape for the history panel.
type ConversationSummary struct {
	ID        string    `bson:"_id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
