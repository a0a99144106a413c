package models

import "time"

// Post is a published blog entry stored in the posts collection.
type Post struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Content     string    `bson:"content" json:"content"`
	ImageURL    string    `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	UserID      string    `bson:"user_id" json:"userId"`
	AuthorEmail string    `bson:"author_email,omitempty" json:"authorEmail,omitempty"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}
