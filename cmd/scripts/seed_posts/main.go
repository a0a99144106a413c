package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/hdfcgpt/server/internal/db"
	"github.com/hdfcgpt/server/internal/models"
	"github.com/hdfcgpt/server/internal/store"
	"github.com/hdfcgpt/server/internal/utils"
)

type seedPost struct {
	title   string
	content string
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	mongoStore, err := db.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		log.Fatalf("connect mongo: %v", err)
	}
	defer mongoStore.Close(context.Background())

	posts := []seedPost{
		{
			title:   "Welcome to Our Blog",
			content: "We share product updates, industry insight, and practical guides here. Check back regularly for new posts from the team.",
		},
		{
			title:   "How Our AI Assistant Works",
			content: "Our chat assistant answers your questions using a large language model and keeps your conversation history so you can pick up where you left off.",
		},
		{
			title:   "Five Questions to Ask Your Financial Advisor",
			content: "Before committing to a plan, make sure you understand fees, risk tolerance, investment horizon, rebalancing policy, and how success will be measured.",
		},
	}

	postStore := store.NewPosts(mongoStore.Posts)
	for _, p := range posts {
		post := &models.Post{
			Title:       p.title,
			Content:     p.content,
			UserID:      "seed",
			AuthorEmail: "team@example.com",
		}
		if err := postStore.Create(ctx, post); err != nil {
			log.Fatalf("seed post %q: %v", p.title, err)
		}
		log.Printf("seeded post %s (%s)", post.ID, post.Title)
	}
}
