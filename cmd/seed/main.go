// Package main seeds the database with demo users, notes, tags, likes,
// and comments, all through the ordinary service paths so every
// denormalized cache is populated the way production writes would.
//
// Usage:
//
//	DATA_PATH=~/Inkwell/data go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/ratelimit"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/stream"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

type seedUser struct {
	id    string
	email string
	name  string
	bio   string
}

type seedNote struct {
	author  string
	title   string
	content string
	tags    []string
}

var users = []seedUser{
	{"user-ada", "ada@inkwell.test", "Ada", "Writes about type systems."},
	{"user-brin", "brin@inkwell.test", "Brin", "Distributed systems, sourdough."},
	{"user-casey", "casey@inkwell.test", "Casey", "Reads everything."},
}

var notes = []seedNote{
	{"user-ada", "Getting started with Go generics", "# Generics\n\nType parameters in practice.", []string{"go", "generics"}},
	{"user-ada", "Error wrapping patterns", "# Errors\n\nWrap with context, check with errors.Is.", []string{"go"}},
	{"user-brin", "Consensus in five minutes", "# Raft\n\nLeader election, log replication.", []string{"distributed-systems"}},
	{"user-brin", "Sourdough starter notes", "Feed twice a day in summer.", []string{"baking"}},
}

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Inkwell/data")
	}
	dbPath := filepath.Join(dataPath, "db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.DiscardHandler)
	hub := stream.NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Start(ctx)

	s, err := store.New(dbPath, logger, hub)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	validate := validation.New()
	tagSvc := service.NewTagService(s, logger)
	recentSvc := service.NewRecentService(s, logger)
	noteSvc := service.NewNoteService(s, tagSvc, recentSvc, nil, validate, logger)
	likeSvc := service.NewLikeService(s, logger)
	commentSvc := service.NewCommentService(s, validate, logger)
	thumbSvc := service.NewThumbnailService(s, ratelimit.New(1000, 100), logger)

	for _, u := range users {
		user := &domain.User{
			Syncable:    domain.Syncable{ID: u.id},
			Email:       u.email,
			DisplayName: u.name,
			Bio:         u.bio,
		}
		user.InitTimestamps()
		if err := s.PutUser(ctx, user); err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.id, err)
		}
		fmt.Printf("Seeded user: %s (%s)\n", u.name, u.id)
	}

	var noteIDs []string
	for _, n := range notes {
		note, err := noteSvc.SaveNoteWithTags(ctx, service.NoteInput{
			AuthorID:    n.author,
			Title:       n.title,
			Content:     n.content,
			Tags:        n.tags,
			IsPublic:    true,
			IsPublished: true,
		})
		if err != nil {
			log.Fatalf("Failed to seed note %q: %v", n.title, err)
		}
		noteIDs = append(noteIDs, note.ID)
		fmt.Printf("Seeded note: %q (%s)\n", note.Title, note.ID)
	}

	// Casey likes and reads everything.
	for _, noteID := range noteIDs {
		if err := likeSvc.SetLiked(ctx, "user-casey", noteID, true); err != nil {
			log.Fatalf("Failed to like note %s: %v", noteID, err)
		}
		if _, err := noteSvc.FetchNote(ctx, noteID, "user-casey"); err != nil {
			log.Fatalf("Failed to fetch note %s: %v", noteID, err)
		}
	}
	fmt.Println("Seeded likes and reads for user-casey")

	// A small comment thread on the first note.
	c1, err := commentSvc.LeaveComment(ctx, noteIDs[0], service.CommentInput{
		Author:      "Casey",
		AuthorID:    "user-casey",
		AuthorEmail: "casey@inkwell.test",
		Content:     "Great overview, thanks!",
	})
	if err != nil {
		log.Fatalf("Failed to seed comment: %v", err)
	}
	if _, err := commentSvc.ReplyToComment(ctx, noteIDs[0], c1.ID, service.CommentInput{
		Author:      "Ada",
		AuthorID:    "user-ada",
		AuthorEmail: "ada@inkwell.test",
		Content:     "Glad it helped.",
	}); err != nil {
		log.Fatalf("Failed to seed reply: %v", err)
	}
	fmt.Println("Seeded comment thread on the first note")

	if err := thumbSvc.UpdateThumbnail(ctx, "user-ada", noteIDs[0],
		"https://cdn.inkwell.test/thumbs/generics.png", nil); err != nil {
		log.Fatalf("Failed to seed thumbnail: %v", err)
	}
	fmt.Println("Seeded thumbnail fan-out on the first note")

	fmt.Println("Done.")
}
