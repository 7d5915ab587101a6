// Package main imports an HTML document as a markdown note.
//
// Usage:
//
//	DATA_PATH=~/Inkwell/data go run ./cmd/import -user user-ada -file post.html -tags go,notes -publish
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/stream"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

var (
	userID  = flag.String("user", "", "Author user ID (required)")
	file    = flag.String("file", "", "HTML file to import (required)")
	tags    = flag.String("tags", "", "Comma-separated tag names")
	publish = flag.Bool("publish", false, "Publish the imported note")
)

func main() {
	flag.Parse()

	if *userID == "" || *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Inkwell/data")
	}
	dbPath := filepath.Join(dataPath, "db")

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

	var tagNames []string
	for _, name := range strings.Split(*tags, ",") {
		if name = strings.TrimSpace(name); name != "" {
			tagNames = append(tagNames, name)
		}
	}

	note, err := noteSvc.ImportHTML(ctx, *userID, data, tagNames, *publish)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Printf("Imported %q as %s\n", note.Title, note.ID)
}
