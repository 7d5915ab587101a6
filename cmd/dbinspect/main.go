// Package main inspects an Inkwell database: document counts per
// collection and a consistency report on the denormalized snapshots.
//
// Usage:
//
//	DATA_PATH=~/Inkwell/data go run ./cmd/dbinspect
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Inkwell/data")
	}
	dbPath := filepath.Join(dataPath, "db")

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	notes := make(map[string]*domain.Note)
	noteCount, tagCount, userCount, inboxCount := 0, 0, 0, 0
	totalComments, totalLikes := 0, 0
	staleSnapshots := 0

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		// First pass: load notes so snapshot freshness can be checked.
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())

			if strings.Contains(key, ":idx:") {
				continue
			}

			switch {
			case strings.HasPrefix(key, "notes:"):
				err := item.Value(func(val []byte) error {
					var n domain.Note
					if err := json.Unmarshal(val, &n); err != nil {
						return err
					}
					notes[n.ID] = &n
					noteCount++
					totalComments += domain.CountComments(n.Comments)
					totalLikes += n.LikeCount
					return nil
				})
				if err != nil {
					log.Printf("Error reading %s: %v", key, err)
				}
			case strings.HasPrefix(key, "users:"):
				userCount++
			case strings.HasPrefix(key, "inbox:"):
				inboxCount++
			}
		}

		// Second pass: tags, checking each cached snapshot against its
		// canonical note.
		tagIt := txn.NewIterator(badger.IteratorOptions{Prefix: []byte("tags:")})
		defer tagIt.Close()

		for tagIt.Rewind(); tagIt.Valid(); tagIt.Next() {
			item := tagIt.Item()
			if strings.Contains(string(item.Key()), ":idx:") {
				continue
			}

			err := item.Value(func(val []byte) error {
				var t domain.Tag
				if err := json.Unmarshal(val, &t); err != nil {
					return err
				}
				tagCount++

				fmt.Printf("Tag: %s\n", t.Name)
				fmt.Printf("  ID: %s\n", t.ID)
				fmt.Printf("  PostCount: %d\n", t.PostCount)
				fmt.Printf("  Cached notes: %d\n", len(t.Notes))
				for _, snap := range t.Notes {
					note, ok := notes[snap.ID]
					if !ok {
						fmt.Printf("    DANGLING snapshot: %s (%s)\n", snap.Title, snap.ID)
						staleSnapshots++
						continue
					}
					if note.Title != snap.Title || note.ThumbnailURL != snap.ThumbnailURL {
						fmt.Printf("    STALE snapshot: %s (%s)\n", snap.Title, snap.ID)
						staleSnapshots++
					}
				}
				fmt.Println()
				return nil
			})
			if err != nil {
				log.Printf("Error reading tag: %v", err)
			}
		}

		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Notes: %d\n", noteCount)
	fmt.Printf("Tags: %d\n", tagCount)
	fmt.Printf("Users: %d\n", userCount)
	fmt.Printf("Inbox items: %d\n", inboxCount)
	fmt.Printf("Total comments: %d\n", totalComments)
	fmt.Printf("Total likes: %d\n", totalLikes)
	fmt.Printf("Stale or dangling snapshots: %d\n", staleSnapshots)
}
