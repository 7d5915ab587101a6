package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// NoteIndex wraps a Bleve index with note-specific operations.
//
// All public methods are safe for concurrent use. The mutex protects
// against index corruption during rebuild operations.
type NoteIndex struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the note index.
type Options struct {
	DataPath string       // Directory for index storage
	Logger   *slog.Logger // Uses discard if nil
}

// mappingVersion is incremented whenever the index mapping changes,
// triggering an automatic rebuild on startup.
const mappingVersion = "1"

// NewNoteIndex creates or opens the note search index. A corrupted or
// outdated index is removed and recreated.
func NewNoteIndex(opts Options) (*NoteIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	indexPath := filepath.Join(opts.DataPath, "notes.bleve")
	versionPath := filepath.Join(opts.DataPath, "notes.version")

	var index bleve.Index
	var err error
	needsRebuild := false

	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		if readErr != nil {
			logger.Info("search index has no version file, will rebuild",
				"new_version", mappingVersion,
			)
			needsRebuild = true
		} else if string(existingVersion) != mappingVersion {
			logger.Info("search index mapping version changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", mappingVersion,
			)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing index, will recreate",
				"path", indexPath,
				"error", err,
			)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0644); writeErr != nil {
			logger.Warn("failed to write search version file", "error", writeErr)
		}
		logger.Info("created new search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing search index", "path", indexPath)
	}

	return &NoteIndex{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// Close closes the index and releases resources.
func (s *NoteIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexNote indexes a single note document.
func (s *NoteIndex) IndexNote(doc *NoteDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// The map form keeps field names lowercase to match the mapping.
	return s.index.Index(doc.ID, doc.ToMap())
}

// IndexNotes indexes documents in batches. Much faster than calling
// IndexNote in a loop during a full reindex.
func (s *NoteIndex) IndexNotes(docs []*NoteDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	const batchSize = 500

	for i := 0; i < len(docs); i += batchSize {
		end := min(i+batchSize, len(docs))
		chunk := docs[i:end]

		batch := s.index.NewBatch()
		for _, doc := range chunk {
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}

		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// DeleteNote removes a note from the index.
func (s *NoteIndex) DeleteNote(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(id)
}

// DocumentCount returns the total number of indexed notes.
func (s *NoteIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild drops the existing index and creates a fresh one. It takes
// an exclusive lock and blocks all other operations while running.
func (s *NoteIndex) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	if err := os.RemoveAll(s.path); err != nil {
		return fmt.Errorf("remove index: %w", err)
	}

	index, err := bleve.New(s.path, buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	s.index = index
	s.logger.Info("rebuilt search index", "path", s.path)

	return nil
}
