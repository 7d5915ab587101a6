// Package search provides full-text note search using Bleve, with
// fuzzy matching, tag filtering, and facet counts.
package search

import (
	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// NoteDocument is the shape of a note inside the Bleve index. Tags are
// denormalized into plain names so a single query covers title,
// content, and tag filters.
type NoteDocument struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Content     string   `json:"content,omitempty"`
	Author      string   `json:"author,omitempty"`
	AuthorID    string   `json:"author_id,omitempty"`
	Series      string   `json:"series,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	LikeCount   int      `json:"like_count"`
	ViewCount   int      `json:"view_count"`
	CreatedAt   int64    `json:"created_at"` // Unix millis
	UpdatedAt   int64    `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve defaults to Go struct field names, which would not match the
// index mapping.
func (d *NoteDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"title":      d.Title,
		"like_count": d.LikeCount,
		"view_count": d.ViewCount,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Content != "" {
		m["content"] = d.Content
	}
	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.AuthorID != "" {
		m["author_id"] = d.AuthorID
	}
	if d.Series != "" {
		m["series"] = d.Series
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}

	return m
}

// NoteToDocument converts a domain note into its index representation.
func NoteToDocument(note *domain.Note) *NoteDocument {
	doc := &NoteDocument{
		ID:          note.ID,
		Title:       note.Title,
		Description: note.Description,
		Content:     note.Content,
		Author:      note.AuthorName,
		AuthorID:    note.AuthorID,
		Series:      note.Series,
		LikeCount:   note.LikeCount,
		ViewCount:   note.ViewCount,
		CreatedAt:   note.CreatedAt.UnixMilli(),
		UpdatedAt:   note.UpdatedAt.UnixMilli(),
	}

	for _, tag := range note.Tags {
		doc.Tags = append(doc.Tags, tag.Name)
	}

	return doc
}
