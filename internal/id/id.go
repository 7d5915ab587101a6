// Package id generates prefixed unique identifiers for persisted documents.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Document ID prefixes. The prefix makes a raw ID self-describing in
// logs and in the database inspector.
const (
	PrefixNote    = "note"
	PrefixTag     = "tag"
	PrefixUser    = "user"
	PrefixComment = "cmt"
	PrefixInbox   = "inbox"
)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g. "note-V1StGXR8_Z5jdHi6B-myT").
//
// NanoIDs are URL-friendly and compact (21 characters vs UUID's 36).
// Returns an error if the system has insufficient entropy for secure
// random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use only where failure should crash the program, such as during
// initialization or seeding.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
