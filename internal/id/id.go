// Package id generates opaque, URL-friendly identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// roomIDLength keeps room ids short enough to ride comfortably in a share link.
const roomIDLength = 10

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "sse-V1StGXR8_Z5jdHi6B-myT").
//
// NanoIDs are URL-friendly, compact, and use a larger alphabet than UUIDs for
// better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use only when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// NewRoomID mints a short opaque room identifier with no prefix. Room ids are
// embedded in share links as a query parameter and carry no guessable
// structure.
func NewRoomID() (string, error) {
	rid, err := gonanoid.New(roomIDLength)
	if err != nil {
		return "", fmt.Errorf("generate room id: %w", err)
	}
	return rid, nil
}

// MustNewRoomID is like NewRoomID but panics on entropy failure.
func MustNewRoomID() string {
	rid, err := NewRoomID()
	if err != nil {
		panic(fmt.Sprintf("failed to generate room ID: %v", err))
	}
	return rid
}
