package contentstore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/models"
)

// Content is the hashed portion of a review: the text, the category
// scores and the attachment references. Any single-field change
// produces a different digest - that is the tamper-evidence contract.
type Content struct {
	Text       string                 `json:"text"`
	Categories models.CategoryRatings `json:"categories"`
	MediaRefs  []MediaRef             `json:"media_refs"`
}

// MediaRef pins an attachment by its own digest.
type MediaRef struct {
	ID   string `json:"id"`
	Hash string `json:"hash"`
}

// FromReviewParts builds hashable content from the raw review fields.
func FromReviewParts(text string, categories models.CategoryRatings, media []models.MediaItem) Content {
	refs := make([]MediaRef, 0, len(media))
	for _, m := range media {
		refs = append(refs, MediaRef{ID: m.ID, Hash: m.Hash})
	}
	return Content{Text: text, Categories: categories, MediaRefs: refs}
}

// Digest computes the canonical sha256 fingerprint of the content.
// The canonical form is the JSON encoding of Content: struct fields
// marshal in declaration order, so the digest is deterministic.
func Digest(content Content) string {
	// Content contains no values json.Marshal can reject.
	raw, _ := json.Marshal(content)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Store is an in-memory content-addressable index of review content.
// Purely a data transform plus a lookup table; no network involved.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Content
}

func NewStore() *Store {
	return &Store{entries: make(map[string]Content)}
}

// Upload records the content under its digest and returns the digest.
func (s *Store) Upload(content Content) (string, error) {
	hash := Digest(content)

	s.mu.Lock()
	s.entries[hash] = content
	s.mu.Unlock()

	return hash, nil
}

// Get returns the content stored under hash.
func (s *Store) Get(hash string) (Content, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.entries[hash]
	return content, ok
}

// Verify recomputes the digest and compares it with the recorded one.
// A false result is a tamper signal and must never be silently
// repaired.
func (s *Store) Verify(content Content, hash string) bool {
	return Digest(content) == hash
}
