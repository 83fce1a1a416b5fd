// Package store implements the durable JSON link store. The whole document is
// the unit of durability: every save is a read-modify-write that replaces the
// file, so on disk it is always either the pre-save or post-save version.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonathan/linkshelf/internal/types"
	"github.com/jonathan/linkshelf/internal/urlutil"
)

// LinkStore persists link records to a pretty-printed JSON document keyed by
// normalized URL. A mutex serializes read-modify-write cycles so concurrent
// pipeline workers cannot corrupt next_id or drop records.
type LinkStore struct {
	path string
	mu   sync.Mutex
}

// New opens the store at path, creating an empty document (next_id = 1) if
// none exists.
func New(path string) (*LinkStore, error) {
	s := &LinkStore{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(&types.Document{Links: []types.Record{}, NextID: 1}); err != nil {
			return nil, fmt.Errorf("failed to initialize store: %w", err)
		}
	}
	return s, nil
}

// Exists reports whether a record with the same normalized URL is already
// persisted.
func (s *LinkStore) Exists(url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return false, err
	}
	return findNormalized(doc, urlutil.Normalize(url)), nil
}

// Save persists a new record for link and returns it. If a record with the
// same normalized URL already exists, Save returns (nil, nil) without mutating
// the store. IDs are sequential and never reused.
func (s *LinkStore) Save(link types.LinkData) (*types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}

	normalized := urlutil.Normalize(link.URL)
	if findNormalized(doc, normalized) {
		return nil, nil
	}

	record := types.Record{
		ID:            doc.NextID,
		URL:           link.URL,
		NormalizedURL: normalized,
		Domain:        urlutil.Domain(link.URL),
		Title:         link.Title,
		Description:   link.Description,
		SiteName:      link.SiteName,
		ImageURL:      link.ImageURL,
		Category:      link.Category,
		Context:       link.Context,
		CreatedAt:     time.Now().UTC(),
	}

	doc.Links = append(doc.Links, record)
	doc.NextID++

	if err := s.write(doc); err != nil {
		return nil, err
	}
	return &record, nil
}

// GetAll returns the currently persisted records.
func (s *LinkStore) GetAll() ([]types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return doc.Links, nil
}

func findNormalized(doc *types.Document, normalized string) bool {
	for _, link := range doc.Links {
		if link.NormalizedURL == normalized {
			return true
		}
	}
	return false
}

func (s *LinkStore) read() (*types.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store %s: %w", s.path, err)
	}

	var doc types.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse store %s: %w", s.path, err)
	}
	return &doc, nil
}

// write replaces the document atomically: marshal, write to a temp file in
// the same directory, then rename over the target.
func (s *LinkStore) write(doc *types.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".links-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write store document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp store file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}
