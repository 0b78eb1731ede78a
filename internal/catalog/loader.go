package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	apperrors "github.com/PabloBorneman/whatsapp-bot-railway/internal/errors"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/logger"
	"golang.org/x/sync/singleflight"
)

// Source supplies the raw catalog JSON from persisted storage.
type Source interface {
	// Fetch returns the catalog bytes.
	Fetch(ctx context.Context) ([]byte, error)
	// Describe identifies the source for logs.
	Describe() string
}

// FileSource reads the catalog from a local JSON file.
type FileSource struct {
	Path string
}

// Fetch reads the file.
func (s FileSource) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return data, nil
}

// Describe identifies the source for logs.
func (s FileSource) Describe() string {
	return "file:" + s.Path
}

// Parse decodes the catalog JSON into course records.
// Records with a duplicate title are dropped (titles are the primary
// matching key and must stay unique); a record with missing fields is
// kept and renders those fields as "No disponible".
func Parse(raw []byte) ([]Course, error) {
	var courses []Course
	if err := json.Unmarshal(raw, &courses); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(courses))
	out := courses[:0]
	for _, course := range courses {
		if _, dup := seen[course.Title]; dup {
			continue
		}
		seen[course.Title] = struct{}{}
		out = append(out, course)
	}
	return out, nil
}

// Store holds the current catalog snapshot and supports atomic reloads.
// Reads are lock-free from the caller's perspective; a reload swaps the
// snapshot pointer under a write lock. Concurrent reloads are
// deduplicated with singleflight.
type Store struct {
	mu      sync.RWMutex
	current *Catalog
	source  Source
	log     *logger.Logger
	group   singleflight.Group
}

// NewStore creates a store and performs the initial load. A load
// failure is non-fatal: the store starts with an empty catalog and the
// error is logged, so the bot keeps running and the classifier rules
// fall through to the generative backend.
func NewStore(ctx context.Context, source Source, log *logger.Logger) *Store {
	s := &Store{
		current: Empty(),
		source:  source,
		log:     log.WithModule("catalog"),
	}

	if err := s.Reload(ctx); err != nil {
		s.log.WithError(err).WithField("source", source.Describe()).
			Warn("Initial catalog load failed; starting with empty catalog")
	}
	return s
}

// Current returns the current catalog snapshot.
func (s *Store) Current() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Reload fetches and parses the catalog, then swaps it in atomically.
// On failure the previous snapshot is kept.
func (s *Store) Reload(ctx context.Context) error {
	_, err, _ := s.group.Do("reload", func() (any, error) {
		raw, err := s.source.Fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrCatalogUnavailable, err)
		}

		courses, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrCatalogUnavailable, err)
		}

		next := New(courses, raw)

		s.mu.Lock()
		s.current = next
		s.mu.Unlock()

		s.log.WithField("courses", next.Len()).
			WithField("localities", len(next.Localities())).
			Info("Catalog loaded")
		return nil, nil
	})
	return err
}
