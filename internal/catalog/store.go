package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/logistiq/vvp-backend/internal/cache"
	"github.com/logistiq/vvp-backend/internal/domain"
	"github.com/logistiq/vvp-backend/internal/storage"
)

// Store persists the catalog document. The local JSON file is the
// durability guarantee of record; an optional remote backend mirrors it
// across redeploys and an optional cache serves snapshots with an
// explicit TTL. Load always reloads unless the cache is enabled.
//
// There is no locking discipline beyond serializing this process's own
// writes: concurrent admin sessions are last-write-wins by design.
type Store struct {
	path   string
	remote storage.RemoteStore
	cache  cache.CatalogCache

	mu          sync.Mutex
	lastWarning string
}

// Option configures optional Store collaborators.
type Option func(*Store)

// WithRemote mirrors the catalog to a remote key-value backend.
func WithRemote(remote storage.RemoteStore) Option {
	return func(s *Store) { s.remote = remote }
}

// WithCache serves catalog snapshots from a cache.
func WithCache(c cache.CatalogCache) Option {
	return func(s *Store) { s.cache = c }
}

// NewStore builds a store over the local catalog path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:  path,
		cache: cache.NewNoopCatalogCache(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the local catalog file path.
func (s *Store) Path() string {
	return s.path
}

// LastWarning returns the non-fatal warning from the most recent load or
// save, for display as an informational banner. Empty when the last
// operation was clean.
func (s *Store) LastWarning() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastWarning
}

func (s *Store) setWarning(msg string) {
	s.mu.Lock()
	s.lastWarning = msg
	s.mu.Unlock()
	if msg != "" {
		log.Warn().Msg(msg)
	}
}

// Load reads the catalog. Priority: cache, then the remote backend
// (refreshing the local file on success), then the local file. Remote
// failures degrade to the local cache with a warning instead of an error;
// a corrupt local file is preserved under a .corrupt sibling and replaced
// by a fresh empty catalog. If no catalog exists anywhere an empty
// skeleton is persisted immediately so subsequent loads are consistent.
func (s *Store) Load(ctx context.Context) (domain.Catalog, error) {
	s.setWarning("")

	if cached, hit, err := s.cache.Get(ctx); err == nil && hit {
		return cached, nil
	}

	if s.remote != nil {
		cat, err := s.loadRemote(ctx)
		if err == nil {
			s.writeLocal(cat)
			s.cacheSet(ctx, cat)
			return cat, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			s.setWarning(fmt.Sprintf("remote catalog unavailable, using local copy: %v", err))
		}
	}

	cat, err := s.loadLocal()
	if err != nil {
		return cat, err
	}
	s.cacheSet(ctx, cat)
	return cat, nil
}

// Save writes the catalog. The atomic local write is the durability
// guarantee; the remote write is best-effort and its failure only raises
// a warning. The cache is invalidated on every save.
func (s *Store) Save(ctx context.Context, cat domain.Catalog) error {
	s.setWarning("")

	if err := s.writeLocal(cat); err != nil {
		return err
	}

	if s.remote != nil {
		payload, err := marshalCatalog(cat)
		if err != nil {
			return err
		}
		if err := s.remote.Put(ctx, "", payload); err != nil {
			s.setWarning(fmt.Sprintf("catalog saved locally but remote sync failed: %v", err))
		}
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}

	return nil
}

func (s *Store) loadRemote(ctx context.Context) (domain.Catalog, error) {
	data, err := s.remote.Get(ctx, "")
	if err != nil {
		return domain.Catalog{}, err
	}

	cat, err := Normalize(data)
	if err != nil {
		// A malformed remote payload counts as a remote failure.
		return domain.Catalog{}, fmt.Errorf("malformed remote catalog: %w", err)
	}
	return cat, nil
}

func (s *Store) loadLocal() (domain.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		// First run: persist the empty skeleton immediately.
		empty := emptyCatalog()
		if writeErr := s.writeLocal(empty); writeErr != nil {
			return empty, writeErr
		}
		return empty, nil
	}
	if err != nil {
		s.setWarning(fmt.Sprintf("catalog unreadable: %v", err))
		return emptyCatalog(), nil
	}

	cat, err := Normalize(data)
	if err != nil {
		return s.quarantineCorrupt(err)
	}
	return cat, nil
}

// quarantineCorrupt preserves the broken file under a .corrupt sibling so
// no data is lost without a trace, then substitutes a fresh empty catalog.
func (s *Store) quarantineCorrupt(cause error) (domain.Catalog, error) {
	corruptPath := s.path + ".corrupt"
	if err := os.Rename(s.path, corruptPath); err != nil {
		s.setWarning(fmt.Sprintf("catalog corrupt (%v) and could not be quarantined: %v", cause, err))
		return emptyCatalog(), nil
	}

	s.setWarning(fmt.Sprintf("catalog corrupt (%v); preserved as %s and reset to empty", cause, corruptPath))

	empty := emptyCatalog()
	if err := s.writeLocal(empty); err != nil {
		return empty, err
	}
	return empty, nil
}

// writeLocal writes the catalog atomically: temp file in the same
// directory, fsync, then rename, so a crash mid-write never corrupts the
// previous valid file.
func (s *Store) writeLocal(cat domain.Catalog) error {
	payload, err := marshalCatalog(cat)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "catalog_*.json")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp catalog: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp catalog: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}

func (s *Store) cacheSet(ctx context.Context, cat domain.Catalog) {
	if err := s.cache.Set(ctx, cat); err != nil {
		log.Warn().Err(err).Msg("catalog cache refresh failed")
	}
}

func marshalCatalog(cat domain.Catalog) ([]byte, error) {
	payload, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return append(payload, '\n'), nil
}

func emptyCatalog() domain.Catalog {
	return domain.Catalog{
		Warehouses: []domain.Warehouse{},
		Customers:  []domain.Customer{},
	}
}
