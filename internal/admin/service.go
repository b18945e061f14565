package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/logistiq/vvp-backend/internal/catalog"
	"github.com/logistiq/vvp-backend/internal/domain"
)

// ErrNotFound marks mutations that target an id the catalog does not hold.
var ErrNotFound = errors.New("not found")

// ValidationError carries the full problem list so handlers can return it
// as a 400 body instead of a bare message.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// Service applies admin mutations to the catalog. Every mutation is
// load, validate, mutate, save; nothing is written when validation fails.
type Service struct {
	store *catalog.Store
}

func NewService(store *catalog.Store) *Service {
	return &Service{store: store}
}

func (s *Service) AddWarehouse(ctx context.Context, id string, wh domain.Warehouse) (domain.Catalog, error) {
	return s.upsertWarehouse(ctx, id, wh, false)
}

func (s *Service) UpdateWarehouse(ctx context.Context, id string, wh domain.Warehouse) (domain.Catalog, error) {
	return s.upsertWarehouse(ctx, id, wh, true)
}

func (s *Service) upsertWarehouse(ctx context.Context, id string, wh domain.Warehouse, mustExist bool) (domain.Catalog, error) {
	cat, err := s.store.Load(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}

	if mustExist && catalog.FindWarehouse(cat, id) == nil {
		return domain.Catalog{}, fmt.Errorf("warehouse %q: %w", id, ErrNotFound)
	}
	existingIDs := make([]string, 0, len(cat.Warehouses))
	for whID := range catalog.WarehouseIDs(cat) {
		existingIDs = append(existingIDs, whID)
	}
	if problems := ValidateWarehouse(id, wh, existingIDs, mustExist); len(problems) > 0 {
		return domain.Catalog{}, &ValidationError{Problems: problems}
	}

	updated, isNew := catalog.UpsertWarehouse(cat, id, wh)
	if err := s.store.Save(ctx, updated); err != nil {
		return domain.Catalog{}, err
	}

	log.Info().Str("warehouse_id", id).Bool("created", isNew).Msg("warehouse saved")
	return updated, nil
}

func (s *Service) DeleteWarehouse(ctx context.Context, id string) (domain.Catalog, error) {
	cat, err := s.store.Load(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}

	updated, removed := catalog.DeleteWarehouse(cat, id)
	if !removed {
		return domain.Catalog{}, fmt.Errorf("warehouse %q: %w", id, ErrNotFound)
	}
	if err := s.store.Save(ctx, updated); err != nil {
		return domain.Catalog{}, err
	}

	log.Info().Str("warehouse_id", id).Msg("warehouse deleted")
	return updated, nil
}

// AddCustomer generates an id from the name when none is supplied and
// returns it alongside the updated catalog.
func (s *Service) AddCustomer(ctx context.Context, c domain.Customer) (domain.Catalog, string, error) {
	cat, err := s.store.Load(ctx)
	if err != nil {
		return domain.Catalog{}, "", err
	}

	if problems := ValidateCustomer(c); len(problems) > 0 {
		return domain.Catalog{}, "", &ValidationError{Problems: problems}
	}

	updated, id := catalog.UpsertCustomer(cat, c)
	if err := s.store.Save(ctx, updated); err != nil {
		return domain.Catalog{}, "", err
	}

	log.Info().Str("customer_id", id).Msg("customer saved")
	return updated, id, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, c domain.Customer) (domain.Catalog, error) {
	cat, err := s.store.Load(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}

	existing := catalog.FindCustomer(cat, id)
	if existing == nil {
		return domain.Catalog{}, fmt.Errorf("customer %q: %w", id, ErrNotFound)
	}
	if problems := ValidateCustomer(c); len(problems) > 0 {
		return domain.Catalog{}, &ValidationError{Problems: problems}
	}

	c.ID = existing.ID
	updated, _ := catalog.UpsertCustomer(cat, c)
	if err := s.store.Save(ctx, updated); err != nil {
		return domain.Catalog{}, err
	}

	log.Info().Str("customer_id", c.ID).Msg("customer updated")
	return updated, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, idOrName string) (domain.Catalog, error) {
	cat, err := s.store.Load(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}

	updated, removed := catalog.DeleteCustomer(cat, idOrName)
	if !removed {
		return domain.Catalog{}, fmt.Errorf("customer %q: %w", idOrName, ErrNotFound)
	}
	if err := s.store.Save(ctx, updated); err != nil {
		return domain.Catalog{}, err
	}

	log.Info().Str("customer", idOrName).Msg("customer deleted")
	return updated, nil
}
