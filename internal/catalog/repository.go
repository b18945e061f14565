package catalog

import (
	"strings"

	"github.com/logistiq/vvp-backend/internal/domain"
)

// Record-level operations over an in-memory catalog. All functions are
// pure: they return updated copies and never touch storage, so admin
// services can compose them inside a load-modify-save cycle.

// FindWarehouse returns the warehouse with the given id (case-insensitive)
// or nil when absent.
func FindWarehouse(cat domain.Catalog, id string) *domain.Warehouse {
	needle := strings.ToLower(strings.TrimSpace(id))
	for i := range cat.Warehouses {
		if strings.ToLower(cat.Warehouses[i].ID) == needle {
			return &cat.Warehouses[i]
		}
	}
	return nil
}

// FindCustomer returns the customer matching id or name
// (case-insensitive) or nil when absent.
func FindCustomer(cat domain.Catalog, idOrName string) *domain.Customer {
	needle := strings.ToLower(strings.TrimSpace(idOrName))
	for i := range cat.Customers {
		c := &cat.Customers[i]
		if strings.ToLower(c.ID) == needle || strings.ToLower(strings.TrimSpace(c.Name)) == needle {
			return c
		}
	}
	return nil
}

// WarehouseIDs returns the set of warehouse ids present in the catalog.
func WarehouseIDs(cat domain.Catalog) map[string]struct{} {
	ids := make(map[string]struct{}, len(cat.Warehouses))
	for _, wh := range cat.Warehouses {
		ids[wh.ID] = struct{}{}
	}
	return ids
}

// CustomerIDs returns the set of customer ids present in the catalog.
func CustomerIDs(cat domain.Catalog) map[string]struct{} {
	ids := make(map[string]struct{}, len(cat.Customers))
	for _, c := range cat.Customers {
		ids[c.ID] = struct{}{}
	}
	return ids
}

// UpsertWarehouse replaces the warehouse with a matching id or appends a
// new one. Reports whether a new record was created. Matching an existing
// id never changes the warehouse count.
func UpsertWarehouse(cat domain.Catalog, id string, wh domain.Warehouse) (domain.Catalog, bool) {
	wh.ID = strings.TrimSpace(id)

	updated := cloneCatalog(cat)
	for i := range updated.Warehouses {
		if strings.EqualFold(updated.Warehouses[i].ID, wh.ID) {
			wh.ID = updated.Warehouses[i].ID
			updated.Warehouses[i] = wh
			return updated, false
		}
	}

	updated.Warehouses = append(updated.Warehouses, wh)
	return updated, true
}

// UpsertCustomer replaces the customer with a matching id or appends a new
// one, generating a slug id with numeric disambiguation when the payload
// carries none. Returns the customer's id.
func UpsertCustomer(cat domain.Catalog, customer domain.Customer) (domain.Catalog, string) {
	updated := cloneCatalog(cat)

	if customer.ID == "" {
		customer.ID = domain.UniqueID(customer.Name, CustomerIDs(cat))
	} else {
		for i := range updated.Customers {
			if strings.EqualFold(updated.Customers[i].ID, customer.ID) {
				customer.ID = updated.Customers[i].ID
				updated.Customers[i] = customer
				return updated, customer.ID
			}
		}
	}

	updated.Customers = append(updated.Customers, customer)
	return updated, customer.ID
}

// DeleteWarehouse removes the warehouse with the given id. Removal is
// immediate and irreversible from the catalog's perspective.
func DeleteWarehouse(cat domain.Catalog, id string) (domain.Catalog, bool) {
	updated := cloneCatalog(cat)
	for i := range updated.Warehouses {
		if strings.EqualFold(updated.Warehouses[i].ID, strings.TrimSpace(id)) {
			updated.Warehouses = append(updated.Warehouses[:i], updated.Warehouses[i+1:]...)
			return updated, true
		}
	}
	return updated, false
}

// DeleteCustomer removes the customer matching id or name.
func DeleteCustomer(cat domain.Catalog, idOrName string) (domain.Catalog, bool) {
	needle := strings.ToLower(strings.TrimSpace(idOrName))
	updated := cloneCatalog(cat)
	for i := range updated.Customers {
		c := updated.Customers[i]
		if strings.ToLower(c.ID) == needle || strings.ToLower(strings.TrimSpace(c.Name)) == needle {
			updated.Customers = append(updated.Customers[:i], updated.Customers[i+1:]...)
			return updated, true
		}
	}
	return updated, false
}

func cloneCatalog(cat domain.Catalog) domain.Catalog {
	clone := domain.Catalog{
		Warehouses: make([]domain.Warehouse, len(cat.Warehouses)),
		Customers:  make([]domain.Customer, len(cat.Customers)),
	}
	copy(clone.Warehouses, cat.Warehouses)
	copy(clone.Customers, cat.Customers)
	return clone
}
