package catalog

import (
	"testing"

	"github.com/logistiq/vvp-backend/internal/domain"
)

func sampleCatalog() domain.Catalog {
	return domain.Catalog{
		Warehouses: []domain.Warehouse{
			{ID: "nl_svz", Name: "SVZ", Rates: domain.Rates{Inbound: 2.75}},
			{ID: "de_offergeld", Name: "Offergeld"},
		},
		Customers: []domain.Customer{
			{ID: "acme", Name: "Acme BV", Addresses: []string{"Main St 10"}},
		},
	}
}

func TestFindWarehouse(t *testing.T) {
	cat := sampleCatalog()

	if wh := FindWarehouse(cat, "nl_svz"); wh == nil || wh.Name != "SVZ" {
		t.Errorf("exact lookup failed: %+v", wh)
	}
	if wh := FindWarehouse(cat, "NL_SVZ"); wh == nil {
		t.Error("lookup must be case-insensitive")
	}
	if wh := FindWarehouse(cat, "  nl_svz  "); wh == nil {
		t.Error("lookup must trim whitespace")
	}
	if wh := FindWarehouse(cat, "missing"); wh != nil {
		t.Errorf("expected nil for unknown id, got %+v", wh)
	}
}

func TestFindCustomer(t *testing.T) {
	cat := sampleCatalog()

	if c := FindCustomer(cat, "acme"); c == nil {
		t.Error("lookup by id failed")
	}
	if c := FindCustomer(cat, "ACME BV"); c == nil {
		t.Error("lookup by name must be case-insensitive")
	}
	if c := FindCustomer(cat, "nobody"); c != nil {
		t.Errorf("expected nil for unknown customer, got %+v", c)
	}
}

func TestUpsertWarehouse_LengthDiscipline(t *testing.T) {
	cat := sampleCatalog()

	// Existing id never grows the list.
	updated, wasNew := UpsertWarehouse(cat, "nl_svz", domain.Warehouse{Name: "SVZ Updated"})
	if wasNew {
		t.Error("upsert on existing id reported as new")
	}
	if len(updated.Warehouses) != len(cat.Warehouses) {
		t.Errorf("warehouse count changed on update: %d -> %d", len(cat.Warehouses), len(updated.Warehouses))
	}
	if wh := FindWarehouse(updated, "nl_svz"); wh.Name != "SVZ Updated" {
		t.Errorf("update not applied: %+v", wh)
	}

	// New id grows the list by exactly one.
	updated, wasNew = UpsertWarehouse(cat, "fr_coquelle", domain.Warehouse{Name: "Coquelle"})
	if !wasNew {
		t.Error("upsert on new id not reported as new")
	}
	if len(updated.Warehouses) != len(cat.Warehouses)+1 {
		t.Errorf("warehouse count = %d, want %d", len(updated.Warehouses), len(cat.Warehouses)+1)
	}

	// The input catalog is never mutated.
	if len(cat.Warehouses) != 2 || cat.Warehouses[0].Name != "SVZ" {
		t.Errorf("input catalog mutated: %+v", cat.Warehouses)
	}
}

func TestUpsertCustomer_GeneratesDisambiguatedIDs(t *testing.T) {
	cat := sampleCatalog()

	updated, id := UpsertCustomer(cat, domain.Customer{Name: "Acme BV", Addresses: []string{"Other St 2"}})
	if id != "acme_bv" {
		t.Errorf("generated id = %q, want acme_bv", id)
	}

	updated, id = UpsertCustomer(updated, domain.Customer{Name: "Acme BV!", Addresses: []string{"Third St 3"}})
	if id != "acme_bv_2" {
		t.Errorf("generated id = %q, want acme_bv_2", id)
	}
	if len(updated.Customers) != 3 {
		t.Errorf("customer count = %d, want 3", len(updated.Customers))
	}

	// Supplying an existing id replaces in place.
	updated, id = UpsertCustomer(updated, domain.Customer{ID: "acme", Name: "Acme Renamed", Addresses: []string{"Main St 10"}})
	if id != "acme" || len(updated.Customers) != 3 {
		t.Errorf("in-place update failed: id=%q count=%d", id, len(updated.Customers))
	}
}

func TestDeleteWarehouse(t *testing.T) {
	cat := sampleCatalog()

	updated, removed := DeleteWarehouse(cat, "DE_OFFERGELD")
	if !removed || len(updated.Warehouses) != 1 {
		t.Errorf("delete failed: removed=%v count=%d", removed, len(updated.Warehouses))
	}

	_, removed = DeleteWarehouse(cat, "missing")
	if removed {
		t.Error("delete of unknown id reported success")
	}
}

func TestDeleteCustomer_ByIDOrName(t *testing.T) {
	cat := sampleCatalog()

	if updated, removed := DeleteCustomer(cat, "acme"); !removed || len(updated.Customers) != 0 {
		t.Error("delete by id failed")
	}
	if updated, removed := DeleteCustomer(cat, "Acme BV"); !removed || len(updated.Customers) != 0 {
		t.Error("delete by name failed")
	}
}
