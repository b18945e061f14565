// Package catalog owns the catalog document: loading and saving it across
// local and remote backends, normalizing historical storage shapes into
// one canonical form, and the record-level find/upsert operations every
// other component goes through.
package catalog

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/logistiq/vvp-backend/internal/domain"
)

// Historical catalogs stored warehouses and customers either as lists of
// records or as objects keyed by id, with several renamed fields along the
// way. Normalization runs once at the load boundary and produces the
// canonical list-of-records shape; nothing downstream branches on storage
// shape again.

type rawLabeling struct {
	Enabled           bool    `json:"enabled"`
	Mode              string  `json:"mode"`
	LabelPerPiece     float64 `json:"label_per_piece"`
	LabellingPerPiece float64 `json:"labelling_per_piece"`
}

// legacy "label_costs": {"label": x, "labelling": y}
type rawLabelCosts struct {
	Label     float64 `json:"label"`
	Labelling float64 `json:"labelling"`
}

type rawTransfer struct {
	Mode       string  `json:"mode"`
	ManualCost float64 `json:"manual_cost"`
	// legacy name for the manual flat amount
	FixedAmount float64 `json:"fixed_amount"`
	LookupPath  string  `json:"lookup_path"`
}

type rawFeatures struct {
	Labeling      *rawLabeling            `json:"labeling"`
	LabelCosts    *rawLabelCosts          `json:"label_costs"`
	Transfer      *rawTransfer            `json:"transfer"`
	DoubleStack   bool                    `json:"double_stack"`
	SecondLeg     domain.SecondLegFeature `json:"second_leg"`
	GatedOrderFee bool                    `json:"gated_order_fee"`
}

type rawWarehouse struct {
	ID          string `json:"id"`
	WarehouseID string `json:"warehouse_id"` // legacy
	Name        string `json:"name"`
	Country     string `json:"country"`

	Rates      *domain.Rates `json:"rates"`
	SavedRates *domain.Rates `json:"saved_rates"` // legacy

	Features      *rawFeatures `json:"features"`
	SavedFeatures *rawFeatures `json:"saved_features"` // legacy
}

type rawCustomer struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Addresses  []string `json:"addresses"`
	Warehouses []string `json:"warehouses"`
}

// Normalize parses a raw catalog document into the canonical shape.
// Missing optional fields are filled with type-appropriate zero values and
// never fail the load; a structurally invalid root (valid JSON that is not
// an object) yields an empty catalog. Only unparseable bytes return an
// error, which the store treats as file corruption.
func Normalize(data []byte) (domain.Catalog, error) {
	catalog := domain.Catalog{
		Warehouses: []domain.Warehouse{},
		Customers:  []domain.Customer{},
	}

	if len(data) == 0 {
		return catalog, nil
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		// Distinguish "not an object" (tolerated) from broken JSON.
		var probe any
		if jsonErr := json.Unmarshal(data, &probe); jsonErr != nil {
			return catalog, fmt.Errorf("parse catalog: %w", jsonErr)
		}
		return catalog, nil
	}

	catalog.Warehouses = normalizeWarehouses(root["warehouses"])
	catalog.Customers = normalizeCustomers(root["customers"])

	return catalog, nil
}

func normalizeWarehouses(data json.RawMessage) []domain.Warehouse {
	warehouses := []domain.Warehouse{}
	if len(data) == 0 {
		return warehouses
	}

	var list []rawWarehouse
	if err := json.Unmarshal(data, &list); err == nil {
		for _, raw := range list {
			warehouses = append(warehouses, normalizeWarehouse(raw, ""))
		}
		return warehouses
	}

	// legacy dict keyed by warehouse id
	var dict map[string]rawWarehouse
	if err := json.Unmarshal(data, &dict); err == nil {
		for _, id := range sortedKeys(dict) {
			warehouses = append(warehouses, normalizeWarehouse(dict[id], id))
		}
	}

	return warehouses
}

func normalizeWarehouse(raw rawWarehouse, keyID string) domain.Warehouse {
	wh := domain.Warehouse{
		ID:      raw.ID,
		Name:    raw.Name,
		Country: raw.Country,
	}
	if wh.ID == "" {
		wh.ID = raw.WarehouseID
	}
	if wh.ID == "" {
		wh.ID = keyID
	}

	switch {
	case raw.Rates != nil:
		wh.Rates = *raw.Rates
	case raw.SavedRates != nil:
		wh.Rates = *raw.SavedRates
	}

	features := raw.Features
	if features == nil {
		features = raw.SavedFeatures
	}
	if features != nil {
		wh.Features = normalizeFeatures(*features)
	} else {
		wh.Features = defaultFeatures()
	}

	return wh
}

// defaultFeatures is the all-disabled configuration new warehouses get.
func defaultFeatures() domain.Features {
	return domain.Features{
		Labeling: domain.LabelingFeature{Mode: domain.LabelingStandard},
		Transfer: domain.TransferFeature{Mode: domain.TransferNone},
	}
}

func normalizeFeatures(raw rawFeatures) domain.Features {
	features := defaultFeatures()
	features.DoubleStack = raw.DoubleStack
	features.SecondLeg = raw.SecondLeg
	features.GatedOrderFee = raw.GatedOrderFee

	switch {
	case raw.Labeling != nil:
		mode, _ := domain.ParseLabelingMode(raw.Labeling.Mode)
		features.Labeling = domain.LabelingFeature{
			Enabled:           raw.Labeling.Enabled,
			Mode:              mode,
			LabelPerPiece:     raw.Labeling.LabelPerPiece,
			LabellingPerPiece: raw.Labeling.LabellingPerPiece,
		}
	case raw.LabelCosts != nil:
		// presence of legacy label_costs implied an enabled feature
		features.Labeling = domain.LabelingFeature{
			Enabled:           true,
			Mode:              domain.LabelingStandard,
			LabelPerPiece:     raw.LabelCosts.Label,
			LabellingPerPiece: raw.LabelCosts.Labelling,
		}
	}

	if raw.Transfer != nil {
		mode, _ := domain.ParseTransferMode(raw.Transfer.Mode)
		manual := raw.Transfer.ManualCost
		if manual == 0 {
			manual = raw.Transfer.FixedAmount
		}
		features.Transfer = domain.TransferFeature{
			Mode:       mode,
			ManualCost: manual,
			LookupPath: raw.Transfer.LookupPath,
		}
	}

	return features
}

func normalizeCustomers(data json.RawMessage) []domain.Customer {
	customers := []domain.Customer{}
	if len(data) == 0 {
		return customers
	}

	var list []rawCustomer
	if err := json.Unmarshal(data, &list); err == nil {
		existing := map[string]struct{}{}
		for _, raw := range list {
			customers = append(customers, normalizeCustomer(raw, "", existing))
		}
		return customers
	}

	// legacy dict keyed by generated customer id
	var dict map[string]rawCustomer
	if err := json.Unmarshal(data, &dict); err == nil {
		existing := map[string]struct{}{}
		for _, id := range sortedKeys(dict) {
			customers = append(customers, normalizeCustomer(dict[id], id, existing))
		}
	}

	return customers
}

func normalizeCustomer(raw rawCustomer, keyID string, existing map[string]struct{}) domain.Customer {
	customer := domain.Customer{
		ID:         raw.ID,
		Name:       raw.Name,
		Addresses:  raw.Addresses,
		Warehouses: raw.Warehouses,
	}
	if customer.ID == "" {
		customer.ID = keyID
	}
	if customer.ID == "" {
		customer.ID = domain.UniqueID(customer.Name, existing)
	}
	if customer.Addresses == nil {
		customer.Addresses = []string{}
	}
	existing[customer.ID] = struct{}{}

	return customer
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
