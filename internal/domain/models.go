// internal/domain/models.go
package domain

// Catalog is the root document holding all warehouses and customers.
// It is owned by the catalog store and mutated only via load-modify-save
// cycles; calculators receive it read-only.
type Catalog struct {
	Warehouses []Warehouse `json:"warehouses"`
	Customers  []Customer  `json:"customers"`
}

// Warehouse represents one warehouse rate card plus its feature configuration.
type Warehouse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Country  string   `json:"country,omitempty"`
	Rates    Rates    `json:"rates"`
	Features Features `json:"features"`
}

// Rates holds the per-pallet and flat handling rates in EUR.
type Rates struct {
	Inbound  float64 `json:"inbound"`   // per pallet
	Outbound float64 `json:"outbound"`  // per pallet
	Storage  float64 `json:"storage"`   // per pallet per week
	OrderFee float64 `json:"order_fee"` // flat per order
}

// Features is the per-warehouse feature configuration bag.
type Features struct {
	Labeling    LabelingFeature  `json:"labeling"`
	Transfer    TransferFeature  `json:"transfer"`
	DoubleStack bool             `json:"double_stack"`
	SecondLeg   SecondLegFeature `json:"second_leg"`
	// GatedOrderFee charges the flat order fee only when both pallets and
	// pieces are positive. Defaults to false: the fee always applies.
	GatedOrderFee bool `json:"gated_order_fee"`
}

// LabelingFeature configures the per-piece labelling add-ons.
// Label is the material cost, Labelling the service cost; both are
// independent and may be zero.
type LabelingFeature struct {
	Enabled           bool    `json:"enabled"`
	Mode              string  `json:"mode,omitempty"` // "standard" or "advanced"
	LabelPerPiece     float64 `json:"label_per_piece"`
	LabellingPerPiece float64 `json:"labelling_per_piece"`
}

// TransferFeature configures how a labelling transfer leg is priced.
type TransferFeature struct {
	Mode       string  `json:"mode"` // "none", "manual" or "excel"
	ManualCost float64 `json:"manual_cost,omitempty"`
	LookupPath string  `json:"lookup_path,omitempty"`
}

// SecondLegFeature flags second-leg availability for a warehouse. A positive
// FixedPerOrder turns the warehouse into a fixed-fee second-leg target
// instead of pricing by its rate card.
type SecondLegFeature struct {
	Enabled       bool    `json:"enabled"`
	FixedPerOrder float64 `json:"fixed_per_order,omitempty"`
}

// Customer is a customer record with free-text address lines.
type Customer struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Addresses []string `json:"addresses"`
	// Warehouses lists linked warehouse ids; informational only, referential
	// integrity is not enforced.
	Warehouses []string `json:"warehouses,omitempty"`
}

// Title returns the display title for a warehouse ("Country / Name").
func (w Warehouse) Title() string {
	name := w.Name
	if name == "" {
		name = w.ID
	}
	if name == "" {
		name = "Warehouse"
	}
	if w.Country != "" {
		return w.Country + " / " + name
	}
	return name
}

// CostLine is one labelled line item of a cost breakdown. Breakdowns are
// built fresh on every calculation and never mutated afterwards.
type CostLine struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
