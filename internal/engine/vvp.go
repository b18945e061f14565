// Package engine holds the pure cost calculators: first-leg VVP,
// second-leg transfer and the P&L figures derived from them. Nothing in
// this package performs I/O or touches the catalog.
package engine

import (
	"math"

	"github.com/logistiq/vvp-backend/internal/domain"
	"github.com/logistiq/vvp-backend/internal/ratetable"
)

// TransferLegs selects the directional labelling-transfer legs for an order.
type TransferLegs struct {
	WarehouseToLab bool `json:"warehouse_to_lab"`
	LabToWarehouse bool `json:"lab_to_warehouse"`
}

// Input carries the per-order quantities for a first-leg calculation.
type Input struct {
	Pieces              int     `json:"pieces"`
	Pallets             int     `json:"pallets"`
	Weeks               int     `json:"weeks"`
	BuyingTransportCost float64 `json:"buying_transport_cost"`
	PalletUnitCost      float64 `json:"pallet_unit_cost"`
	// ApplyLabeling opts this specific order into labelling; it only takes
	// effect when the warehouse has the feature enabled.
	ApplyLabeling bool         `json:"apply_labeling"`
	Legs          TransferLegs `json:"legs"`
	// SecondLegCost is the caller-computed second-leg add-on; 0 when the
	// second leg is disabled or not included.
	SecondLegCost float64 `json:"second_leg_cost"`
}

// Result is the itemized first-leg cost breakdown. Every intermediate is
// kept so the caller can render or export the full picture.
type Result struct {
	InboundCost         float64 `json:"inbound_cost"`
	OutboundCost        float64 `json:"outbound_cost"`
	StorageCost         float64 `json:"storage_cost"`
	OrderFee            float64 `json:"order_fee"`
	WarehousingSubtotal float64 `json:"warehousing_subtotal"`
	ExtraWarehousing    float64 `json:"extra_warehousing"`
	LabelingTotal       float64 `json:"labeling_total"`
	TransferTotal       float64 `json:"transfer_total"`
	TruckCost           float64 `json:"truck_cost"`
	PalletsForLookup    int     `json:"pallets_for_lookup"`
	PalletCostTotal     float64 `json:"pallet_cost_total"`
	BuyingTransportCost float64 `json:"buying_transport_cost"`
	SecondLegCost       float64 `json:"second_leg_cost"`
	BaseTotal           float64 `json:"base_total"`
	TotalCost           float64 `json:"total_cost"`
	CostPerPiece        float64 `json:"cost_per_piece"`
	CostPerPieceRounded float64 `json:"cost_per_piece_rounded"`
}

// Calculator computes first-leg VVP costs for one warehouse.
type Calculator struct {
	warehouse domain.Warehouse
	table     ratetable.Table
}

// NewCalculator builds a calculator for a warehouse and its transfer rate
// table. The table may be empty when the warehouse has no excel transfer.
func NewCalculator(warehouse domain.Warehouse, table ratetable.Table) *Calculator {
	return &Calculator{
		warehouse: warehouse,
		table:     table,
	}
}

// Calculate produces the full first-leg cost breakdown for one order.
func (c *Calculator) Calculate(in Input) Result {
	rates := c.warehouse.Rates
	features := c.warehouse.Features

	res := Result{
		BuyingTransportCost: in.BuyingTransportCost,
		SecondLegCost:       in.SecondLegCost,
	}

	// 1. Base warehousing
	res.InboundCost = float64(in.Pallets) * rates.Inbound
	res.OutboundCost = float64(in.Pallets) * rates.Outbound
	res.StorageCost = float64(in.Pallets) * float64(in.Weeks) * rates.Storage
	res.OrderFee = rates.OrderFee
	if features.GatedOrderFee && !(in.Pallets > 0 && in.Pieces > 0) {
		res.OrderFee = 0.0
	}
	res.WarehousingSubtotal = res.InboundCost + res.OutboundCost + res.StorageCost + res.OrderFee

	// 2. Labelling add-ons
	labelingApplied := features.Labeling.Enabled && in.ApplyLabeling
	if labelingApplied {
		perPiece := features.Labeling.LabelPerPiece + features.Labeling.LabellingPerPiece
		res.LabelingTotal = float64(in.Pieces) * perPiece
	}

	// 3. Labelling transfer (only meaningful for labelled goods)
	if labelingApplied {
		res.TransferTotal, res.ExtraWarehousing, res.TruckCost, res.PalletsForLookup = c.transferCosts(in)
	}

	// 4. Optional pallet cost
	if in.PalletUnitCost > 0 {
		res.PalletCostTotal = in.PalletUnitCost * float64(in.Pallets)
	}

	// 5-6. Totals
	res.BaseTotal = res.WarehousingSubtotal + res.ExtraWarehousing + res.LabelingTotal +
		res.TransferTotal + in.BuyingTransportCost + res.PalletCostTotal
	res.TotalCost = res.BaseTotal + in.SecondLegCost

	// 7-8. Cost per piece, always rounded up to the next cent
	if in.Pieces > 0 {
		res.CostPerPiece = res.TotalCost / float64(in.Pieces)
	}
	res.CostPerPieceRounded = RoundUpCents(res.CostPerPiece)

	return res
}

func (c *Calculator) transferCosts(in Input) (transferTotal, extraWarehousing, truckCost float64, palletsForLookup int) {
	features := c.warehouse.Features

	switch features.Transfer.Mode {
	case domain.TransferManual:
		// Flat, independent of pallets and of which legs were selected.
		return features.Transfer.ManualCost, 0.0, 0.0, 0

	case domain.TransferExcel:
		if !in.Legs.WarehouseToLab && !in.Legs.LabToWarehouse {
			return 0.0, 0.0, 0.0, 0
		}

		palletsForLookup = in.Pallets
		if features.DoubleStack && in.Pallets > 0 {
			palletsForLookup = int(math.Ceil(float64(in.Pallets) / 2.0))
		}
		truckCost = ratetable.Lookup(c.table, palletsForLookup, ratetable.MaxTruckPallets)

		if in.Legs.WarehouseToLab {
			transferTotal += truckCost
		}
		if in.Legs.LabToWarehouse {
			transferTotal += truckCost
		}
		// A round trip passes through the warehouse a second time: charge
		// in/out handling again but not storage.
		if in.Legs.WarehouseToLab && in.Legs.LabToWarehouse {
			extraWarehousing = float64(in.Pallets) * (c.warehouse.Rates.Inbound + c.warehouse.Rates.Outbound)
		}
		return transferTotal, extraWarehousing, truckCost, palletsForLookup
	}

	return 0.0, 0.0, 0.0, 0
}

// Breakdown returns the ordered line items for display and export.
func (r Result) Breakdown() []domain.CostLine {
	return []domain.CostLine{
		{Label: "Inbound Cost (€)", Value: r.InboundCost},
		{Label: "Outbound Cost (€)", Value: r.OutboundCost},
		{Label: "Storage Cost (€)", Value: r.StorageCost},
		{Label: "Order Fee (€)", Value: r.OrderFee},
		{Label: "Warehousing Subtotal (€)", Value: r.WarehousingSubtotal},
		{Label: "Extra Warehousing (€)", Value: r.ExtraWarehousing},
		{Label: "Labelling Total (€)", Value: r.LabelingTotal},
		{Label: "Transfer Total (€)", Value: r.TransferTotal},
		{Label: "Pallet Cost Total (€)", Value: r.PalletCostTotal},
		{Label: "Buying Transport (€)", Value: r.BuyingTransportCost},
		{Label: "Second Leg (€)", Value: r.SecondLegCost},
		{Label: "TOTAL (€)", Value: r.TotalCost},
		{Label: "Cost per piece (€)", Value: r.CostPerPiece},
		{Label: "Rounded cost per piece (€)", Value: r.CostPerPieceRounded},
	}
}

// RoundUpCents rounds a per-piece cost up to the next cent. This is a
// margin-protection policy: the rounded figure may never undercut the
// exact cost.
func RoundUpCents(x float64) float64 {
	return math.Ceil(x*100) / 100
}
