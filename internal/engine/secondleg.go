package engine

import "github.com/logistiq/vvp-backend/internal/domain"

// SecondLegInput carries the quantities for pricing an onward transfer to
// a second warehouse.
type SecondLegInput struct {
	Pallets int `json:"pallets"`
	// WeeksAtTarget is the storage duration at the second warehouse.
	WeeksAtTarget int `json:"weeks_at_target"`
	// InterWarehouseTransport is the caller-supplied flat transport total.
	InterWarehouseTransport float64 `json:"inter_warehouse_transport"`
}

// SecondLegResult itemizes the second-leg add-on.
type SecondLegResult struct {
	Warehouse        string  `json:"warehouse"`
	FixedPerOrder    float64 `json:"fixed_per_order"`
	InboundCost      float64 `json:"inbound_cost"`
	OutboundCost     float64 `json:"outbound_cost"`
	StorageCost      float64 `json:"storage_cost"`
	OrderFee         float64 `json:"order_fee"`
	WarehousingTotal float64 `json:"warehousing_total"`
	Transport        float64 `json:"transport"`
	Total            float64 `json:"total"`
}

// SecondLeg prices a transfer of the same shipment onward to a second
// warehouse. A target declaring a fixed per-order rule is charged that
// flat amount; otherwise its own first-leg-style rate card applies
// (labelling costs are never part of a second leg). The caller decides
// whether the returned total is added into the first-leg total.
func SecondLeg(target domain.Warehouse, in SecondLegInput) SecondLegResult {
	res := SecondLegResult{
		Warehouse: target.Title(),
		Transport: in.InterWarehouseTransport,
	}

	if fixed := target.Features.SecondLeg.FixedPerOrder; fixed > 0 {
		res.FixedPerOrder = fixed
		res.Total = fixed + in.InterWarehouseTransport
		return res
	}

	res.InboundCost = float64(in.Pallets) * target.Rates.Inbound
	res.OutboundCost = float64(in.Pallets) * target.Rates.Outbound
	res.StorageCost = float64(in.Pallets) * float64(in.WeeksAtTarget) * target.Rates.Storage
	res.OrderFee = target.Rates.OrderFee
	res.WarehousingTotal = res.InboundCost + res.OutboundCost + res.StorageCost + res.OrderFee
	res.Total = res.WarehousingTotal + in.InterWarehouseTransport

	return res
}

// Breakdown returns the ordered line items for display and export.
func (r SecondLegResult) Breakdown() []domain.CostLine {
	lines := []domain.CostLine{}
	if r.FixedPerOrder > 0 {
		lines = append(lines, domain.CostLine{Label: "2nd Leg Fixed Fee (€)", Value: r.FixedPerOrder})
	} else {
		lines = append(lines,
			domain.CostLine{Label: "2nd WH Inbound (€)", Value: r.InboundCost},
			domain.CostLine{Label: "2nd WH Outbound (€)", Value: r.OutboundCost},
			domain.CostLine{Label: "2nd WH Storage (€)", Value: r.StorageCost},
			domain.CostLine{Label: "2nd WH Order Fee (€)", Value: r.OrderFee},
		)
	}
	lines = append(lines,
		domain.CostLine{Label: "Inter-Warehouse Transport (€)", Value: r.Transport},
		domain.CostLine{Label: "2nd Leg Total Add-On (€)", Value: r.Total},
	)
	return lines
}
