package engine

// PnLInput carries the commercial inputs for a profit-and-loss run. The
// VVP cost per piece is the rounded figure from the first-leg calculation.
type PnLInput struct {
	Pieces                 int     `json:"pieces"`
	VVPCostPerPiece        float64 `json:"vvp_cost_per_piece"`
	PurchasePricePerPiece  float64 `json:"purchase_price_per_piece"`
	SalesPricePerPiece     float64 `json:"sales_price_per_piece"`
	DeliveryTransportTotal float64 `json:"delivery_transport_total"`
}

// PnLResult holds the derived profit metrics.
type PnLResult struct {
	UnitDelivery   float64 `json:"unit_delivery"`
	UnitGrossCost  float64 `json:"unit_gross_cost"`
	TotalGrossCost float64 `json:"total_gross_cost"`
	TotalRevenue   float64 `json:"total_revenue"`
	GrossProfit    float64 `json:"gross_profit"`
	GrossMarginPct float64 `json:"gross_margin_pct"`
	NetProfit      float64 `json:"net_profit"`
	NetMarginPct   float64 `json:"net_margin_pct"`
	TotalCost      float64 `json:"total_cost"`
}

// ProfitLoss converts the rounded VVP unit cost plus commercial inputs
// into profit metrics. Delivery is excluded from the gross view and only
// enters the net figures, so net_profit = gross_profit - delivery_total
// always holds.
func ProfitLoss(in PnLInput) PnLResult {
	res := PnLResult{}

	if in.Pieces > 0 {
		res.UnitDelivery = in.DeliveryTransportTotal / float64(in.Pieces)
	}

	res.UnitGrossCost = in.VVPCostPerPiece + in.PurchasePricePerPiece
	res.TotalGrossCost = res.UnitGrossCost * float64(in.Pieces)
	res.TotalRevenue = in.SalesPricePerPiece * float64(in.Pieces)
	res.GrossProfit = res.TotalRevenue - res.TotalGrossCost
	res.NetProfit = res.TotalRevenue - res.TotalGrossCost - in.DeliveryTransportTotal

	if res.TotalRevenue > 0 {
		res.GrossMarginPct = res.GrossProfit / res.TotalRevenue * 100.0
		res.NetMarginPct = res.NetProfit / res.TotalRevenue * 100.0
	}

	res.TotalCost = res.TotalGrossCost + in.DeliveryTransportTotal

	return res
}
