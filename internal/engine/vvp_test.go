package engine

import (
	"math"
	"testing"

	"github.com/logistiq/vvp-backend/internal/domain"
	"github.com/logistiq/vvp-backend/internal/ratetable"
)

const tolerance = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func svzLikeWarehouse() domain.Warehouse {
	return domain.Warehouse{
		ID:   "nl_svz",
		Name: "SVZ",
		Rates: domain.Rates{
			Inbound:  2.75,
			Outbound: 2.75,
			Storage:  1.36,
			OrderFee: 0.0,
		},
	}
}

func TestCalculate_ScenarioA(t *testing.T) {
	calc := NewCalculator(svzLikeWarehouse(), nil)

	res := calc.Calculate(Input{
		Pieces:  1000,
		Pallets: 10,
		Weeks:   2,
	})

	if !approxEqual(res.WarehousingSubtotal, 82.2) {
		t.Errorf("warehousing subtotal = %v, want 82.2", res.WarehousingSubtotal)
	}
	if !approxEqual(res.TotalCost, 82.2) {
		t.Errorf("total cost = %v, want 82.2", res.TotalCost)
	}
	if !approxEqual(res.CostPerPiece, 0.0822) {
		t.Errorf("cost per piece = %v, want 0.0822", res.CostPerPiece)
	}
	if res.CostPerPieceRounded != 0.09 {
		t.Errorf("rounded cost per piece = %v, want 0.09", res.CostPerPieceRounded)
	}
}

func TestCalculate_ScenarioB_PalletUnitCost(t *testing.T) {
	calc := NewCalculator(svzLikeWarehouse(), nil)

	res := calc.Calculate(Input{
		Pieces:         1000,
		Pallets:        10,
		Weeks:          2,
		PalletUnitCost: 5.0,
	})

	if !approxEqual(res.PalletCostTotal, 50.0) {
		t.Errorf("pallet cost total = %v, want 50.0", res.PalletCostTotal)
	}
	if !approxEqual(res.TotalCost, 132.2) {
		t.Errorf("total cost = %v, want 132.2", res.TotalCost)
	}
	if res.CostPerPieceRounded != 0.14 {
		t.Errorf("rounded cost per piece = %v, want 0.14", res.CostPerPieceRounded)
	}
}

func TestCalculate_ZeroPieces(t *testing.T) {
	calc := NewCalculator(svzLikeWarehouse(), nil)

	res := calc.Calculate(Input{Pieces: 0, Pallets: 10, Weeks: 1})

	if res.CostPerPiece != 0 {
		t.Errorf("cost per piece = %v, want 0 for zero pieces", res.CostPerPiece)
	}
	if res.CostPerPieceRounded != 0 {
		t.Errorf("rounded cost per piece = %v, want 0 for zero pieces", res.CostPerPieceRounded)
	}
	if res.TotalCost <= 0 {
		t.Errorf("total cost = %v, expected positive warehousing costs", res.TotalCost)
	}
}

func TestCalculate_OrderFeeGating(t *testing.T) {
	wh := svzLikeWarehouse()
	wh.Rates.OrderFee = 5.50

	testCases := []struct {
		name     string
		gated    bool
		pallets  int
		pieces   int
		expected float64
	}{
		{"ungated always applies", false, 0, 0, 5.50},
		{"gated with volume", true, 10, 100, 5.50},
		{"gated without pallets", true, 0, 100, 0.0},
		{"gated without pieces", true, 10, 0, 0.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wh.Features.GatedOrderFee = tc.gated
			calc := NewCalculator(wh, nil)

			res := calc.Calculate(Input{Pieces: tc.pieces, Pallets: tc.pallets})
			if !approxEqual(res.OrderFee, tc.expected) {
				t.Errorf("order fee = %v, want %v", res.OrderFee, tc.expected)
			}
		})
	}
}

func TestCalculate_Labeling(t *testing.T) {
	wh := svzLikeWarehouse()
	wh.Features.Labeling = domain.LabelingFeature{
		Enabled:           true,
		LabelPerPiece:     0.015,
		LabellingPerPiece: 0.045,
	}
	calc := NewCalculator(wh, nil)

	res := calc.Calculate(Input{Pieces: 1000, Pallets: 10, ApplyLabeling: true})
	if !approxEqual(res.LabelingTotal, 60.0) {
		t.Errorf("labeling total = %v, want 60.0", res.LabelingTotal)
	}

	// Order-level opt-out wins over the warehouse feature.
	res = calc.Calculate(Input{Pieces: 1000, Pallets: 10, ApplyLabeling: false})
	if res.LabelingTotal != 0 {
		t.Errorf("labeling total = %v, want 0 when order opts out", res.LabelingTotal)
	}

	// A warehouse without the feature never charges it.
	wh.Features.Labeling.Enabled = false
	calc = NewCalculator(wh, nil)
	res = calc.Calculate(Input{Pieces: 1000, Pallets: 10, ApplyLabeling: true})
	if res.LabelingTotal != 0 {
		t.Errorf("labeling total = %v, want 0 when feature disabled", res.LabelingTotal)
	}
}

func labelingTransferWarehouse(mode string) domain.Warehouse {
	wh := svzLikeWarehouse()
	wh.Features.Labeling = domain.LabelingFeature{Enabled: true, LabelPerPiece: 0.01, LabellingPerPiece: 0.02}
	wh.Features.Transfer = domain.TransferFeature{Mode: mode, ManualCost: 250.0}
	return wh
}

func TestCalculate_ManualTransfer(t *testing.T) {
	calc := NewCalculator(labelingTransferWarehouse(domain.TransferManual), nil)

	res := calc.Calculate(Input{Pieces: 100, Pallets: 4, ApplyLabeling: true})
	if !approxEqual(res.TransferTotal, 250.0) {
		t.Errorf("transfer total = %v, want manual flat 250.0", res.TransferTotal)
	}
	if res.ExtraWarehousing != 0 {
		t.Errorf("extra warehousing = %v, want 0 for manual mode", res.ExtraWarehousing)
	}

	// Transfer only applies to labelled orders.
	res = calc.Calculate(Input{Pieces: 100, Pallets: 4, ApplyLabeling: false})
	if res.TransferTotal != 0 {
		t.Errorf("transfer total = %v, want 0 without labelling", res.TransferTotal)
	}
}

func TestCalculate_ExcelTransferLegs(t *testing.T) {
	table := ratetable.Table{5: 100, 10: 150}
	wh := labelingTransferWarehouse(domain.TransferExcel)

	testCases := []struct {
		name         string
		legs         TransferLegs
		wantTransfer float64
		wantExtra    float64
	}{
		{"no legs", TransferLegs{}, 0, 0},
		{"one leg out", TransferLegs{WarehouseToLab: true}, 150, 0},
		{"one leg back", TransferLegs{LabToWarehouse: true}, 150, 0},
		{"round trip", TransferLegs{WarehouseToLab: true, LabToWarehouse: true}, 300, 10 * (2.75 + 2.75)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calc := NewCalculator(wh, table)
			res := calc.Calculate(Input{Pieces: 100, Pallets: 10, ApplyLabeling: true, Legs: tc.legs})

			if !approxEqual(res.TransferTotal, tc.wantTransfer) {
				t.Errorf("transfer total = %v, want %v", res.TransferTotal, tc.wantTransfer)
			}
			if !approxEqual(res.ExtraWarehousing, tc.wantExtra) {
				t.Errorf("extra warehousing = %v, want %v", res.ExtraWarehousing, tc.wantExtra)
			}
		})
	}
}

func TestCalculate_DoubleStackHalvesLookup(t *testing.T) {
	table := ratetable.Table{5: 100, 10: 150}
	wh := labelingTransferWarehouse(domain.TransferExcel)
	wh.Features.DoubleStack = true

	testCases := []struct {
		name       string
		pallets    int
		wantLookup int
		wantPerLeg float64
	}{
		{"even pallets", 10, 5, 100},
		{"odd pallets round up", 9, 5, 100},
		{"single pallet", 1, 1, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calc := NewCalculator(wh, table)
			res := calc.Calculate(Input{
				Pieces:        100,
				Pallets:       tc.pallets,
				ApplyLabeling: true,
				Legs:          TransferLegs{WarehouseToLab: true},
			})

			if res.PalletsForLookup != tc.wantLookup {
				t.Errorf("pallets for lookup = %d, want %d", res.PalletsForLookup, tc.wantLookup)
			}
			if !approxEqual(res.TransferTotal, tc.wantPerLeg) {
				t.Errorf("transfer total = %v, want %v", res.TransferTotal, tc.wantPerLeg)
			}
		})
	}
}

func TestRoundUpCents_AlwaysRoundsUp(t *testing.T) {
	testCases := []struct {
		name      string
		totalCost float64
		pieces    int
	}{
		{"scenario A ratio", 82.2, 1000},
		{"scenario B ratio", 132.2, 1000},
		{"exact cents", 100.0, 1000},
		{"tiny fraction", 0.001, 1},
		{"awkward ratio", 999.37, 777},
		{"large order", 123456.78, 98765},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cpp := tc.totalCost / float64(tc.pieces)
			rounded := RoundUpCents(cpp)

			if rounded+tolerance < cpp {
				t.Errorf("rounded %v undercuts exact cost per piece %v", rounded, cpp)
			}

			cents := rounded * 100
			if math.Abs(cents-math.Round(cents)) > 1e-6 {
				t.Errorf("rounded value %v is not a whole number of cents", rounded)
			}
		})
	}
}

func TestBreakdown_OrderStable(t *testing.T) {
	calc := NewCalculator(svzLikeWarehouse(), nil)
	res := calc.Calculate(Input{Pieces: 1000, Pallets: 10, Weeks: 2})

	lines := res.Breakdown()
	if len(lines) == 0 {
		t.Fatal("expected breakdown lines")
	}
	if lines[0].Label != "Inbound Cost (€)" {
		t.Errorf("first line = %q, want inbound cost", lines[0].Label)
	}
	last := lines[len(lines)-1]
	if last.Label != "Rounded cost per piece (€)" || last.Value != res.CostPerPieceRounded {
		t.Errorf("last line = %+v, want rounded cost per piece", last)
	}
}
