package convert

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/logistiq/vvp-backend/internal/ratetable"
)

// TruckRates converts a truck-rate sheet into rate-table entries. The first
// row must name a "pallets" and a "truck_cost" column (case-insensitive);
// refusing to guess columns beats silently converting the wrong ones.
// Rows outside 1..66 pallets or with negative costs are dropped, and a
// pallet count listed twice keeps its last value.
func TruckRates(rows [][]string) ([]ratetable.Entry, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}

	palletsCol, costCol := -1, -1
	for i, header := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(header)) {
		case "pallets":
			palletsCol = i
		case "truck_cost":
			costCol = i
		}
	}
	if palletsCol < 0 || costCol < 0 {
		return nil, fmt.Errorf("sheet needs 'pallets' and 'truck_cost' header columns, got %v", rows[0])
	}

	latest := map[int]float64{}
	for _, row := range rows[1:] {
		if len(row) <= palletsCol || len(row) <= costCol {
			continue
		}
		pallets, err := strconv.Atoi(strings.TrimSpace(row[palletsCol]))
		if err != nil {
			continue
		}
		cost, ok := parseAmount(row[costCol])
		if !ok {
			continue
		}
		if pallets < 1 || pallets > ratetable.MaxTruckPallets || cost < 0 {
			continue
		}
		latest[pallets] = cost
	}

	entries := make([]ratetable.Entry, 0, len(latest))
	for pallets, cost := range latest {
		entries = append(entries, ratetable.Entry{Pallets: pallets, TruckCost: cost})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Pallets < entries[j].Pallets })
	return entries, nil
}

// TruckRatesJSON re-normalizes an already-JSON rate table, accepting the
// legacy object shape and emitting the sorted entry list.
func TruckRatesJSON(data []byte) ([]ratetable.Entry, error) {
	table := ratetable.Parse(data)
	if len(table) == 0 {
		return nil, fmt.Errorf("no usable rate entries in JSON input")
	}

	entries := make([]ratetable.Entry, 0, len(table))
	for _, pallets := range table.Keys() {
		entries = append(entries, ratetable.Entry{Pallets: pallets, TruckCost: table[pallets]})
	}
	return entries, nil
}

// parseAmount reads a money cell. Plain floats pass through; otherwise the
// value is treated as a European-formatted amount like "€ 1.234,56".
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}

	cleaned := strings.NewReplacer("€", "", "EUR", "", " ", "", " ", "").Replace(s)
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
