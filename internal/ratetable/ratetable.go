// Package ratetable resolves truck and transfer costs for a pallet count
// from sparse rate tables built offline from carrier spreadsheets.
package ratetable

import (
	"encoding/json"
	"os"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	// MaxTruckPallets caps general truck table lookups.
	MaxTruckPallets = 66
	// MaxFranceTruckPallets caps France lookups at the full-truck convention.
	MaxFranceTruckPallets = 33
)

// Table maps a pallet count to a truck cost in EUR.
type Table map[int]float64

// Entry is one row of the canonical rate table JSON.
type Entry struct {
	Pallets   int     `json:"pallets"`
	TruckCost float64 `json:"truck_cost"`
}

// Parse reads a rate table from JSON. Both the canonical array of
// {pallets, truck_cost} rows and the legacy {"<pallets>": cost} object are
// accepted. Malformed rows are skipped; a single bad entry must not fail
// the whole load.
func Parse(data []byte) Table {
	table := Table{}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err == nil {
		for _, e := range entries {
			if e.Pallets >= 1 {
				table[e.Pallets] = e.TruckCost
			}
		}
		return table
	}

	var legacy map[string]float64
	if err := json.Unmarshal(data, &legacy); err == nil {
		for key, cost := range legacy {
			pallets, err := strconv.Atoi(key)
			if err != nil || pallets < 1 {
				continue
			}
			table[pallets] = cost
		}
	}

	return table
}

// Load reads a rate table from a JSON file. Missing or unreadable files
// yield an empty table; the calculators treat that as "no transfer rates".
func Load(path string) Table {
	if path == "" {
		return Table{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("rate table not loaded")
		return Table{}
	}

	return Parse(data)
}

// Lookup resolves the truck cost for a pallet count. The count is clamped
// into [1, maxPallets]; an exact key wins, otherwise the nearest key below
// the clamped count is used. Rounding up to a bigger truck is never done:
// under-provisioning cost is preferred to over-charging for a fractional
// truck. Returns 0 for an empty table or when no key <= the count exists.
func Lookup(table Table, pallets, maxPallets int) float64 {
	if len(table) == 0 {
		return 0.0
	}

	n := pallets
	if n < 1 {
		n = 1
	}
	if n > maxPallets {
		n = maxPallets
	}

	if cost, ok := table[n]; ok {
		return cost
	}

	best := -1
	for key := range table {
		if key <= n && key > best {
			best = key
		}
	}
	if best < 0 {
		return 0.0
	}
	return table[best]
}

// Keys returns the pallet counts present in the table, ascending.
func (t Table) Keys() []int {
	keys := make([]int, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
