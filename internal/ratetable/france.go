package ratetable

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// FranceEntry is one row of the France department delivery table.
type FranceEntry struct {
	Dept    string  `json:"dept"`
	Pallets int     `json:"pallets"`
	Total   float64 `json:"total"`
}

// FranceTable prices deliveries by (department, pallets) composite key.
type FranceTable []FranceEntry

// ParseFrance reads the France delivery table from its JSON array form.
// Rows with an invalid department (outside 01-95), non-positive pallet
// count or negative total are skipped.
func ParseFrance(data []byte) FranceTable {
	var raw []struct {
		Dept    string          `json:"dept"`
		Pallets json.RawMessage `json:"pallets"`
		Total   float64         `json:"total"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	table := make(FranceTable, 0, len(raw))
	for _, row := range raw {
		dept := normalizeDept(row.Dept)
		if dept == "" {
			continue
		}

		pallets, ok := parsePalletCount(row.Pallets)
		if !ok || pallets < 1 || row.Total < 0 {
			continue
		}

		table = append(table, FranceEntry{Dept: dept, Pallets: pallets, Total: row.Total})
	}

	return table
}

// LoadFrance reads the France table from a JSON file, returning an empty
// table when the file is missing or unreadable.
func LoadFrance(path string) FranceTable {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("france rate table not loaded")
		return nil
	}

	return ParseFrance(data)
}

// Lookup resolves the delivery cost for a department and pallet count.
// The count is clamped into [1, 33] (full-truck convention); within the
// department an exact pallet match wins, then the nearest lower count,
// then the smallest available count. An absent department yields 0.
func (t FranceTable) Lookup(dept string, pallets int) float64 {
	dept = normalizeDept(dept)
	if dept == "" || len(t) == 0 {
		return 0.0
	}

	n := pallets
	if n < 1 {
		n = 1
	}
	if n > MaxFranceTruckPallets {
		n = MaxFranceTruckPallets
	}

	var (
		exact      *FranceEntry
		lower      *FranceEntry
		smallest   *FranceEntry
		deptExists bool
	)
	for i := range t {
		row := &t[i]
		if row.Dept != dept {
			continue
		}
		deptExists = true

		if row.Pallets == n {
			exact = row
			break
		}
		if row.Pallets <= n && (lower == nil || row.Pallets > lower.Pallets) {
			lower = row
		}
		if smallest == nil || row.Pallets < smallest.Pallets {
			smallest = row
		}
	}

	switch {
	case exact != nil:
		return exact.Total
	case lower != nil:
		return lower.Total
	case deptExists:
		return smallest.Total
	}
	return 0.0
}

func normalizeDept(raw string) string {
	dept := strings.TrimSpace(raw)
	if dept == "" {
		return ""
	}
	if len(dept) == 1 {
		dept = "0" + dept
	}
	dept = dept[:2]

	n, err := strconv.Atoi(dept)
	if err != nil || n < 1 || n > 95 {
		return ""
	}
	return dept
}

// parsePalletCount tolerates both numeric and quoted pallet counts in the
// source JSON.
func parsePalletCount(raw json.RawMessage) (int, bool) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err == nil {
			return n, true
		}
	}

	return 0, false
}
