package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/logistiq/vvp-backend/internal/ratetable"
)

// Sheet geometry of the French carrier's rate matrix: department codes sit
// on the second row, pallet counts in the first column starting at row
// five, and every other cell is a delivery price.
const (
	franceDeptRow  = 1
	franceDataRow  = 4
	franceFirstCol = 1
)

// FranceMatrix flattens the department-by-pallet price grid into the
// dept/pallets/total records the France lookup loads. Unreadable labels
// and blank cells are skipped; an entirely unreadable sheet is an error.
func FranceMatrix(rows [][]string) ([]ratetable.FranceEntry, error) {
	if len(rows) <= franceDataRow {
		return nil, fmt.Errorf("matrix too small: %d rows", len(rows))
	}

	departments := parseDeptHeader(rows[franceDeptRow])

	var entries []ratetable.FranceEntry
	for _, row := range rows[franceDataRow:] {
		if len(row) == 0 {
			continue
		}
		pallets, ok := parsePalletLabel(row[0])
		if !ok {
			continue
		}
		for col, dept := range departments {
			if dept == "" {
				continue
			}
			cell := franceFirstCol + col
			if cell >= len(row) {
				break
			}
			total, ok := parseAmount(row[cell])
			if !ok {
				continue
			}
			entries = append(entries, ratetable.FranceEntry{Dept: dept, Pallets: pallets, Total: total})
		}
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no rows parsed from department/pallet matrix")
	}
	return entries, nil
}

func parseDeptHeader(row []string) []string {
	if len(row) <= franceFirstCol {
		return nil
	}
	departments := make([]string, 0, len(row)-franceFirstCol)
	for _, cell := range row[franceFirstCol:] {
		n, err := strconv.Atoi(strings.TrimSpace(cell))
		if err != nil || n < 1 || n > 95 {
			departments = append(departments, "")
			continue
		}
		departments = append(departments, fmt.Sprintf("%02d", n))
	}
	return departments
}

// parsePalletLabel reads a pallet-count label. Carriers write the last row
// as "complete truck" or "full truck"; both mean 33 pallets.
func parsePalletLabel(s string) (int, bool) {
	text := strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(text); err == nil {
		return n, true
	}
	if strings.Contains(text, "comp") || strings.Contains(text, "full") {
		return ratetable.MaxFranceTruckPallets, true
	}
	return 0, false
}
