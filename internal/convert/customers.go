package convert

import (
	"strings"

	"github.com/logistiq/vvp-backend/internal/domain"
)

// Customers reads a customer sheet: name in the first column, addresses in
// the rest. The header row is skipped, blank names drop the row, and
// duplicate addresses per customer are collapsed. Ids are left empty; the
// catalog assigns them on import.
func Customers(rows [][]string) []domain.Customer {
	customers := []domain.Customer{}
	if len(rows) < 2 {
		return customers
	}

	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}

		addresses := []string{}
		seen := map[string]struct{}{}
		for _, cell := range row[1:] {
			addr := strings.TrimSpace(cell)
			if addr == "" {
				continue
			}
			if _, dup := seen[addr]; dup {
				continue
			}
			seen[addr] = struct{}{}
			addresses = append(addresses, addr)
		}

		customers = append(customers, domain.Customer{Name: name, Addresses: addresses})
	}
	return customers
}
