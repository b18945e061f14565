package admin

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/logistiq/vvp-backend/internal/domain"
)

var warehouseIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateWarehouse checks a warehouse payload before it is written to the
// catalog. It returns every problem found, not just the first one.
// existingIDs holds the ids already in the catalog; set allowExisting when
// the payload targets one of them (an update rather than a create).
func ValidateWarehouse(id string, wh domain.Warehouse, existingIDs []string, allowExisting bool) []string {
	var problems []string

	id = strings.TrimSpace(id)
	if id == "" {
		problems = append(problems, "warehouse id is required")
	} else if !warehouseIDPattern.MatchString(id) {
		problems = append(problems, "warehouse id may only contain letters, digits, '_' and '-'")
	}

	if !allowExisting {
		for _, existing := range existingIDs {
			if existing == id {
				problems = append(problems, fmt.Sprintf("warehouse id %q already exists", id))
				break
			}
		}
	}

	if strings.TrimSpace(wh.Name) == "" {
		problems = append(problems, "warehouse name is required")
	}

	problems = append(problems, validateRates(wh.Rates)...)
	problems = append(problems, validateFeatures(wh.Features)...)
	return problems
}

func validateRates(r domain.Rates) []string {
	var problems []string
	for _, check := range []struct {
		label string
		value float64
	}{
		{"inbound rate", r.Inbound},
		{"outbound rate", r.Outbound},
		{"storage rate", r.Storage},
		{"order fee", r.OrderFee},
	} {
		if check.value < 0 {
			problems = append(problems, fmt.Sprintf("%s must not be negative", check.label))
		}
	}
	return problems
}

func validateFeatures(f domain.Features) []string {
	var problems []string
	if f.Labeling.LabelPerPiece < 0 {
		problems = append(problems, "label cost per piece must not be negative")
	}
	if f.Labeling.LabellingPerPiece < 0 {
		problems = append(problems, "labelling cost per piece must not be negative")
	}
	if f.Labeling.Enabled {
		switch f.Labeling.Mode {
		case domain.LabelingStandard, domain.LabelingAdvanced:
		default:
			problems = append(problems, fmt.Sprintf("unknown labeling mode %q", f.Labeling.Mode))
		}
	}
	switch f.Transfer.Mode {
	case domain.TransferNone, "":
	case domain.TransferManual:
		if f.Transfer.ManualCost < 0 {
			problems = append(problems, "manual transfer cost must not be negative")
		}
	case domain.TransferExcel:
		if strings.TrimSpace(f.Transfer.LookupPath) == "" {
			problems = append(problems, "excel transfer mode requires a lookup path")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown transfer mode %q", f.Transfer.Mode))
	}
	if f.SecondLeg.FixedPerOrder < 0 {
		problems = append(problems, "second leg fixed cost must not be negative")
	}
	return problems
}

// ValidateCustomer checks a customer payload. A customer needs a name and at
// least one address that is not blank after trimming.
func ValidateCustomer(c domain.Customer) []string {
	var problems []string

	if strings.TrimSpace(c.Name) == "" {
		problems = append(problems, "customer name is required")
	}

	hasAddress := false
	for _, addr := range c.Addresses {
		if strings.TrimSpace(addr) != "" {
			hasAddress = true
			break
		}
	}
	if !hasAddress {
		problems = append(problems, "customer needs at least one non-empty address")
	}
	return problems
}
