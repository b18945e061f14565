package domain

import "strings"

// Transfer pricing modes for the labelling leg.
const (
	TransferNone   = "none"
	TransferManual = "manual"
	TransferExcel  = "excel"
)

// Labeling modes. The mode is an explicit discriminant stored on the
// feature config, never inferred from which keys happen to be populated.
const (
	LabelingStandard = "standard"
	LabelingAdvanced = "advanced"
)

var transferModeLabels = map[string]string{
	TransferNone:   "No transfer",
	TransferManual: "Manual flat cost",
	TransferExcel:  "Rate table lookup",
}

// TransferModeLabel returns a human-readable label for a transfer mode.
func TransferModeLabel(mode string) string {
	if label, ok := transferModeLabels[strings.ToLower(mode)]; ok {
		return label
	}

	return transferModeLabels[TransferNone]
}

// ParseTransferMode normalizes a transfer mode string (case-insensitive).
// Unknown or empty values map to "none".
func ParseTransferMode(raw string) (string, bool) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case TransferNone, TransferManual, TransferExcel:
		return mode, true
	case "", "fixed":
		// "fixed" is the historical name for manual flat pricing
		if mode == "fixed" {
			return TransferManual, true
		}
		return TransferNone, false
	}

	return TransferNone, false
}

// ParseLabelingMode normalizes a labeling mode string (case-insensitive).
// Unknown or empty values map to "standard".
func ParseLabelingMode(raw string) (string, bool) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case LabelingStandard, LabelingAdvanced:
		return mode, true
	}

	return LabelingStandard, false
}
