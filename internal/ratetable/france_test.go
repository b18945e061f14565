package ratetable

import "testing"

func testFranceTable() FranceTable {
	return FranceTable{
		{Dept: "30", Pallets: 1, Total: 120},
		{Dept: "30", Pallets: 10, Total: 300},
		{Dept: "30", Pallets: 33, Total: 450},
		{Dept: "75", Pallets: 5, Total: 180},
	}
}

func TestFranceLookup(t *testing.T) {
	table := testFranceTable()

	testCases := []struct {
		name     string
		dept     string
		pallets  int
		expected float64
	}{
		{"exact match", "30", 10, 300},
		{"nearest lower within dept", "30", 20, 300},
		{"clamped at full truck", "30", 100, 450},
		{"other department untouched", "75", 33, 180},
		{"below smallest uses minimum available", "75", 1, 180},
		{"absent department", "44", 10, 0},
		{"invalid department", "99", 10, 0},
		{"single digit dept normalized", "30", 1, 120},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := table.Lookup(tc.dept, tc.pallets); got != tc.expected {
				t.Errorf("Lookup(%q, %d) = %v, want %v", tc.dept, tc.pallets, got, tc.expected)
			}
		})
	}
}

func TestFranceLookup_Empty(t *testing.T) {
	var table FranceTable
	if got := table.Lookup("30", 5); got != 0 {
		t.Errorf("empty table lookup = %v, want 0", got)
	}
}

func TestParseFrance(t *testing.T) {
	data := []byte(`[
		{"dept": "30", "pallets": 33, "total": 450.0},
		{"dept": "8", "pallets": 2, "total": 130.0},
		{"dept": "96", "pallets": 1, "total": 100.0},
		{"dept": "30", "pallets": "4", "total": 160.0},
		{"dept": "30", "pallets": 0, "total": 90.0},
		{"dept": "30", "pallets": 5, "total": -1.0}
	]`)

	table := ParseFrance(data)
	if len(table) != 3 {
		t.Fatalf("expected 3 valid rows, got %d: %v", len(table), table)
	}

	// Single-digit department is zero-padded.
	if got := table.Lookup("08", 2); got != 130.0 {
		t.Errorf("Lookup(08, 2) = %v, want 130.0", got)
	}
	// Quoted pallet count is tolerated.
	if got := table.Lookup("30", 4); got != 160.0 {
		t.Errorf("Lookup(30, 4) = %v, want 160.0", got)
	}
}

func TestParseFrance_Garbage(t *testing.T) {
	if table := ParseFrance([]byte("{}")); len(table) != 0 {
		t.Errorf("expected empty table, got %v", table)
	}
}
