package records

import (
	"os"
	"path/filepath"
	"testing"

	"hospital-cost/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, RevenueFile, `[
		{"month": "January", "year": 2025, "service_name": "Dialysis", "department": "Nephrology",
		 "patient_type": "OPD", "billing_category": "Cash", "quantity": 20, "gross_amount": 40000}
	]`)
	writeFile(t, dir, ExpensesFile, `[
		{"month": "January", "year": 2025, "nature": "indirect", "cost_centre": "CC-1", "amount": 5000}
	]`)

	raw, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	if len(raw.Revenue) != 1 || raw.Revenue[0].ServiceName != "Dialysis" {
		t.Errorf("revenue = %+v", raw.Revenue)
	}
	if raw.Revenue[0].Quantity == nil || *raw.Revenue[0].Quantity != 20 {
		t.Error("quantity should decode as a present value")
	}
	if raw.Revenue[0].NetAmount != nil {
		t.Error("absent net_amount should stay nil, not zero")
	}
	if len(raw.Expenses) != 1 {
		t.Errorf("expenses = %+v", raw.Expenses)
	}
	if raw.Metadata != nil {
		t.Errorf("missing metadata file should yield an empty batch, got %+v", raw.Metadata)
	}
}

func TestLoadDirMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, RevenueFile, `{not json`)

	_, err := LoadDir(dir)
	if err == nil {
		t.Fatal("want error")
	}
	if !errors.IsType(err, errors.TypeValidation) {
		t.Errorf("want %s, got %v", errors.TypeValidation, err)
	}
}

func TestLoadDirEmpty(t *testing.T) {
	raw, err := LoadDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDir on empty dir: %v", err)
	}
	if len(raw.Revenue)+len(raw.Expenses)+len(raw.Metadata) != 0 {
		t.Errorf("empty dir should load empty batches, got %+v", raw)
	}
}
