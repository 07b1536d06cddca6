// Package records loads raw record batches from JSON files. It is the
// data-access collaborator: the engine itself never touches storage.
package records

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"hospital-cost/core/normalize"
	"hospital-cost/internal/errors"
	"hospital-cost/internal/logging"
)

// File names looked up inside a data directory
const (
	RevenueFile  = "revenue.json"
	ExpensesFile = "expenses.json"
	MetadataFile = "metadata.json"
)

// LoadDir reads revenue.json, expenses.json and metadata.json from a
// directory. A missing file contributes an empty slice; a present but
// unreadable file fails the load.
func LoadDir(dir string) (normalize.RawInput, error) {
	var raw normalize.RawInput

	if err := loadInto(filepath.Join(dir, RevenueFile), &raw.Revenue); err != nil {
		return raw, err
	}
	if err := loadInto(filepath.Join(dir, ExpensesFile), &raw.Expenses); err != nil {
		return raw, err
	}
	if err := loadInto(filepath.Join(dir, MetadataFile), &raw.Metadata); err != nil {
		return raw, err
	}

	logging.Info("loaded record batch",
		zap.String("dir", dir),
		zap.Int("revenue", len(raw.Revenue)),
		zap.Int("expenses", len(raw.Expenses)),
		zap.Int("metadata", len(raw.Metadata)))
	return raw, nil
}

func loadInto(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Debug("record file absent", zap.String("path", path))
			return nil
		}
		return errors.Wrapf(errors.TypeInternal, err, "failed to read %s", path)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return errors.Wrapf(errors.TypeValidation, err, "failed to parse %s", path)
	}
	return nil
}
