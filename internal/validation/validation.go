// Package validation holds the fail-fast checks run before any stage touches
// the filesystem or the database.
package validation

import (
	"fmt"
	"os"

	"fjacquet/agri-potential/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Accepted reference year range, inclusive on both ends.
const (
	MinReferenceYear = 2000
	MaxReferenceYear = 3000
)

// AssertYear rejects reference years outside [MinReferenceYear, MaxReferenceYear].
func AssertYear(year int) error {
	if year < MinReferenceYear || year > MaxReferenceYear {
		return &parsererror.InvalidYearError{Year: year, Min: MinReferenceYear, Max: MaxReferenceYear}
	}
	return nil
}

// IsReadableFile checks that path exists and is a regular file.
func IsReadableFile(path string) error {
	if path == "" {
		return &parsererror.ValidationError{FilePath: path, Reason: "no file path given"}
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &parsererror.ValidationError{FilePath: path, Reason: "file does not exist"}
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return &parsererror.ValidationError{FilePath: path, Reason: "not a regular file"}
	}
	return nil
}

// IsPositiveRate checks a per-hectare conversion constant or rate.
func IsPositiveRate(name string, value decimal.Decimal) error {
	if !value.IsPositive() {
		return fmt.Errorf("%s must be greater than zero, got: %s", name, value.String())
	}
	return nil
}

// IsValidExportTable checks if the given table can be exported.
func IsValidExportTable(table string) error {
	switch table {
	case "matches", "snapshots":
		return nil
	default:
		return fmt.Errorf("unsupported export table: %s. Supported tables are 'matches', 'snapshots'", table)
	}
}
