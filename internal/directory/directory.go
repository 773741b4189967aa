// Package directory loads the active-customer directory from CSV or YAML
// files into the customers table.
package directory

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fjacquet/agri-potential/internal/logging"
	"fjacquet/agri-potential/internal/models"
	"fjacquet/agri-potential/internal/parsererror"
	"fjacquet/agri-potential/internal/validation"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Entry is one customer as written in a directory file.
type Entry struct {
	ID               string `csv:"id" yaml:"id"`
	LegalName        string `csv:"legal_name" yaml:"legal_name"`
	PostalCode       string `csv:"postal_code" yaml:"postal_code"`
	City             string `csv:"city" yaml:"city"`
	Active           string `csv:"active" yaml:"active"`
	TurnoverLastYear string `csv:"turnover_last_year" yaml:"turnover_last_year"`
}

// Store persists customers.
type Store interface {
	UpsertCustomer(ctx context.Context, customer *models.Customer) error
}

// LoadResult summarizes a directory load.
type LoadResult struct {
	Read     int
	Upserted int
	Skipped  int
}

// Loader reads directory files.
type Loader struct {
	store     Store
	delimiter rune
	logger    logging.Logger
}

// NewLoader creates a Loader. CSV files are read with the given delimiter.
func NewLoader(store Store, delimiter rune, logger logging.Logger) *Loader {
	if delimiter == 0 {
		delimiter = ';'
	}
	return &Loader{store: store, delimiter: delimiter, logger: logger}
}

// Load reads path (.csv, .yaml or .yml) and upserts each valid entry.
// Entries without id or legal name are skipped.
func (l *Loader) Load(ctx context.Context, path string) (LoadResult, error) {
	if err := validation.IsReadableFile(path); err != nil {
		return LoadResult{}, err
	}

	entries, err := l.read(path)
	if err != nil {
		return LoadResult{}, err
	}

	result := LoadResult{Read: len(entries)}
	for i, e := range entries {
		customer, err := e.toCustomer()
		if err != nil {
			result.Skipped++
			l.logger.WithError(err).Warn("Skipping directory entry",
				logging.F(logging.FieldFile, path),
				logging.F(logging.FieldRow, i+1))
			continue
		}
		if err := l.store.UpsertCustomer(ctx, customer); err != nil {
			return result, err
		}
		result.Upserted++
	}

	l.logger.Info("Customer directory loaded",
		logging.F(logging.FieldFile, path),
		logging.F("read", result.Read),
		logging.F("upserted", result.Upserted),
		logging.F("skipped", result.Skipped))
	return result, nil
}

func (l *Loader) read(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening directory file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			l.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	var entries []Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		reader := csv.NewReader(file)
		reader.Comma = l.delimiter
		reader.TrimLeadingSpace = true
		if err := gocsv.UnmarshalCSV(reader, &entries); err != nil {
			return nil, &parsererror.ParseError{Parser: "directory", Field: "csv", Value: path, Err: err}
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(file).Decode(&entries); err != nil {
			return nil, &parsererror.ParseError{Parser: "directory", Field: "yaml", Value: path, Err: err}
		}
	default:
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: ".csv, .yaml or .yml",
			Msg:            "unsupported directory file extension",
		}
	}
	return entries, nil
}

func (e Entry) toCustomer() (*models.Customer, error) {
	id := strings.TrimSpace(e.ID)
	name := strings.TrimSpace(e.LegalName)
	if id == "" || name == "" {
		return nil, fmt.Errorf("id and legal_name are required")
	}

	active := true
	if v := strings.TrimSpace(e.Active); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid active flag %q for customer %s", v, id)
		}
		active = parsed
	}

	return &models.Customer{
		ID:               id,
		LegalName:        name,
		PostalCode:       strings.TrimSpace(e.PostalCode),
		City:             strings.TrimSpace(e.City),
		Active:           active,
		TurnoverLastYear: parseTurnover(e.TurnoverLastYear),
	}, nil
}

// parseTurnover accepts locale ("22.400,00") and plain ("22400.00")
// amounts. Anything else is null.
func parseTurnover(raw string) decimal.NullDecimal {
	if v := models.ParseLocaleAmount(raw); v.Valid {
		return v
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
