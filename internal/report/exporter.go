package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"fjacquet/agri-potential/internal/logging"
	"fjacquet/agri-potential/internal/models"
	"fjacquet/agri-potential/internal/validation"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// Export table names.
const (
	TableMatches   = "matches"
	TableSnapshots = "snapshots"
)

// Source reads the exportable tables.
type Source interface {
	ListMatches(ctx context.Context, year int) ([]models.CustomerMatch, error)
	ListSnapshots(ctx context.Context, year int) ([]models.PotentialSnapshot, error)
}

// MatchRow is the CSV form of a CustomerMatch.
type MatchRow struct {
	ReferenceYear   int    `csv:"reference_year"`
	CustomerID      string `csv:"customer_id"`
	BeneficiaryName string `csv:"beneficiary_name"`
	PostalCode      string `csv:"postal_code"`
	City            string `csv:"city"`
	MatchScore      string `csv:"match_score"`
	MatchMethod     string `csv:"match_method"`
	Confident       bool   `csv:"confident"`
	Status          string `csv:"status"`
	SubsidyTotal    string `csv:"subsidy_total"`
	CandidateCount  int    `csv:"candidate_count"`
	UpdatedAt       string `csv:"updated_at"`
}

// SnapshotRow is the CSV form of a PotentialSnapshot.
type SnapshotRow struct {
	ReferenceYear              int    `csv:"reference_year"`
	CustomerID                 string `csv:"customer_id"`
	SubsidyTotal               string `csv:"subsidy_total"`
	EurPerHa                   string `csv:"eur_per_ha"`
	EstimatedAreaHa            string `csv:"estimated_area_ha"`
	PotentialSeedEUR           string `csv:"potential_seed_eur"`
	PotentialFertilizerEUR     string `csv:"potential_fertilizer_eur"`
	PotentialCropProtectionEUR string `csv:"potential_crop_protection_eur"`
	PotentialTotalEUR          string `csv:"potential_total_eur"`
	TurnoverLastYear           string `csv:"turnover_last_year"`
	ShareOfWallet              string `csv:"share_of_wallet"`
	Segment                    string `csv:"segment"`
	CreatedAt                  string `csv:"created_at"`
}

// Exporter writes a year's match or snapshot table as CSV.
type Exporter struct {
	source    Source
	delimiter rune
	logger    logging.Logger
}

// NewExporter creates an Exporter.
func NewExporter(source Source, delimiter rune, logger logging.Logger) *Exporter {
	if delimiter == 0 {
		delimiter = ';'
	}
	return &Exporter{source: source, delimiter: delimiter, logger: logger}
}

// ExportFile writes the table to outputFile, creating its directory.
func (e *Exporter) ExportFile(ctx context.Context, year int, table, outputFile string) (int, error) {
	if err := validation.AssertYear(year); err != nil {
		return 0, err
	}
	if err := validation.IsValidExportTable(table); err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(outputFile), 0750); err != nil {
		return 0, fmt.Errorf("error creating directory: %w", err)
	}
	file, err := os.Create(outputFile)
	if err != nil {
		return 0, fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	n, err := e.Export(ctx, year, table, file)
	if err != nil {
		return 0, err
	}
	e.logger.Info("Table exported",
		logging.F(logging.FieldYear, year),
		logging.F("table", table),
		logging.F(logging.FieldOutputFile, outputFile),
		logging.F(logging.FieldCount, n))
	return n, nil
}

// Export writes the table to w and returns the number of data rows.
func (e *Exporter) Export(ctx context.Context, year int, table string, w io.Writer) (int, error) {
	var rows interface{}
	var n int
	switch table {
	case TableMatches:
		matches, err := e.source.ListMatches(ctx, year)
		if err != nil {
			return 0, err
		}
		out := make([]MatchRow, 0, len(matches))
		for _, m := range matches {
			out = append(out, matchRow(m))
		}
		rows, n = out, len(out)
	case TableSnapshots:
		snapshots, err := e.source.ListSnapshots(ctx, year)
		if err != nil {
			return 0, err
		}
		out := make([]SnapshotRow, 0, len(snapshots))
		for _, s := range snapshots {
			out = append(out, snapshotRow(s))
		}
		rows, n = out, len(out)
	default:
		return 0, validation.IsValidExportTable(table)
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = e.delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return 0, fmt.Errorf("error writing CSV data: %w", err)
	}
	return n, nil
}

func matchRow(m models.CustomerMatch) MatchRow {
	return MatchRow{
		ReferenceYear:   m.ReferenceYear,
		CustomerID:      m.CustomerID,
		BeneficiaryName: m.BeneficiaryName,
		PostalCode:      m.PostalCode,
		City:            m.City,
		MatchScore:      m.MatchScore.String(),
		MatchMethod:     m.MatchMethod,
		Confident:       m.Confident,
		Status:          m.Status,
		SubsidyTotal:    formatNull(m.SubsidyTotal, 2),
		CandidateCount:  m.CandidateCount,
		UpdatedAt:       formatTime(m.UpdatedAt),
	}
}

func snapshotRow(s models.PotentialSnapshot) SnapshotRow {
	segment := ""
	if s.Segment != nil {
		segment = *s.Segment
	}
	return SnapshotRow{
		ReferenceYear:              s.ReferenceYear,
		CustomerID:                 s.CustomerID,
		SubsidyTotal:               formatNull(s.SubsidyTotal, 2),
		EurPerHa:                   s.EurPerHa.String(),
		EstimatedAreaHa:            s.EstimatedAreaHa.StringFixed(4),
		PotentialSeedEUR:           s.PotentialSeedEUR.StringFixed(2),
		PotentialFertilizerEUR:     s.PotentialFertilizerEUR.StringFixed(2),
		PotentialCropProtectionEUR: s.PotentialCropProtectionEUR.StringFixed(2),
		PotentialTotalEUR:          s.PotentialTotalEUR.StringFixed(2),
		TurnoverLastYear:           formatNull(s.TurnoverLastYear, 2),
		ShareOfWallet:              formatNull(s.ShareOfWallet, 2),
		Segment:                    segment,
		CreatedAt:                  formatTime(s.CreatedAt),
	}
}

// formatNull renders a null amount as an empty cell.
func formatNull(v decimal.NullDecimal, places int32) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.StringFixed(places)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
