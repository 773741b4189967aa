// Package report renders pipeline run summaries and exports the match and
// snapshot tables for downstream consumers.
package report

import (
	"encoding/json"
	"fmt"

	"fjacquet/agri-potential/internal/logging"
	"fjacquet/agri-potential/internal/pipeline"

	"gopkg.in/yaml.v3"
)

// RunSummary is the printable form of a pipeline run.
type RunSummary struct {
	Year       int            `json:"reference_year" yaml:"reference_year"`
	BatchID    string         `json:"batch_id" yaml:"batch_id"`
	SourceTag  string         `json:"source_tag" yaml:"source_tag"`
	Cleared    int64          `json:"cleared_rows" yaml:"cleared_rows"`
	RowsRead   int            `json:"rows_read" yaml:"rows_read"`
	Inserted   int            `json:"inserted_rows" yaml:"inserted_rows"`
	Skipped    map[string]int `json:"skipped_rows" yaml:"skipped_rows"`
	Identities int            `json:"beneficiaries" yaml:"beneficiaries"`
	Payments   int64          `json:"payments" yaml:"payments"`
	Subsidies  string         `json:"subsidy_total" yaml:"subsidy_total"`
	Customers  int            `json:"customers" yaml:"customers"`
	Matched    int            `json:"matched" yaml:"matched"`
	Ambiguous  int            `json:"ambiguous" yaml:"ambiguous"`
	EurPerHa   string         `json:"eur_per_ha" yaml:"eur_per_ha"`
	Snapshots  int            `json:"snapshots" yaml:"snapshots"`
	Potential  string         `json:"potential_total_eur" yaml:"potential_total_eur"`
	Segments   map[string]int `json:"segments" yaml:"segments"`
	Hydrated   int            `json:"hydrated_customers" yaml:"hydrated_customers"`
	DurationMS int64          `json:"duration_ms" yaml:"duration_ms"`
}

// NewRunSummary flattens a pipeline report.
func NewRunSummary(r pipeline.RunReport) *RunSummary {
	return &RunSummary{
		Year:       r.Year,
		BatchID:    r.Import.BatchID,
		SourceTag:  r.Import.SourceTag,
		Cleared:    r.Cleared,
		RowsRead:   r.Import.RowsRead,
		Inserted:   r.Import.Inserted,
		Skipped:    r.Import.Skipped,
		Identities: r.Aggregate.Identities,
		Payments:   r.Aggregate.Payments,
		Subsidies:  r.Aggregate.Total.StringFixed(2),
		Customers:  r.Match.Customers,
		Matched:    r.Match.Matched,
		Ambiguous:  r.Match.Ambiguous,
		EurPerHa:   r.Snapshot.EurPerHa.String(),
		Snapshots:  r.Snapshot.Processed,
		Potential:  r.Snapshot.TotalPotential.StringFixed(2),
		Segments:   r.Snapshot.Segments,
		Hydrated:   r.Hydrate.Updated,
		DurationMS: r.Duration.Milliseconds(),
	}
}

// ReportGenerator renders run summaries.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	return &ReportGenerator{logger: logger}
}

// GenerateReport renders the summary as json or yaml.
func (g *ReportGenerator) GenerateReport(summary *RunSummary, format string) ([]byte, error) {
	switch format {
	case "json":
		return g.generateJSONReport(summary)
	case "yaml":
		return g.generateYAMLReport(summary)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateJSONReport(summary *RunSummary) ([]byte, error) {
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return out, nil
}

func (g *ReportGenerator) generateYAMLReport(summary *RunSummary) ([]byte, error) {
	out, err := yaml.Marshal(summary)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}
