// Package pipeline runs the import, aggregate, match, snapshot and hydrate
// stages for one reference year.
package pipeline

import (
	"context"
	"time"

	"fjacquet/agri-potential/internal/hydrator"
	"fjacquet/agri-potential/internal/importer"
	"fjacquet/agri-potential/internal/logging"
	"fjacquet/agri-potential/internal/matcher"
	"fjacquet/agri-potential/internal/models"
	"fjacquet/agri-potential/internal/parsererror"
	"fjacquet/agri-potential/internal/potential"
	"fjacquet/agri-potential/internal/validation"

	"github.com/shopspring/decimal"
)

// Stage names used in logs and StageError.
const (
	StageClear     = "clear"
	StageImport    = "import"
	StageAggregate = "aggregate"
	StageMatch     = "match"
	StageSnapshot  = "snapshot"
	StageHydrate   = "hydrate"
)

// Importer is the import stage.
type Importer interface {
	Import(ctx context.Context, req importer.ImportRequest) (importer.ImportResult, error)
	ClearYear(ctx context.Context, year int) (int64, error)
}

// Aggregator is the aggregation stage.
type Aggregator interface {
	Aggregate(ctx context.Context, year int) ([]models.AggregatedBeneficiary, models.AggregateSummary, error)
}

// Matcher is the matching stage.
type Matcher interface {
	Match(ctx context.Context, year int) (matcher.MatchResult, error)
}

// Calculator is the snapshot stage.
type Calculator interface {
	Calculate(ctx context.Context, year int, eurPerHa decimal.NullDecimal) (potential.SnapshotResult, error)
}

// Hydrator is the hydration stage.
type Hydrator interface {
	Hydrate(ctx context.Context, year int) (hydrator.HydrateResult, error)
}

// RunRequest describes a full pipeline run. ReplaceImport clears the
// year's raw payment rows before importing.
type RunRequest struct {
	Year          int
	FilePath      string
	BatchID       string
	SourceTag     string
	EurPerHa      decimal.NullDecimal
	ReplaceImport bool
}

// RunReport collects the result of every stage that ran.
type RunReport struct {
	Year      int
	Cleared   int64
	Import    importer.ImportResult
	Aggregate models.AggregateSummary
	Match     matcher.MatchResult
	Snapshot  potential.SnapshotResult
	Hydrate   hydrator.HydrateResult
	Duration  time.Duration
}

// Pipeline runs the stages in fixed order. Stages do not check that their
// predecessors ran; only Run guarantees the order.
type Pipeline struct {
	importer   Importer
	aggregator Aggregator
	matcher    Matcher
	calculator Calculator
	hydrator   Hydrator
	logger     logging.Logger
}

// New creates a Pipeline.
func New(im Importer, ag Aggregator, ma Matcher, ca Calculator, hy Hydrator, logger logging.Logger) *Pipeline {
	return &Pipeline{
		importer:   im,
		aggregator: ag,
		matcher:    ma,
		calculator: ca,
		hydrator:   hy,
		logger:     logger,
	}
}

// Run executes every stage for req.Year and stops at the first failure,
// returning a StageError naming it. The report holds the results of the
// stages that completed.
func (p *Pipeline) Run(ctx context.Context, req RunRequest) (RunReport, error) {
	report := RunReport{Year: req.Year}
	if err := validation.AssertYear(req.Year); err != nil {
		return report, err
	}
	if err := validation.IsReadableFile(req.FilePath); err != nil {
		return report, err
	}

	start := time.Now()
	log := p.logger.WithField(logging.FieldYear, req.Year)
	log.Info("Pipeline started", logging.F(logging.FieldFile, req.FilePath))

	steps := []struct {
		name string
		run  func() error
	}{
		{StageClear, func() (err error) {
			if !req.ReplaceImport {
				return nil
			}
			report.Cleared, err = p.importer.ClearYear(ctx, req.Year)
			return err
		}},
		{StageImport, func() (err error) {
			report.Import, err = p.importer.Import(ctx, importer.ImportRequest{
				FilePath:  req.FilePath,
				Year:      req.Year,
				BatchID:   req.BatchID,
				SourceTag: req.SourceTag,
			})
			return err
		}},
		{StageAggregate, func() (err error) {
			_, report.Aggregate, err = p.aggregator.Aggregate(ctx, req.Year)
			return err
		}},
		{StageMatch, func() (err error) {
			report.Match, err = p.matcher.Match(ctx, req.Year)
			return err
		}},
		{StageSnapshot, func() (err error) {
			report.Snapshot, err = p.calculator.Calculate(ctx, req.Year, req.EurPerHa)
			return err
		}},
		{StageHydrate, func() (err error) {
			report.Hydrate, err = p.hydrator.Hydrate(ctx, req.Year)
			return err
		}},
	}

	for _, step := range steps {
		stepStart := time.Now()
		stageLog := logging.ForStage(p.logger, step.name, req.Year)
		if err := step.run(); err != nil {
			stageLog.WithError(err).Error("Pipeline stage failed")
			report.Duration = time.Since(start)
			return report, &parsererror.StageError{Stage: step.name, Year: req.Year, Err: err}
		}
		stageLog.Debug("Pipeline stage completed",
			logging.F(logging.FieldDuration, time.Since(stepStart).Milliseconds()))
	}

	report.Duration = time.Since(start)
	log.Info("Pipeline completed",
		logging.F(logging.FieldBatchID, report.Import.BatchID),
		logging.F("inserted", report.Import.Inserted),
		logging.F("matched", report.Match.Matched),
		logging.F("snapshots", report.Snapshot.Processed),
		logging.F("hydrated", report.Hydrate.Updated),
		logging.F(logging.FieldDuration, report.Duration.Milliseconds()))
	return report, nil
}
