// Package container provides dependency injection for the agri-potential
// application. It opens the store once and wires every pipeline stage to it.
package container

import (
	"context"
	"fmt"

	"fjacquet/agri-potential/internal/aggregator"
	"fjacquet/agri-potential/internal/config"
	"fjacquet/agri-potential/internal/directory"
	"fjacquet/agri-potential/internal/hydrator"
	"fjacquet/agri-potential/internal/importer"
	"fjacquet/agri-potential/internal/logging"
	"fjacquet/agri-potential/internal/matcher"
	"fjacquet/agri-potential/internal/pipeline"
	"fjacquet/agri-potential/internal/potential"
	"fjacquet/agri-potential/internal/report"
	"fjacquet/agri-potential/internal/store"

	"github.com/shopspring/decimal"
)

// Container holds all application dependencies. It is immutable after
// creation; components are reached through getters.
type Container struct {
	logger logging.Logger
	config *config.Config
	store  *store.Store

	importer   *importer.Importer
	aggregator *aggregator.Aggregator
	matcher    *matcher.Matcher
	calculator *potential.Calculator
	hydrator   *hydrator.Hydrator
	pipeline   *pipeline.Pipeline

	directory *directory.Loader
	exporter  *report.Exporter
	reports   *report.ReportGenerator
}

// NewContainer creates the logger from cfg, opens the store and wires all
// stages.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(ctx, cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	db, err := store.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	delimiter := cfg.CSV.DelimiterRune()
	rates := potential.Rates{
		Seed:           decimal.NewFromFloat(cfg.Potential.Rates.Seed),
		Fertilizer:     decimal.NewFromFloat(cfg.Potential.Rates.Fertilizer),
		CropProtection: decimal.NewFromFloat(cfg.Potential.Rates.CropProtection),
	}

	im := importer.New(db, importer.Options{
		Delimiter:       delimiter,
		Encoding:        cfg.CSV.Encoding,
		SourceTagPrefix: cfg.Source.TagPrefix,
	}, logger)
	ag := aggregator.New(db, logger)
	ma := matcher.New(ag, db, logger)
	ca := potential.New(db, decimal.NewFromFloat(cfg.Potential.EurPerHa), rates, logger)
	hy := hydrator.New(db, logger)

	c := &Container{
		logger:     logger,
		config:     cfg,
		store:      db,
		importer:   im,
		aggregator: ag,
		matcher:    ma,
		calculator: ca,
		hydrator:   hy,
		pipeline:   pipeline.New(im, ag, ma, ca, hy, logger),
		directory:  directory.NewLoader(db, delimiter, logger),
		exporter:   report.NewExporter(db, delimiter, logger),
		reports:    report.NewReportGenerator(logger),
	}

	logger.Debug("Container initialized",
		logging.F(logging.FieldDriver, cfg.Database.Driver),
		logging.F(logging.FieldEurPerHa, cfg.Potential.EurPerHa))
	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger { return c.logger }

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config { return c.config }

// GetStore returns the open store.
func (c *Container) GetStore() *store.Store { return c.store }

// GetImporter returns the import stage.
func (c *Container) GetImporter() *importer.Importer { return c.importer }

// GetAggregator returns the aggregation stage.
func (c *Container) GetAggregator() *aggregator.Aggregator { return c.aggregator }

// GetMatcher returns the matching stage.
func (c *Container) GetMatcher() *matcher.Matcher { return c.matcher }

// GetCalculator returns the snapshot stage.
func (c *Container) GetCalculator() *potential.Calculator { return c.calculator }

// GetHydrator returns the hydration stage.
func (c *Container) GetHydrator() *hydrator.Hydrator { return c.hydrator }

// GetPipeline returns the full pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline { return c.pipeline }

// GetDirectoryLoader returns the customer directory loader.
func (c *Container) GetDirectoryLoader() *directory.Loader { return c.directory }

// GetExporter returns the table exporter.
func (c *Container) GetExporter() *report.Exporter { return c.exporter }

// GetReportGenerator returns the run summary renderer.
func (c *Container) GetReportGenerator() *report.ReportGenerator { return c.reports }

// Close releases the store. It must be called once the container is no
// longer needed.
func (c *Container) Close() error {
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
