// Package importer streams external subsidy payment exports into raw
// payment records.
package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"fjacquet/agri-potential/internal/logging"
	"fjacquet/agri-potential/internal/models"
	"fjacquet/agri-potential/internal/parsererror"
	"fjacquet/agri-potential/internal/textutils"
	"fjacquet/agri-potential/internal/validation"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Skip reasons reported in ImportResult.Skipped.
const (
	SkipMissingName   = "missing_name"
	SkipEmptyKey      = "empty_normalized_name"
	SkipMalformedLine = "malformed_record"
)

// PaymentStore is the persistence the importer writes to.
type PaymentStore interface {
	AppendPayment(ctx context.Context, record *models.PaymentRecord) error
	DeletePayments(ctx context.Context, year int, batchID string) (int64, error)
}

// Options configures how export files are read.
type Options struct {
	Delimiter       rune
	Encoding        string
	SourceTagPrefix string
}

// ImportRequest describes one import run. BatchID and SourceTag are
// generated when empty.
type ImportRequest struct {
	FilePath  string
	Year      int
	BatchID   string
	SourceTag string
}

// ImportResult summarizes an import run.
type ImportResult struct {
	BatchID   string
	SourceTag string
	RowsRead  int
	Inserted  int
	Skipped   map[string]int
}

// SkippedTotal returns the number of rows dropped for any reason.
func (r ImportResult) SkippedTotal() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}

// Importer reads payment export files row by row and appends one
// PaymentRecord per usable row.
type Importer struct {
	store  PaymentStore
	opts   Options
	logger logging.Logger
}

// New creates an Importer.
func New(store PaymentStore, opts Options, logger logging.Logger) *Importer {
	if opts.Delimiter == 0 {
		opts.Delimiter = ';'
	}
	if opts.SourceTagPrefix == "" {
		opts.SourceTagPrefix = "agrarzahlungen"
	}
	return &Importer{store: store, opts: opts, logger: logger}
}

// Import streams req.FilePath into the store. Rows without a usable
// beneficiary name and malformed records are skipped; a store error aborts
// the import and leaves the rows written so far in place.
func (im *Importer) Import(ctx context.Context, req ImportRequest) (ImportResult, error) {
	if err := validation.AssertYear(req.Year); err != nil {
		return ImportResult{}, err
	}
	if err := validation.IsReadableFile(req.FilePath); err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{
		BatchID:   req.BatchID,
		SourceTag: req.SourceTag,
		Skipped:   make(map[string]int),
	}
	if result.BatchID == "" {
		result.BatchID = uuid.NewString()
	}
	if result.SourceTag == "" {
		result.SourceTag = fmt.Sprintf("%s_%d", im.opts.SourceTagPrefix, req.Year)
	}

	log := im.logger.WithFields(
		logging.F(logging.FieldFile, req.FilePath),
		logging.F(logging.FieldYear, req.Year),
		logging.F(logging.FieldBatchID, result.BatchID),
		logging.F(logging.FieldSource, result.SourceTag),
	)
	log.Info("Importing payment export",
		logging.F(logging.FieldDelimiter, string(im.opts.Delimiter)),
		logging.F(logging.FieldEncoding, im.opts.Encoding))
	start := time.Now()

	file, err := os.Open(req.FilePath)
	if err != nil {
		return result, fmt.Errorf("error opening payment export: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	decoded, err := decodingReader(file, im.opts.Encoding)
	if err != nil {
		return result, err
	}

	reader := csv.NewReader(decoded)
	reader.Comma = im.opts.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return result, &parsererror.InvalidFormatError{
			FilePath:       req.FilePath,
			ExpectedFormat: "delimited payment export with a header row",
			Msg:            "file is empty",
		}
	}
	if err != nil {
		return result, &parsererror.ParseError{Parser: "importer", Field: "header", Value: req.FilePath, Err: err}
	}
	columns := newHeaderMap(append([]string(nil), header...))
	if !columns.has(ColumnName) {
		log.Warn("No beneficiary name column found in header; every row will be skipped",
			logging.F("header", header))
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if !errors.As(err, &csvErr) {
				return result, fmt.Errorf("error reading payment export: %w", err)
			}
			result.RowsRead++
			result.Skipped[SkipMalformedLine]++
			log.Debug("Skipping malformed record",
				logging.F(logging.FieldRow, csvErr.StartLine),
				logging.F(logging.FieldError, csvErr.Error()))
			continue
		}
		result.RowsRead++

		line, _ := reader.FieldPos(0)
		payment, skip := im.buildRecord(req.FilePath, line, columns, record)
		if skip != nil {
			result.Skipped[skip.FieldName]++
			log.Debug("Skipping row", logging.F(logging.FieldRow, line),
				logging.F(logging.FieldReason, skip.Reason))
			continue
		}
		payment.ReferenceYear = req.Year
		payment.SourceTag = result.SourceTag
		payment.BatchID = result.BatchID

		if err := im.store.AppendPayment(ctx, payment); err != nil {
			log.WithError(err).Error("Import aborted",
				logging.F(logging.FieldRow, line),
				logging.F(logging.FieldCount, result.Inserted))
			return result, err
		}
		result.Inserted++
	}

	log.Info("Payment export imported",
		logging.F("rows_read", result.RowsRead),
		logging.F("inserted", result.Inserted),
		logging.F("skipped", result.SkippedTotal()),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return result, nil
}

// buildRecord maps one CSV record to a PaymentRecord. A non-nil
// DataExtractionError means the row is skipped; its FieldName carries the
// skip reason.
func (im *Importer) buildRecord(path string, line int, columns *headerMap, record []string) (*models.PaymentRecord, *parsererror.DataExtractionError) {
	name := columns.value(record, ColumnName)
	if name == "" {
		return nil, &parsererror.DataExtractionError{
			FilePath: path, Line: line, FieldName: SkipMissingName,
			Reason: "no beneficiary name under any known column",
		}
	}
	normalized := textutils.NormalizeLegalName(name)
	if normalized == "" {
		return nil, &parsererror.DataExtractionError{
			FilePath: path, Line: line, FieldName: SkipEmptyKey,
			Reason: fmt.Sprintf("beneficiary name %q normalizes to an empty key", name),
		}
	}

	raw, err := json.Marshal(columns.payload(record))
	if err != nil {
		im.logger.WithError(err).Warn("Failed to encode raw row payload", logging.F(logging.FieldRow, line))
		raw = nil
	}

	return &models.PaymentRecord{
		BeneficiaryName:    name,
		NormalizedName:     normalized,
		PostalCode:         columns.value(record, ColumnPostalCode),
		City:               columns.value(record, ColumnCity),
		Region:             columns.value(record, ColumnRegion),
		MeasureCode:        columns.value(record, ColumnMeasureCode),
		MeasureDescription: columns.value(record, ColumnMeasureDescription),
		AmountEGFL:         models.ParseLocaleAmount(columns.value(record, ColumnAmountEGFL)),
		AmountELER:         models.ParseLocaleAmount(columns.value(record, ColumnAmountELER)),
		AmountCofinancing:  models.ParseLocaleAmount(columns.value(record, ColumnAmountCofinancing)),
		AmountTotal:        models.ParseLocaleAmount(columns.value(record, ColumnAmountTotal)),
		RawPayload:         datatypes.JSON(raw),
	}, nil
}

// ClearYear deletes every raw payment row of the year.
func (im *Importer) ClearYear(ctx context.Context, year int) (int64, error) {
	return im.clear(ctx, year, "")
}

// ClearBatch deletes the raw payment rows of one import batch.
func (im *Importer) ClearBatch(ctx context.Context, year int, batchID string) (int64, error) {
	if batchID == "" {
		return 0, fmt.Errorf("batch id is required")
	}
	return im.clear(ctx, year, batchID)
}

func (im *Importer) clear(ctx context.Context, year int, batchID string) (int64, error) {
	if err := validation.AssertYear(year); err != nil {
		return 0, err
	}
	deleted, err := im.store.DeletePayments(ctx, year, batchID)
	if err != nil {
		return 0, err
	}
	im.logger.Info("Cleared raw payment rows",
		logging.F(logging.FieldYear, year),
		logging.F(logging.FieldBatchID, batchID),
		logging.F(logging.FieldCount, deleted))
	return deleted, nil
}
