// Package parsererror defines the typed errors raised by the import and
// pipeline stages.
package parsererror

import "fmt"

// ParseError represents an error during parsing of a single value.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure of an input file or value.
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// InvalidYearError is returned before any I/O when a reference year is not
// within the accepted range.
type InvalidYearError struct {
	Year int
	Min  int
	Max  int
}

func (e *InvalidYearError) Error() string {
	return fmt.Sprintf("invalid reference year %d: must be between %d and %d", e.Year, e.Min, e.Max)
}

// InvalidFormatError represents an input file that does not have the
// expected layout, for example a header without a beneficiary name column.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// DataExtractionError represents a row whose required data could not be
// extracted. The importer logs and skips such rows.
type DataExtractionError struct {
	FilePath  string
	Line      int
	FieldName string
	Reason    string
}

func (e *DataExtractionError) Error() string {
	return fmt.Sprintf("data extraction failed in file '%s' line %d for field '%s': %s",
		e.FilePath, e.Line, e.FieldName, e.Reason)
}

// StageError wraps the failure of one pipeline stage.
type StageError struct {
	Stage string
	Year  int
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed for year %d: %v", e.Stage, e.Year, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
