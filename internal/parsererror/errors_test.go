package parsererror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name: "basic parse error",
			err: &ParseError{
				Parser: "importer",
				Field:  "amount_total",
				Value:  "abc",
				Err:    errors.New("not a number"),
			},
			expected: "importer: failed to parse amount_total='abc': not a number",
		},
		{
			name: "parse error with empty value",
			err: &ParseError{
				Parser: "directory",
				Field:  "turnover",
				Value:  "",
				Err:    errors.New("empty value"),
			},
			expected: "directory: failed to parse turnover='': empty value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestParseError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	parseErr := &ParseError{Parser: "importer", Field: "amount", Value: "x", Err: originalErr}

	assert.Equal(t, originalErr, parseErr.Unwrap())
	assert.True(t, errors.Is(parseErr, originalErr))
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{FilePath: "/data/2023.csv", Reason: "file is empty"}
	assert.Equal(t, "validation failed for /data/2023.csv: file is empty", err.Error())
}

func TestInvalidYearError(t *testing.T) {
	err := &InvalidYearError{Year: 1999, Min: 2000, Max: 3000}
	assert.Equal(t, "invalid reference year 1999: must be between 2000 and 3000", err.Error())

	var target *InvalidYearError
	wrapped := errors.Join(errors.New("import"), err)
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, 1999, target.Year)
}

func TestInvalidFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      *InvalidFormatError
		expected string
	}{
		{
			name: "with content snippet",
			err: &InvalidFormatError{
				FilePath:             "/data/2023.csv",
				ExpectedFormat:       "delimited payment export",
				ActualContentSnippet: "<html>",
				Msg:                  "no beneficiary name column",
			},
			expected: "invalid format in file '/data/2023.csv': no beneficiary name column. Expected: delimited payment export. Content snippet: '<html>'",
		},
		{
			name: "without content snippet",
			err: &InvalidFormatError{
				FilePath:       "/data/2023.csv",
				ExpectedFormat: "delimited payment export",
				Msg:            "missing header row",
			},
			expected: "invalid format in file '/data/2023.csv': missing header row. Expected: delimited payment export",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDataExtractionError(t *testing.T) {
	err := &DataExtractionError{FilePath: "in.csv", Line: 4, FieldName: "beneficiary_name", Reason: "no alias matched"}
	assert.Equal(t, "data extraction failed in file 'in.csv' line 4 for field 'beneficiary_name': no alias matched", err.Error())
}

func TestStageError(t *testing.T) {
	cause := errors.New("disk full")
	err := &StageError{Stage: "import", Year: 2023, Err: cause}

	assert.Equal(t, "stage import failed for year 2023: disk full", err.Error())
	assert.True(t, errors.Is(err, cause))
}
