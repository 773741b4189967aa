package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/agri-potential/internal/logging"
	"fjacquet/agri-potential/internal/parsererror"
	"fjacquet/agri-potential/internal/store"
	"fjacquet/agri-potential/internal/store/storetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newTestImporter(s PaymentStore) *Importer {
	return New(s, Options{Delimiter: ';', Encoding: "utf-8"}, logging.NewDiscardLogger())
}

func TestImport_SkipsRowWithoutName(t *testing.T) {
	path := writeExport(t, "Name des Begünstigten;PLZ;Gemeinde;Gesamtbetrag\n"+
		"Müller GmbH;12345;Musterstadt;27.000,00\n"+
		";12345;Musterstadt;1.000,00\n"+
		"Schulze KG;54321;Dorf;500\n"+
		"Bauer eG;11111;Feld;abc\n")

	mock := &store.MockStore{}
	res, err := newTestImporter(mock).Import(context.Background(), ImportRequest{FilePath: path, Year: 2023})
	require.NoError(t, err)

	assert.Equal(t, 4, res.RowsRead)
	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, 1, res.Skipped[SkipMissingName])
	assert.Equal(t, 1, res.SkippedTotal())
	require.Len(t, mock.Payments, 3)

	first := mock.Payments[0]
	assert.Equal(t, "Müller GmbH", first.BeneficiaryName)
	assert.Equal(t, "MÜLLER", first.NormalizedName)
	assert.Equal(t, "12345", first.PostalCode)
	assert.Equal(t, "Musterstadt", first.City)
	assert.True(t, first.AmountTotal.Valid)
	assert.True(t, first.AmountTotal.Decimal.Equal(decimal.NewFromInt(27000)))
	assert.Equal(t, 2023, first.ReferenceYear)
	assert.JSONEq(t, `{"Name des Begünstigten":"Müller GmbH","PLZ":"12345","Gemeinde":"Musterstadt","Gesamtbetrag":"27.000,00"}`,
		string(first.RawPayload))

	assert.False(t, mock.Payments[2].AmountTotal.Valid, "unparseable amount must be null")
	assert.False(t, mock.Payments[2].AmountEGFL.Valid, "missing column must be null")
}

func TestImport_DefaultsBatchAndSource(t *testing.T) {
	path := writeExport(t, "Name;PLZ;Ort\nA;1;X\n")
	mock := &store.MockStore{}

	res, err := newTestImporter(mock).Import(context.Background(), ImportRequest{FilePath: path, Year: 2022})
	require.NoError(t, err)
	assert.Len(t, res.BatchID, 36)
	assert.Equal(t, "agrarzahlungen_2022", res.SourceTag)
	assert.Equal(t, res.BatchID, mock.Payments[0].BatchID)

	res, err = newTestImporter(mock).Import(context.Background(),
		ImportRequest{FilePath: path, Year: 2022, BatchID: "b-1", SourceTag: "manual"})
	require.NoError(t, err)
	assert.Equal(t, "b-1", res.BatchID)
	assert.Equal(t, "manual", mock.Payments[1].SourceTag)
}

func TestImport_HeaderDrift(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"long form", "Name des Begünstigten/Rechtsträgers/Verbands;PLZ;Gemeinde;EGFL-Betrag;Gesamtbetrag"},
		{"ascii form", "name_des_beguenstigten;postleitzahl;ort;egfl;summe"},
		{"case and spacing", "  NAME DES BEGÜNSTIGTEN ;plz;GEMEINDE;Betrag  EGFL;Betrag Gesamt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeExport(t, tt.header+"\nHof Sonnenschein GbR;12345;Musterstadt;1.234,56;2.000\n")
			mock := &store.MockStore{}

			res, err := newTestImporter(mock).Import(context.Background(), ImportRequest{FilePath: path, Year: 2023})
			require.NoError(t, err)
			require.Equal(t, 1, res.Inserted)

			p := mock.Payments[0]
			assert.Equal(t, "HOF SONNENSCHEIN", p.NormalizedName)
			assert.Equal(t, "12345", p.PostalCode)
			assert.Equal(t, "Musterstadt", p.City)
			assert.True(t, p.AmountEGFL.Decimal.Equal(decimal.RequireFromString("1234.56")))
			assert.True(t, p.AmountTotal.Decimal.Equal(decimal.NewFromInt(2000)))
		})
	}
}

func TestImport_FirstNonEmptyAliasWins(t *testing.T) {
	path := writeExport(t, "Name des Begünstigten;Name;PLZ\n;Fallback AG;1\nPrimary;Other;2\n")
	mock := &store.MockStore{}

	_, err := newTestImporter(mock).Import(context.Background(), ImportRequest{FilePath: path, Year: 2023})
	require.NoError(t, err)
	require.Len(t, mock.Payments, 2)
	assert.Equal(t, "FALLBACK", mock.Payments[0].NormalizedName)
	assert.Equal(t, "PRIMARY", mock.Payments[1].NormalizedName)
}

func TestImport_SkipsNameThatNormalizesEmpty(t *testing.T) {
	path := writeExport(t, "Name;PLZ\nGmbH;1\nReal Farm;2\n")
	mock := &store.MockStore{}

	res, err := newTestImporter(mock).Import(context.Background(), ImportRequest{FilePath: path, Year: 2023})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Skipped[SkipEmptyKey])
}

func TestImport_ShortRecordsAreTolerated(t *testing.T) {
	path := writeExport(t, "Name;PLZ;Gemeinde;Gesamtbetrag\nKurz\n")
	mock := &store.MockStore{}

	res, err := newTestImporter(mock).Import(context.Background(), ImportRequest{FilePath: path, Year: 2023})
	require.NoError(t, err)
	require.Equal(t, 1, res.Inserted)
	assert.Equal(t, "", mock.Payments[0].PostalCode)
	assert.False(t, mock.Payments[0].AmountTotal.Valid)
}

func TestImport_Latin1(t *testing.T) {
	content, err := charmap.ISO8859_1.NewEncoder().String("Name;Gemeinde\nMüller GmbH;Völklingen\n")
	require.NoError(t, err)
	path := writeExport(t, content)
	mock := &store.MockStore{}

	im := New(mock, Options{Delimiter: ';', Encoding: "latin1"}, logging.NewDiscardLogger())
	_, err = im.Import(context.Background(), ImportRequest{FilePath: path, Year: 2023})
	require.NoError(t, err)
	require.Len(t, mock.Payments, 1)
	assert.Equal(t, "MÜLLER", mock.Payments[0].NormalizedName)
	assert.Equal(t, "Völklingen", mock.Payments[0].City)
}

func TestImport_StripsBOM(t *testing.T) {
	path := writeExport(t, "\ufeffName;PLZ\nHof;1\n")
	mock := &store.MockStore{}

	res, err := newTestImporter(mock).Import(context.Background(), ImportRequest{FilePath: path, Year: 2023})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
}

func TestImport_InvalidYearFailsBeforeIO(t *testing.T) {
	mock := &store.MockStore{}
	_, err := newTestImporter(mock).Import(context.Background(),
		ImportRequest{FilePath: "/does/not/exist.csv", Year: 1999})

	var yearErr *parsererror.InvalidYearError
	require.ErrorAs(t, err, &yearErr)
	assert.Equal(t, 1999, yearErr.Year)
}

func TestImport_MissingFile(t *testing.T) {
	_, err := newTestImporter(&store.MockStore{}).Import(context.Background(),
		ImportRequest{FilePath: filepath.Join(t.TempDir(), "missing.csv"), Year: 2023})

	var valErr *parsererror.ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestImport_EmptyFile(t *testing.T) {
	path := writeExport(t, "")
	_, err := newTestImporter(&store.MockStore{}).Import(context.Background(), ImportRequest{FilePath: path, Year: 2023})

	var formatErr *parsererror.InvalidFormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestImport_StoreErrorAborts(t *testing.T) {
	path := writeExport(t, "Name\nA\nB\nC\n")
	boom := errors.New("disk full")
	mock := &store.MockStore{AppendPaymentError: boom, AppendPaymentFailAt: 2}

	res, err := newTestImporter(mock).Import(context.Background(), ImportRequest{FilePath: path, Year: 2023})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, res.Inserted)
	assert.Len(t, mock.Payments, 1)
}

func TestImport_UnsupportedEncoding(t *testing.T) {
	path := writeExport(t, "Name\nA\n")
	im := New(&store.MockStore{}, Options{Encoding: "ebcdic"}, logging.NewDiscardLogger())

	_, err := im.Import(context.Background(), ImportRequest{FilePath: path, Year: 2023})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported input encoding")
}

func TestImport_ReimportDuplicatesUnlessCleared(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	path := writeExport(t, "Name;PLZ;Gemeinde;Gesamtbetrag\nMüller GmbH;12345;Musterstadt;27.000\nSchulze;1;X;1\n")
	im := newTestImporter(s)

	_, err := im.Import(ctx, ImportRequest{FilePath: path, Year: 2023})
	require.NoError(t, err)
	_, err = im.Import(ctx, ImportRequest{FilePath: path, Year: 2023})
	require.NoError(t, err)

	assert.Equal(t, int64(4), storetest.PaymentCount(t, s, 2023))

	deleted, err := im.ClearYear(ctx, 2023)
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)

	res, err := im.Import(ctx, ImportRequest{FilePath: path, Year: 2023})
	require.NoError(t, err)
	_, err = im.Import(ctx, ImportRequest{FilePath: path, Year: 2023, BatchID: "second"})
	require.NoError(t, err)

	deleted, err = im.ClearBatch(ctx, 2023, "second")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	rows, err := s.AggregateBeneficiaries(ctx, 2023)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "MÜLLER", rows[0].NormalizedName)
	assert.Equal(t, int64(1), rows[0].PaymentCount)
	assert.NotEmpty(t, res.BatchID)
}

func TestClear_Validation(t *testing.T) {
	im := newTestImporter(&store.MockStore{})

	_, err := im.ClearBatch(context.Background(), 2023, "")
	require.Error(t, err)

	_, err = im.ClearYear(context.Background(), 3001)
	var yearErr *parsererror.InvalidYearError
	require.ErrorAs(t, err, &yearErr)
}

func TestCanonicalHeader(t *testing.T) {
	assert.Equal(t, "namedesbegünstigten", canonicalHeader(" Name des\tBEGÜNSTIGTEN "))
	assert.Equal(t, "plz", canonicalHeader("\ufeffPLZ"))
}

var _ PaymentStore = (*store.Store)(nil)
var _ PaymentStore = (*store.MockStore)(nil)
