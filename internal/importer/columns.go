package importer

import (
	"strings"
	"unicode"
)

// Column is a logical field of a payment export.
type Column string

// Logical payment export columns.
const (
	ColumnName               Column = "beneficiary_name"
	ColumnPostalCode         Column = "postal_code"
	ColumnCity               Column = "city"
	ColumnRegion             Column = "region"
	ColumnMeasureCode        Column = "measure_code"
	ColumnMeasureDescription Column = "measure_description"
	ColumnAmountEGFL         Column = "amount_egfl"
	ColumnAmountELER         Column = "amount_eler"
	ColumnAmountCofinancing  Column = "amount_cofinancing"
	ColumnAmountTotal        Column = "amount_total"
)

// columnAliases lists, per logical column, the header names seen across the
// yearly releases of the payment export. Earlier aliases take precedence.
var columnAliases = []struct {
	column  Column
	aliases []string
}{
	{ColumnName, []string{
		"Name des Begünstigten/Rechtsträgers/Verbands",
		"Name des Begünstigten",
		"Name_des_Beguenstigten",
		"Begünstigter",
		"Beguenstigter",
		"Name",
		"beneficiary_name",
	}},
	{ColumnPostalCode, []string{"PLZ", "Postleitzahl", "postal_code"}},
	{ColumnCity, []string{"Gemeinde", "Ort", "Wohnort", "city"}},
	{ColumnRegion, []string{"Land", "Bundesland", "Region", "region"}},
	{ColumnMeasureCode, []string{
		"Code der Maßnahme/dem Interventionstyp/des Sektors",
		"Code der Maßnahme",
		"Massnahme_Code",
		"measure_code",
	}},
	{ColumnMeasureDescription, []string{
		"Bezeichnung der Maßnahme/des Interventionstyps/des Sektors",
		"Spezifisches Ziel",
		"Maßnahme",
		"Massnahme",
		"measure_description",
	}},
	{ColumnAmountEGFL, []string{"EGFL-Betrag", "EGFL", "Betrag EGFL", "amount_egfl"}},
	{ColumnAmountELER, []string{"ELER-Betrag", "ELER", "Betrag ELER", "amount_eler"}},
	{ColumnAmountCofinancing, []string{
		"Nationale Kofinanzierung ELER",
		"Kofinanzierung",
		"Nationale Kofinanzierung",
		"amount_cofinancing",
	}},
	{ColumnAmountTotal, []string{
		"Gesamtbetrag",
		"Summe",
		"Betrag gesamt",
		"Gesamt",
		"amount_total",
	}},
}

// canonicalHeader folds case and drops whitespace, so "Name des Begünstigten"
// and "NAME DES  BEGÜNSTIGTEN" resolve the same way.
func canonicalHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, h)
}

// headerMap resolves logical columns to record indices for one file.
type headerMap struct {
	header  []string
	columns map[Column][]int
}

func newHeaderMap(header []string) *headerMap {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := canonicalHeader(h)
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	hm := &headerMap{header: header, columns: make(map[Column][]int, len(columnAliases))}
	for _, entry := range columnAliases {
		for _, alias := range entry.aliases {
			if i, ok := index[canonicalHeader(alias)]; ok {
				hm.columns[entry.column] = append(hm.columns[entry.column], i)
			}
		}
	}
	return hm
}

// has reports whether any alias of the column is present in the header.
func (hm *headerMap) has(c Column) bool {
	return len(hm.columns[c]) > 0
}

// value returns the first non-empty value among the column's aliases.
func (hm *headerMap) value(record []string, c Column) string {
	for _, i := range hm.columns[c] {
		if i >= len(record) {
			continue
		}
		if v := strings.TrimSpace(record[i]); v != "" {
			return v
		}
	}
	return ""
}

// payload maps each header to the record's value for that column.
func (hm *headerMap) payload(record []string) map[string]string {
	p := make(map[string]string, len(hm.header))
	for i, h := range hm.header {
		if i < len(record) {
			p[strings.TrimPrefix(h, "\ufeff")] = record[i]
		}
	}
	return p
}
