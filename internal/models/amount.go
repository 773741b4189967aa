package models

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// localeAmountPattern accepts German-formatted amounts: optional sign, digits
// with optional "." thousands groups, optional "," decimal part.
var localeAmountPattern = regexp.MustCompile(`^[+-]?(\d{1,3}(\.\d{3})+|\d+)(,\d+)?$`)

// ParseLocaleAmount parses an amount such as "1.234,56" into a decimal.
// Empty or unparseable input yields an invalid (null) NullDecimal, never zero.
func ParseLocaleAmount(raw string) decimal.NullDecimal {
	s := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\t', '€':
			return -1
		}
		return r
	}, raw)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "EUR"), "EUR")

	if s == "" || !localeAmountPattern.MatchString(s) {
		return decimal.NullDecimal{}
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)

	dec, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(dec)
}

// SumNullable adds the valid values. The result is null only when every
// value is null.
func SumNullable(values ...decimal.NullDecimal) decimal.NullDecimal {
	var (
		sum   decimal.Decimal
		valid bool
	)
	for _, v := range values {
		if !v.Valid {
			continue
		}
		sum = sum.Add(v.Decimal)
		valid = true
	}
	if !valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(sum)
}
