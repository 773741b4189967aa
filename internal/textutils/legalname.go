// Package textutils provides the text canonicalization shared by the importer
// and the matcher.
package textutils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// legalSuffixes holds legal-entity tokens in canonical form (uppercase, dots
// removed). They are dropped only at the end of a name.
var legalSuffixes = map[string]struct{}{
	"GMBH": {},
	"MBH":  {},
	"KG":   {},
	"KGAA": {},
	"EG":   {},
	"GBR":  {},
	"AG":   {},
	"OHG":  {},
	"UG":   {},
	"EV":   {},
}

// NormalizeLegalName returns the canonical key for a legal name: NFC
// composed, uppercase, trailing legal-entity suffixes and "& Co." compounds
// removed, trailing commas and semicolons dropped from every word, whitespace
// collapsed and trimmed.
//
// NormalizeLegalName(NormalizeLegalName(x)) == NormalizeLegalName(x).
func NormalizeLegalName(raw string) string {
	upper := norm.NFC.String(strings.ToUpper(raw))
	upper = strings.ReplaceAll(upper, "&", " & ")

	tokens := cleanTokens(strings.Fields(upper))
	return strings.Join(dropTrailingSuffixes(tokens), " ")
}

// cleanTokens strips separators glued to words ("MÜLLER," becomes "MÜLLER")
// and drops tokens made of punctuation only.
func cleanTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if canonicalToken(tok) == "" {
			continue
		}
		out = append(out, strings.TrimRight(tok, ",;"))
	}
	return out
}

func canonicalToken(token string) string {
	t := strings.Trim(token, ",;.")
	return strings.ReplaceAll(t, ".", "")
}

// dropTrailingSuffixes removes legal-form tokens and "& CO" pairs from the end
// of the name until the last word is neither. "GMBH & CO. KG" goes entirely.
func dropTrailingSuffixes(tokens []string) []string {
	for n := len(tokens); n > 0; n = len(tokens) {
		last := canonicalToken(tokens[n-1])
		if _, ok := legalSuffixes[last]; ok {
			tokens = tokens[:n-1]
			continue
		}
		if last == "CO" && n >= 2 && tokens[n-2] == "&" {
			tokens = tokens[:n-2]
			continue
		}
		break
	}
	return tokens
}
