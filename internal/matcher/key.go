package matcher

import (
	"strings"

	"fjacquet/agri-potential/internal/textutils"
)

const keySeparator = "|"

// Key builds the composite match key of a legal identity. It returns "" when
// the name normalizes to nothing, since such identities never match.
func Key(name, postalCode, city string) string {
	normalized := textutils.NormalizeLegalName(name)
	if normalized == "" {
		return ""
	}
	return strings.Join([]string{
		normalized,
		strings.TrimSpace(postalCode),
		strings.ToUpper(strings.TrimSpace(city)),
	}, keySeparator)
}
