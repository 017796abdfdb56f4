package adapters

import (
	"strings"
	"unicode"

	"github.com/de-tools/activity-atlas/pkg/models/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var naturePrefixes = []struct {
	prefix   string
	category domain.Category
}{
	{prefix: "cit", category: domain.CategoryCitation},
	{prefix: "int", category: domain.CategorySummons},
}

// ClassifyNature maps a natureza value to its category by prefix, ignoring case and accents.
func ClassifyNature(nature string) domain.Category {
	folded := FoldText(nature)
	for _, np := range naturePrefixes {
		if strings.HasPrefix(folded, np.prefix) {
			return np.category
		}
	}
	return domain.CategoryOther
}

// FoldText strips diacritics, surrounding space and case, so "  Intimação" becomes "intimacao".
func FoldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return cases.Fold().String(out)
}
