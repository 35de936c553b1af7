package resolver

import (
	"strings"
	"unicode"
)

// ToModuleName converts a class name in capitalized-compound form to the
// module-lookup convention: XmlToCsvParser -> xml_to_csv_parser,
// HTMLParserV2 -> html_parser_v2. A separator is inserted before an
// uppercase letter that follows a lowercase letter or digit, and before the
// last capital of an acronym run when a lowercase letter follows it. The
// conversion is idempotent.
func ToModuleName(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/4)
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		if i > 0 {
			prev := runes[i-1]
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextIsLower) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
