package medianame

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// romanRe matches Roman numerals II-IX preceded by a space. Standalone "I"
// and "X" are excluded: "I Robot" and "American History X" are titles, not
// sequence numbers. Start-of-string matches are excluded for the same reason.
var romanRe = regexp.MustCompile(`(?i) (ii|iii|iv|v|vi|vii|viii|ix)\b`)

var romanArabic = map[string]string{
	"ii": "2", "iii": "3", "iv": "4", "v": "5",
	"vi": "6", "vii": "7", "viii": "8", "ix": "9",
}

// CleanTitle normalizes a title for matching: lowercase, accents stripped,
// Roman numerals II-IX converted to digits, leading articles removed, and
// all punctuation reduced to single spaces. Matching operates on the output
// of this function on both sides, so the exact shape only has to be stable,
// not pretty.
func CleanTitle(title string) string {
	s := strings.ToLower(title)

	s = romanRe.ReplaceAllStringFunc(s, func(m string) string {
		if d, ok := romanArabic[strings.TrimSpace(m)]; ok {
			return " " + d
		}
		return m
	})

	s = stripAccents(s)
	s = strings.ReplaceAll(s, "&", " and ")

	// Subtitle separators carry leading articles of their own
	// ("Leon: The Professional").
	parts := strings.Split(s, ":")
	for i, p := range parts {
		parts[i] = trimArticle(strings.TrimSpace(p))
	}
	s = strings.Join(parts, " ")

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func stripAccents(s string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(chain, s)
	if err != nil {
		return s
	}
	return out
}

func trimArticle(s string) string {
	for _, art := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(s, art) {
			return strings.TrimPrefix(s, art)
		}
	}
	return s
}

// stopWords are excluded from keyword overlap comparisons.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "with": {}, "is": {}, "it": {},
	"its": {}, "by": {}, "from": {},
}

// Keywords returns the significant tokens of a title after normalization,
// with stop-words removed. Used for keyword-overlap scoring.
func Keywords(title string) []string {
	var out []string
	for _, tok := range strings.Fields(CleanTitle(title)) {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}
