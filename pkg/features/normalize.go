package features

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics strips combining marks so that accented labels ("Prénom",
// "Teléfono") normalize onto their ASCII keyword forms.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stopWords are dropped during normalization. Short connective words carry no
// class signal and inflate the keyword block otherwise.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "and": {}, "or": {}, "your": {}, "you": {},
	"please": {}, "enter": {}, "is": {}, "are": {}, "do": {}, "if": {},
}

// typoTable corrects misspellings that show up repeatedly in real form
// markup. Applied per token after splitting.
var typoTable = map[string]string{
	"emial":       "email",
	"emali":       "email",
	"phonenumber": "phone",
	"adress":      "address",
	"addres":      "address",
	"adresse":     "address",
	"compny":      "company",
	"comapny":     "company",
	"salry":       "salary",
	"sallary":     "salary",
	"expirience":  "experience",
	"experiance":  "experience",
	"univercity":  "university",
	"collage":     "college",
	"lastname":    "last name",
	"firstname":   "first name",
	"fullname":    "full name",
	"linkdin":     "linkedin",
	"linkedn":     "linkedin",
	"zipcode":     "zip code",
	"postel":      "postal",
}

// NormalizeText lowercases, folds diacritics, splits camelCase and
// underscore/punctuation-joined identifiers into words, fixes common typos
// and drops stop words. Pure and total: any input yields a deterministic
// (possibly empty) result.
func NormalizeText(s string) string {
	return strings.Join(NormalizeWords(s), " ")
}

// NormalizeWords is NormalizeText returning the token slice.
func NormalizeWords(s string) []string {
	if s == "" {
		return nil
	}
	if folded, _, err := transform.String(foldDiacritics, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	prev := rune(0)
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			// camelCase boundary: lower followed by upper starts a new word.
			if unicode.IsUpper(r) && unicode.IsLower(prev) {
				b.WriteByte(' ')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r):
			if unicode.IsLetter(prev) {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
		default:
			// Underscores, hyphens, dots and all other punctuation act as
			// word separators.
			b.WriteByte(' ')
		}
		prev = r
	}

	raw := strings.Fields(b.String())
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		if fixed, ok := typoTable[w]; ok {
			words = append(words, strings.Fields(fixed)...)
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if len(w) == 1 && w[0] >= 'a' && w[0] <= 'z' {
			// Single stray letters are separator debris, but single digits
			// stay (e.g. "address 2").
			continue
		}
		words = append(words, w)
	}
	return words
}
