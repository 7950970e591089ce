// Package refdata builds queryable indexes over the AutoCare reference
// catalogs. Construction is pure: rows arrive already parsed, and the built
// indexes are read-only and safe to share across concurrent matches.
package refdata

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// keySeparator joins the fields of a normalized vehicle key.
const keySeparator = "|"

// NormalizeField lowercases, trims and collapses inner whitespace so that
// captured free text and catalog rows normalize identically.
func NormalizeField(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NormalizeKey derives the canonical vehicle lookup key:
// lowercase make|model|year|submodel|engine.
func NormalizeKey(mk, model string, year int, submodel, engine string) string {
	parts := []string{
		NormalizeField(mk),
		NormalizeField(model),
		strconv.Itoa(year),
		NormalizeField(submodel),
		NormalizeField(engine),
	}
	return strings.Join(parts, keySeparator)
}

// ReducedKey derives the fallback key from make+model+year alone, used by the
// fuzzy pass to find entries that agree on the authoritative fields.
func ReducedKey(mk, model string, year int) string {
	parts := []string{
		NormalizeField(mk),
		NormalizeField(model),
		strconv.Itoa(year),
	}
	return strings.Join(parts, keySeparator)
}

// KeyVariants returns the dash-tolerant spellings of a normalized key: one
// with dashes stripped from the model and submodel fields, one with a dash
// inserted at the first letter-digit boundary ("f150" -> "f-150"). The
// canonical key itself is not included.
func KeyVariants(mk, model string, year int, submodel, engine string) []string {
	canonical := NormalizeKey(mk, model, year, submodel, engine)

	variants := make([]string, 0, 2)
	seen := map[string]bool{canonical: true}

	add := func(m, sub string) {
		key := NormalizeKey(mk, m, year, sub, engine)
		if !seen[key] {
			seen[key] = true
			variants = append(variants, key)
		}
	}

	add(stripDashes(model), stripDashes(submodel))
	add(insertDash(model), insertDash(submodel))

	return variants
}

// ReducedKeyVariants returns the dash-tolerant spellings of a reduced key,
// excluding the canonical reduced key itself.
func ReducedKeyVariants(mk, model string, year int) []string {
	canonical := ReducedKey(mk, model, year)

	variants := make([]string, 0, 2)
	seen := map[string]bool{canonical: true}

	for _, m := range []string{stripDashes(model), insertDash(model)} {
		key := ReducedKey(mk, m, year)
		if !seen[key] {
			seen[key] = true
			variants = append(variants, key)
		}
	}
	return variants
}

func stripDashes(s string) string {
	return strings.ReplaceAll(s, "-", "")
}

// insertDash places a dash at the first letter-to-digit boundary of a word
// with no dash already ("f150" -> "f-150"). Strings without such a boundary
// come back unchanged.
func insertDash(s string) string {
	if s == "" || strings.Contains(s, "-") {
		return s
	}
	runes := []rune(s)
	for i := 1; i < len(runes); i++ {
		if unicode.IsLetter(runes[i-1]) && unicode.IsDigit(runes[i]) {
			return string(runes[:i]) + "-" + string(runes[i:])
		}
	}
	return s
}

// NormalizePartName strips every non-alphanumeric rune and lowercases, so
// "Disc Brake Pad-Set" and "disc brake pad set" collide.
func NormalizePartName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// minTokenLength filters noise words out of searchable token sets.
const minTokenLength = 3

// Tokenize splits text into unique normalized tokens of at least three
// characters, sorted for deterministic iteration.
func Tokenize(texts ...string) []string {
	seen := make(map[string]bool)
	for _, text := range texts {
		words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, w := range words {
			if len(w) >= minTokenLength {
				seen[w] = true
			}
		}
	}

	tokens := make([]string, 0, len(seen))
	for t := range seen {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens
}

// vinLength is the structural length of a modern VIN.
const vinLength = 17

// NormalizeVIN uppercases and strips punctuation/whitespace from a captured
// VIN. It does not validate; see ValidVIN.
func NormalizeVIN(vin string) string {
	var b strings.Builder
	b.Grow(len(vin))
	for _, r := range strings.ToUpper(vin) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidVIN reports whether a normalized VIN is structurally valid: exactly 17
// characters drawn from [A-HJ-NPR-Z0-9] (I, O and Q are never issued).
func ValidVIN(vin string) bool {
	if len(vin) != vinLength {
		return false
	}
	for _, r := range vin {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'A' && r <= 'Z' && r != 'I' && r != 'O' && r != 'Q':
		default:
			return false
		}
	}
	return true
}
