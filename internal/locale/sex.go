package locale

import "strings"

// Sex is the enumerated sex category of a profile.
type Sex int

// Sex categories.
const (
	Female Sex = iota + 1
	Male
)

// sexTokens holds the canonical stored token of each category per language.
var sexTokens = map[Language]map[Sex]string{
	LT: {Female: "moteris", Male: "vyras"},
	EN: {Female: "woman", Male: "man"},
	RU: {Female: "женщина", Male: "мужчина"},
	LV: {Female: "sieviete", Male: "vīrietis"},
}

// sexSynonyms maps every accepted lower-case spelling to its category.
// Canonical tokens of all languages are accepted regardless of the
// conversation language.
var sexSynonyms = map[string]Sex{
	"moteris": Female, "moteriška": Female,
	"vyras": Male, "vyriška": Male,

	"woman": Female, "female": Female,
	"man": Male, "male": Male,

	"женщина": Female, "женский": Female,
	"мужчина": Male, "мужской": Male,

	"sieviete": Female, "sievietes": Female,
	"vīrietis": Male, "virietis": Male,
}

// ParseSex matches s case-insensitively against the synonym list.
func ParseSex(s string) (Sex, bool) {
	sex, ok := sexSynonyms[strings.ToLower(strings.TrimSpace(s))]
	return sex, ok
}

// Token returns the canonical stored token of the category in lang.
func (s Sex) Token(lang Language) string {
	byLang, ok := sexTokens[lang]
	if !ok {
		byLang = sexTokens[LT]
	}
	return byLang[s]
}

// CanonicalSexTokens lists every token that may be stored in a profile.
func CanonicalSexTokens() []string {
	tokens := make([]string, 0, len(sexTokens)*2)
	for _, lang := range Supported {
		tokens = append(tokens, sexTokens[lang][Female], sexTokens[lang][Male])
	}
	return tokens
}
