// Package locale holds the user-facing text of the bot for every supported
// language, keyed by (message key, language), together with the language
// and sex enumerations that drive it.
package locale

import (
	"fmt"
	"strings"
)

// Language is an upper-case two-letter code of a supported locale.
type Language string

// Supported languages.
const (
	LT Language = "LT"
	EN Language = "EN"
	RU Language = "RU"
	LV Language = "LV"
)

// Supported lists the languages in the order they are offered to the user.
var Supported = []Language{LT, EN, RU, LV}

// ParseLanguage matches s case-insensitively against the supported codes.
func ParseLanguage(s string) (Language, bool) {
	code := Language(strings.ToUpper(strings.TrimSpace(s)))
	if code.Valid() {
		return code, true
	}
	return "", false
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	for _, s := range Supported {
		if l == s {
			return true
		}
	}
	return false
}

// Table is the localization table. It is built once and read concurrently.
type Table struct {
	fallback Language
	messages map[Key]map[Language]string
}

// NewTable returns the built-in table. Lookups for a language that has no
// entry fall back to the given language and then to English.
func NewTable(fallback Language) *Table {
	if !fallback.Valid() {
		fallback = LT
	}
	return &Table{fallback: fallback, messages: messages}
}

// Fallback returns the language used before the user has chosen one.
func (t *Table) Fallback() Language {
	return t.fallback
}

// Text renders the message for key in lang. Args are applied with fmt
// verbs when present. An unknown key renders as the key itself.
func (t *Table) Text(key Key, lang Language, args ...any) string {
	byLang, ok := t.messages[key]
	if !ok {
		return string(key)
	}

	tmpl, ok := byLang[lang]
	if !ok {
		tmpl, ok = byLang[t.fallback]
	}
	if !ok {
		tmpl, ok = byLang[EN]
	}
	if !ok {
		return string(key)
	}

	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
