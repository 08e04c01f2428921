package registration

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/astrobot/horoscopebot/internal/locale"
)

// State is the position of a conversation in the ordered field list.
type State int

// Conversation states. AskLanguage through AskHobbies index fields.
const (
	Idle State = iota - 1
	AskLanguage
	AskName
	AskSex
	AskBirthdate
	AskProfession
	AskHobbies
	Complete
)

var stateNames = map[State]string{
	Idle:          "idle",
	AskLanguage:   "ask_language",
	AskName:       "ask_name",
	AskSex:        "ask_sex",
	AskBirthdate:  "ask_birthdate",
	AskProfession: "ask_profession",
	AskHobbies:    "ask_hobbies",
	Complete:      "complete",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Field length limits, counted in runes of the trimmed answer.
const (
	minTextLen       = 2
	maxNameLen       = 100
	maxProfessionLen = 200
	maxHobbiesLen    = 500
	minBirthYear     = 1900
)

// normalizeFunc validates raw input and returns its canonical form.
// lang is the conversation language at the time of the answer.
type normalizeFunc func(raw string, lang locale.Language, now time.Time) (string, bool)

// field bundles everything the conversation needs to ask for and accept one value.
type field struct {
	name      string
	question  locale.Key
	invalid   locale.Key
	normalize normalizeFunc
}

// fields is indexed by State.
var fields = []field{
	AskLanguage:   {name: "language", question: locale.QuestionLanguage, invalid: locale.ErrorLanguage, normalize: normalizeLanguage},
	AskName:       {name: "name", question: locale.QuestionName, invalid: locale.ErrorName, normalize: textNormalizer(minTextLen, maxNameLen, false)},
	AskSex:        {name: "sex", question: locale.QuestionSex, invalid: locale.ErrorSex, normalize: normalizeSex},
	AskBirthdate:  {name: "birthdate", question: locale.QuestionBirthdate, invalid: locale.ErrorBirthdate, normalize: normalizeBirthdate},
	AskProfession: {name: "profession", question: locale.QuestionProfession, invalid: locale.ErrorProfession, normalize: textNormalizer(minTextLen, maxProfessionLen, false)},
	AskHobbies:    {name: "hobbies", question: locale.QuestionHobbies, invalid: locale.ErrorHobbies, normalize: textNormalizer(minTextLen, maxHobbiesLen, true)},
}

func normalizeLanguage(raw string, _ locale.Language, _ time.Time) (string, bool) {
	lang, ok := locale.ParseLanguage(raw)
	if !ok {
		return "", false
	}
	return string(lang), true
}

func normalizeSex(raw string, lang locale.Language, _ time.Time) (string, bool) {
	sex, ok := locale.ParseSex(raw)
	if !ok {
		return "", false
	}
	return sex.Token(lang), true
}

// textNormalizer enforces the length limits on the trimmed input, then
// collapses whitespace. Input over maxLen is truncated, unless strict is set,
// in which case it is rejected.
func textNormalizer(minLen, maxLen int, strict bool) normalizeFunc {
	return func(raw string, _ locale.Language, _ time.Time) (string, bool) {
		n := utf8.RuneCountInString(strings.TrimSpace(raw))
		if n < minLen || (strict && n > maxLen) {
			return "", false
		}
		s := strings.Join(strings.Fields(raw), " ")
		if utf8.RuneCountInString(s) > maxLen {
			s = truncateRunes(s, maxLen)
		}
		return s, true
	}
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return strings.TrimSpace(s[:pos])
		}
		i++
	}
	return s
}

// birthdateLayouts are tried in order. Day-first forms use dots or dashes;
// the slash form with the year last is read month-first.
var birthdateLayouts = []string{
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
	"02.01.2006",
	"02-01-2006",
	"01/02/2006",
	"2.1.2006",
	"1/2/2006",
}

// CanonicalDate is the stored birthdate and delivery-stamp layout.
const CanonicalDate = "2006-01-02"

func normalizeBirthdate(raw string, _ locale.Language, now time.Time) (string, bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range birthdateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() < minBirthYear {
			return "", false
		}
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if t.After(today) {
			return "", false
		}
		return t.Format(CanonicalDate), true
	}
	return "", false
}
