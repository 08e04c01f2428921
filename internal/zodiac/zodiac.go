// Package zodiac maps a birth month and day to its tropical zodiac sign.
package zodiac

import (
	"fmt"
	"time"

	"github.com/astrobot/horoscopebot/internal/locale"
)

// Sign is one of the twelve zodiac signs.
type Sign int

// Signs in calendar order starting at the spring equinox.
const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

type signRange struct {
	sign       Sign
	startMonth time.Month
	startDay   int
	endMonth   time.Month
	endDay     int
}

var ranges = []signRange{
	{Aries, time.March, 21, time.April, 19},
	{Taurus, time.April, 20, time.May, 20},
	{Gemini, time.May, 21, time.June, 20},
	{Cancer, time.June, 21, time.July, 22},
	{Leo, time.July, 23, time.August, 22},
	{Virgo, time.August, 23, time.September, 22},
	{Libra, time.September, 23, time.October, 22},
	{Scorpio, time.October, 23, time.November, 21},
	{Sagittarius, time.November, 22, time.December, 21},
	{Capricorn, time.December, 22, time.January, 19},
	{Aquarius, time.January, 20, time.February, 18},
	{Pisces, time.February, 19, time.March, 20},
}

var names = map[Sign]map[locale.Language]string{
	Aries:       {locale.LT: "Avinas", locale.EN: "Aries", locale.RU: "Овен", locale.LV: "Auns"},
	Taurus:      {locale.LT: "Jautis", locale.EN: "Taurus", locale.RU: "Телец", locale.LV: "Vērsis"},
	Gemini:      {locale.LT: "Dvyniai", locale.EN: "Gemini", locale.RU: "Близнецы", locale.LV: "Dvīņi"},
	Cancer:      {locale.LT: "Vėžys", locale.EN: "Cancer", locale.RU: "Рак", locale.LV: "Vēzis"},
	Leo:         {locale.LT: "Liūtas", locale.EN: "Leo", locale.RU: "Лев", locale.LV: "Lauva"},
	Virgo:       {locale.LT: "Mergelė", locale.EN: "Virgo", locale.RU: "Дева", locale.LV: "Jaunava"},
	Libra:       {locale.LT: "Svarstyklės", locale.EN: "Libra", locale.RU: "Весы", locale.LV: "Svari"},
	Scorpio:     {locale.LT: "Skorpionas", locale.EN: "Scorpio", locale.RU: "Скорпион", locale.LV: "Skorpions"},
	Sagittarius: {locale.LT: "Šaulys", locale.EN: "Sagittarius", locale.RU: "Стрелец", locale.LV: "Strēlnieks"},
	Capricorn:   {locale.LT: "Ožiaragis", locale.EN: "Capricorn", locale.RU: "Козерог", locale.LV: "Mežāzis"},
	Aquarius:    {locale.LT: "Vandenis", locale.EN: "Aquarius", locale.RU: "Водолей", locale.LV: "Ūdensvīrs"},
	Pisces:      {locale.LT: "Žuvys", locale.EN: "Pisces", locale.RU: "Рыбы", locale.LV: "Zivis"},
}

// SignFor returns the sign for a month/day pair. The year plays no role.
func SignFor(month time.Month, day int) (Sign, error) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return 0, fmt.Errorf("invalid month/day %d/%d", month, day)
	}
	for _, r := range ranges {
		if (month == r.startMonth && day >= r.startDay) || (month == r.endMonth && day <= r.endDay) {
			return r.sign, nil
		}
	}
	return 0, fmt.Errorf("no sign for month/day %d/%d", month, day)
}

// SignForDate parses a canonical YYYY-MM-DD birthdate and returns its sign.
func SignForDate(isoDate string) (Sign, error) {
	d, err := time.Parse(time.DateOnly, isoDate)
	if err != nil {
		return 0, fmt.Errorf("parse birthdate %q: %w", isoDate, err)
	}
	return SignFor(d.Month(), d.Day())
}

// Name returns the localized name of the sign, falling back to Lithuanian.
func (s Sign) Name(lang locale.Language) string {
	byLang, ok := names[s]
	if !ok {
		return ""
	}
	if n, ok := byLang[lang]; ok {
		return n
	}
	return byLang[locale.LT]
}

// String returns the English name.
func (s Sign) String() string {
	return s.Name(locale.EN)
}
