package llm

import (
	"fmt"

	"github.com/astrobot/horoscopebot/internal/locale"
)

// DefaultSystemInstruction is used when the configuration sets none.
const DefaultSystemInstruction = "You are a professional astrologer and psychologist who creates personalized, authentic horoscopes."

// Indexed verbs: name, birthdate, zodiac, sex, profession, hobbies, date.
var promptTemplates = map[locale.Language]string{
	locale.LT: `Tu esi patyręs astrologas ir psichologas, kuris kuria asmeninius horoskopus. Sukurk natūralų, autentišką horoskopą šiandienai.

Apie %[1]s:
- Vardas: %[1]s
- Gimimo data: %[2]s
- Zodiako ženklas: %[3]s
- Lytis: %[4]s
- Profesija: %[5]s
- Pomėgiai: %[6]s
- Šiandienos data: %[7]s

Instrukcijos:
- Sukurk 4-6 sakinius, natūraliai sujungtus
- Pradėk nuo šiandienos energijos
- Įtrauk %[3]s ženklo charakteristikas ir energiją
- Pateik praktinių patarimų
- Būk optimistiškas, bet realistiškas
- Naudok natūralų, šiltą toną
- Venk banalybių ir bendrų frazių
- Pritaikyk prie %[1]s asmenybės ir gyvenimo situacijos
- Rašyk lietuviškai

Horoskopas:`,

	locale.EN: `You are an experienced astrologer and psychologist who creates personal horoscopes. Create a natural, authentic horoscope for today.

About %[1]s:
- Name: %[1]s
- Birth date: %[2]s
- Zodiac sign: %[3]s
- Gender: %[4]s
- Profession: %[5]s
- Hobbies: %[6]s
- Today's date: %[7]s

Instructions:
- Write 4-6 naturally connected sentences
- Start with today's energy
- Include the characteristics and energy of the %[3]s sign
- Give practical advice
- Be optimistic but realistic
- Use a natural, warm tone
- Avoid banality and generic phrases
- Adapt it to %[1]s's personality and life situation
- Write in English

Horoscope:`,

	locale.RU: `Ты опытный астролог и психолог, который создаёт личные гороскопы. Создай естественный, аутентичный гороскоп на сегодня.

О %[1]s:
- Имя: %[1]s
- Дата рождения: %[2]s
- Знак зодиака: %[3]s
- Пол: %[4]s
- Профессия: %[5]s
- Хобби: %[6]s
- Сегодняшняя дата: %[7]s

Инструкции:
- Напиши 4-6 естественно связанных предложений
- Начни с энергии сегодняшнего дня
- Включи характеристики и энергию знака %[3]s
- Дай практические советы
- Будь оптимистичным, но реалистичным
- Используй естественный, тёплый тон
- Избегай банальностей и общих фраз
- Адаптируй к личности и жизненной ситуации %[1]s
- Пиши на русском языке

Гороскоп:`,

	locale.LV: `Tu esi pieredzējis astrologs un psihologs, kurš veido personīgus horoskopus. Izveido dabisku, autentisku horoskopu šodienai.

Par %[1]s:
- Vārds: %[1]s
- Dzimšanas datums: %[2]s
- Zodiaka zīme: %[3]s
- Dzimums: %[4]s
- Profesija: %[5]s
- Hobiji: %[6]s
- Šodienas datums: %[7]s

Instrukcijas:
- Izveido 4-6 dabiski saistītus teikumus
- Sāc ar šodienas enerģiju
- Iekļauj %[3]s zīmes īpašības un enerģiju
- Sniedz praktiskus padomus
- Esi optimistisks, bet reālistisks
- Izmanto dabisku, siltu toni
- Izvairies no banalitātēm un vispārīgām frāzēm
- Pielāgo %[1]s personībai un dzīves situācijai
- Raksti latviešu valodā

Horoskops:`,
}

// BuildPrompt renders the user prompt in the request language. Unknown
// languages use the Lithuanian template.
func BuildPrompt(req Request) string {
	tmpl, ok := promptTemplates[req.Language]
	if !ok {
		tmpl = promptTemplates[locale.LT]
	}
	return fmt.Sprintf(tmpl, req.Name, req.Birthdate, req.Zodiac, req.Sex, req.Profession, req.Hobbies, req.Date)
}
