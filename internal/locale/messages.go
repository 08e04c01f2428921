package locale

// Key identifies one user-facing message.
type Key string

// Registration questions.
const (
	QuestionLanguage   Key = "question_language"
	QuestionName       Key = "question_name"
	QuestionSex        Key = "question_sex"
	QuestionBirthdate  Key = "question_birthdate"
	QuestionProfession Key = "question_profession"
	QuestionHobbies    Key = "question_hobbies"
)

// Registration validation errors.
const (
	ErrorLanguage   Key = "error_language"
	ErrorName       Key = "error_name"
	ErrorSex        Key = "error_sex"
	ErrorBirthdate  Key = "error_birthdate"
	ErrorProfession Key = "error_profession"
	ErrorHobbies    Key = "error_hobbies"
)

// Conversation and command replies.
const (
	Welcome              Key = "welcome"
	Great                Key = "great"
	RegistrationComplete Key = "registration_complete"
	AlreadyRegistered    Key = "already_registered"
	RateLimited          Key = "rate_limited"
	ErrorTryAgain        Key = "error_try_again"
	SaveFailed           Key = "save_failed"
	Cancelled            Key = "cancelled"
	NoConversation       Key = "no_conversation"
	ResetDone            Key = "reset_done"
	NotRegistered        Key = "not_registered"
	Generating           Key = "generating"
	HoroscopeHeader      Key = "horoscope_header"
	HoroscopeFallback    Key = "horoscope_fallback"
	ProfileCard          Key = "profile_card"
	Help                 Key = "help"
	NotAuthorized        Key = "not_authorized"
	DeliveryStarted      Key = "delivery_started"
	DeliveryFinished     Key = "delivery_finished"
	DBStatus             Key = "db_status"
)

var messages = map[Key]map[Language]string{
	QuestionLanguage: {
		LT: "🇱🇹 Rašyk LT lietuviškai\n🇬🇧 Type EN for English\n🇷🇺 Напиши RU по-русски\n🇱🇻 Raksti LV latviešu valodā",
		EN: "🇱🇹 Type LT for Lithuanian\n🇬🇧 Type EN for English\n🇷🇺 Type RU for Russian\n🇱🇻 Type LV for Latvian",
		RU: "🇱🇹 Напиши LT для литовского\n🇬🇧 Напиши EN для английского\n🇷🇺 Напиши RU для русского\n🇱🇻 Напиши LV для латышского",
		LV: "🇱🇹 Raksti LT lietuviešu valodā\n🇬🇧 Raksti EN angļu valodā\n🇷🇺 Raksti RU krievu valodā\n🇱🇻 Raksti LV latviešu valodā",
	},
	QuestionName: {
		LT: "Koks tavo vardas?",
		EN: "What is your name?",
		RU: "Как вас зовут?",
		LV: "Kāds ir jūsu vārds?",
	},
	QuestionSex: {
		LT: "Kokia tavo lytis? (moteris/vyras)",
		EN: "What is your gender? (woman/man)",
		RU: "Какой у вас пол? (женщина/мужчина)",
		LV: "Kāds ir jūsu dzimums? (sieviete/vīrietis)",
	},
	QuestionBirthdate: {
		LT: "Kokia tavo gimimo data? (pvz.: 1979-05-04)",
		EN: "What is your birth date? (e.g.: 1979-05-04)",
		RU: "Какая у вас дата рождения? (например: 1979-05-04)",
		LV: "Kāds ir jūsu dzimšanas datums? (piemēram: 1979-05-04)",
	},
	QuestionProfession: {
		LT: "Kokia tavo profesija?",
		EN: "What is your profession?",
		RU: "Какая у вас профессия?",
		LV: "Kāda ir jūsu profesija?",
	},
	QuestionHobbies: {
		LT: "Kokie tavo pomėgiai?",
		EN: "What are your hobbies?",
		RU: "Какие у вас хобби?",
		LV: "Kādi ir jūsu hobiji?",
	},

	ErrorLanguage: {
		LT: "Pasirink vieną iš: LT, EN, RU arba LV:",
		EN: "Choose one of: LT, EN, RU or LV:",
		RU: "Выберите один из: LT, EN, RU или LV:",
		LV: "Izvēlieties vienu no: LT, EN, RU vai LV:",
	},
	ErrorName: {
		LT: "Vardas turi būti bent 2 simbolių ilgio. Bandyk dar kartą:",
		EN: "Name must be at least 2 characters long. Try again:",
		RU: "Имя должно содержать не менее 2 символов. Попробуйте еще раз:",
		LV: "Vārdam jābūt vismaz 2 rakstzīmju garam. Mēģiniet vēlreiz:",
	},
	ErrorSex: {
		LT: "Pasirink: moteris arba vyras:",
		EN: "Choose: woman or man:",
		RU: "Выберите: женщина или мужчина:",
		LV: "Izvēlieties: sieviete vai vīrietis:",
	},
	ErrorBirthdate: {
		LT: "Neteisinga data! Naudok formatą YYYY-MM-DD (pvz.: 1990-05-15) arba 15.05.1990:",
		EN: "Invalid date! Use YYYY-MM-DD (e.g.: 1990-05-15), 15.05.1990 or 05/15/1990:",
		RU: "Неверная дата! Используйте формат YYYY-MM-DD (например: 1990-05-15) или 15.05.1990:",
		LV: "Nepareizs datums! Izmantojiet formātu YYYY-MM-DD (piemēram: 1990-05-15) vai 15.05.1990:",
	},
	ErrorProfession: {
		LT: "Profesija turi būti bent 2 simbolių ilgio. Bandyk dar kartą:",
		EN: "Profession must be at least 2 characters long. Try again:",
		RU: "Профессия должна содержать не менее 2 символов. Попробуйте еще раз:",
		LV: "Profesijai jābūt vismaz 2 rakstzīmju garai. Mēģiniet vēlreiz:",
	},
	ErrorHobbies: {
		LT: "Pomėgiai turi būti 2-500 simbolių ilgio. Bandyk dar kartą:",
		EN: "Hobbies must be 2-500 characters long. Try again:",
		RU: "Хобби должны содержать 2-500 символов. Попробуйте еще раз:",
		LV: "Hobijiem jābūt 2-500 rakstzīmju garam. Mēģiniet vēlreiz:",
	},

	Welcome: {
		LT: "Labas! Aš esu tavo asmeninis horoskopų botukas 🌟\n\nAtsakyk į kelis klausimus, kad galėčiau pritaikyti horoskopą būtent tau.",
		EN: "Hello! I'm your personal horoscope bot 🌟\n\nAnswer a few questions so I can personalize your horoscope.",
		RU: "Привет! Я твой личный бот-гороскоп 🌟\n\nОтветь на несколько вопросов, чтобы я мог составить персональный гороскоп для тебя.",
		LV: "Sveiki! Esmu tavs personīgais horoskopu bots 🌟\n\nAtbildi uz dažiem jautājumiem, lai es varētu personalizēt tavu horoskopu.",
	},
	Great: {
		LT: "Puiku! 🌟",
		EN: "Great! 🌟",
		RU: "Отлично! 🌟",
		LV: "Lieliski! 🌟",
	},
	RegistrationComplete: {
		LT: "Puiku, %s! 🎉\n\nTavo profilis sukurtas! Nuo šiol kiekvieną rytą 07:30 (Lietuvos laiku) gausi savo asmeninį horoskopą! 🌞\n\nGali naudoti:\n• /horoscope - Gauti horoskopą bet kada\n• /profile - Peržiūrėti savo profilį\n• /help - Pagalba",
		EN: "Great, %s! 🎉\n\nYour profile has been created! From now on, every morning at 07:30 (Lithuanian time) you'll receive your personal horoscope! 🌞\n\nYou can use:\n• /horoscope - Get horoscope anytime\n• /profile - View your profile\n• /help - Help",
		RU: "Отлично, %s! 🎉\n\nВаш профиль создан! Отныне каждое утро в 07:30 (литовское время) вы будете получать свой личный гороскоп! 🌞\n\nВы можете использовать:\n• /horoscope - Получить гороскоп в любое время\n• /profile - Посмотреть профиль\n• /help - Помощь",
		LV: "Lieliski, %s! 🎉\n\nJūsu profils ir izveidots! No šī brīža katru rītu plkst. 07:30 (Lietuvas laiks) jūs saņemsiet savu personīgo horoskopu! 🌞\n\nJūs varat izmantot:\n• /horoscope - Saņemt horoskopu jebkurā laikā\n• /profile - Apskatīt savu profilu\n• /help - Palīdzība",
	},
	AlreadyRegistered: {
		LT: "Labas, %s! 🌟\n\nTu jau esi užsiregistravęs! Gali:\n• /horoscope - Gauti šiandienos horoskopą\n• /profile - Peržiūrėti savo profilį\n• /reset - Ištrinti duomenis ir registruotis iš naujo\n• /help - Pagalba",
		EN: "Hello, %s! 🌟\n\nYou are already registered! You can:\n• /horoscope - Get today's horoscope\n• /profile - View your profile\n• /reset - Delete your data and register again\n• /help - Help",
		RU: "Привет, %s! 🌟\n\nВы уже зарегистрированы! Вы можете:\n• /horoscope - Получить сегодняшний гороскоп\n• /profile - Посмотреть профиль\n• /reset - Удалить данные и зарегистрироваться заново\n• /help - Помощь",
		LV: "Sveiki, %s! 🌟\n\nJūs jau esat reģistrējies! Jūs varat:\n• /horoscope - Saņemt šodienas horoskopu\n• /profile - Apskatīt savu profilu\n• /reset - Dzēst datus un reģistrēties no jauna\n• /help - Palīdzība",
	},
	RateLimited: {
		LT: "⏳ Palaukite %d sekundės prieš siųsdami kitą žinutę.",
		EN: "⏳ Please wait %d seconds before sending another message.",
		RU: "⏳ Пожалуйста, подождите %d секунд перед отправкой следующего сообщения.",
		LV: "⏳ Lūdzu, gaidiet %d sekundes pirms nosūtīt nākamo ziņojumu.",
	},
	ErrorTryAgain: {
		LT: "Atsiprašau, įvyko klaida. Bandyk dar kartą.",
		EN: "Sorry, an error occurred. Please try again.",
		RU: "Извините, произошла ошибка. Попробуйте еще раз.",
		LV: "Atvainojiet, radās kļūda. Lūdzu, mēģiniet vēlreiz.",
	},
	SaveFailed: {
		LT: "Atsiprašau, įvyko klaida registracijos metu. Naudok /reset ir pradėk iš naujo.",
		EN: "Sorry, an error occurred during registration. Use /reset and start again.",
		RU: "Извините, во время регистрации произошла ошибка. Используйте /reset и начните заново.",
		LV: "Atvainojiet, reģistrācijas laikā radās kļūda. Izmantojiet /reset un sāciet no jauna.",
	},
	Cancelled: {
		LT: "Registracija atšaukta. Naudok /start, jei nori pradėti iš naujo.",
		EN: "Registration cancelled. Use /start if you want to begin again.",
		RU: "Регистрация отменена. Используйте /start, чтобы начать заново.",
		LV: "Reģistrācija atcelta. Izmantojiet /start, lai sāktu no jauna.",
	},
	NoConversation: {
		LT: "Naudok /start registracijai arba /help pagalbai.",
		EN: "Use /start to register or /help for help.",
		RU: "Используйте /start для регистрации или /help для помощи.",
		LV: "Izmantojiet /start reģistrācijai vai /help palīdzībai.",
	},
	ResetDone: {
		LT: "✅ Duomenys ištrinti! Naudok /start, kad pradėtum registraciją iš naujo.",
		EN: "✅ Your data has been deleted! Use /start to register again.",
		RU: "✅ Данные удалены! Используйте /start, чтобы зарегистрироваться заново.",
		LV: "✅ Dati dzēsti! Izmantojiet /start, lai reģistrētos no jauna.",
	},
	NotRegistered: {
		LT: "Jūs dar neesate užsiregistravę! Naudokite /start komandą registracijai.",
		EN: "You are not registered yet! Use the /start command to register.",
		RU: "Вы еще не зарегистрированы! Используйте команду /start для регистрации.",
		LV: "Jūs vēl neesat reģistrējies! Izmantojiet /start komandu reģistrācijai.",
	},
	Generating: {
		LT: "🔮 Generuoju jūsų asmeninį horoskopą...",
		EN: "🔮 Generating your personal horoscope...",
		RU: "🔮 Генерирую ваш личный гороскоп...",
		LV: "🔮 Ģenerēju jūsu personīgo horoskopu...",
	},
	HoroscopeHeader: {
		LT: "🌟 %s, jūsų horoskopas šiandienai:\n\n%s",
		EN: "🌟 %s, your horoscope for today:\n\n%s",
		RU: "🌟 %s, ваш гороскоп на сегодня:\n\n%s",
		LV: "🌟 %s, jūsu horoskops šodienai:\n\n%s",
	},
	HoroscopeFallback: {
		LT: "Atsiprašau, nepavyko sugeneruoti horoskopo. Bandykite vėliau.",
		EN: "Sorry, couldn't generate your horoscope. Please try again later.",
		RU: "Извините, не удалось сгенерировать гороскоп. Попробуйте позже.",
		LV: "Atvainojiet, neizdevās ģenerēt horoskopu. Mēģiniet vēlāk.",
	},
	ProfileCard: {
		LT: "🌟 Jūsų profilis:\n\n👤 Vardas: %s\n📅 Gimimo data: %s\n♈ Zodiako ženklas: %s\n🌍 Kalba: %s\n👔 Profesija: %s\n🎯 Pomėgiai: %s\n⚧ Lytis: %s\n📝 Registracijos data: %s",
		EN: "🌟 Your profile:\n\n👤 Name: %s\n📅 Birth date: %s\n♈ Zodiac sign: %s\n🌍 Language: %s\n👔 Profession: %s\n🎯 Hobbies: %s\n⚧ Gender: %s\n📝 Registered: %s",
		RU: "🌟 Ваш профиль:\n\n👤 Имя: %s\n📅 Дата рождения: %s\n♈ Знак зодиака: %s\n🌍 Язык: %s\n👔 Профессия: %s\n🎯 Хобби: %s\n⚧ Пол: %s\n📝 Дата регистрации: %s",
		LV: "🌟 Jūsu profils:\n\n👤 Vārds: %s\n📅 Dzimšanas datums: %s\n♈ Zodiaka zīme: %s\n🌍 Valoda: %s\n👔 Profesija: %s\n🎯 Hobiji: %s\n⚧ Dzimums: %s\n📝 Reģistrācijas datums: %s",
	},
	Help: {
		LT: "🌟 Horoskopų botas - pagalba\n\nKomandos:\n• /start - Pradėti registraciją\n• /horoscope - Gauti asmeninį horoskopą\n• /profile - Peržiūrėti profilį\n• /cancel - Atšaukti registraciją\n• /reset - Ištrinti duomenis ir pradėti iš naujo\n• /help - Ši pagalba\n\nRegistracija: kalba, vardas, lytis, gimimo data, profesija, pomėgiai.\nKiekvieną rytą 07:30 (Lietuvos laiku) gausite asmeninį horoskopą.",
		EN: "🌟 Horoscope bot - help\n\nCommands:\n• /start - Start registration\n• /horoscope - Get your personal horoscope\n• /profile - View your profile\n• /cancel - Cancel registration\n• /reset - Delete your data and start over\n• /help - This help\n\nRegistration asks for language, name, gender, birth date, profession and hobbies.\nEvery morning at 07:30 (Lithuanian time) you receive a personal horoscope.",
		RU: "🌟 Бот-гороскоп - помощь\n\nКоманды:\n• /start - Начать регистрацию\n• /horoscope - Получить личный гороскоп\n• /profile - Посмотреть профиль\n• /cancel - Отменить регистрацию\n• /reset - Удалить данные и начать заново\n• /help - Эта справка\n\nРегистрация: язык, имя, пол, дата рождения, профессия, хобби.\nКаждое утро в 07:30 (литовское время) вы получаете личный гороскоп.",
		LV: "🌟 Horoskopu bots - palīdzība\n\nKomandas:\n• /start - Sākt reģistrāciju\n• /horoscope - Saņemt personīgo horoskopu\n• /profile - Apskatīt profilu\n• /cancel - Atcelt reģistrāciju\n• /reset - Dzēst datus un sākt no jauna\n• /help - Šī palīdzība\n\nReģistrācija: valoda, vārds, dzimums, dzimšanas datums, profesija, hobiji.\nKatru rītu plkst. 07:30 (Lietuvas laiks) jūs saņemat personīgo horoskopu.",
	},

	NotAuthorized: {
		LT: "Atsiprašau, ši komanda prieinama tik administratoriams.",
		EN: "Sorry, this command is available to administrators only.",
	},
	DeliveryStarted: {
		LT: "📤 Siunčiu šiandienos horoskopus...",
		EN: "📤 Sending today's horoscopes...",
	},
	DeliveryFinished: {
		LT: "✅ Išsiuntimas baigtas: laukė %d, išsiųsta %d, nepavyko %d.",
		EN: "✅ Delivery finished: due %d, sent %d, failed %d.",
	},
	DBStatus: {
		LT: "✅ Duomenų bazė veikia\n📊 Vartotojų: %d\n🟢 Aktyvių: %d\n📬 Šiandien gavo: %d",
		EN: "✅ Database is healthy\n📊 Users: %d\n🟢 Active: %d\n📬 Delivered today: %d",
	},
}
