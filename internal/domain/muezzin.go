package domain

import "strings"

// DefaultMuezzin используется для неизвестных идентификаторов голоса.
const DefaultMuezzin = "makkah"

// Muezzin описывает запись азана из библиотеки голосов.
type Muezzin struct {
	ID        string
	NameAr    string
	NameEn    string
	AudioFile string
}

var muezzins = map[string]Muezzin{
	"makkah":     {ID: "makkah", NameAr: "أذان المسجد الحرام", NameEn: "Masjid Al-Haram (Makkah)", AudioFile: "makkah.mp3"},
	"madinah":    {ID: "madinah", NameAr: "أذان المسجد النبوي", NameEn: "Masjid An-Nabawi (Madinah)", AudioFile: "madinah.mp3"},
	"mishary":    {ID: "mishary", NameAr: "مشاري العفاسي", NameEn: "Mishary Alafasy", AudioFile: "mishary.mp3"},
	"kurtishi":   {ID: "kurtishi", NameAr: "مولانا كورش", NameEn: "Mevlan Kurtishi", AudioFile: "Mevlan Kurtishi.mp3"},
	"abdulbasit": {ID: "abdulbasit", NameAr: "عبد الباسط عبد الصمد", NameEn: "Abdul Basit Abdus-Samad", AudioFile: "abdulbasit.mp3"},
	"husary":     {ID: "husary", NameAr: "محمود خليل الحصري", NameEn: "Mahmoud Al-Husary", AudioFile: "husary.mp3"},
	"minshawi":   {ID: "minshawi", NameAr: "محمد صديق المنشاوي", NameEn: "Muhammad Al-Minshawi", AudioFile: "minshawi.mp3"},
}

// MuezzinFor возвращает голос по идентификатору, неизвестные значения дают голос Мекки.
func MuezzinFor(id string) Muezzin {
	if m, ok := muezzins[strings.ToLower(strings.TrimSpace(id))]; ok {
		return m
	}
	return muezzins[DefaultMuezzin]
}

// Name возвращает название голоса на нужном языке.
func (m Muezzin) Name(lang Language) string {
	if lang == LanguageEnglish {
		return m.NameEn
	}
	return m.NameAr
}

var prayerTitles = map[Language][PrayerCount]string{
	LanguageArabic:  {"الفجر", "الشروق", "الظهر", "العصر", "المغرب", "العشاء"},
	LanguageEnglish: {"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"},
}

// Title возвращает название времени на нужном языке. Для неизвестного языка используется арабский.
func (p Prayer) Title(lang Language) string {
	if !p.Valid() {
		return p.String()
	}
	titles, ok := prayerTitles[lang]
	if !ok {
		titles = prayerTitles[LanguageArabic]
	}
	return titles[p]
}
