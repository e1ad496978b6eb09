package domain

import (
	"strconv"
	"strings"
)

// HijriDate хранит дату по календарю Умм аль-Кура.
type HijriDate struct {
	Year  int
	Month int
	Day   int
}

var hijriMonths = map[Language][12]string{
	LanguageArabic: {
		"محرم", "صفر", "ربيع الأول", "ربيع الآخر", "جمادى الأولى", "جمادى الآخرة",
		"رجب", "شعبان", "رمضان", "شوال", "ذو القعدة", "ذو الحجة",
	},
	LanguageEnglish: {
		"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani", "Jumada al-Ula", "Jumada al-Akhirah",
		"Rajab", "Shaban", "Ramadan", "Shawwal", "Dhu al-Qadah", "Dhu al-Hijjah",
	},
}

// IsZero сообщает, что дата не задана.
func (d HijriDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// MonthName возвращает название месяца. Для неизвестного языка используется арабский.
func (d HijriDate) MonthName(lang Language) string {
	if d.Month < 1 || d.Month > 12 {
		return ""
	}
	names, ok := hijriMonths[lang]
	if !ok {
		names = hijriMonths[LanguageArabic]
	}
	return names[d.Month-1]
}

// Format печатает дату как "Ramadan 1, 1446 AH" или "١ رمضان ١٤٤٦ هـ".
func (d HijriDate) Format(lang Language) string {
	if d.IsZero() {
		return ""
	}
	if lang == LanguageEnglish {
		return d.MonthName(lang) + " " + strconv.Itoa(d.Day) + ", " + strconv.Itoa(d.Year) + " AH"
	}
	return arabicDigits(strconv.Itoa(d.Day)) + " " + d.MonthName(LanguageArabic) + " " + arabicDigits(strconv.Itoa(d.Year)) + " هـ"
}

var arabicDigitReplacer = strings.NewReplacer(
	"0", "٠", "1", "١", "2", "٢", "3", "٣", "4", "٤",
	"5", "٥", "6", "٦", "7", "٧", "8", "٨", "9", "٩",
)

func arabicDigits(s string) string {
	return arabicDigitReplacer.Replace(s)
}
