package schedule

import (
	"testing"
	"time"

	"hilal/internal/domain"
)

func TestHijriOfKnownDates(t *testing.T) {
	cases := []struct {
		date domain.Date
		want domain.HijriDate
	}{
		// Первый день Рамадана 1446.
		{date: domain.Date{Year: 2025, Month: time.March, Day: 1}, want: domain.HijriDate{Year: 1446, Month: 9, Day: 1}},
		// День Арафа и Ид аль-Адха 1445.
		{date: domain.Date{Year: 2024, Month: time.June, Day: 15}, want: domain.HijriDate{Year: 1445, Month: 12, Day: 9}},
		{date: domain.Date{Year: 2024, Month: time.June, Day: 16}, want: domain.HijriDate{Year: 1445, Month: 12, Day: 10}},
	}
	for _, tc := range cases {
		got, err := HijriOf(tc.date)
		if err != nil {
			t.Fatalf("HijriOf(%s): %v", tc.date, err)
		}
		if got != tc.want {
			t.Fatalf("HijriOf(%s) = %+v, want %+v", tc.date, got, tc.want)
		}
	}
}

func TestHijriFormat(t *testing.T) {
	d := domain.HijriDate{Year: 1446, Month: 9, Day: 1}
	if got := d.Format(domain.LanguageEnglish); got != "Ramadan 1, 1446 AH" {
		t.Fatalf("english = %q", got)
	}
	if got := d.Format(domain.LanguageArabic); got != "١ رمضان ١٤٤٦ هـ" {
		t.Fatalf("arabic = %q", got)
	}
	if got := (domain.HijriDate{}).Format(domain.LanguageEnglish); got != "" {
		t.Fatalf("zero date should format empty, got %q", got)
	}
}
