package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"hilal/internal/domain"
	"hilal/internal/usecase/dispatch"
	"hilal/internal/usecase/schedule"
)

var (
	headerColor  = color.New(color.FgHiBlack)
	nextColor    = color.New(color.FgGreen, color.Bold)
	missingColor = color.New(color.FgRed)
)

// printTable печатает дни строками, времена столбцами. Ближайшее время выделяется.
func printTable(w io.Writer, days []domain.Schedule, settings domain.Settings, now time.Time) {
	if len(days) == 0 {
		return
	}
	next, hasNext := schedule.NextPrayer(days[0], domain.Schedule{}, now)

	title := fmt.Sprintf("%s  %s  %s", settings.Method, settings.Madhab, days[0].Location)
	if h, err := schedule.HijriOf(days[0].Date); err == nil {
		title += "  " + h.Format(settings.Language)
	}
	fmt.Fprintln(w, title)
	header := []string{fmt.Sprintf("%-10s", "date")}
	for _, p := range domain.AllPrayers {
		header = append(header, fmt.Sprintf("%-9s", p.Title(settings.Language)))
	}
	headerColor.Fprintln(w, strings.TrimRight(strings.Join(header, " "), " "))

	for _, day := range days {
		fmt.Fprintf(w, "%-10s", day.Date)
		for _, p := range domain.AllPrayers {
			pt := day.Times[p]
			cell := fmt.Sprintf(" %-9s", schedule.FormatPrayerTime(pt, settings.TimeFormat))
			switch {
			case !pt.Available:
				missingColor.Fprint(w, cell)
			case hasNext && next.Date == day.Date && next.Prayer == p:
				nextColor.Fprint(w, cell)
			default:
				fmt.Fprint(w, cell)
			}
		}
		fmt.Fprintln(w)
	}
}

func printNext(w io.Writer, next schedule.Upcoming, left schedule.Remaining, settings domain.Settings) {
	nextColor.Fprintln(w, dispatch.FormatUpcoming(next, left, settings))
}
