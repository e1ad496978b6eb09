package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"hilal/internal/domain"
	"hilal/internal/infra/config"
	"hilal/internal/usecase/schedule"
)

var (
	dateFlag = flag.String("date", "", "Start date YYYY-MM-DD (default: today)")
	daysFlag = flag.Int("days", 1, "Number of days to print (1-31)")
	nextFlag = flag.Bool("next", false, "Print only the next prayer and the countdown")
	noColor  = flag.Bool("no-color", false, "Disable colored output")
)

func main() {
	flag.Parse()
	if *noColor {
		color.NoColor = true
	}
	if err := run(time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, "prayertimes:", err)
		os.Exit(1)
	}
}

func run(now time.Time) error {
	cfg, err := config.Read()
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	svc, err := schedule.NewService(zerolog.Nop(), settings)
	if err != nil {
		return err
	}

	if *nextFlag {
		next, left, err := svc.Next(now)
		if err != nil {
			return err
		}
		printNext(os.Stdout, next, left, settings)
		return nil
	}

	if *daysFlag < 1 || *daysFlag > 31 {
		return fmt.Errorf("days must be between 1 and 31, got %d", *daysFlag)
	}
	start := domain.DateOf(now.In(settings.Location))
	if *dateFlag != "" {
		start, err = domain.ParseDate(*dateFlag)
		if err != nil {
			return err
		}
	}
	days := make([]domain.Schedule, 0, *daysFlag)
	for i := 0; i < *daysFlag; i++ {
		sched, err := svc.ForDate(start.AddDays(i))
		if err != nil {
			return err
		}
		days = append(days, sched)
	}
	printTable(os.Stdout, days, settings, now)
	return nil
}
