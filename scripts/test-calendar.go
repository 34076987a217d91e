package main

import (
	"fmt"
	"os"
	"time"

	"github.com/cyberpills/avisos/internal/calendar"
	"github.com/cyberpills/avisos/internal/render"
	"github.com/cyberpills/avisos/internal/schedule"
	"github.com/cyberpills/avisos/internal/scraper"
)

func main() {
	input := "internal/scraper/testdata/index.html"
	if len(os.Args) > 1 {
		input = os.Args[1]
	}

	sc, err := scraper.New(scraper.EngineDOM)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	visits, err := sc.ParseFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", input, err)
		os.Exit(1)
	}

	report := render.Build(schedule.BuildIndex(visits), nil)
	events, skipped := calendar.Events(report)
	icsContent := calendar.GenerateBulkICS(events, calendar.DefaultName, time.Now())

	filename := "test-avisos.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated calendar file: %s (%d visits, %d without a date)\n\n", filename, len(events), skipped)
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
