package scraper

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cyberpills/avisos/internal/logger"
	"github.com/cyberpills/avisos/internal/schedule"
	"golang.org/x/net/html"
)

// Engine selects the extraction strategy.
type Engine string

const (
	EngineDOM   Engine = "dom"
	EngineRegex Engine = "regex"
)

// MinCells is the number of cells a row needs: date, day, time and at least
// one class column.
const MinCells = 4

// ErrNotFound is returned when the schedule file does not exist.
var ErrNotFound = errors.New("schedule file not found")

// Known authoring defects and their fixes, applied before extraction.
var malformedFixes = []struct{ old, new string }{
	{"</div< /td>", "</div></td>"},
}

// Scraper extracts visits from schedule HTML
type Scraper struct {
	engine Engine
	parse  func(content string) ([]schedule.Visit, error)
}

// New creates a Scraper for the given engine. An empty engine selects the DOM engine.
func New(engine Engine) (*Scraper, error) {
	s := &Scraper{engine: engine}
	switch engine {
	case EngineDOM, "":
		s.engine = EngineDOM
		s.parse = parseDOM
	case EngineRegex:
		s.parse = parseRegex
	default:
		return nil, fmt.Errorf("unknown extraction engine: %q", engine)
	}
	return s, nil
}

// Engine returns the engine in use.
func (s *Scraper) Engine() Engine {
	return s.engine
}

// ParseFile reads and parses a schedule file.
func (s *Scraper) ParseFile(path string) ([]schedule.Visit, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("opening schedule: %w", err)
	}
	defer file.Close()

	return s.ParseReader(file)
}

// ParseReader parses schedule HTML from r.
func (s *Scraper) ParseReader(r io.Reader) ([]schedule.Visit, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}
	return s.Parse(string(data))
}

// Parse extracts visits in document order.
func (s *Scraper) Parse(content string) ([]schedule.Visit, error) {
	visits, err := s.parse(FixMalformed(content))
	if err != nil {
		return nil, err
	}

	logger.AddCounter("visits.parsed", int64(len(visits)))
	logger.Debug("Parsed schedule", logger.Fields{
		"engine": string(s.engine),
		"visits": len(visits),
	})
	return visits, nil
}

// FixMalformed repairs known malformed markup.
func FixMalformed(content string) string {
	for _, fix := range malformedFixes {
		content = strings.ReplaceAll(content, fix.old, fix.new)
	}
	return content
}

// clean returns the text of a markup fragment: tags dropped, entities
// unescaped, surrounding whitespace trimmed.
func clean(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(html.UnescapeString(s))
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

func skipRow(cells int) {
	logger.IncrCounter("rows.skipped")
	logger.Debug("Skipping row", logger.Fields{"cells": cells, "min_cells": MinCells})
}
