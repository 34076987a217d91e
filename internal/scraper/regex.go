package scraper

import (
	"regexp"
	"strings"

	"github.com/cyberpills/avisos/internal/schedule"
)

// visitMarker splits a class cell into visit fragments.
const visitMarker = `class="visit"`

var (
	rowPattern       = regexp.MustCompile(`(?s)<tr>(.*?)</tr>`)
	cellPattern      = regexp.MustCompile(`(?s)<td.*?>(.*?)</td>`)
	groupPattern     = regexp.MustCompile(`<div class="group">(.*?)</div>`)
	pillTitlePattern = regexp.MustCompile(`(?s)<strong>CyberPill:</strong>(.*?)(<ul|</div>)`)
	pillItemPattern  = regexp.MustCompile(`(?s)<li>(.*?)</li>`)
	teacherPattern   = regexp.MustCompile(`\(\s*<strong>(.*?)</strong>\s*\)`)
)

// parseRegex scrapes visits with regular expressions over the raw markup.
func parseRegex(content string) ([]schedule.Visit, error) {
	visits := make([]schedule.Visit, 0)

	for _, rowMatch := range rowPattern.FindAllStringSubmatch(content, -1) {
		cellMatches := cellPattern.FindAllStringSubmatch(rowMatch[1], -1)
		if len(cellMatches) < MinCells {
			skipRow(len(cellMatches))
			continue
		}

		row := schedule.RowContext{
			Date: clean(cellMatches[0][1]),
			Day:  clean(cellMatches[1][1]),
			Time: clean(cellMatches[2][1]),
		}

		for _, cell := range cellMatches[3:] {
			// Everything before the first marker precedes the first visit
			fragments := strings.Split(cell[1], visitMarker)[1:]
			for position, fragment := range fragments {
				visits = append(visits, regexVisit(row, position, fragment))
			}
		}
	}

	return visits, nil
}

func regexVisit(row schedule.RowContext, position int, fragment string) schedule.Visit {
	v := schedule.Visit{
		Row:      row,
		Group:    schedule.UnknownGroup,
		Position: position,
	}

	if m := groupPattern.FindStringSubmatch(fragment); m != nil {
		v.Group = clean(m[1])
	}

	if m := pillTitlePattern.FindStringSubmatch(fragment); m != nil {
		v.PillTitle = clean(m[1])
	}

	items := pillItemPattern.FindAllStringSubmatch(fragment, -1)
	texts := make([]string, 0, len(items))
	for _, item := range items {
		texts = append(texts, clean(item[1]))
	}
	v.PillBody = strings.Join(texts, ". ")

	for _, m := range teacherPattern.FindAllStringSubmatch(fragment, -1) {
		v.Teachers = append(v.Teachers, clean(m[1]))
	}

	return v
}
