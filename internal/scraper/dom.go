package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cyberpills/avisos/internal/schedule"
	"golang.org/x/net/html"
)

const (
	// Exact attribute match: class="visit done" is not a visit marker
	visitSelector = `[class="visit"]`
	groupSelector = "div.group"
	pillLabel     = "CyberPill:"
)

// parseDOM extracts visits by walking the parsed document.
func parseDOM(content string) ([]schedule.Visit, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	visits := make([]schedule.Visit, 0)

	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		// Only bare <tr> rows carry visits; attributed rows are layout
		if len(tr.Get(0).Attr) > 0 {
			return
		}

		cells := tr.ChildrenFiltered("td")
		if cells.Length() < MinCells {
			skipRow(cells.Length())
			return
		}

		row := schedule.RowContext{
			Date: strings.TrimSpace(cells.Eq(0).Text()),
			Day:  strings.TrimSpace(cells.Eq(1).Text()),
			Time: strings.TrimSpace(cells.Eq(2).Text()),
		}

		cells.Slice(3, goquery.ToEnd).Each(func(_ int, cell *goquery.Selection) {
			cell.Find(visitSelector).Each(func(position int, visit *goquery.Selection) {
				visits = append(visits, domVisit(row, position, visitScope(visit)))
			})
		})
	})

	return visits, nil
}

// visitScope is the visit element plus the sibling elements that follow it up
// to the next visit, so that trailing teacher tags still belong to it.
func visitScope(visit *goquery.Selection) *goquery.Selection {
	return visit.AddSelection(visit.NextUntil(visitSelector))
}

func domVisit(row schedule.RowContext, position int, scope *goquery.Selection) schedule.Visit {
	v := schedule.Visit{
		Row:      row,
		Group:    schedule.UnknownGroup,
		Position: position,
	}

	groupFound := false
	eachIn(scope, groupSelector, func(sel *goquery.Selection) {
		if groupFound {
			return
		}
		groupFound = true
		v.Group = strings.TrimSpace(sel.Text())
	})

	var items []string
	eachIn(scope, "li", func(sel *goquery.Selection) {
		items = append(items, strings.TrimSpace(sel.Text()))
	})
	v.PillBody = strings.Join(items, ". ")

	titleFound := false
	eachIn(scope, "strong", func(sel *goquery.Selection) {
		node := sel.Get(0)
		text := strings.TrimSpace(nodeText(node))

		if !titleFound && text == pillLabel {
			titleFound = true
			v.PillTitle = pillTitle(node)
			return
		}

		if isParenthesized(node) {
			v.Teachers = append(v.Teachers, text)
		}
	})

	return v
}

// eachIn calls fn for every node in scope, or below it, that matches selector,
// in document order.
func eachIn(scope *goquery.Selection, selector string, fn func(*goquery.Selection)) {
	scope.Each(func(_ int, top *goquery.Selection) {
		top.Filter(selector).Each(func(_ int, sel *goquery.Selection) { fn(sel) })
		top.Find(selector).Each(func(_ int, sel *goquery.Selection) { fn(sel) })
	})
}

// pillTitle collects the text following the CyberPill label until the bullet
// list or a nested block starts.
func pillTitle(label *html.Node) string {
	var b strings.Builder
	for n := label.NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && (n.Data == "ul" || n.Data == "div") {
			break
		}
		b.WriteString(nodeText(n))
	}
	return strings.TrimSpace(b.String())
}

// isParenthesized reports whether node sits between "(" and ")" text.
func isParenthesized(node *html.Node) bool {
	prev, next := node.PrevSibling, node.NextSibling
	if prev == nil || next == nil || prev.Type != html.TextNode || next.Type != html.TextNode {
		return false
	}
	return strings.HasSuffix(strings.TrimSpace(prev.Data), "(") &&
		strings.HasPrefix(strings.TrimSpace(next.Data), ")")
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}
