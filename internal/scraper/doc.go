// Package scraper extracts CyberPill visits from the hand-maintained schedule HTML.
//
// The schedule is a single table whose rows carry the date, weekday and time slot
// in their first three cells, followed by one cell per class column. Each class
// cell may hold several visits (elements with class="visit"); a visit names its
// group, the CyberPill title and bullet list, and the teachers present as
// "(<strong>Name</strong>)".
//
// Two engines are available. The DOM engine walks the tree parsed by goquery;
// the regex engine reproduces the marker-splitting scraper used by earlier
// tooling and is kept for parity checks. Both tolerate the known authoring
// defect "</div< /td>" and silently skip rows and cells that do not match the
// expected shape.
package scraper
