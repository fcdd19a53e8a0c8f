package docsite

import (
	"strings"
)

// TOCLabel is the static label rendered above every table of contents.
const TOCLabel = "Table of content"

// Heading represents a heading element inside a page's content region.
type Heading struct {
	Level    int    `json:"level"`
	Text     string `json:"text"`
	Position int    `json:"position"` // Index in document order
}

// NavEntry is a single link in a table of contents.
type NavEntry struct {
	Text   string `json:"text"`
	Anchor string `json:"anchor"`
}

// Href returns the same-document link target for the entry.
func (e NavEntry) Href() string {
	return "#" + e.Anchor
}

// Assignment records the anchor identifier to set on the heading at Position.
type Assignment struct {
	Position int    `json:"position"`
	Anchor   string `json:"anchor"`
}

// TOC is the navigation list generated for a single page.
// Entries and Assignments follow heading document order.
type TOC struct {
	Label       string       `json:"label"`
	Entries     []NavEntry   `json:"entries"`
	Assignments []Assignment `json:"assignments"`
}

// Duplicates returns the anchors that are shared by more than one entry,
// in order of first occurrence. Links to a duplicated anchor always scroll
// to the first heading carrying it.
func (t *TOC) Duplicates() []string {
	if t == nil {
		return nil
	}

	counts := make(map[string]int, len(t.Entries))
	var dups []string
	for _, e := range t.Entries {
		counts[e.Anchor]++
		if counts[e.Anchor] == 2 {
			dups = append(dups, e.Anchor)
		}
	}
	return dups
}

// BuildTOC maps a page's headings to a table of contents.
// It returns false without building anything when the page is excluded.
// Level 1 headings are skipped; duplicate texts produce duplicate anchors.
func BuildTOC(page PageInfo, headings []Heading, rules ExclusionRules) (*TOC, bool) {
	if rules.Excludes(page.Path, page.Title) {
		return nil, false
	}

	toc := &TOC{
		Label:       TOCLabel,
		Entries:     make([]NavEntry, 0, len(headings)),
		Assignments: make([]Assignment, 0, len(headings)),
	}

	for _, h := range headings {
		if h.Level < 2 {
			continue
		}
		anchor := Slugify(h.Text)
		toc.Entries = append(toc.Entries, NavEntry{Text: h.Text, Anchor: anchor})
		toc.Assignments = append(toc.Assignments, Assignment{Position: h.Position, Anchor: anchor})
	}

	return toc, true
}

// Slugify derives an anchor identifier from heading text.
// The text is lower-cased, every character other than ASCII word
// characters and spaces is dropped, then each space becomes a hyphen.
// Runs of spaces are not collapsed: "FAQ & Tips" yields "faq--tips".
func Slugify(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteByte('-')
		}
	}

	return sb.String()
}
