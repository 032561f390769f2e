// Package linkify splits display text into literal and link fragments.
package linkify

import "regexp"

// Matches absolute http(s) URLs and service-local paths under /api/ or /e/,
// greedy up to the next whitespace or quoting/bracket character.
var linkPattern = regexp.MustCompile(`https?://[^\s"'<>]+|/(?:api|e)/[^\s"'<>]+`)

// Fragment is one piece of a linkified string.
type Fragment struct {
	Text   string
	IsLink bool
}

// Split scans text left to right and returns an ordered sequence of plain
// and link fragments. The split is lossless: concatenating the fragment
// texts reproduces the input exactly. Adjacent matches stay distinct
// fragments.
func Split(text string) []Fragment {
	var fragments []Fragment
	last := 0
	for _, m := range linkPattern.FindAllStringIndex(text, -1) {
		if m[0] > last {
			fragments = append(fragments, Fragment{Text: text[last:m[0]]})
		}
		fragments = append(fragments, Fragment{Text: text[m[0]:m[1]], IsLink: true})
		last = m[1]
	}
	if last < len(text) {
		fragments = append(fragments, Fragment{Text: text[last:]})
	}
	return fragments
}
