package translation

import "strings"

// spaceMarker is the SentencePiece word-boundary symbol.
const spaceMarker = "▁"

// entities are replaced in order; "&amp;" is handled before "&lt;" and
// "&gt;", so "&amp;lt;" ends up as "<".
var entities = []struct{ from, to string }{
	{"&apos;", "'"},
	{"&quot;", `"`},
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
}

// DecodeEntities replaces the five XML entities some models emit.
func DecodeEntities(s string) string {
	for _, e := range entities {
		s = strings.ReplaceAll(s, e.from, e.to)
	}
	return s
}

// StripMarkers removes leading word-boundary markers and turns the remaining
// ones into spaces.
func StripMarkers(s string) string {
	s = strings.TrimLeft(s, spaceMarker)
	return strings.ReplaceAll(s, spaceMarker, " ")
}

// TrimTrailing removes trailing whitespace and the punctuation . , ; :
func TrimTrailing(s string) string {
	return strings.TrimRight(s, " \t\n\r\v\f.,;:")
}

// Normalize cleans the decoded output of one hop.
func Normalize(s string) string {
	return StripMarkers(DecodeEntities(s))
}
