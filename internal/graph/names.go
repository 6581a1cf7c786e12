package graph

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DisplayName returns the English name of a language code such as "de" or
// "pt_BR". Codes that do not parse as BCP 47 tags are returned unchanged.
func DisplayName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}

	name := display.English.Tags().Name(tag)
	if name == "" {
		return code
	}
	return name
}
