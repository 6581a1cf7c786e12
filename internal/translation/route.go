package translation

import (
	"fmt"
	"strings"
)

// DefaultRoute is used when neither an expression nor route.default is set.
const DefaultRoute = "en:es"

// Route is an ordered list of language codes. Consecutive codes form hops.
type Route []string

// Hops returns the number of translation steps of the route.
func (r Route) Hops() int {
	if len(r) < 2 {
		return 0
	}
	return len(r) - 1
}

// String formats the route as "en -> es -> de".
func (r Route) String() string {
	return strings.Join(r, " -> ")
}

// Source returns the first language of the route.
func (r Route) Source() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// Target returns the last language of the route.
func (r Route) Target() string {
	if len(r) == 0 {
		return ""
	}
	return r[len(r)-1]
}

// ParseRouteExpression turns "a:b[:c...]" into its codes. A single code X
// means X:en, and an empty expression falls back to defaultRoute (or
// DefaultRoute when that is empty as well).
func ParseRouteExpression(expr, defaultRoute string) ([]string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		expr = strings.TrimSpace(defaultRoute)
	}
	if expr == "" {
		expr = DefaultRoute
	}

	if !strings.Contains(expr, ":") {
		return []string{expr, "en"}, nil
	}

	codes := strings.Split(expr, ":")
	for i, code := range codes {
		codes[i] = strings.TrimSpace(code)
		if codes[i] == "" {
			return nil, fmt.Errorf("%w: empty language code in %q", ErrInvalidRoute, expr)
		}
	}
	return codes, nil
}
