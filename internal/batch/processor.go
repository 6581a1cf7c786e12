package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// routePattern matches a route expression such as "en", "en:de" or
// "pt_BR:en:zh-Hant"
var routePattern = regexp.MustCompile(`^[a-z]{2,3}([-_][A-Za-z0-9]+)?(:[a-z]{2,3}([-_][A-Za-z0-9]+)?)*$`)

// Entry is one text to translate
type Entry struct {
	// Line is the 1-based line number in the batch file
	Line int
	// Route is the route expression of the line, empty for the default route
	Route string
	Text  string
}

// ReadBatchFile reads texts from a file and returns Entry slice
// Supports formats:
// - Text only: "Hello friend" (translated over the default route)
// - With route: "en:de = Hello friend"
// Empty lines and lines starting with '#' are skipped.
func ReadBatchFile(filename string) ([]Entry, error) {
	f, err := os.Open(filename) //nolint:gosec // user supplied batch file
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()

	entries, err := ReadBatch(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return entries, nil
}

// ReadBatch parses batch entries from r
func ReadBatch(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		route, text := splitRoute(line)
		if text == "" {
			// Ignore lines with a route but no text
			continue
		}

		entries = append(entries, Entry{
			Line:  lineNo,
			Route: route,
			Text:  text,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// splitRoute splits "ROUTE = TEXT". When the part before the first '=' is
// not a route expression the whole line is text.
func splitRoute(line string) (route, text string) {
	left, right, found := strings.Cut(line, "=")
	if !found {
		return "", line
	}

	left = strings.TrimSpace(left)
	if !routePattern.MatchString(left) {
		return "", line
	}
	return left, strings.TrimSpace(right)
}
