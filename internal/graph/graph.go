package graph

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Pair is a directed language pair served by one installed package.
type Pair struct {
	From string
	To   string
}

// Graph is a directed graph of installed language pairs.
type Graph struct {
	// edges lists the languages reachable from a language, in discovery order
	edges map[string][]string

	// packages maps a language pair to the package directory serving it
	packages map[Pair]string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		edges:    make(map[string][]string),
		packages: make(map[Pair]string),
	}
}

// Build scans packagesDir and adds one edge per package directory whose name
// parses as a language pair. A missing directory yields an empty graph.
//
// Entries are visited in lexicographic order, so when two packages claim the
// same pair the one with the smallest directory name wins.
func Build(packagesDir string) (*Graph, error) {
	g := New()

	entries, err := os.ReadDir(packagesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return g, nil
		}
		return nil, fmt.Errorf("failed to read packages directory: %w", err)
	}

	for _, entry := range entries {
		if !isDir(packagesDir, entry) {
			continue
		}

		from, to, ok := ParsePackageName(entry.Name())
		if !ok {
			continue
		}
		g.Add(from, to, entry.Name())
	}

	return g, nil
}

// isDir reports whether entry is a directory, following symlinks.
func isDir(parent string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, entry.Name()))
	return err == nil && info.IsDir()
}

// ParsePackageName extracts the language pair from a package directory name.
// Accepted forms are "translate-SRC_TGT-suffix" and "SRC_TGT".
func ParsePackageName(name string) (from, to string, ok bool) {
	var found bool
	if _, langPart, prefixed := strings.Cut(name, "translate-"); prefixed {
		var rest string
		if from, rest, found = strings.Cut(langPart, "_"); !found {
			return "", "", false
		}
		to, _, _ = strings.Cut(rest, "-")
	} else if from, to, found = strings.Cut(name, "_"); !found {
		return "", "", false
	}

	return from, to, from != "" && to != ""
}

// Add registers pkg as the package translating from -> to. The first package
// registered for a pair is kept.
func (g *Graph) Add(from, to, pkg string) {
	key := Pair{From: from, To: to}
	if _, exists := g.packages[key]; exists {
		return
	}
	g.packages[key] = pkg
	g.edges[from] = append(g.edges[from], to)
}

// FindPath returns the shortest chain of languages from -> to, both inclusive.
// Neighbors are explored in discovery order, so ties resolve to the first
// discovered route. It returns nil when to is unreachable.
func (g *Graph) FindPath(from, to string) []string {
	if from == to {
		return []string{from}
	}

	parent := map[string]string{}
	visited := map[string]bool{from: true}
	queue := []string{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == to {
			return reconstruct(parent, from, to)
		}

		for _, neighbor := range g.edges[current] {
			if visited[neighbor] {
				continue
			}
			visited[neighbor] = true
			parent[neighbor] = current
			queue = append(queue, neighbor)
		}
	}

	return nil
}

func reconstruct(parent map[string]string, from, to string) []string {
	path := []string{to}
	for node := to; node != from; {
		node = parent[node]
		path = append(path, node)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Languages returns every language appearing on either end of an edge, sorted.
func (g *Graph) Languages() []string {
	seen := make(map[string]bool)
	for from, targets := range g.edges {
		seen[from] = true
		for _, to := range targets {
			seen[to] = true
		}
	}

	languages := make([]string, 0, len(seen))
	for lang := range seen {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	return languages
}

// Pairs returns the installed pairs sorted by source then target.
func (g *Graph) Pairs() []Pair {
	pairs := make([]Pair, 0, len(g.packages))
	for p := range g.packages {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].From != pairs[j].From {
			return pairs[i].From < pairs[j].From
		}
		return pairs[i].To < pairs[j].To
	})
	return pairs
}

// HasDirectPath reports whether a package translates from -> to directly.
func (g *Graph) HasDirectPath(from, to string) bool {
	_, ok := g.packages[Pair{From: from, To: to}]
	return ok
}

// PackageFor returns the package directory name for from -> to, or "".
func (g *Graph) PackageFor(from, to string) string {
	return g.packages[Pair{From: from, To: to}]
}
