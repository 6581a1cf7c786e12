package packages

import (
	"fmt"
	"io"
	"os"

	"codeberg.org/snonux/lingohop/internal/graph"
)

// Lister prints the installed packages of a packages directory
type Lister struct {
	dir string
	out io.Writer
}

// NewLister creates a new package lister writing to stdout
func NewLister(dir string) *Lister {
	return &Lister{
		dir: dir,
		out: os.Stdout,
	}
}

// SetOutput redirects the listing
func (l *Lister) SetOutput(w io.Writer) {
	l.out = w
}

// ListInstalled prints all installed packages grouped by source language
func (l *Lister) ListInstalled() error {
	if l.dir == "" {
		return fmt.Errorf("packages directory not set. Use --packages or configure packages.dir in .lingohop.yaml")
	}

	pkgs, err := List(l.dir)
	if err != nil {
		return fmt.Errorf("failed to list packages: %w", err)
	}

	fmt.Fprintf(l.out, "Installed packages in %s:\n", l.dir)
	if len(pkgs) == 0 {
		fmt.Fprintln(l.out, "  No packages found")
		return nil
	}

	source := ""
	for _, pkg := range pkgs {
		if pkg.From != source {
			source = pkg.From
			fmt.Fprintf(l.out, "\nFrom %s (%s):\n", graph.DisplayName(source), source)
		}

		line := fmt.Sprintf("  -> %-4s %s [%s]", pkg.To, pkg.Name, pkg.TokenizerKind)
		if v := pkg.Version(); v != "" {
			line += " v" + v
		}
		fmt.Fprintln(l.out, line)
	}

	fmt.Fprintf(l.out, "\n%d package(s)\n", len(pkgs))
	return nil
}
