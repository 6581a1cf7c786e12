package packages

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"

	"codeberg.org/snonux/lingohop/internal/graph"
	"codeberg.org/snonux/lingohop/internal/tokenizer"
)

const (
	// ModelDirName is the directory inside a package holding the model.
	ModelDirName = "model"

	// MetadataFile is the optional Argos package description.
	MetadataFile = "metadata.json"
)

// Metadata is the subset of metadata.json lingohop reads.
type Metadata struct {
	PackageVersion string `json:"package_version"`
	ArgosVersion   string `json:"argos_version"`
	FromCode       string `json:"from_code"`
	FromName       string `json:"from_name"`
	ToCode         string `json:"to_code"`
	ToName         string `json:"to_name"`
	Type           string `json:"type"`
}

// Package describes one installed package directory.
type Package struct {
	Name          string
	Dir           string
	From          string
	To            string
	ModelDir      string
	TokenizerPath string
	TokenizerKind tokenizer.Kind
	Metadata      *Metadata
}

// Inspect resolves the files of the package called name inside packagesDir.
// It fails when the package directory is missing; a missing model directory
// or tokenizer file is left for the loader to report.
func Inspect(packagesDir, name string) (*Package, error) {
	dir := filepath.Join(packagesDir, name)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect package %s: %w", name, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("package %s is not a directory", name)
	}

	from, to, _ := graph.ParsePackageName(name)
	pkg := &Package{
		Name:          name,
		Dir:           dir,
		From:          from,
		To:            to,
		ModelDir:      filepath.Join(dir, ModelDirName),
		TokenizerPath: tokenizer.ModelPath(dir),
	}
	pkg.TokenizerKind = tokenizer.New(pkg.TokenizerPath).Kind()

	meta, err := readMetadata(filepath.Join(dir, MetadataFile))
	if err != nil {
		return nil, err
	}
	pkg.Metadata = meta

	return pkg, nil
}

func readMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is inside the package directory
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &meta, nil
}

// Version returns the package version from metadata.json, or "" when the
// package has none.
func (p *Package) Version() string {
	if p.Metadata == nil {
		return ""
	}
	return p.Metadata.PackageVersion
}

// List inspects every package directory in packagesDir whose name parses as
// a language pair, sorted by name. A missing packagesDir yields no packages.
func List(packagesDir string) ([]*Package, error) {
	entries, err := os.ReadDir(packagesDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read packages directory: %w", err)
	}

	var pkgs []*Package
	for _, entry := range entries {
		if _, _, ok := graph.ParsePackageName(entry.Name()); !ok {
			continue
		}
		info, err := os.Stat(filepath.Join(packagesDir, entry.Name()))
		if err != nil || !info.IsDir() {
			continue
		}
		pkg, err := Inspect(packagesDir, entry.Name())
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, pkg)
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Name < pkgs[j].Name })
	return pkgs, nil
}
