package translation

import (
	"context"
	"fmt"
	"io"
	"strings"

	"codeberg.org/snonux/lingohop/internal/delegate"
	"codeberg.org/snonux/lingohop/internal/graph"
	"codeberg.org/snonux/lingohop/internal/logging"
	"codeberg.org/snonux/lingohop/internal/packages"
	"codeberg.org/snonux/lingohop/internal/tokenizer"
)

// Config configures a Pipeline
type Config struct {
	PackagesDir  string
	DefaultRoute string
	Loader       delegate.Loader
	Logger       logging.Logger

	// Progress receives the human readable hop report; nil discards it
	Progress io.Writer
}

// Pipeline resolves routes over the installed packages and runs text
// through them. It keeps no state between calls and is safe for concurrent
// use when its Loader is.
type Pipeline struct {
	packagesDir  string
	defaultRoute string
	loader       delegate.Loader
	logger       logging.Logger
	progress     io.Writer
	options      delegate.Options
}

// HopResult records one executed hop
type HopResult struct {
	From      string
	To        string
	Package   string
	Tokenizer tokenizer.Kind
	Output    string
}

// Result is the outcome of a translation
type Result struct {
	Input string
	Route Route
	Hops  []HopResult
	Text  string
}

// NewPipeline creates a pipeline from cfg
func NewPipeline(cfg Config) *Pipeline {
	p := &Pipeline{
		packagesDir:  cfg.PackagesDir,
		defaultRoute: cfg.DefaultRoute,
		loader:       cfg.Loader,
		logger:       cfg.Logger,
		progress:     cfg.Progress,
		options:      delegate.DefaultOptions(),
	}
	if p.loader == nil {
		p.loader = delegate.NewServerLoader("", 0)
	}
	if p.logger == nil {
		p.logger = logging.Discard()
	}
	if p.progress == nil {
		p.progress = io.Discard
	}
	return p
}

// PackagesDir returns the directory the pipeline reads packages from
func (p *Pipeline) PackagesDir() string {
	return p.packagesDir
}

// Graph builds the language graph of the installed packages
func (p *Pipeline) Graph() (*graph.Graph, error) {
	return graph.Build(p.packagesDir)
}

// Translate trims text, parses expr and runs the resulting route
func (p *Pipeline) Translate(ctx context.Context, text, expr string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	codes, err := ParseRouteExpression(expr, p.defaultRoute)
	if err != nil {
		return nil, err
	}

	route, err := p.ResolveRoute(codes)
	if err != nil {
		return nil, err
	}

	return p.Execute(ctx, text, route)
}

// ResolveRoute turns codes into an executable route. Three or more codes are
// used as given. For two codes a direct package is preferred, otherwise the
// shortest chain through the language graph is used.
func (p *Pipeline) ResolveRoute(codes []string) (Route, error) {
	if len(codes) < 2 {
		return nil, fmt.Errorf("%w: need at least two languages, got %d", ErrInvalidRoute, len(codes))
	}

	if len(codes) > 2 {
		route := Route(codes)
		fmt.Fprintf(p.progress, "Chain mode: %s\n", route)
		return route, nil
	}

	from, to := codes[0], codes[1]
	g, err := p.Graph()
	if err != nil {
		return nil, err
	}

	if g.HasDirectPath(from, to) {
		return Route{from, to}, nil
	}

	path := g.FindPath(from, to)
	if path == nil {
		return nil, &NoRouteError{From: from, To: to}
	}

	route := Route(path)
	fmt.Fprintf(p.progress, "Auto-route (%d hops): %s\n", route.Hops(), route)
	p.logger.Info("auto-routed", "from", from, "to", to, "route", route.String())
	return route, nil
}

// Execute runs text through every hop of route. Any failure aborts the chain.
func (p *Pipeline) Execute(ctx context.Context, text string, route Route) (*Result, error) {
	if len(route) == 0 {
		return nil, fmt.Errorf("%w: empty route", ErrInvalidRoute)
	}

	result := &Result{
		Input: text,
		Route: route,
		Hops:  make([]HopResult, 0, route.Hops()),
	}

	var g *graph.Graph
	if route.Hops() > 0 {
		var err error
		if g, err = p.Graph(); err != nil {
			return nil, err
		}
	}

	current := text
	for i := 0; i < route.Hops(); i++ {
		hop, err := p.runHop(ctx, g, i+1, route[i], route[i+1], current)
		if err != nil {
			return nil, err
		}
		result.Hops = append(result.Hops, *hop)
		current = hop.Output
	}

	result.Text = TrimTrailing(current)
	if result.Text == "" {
		return nil, &TranslationFailedError{Route: route}
	}

	return result, nil
}

func (p *Pipeline) runHop(ctx context.Context, g *graph.Graph, n int, from, to, text string) (*HopResult, error) {
	fmt.Fprintf(p.progress, "Hop %d: %s -> %s\n", n, from, to)

	name := g.PackageFor(from, to)
	if name == "" {
		return nil, &MissingPackageError{Hop: n, From: from, To: to}
	}

	log := p.logger.With("hop", n, "from", from, "to", to, "package", name)
	fmt.Fprintf(p.progress, "  Loading: %s\n", name)
	log.Debug("loading package")

	pkg, err := packages.Inspect(p.packagesDir, name)
	if err != nil {
		return nil, &ModelLoadError{Hop: n, Package: name, Err: err}
	}

	tok, err := tokenizer.Open(pkg.Dir)
	if err != nil {
		return nil, &ModelLoadError{Hop: n, Package: name, Err: err}
	}

	d, err := p.loader.Load(ctx, delegate.Hop{
		From:      from,
		To:        to,
		Package:   name,
		ModelDir:  pkg.ModelDir,
		Tokenizer: tok,
	})
	if err != nil {
		return nil, &ModelLoadError{Hop: n, Package: name, Err: err}
	}
	defer d.Close()

	tokens := tok.Encode(text)
	log.Debug("translating", "tokenizer", tok.Kind().String(), "tokens", len(tokens))

	out, err := d.TranslateBatch(ctx, [][]string{tokens}, p.options)
	if err != nil {
		return nil, &HopError{Hop: n, From: from, To: to, Package: name, Err: err}
	}

	var decoded string
	if len(out) > 0 {
		decoded = tok.Decode(out[0])
	}
	output := Normalize(decoded)

	fmt.Fprintf(p.progress, "  Result: %s\n", output)
	log.Info("hop finished", "chars", len(output))

	return &HopResult{
		From:      from,
		To:        to,
		Package:   name,
		Tokenizer: tok.Kind(),
		Output:    output,
	}, nil
}
