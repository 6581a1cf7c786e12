package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"

	"codeberg.org/snonux/lingohop/internal/archive"
	"codeberg.org/snonux/lingohop/internal/batch"
	"codeberg.org/snonux/lingohop/internal/cli"
	"codeberg.org/snonux/lingohop/internal/delegate"
	"codeberg.org/snonux/lingohop/internal/graph"
	"codeberg.org/snonux/lingohop/internal/history"
	"codeberg.org/snonux/lingohop/internal/logging"
	"codeberg.org/snonux/lingohop/internal/packages"
	"codeberg.org/snonux/lingohop/internal/server"
	"codeberg.org/snonux/lingohop/internal/translation"
)

// Processor handles the main translation logic
type Processor struct {
	flags    *cli.Flags
	pipeline *translation.Pipeline
	history  *history.Store
	backend  string
	logger   logging.Logger

	in  io.Reader
	out io.Writer
}

// NewProcessor creates a processor from the viper configuration
func NewProcessor(ctx context.Context, flags *cli.Flags) (*Processor, error) {
	logger := cli.GetLogger()

	cfg := cli.GetDelegateConfig(logger)
	loader, err := delegate.NewLoader(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pipeline := translation.NewPipeline(translation.Config{
		PackagesDir:  cli.GetPackagesDir(),
		DefaultRoute: viper.GetString("route.default"),
		Loader:       loader,
		Logger:       logger,
		Progress:     os.Stdout,
	})

	var store *history.Store
	if cli.HistoryEnabled(flags) {
		store, err = history.Open(cli.GetHistoryPath())
		if err != nil {
			// Translation works without history
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			store = nil
		}
	}

	return newProcessor(flags, pipeline, store, cfg.Backend, logger), nil
}

func newProcessor(flags *cli.Flags, pipeline *translation.Pipeline, store *history.Store, backend string, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Processor{
		flags:    flags,
		pipeline: pipeline,
		history:  store,
		backend:  backend,
		logger:   logger,
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// Close releases the history database
func (p *Processor) Close() error {
	if p.history == nil {
		return nil
	}
	return p.history.Close()
}

// ProcessText translates the text given by args, --text or stdin.
//
// With two arguments the first is the text and the second the route. A single
// argument containing ':' is a route and the text is read from stdin.
func (p *Processor) ProcessText(ctx context.Context, args []string) error {
	text, expr, err := p.resolveInput(args)
	if err != nil {
		return err
	}

	result, err := p.pipeline.Translate(ctx, text, expr)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Final translation: %s\n", result.Text)
	p.record(ctx, result)
	return nil
}

// resolveInput returns the text and route expression of a translation. An
// empty expression selects the pipeline's default route.
func (p *Processor) resolveInput(args []string) (text, expr string, err error) {
	switch {
	case len(args) == 2:
		return args[0], args[1], nil
	case len(args) == 1 && p.flags.Text != "":
		return p.flags.Text, args[0], nil
	case len(args) == 1 && !strings.Contains(args[0], ":"):
		return args[0], "", nil
	case len(args) == 1:
		expr = args[0]
	case p.flags.Text != "":
		return p.flags.Text, "", nil
	}

	data, err := io.ReadAll(p.in)
	if err != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), expr, nil
}

func (p *Processor) record(ctx context.Context, result *translation.Result) {
	if p.history == nil {
		return
	}
	if _, err := p.history.Record(ctx, history.EntryFor(result, p.backend)); err != nil {
		p.logger.Warn("failed to record history", "error", err)
	}
}

// ProcessBatch translates every entry of the batch file
func (p *Processor) ProcessBatch(ctx context.Context) error {
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}

	// Track statistics
	translatedCount := 0
	errorCount := 0

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintf(p.out, "\nProcessing %d/%d (line %d): %s\n", i+1, len(entries), entry.Line, entry.Text)

		result, err := p.pipeline.Translate(ctx, entry.Text, entry.Route)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error translating line %d: %v\n", entry.Line, err)
			errorCount++
			// Continue with next entry
			continue
		}

		fmt.Fprintf(p.out, "Final translation: %s\n", result.Text)
		p.record(ctx, result)
		translatedCount++
	}

	// Print summary
	fmt.Fprintf(p.out, "\n=== Batch Translation Summary ===\n")
	fmt.Fprintf(p.out, "Total texts: %d\n", len(entries))
	fmt.Fprintf(p.out, "Translated: %d\n", translatedCount)
	if errorCount > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(p.out, "=================================\n")

	if errorCount > 0 && translatedCount == 0 {
		return fmt.Errorf("all %d batch entries failed", errorCount)
	}
	return nil
}

// ListPackages prints the installed translation packages
func (p *Processor) ListPackages() error {
	lister := packages.NewLister(p.pipeline.PackagesDir())
	lister.SetOutput(p.out)
	return lister.ListInstalled()
}

// ListLanguages prints the languages and direct pairs of the language graph
func (p *Processor) ListLanguages() error {
	g, err := p.pipeline.Graph()
	if err != nil {
		return err
	}

	languages := g.Languages()
	if len(languages) == 0 {
		fmt.Fprintf(p.out, "No packages installed in %s\n", p.pipeline.PackagesDir())
		return nil
	}

	fmt.Fprintf(p.out, "Languages:\n")
	for _, code := range languages {
		fmt.Fprintf(p.out, "  %-6s %s\n", code, graph.DisplayName(code))
	}

	fmt.Fprintf(p.out, "\nDirect pairs:\n")
	for _, pair := range g.Pairs() {
		fmt.Fprintf(p.out, "  %s -> %s  (%s)\n", pair.From, pair.To, g.PackageFor(pair.From, pair.To))
	}
	return nil
}

// ShowRoute prints the chain of packages used to translate from -> to
func (p *Processor) ShowRoute(from, to string) error {
	route, err := p.pipeline.ResolveRoute([]string{strings.TrimSpace(from), strings.TrimSpace(to)})
	if err != nil {
		return err
	}

	if route.Hops() == 0 {
		fmt.Fprintf(p.out, "Route %s needs no translation\n", route)
		return nil
	}

	g, err := p.pipeline.Graph()
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Route: %s\n", route)
	for i := 0; i < route.Hops(); i++ {
		fmt.Fprintf(p.out, "  Hop %d: %s -> %s  (%s)\n", i+1, route[i], route[i+1], g.PackageFor(route[i], route[i+1]))
	}
	return nil
}

// ShowHistory prints recent translations, filtered by search when not empty
func (p *Processor) ShowHistory(ctx context.Context, search string) error {
	if p.history == nil {
		return errors.New("history is disabled")
	}

	var (
		entries []history.Entry
		err     error
	)
	if search != "" {
		entries, err = p.history.Search(ctx, search, p.flags.HistoryLimit)
	} else {
		entries, err = p.history.Recent(ctx, p.flags.HistoryLimit)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintf(p.out, "No translations recorded\n")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(p.out, "%s  %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.RouteString())
		fmt.Fprintf(p.out, "  %s\n", e.Input)
		fmt.Fprintf(p.out, "  => %s\n", e.Output)
	}
	return nil
}

// ArchiveHistory moves the history database into the archive directory
func (p *Processor) ArchiveHistory() error {
	path := cli.GetHistoryPath()
	if p.history != nil {
		path = p.history.Path()
		if err := p.history.Close(); err != nil {
			return fmt.Errorf("failed to close history: %w", err)
		}
		p.history = nil
	}

	if _, err := archive.ArchiveHistory(path); err != nil {
		return fmt.Errorf("failed to archive history: %w", err)
	}
	return nil
}

// Serve serves the HTTP API until ctx is cancelled
func (p *Processor) Serve(ctx context.Context) error {
	srv := server.NewServer(p.pipeline, p.history, p.backend, p.logger)
	return srv.Start(ctx, viper.GetString("server.address"))
}
