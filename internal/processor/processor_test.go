package processor

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"codeberg.org/snonux/lingohop/internal/cli"
	"codeberg.org/snonux/lingohop/internal/history"
	"codeberg.org/snonux/lingohop/internal/testutil"
	"codeberg.org/snonux/lingohop/internal/translation"
)

type testEnv struct {
	proc     *Processor
	loader   *testutil.MockLoader
	out      *bytes.Buffer
	progress *bytes.Buffer
	store    *history.Store
}

// newTestProcessor creates a processor over packages en_es and es_de with a
// history database in a temporary directory
func newTestProcessor(t *testing.T, withHistory bool) *testEnv {
	t.Helper()

	dir := t.TempDir()
	testutil.CreatePackage(t, dir, "translate-en_es-1_0")
	testutil.CreatePackage(t, dir, "translate-es_de-1_0")

	loader := testutil.NewMockLoader()
	loader.Add("en", "es", "Hello friend", "Hola amigo.")
	loader.Add("es", "de", "Hola amigo.", "Hallo Freund.")

	var progress bytes.Buffer
	pipeline := translation.NewPipeline(translation.Config{
		PackagesDir: dir,
		Loader:      loader,
		Progress:    &progress,
	})

	var store *history.Store
	if withHistory {
		var err error
		store, err = history.Open(filepath.Join(t.TempDir(), "history.db"))
		if err != nil {
			t.Fatalf("Failed to open history: %v", err)
		}
		t.Cleanup(func() { store.Close() })
	}

	env := &testEnv{
		proc:     newProcessor(cli.NewFlags(), pipeline, store, "mock", nil),
		loader:   loader,
		out:      &bytes.Buffer{},
		progress: &progress,
		store:    store,
	}
	env.proc.out = env.out
	env.proc.in = strings.NewReader("")
	return env
}

func TestResolveInput(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		flagText string
		stdin    string
		wantText string
		wantExpr string
	}{
		{"text and route", []string{"Hello", "en:de"}, "", "", "Hello", "en:de"},
		{"text only", []string{"Hello"}, "", "", "Hello", ""},
		{"route with stdin", []string{"en:de"}, "", "Hello from stdin\n", "Hello from stdin\n", "en:de"},
		{"text flag with route", []string{"en:de"}, "Flag text", "", "Flag text", "en:de"},
		{"text flag only", nil, "Flag text", "", "Flag text", ""},
		{"stdin only", nil, "", "Piped", "Piped", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestProcessor(t, false)
			env.proc.flags.Text = tt.flagText
			env.proc.in = strings.NewReader(tt.stdin)

			text, expr, err := env.proc.resolveInput(tt.args)
			if err != nil {
				t.Fatalf("resolveInput failed: %v", err)
			}
			if text != tt.wantText || expr != tt.wantExpr {
				t.Errorf("resolveInput(%v) = (%q, %q), want (%q, %q)", tt.args, text, expr, tt.wantText, tt.wantExpr)
			}
		})
	}
}

func TestProcessText_MultiHop(t *testing.T) {
	env := newTestProcessor(t, true)

	if err := env.proc.ProcessText(context.Background(), []string{"Hello friend", "en:de"}); err != nil {
		t.Fatalf("ProcessText failed: %v", err)
	}

	if got := env.out.String(); got != "Final translation: Hallo Freund\n" {
		t.Errorf("Unexpected output: %q", got)
	}
	for _, want := range []string{"Auto-route (2 hops): en -> es -> de", "Hop 1: en -> es", "Hop 2: es -> de"} {
		if !strings.Contains(env.progress.String(), want) {
			t.Errorf("Progress missing %q:\n%s", want, env.progress.String())
		}
	}

	entries, err := env.store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 history entry, got %d", len(entries))
	}
	if entries[0].Output != "Hallo Freund" || entries[0].Backend != "mock" {
		t.Errorf("Unexpected history entry: %+v", entries[0])
	}
	if len(entries[0].Packages) != 2 {
		t.Errorf("Expected both packages recorded, got %v", entries[0].Packages)
	}
}

func TestProcessText_Stdin(t *testing.T) {
	env := newTestProcessor(t, false)
	env.proc.in = strings.NewReader("  Hello friend\n")

	if err := env.proc.ProcessText(context.Background(), []string{"en:es"}); err != nil {
		t.Fatalf("ProcessText failed: %v", err)
	}
	if !strings.Contains(env.out.String(), "Final translation: Hola amigo") {
		t.Errorf("Unexpected output: %q", env.out.String())
	}
}

func TestProcessText_DefaultRoute(t *testing.T) {
	env := newTestProcessor(t, false)

	if err := env.proc.ProcessText(context.Background(), []string{"Hello friend"}); err != nil {
		t.Fatalf("ProcessText failed: %v", err)
	}
	if !strings.Contains(env.out.String(), "Hola amigo") {
		t.Errorf("Expected en:es translation, got %q", env.out.String())
	}
}

func TestProcessText_Errors(t *testing.T) {
	t.Run("empty stdin", func(t *testing.T) {
		env := newTestProcessor(t, false)
		env.proc.in = strings.NewReader("   \n")

		err := env.proc.ProcessText(context.Background(), nil)
		if !errors.Is(err, translation.ErrEmptyInput) {
			t.Errorf("Expected ErrEmptyInput, got %v", err)
		}
	})

	t.Run("no route", func(t *testing.T) {
		env := newTestProcessor(t, true)

		err := env.proc.ProcessText(context.Background(), []string{"Hello", "en:fr"})
		var noRoute *translation.NoRouteError
		if !errors.As(err, &noRoute) {
			t.Fatalf("Expected NoRouteError, got %v", err)
		}

		n, err := env.store.Count(context.Background())
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if n != 0 {
			t.Errorf("Failed translations must not be recorded, got %d entries", n)
		}
	})
}

func TestProcessBatch(t *testing.T) {
	env := newTestProcessor(t, true)

	batchFile := filepath.Join(t.TempDir(), "batch.txt")
	content := `# greetings
Hello friend
en:de = Hello friend
en:fr = Hello friend
`
	testutil.CreateTestFile(t, batchFile, []byte(content))
	env.proc.flags.BatchFile = batchFile

	var err error
	_, stderr := testutil.CaptureOutput(t, func() {
		err = env.proc.ProcessBatch(context.Background())
	})
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}

	out := env.out.String()
	for _, want := range []string{
		"Processing 1/3 (line 2): Hello friend",
		"Final translation: Hola amigo",
		"Final translation: Hallo Freund",
		"Total texts: 3",
		"Translated: 2",
		"Errors: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(stderr, "Error translating line 4") {
		t.Errorf("Expected error for line 4 on stderr, got %q", stderr)
	}

	n, err := env.store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 history entries, got %d", n)
	}
}

func TestProcessBatch_AllFailed(t *testing.T) {
	env := newTestProcessor(t, false)

	batchFile := filepath.Join(t.TempDir(), "batch.txt")
	testutil.CreateTestFile(t, batchFile, []byte("en:fr = Hello\n"))
	env.proc.flags.BatchFile = batchFile

	var err error
	testutil.CaptureOutput(t, func() {
		err = env.proc.ProcessBatch(context.Background())
	})
	if err == nil {
		t.Error("Expected error when every entry fails")
	}
}

func TestProcessBatch_InvalidFile(t *testing.T) {
	env := newTestProcessor(t, false)
	env.proc.flags.BatchFile = "/nonexistent/file.txt"

	if err := env.proc.ProcessBatch(context.Background()); err == nil {
		t.Error("Expected error for non-existent batch file")
	}
}

func TestListLanguages(t *testing.T) {
	env := newTestProcessor(t, false)

	if err := env.proc.ListLanguages(); err != nil {
		t.Fatalf("ListLanguages failed: %v", err)
	}

	out := env.out.String()
	for _, want := range []string{"de", "en", "es", "en -> es  (translate-en_es-1_0)", "es -> de  (translate-es_de-1_0)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestListLanguages_Empty(t *testing.T) {
	pipeline := translation.NewPipeline(translation.Config{PackagesDir: t.TempDir()})
	p := newProcessor(cli.NewFlags(), pipeline, nil, "mock", nil)
	var out bytes.Buffer
	p.out = &out

	if err := p.ListLanguages(); err != nil {
		t.Fatalf("ListLanguages failed: %v", err)
	}
	if !strings.Contains(out.String(), "No packages installed") {
		t.Errorf("Unexpected output: %q", out.String())
	}
}

func TestShowRoute(t *testing.T) {
	env := newTestProcessor(t, false)

	if err := env.proc.ShowRoute("en", "de"); err != nil {
		t.Fatalf("ShowRoute failed: %v", err)
	}

	out := env.out.String()
	if !strings.Contains(out, "Route: en -> es -> de") {
		t.Errorf("Unexpected route output:\n%s", out)
	}
	if !strings.Contains(out, "Hop 2: es -> de  (translate-es_de-1_0)") {
		t.Errorf("Missing second hop:\n%s", out)
	}

	var noRoute *translation.NoRouteError
	if err := env.proc.ShowRoute("de", "en"); !errors.As(err, &noRoute) {
		t.Errorf("Expected NoRouteError, got %v", err)
	}
}

func TestShowHistory(t *testing.T) {
	env := newTestProcessor(t, true)
	ctx := context.Background()

	if err := env.proc.ShowHistory(ctx, ""); err != nil {
		t.Fatalf("ShowHistory failed: %v", err)
	}
	if !strings.Contains(env.out.String(), "No translations recorded") {
		t.Errorf("Unexpected output: %q", env.out.String())
	}

	if err := env.proc.ProcessText(ctx, []string{"Hello friend", "en:de"}); err != nil {
		t.Fatalf("ProcessText failed: %v", err)
	}
	env.out.Reset()

	if err := env.proc.ShowHistory(ctx, "Freund"); err != nil {
		t.Fatalf("ShowHistory failed: %v", err)
	}
	out := env.out.String()
	if !strings.Contains(out, "en:es:de") || !strings.Contains(out, "=> Hallo Freund") {
		t.Errorf("Unexpected history output:\n%s", out)
	}

	env.out.Reset()
	if err := env.proc.ShowHistory(ctx, "Bonjour"); err != nil {
		t.Fatalf("ShowHistory failed: %v", err)
	}
	if !strings.Contains(env.out.String(), "No translations recorded") {
		t.Errorf("Search should not match, got %q", env.out.String())
	}
}

func TestShowHistory_Disabled(t *testing.T) {
	env := newTestProcessor(t, false)

	if err := env.proc.ShowHistory(context.Background(), ""); err == nil {
		t.Error("Expected error when history is disabled")
	}
}

func TestArchiveHistory(t *testing.T) {
	env := newTestProcessor(t, true)
	dbPath := env.store.Path()

	var err error
	stdout, _ := testutil.CaptureOutput(t, func() {
		err = env.proc.ArchiveHistory()
	})
	if err != nil {
		t.Fatalf("ArchiveHistory failed: %v", err)
	}

	testutil.AssertFileNotExists(t, dbPath)
	if !strings.Contains(stdout, "History archived to:") {
		t.Errorf("Unexpected output: %q", stdout)
	}

	archived, err := filepath.Glob(filepath.Join(filepath.Dir(dbPath), "archive", "history-*.db"))
	if err != nil || len(archived) != 1 {
		t.Fatalf("Expected one archived database, got %v (%v)", archived, err)
	}

	if err := env.proc.Close(); err != nil {
		t.Errorf("Close after archive failed: %v", err)
	}
}

func TestListPackages(t *testing.T) {
	env := newTestProcessor(t, false)

	if err := env.proc.ListPackages(); err != nil {
		t.Fatalf("ListPackages failed: %v", err)
	}
	if !strings.Contains(env.out.String(), "2 package(s)") {
		t.Errorf("Unexpected output:\n%s", env.out.String())
	}
}

func TestNewProcessor_UnknownBackend(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("LINGOHOP_TRANSLATOR_BACKEND", "carrier-pigeon")
	cli.InitConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := NewProcessor(context.Background(), cli.NewFlags()); err == nil {
		t.Error("Expected error for unknown backend")
	}
}
