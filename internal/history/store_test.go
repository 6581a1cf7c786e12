package history

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"codeberg.org/snonux/lingohop/internal/translation"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "data", DefaultFile))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	first, err := store.Record(ctx, Entry{
		CreatedAt: base,
		Input:     "Hello friend",
		Output:    "Hallo Freund",
		Route:     []string{"en", "es", "de"},
		Packages:  []string{"en_es", "es_de"},
		Backend:   "server",
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if first.ID == "" {
		t.Error("Record should assign an ID")
	}

	if _, err := store.Record(ctx, Entry{CreatedAt: base.Add(time.Minute), Input: "Good morning", Output: "Buenos días", Route: []string{"en", "es"}}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	if entries[0].Input != "Good morning" {
		t.Errorf("Newest entry should come first, got %q", entries[0].Input)
	}
	if entries[0].Packages != nil {
		t.Errorf("Expected no packages, got %v", entries[0].Packages)
	}

	got := entries[1]
	if got.ID != first.ID || !got.CreatedAt.Equal(base) {
		t.Errorf("Unexpected entry: %+v", got)
	}
	if got.RouteString() != "en:es:de" {
		t.Errorf("Expected route en:es:de, got %s", got.RouteString())
	}
	if !reflect.DeepEqual(got.Packages, []string{"en_es", "es_de"}) {
		t.Errorf("Unexpected packages: %v", got.Packages)
	}

	limited, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected 1 entry with limit, got %d", len(limited))
	}
}

func TestRecord_AssignsTimestamp(t *testing.T) {
	store := openTestStore(t)

	before := time.Now()
	e, err := store.Record(context.Background(), Entry{Input: "a", Output: "b", Route: []string{"en", "es"}})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if e.CreatedAt.Before(before) {
		t.Errorf("Timestamp %v is before %v", e.CreatedAt, before)
	}
}

func TestSearch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, e := range []Entry{
		{Input: "Hello friend", Output: "Hola amigo"},
		{Input: "Good night", Output: "Buenas noches"},
		{Input: "100% sure", Output: "100% seguro"},
	} {
		if _, err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{"amigo", 1},
		{"Good", 1},
		{"o", 3},
		{"%", 1},
		{"missing", 0},
	}

	for _, tt := range tests {
		entries, err := store.Search(ctx, tt.query, 10)
		if err != nil {
			t.Fatalf("Search(%q) failed: %v", tt.query, err)
		}
		if len(entries) != tt.want {
			t.Errorf("Search(%q): expected %d entries, got %d", tt.query, tt.want, len(entries))
		}
	}
}

func TestCountAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.Record(ctx, Entry{Input: "a", Output: "b"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer store.Close()

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 entry after reopen, got %d", n)
	}
	if store.Path() != path {
		t.Errorf("Unexpected path %s", store.Path())
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	want := filepath.Join("/home/tester", ".local", "share", "lingohop", DefaultFile)
	if got := DefaultPath(); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestEntryFor(t *testing.T) {
	result := &translation.Result{
		Input: "Hello",
		Route: translation.Route{"en", "es", "de"},
		Hops: []translation.HopResult{
			{From: "en", To: "es", Package: "en_es"},
			{From: "es", To: "de", Package: "es_de"},
		},
		Text: "Hallo",
	}

	e := EntryFor(result, "server")
	if e.Input != "Hello" || e.Output != "Hallo" || e.Backend != "server" {
		t.Errorf("Unexpected entry: %+v", e)
	}
	if e.RouteString() != "en:es:de" {
		t.Errorf("Unexpected route: %s", e.RouteString())
	}
	if !reflect.DeepEqual(e.Packages, []string{"en_es", "es_de"}) {
		t.Errorf("Unexpected packages: %v", e.Packages)
	}
}
