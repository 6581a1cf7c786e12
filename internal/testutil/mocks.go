package testutil

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/snonux/lingohop/internal/delegate"
)

// MockLoader mocks the translation delegate. Translations are keyed by hop
// ("en:es") and by the detokenized input text; texts without an entry are
// passed through unchanged.
type MockLoader struct {
	Translations map[string]map[string]string
	LoadErrors   map[string]error // keyed by package name
	CallErrors   map[string]error // keyed by hop

	mu     sync.Mutex
	Loads  []string
	Calls  []string
	Closed int
}

// NewMockLoader returns a loader with empty tables
func NewMockLoader() *MockLoader {
	return &MockLoader{
		Translations: make(map[string]map[string]string),
		LoadErrors:   make(map[string]error),
		CallErrors:   make(map[string]error),
	}
}

// Add registers the translation of text for the hop from->to
func (m *MockLoader) Add(from, to, text, translation string) {
	key := from + ":" + to
	if m.Translations[key] == nil {
		m.Translations[key] = make(map[string]string)
	}
	m.Translations[key][text] = translation
}

// Load mocks loading a model for a hop
func (m *MockLoader) Load(ctx context.Context, hop delegate.Hop) (delegate.Delegate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Loads = append(m.Loads, hop.Package)
	if err, ok := m.LoadErrors[hop.Package]; ok {
		return nil, err
	}
	return &MockDelegate{loader: m, hop: hop}, nil
}

// MockDelegate is the delegate returned by MockLoader
type MockDelegate struct {
	loader *MockLoader
	hop    delegate.Hop
}

// TranslateBatch mocks translating a batch of token sequences
func (d *MockDelegate) TranslateBatch(ctx context.Context, batch [][]string, opts delegate.Options) ([][]string, error) {
	m := d.loader
	key := d.hop.From + ":" + d.hop.To

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([][]string, 0, len(batch))
	for _, tokens := range batch {
		text := d.hop.Tokenizer.Decode(tokens)
		m.Calls = append(m.Calls, fmt.Sprintf("Translate: %s (%s, beam=%d)", text, key, opts.BeamSize))

		if err, ok := m.CallErrors[key]; ok {
			return nil, err
		}

		translation, ok := m.Translations[key][text]
		if !ok {
			out = append(out, tokens)
			continue
		}
		out = append(out, d.hop.Tokenizer.Encode(translation))
	}

	return out, nil
}

// Close records that the delegate was released
func (d *MockDelegate) Close() error {
	d.loader.mu.Lock()
	defer d.loader.mu.Unlock()

	d.loader.Closed++
	return nil
}
