package delegate

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/snonux/lingohop/internal/logging"
	"codeberg.org/snonux/lingohop/internal/tokenizer"
)

// Backend names accepted in translator.backend.
const (
	BackendServer = "server"
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

// Options controls decoding of a batch.
type Options struct {
	// BeamSize is the beam width; 1 means greedy decoding.
	BeamSize int
}

// DefaultOptions returns greedy decoding.
func DefaultOptions() Options {
	return Options{BeamSize: 1}
}

// Hop describes the package a delegate is loaded for.
type Hop struct {
	From      string
	To        string
	Package   string
	ModelDir  string
	Tokenizer tokenizer.Tokenizer
}

// Delegate translates token sequences for a single hop.
type Delegate interface {
	// TranslateBatch returns one output token sequence per input sequence.
	TranslateBatch(ctx context.Context, batch [][]string, opts Options) ([][]string, error)

	// Close releases the resources held for the hop.
	Close() error
}

// Loader prepares a Delegate for a hop.
type Loader interface {
	Load(ctx context.Context, hop Hop) (Delegate, error)
}

// Config selects and configures a backend.
type Config struct {
	Backend string
	URL     string
	Timeout time.Duration

	OpenAIKey   string
	OpenAIModel string

	GeminiKey   string
	GeminiModel string

	Logger logging.Logger
}

// NewLoader creates the Loader for cfg.Backend. An empty backend selects the
// inference server.
func NewLoader(ctx context.Context, cfg Config) (Loader, error) {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}

	switch cfg.Backend {
	case "", BackendServer:
		return NewServerLoader(cfg.URL, cfg.Timeout), nil
	case BackendOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .lingohop.yaml")
		}
		return NewOpenAILoader(cfg.OpenAIKey, cfg.OpenAIModel, cfg.Logger), nil
	case BackendGemini:
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key not found. Set GEMINI_API_KEY environment variable or configure in .lingohop.yaml")
		}
		return NewGeminiLoader(ctx, cfg.GeminiKey, cfg.GeminiModel, cfg.Logger)
	default:
		return nil, fmt.Errorf("unknown translator backend %q (use server, openai or gemini)", cfg.Backend)
	}
}
