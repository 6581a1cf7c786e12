package delegate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/lingohop/internal/graph"
	"codeberg.org/snonux/lingohop/internal/logging"
)

// completer sends one prompt to a language model and returns its answer.
type completer interface {
	Complete(ctx context.Context, prompt, text string) (string, error)
}

// llmLoader turns a chat model into a Delegate. Each sequence of the batch is
// detokenized with the hop tokenizer, translated by the model and tokenized
// again so the pipeline sees the same token stream an inference server
// would return.
type llmLoader struct {
	name    string
	model   completer
	breaker *gobreaker.CircuitBreaker
	logger  logging.Logger
}

func newLLMLoader(name string, model completer, logger logging.Logger) *llmLoader {
	return &llmLoader{
		name:    name,
		model:   model,
		breaker: newBreaker(name, logger),
		logger:  logger,
	}
}

func (l *llmLoader) Load(_ context.Context, hop Hop) (Delegate, error) {
	if hop.Tokenizer == nil {
		return nil, fmt.Errorf("%s delegate needs the tokenizer of package %s", l.name, hop.Package)
	}
	return &llmDelegate{loader: l, hop: hop}, nil
}

type llmDelegate struct {
	loader *llmLoader
	hop    Hop
}

func (d *llmDelegate) TranslateBatch(ctx context.Context, batch [][]string, _ Options) ([][]string, error) {
	prompt := translationPrompt(d.hop.From, d.hop.To)

	out := make([][]string, 0, len(batch))
	for _, tokens := range batch {
		text := d.hop.Tokenizer.Decode(tokens)
		if strings.TrimSpace(text) == "" {
			out = append(out, nil)
			continue
		}

		answer, err := d.loader.breaker.Execute(func() (interface{}, error) {
			return d.loader.model.Complete(ctx, prompt, text)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return nil, fmt.Errorf("%s API unavailable: %w", d.loader.name, err)
			}
			return nil, fmt.Errorf("%s API error: %w", d.loader.name, err)
		}

		translated := strings.TrimSpace(answer.(string))
		d.loader.logger.Debug("llm translation", "backend", d.loader.name, "from", d.hop.From, "to", d.hop.To, "chars", len(translated))
		out = append(out, d.hop.Tokenizer.Encode(translated))
	}

	return out, nil
}

func (d *llmDelegate) Close() error {
	return nil
}

func translationPrompt(from, to string) string {
	return fmt.Sprintf(
		"Translate the following text from %s to %s. Respond with only the translation, nothing else.",
		graph.DisplayName(from), graph.DisplayName(to),
	)
}
