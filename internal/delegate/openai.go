package delegate

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/lingohop/internal/logging"
)

// DefaultOpenAIModel is used when openai.model is not configured.
const DefaultOpenAIModel = openai.GPT4oMini

const (
	tokenEncoding = "cl100k_base"
	minMaxTokens  = 64
)

type openAICompleter struct {
	client      *openai.Client
	model       string
	countTokens func(string) int
}

// NewOpenAILoader creates a Loader translating through the OpenAI chat API.
func NewOpenAILoader(apiKey, model string, logger logging.Logger) Loader {
	return newLLMLoader("openai", newOpenAICompleter(openai.DefaultConfig(apiKey), model), logger)
}

func newOpenAICompleter(cfg openai.ClientConfig, model string) *openAICompleter {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &openAICompleter{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		countTokens: countTokens,
	}
}

func (c *openAICompleter) Complete(ctx context.Context, prompt, text string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   maxTokensFor(c.countTokens(text)),
		Temperature: 0.3,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// maxTokensFor leaves room for a translation up to twice as long as the input.
func maxTokensFor(inputTokens int) int {
	return max(inputTokens*2, minMaxTokens)
}

// countTokens counts text in the cl100k_base encoding. When the encoding
// cannot be loaded it estimates one token per three runes.
func countTokens(text string) int {
	enc, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		return estimateTokens(text)
	}
	return len(enc.Encode(text, nil, nil))
}

func estimateTokens(text string) int {
	return (utf8.RuneCountInString(text) + 2) / 3
}
