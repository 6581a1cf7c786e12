package delegate

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"codeberg.org/snonux/lingohop/internal/logging"
)

// DefaultGeminiModel is used when gemini.model is not configured.
const DefaultGeminiModel = "gemini-2.5-flash"

type geminiCompleter struct {
	client *genai.Client
	model  string
}

// NewGeminiLoader creates a Loader translating through the Gemini API.
func NewGeminiLoader(ctx context.Context, apiKey, model string, logger logging.Logger) (Loader, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = DefaultGeminiModel
	}
	return newLLMLoader("gemini", &geminiCompleter{client: client, model: model}, logger), nil
}

func (c *geminiCompleter) Complete(ctx context.Context, prompt, text string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.3),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(text), cfg)
	if err != nil {
		return "", err
	}

	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return answer, nil
}
