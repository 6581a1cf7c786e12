package delegate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// DefaultServerURL is used when translator.url is not configured.
const DefaultServerURL = "http://127.0.0.1:8089"

type translateRequest struct {
	Model    string     `json:"model"`
	Source   string     `json:"source"`
	Target   string     `json:"target"`
	Batch    [][]string `json:"batch"`
	BeamSize int        `json:"beam_size"`
}

type translateResponse struct {
	Output [][]string `json:"output"`
}

// ServerLoader hands hops to an inference server speaking the translate
// protocol over HTTP.
type ServerLoader struct {
	url    string
	client *http.Client
	retry  RetryConfig
}

// NewServerLoader creates a loader for the inference server at url.
func NewServerLoader(url string, timeout time.Duration) *ServerLoader {
	if url == "" {
		url = DefaultServerURL
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &ServerLoader{
		url:    strings.TrimSuffix(url, "/"),
		client: NewPooledClient(timeout),
		retry:  DefaultRetryConfig(),
	}
}

// SetRetryConfig replaces the retry policy.
func (l *ServerLoader) SetRetryConfig(cfg RetryConfig) {
	l.retry = cfg
}

// Load checks that the model directory exists. The server loads the model
// itself on the first request naming it.
func (l *ServerLoader) Load(_ context.Context, hop Hop) (Delegate, error) {
	info, err := os.Stat(hop.ModelDir)
	if err != nil {
		return nil, fmt.Errorf("model directory not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("model path %s is not a directory", hop.ModelDir)
	}

	return &serverDelegate{loader: l, hop: hop}, nil
}

type serverDelegate struct {
	loader *ServerLoader
	hop    Hop
}

func (d *serverDelegate) TranslateBatch(ctx context.Context, batch [][]string, opts Options) ([][]string, error) {
	payload, err := json.Marshal(translateRequest{
		Model:    d.hop.ModelDir,
		Source:   d.hop.From,
		Target:   d.hop.To,
		Batch:    batch,
		BeamSize: opts.BeamSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.loader.url+"/translate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := doWithRetry(ctx, d.loader.client, req, d.loader.retry)
	if err != nil {
		return nil, fmt.Errorf("translation server request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read translation server response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("translation server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out translateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode translation server response: %w", err)
	}

	return out.Output, nil
}

func (d *serverDelegate) Close() error {
	return nil
}
