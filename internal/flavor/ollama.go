package flavor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// Ollama generates text with a local Ollama server.
type Ollama struct {
	client *api.Client
	model  string
}

// NewOllama returns a generator for hostURL, or one that reports ErrNotConfigured when hostURL is empty.
func NewOllama(hostURL, model string, httpClient *http.Client) (*Ollama, error) {
	if strings.TrimSpace(hostURL) == "" {
		return &Ollama{model: model}, nil
	}
	parsed, err := url.Parse(hostURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama url: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Ollama{client: api.NewClient(parsed, httpClient), model: model}, nil
}

func (o *Ollama) Name() string { return "ollama" }

func (o *Ollama) GenerateText(ctx context.Context, prompt string) (string, error) {
	if o.client == nil || o.model == "" {
		return "", ErrNotConfigured
	}
	stream := false
	req := &api.GenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: &stream,
	}
	var b strings.Builder
	err := o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		b.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate failed: %w", err)
	}
	return cleanText(o.Name(), b.String())
}
