package flavor

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// Gemini generates text and images through the Gemini API.
type Gemini struct {
	apiKey     string
	textModel  string
	imageModel string
	baseURL    string

	mu     sync.Mutex
	client *genai.Client
}

func NewGemini(apiKey, textModel, imageModel string) *Gemini {
	return &Gemini{apiKey: apiKey, textModel: textModel, imageModel: imageModel}
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) ensureClient(ctx context.Context) (*genai.Client, error) {
	if g.apiKey == "" {
		return nil, ErrNotConfigured
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: g.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.client = client
	return client, nil
}

func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	if g.textModel == "" {
		return "", ErrNotConfigured
	}
	client, err := g.ensureClient(ctx)
	if err != nil {
		return "", err
	}
	result, err := client.Models.GenerateContent(ctx, g.textModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}
	if result == nil {
		return "", ErrEmpty
	}
	return cleanText(g.Name(), result.Text())
}

func (g *Gemini) GenerateImage(ctx context.Context, prompt string) (Image, error) {
	if g.imageModel == "" {
		return Image{}, ErrNotConfigured
	}
	client, err := g.ensureClient(ctx)
	if err != nil {
		return Image{}, err
	}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
	result, err := client.Models.GenerateContent(ctx, g.imageModel, genai.Text(prompt), config)
	if err != nil {
		return Image{}, fmt.Errorf("Gemini API call failed: %w", err)
	}
	if result == nil {
		return Image{}, ErrEmpty
	}
	for _, cand := range result.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return Image{MIMEType: mime, Data: part.InlineData.Data}, nil
			}
		}
	}
	return Image{}, ErrEmpty
}
