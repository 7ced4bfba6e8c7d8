package flavor

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAICompat talks to any OpenAI-compatible chat completions endpoint (Groq, OpenAI, vLLM).
type OpenAICompat struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
	configured  bool
}

func NewOpenAICompat(apiKey, baseURL, model string, temperature float64, maxTokens int) *OpenAICompat {
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(1)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAICompat{
		client:      openai.NewClient(opts...),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		configured:  apiKey != "" && model != "",
	}
}

func (o *OpenAICompat) Name() string { return "openai" }

func (o *OpenAICompat) GenerateText(ctx context.Context, prompt string) (string, error) {
	if !o.configured {
		return "", ErrNotConfigured
	}
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(o.temperature),
	}
	if o.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.maxTokens))
	}
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmpty
	}
	return cleanText(o.Name(), resp.Choices[0].Message.Content)
}
