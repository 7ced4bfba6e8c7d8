package flavor

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type Anthropic struct {
	client     anthropic.Client
	model      anthropic.Model
	maxTokens  int64
	configured bool
}

func NewAnthropic(apiKey, model string, maxTokens int, opts ...option.RequestOption) *Anthropic {
	if maxTokens <= 0 {
		maxTokens = 600
	}
	all := append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(1)}, opts...)
	return &Anthropic{
		client:     anthropic.NewClient(all...),
		model:      anthropic.Model(model),
		maxTokens:  int64(maxTokens),
		configured: apiKey != "" && model != "",
	}
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) GenerateText(ctx context.Context, prompt string) (string, error) {
	if !a.configured {
		return "", ErrNotConfigured
	}
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic message failed: %w", err)
	}
	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.AsText().Text)
		}
	}
	return cleanText(a.Name(), b.String())
}
