package flavor

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sandeepkv93/petd/internal/config"
)

// FromConfig builds a Service whose chains follow the configured provider order.
// Providers without credentials stay in the chain and are skipped at call time.
func FromConfig(cfg config.FlavorConfig, logger *slog.Logger, obs Observer) (*Service, error) {
	opts := []ServiceOption{
		WithTimeout(cfg.Timeout),
		WithLanguage(cfg.Language),
		WithLogger(logger),
		WithObserver(obs),
	}
	if !cfg.Enabled {
		return NewService(nil, nil, opts...), nil
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	gemini := NewGemini(cfg.Gemini.APIKey, cfg.Gemini.TextModel, cfg.Gemini.ImageModel)
	var pollinations *Pollinations
	if cfg.Pollinations.Enabled {
		pollinations = NewPollinations(cfg.Pollinations.TextURL, cfg.Pollinations.ImageURL,
			cfg.Pollinations.TextModel, cfg.Pollinations.ImageModel, httpClient)
	}

	var text TextChain
	for _, name := range cfg.Text {
		switch name {
		case "gemini":
			text = append(text, gemini)
		case "openai":
			text = append(text, NewOpenAICompat(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model,
				cfg.OpenAI.Temperature, cfg.OpenAI.MaxTokens))
		case "anthropic":
			text = append(text, NewAnthropic(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens))
		case "ollama":
			o, err := NewOllama(cfg.Ollama.URL, cfg.Ollama.Model, httpClient)
			if err != nil {
				return nil, err
			}
			text = append(text, o)
		case "pollinations":
			if pollinations != nil {
				text = append(text, pollinations)
			}
		default:
			return nil, fmt.Errorf("flavor: unknown text provider %q", name)
		}
	}

	var image ImageChain
	for _, name := range cfg.Image {
		switch name {
		case "gemini":
			image = append(image, gemini)
		case "pollinations":
			if pollinations != nil {
				image = append(image, pollinations)
			}
		default:
			return nil, fmt.Errorf("flavor: unknown image provider %q", name)
		}
	}

	var textGen TextGenerator
	if len(text) > 0 {
		textGen = text
	}
	var imageGen ImageGenerator
	if len(image) > 0 {
		imageGen = image
	}
	return NewService(textGen, imageGen, opts...), nil
}
