// Package flavor produces best-effort AI text and images around the routine:
// daily tips, pet reactions, day reports and portraits.
package flavor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/petd/internal/model"
)

var (
	ErrNotConfigured = errors.New("flavor: not configured")
	ErrEmpty         = errors.New("flavor: empty response")
)

type TextGenerator interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type ImageGenerator interface {
	Name() string
	GenerateImage(ctx context.Context, prompt string) (Image, error)
}

type Image struct {
	MIMEType string
	Data     []byte
}

// Photo converts the image for use as a pet photo.
func (i Image) Photo() model.Photo {
	return model.Photo{MIMEType: i.MIMEType, Data: append([]byte(nil), i.Data...)}
}

func cleanText(provider, raw string) (string, error) {
	out := strings.TrimSpace(raw)
	if out == "" {
		return "", fmt.Errorf("%s: %w", provider, ErrEmpty)
	}
	return out, nil
}

// TextChain tries each generator in order and returns the first non-empty answer.
type TextChain []TextGenerator

func (c TextChain) Name() string {
	names := make([]string, 0, len(c))
	for _, g := range c {
		names = append(names, g.Name())
	}
	return strings.Join(names, ">")
}

func (c TextChain) GenerateText(ctx context.Context, prompt string) (string, error) {
	if len(c) == 0 {
		return "", ErrNotConfigured
	}
	var errs []error
	for _, g := range c {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		out, err := g.GenerateText(ctx, prompt)
		if err == nil {
			if out, err = cleanText(g.Name(), out); err == nil {
				return out, nil
			}
		}
		errs = append(errs, fmt.Errorf("%s: %w", g.Name(), err))
	}
	return "", errors.Join(errs...)
}

type ImageChain []ImageGenerator

func (c ImageChain) Name() string {
	names := make([]string, 0, len(c))
	for _, g := range c {
		names = append(names, g.Name())
	}
	return strings.Join(names, ">")
}

func (c ImageChain) GenerateImage(ctx context.Context, prompt string) (Image, error) {
	if len(c) == 0 {
		return Image{}, ErrNotConfigured
	}
	var errs []error
	for _, g := range c {
		if err := ctx.Err(); err != nil {
			return Image{}, err
		}
		img, err := g.GenerateImage(ctx, prompt)
		if err == nil && len(img.Data) == 0 {
			err = ErrEmpty
		}
		if err == nil {
			return img, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", g.Name(), err))
	}
	return Image{}, errors.Join(errs...)
}
