package flavor

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sandeepkv93/petd/internal/model"
)

const maxTextBytes = 64 << 10

// Pollinations uses the keyless pollinations.ai text and image endpoints.
type Pollinations struct {
	httpClient *http.Client
	textURL    string
	imageURL   string
	textModel  string
	imageModel string
	size       int
	seed       func() int
}

func NewPollinations(textURL, imageURL, textModel, imageModel string, httpClient *http.Client) *Pollinations {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Pollinations{
		httpClient: httpClient,
		textURL:    strings.TrimRight(textURL, "/"),
		imageURL:   strings.TrimRight(imageURL, "/"),
		textModel:  textModel,
		imageModel: imageModel,
		size:       512,
		seed:       func() int { return rand.IntN(1_000_000) },
	}
}

func (p *Pollinations) Name() string { return "pollinations" }

func (p *Pollinations) GenerateText(ctx context.Context, prompt string) (string, error) {
	if p.textURL == "" {
		return "", ErrNotConfigured
	}
	q := url.Values{}
	if p.textModel != "" {
		q.Set("model", p.textModel)
	}
	body, _, err := p.get(ctx, p.textURL+"/"+url.PathEscape(prompt), q, maxTextBytes)
	if err != nil {
		return "", err
	}
	return cleanText(p.Name(), string(body))
}

func (p *Pollinations) GenerateImage(ctx context.Context, prompt string) (Image, error) {
	if p.imageURL == "" {
		return Image{}, ErrNotConfigured
	}
	q := url.Values{}
	q.Set("width", strconv.Itoa(p.size))
	q.Set("height", strconv.Itoa(p.size))
	q.Set("seed", strconv.Itoa(p.seed()))
	q.Set("nologo", "true")
	if p.imageModel != "" {
		q.Set("model", p.imageModel)
	}
	body, contentType, err := p.get(ctx, p.imageURL+"/"+url.PathEscape(prompt), q, model.MaxPhotoBytes)
	if err != nil {
		return Image{}, err
	}
	if len(body) == 0 {
		return Image{}, ErrEmpty
	}
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "" {
		mediaType = "image/jpeg"
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return Image{}, fmt.Errorf("pollinations: unexpected content type %q", contentType)
	}
	return Image{MIMEType: mediaType, Data: body}, nil
}

func (p *Pollinations) get(ctx context.Context, endpoint string, q url.Values, limit int64) ([]byte, string, error) {
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("pollinations: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(body)) > limit {
		return nil, "", fmt.Errorf("pollinations: response exceeds %d bytes", limit)
	}
	return body, resp.Header.Get("Content-Type"), nil
}
