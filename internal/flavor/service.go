package flavor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sandeepkv93/petd/internal/model"
)

const DefaultTimeout = 20 * time.Second

// Observer is told about every generation attempt the Service makes.
type Observer interface {
	ObserveFlavor(kind string, elapsed time.Duration, fallback bool)
}

type ServiceOption func(*Service)

func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithLanguage(lang string) ServiceOption {
	return func(s *Service) { s.language = language(lang) }
}

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithObserver(obs Observer) ServiceOption {
	return func(s *Service) { s.observer = obs }
}

// Result is generated text, or the static fallback when every provider failed.
type Result struct {
	Text     string
	Fallback bool
}

// Service wraps the generators with a timeout and static fallbacks. It never returns an error.
type Service struct {
	text     TextGenerator
	image    ImageGenerator
	timeout  time.Duration
	language string
	logger   *slog.Logger
	observer Observer
}

func NewService(text TextGenerator, image ImageGenerator, opts ...ServiceOption) *Service {
	s := &Service{
		text:     text,
		image:    image,
		timeout:  DefaultTimeout,
		language: DefaultLanguage,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) TextEnabled() bool { return s.text != nil }

func (s *Service) ImageEnabled() bool { return s.image != nil }

func (s *Service) DailyTip(ctx context.Context, pet model.Pet) Result {
	prompt := TipPrompt(TipContext{Name: pet.Name, Breed: pet.BreedOrUnknown(), Language: s.language})
	return s.generate(ctx, "tip", prompt, func() string { return FallbackTip(pet) })
}

func (s *Service) Reaction(ctx context.Context, pet model.Pet, activity string, happiness int) Result {
	prompt := ReactionPrompt(ReactionContext{
		Name:      pet.Name,
		Breed:     pet.BreedOrUnknown(),
		Activity:  activity,
		Happiness: happiness,
		Language:  s.language,
	})
	return s.generate(ctx, "reaction", prompt, func() string { return FallbackReaction(pet, happiness) })
}

func (s *Service) DayReport(ctx context.Context, in ReportContext) Result {
	in.Language = s.language
	return s.generate(ctx, "report", ReportPrompt(in), func() string { return FallbackReport(in) })
}

// PhotoComment compliments the pet after its photo changes.
func (s *Service) PhotoComment(ctx context.Context, pet model.Pet) Result {
	prompt := PhotoPrompt(PhotoContext{Name: pet.Name, Breed: pet.BreedOrUnknown(), Language: s.language})
	return s.generate(ctx, "photo", prompt, func() string { return FallbackPhotoComment(pet) })
}

// Portrait draws the pet; ok is false when no image could be produced.
func (s *Service) Portrait(ctx context.Context, pet model.Pet, mood model.Mood) (Image, bool) {
	if s.image == nil {
		return Image{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	prompt := PortraitPrompt(PortraitContext{Name: pet.Name, Breed: pet.BreedOrUnknown(), Mood: strings.ToLower(mood.Label)})
	img, err := s.image.GenerateImage(ctx, prompt)
	if err == nil {
		if verr := img.Photo().Validate(); verr != nil {
			err = verr
		}
	}
	s.observe("portrait", time.Since(start), err != nil)
	if err != nil {
		s.logger.Warn("portrait generation failed", "provider", s.image.Name(), "err", err)
		return Image{}, false
	}
	return img, true
}

func (s *Service) generate(ctx context.Context, kind, prompt string, fallback func() string) Result {
	if s.text == nil {
		return Result{Text: fallback(), Fallback: true}
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	out, err := s.text.GenerateText(ctx, prompt)
	if err == nil {
		out, err = cleanText(s.text.Name(), out)
	}
	s.observe(kind, time.Since(start), err != nil)
	if err != nil {
		s.logger.Warn("flavor generation failed", "kind", kind, "provider", s.text.Name(), "err", err)
		return Result{Text: fallback(), Fallback: true}
	}
	return Result{Text: out}
}

func (s *Service) observe(kind string, elapsed time.Duration, fallback bool) {
	if s.observer != nil {
		s.observer.ObserveFlavor(kind, elapsed, fallback)
	}
}

func FallbackTip(pet model.Pet) string {
	return fmt.Sprintf("Fresh water, a good walk and a few minutes of play go a long way for %s today.", pet.Name)
}

func FallbackReaction(pet model.Pet, happiness int) string {
	if happiness >= 60 {
		return fmt.Sprintf("%s wags happily! 🐾", pet.Name)
	}
	return fmt.Sprintf("%s perks up a little. Thank you! 🐾", pet.Name)
}

func FallbackPhotoComment(pet model.Pet) string {
	return fmt.Sprintf("What a lovely photo of %s! 📸", pet.Name)
}

// FallbackReport renders the report data itself as Markdown.
func FallbackReport(in ReportContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s's day\n\n", in.Name)
	fmt.Fprintf(&b, "- Happiness: %d%%\n", in.Happiness)
	fmt.Fprintf(&b, "- Points: %d\n", in.Points)
	fmt.Fprintf(&b, "- Streak: %d day(s)\n\n", in.Streak)
	b.WriteString("### Done\n\n")
	writeList(&b, in.Completed, "Nothing yet.")
	b.WriteString("\n### Still to do\n\n")
	writeList(&b, in.Pending, "Every task is done!")
	if in.Stats != nil && in.Stats.DaysTracked > 0 {
		fmt.Fprintf(&b, "\n### History\n\n- Days tracked: %d\n- Average happiness: %d%%\n", in.Stats.DaysTracked, in.Stats.AverageHappiness)
		if in.Stats.MostCompleted != "" {
			fmt.Fprintf(&b, "- Most completed: %s\n- Least completed: %s\n", in.Stats.MostCompleted, in.Stats.LeastCompleted)
		}
	}
	if strings.TrimSpace(in.Notes) != "" {
		fmt.Fprintf(&b, "\n### Notes\n\n%s\n", strings.TrimSpace(in.Notes))
	}
	return b.String()
}

func writeList(b *strings.Builder, items []string, empty string) {
	if len(items) == 0 {
		b.WriteString(empty + "\n")
		return
	}
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
}
