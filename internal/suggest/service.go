package suggest

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

var ErrEmptyPrompt = errors.New("prompt is required")

// Service turns a description into a validated Suggestion.
type Service struct {
	gen     Generator
	log     *slog.Logger
	timeout time.Duration
}

func NewService(gen Generator, log *slog.Logger, timeout time.Duration) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{gen: gen, log: log, timeout: timeout}
}

func (s *Service) Suggest(ctx context.Context, description string) (Suggestion, error) {
	if strings.TrimSpace(description) == "" {
		return Suggestion{}, ErrEmptyPrompt
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.gen.Generate(ctx, BuildPrompt(description))
	if err != nil {
		return Suggestion{}, err
	}
	sug, err := Parse(text)
	if err != nil {
		s.log.Warn("unusable suggestion", "error", err, "response_len", len(text))
		return Suggestion{}, err
	}
	return sug, nil
}
