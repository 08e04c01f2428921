// Package llm generates horoscope texts through a hosted language model.
// OpenAI and Gemini backends share one Client interface and one error taxonomy.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/astrobot/horoscopebot/internal/config"
	"github.com/astrobot/horoscopebot/internal/locale"
)

// Provider names accepted in configuration.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Error classes surfaced by every Client. Callers match them with errors.Is.
var (
	ErrRateLimited = errors.New("llm rate limited")
	ErrConnection  = errors.New("llm connection failed")
	ErrGeneration  = errors.New("llm generation failed")
)

// Request carries the profile attributes a horoscope is personalized with.
type Request struct {
	Language   locale.Language
	Name       string
	Sex        string
	Birthdate  string
	Zodiac     string // localized sign name
	Profession string
	Hobbies    string
	Date       string // day the horoscope is for, YYYY-MM-DD
}

// Client generates horoscope text.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// NewClient builds the configured provider.
func NewClient(ctx context.Context, cfg config.LLMConfig, log *slog.Logger) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI, "":
		return NewOpenAIClient(cfg, log)
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// modelCall performs one generation against a named model.
type modelCall func(ctx context.Context, model string) (string, error)

// withFallback calls the primary model and, when it fails for any reason but
// rate limiting, tries the fallback model once.
func withFallback(ctx context.Context, log *slog.Logger, primary, fallback string, call modelCall) (string, error) {
	text, err := call(ctx, primary)
	if err == nil {
		return text, nil
	}
	if fallback == "" || fallback == primary || errors.Is(err, ErrRateLimited) || ctx.Err() != nil {
		return "", err
	}

	log.WarnContext(ctx, "Primary model failed, trying fallback model", "model", primary, "fallback_model", fallback, "error", err)

	text, fbErr := call(ctx, fallback)
	if fbErr != nil {
		log.ErrorContext(ctx, "Fallback model failed", "fallback_model", fallback, "error", fbErr)
		return "", fbErr
	}
	return text, nil
}

// cleanText trims the model output and rejects empty answers.
func cleanText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrGeneration)
	}
	return text, nil
}
