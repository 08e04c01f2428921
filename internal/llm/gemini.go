package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/astrobot/horoscopebot/internal/config"
)

type geminiClient struct {
	genaiClient   *genai.Client
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	model         string
	fallbackModel string
	maxRetries    int
	retryDelay    time.Duration
	timeout       time.Duration
}

// NewGeminiClient creates a Gemini backed Client.
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	gi, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	temperature := float32(cfg.Temperature)
	system := cfg.SystemInstruction
	if system == "" {
		system = DefaultSystemInstruction
	}

	baseCfg := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		MaxOutputTokens:   int32(cfg.MaxTokens),
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized successfully", "model", cfg.Model, "fallback_model", cfg.FallbackModel)

	return &geminiClient{
		genaiClient:   gi,
		log:           logger,
		contentConfig: baseCfg,
		model:         cfg.Model,
		fallbackModel: cfg.FallbackModel,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    time.Duration(cfg.RetryDelaySeconds) * time.Second,
		timeout:       time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, nil
}

func (c *geminiClient) Generate(ctx context.Context, req Request) (string, error) {
	prompt := BuildPrompt(req)
	c.log.DebugContext(ctx, "Generating horoscope", "language", req.Language, "prompt_len", len(prompt))

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	return withFallback(ctx, c.log, c.model, c.fallbackModel, func(ctx context.Context, model string) (string, error) {
		resp, err := c.generateContentWithRetries(ctx, model, contents)
		if err != nil {
			return "", err
		}
		return c.extractText(ctx, resp)
	})
}

// generateContentWithRetries retries 500 and 503 responses with exponential
// backoff starting at retryDelay. Other errors are classified and returned.
func (c *geminiClient) generateContentWithRetries(ctx context.Context, model string, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	delay := c.retryDelay

	for i := 0; ; i++ {
		callCtx := ctx
		cancel := func() {}
		if c.timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		}
		resp, err := c.genaiClient.Models.GenerateContent(callCtx, model, contents, c.contentConfig)
		cancel()
		if err == nil {
			return resp, nil
		}

		c.log.WarnContext(ctx, "Gemini API call failed, checking for retry", "attempt", i+1, "max_retries", c.maxRetries, "error", err)

		var apiErr genai.APIError
		retriable := errors.As(err, &apiErr) &&
			(apiErr.Code == http.StatusInternalServerError || apiErr.Code == http.StatusServiceUnavailable)
		if !retriable || i >= c.maxRetries {
			classified := classifyGeminiError(err)
			c.log.ErrorContext(ctx, "Gemini API call failed", "model", model, "attempts", i+1, "error", classified)
			return nil, classified
		}

		c.log.InfoContext(ctx, "Retrying Gemini API call due to retriable APIError", "delay", delay, "code", apiErr.Code)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrConnection, ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func (c *geminiClient) extractText(ctx context.Context, resp *genai.GenerateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reason := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reason = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.ErrorContext(ctx, "Gemini request blocked", "reason", reason)
		return "", fmt.Errorf("%w: blocked by safety filter: %s", ErrGeneration, reason)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			finishReason = fmt.Sprintf("%v", resp.Candidates[0].FinishReason)
		}
		c.log.WarnContext(ctx, "Gemini response missing candidates or content", "finish_reason", finishReason)
		return "", fmt.Errorf("%w: no content, finish reason: %s", ErrGeneration, finishReason)
	}

	return cleanText(resp.Text())
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
		return fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return fmt.Errorf("%w: %w", ErrGeneration, err)
}
