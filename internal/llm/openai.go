package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/astrobot/horoscopebot/internal/config"
)

type openaiClient struct {
	client            openai.Client
	log               *slog.Logger
	model             string
	fallbackModel     string
	systemInstruction string
	maxTokens         int64
	temperature       float64
}

// NewOpenAIClient creates a chat-completions backed Client. Retries with
// backoff and the request timeout are delegated to the SDK.
func NewOpenAIClient(cfg config.LLMConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
		option.WithRequestTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	system := cfg.SystemInstruction
	if system == "" {
		system = DefaultSystemInstruction
	}

	logger := log.With("component", "openai_client")
	logger.Info("OpenAI client initialized successfully", "model", cfg.Model, "fallback_model", cfg.FallbackModel)

	return &openaiClient{
		client:            openai.NewClient(opts...),
		log:               logger,
		model:             cfg.Model,
		fallbackModel:     cfg.FallbackModel,
		systemInstruction: system,
		maxTokens:         int64(cfg.MaxTokens),
		temperature:       cfg.Temperature,
	}, nil
}

func (c *openaiClient) Generate(ctx context.Context, req Request) (string, error) {
	prompt := BuildPrompt(req)
	c.log.DebugContext(ctx, "Generating horoscope", "language", req.Language, "prompt_len", len(prompt))

	return withFallback(ctx, c.log, c.model, c.fallbackModel, func(ctx context.Context, model string) (string, error) {
		return c.complete(ctx, model, prompt)
	})
}

func (c *openaiClient) complete(ctx context.Context, model, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.systemInstruction),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.temperature),
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(c.maxTokens)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		classified := classifyOpenAIError(err)
		c.log.ErrorContext(ctx, "OpenAI API call failed", "model", model, "error", classified)
		return "", classified
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: model %s returned no choices", ErrGeneration, model)
	}

	text, err := cleanText(resp.Choices[0].Message.Content)
	if err != nil {
		c.log.WarnContext(ctx, "OpenAI returned empty text", "model", model, "finish_reason", resp.Choices[0].FinishReason)
		return "", err
	}
	return text, nil
}

// classifyOpenAIError maps SDK errors onto the package error classes.
func classifyOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
		return fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return fmt.Errorf("%w: %w", ErrGeneration, err)
}

func isConnectionError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
