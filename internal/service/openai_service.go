package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"coursegen/internal/config"
	"coursegen/internal/telemetry"
	"coursegen/internal/util"
)

// GenerateOptions tunes a single completion. Zero values fall back to the service defaults.
type GenerateOptions struct {
	Temperature *float32
	MaxTokens   int
	JSON        bool
}

// TextGenerator produces model text for a system and user prompt.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, opts GenerateOptions) (string, error)
}

// OpenAIService handles chat completions against an OpenAI-compatible API
type OpenAIService struct {
	client      *openai.Client
	provider    string
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      *util.Logger
}

// NewOpenAIService creates the OpenAI-backed generator used for mock tests
func NewOpenAIService(cfg *config.Config) *OpenAIService {
	return newChatService("openai", cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OpenAITemperature, cfg.OpenAIMaxTokens, cfg.LLMTimeout)
}

// NewGeminiService creates the Gemini-backed generator used for layouts, notes and slides.
// Gemini is reached through its OpenAI-compatible endpoint.
func NewGeminiService(cfg *config.Config) *OpenAIService {
	return newChatService("gemini", cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiTemperature, cfg.GeminiMaxTokens, cfg.LLMTimeout)
}

func newChatService(provider, apiKey, baseURL, model string, temperature float32, maxTokens int, timeout time.Duration) *OpenAIService {
	s := &OpenAIService{
		provider:    provider,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     timeout,
		logger:      util.NewLogger("OpenAIService." + provider),
	}
	if strings.TrimSpace(apiKey) == "" {
		return s
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	s.client = openai.NewClientWithConfig(clientCfg)
	return s
}

// Configured reports whether an API key was provided
func (os *OpenAIService) Configured() bool {
	return os != nil && os.client != nil
}

// Generate runs one chat completion and returns the first choice's content
func (os *OpenAIService) Generate(ctx context.Context, systemPrompt, userPrompt string, opts GenerateOptions) (string, error) {
	if !os.Configured() {
		return "", ErrLLMNotConfigured
	}

	ctx, span := telemetry.Tracer().Start(ctx, "llm.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", os.provider),
		attribute.String("llm.model", os.model),
		attribute.Bool("llm.json", opts.JSON),
	)

	if os.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, os.timeout)
		defer cancel()
	}

	messages := []openai.ChatCompletionMessage{}
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userPrompt})

	content, err := os.callOpenAI(ctx, messages, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		os.logger.Error("Completion failed", err)
		return "", err
	}
	span.SetAttributes(attribute.Int("llm.output_chars", len(content)))
	return content, nil
}

// callOpenAI makes a call to the completion API with given messages
func (os *OpenAIService) callOpenAI(ctx context.Context, messages []openai.ChatCompletionMessage, opts GenerateOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       os.model,
		Messages:    messages,
		Temperature: os.temperature,
		MaxTokens:   os.maxTokens,
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if opts.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := os.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s api call failed: %w", os.provider, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", os.provider)
	}

	return resp.Choices[0].Message.Content, nil
}

// llmStatus returns the HTTP status reported by the completion API, or 0.
func llmStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
