package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"invoiceinsight/internal/config"
	"invoiceinsight/internal/llm"
	"invoiceinsight/internal/port"
)

const defaultModel = "gpt-4o-mini"

// Generator implements port.Generator using the OpenAI Chat Completions API.
type Generator struct {
	client oai.Client
	model  string
}

// NewGenerator creates an OpenAI-backed generator. The SDK's automatic retries are
// disabled: every Generate is exactly one request.
func NewGenerator(cfg *config.LLMConfig) *Generator {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}
	return &Generator{
		client: oai.NewClient(opts...),
		model:  model,
	}
}

// NewProvider adapts NewGenerator to llm.ProviderFactory.
func NewProvider(cfg *config.LLMConfig) (port.Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai provider requires an API key")
	}
	return NewGenerator(cfg), nil
}

// SupportsJSONObject reports that response_format json_object yields a single JSON object.
func (g *Generator) SupportsJSONObject() bool { return true }

func (g *Generator) Generate(ctx context.Context, prompt string, opts port.GenerateOptions) (string, error) {
	messages := make([]oai.ChatCompletionMessageParamUnion, 0, 2)
	if opts.System != "" {
		messages = append(messages, oai.SystemMessage(opts.System))
	}
	messages = append(messages, oai.UserMessage(prompt))

	params := oai.ChatCompletionNewParams{
		Model:    shared.ChatModel(g.model),
		Messages: messages,
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = oai.Int(int64(opts.MaxTokens))
	}
	if opts.JSONObject {
		params.ResponseFormat = oai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *oai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			retryAfter := 0
			if apiErr.Response != nil {
				retryAfter = llm.ParseRetryAfterHeader(apiErr.Response.Header.Get("Retry-After"))
			}
			return "", llm.NewRateLimitError("openai", err, retryAfter)
		}
		return "", fmt.Errorf("calling openai API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from API: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
