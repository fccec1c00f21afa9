// Package openai provides a StructuredClient implementation using OpenAI.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
	"github.com/mcnamara-charles/planter-core/internal/infrastructure/config"
)

// ErrNoStructuredOutput is returned when every tier is exhausted without
// locating a schema-conforming value.
var ErrNoStructuredOutput = errors.New("no structured output")

const (
	defaultAttemptTimeout = 45 * time.Second

	// tier1MaxTokens bounds the first structured attempt.
	tier1MaxTokens = 900
	// tier2MaxTokens is the reduced budget for the compact retry.
	tier2MaxTokens = 450
)

const compactInstruction = `Reply with compact JSON only. No prose, no markdown, no code fences.`

const conversationalReminder = `You are a structured data generator. Answer with exactly one JSON object and nothing else.`

// Client implements the StructuredClient interface using OpenAI.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewClient creates a new OpenAI structured-output client.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}

	timeout := defaultAttemptTimeout
	if cfg.AttemptTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.AttemptTimeoutSeconds) * time.Second
	}

	return &Client{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: timeout,
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate obtains a value conforming to the schema, escalating across three
// tiers: a structured single-shot request, the same request with a reduced
// budget and a compact-JSON instruction, and finally a conversational turn
// format. A failed or timed-out attempt moves to the next tier; the same tier
// is never retried.
func (c *Client) Generate(ctx context.Context, schema entities.Schema, instructions, input string) (json.RawMessage, error) {
	var lastErr error

	for tier := 1; tier <= 3; tier++ {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		content, truncated, err := c.attempt(attemptCtx, tier, schema, instructions, input)
		cancel()

		if err != nil {
			lastErr = err
			continue
		}

		raw, ok := extract(content, schema)
		if !ok {
			lastErr = fmt.Errorf("tier %d response had no %s value", tier, schema.Name)
			continue
		}
		if tier == 1 && truncated {
			// Do not trust a value scavenged from a cut-off reply.
			lastErr = errors.New("tier 1 response truncated")
			continue
		}
		return raw, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w for %s: %s", ErrNoStructuredOutput, schema.Name, lastErr)
	}
	return nil, fmt.Errorf("%w for %s", ErrNoStructuredOutput, schema.Name)
}

func (c *Client) attempt(ctx context.Context, tier int, schema entities.Schema, instructions, input string) (content string, truncated bool, err error) {
	switch tier {
	case 1:
		return c.singleShot(ctx, schema, instructions, input, tier1MaxTokens)
	case 2:
		return c.singleShot(ctx, schema, instructions+"\n\n"+compactInstruction, input, tier2MaxTokens)
	default:
		return c.conversational(ctx, instructions, input)
	}
}

// singleShot issues a structured-generation request constrained by the schema.
func (c *Client) singleShot(ctx context.Context, schema entities.Schema, instructions, input string, maxTokens int) (string, bool, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: instructions,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: input,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        schema.Name,
				Description: schema.Description,
				Schema:      schemaDef{schema.Definition},
			},
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", false, errors.New("no response from OpenAI")
	}

	choice := resp.Choices[0]
	return choice.Message.Content, choice.FinishReason == openai.FinishReasonLength, nil
}

// conversational is the last-resort tier: a plain multi-turn exchange with a
// system reminder and no response-format constraint.
func (c *Client) conversational(ctx context.Context, instructions, input string) (string, bool, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: conversationalReminder,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: instructions,
			},
			{
				Role:    openai.ChatMessageRoleAssistant,
				Content: "Understood. Send the input and I will reply with one JSON object.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: input,
			},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", false, fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", false, errors.New("no response from OpenAI")
	}

	choice := resp.Choices[0]
	return choice.Message.Content, choice.FinishReason == openai.FinishReasonLength, nil
}

// schemaDef adapts a schema definition map to the json.Marshaler the request
// format expects.
type schemaDef struct {
	def map[string]any
}

func (s schemaDef) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.def)
}
