package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/scamshield-ai/scamshield/pkg/logging"
)

var (
	// ErrTimeout indicates the model did not answer within the gateway's
	// wall-clock budget.
	ErrTimeout = errors.New("llm: gateway timeout")
	// ErrGateway covers transport, auth and model-side failures.
	ErrGateway = errors.New("llm: gateway failure")
)

const defaultSystemInstruction = "You are a helpful AI assistant. Always respond with valid JSON when requested."

// Gateway wraps an LLMClient behind a single-call contract: prompt in, cleaned
// text out, with a hard timeout applied per call. Markdown code fences are
// stripped because models wrap JSON in them despite instruction.
type Gateway struct {
	client  LLMClient
	model   string
	system  string
	timeout time.Duration
	logger  *logging.Logger
}

// NewGateway creates a gateway over the given client and model id.
func NewGateway(client LLMClient, model string, timeout time.Duration, logger *logging.Logger) *Gateway {
	if client == nil {
		panic("llm: gateway client cannot be nil")
	}
	if strings.TrimSpace(model) == "" {
		panic("llm: gateway model id required")
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Gateway{
		client:  client,
		model:   model,
		system:  defaultSystemInstruction,
		timeout: timeout,
		logger:  logger,
	}
}

// Complete requests a completion for the prompt and returns the response text
// with any surrounding markdown fences removed. Fails with ErrTimeout when the
// deadline is exceeded, ErrGateway on any other failure.
func (g *Gateway) Complete(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	started := time.Now()
	resp, err := g.client.Complete(callCtx, LLMRequest{
		Model:  g.model,
		System: []string{g.system},
		Messages: []ChatMessage{
			{Role: ChatRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w after %s: %v", ErrTimeout, time.Since(started).Round(time.Millisecond), err)
		}
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}

	g.logger.Debug("model completion",
		"model", g.model,
		"duration_ms", time.Since(started).Milliseconds(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return stripCodeFence(resp.Text), nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
