package llm

import (
	"context"
	"log/slog"
)

// FallbackClient wraps a primary LLM client with a fallback provider.
// If the primary fails, it automatically retries with the fallback.
type FallbackClient struct {
	primary       LLMClient
	fallback      LLMClient
	fallbackModel string
	logger        *slog.Logger
}

// NewFallbackClient creates a fallback-enabled LLM client. fallbackModel is the
// model id to substitute when retrying against the fallback provider; if
// fallback is nil only the primary is used.
func NewFallbackClient(primary, fallback LLMClient, fallbackModel string, logger *slog.Logger) *FallbackClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackClient{
		primary:       primary,
		fallback:      fallback,
		fallbackModel: fallbackModel,
		logger:        logger,
	}
}

// Complete sends a completion request to the primary LLM.
// If it fails and a fallback is configured, retries with the fallback.
func (c *FallbackClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	resp, err := c.primary.Complete(ctx, req)
	if err == nil {
		return resp, nil
	}

	c.logger.Warn("primary LLM failed, attempting fallback",
		"error", err.Error(),
		"fallback_available", c.fallback != nil,
	)

	if c.fallback == nil {
		return LLMResponse{}, err
	}
	if ctx.Err() != nil {
		// No budget left for a second attempt.
		return LLMResponse{}, err
	}

	fallbackReq := req
	if c.fallbackModel != "" {
		fallbackReq.Model = c.fallbackModel
	}
	fallbackResp, fallbackErr := c.fallback.Complete(ctx, fallbackReq)
	if fallbackErr != nil {
		c.logger.Error("fallback LLM also failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
		)
		return LLMResponse{}, fallbackErr
	}

	c.logger.Info("fallback LLM succeeded after primary failure")
	return fallbackResp, nil
}
