package honeypot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/scamshield-ai/scamshield/pkg/logging"
)

const (
	engageTemperature float32 = 0.85
	// Tighter budget than detection: replies are 2-3 sentences.
	engageMaxTokens int32 = 512
)

// Engager produces the persona-driven reply that keeps a scammer talking.
type Engager struct {
	gateway completionGateway
	logger  *logging.Logger
}

func NewEngager(gateway completionGateway, logger *logging.Logger) *Engager {
	if gateway == nil {
		panic("honeypot: engager gateway cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engager{gateway: gateway, logger: logger}
}

// Engage returns the persona's next reply. Errors propagate; the orchestrator
// substitutes the canned clarifying question so failures never reach the
// caller as errors.
func (e *Engager) Engage(ctx context.Context, scammerText string, history []Message, meta Metadata) (string, error) {
	meta = meta.withDefaults()
	prompt := fmt.Sprintf(engagementPromptTemplate,
		meta.Language,
		historyText(history, "This is the first message"),
		scammerText,
	)

	raw, err := e.gateway.Complete(ctx, prompt, engageTemperature, engageMaxTokens)
	if err != nil {
		return "", err
	}

	reply := strings.TrimSpace(raw)
	if reply == "" {
		return "", errors.New("honeypot: engagement produced empty reply")
	}
	return reply, nil
}
