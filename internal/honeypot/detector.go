package honeypot

import (
	"context"
	"fmt"
	"strings"

	"github.com/scamshield-ai/scamshield/internal/llm"
	"github.com/scamshield-ai/scamshield/pkg/logging"
)

// completionGateway is the slice of the model gateway the stages need.
type completionGateway interface {
	Complete(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error)
}

const (
	detectTemperature float32 = 0.3
	detectMaxTokens   int32   = 1024
)

// Detector classifies inbound messages as scam attempts.
type Detector struct {
	gateway completionGateway
	logger  *logging.Logger
}

func NewDetector(gateway completionGateway, logger *logging.Logger) *Detector {
	if gateway == nil {
		panic("honeypot: detector gateway cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Detector{gateway: gateway, logger: logger}
}

// Detect builds the classification prompt and parses the model's verdict.
// Gateway and parse failures propagate so the orchestrator owns the fallback
// policy.
func (d *Detector) Detect(ctx context.Context, msg Message, history []Message) (DetectionResult, error) {
	prompt := fmt.Sprintf(detectionPromptTemplate,
		historyText(history, "No previous messages"),
		msg.Text,
	)

	raw, err := d.gateway.Complete(ctx, prompt, detectTemperature, detectMaxTokens)
	if err != nil {
		return DetectionResult{}, err
	}

	var result DetectionResult
	if err := llm.ParseObject(raw, &result); err != nil {
		return DetectionResult{}, err
	}

	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	result.ScamType = strings.TrimSpace(result.ScamType)
	result.Reasoning = strings.TrimSpace(result.Reasoning)

	d.logger.Debug("detection verdict",
		"is_scam", result.IsScam,
		"confidence", result.Confidence,
		"scam_type", result.ScamType,
	)
	return result, nil
}
