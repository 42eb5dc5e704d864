package honeypot

import (
	"context"
	"fmt"

	"github.com/scamshield-ai/scamshield/internal/llm"
	"github.com/scamshield-ai/scamshield/pkg/logging"
)

const (
	// Low temperature: precision over creativity.
	extractTemperature float32 = 0.2
	extractMaxTokens   int32   = 1024
)

// Extractor pulls structured fraud indicators out of a full transcript.
type Extractor struct {
	gateway completionGateway
	logger  *logging.Logger
}

func NewExtractor(gateway completionGateway, logger *logging.Logger) *Extractor {
	if gateway == nil {
		panic("honeypot: extractor gateway cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Extractor{gateway: gateway, logger: logger}
}

// Extract parses the model's indicator lists from the transcript. All five
// list fields are non-nil on success, defaulting to empty.
func (x *Extractor) Extract(ctx context.Context, transcript string) (ExtractedIntelligence, error) {
	prompt := fmt.Sprintf(extractionPromptTemplate, transcript)

	raw, err := x.gateway.Complete(ctx, prompt, extractTemperature, extractMaxTokens)
	if err != nil {
		return ExtractedIntelligence{}, err
	}

	var intel ExtractedIntelligence
	if err := llm.ParseObject(raw, &intel); err != nil {
		return ExtractedIntelligence{}, err
	}
	intel.normalize()

	x.logger.Debug("intelligence extracted",
		"bank_accounts", len(intel.BankAccounts),
		"upi_ids", len(intel.UPIIDs),
		"phone_numbers", len(intel.PhoneNumbers),
		"phishing_links", len(intel.PhishingLinks),
		"email_addresses", len(intel.EmailAddresses),
	)
	return intel, nil
}
