package honeypot

import (
	"encoding/json"
	"strings"
)

// Wire senders.
const (
	SenderScammer = "scammer"
	SenderUser    = "user"
)

// FlexString accepts a JSON string or number, so callers may send timestamps
// either way.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// Message is one turn of an inbound conversation, oldest first in histories.
type Message struct {
	Sender    string     `json:"sender"`
	Text      string     `json:"text"`
	Timestamp FlexString `json:"timestamp,omitempty"`
}

// Metadata is advisory context passed into prompts.
type Metadata struct {
	Channel  string `json:"channel,omitempty"`
	Language string `json:"language,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

func (m Metadata) withDefaults() Metadata {
	if strings.TrimSpace(m.Language) == "" {
		m.Language = "English"
	}
	if strings.TrimSpace(m.Locale) == "" {
		m.Locale = "IN"
	}
	return m
}

// DetectionResult is the classification verdict for one request.
type DetectionResult struct {
	IsScam          bool     `json:"is_scam"`
	Confidence      float64  `json:"confidence"`
	ScamType        string   `json:"scam_type,omitempty"`
	Reasoning       string   `json:"reasoning,omitempty"`
	IndicatorsFound []string `json:"indicators_found,omitempty"`
}

// ExtractedIntelligence holds fraud indicators pulled from a transcript.
// All five lists are always non-nil.
type ExtractedIntelligence struct {
	BankAccounts   []string `json:"bankAccounts"`
	UPIIDs         []string `json:"upiIds"`
	PhoneNumbers   []string `json:"phoneNumbers"`
	PhishingLinks  []string `json:"phishingLinks"`
	EmailAddresses []string `json:"emailAddresses"`
}

func (e *ExtractedIntelligence) normalize() {
	if e.BankAccounts == nil {
		e.BankAccounts = []string{}
	}
	if e.UPIIDs == nil {
		e.UPIIDs = []string{}
	}
	if e.PhoneNumbers == nil {
		e.PhoneNumbers = []string{}
	}
	if e.PhishingLinks == nil {
		e.PhishingLinks = []string{}
	}
	if e.EmailAddresses == nil {
		e.EmailAddresses = []string{}
	}
}

// EngagementMetrics is derived from session turn count at response-build time.
type EngagementMetrics struct {
	EngagementDurationSeconds int `json:"engagementDurationSeconds"`
	TotalMessagesExchanged    int `json:"totalMessagesExchanged"`
}

// DetectionRequest is the inbound body of POST /api/scam-detection.
type DetectionRequest struct {
	Message             Message   `json:"message"`
	ConversationHistory []Message `json:"conversationHistory"`
	Metadata            Metadata  `json:"metadata"`
}

// DetectionResponse is the outbound body. Except for auth and validation
// failures, requests always resolve to status "success" with a reply.
type DetectionResponse struct {
	Status                string                 `json:"status"`
	ScamDetected          bool                   `json:"scamDetected"`
	AgentResponse         string                 `json:"agentResponse,omitempty"`
	EngagementMetrics     *EngagementMetrics     `json:"engagementMetrics,omitempty"`
	ExtractedIntelligence *ExtractedIntelligence `json:"extractedIntelligence,omitempty"`
	AgentNotes            string                 `json:"agentNotes,omitempty"`
}

// historyText renders a conversation oldest-first as "sender: text" lines.
func historyText(history []Message, fallback string) string {
	if len(history) == 0 {
		return fallback
	}
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, msg.Sender+": "+msg.Text)
	}
	return strings.Join(lines, "\n")
}

// transcriptText renders the full conversation including the latest scammer
// message and the agent's reply to it.
func transcriptText(history []Message, latest Message, agentReply string) string {
	lines := make([]string, 0, len(history)+2)
	for _, msg := range history {
		lines = append(lines, msg.Sender+": "+msg.Text)
	}
	lines = append(lines, latest.Sender+": "+latest.Text)
	if agentReply != "" {
		lines = append(lines, SenderUser+": "+agentReply)
	}
	return strings.Join(lines, "\n")
}
