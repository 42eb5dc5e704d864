package honeypot

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/scamshield-ai/scamshield/internal/archive"
	"github.com/scamshield-ai/scamshield/internal/llm"
	"github.com/scamshield-ai/scamshield/internal/observability/metrics"
	"github.com/scamshield-ai/scamshield/internal/session"
	"github.com/scamshield-ai/scamshield/internal/similarity"
	"github.com/scamshield-ai/scamshield/pkg/logging"
)

// Canned replies. The caller always gets a conversationally plausible reply;
// only auth and request-shape violations surface as error statuses.
const (
	replyNotScam        = "Thank you for your message."
	replyEngageFallback = "I'm not sure I understand. Can you please explain more clearly?"
	replyGlobalTimeout  = "Sorry, I didn't catch that. Could you repeat?"
	replyGenericTrouble = "I'm sorry, I'm having trouble understanding. Can you clarify?"
)

// Detection fallback when the stage itself fails: fail closed, a missed scam
// is worse than a false positive.
const fallbackScamConfidence = 0.8

const (
	secondsPerTurn  = 30
	messagesPerTurn = 2
)

// stageOutcome is the per-stage result the fallback policy matches on.
type stageOutcome int

const (
	stageOK stageOutcome = iota
	stageTimedOut
	stageFailed
)

func classifyStageErr(err error) stageOutcome {
	switch {
	case err == nil:
		return stageOK
	case errors.Is(err, llm.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return stageTimedOut
	default:
		// Gateway transport/auth failures and unparsable model output share
		// the same fallback.
		return stageFailed
	}
}

func (o stageOutcome) reason() string {
	if o == stageTimedOut {
		return "timeout"
	}
	return "error"
}

// OrchestratorConfig carries the per-stage and whole-request budgets.
type OrchestratorConfig struct {
	DetectTimeout  time.Duration
	EngageTimeout  time.Duration
	ExtractTimeout time.Duration
	RequestTimeout time.Duration

	// ExtractionTurnThreshold is the session turn count at which the
	// extraction stage starts running.
	ExtractionTurnThreshold int
}

func (c OrchestratorConfig) withDefaults() OrchestratorConfig {
	if c.DetectTimeout <= 0 {
		c.DetectTimeout = 8 * time.Second
	}
	if c.EngageTimeout <= 0 {
		c.EngageTimeout = 15 * time.Second
	}
	if c.ExtractTimeout <= 0 {
		c.ExtractTimeout = 10 * time.Second
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 25 * time.Second
	}
	if c.ExtractionTurnThreshold <= 0 {
		c.ExtractionTurnThreshold = 2
	}
	return c
}

// Orchestrator sequences detection, engagement and extraction per inbound
// request. Every path resolves to a response; Process never returns an error.
type Orchestrator struct {
	detector  *Detector
	engager   *Engager
	extractor *Extractor

	sessions    session.Store
	transcripts similarity.Store // optional
	archiver    *archive.Store   // optional

	metrics *metrics.HoneypotMetrics
	logger  *logging.Logger
	tracer  trace.Tracer

	cfg OrchestratorConfig
}

// NewOrchestrator wires the pipeline. transcripts and archiver may be nil;
// the corresponding writes are skipped.
func NewOrchestrator(
	detector *Detector,
	engager *Engager,
	extractor *Extractor,
	sessions session.Store,
	transcripts similarity.Store,
	archiver *archive.Store,
	m *metrics.HoneypotMetrics,
	logger *logging.Logger,
	cfg OrchestratorConfig,
) *Orchestrator {
	if detector == nil || engager == nil || extractor == nil {
		panic("honeypot: orchestrator stages cannot be nil")
	}
	if sessions == nil {
		panic("honeypot: orchestrator session store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Orchestrator{
		detector:    detector,
		engager:     engager,
		extractor:   extractor,
		sessions:    sessions,
		transcripts: transcripts,
		archiver:    archiver,
		metrics:     m,
		logger:      logger,
		tracer:      otel.Tracer("scamshield.internal.honeypot"),
		cfg:         cfg.withDefaults(),
	}
}

// Process runs the request through the stage machine:
// detect -> (scam) session lookup -> engage -> (threshold) extract -> respond.
func (o *Orchestrator) Process(ctx context.Context, req DetectionRequest) DetectionResponse {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.RequestTimeout)
	defer cancel()

	ctx, span := o.tracer.Start(ctx, "honeypot.process")
	defer span.End()

	meta := req.Metadata.withDefaults()

	// An absent timestamp means "now", so the session still rolls over by
	// calendar day.
	if strings.TrimSpace(string(req.Message.Timestamp)) == "" {
		req.Message.Timestamp = FlexString(time.Now().UTC().Format(time.RFC3339))
	}

	verdict, ok := o.runDetection(ctx, req)
	if !ok {
		return o.timedOutResponse()
	}

	if !verdict.IsScam {
		o.metrics.ObserveRequest("not_scam")
		return DetectionResponse{
			Status:        "success",
			ScamDetected:  false,
			AgentResponse: replyNotScam,
			AgentNotes:    verdict.Reasoning,
		}
	}

	o.metrics.ObserveScamDetected()
	span.SetAttributes(attribute.String("scam_type", verdict.ScamType))

	sessionID := session.DeriveID(req.Message.Sender, string(req.Message.Timestamp))
	sess := o.lookupSession(ctx, sessionID)
	sess.TurnCount++

	reply, ok := o.runEngagement(ctx, req, meta)
	if !ok {
		return o.timedOutResponse()
	}

	var intel *ExtractedIntelligence
	if sess.TurnCount >= o.cfg.ExtractionTurnThreshold {
		transcript := transcriptText(req.ConversationHistory, req.Message, reply)
		extracted, ok := o.runExtraction(ctx, transcript)
		if !ok {
			return o.timedOutResponse()
		}
		intel = &extracted
		sess.IntelligenceExtracted = true

		o.persistTranscript(ctx, sessionID, transcript, meta, verdict, sess)
	}

	if err := o.sessions.Save(ctx, sessionID, sess); err != nil {
		// Session state is advisory; a store failure must not fail the request.
		o.logger.Warn("session save failed", "session_id", sessionID, "error", err)
	}

	o.metrics.ObserveRequest("scam")
	return DetectionResponse{
		Status:        "success",
		ScamDetected:  true,
		AgentResponse: reply,
		EngagementMetrics: &EngagementMetrics{
			EngagementDurationSeconds: sess.TurnCount * secondsPerTurn,
			TotalMessagesExchanged:    sess.TurnCount * messagesPerTurn,
		},
		ExtractedIntelligence: intel,
		AgentNotes:            verdict.Reasoning,
	}
}

// runDetection returns the verdict and whether the whole-request budget is
// still alive. On stage timeout or failure the verdict fails closed.
func (o *Orchestrator) runDetection(ctx context.Context, req DetectionRequest) (DetectionResult, bool) {
	stageCtx, cancel := context.WithTimeout(ctx, o.cfg.DetectTimeout)
	defer cancel()
	stageCtx, span := o.tracer.Start(stageCtx, "honeypot.detect")
	defer span.End()

	started := time.Now()
	verdict, err := o.detector.Detect(stageCtx, req.Message, req.ConversationHistory)
	o.metrics.ObserveStageLatency("detect", time.Since(started).Seconds())

	if err == nil {
		return verdict, true
	}
	span.RecordError(err)
	if ctx.Err() != nil {
		return DetectionResult{}, false
	}

	outcome := classifyStageErr(err)
	o.metrics.ObserveStageFallback("detect", outcome.reason())
	o.logger.Warn("detection degraded, assuming scam",
		"reason", outcome.reason(),
		"error", err,
	)
	return DetectionResult{IsScam: true, Confidence: fallbackScamConfidence}, true
}

func (o *Orchestrator) runEngagement(ctx context.Context, req DetectionRequest, meta Metadata) (string, bool) {
	stageCtx, cancel := context.WithTimeout(ctx, o.cfg.EngageTimeout)
	defer cancel()
	stageCtx, span := o.tracer.Start(stageCtx, "honeypot.engage")
	defer span.End()

	started := time.Now()
	reply, err := o.engager.Engage(stageCtx, req.Message.Text, req.ConversationHistory, meta)
	o.metrics.ObserveStageLatency("engage", time.Since(started).Seconds())

	if err == nil {
		return reply, true
	}
	span.RecordError(err)
	if ctx.Err() != nil {
		return "", false
	}

	outcome := classifyStageErr(err)
	o.metrics.ObserveStageFallback("engage", outcome.reason())
	o.logger.Warn("engagement degraded to canned reply",
		"reason", outcome.reason(),
		"error", err,
	)
	return replyEngageFallback, true
}

func (o *Orchestrator) runExtraction(ctx context.Context, transcript string) (ExtractedIntelligence, bool) {
	stageCtx, cancel := context.WithTimeout(ctx, o.cfg.ExtractTimeout)
	defer cancel()
	stageCtx, span := o.tracer.Start(stageCtx, "honeypot.extract")
	defer span.End()

	started := time.Now()
	intel, err := o.extractor.Extract(stageCtx, transcript)
	o.metrics.ObserveStageLatency("extract", time.Since(started).Seconds())

	if err == nil {
		return intel, true
	}
	span.RecordError(err)
	if ctx.Err() != nil {
		return ExtractedIntelligence{}, false
	}

	outcome := classifyStageErr(err)
	o.metrics.ObserveStageFallback("extract", outcome.reason())
	o.logger.Warn("extraction degraded to empty intelligence",
		"reason", outcome.reason(),
		"error", err,
	)
	empty := ExtractedIntelligence{}
	empty.normalize()
	return empty, true
}

// lookupSession loads or initializes the session for id. Store failures are
// logged and a zeroed session is used so the request proceeds.
func (o *Orchestrator) lookupSession(ctx context.Context, id string) session.Session {
	sess, found, err := o.sessions.Load(ctx, id)
	if err != nil {
		o.logger.Warn("session load failed", "session_id", id, "error", err)
		return session.Session{CreatedAt: time.Now().UTC()}
	}
	if found {
		return sess
	}
	sess, err = o.sessions.Init(ctx, id)
	if err != nil {
		o.logger.Warn("session init failed", "session_id", id, "error", err)
		return session.Session{CreatedAt: time.Now().UTC()}
	}
	return sess
}

// persistTranscript writes the conversation to the similarity index and the
// archive. Both are best effort; failures never affect the response.
func (o *Orchestrator) persistTranscript(ctx context.Context, id, transcript string, meta Metadata, verdict DetectionResult, sess session.Session) {
	if o.transcripts != nil {
		err := o.transcripts.Store(ctx, id, transcript, map[string]string{
			"channel":   meta.Channel,
			"language":  meta.Language,
			"locale":    meta.Locale,
			"scam_type": verdict.ScamType,
		})
		if err != nil {
			o.logger.Warn("similarity store write failed", "session_id", id, "error", err)
		}
	}

	if o.archiver.Enabled() {
		err := o.archiver.ArchiveTranscript(ctx, archive.Record{
			SessionID:  id,
			Transcript: transcript,
			ScamType:   verdict.ScamType,
			Channel:    meta.Channel,
			Language:   meta.Language,
			Locale:     meta.Locale,
			TurnCount:  sess.TurnCount,
		})
		if err != nil {
			o.logger.Warn("transcript archive failed", "session_id", id, "error", err)
		}
	}
}

func (o *Orchestrator) timedOutResponse() DetectionResponse {
	o.metrics.ObserveRequest("timeout")
	return DetectionResponse{
		Status:        "success",
		ScamDetected:  false,
		AgentResponse: replyGlobalTimeout,
	}
}
