// Package coach implements the goal-refinement orchestration: sanitize the
// user's text, wrap it in a role-tagged envelope, run one model turn over the
// session's history, validate the structured output, and gate on confidence.
package coach

import (
	"context"
	"time"

	"goal-coach/internal/common/metrics"
	"goal-coach/internal/common/telemetry"
	"goal-coach/internal/models"
)

const (
	// DefaultConfidenceThreshold rejects goals the model judged not to be
	// genuine. The comparison is strict-less-than: exactly 0.5 passes.
	DefaultConfidenceThreshold = 0.5

	// DefaultInvokeTimeout bounds one model turn server-side; expiry is
	// reported the same way as stream exhaustion.
	DefaultInvokeTimeout = 60 * time.Second
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Config struct {
	ConfidenceThreshold float64
	InvokeTimeout       time.Duration
}

func (c *Config) applyDefaults() {
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if c.InvokeTimeout <= 0 {
		c.InvokeTimeout = DefaultInvokeTimeout
	}
}

// Coach is the long-lived, explicitly constructed orchestrator. It owns the
// session map and a single model client; request handlers receive it by
// reference rather than reaching for package state.
type Coach struct {
	config    Config
	model     ModelClient
	sessions  *SessionStore
	telemetry *telemetry.Recorder
	logger    Logger
	now       func() time.Time
}

func New(config Config, model ModelClient, recorder *telemetry.Recorder, log Logger) *Coach {
	config.applyDefaults()
	return &Coach{
		config:    config,
		model:     model,
		sessions:  NewSessionStore(),
		telemetry: recorder,
		logger: log.With(map[string]interface{}{
			"component": "coach",
		}),
		now: time.Now,
	}
}

// Sessions exposes the store, mainly for introspection in tests.
func (c *Coach) Sessions() *SessionStore {
	return c.sessions
}

// Generate runs one refinement attempt end to end and returns an explicit
// result variant; callers match on Outcome exhaustively. An empty sessionID
// starts a new thread (initial framing); a non-empty one continues a thread
// (feedback framing), degrading gracefully when the id is unknown. Exactly
// one telemetry record is emitted per call, on success and failure alike.
func (c *Coach) Generate(ctx context.Context, userInput, sessionID string) Result {
	sanitized := Sanitize(userInput)
	feedback := sessionID != ""
	if sessionID == "" {
		sessionID = c.sessions.Start()
	}

	history, known := c.sessions.History(sessionID)
	if feedback && !known {
		// Dangling id: still send feedback framing, just with no prior
		// context; the instruction tells the model to treat orphaned
		// feedback as context for a fresh goal.
		c.logger.Warn("unknown session id, continuing without history", map[string]interface{}{
			"sessionId": sessionID,
		})
	}

	envelope := BuildEnvelope(sanitized, feedback)
	instruction := Instruction(c.now())

	ctx, cancel := context.WithTimeout(ctx, c.config.InvokeTimeout)
	defer cancel()

	inv := c.invoke(ctx, instruction, history, envelope)
	metrics.RefinementDuration.Observe(inv.elapsed.Seconds())

	if inv.finalText == "" {
		c.record(inv, nil, false)
		return c.finish(OutcomeNoResponse, nil, sessionID)
	}

	goal, err := ParseGoal(inv.finalText)
	if err != nil {
		c.logger.Error("model output rejected", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		c.record(inv, nil, false)
		return c.finish(OutcomeSchemaViolation, nil, sessionID)
	}

	c.record(inv, &goal.ConfidenceScore, true)
	c.sessions.Append(sessionID,
		Turn{Role: "user", Text: envelope},
		Turn{Role: "assistant", Text: inv.finalText},
	)

	if goal.ConfidenceScore < c.config.ConfidenceThreshold {
		return c.finish(OutcomeLowConfidence, goal, sessionID)
	}
	return c.finish(OutcomeAccepted, goal, sessionID)
}

func (c *Coach) invoke(ctx context.Context, instruction string, history []Turn, envelope string) invocation {
	start := time.Now()
	stream, err := c.model.Stream(ctx, instruction, history, envelope)
	if err != nil {
		c.logger.Error("model stream open failed", map[string]interface{}{
			"error": err.Error(),
		})
		return invocation{elapsed: time.Since(start)}
	}
	return consume(stream, start)
}

func (c *Coach) record(inv invocation, confidence *float64, success bool) {
	c.telemetry.Record(inv.elapsed, inv.promptTokens, inv.completionTokens, confidence, success)
}

func (c *Coach) finish(outcome Outcome, goal *models.RefinedGoal, sessionID string) Result {
	metrics.RefinementsTotal.WithLabelValues(outcome.String()).Inc()
	c.logger.Info("refinement finished", map[string]interface{}{
		"sessionId": sessionID,
		"outcome":   outcome.String(),
	})
	return Result{Outcome: outcome, Goal: goal, SessionID: sessionID}
}
