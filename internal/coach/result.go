package coach

import "goal-coach/internal/models"

// Outcome classifies one refinement attempt. NoResponse and SchemaViolation
// are upstream faults (the model pipeline produced no usable output);
// LowConfidence is a successful pipeline execution with a negative judgment
// on the input itself.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeNoResponse
	OutcomeSchemaViolation
	OutcomeLowConfidence
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeNoResponse:
		return "no_response"
	case OutcomeSchemaViolation:
		return "schema_violation"
	case OutcomeLowConfidence:
		return "low_confidence"
	}
	return "unknown"
}

// Result is the explicit variant returned from Generate. Goal is non-nil only
// for OutcomeAccepted and OutcomeLowConfidence (the gate rejected a
// structurally valid goal). SessionID is always set so the caller can
// continue the thread.
type Result struct {
	Outcome   Outcome
	Goal      *models.RefinedGoal
	SessionID string
}
