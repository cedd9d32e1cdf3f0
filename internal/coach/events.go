package coach

import "context"

// Event is one incremental item from a model response stream. A single
// logical turn may carry usage metadata on more than one event; at most one
// event is the terminal response with the full text content.
type Event struct {
	HasUsage         bool
	PromptTokens     int
	CompletionTokens int

	Final bool
	Text  string
}

// Stream yields events for one model turn. Recv returns io.EOF when the
// stream is exhausted; implementations must respect context cancellation on
// the context passed to ModelClient.Stream.
type Stream interface {
	Recv() (Event, error)
	Close() error
}

// ModelClient opens one event stream per conversation turn against the
// hosted language model.
type ModelClient interface {
	Stream(ctx context.Context, instruction string, history []Turn, message string) (Stream, error)
}
