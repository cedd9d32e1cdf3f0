package coach

import (
	"errors"
	"io"
	"strings"
	"time"
)

// invocation is the accumulated outcome of consuming one event stream.
// finalText is empty when the stream ended without a terminal textual event;
// that is a first-class failure, not an exception.
type invocation struct {
	finalText        string
	promptTokens     int
	completionTokens int
	elapsed          time.Duration
}

// consume folds over the event stream: usage counters accumulate across every
// metadata-bearing event, and consumption stops as soon as a terminal event
// with non-empty text is seen. Elapsed time is wall-clock from the given
// start to terminal detection or stream exhaustion.
func consume(stream Stream, start time.Time) invocation {
	inv := invocation{}
	defer stream.Close()

	for {
		ev, err := stream.Recv()
		if err != nil {
			// io.EOF is normal exhaustion; any other error ends the
			// attempt the same way, with no final text.
			if !errors.Is(err, io.EOF) {
				inv.elapsed = time.Since(start)
				return inv
			}
			break
		}
		if ev.HasUsage {
			inv.promptTokens += ev.PromptTokens
			inv.completionTokens += ev.CompletionTokens
		}
		if ev.Final {
			if text := strings.TrimSpace(ev.Text); text != "" {
				inv.finalText = text
				break
			}
		}
	}

	inv.elapsed = time.Since(start)
	return inv
}
