// Package telemetry emits one structured record per model invocation:
// latency, token usage, estimated cost, and outcome.
package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"goal-coach/internal/common/metrics"
)

// Default per-1M-token rates in USD. A structural estimate, not a billing
// reconciliation; operators configure these to match the provider rate.
const (
	DefaultInputCostPer1M  = 0.075
	DefaultOutputCostPer1M = 0.30
)

// Record is one write-once telemetry entry. ConfidenceScore is nil when the
// attempt never produced a validated goal.
type Record struct {
	Timestamp        string   `json:"timestamp"`
	LatencyMS        float64  `json:"latency_ms"`
	PromptTokens     int      `json:"prompt_tokens"`
	CompletionTokens int      `json:"completion_tokens"`
	EstimatedCostUSD string   `json:"estimated_cost_usd"`
	ConfidenceScore  *float64 `json:"confidence_score"`
	Success          bool     `json:"success"`
}

// Sink receives emitted records. Sinks must not block the response path;
// failures are swallowed by the recorder.
type Sink interface {
	Emit(rec Record) error
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
}

// Recorder computes cost and fans each record out to its sinks immediately,
// with no batching or buffering, so operators can tail the output.
type Recorder struct {
	inputCostPer1M  float64
	outputCostPer1M float64
	sinks           []Sink
	logger          Logger
}

func NewRecorder(inputCostPer1M, outputCostPer1M float64, log Logger, sinks ...Sink) *Recorder {
	if inputCostPer1M <= 0 {
		inputCostPer1M = DefaultInputCostPer1M
	}
	if outputCostPer1M <= 0 {
		outputCostPer1M = DefaultOutputCostPer1M
	}
	return &Recorder{
		inputCostPer1M:  inputCostPer1M,
		outputCostPer1M: outputCostPer1M,
		sinks:           sinks,
		logger:          log,
	}
}

// EstimateCostUSD applies the configured per-1M-token rates.
func (r *Recorder) EstimateCostUSD(promptTokens, completionTokens int) float64 {
	return float64(promptTokens)/1e6*r.inputCostPer1M +
		float64(completionTokens)/1e6*r.outputCostPer1M
}

// Record emits exactly one entry for an invocation attempt. It never raises
// and never blocks the caller's response path: sink errors are logged at
// warn and dropped.
func (r *Recorder) Record(latency time.Duration, promptTokens, completionTokens int, confidence *float64, success bool) {
	defer func() {
		if p := recover(); p != nil && r.logger != nil {
			r.logger.Warn("telemetry emission panicked", map[string]interface{}{"panic": p})
		}
	}()

	cost := r.EstimateCostUSD(promptTokens, completionTokens)
	rec := Record{
		Timestamp:        time.Now().UTC().Format(time.RFC3339Nano),
		LatencyMS:        math.Round(latency.Seconds()*1000*100) / 100,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		EstimatedCostUSD: fmt.Sprintf("%.6f", cost),
		ConfidenceScore:  confidence,
		Success:          success,
	}

	metrics.PromptTokensTotal.Add(float64(promptTokens))
	metrics.CompletionTokensTotal.Add(float64(completionTokens))
	metrics.EstimatedCostUSD.Add(cost)

	for _, sink := range r.sinks {
		if err := sink.Emit(rec); err != nil && r.logger != nil {
			r.logger.Warn("telemetry sink emit failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// WriterSink writes one JSON line per record to an io.Writer, stdout by
// default.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	if w == nil {
		w = os.Stdout
	}
	return &WriterSink{w: w}
}

func (s *WriterSink) Emit(rec Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.w.Write(append(line, '\n'))
	return err
}
