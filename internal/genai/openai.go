// Package genai adapts an OpenAI-compatible chat completion endpoint to the
// coach's streaming model client interface.
package genai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"goal-coach/internal/coach"
	"goal-coach/internal/common/config"
)

type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Client streams chat completions from any OpenAI-compatible provider.
type Client struct {
	client *openai.Client
	model  string
	logger Logger
}

func NewClient(cfg config.GenAIConfig, log Logger) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: config.GetDuration(cfg.Timeout)}

	return &Client{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: log.With(map[string]interface{}{
			"component": "genai",
			"model":     cfg.Model,
		}),
	}
}

// Stream opens one streaming chat turn. The instruction becomes the system
// message, prior turns are replayed verbatim, and message is the new user
// turn. Usage reporting is requested so token counts arrive as stream chunks.
func (c *Client) Stream(ctx context.Context, instruction string, history []coach.Turn, message string) (coach.Stream, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: instruction,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
		StreamOptions: &openai.StreamOptions{
			IncludeUsage: true,
		},
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		c.logger.Error("failed to open completion stream", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("open completion stream: %w", err)
	}

	c.logger.Debug("completion stream opened", map[string]interface{}{
		"historyTurns": len(history),
	})
	return &chatStream{inner: stream}, nil
}

// chatStream accumulates content deltas and emits the assembled text as a
// single terminal event when the provider closes the stream. Usage chunks
// pass through as they arrive.
type chatStream struct {
	inner *openai.ChatCompletionStream
	buf   strings.Builder
	done  bool
}

func (s *chatStream) Recv() (coach.Event, error) {
	if s.done {
		return coach.Event{}, io.EOF
	}

	chunk, err := s.inner.Recv()
	if errors.Is(err, io.EOF) {
		s.done = true
		text := s.buf.String()
		if strings.TrimSpace(text) == "" {
			return coach.Event{}, io.EOF
		}
		return coach.Event{Final: true, Text: text}, nil
	}
	if err != nil {
		return coach.Event{}, err
	}

	if len(chunk.Choices) > 0 {
		s.buf.WriteString(chunk.Choices[0].Delta.Content)
	}
	if chunk.Usage != nil {
		return coach.Event{
			HasUsage:         true,
			PromptTokens:     chunk.Usage.PromptTokens,
			CompletionTokens: chunk.Usage.CompletionTokens,
		}, nil
	}

	return coach.Event{}, nil
}

func (s *chatStream) Close() error {
	return s.inner.Close()
}
