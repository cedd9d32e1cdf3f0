package coach

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeStream replays a scripted event sequence, then finishErr (io.EOF by
// default).
type fakeStream struct {
	events    []Event
	finishErr error
	pos       int
	closed    bool
}

func (f *fakeStream) Recv() (Event, error) {
	if f.pos >= len(f.events) {
		if f.finishErr != nil {
			return Event{}, f.finishErr
		}
		return Event{}, io.EOF
	}
	ev := f.events[f.pos]
	f.pos++
	return ev, nil
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

func TestConsume_AccumulatesUsageAcrossEvents(t *testing.T) {
	stream := &fakeStream{events: []Event{
		{HasUsage: true, PromptTokens: 100, CompletionTokens: 0},
		{HasUsage: true, PromptTokens: 20, CompletionTokens: 45},
		{Final: true, Text: `{"ok": true}`},
	}}

	inv := consume(stream, time.Now())

	assert.Equal(t, 120, inv.promptTokens)
	assert.Equal(t, 45, inv.completionTokens)
	assert.Equal(t, `{"ok": true}`, inv.finalText)
	assert.True(t, stream.closed)
}

func TestConsume_StopsAtTerminalEvent(t *testing.T) {
	stream := &fakeStream{events: []Event{
		{HasUsage: true, PromptTokens: 10},
		{Final: true, Text: "answer"},
		{HasUsage: true, PromptTokens: 999}, // must never be consumed
	}}

	inv := consume(stream, time.Now())

	assert.Equal(t, "answer", inv.finalText)
	assert.Equal(t, 10, inv.promptTokens)
	assert.Equal(t, 2, stream.pos)
}

func TestConsume_NoTerminalEvent(t *testing.T) {
	stream := &fakeStream{events: []Event{
		{HasUsage: true, PromptTokens: 50, CompletionTokens: 5},
	}}

	inv := consume(stream, time.Now())

	assert.Empty(t, inv.finalText)
	assert.Equal(t, 50, inv.promptTokens)
	assert.Equal(t, 5, inv.completionTokens)
}

func TestConsume_BlankTerminalTextIsNotFinal(t *testing.T) {
	stream := &fakeStream{events: []Event{
		{Final: true, Text: "   "},
		{Final: true, Text: "real answer"},
	}}

	inv := consume(stream, time.Now())

	assert.Equal(t, "real answer", inv.finalText)
}

func TestConsume_StreamError(t *testing.T) {
	stream := &fakeStream{
		events:    []Event{{HasUsage: true, PromptTokens: 30}},
		finishErr: errors.New("connection reset"),
	}

	inv := consume(stream, time.Now())

	assert.Empty(t, inv.finalText)
	assert.Equal(t, 30, inv.promptTokens)
	assert.True(t, stream.closed)
}

func TestConsume_TrimsTerminalText(t *testing.T) {
	stream := &fakeStream{events: []Event{
		{Final: true, Text: "  {\"x\":1}\n"},
	}}

	inv := consume(stream, time.Now())
	assert.Equal(t, `{"x":1}`, inv.finalText)
}
