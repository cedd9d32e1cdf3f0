package coach

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Turn is one message in a refinement conversation.
type Turn struct {
	Role string // "user" or "assistant"
	Text string
}

// Session accumulates the ordered turns of one refinement thread. Turns are
// append-only; a session is only ever continued by one caller at a time.
type Session struct {
	ID        string
	Turns     []Turn
	CreatedAt time.Time
}

// SessionStore holds refinement conversations in process memory. Sessions are
// short-lived threads, not durable records; they do not survive a restart.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Start creates a fresh session and returns its opaque id.
func (s *SessionStore) Start() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &Session{ID: id, CreatedAt: time.Now().UTC()}
	s.mu.Unlock()
	return id
}

// History returns a copy of the session's turns. The second return is false
// when the id is unknown (dangling or expired); callers degrade to treating
// the next turn as fresh context rather than erroring.
func (s *SessionStore) History(id string) ([]Turn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	turns := make([]Turn, len(sess.Turns))
	copy(turns, sess.Turns)
	return turns, true
}

// Append adds turns to the session, adopting unknown ids so an orphaned
// feedback thread starts accumulating context from this turn on.
func (s *SessionStore) Append(id string, turns ...Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{ID: id, CreatedAt: time.Now().UTC()}
		s.sessions[id] = sess
	}
	sess.Turns = append(sess.Turns, turns...)
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
