package chat

import (
	"sync"

	"github.com/atu-portal/assistant/internal/i18n"
)

// SessionState tracks the readiness latches and the busy slot of one chat
// session.
//
// The readiness flags only ever go from false to true; a reload goes
// through Reset. The busy flag is a single-slot mutual exclusion: a second
// message while one is in flight is rejected, never queued.
type SessionState struct {
	mu sync.Mutex

	contextLoaded bool
	embedderReady bool
	engineReady   bool
	ragEnabled    bool
	busy          bool

	status string
}

// NewSessionState returns a fresh session with RAG enabled.
func NewSessionState() *SessionState {
	return &SessionState{
		ragEnabled: true,
		status:     i18n.T("status.init"),
	}
}

// TryAcquire claims the busy slot. It returns false when a message is
// already in flight.
func (s *SessionState) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

// Release frees the busy slot.
func (s *SessionState) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

// MarkContextLoaded latches corpus readiness.
func (s *SessionState) MarkContextLoaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contextLoaded = true
}

// MarkEmbedderReady latches embedder readiness.
func (s *SessionState) MarkEmbedderReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embedderReady = true
}

// MarkEngineReady latches generation engine readiness.
func (s *SessionState) MarkEngineReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engineReady = true
}

// ContextLoaded reports corpus readiness.
func (s *SessionState) ContextLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contextLoaded
}

// EmbedderReady reports embedder readiness.
func (s *SessionState) EmbedderReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.embedderReady
}

// EngineReady reports generation engine readiness.
func (s *SessionState) EngineReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engineReady
}

// RAGEnabled reports whether retrieval runs for questions.
func (s *SessionState) RAGEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ragEnabled
}

// SetRAGEnabled toggles retrieval and returns the localized status line
// describing the new mode.
func (s *SessionState) SetRAGEnabled(enabled bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ragEnabled = enabled
	if enabled {
		return i18n.T("status.rag_on")
	}
	return i18n.T("status.rag_off")
}

// Status returns the current status line.
func (s *SessionState) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetStatus updates the status line.
func (s *SessionState) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Reset drops all readiness latches and returns the session to its initial
// state. RAG stays in its current mode.
func (s *SessionState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contextLoaded = false
	s.embedderReady = false
	s.engineReady = false
	s.busy = false
	s.status = i18n.T("status.init")
}
