package tools

import (
	"sync"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/checklist"
)

// Session owns the process-wide checklist engine. The engine is not safe for
// concurrent use and the MCP transport may run handlers on several
// goroutines, so every access is serialized here.
type Session struct {
	mu     sync.Mutex
	engine *checklist.Engine
}

// NewSession wraps e.
func NewSession(e *checklist.Engine) *Session {
	return &Session{engine: e}
}

// Do runs fn with exclusive access to the engine. Subscribers fire inside fn
// and must not call back into the Session.
func (s *Session) Do(fn func(e *checklist.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine)
}

// View runs fn with exclusive access to the engine, for reads and for the
// commands that cannot fail (Show, Dismiss, Reset).
func (s *Session) View(fn func(e *checklist.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.engine)
}

// Result returns a snapshot of the current result.
func (s *Session) Result() checklist.Result {
	var r checklist.Result
	s.View(func(e *checklist.Engine) { r = e.Result() })
	return r
}

// Subscribe registers fn for engine events.
func (s *Session) Subscribe(fn func(checklist.Event)) (unsubscribe func()) {
	s.mu.Lock()
	unsub := s.engine.Subscribe(fn)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		unsub()
	}
}
