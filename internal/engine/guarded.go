package engine

import "sync"

// Guarded serializes access to one Engine for callers that share it between
// goroutines, e.g. one engine per account holder in a server.
type Guarded struct {
	mu     sync.Mutex
	engine *Engine
}

// NewGuarded wraps e. The caller must not use e directly afterwards.
func NewGuarded(e *Engine) *Guarded {
	return &Guarded{engine: e}
}

// Do runs fn with exclusive access to the engine.
func (g *Guarded) Do(fn func(*Engine) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.engine)
}
