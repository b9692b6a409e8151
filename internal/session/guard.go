package session

import (
	"sync"

	"github.com/Skotchmaster/storefront/internal/apperr"
)

// inFlight rejects a second call of the same operation while the first runs.
type inFlight struct {
	mu      sync.Mutex
	running map[string]struct{}
}

func (g *inFlight) begin(op string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, busy := g.running[op]; busy {
		return nil, apperr.ErrInFlight
	}
	g.running[op] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.running, op)
		g.mu.Unlock()
	}, nil
}
