// Package ready gates an HTTP handler behind a warm-up phase. Requests
// that arrive before the application has finished starting get a
// fallback response instead of hitting half-initialised handlers.
package ready

import (
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

const (
	statePending int32 = iota
	stateReady
	stateClosed
)

// defaultRetryAfter is advertised to clients polling a pending gate.
const defaultRetryAfter = 2

// Gate wraps a handler and serves a fallback until MarkReady is called.
//
// The state machine is one-way: Pending moves to Ready exactly once,
// and Close is terminal. MarkReady after Close is ignored, so a warm-up
// goroutine that finishes during shutdown cannot resurrect the gate.
type Gate struct {
	state    atomic.Int32
	next     http.Handler
	fallback http.Handler
}

// NewGate returns a pending gate around next. A nil fallback gets the
// default 503 warming-up response.
func NewGate(next, fallback http.Handler) *Gate {
	if fallback == nil {
		fallback = http.HandlerFunc(warmingUp)
	}
	return &Gate{next: next, fallback: fallback}
}

// ServeHTTP routes to the wrapped handler once ready, and to the
// fallback otherwise. The fallback is evaluated first on every request
// in the pending state, never the wrapped handler.
func (g *Gate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if g.state.Load() == stateReady {
		g.next.ServeHTTP(w, r)
		return
	}
	g.fallback.ServeHTTP(w, r)
}

// MarkReady flips the gate open. Only the first call moves the state;
// it reports whether this call did the transition.
func (g *Gate) MarkReady() bool {
	return g.state.CompareAndSwap(statePending, stateReady)
}

// Ready reports whether the gate is serving the wrapped handler.
func (g *Gate) Ready() bool {
	return g.state.Load() == stateReady
}

// Close shuts the gate permanently. Subsequent requests get the
// fallback and MarkReady becomes a no-op.
func (g *Gate) Close() {
	g.state.Store(stateClosed)
}

// Closed reports whether Close has been called.
func (g *Gate) Closed() bool {
	return g.state.Load() == stateClosed
}

func warmingUp(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Retry-After", strconv.Itoa(defaultRetryAfter))
	utils.RespondErrorWithCode(
		w, http.StatusServiceUnavailable, utils.ErrCodeServiceWarmingUp,
		"Service is warming up", nil,
	)
}
