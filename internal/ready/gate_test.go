package ready

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
}

func doGet(g *Gate) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	g.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me/", nil))
	return rec
}

func TestPendingGateServesFallback(t *testing.T) {
	g := NewGate(okHandler(), nil)

	rec := doGet(g)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "service_warming_up", body["code"])
}

func TestPendingGateNeverTouchesWrappedHandler(t *testing.T) {
	called := false
	g := NewGate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}), nil)

	for i := 0; i < 5; i++ {
		doGet(g)
	}
	require.False(t, called)
}

func TestMarkReadyOpensGate(t *testing.T) {
	g := NewGate(okHandler(), nil)
	require.False(t, g.Ready())

	require.True(t, g.MarkReady())
	require.True(t, g.Ready())

	rec := doGet(g)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ready", rec.Body.String())
}

func TestMarkReadyIsOneShot(t *testing.T) {
	g := NewGate(okHandler(), nil)
	require.True(t, g.MarkReady())
	require.False(t, g.MarkReady())
	require.True(t, g.Ready())
}

func TestCustomFallback(t *testing.T) {
	fallback := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	g := NewGate(okHandler(), fallback)

	rec := doGet(g)
	require.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCloseIsTerminal(t *testing.T) {
	g := NewGate(okHandler(), nil)
	g.Close()

	require.True(t, g.Closed())
	require.False(t, g.MarkReady(), "MarkReady after Close must be a no-op")
	require.False(t, g.Ready())

	rec := doGet(g)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCloseAfterReadyStopsServing(t *testing.T) {
	g := NewGate(okHandler(), nil)
	require.True(t, g.MarkReady())
	require.Equal(t, http.StatusOK, doGet(g).Code)

	g.Close()
	require.Equal(t, http.StatusServiceUnavailable, doGet(g).Code)
}

func TestConcurrentMarkReady(t *testing.T) {
	g := NewGate(okHandler(), nil)

	var wg sync.WaitGroup
	transitions := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			transitions <- g.MarkReady()
		}()
	}
	wg.Wait()
	close(transitions)

	won := 0
	for ok := range transitions {
		if ok {
			won++
		}
	}
	require.Equal(t, 1, won, "exactly one caller wins the transition")
	require.True(t, g.Ready())
}
