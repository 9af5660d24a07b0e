package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveLLMRequest(t *testing.T) {
	m := New()
	m.ObserveLLMRequest("quiz-gen", true, 2*time.Second)
	m.ObserveLLMRequest("quiz-gen", false, time.Second)
	m.ObserveLLMRequest("quiz-gen", true, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.llmRequests.WithLabelValues("quiz-gen", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmRequests.WithLabelValues("quiz-gen", "error")))
}

func TestObserveAttempt(t *testing.T) {
	m := New()
	m.ObserveAttempt("interactive", 80)
	m.ObserveAttempt("answer-sheet", 40)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.attempts.WithLabelValues("interactive")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.scores))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/quizzes/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quizzes/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCounter.WithLabelValues("GET", "/api/quizzes/{id}", "404")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveAttempt("api", 100)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `quizvault_quiz_attempts_total{source="api"} 1`))
}
