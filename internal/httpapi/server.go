// Package httpapi serves the QuizVault operations as a JSON API.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/abhisek/quizvault/internal/metrics"
	"github.com/abhisek/quizvault/internal/vault"
)

// maxBodyBytes bounds uploaded quiz and answer-sheet files.
const maxBodyBytes = 4 << 20

// API holds the handler dependencies.
type API struct {
	svc     *vault.Service
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New builds the router. m may be nil, in which case /metrics is absent.
func New(svc *vault.Service, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &API{svc: svc, metrics: m, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.requestLogger)
	r.Use(middleware.Recoverer)
	if m != nil {
		r.Use(m.Middleware)
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", a.dashboard)

		r.Route("/subjects", func(r chi.Router) {
			r.Get("/", a.listSubjects)
			r.Post("/", a.createSubject)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", a.getSubject)
				r.Get("/quizzes", a.listQuizzes)
				r.Post("/quizzes", a.importQuiz)
				r.Post("/quizzes/generate", a.generateQuiz)
				r.Get("/results", a.listSubjectResults)
				r.Get("/stats", a.subjectStats)
				r.Post("/analysis", a.analyzeSubject)
			})
		})

		r.Route("/quizzes/{id}", func(r chi.Router) {
			r.Get("/", a.getQuiz)
			r.Get("/results", a.listQuizResults)
			r.Post("/attempts", a.submitAttempt)
			r.Post("/answer-sheets", a.uploadAnswerSheet)
		})

		r.Route("/results/{id}", func(r chi.Router) {
			r.Get("/", a.getResult)
			r.Post("/analysis", a.analyzeResult)
		})
	})
	return r
}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
