package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/abhisek/quizvault/internal/analysis"
	"github.com/abhisek/quizvault/internal/llm"
	"github.com/abhisek/quizvault/internal/quiz"
	"github.com/abhisek/quizvault/internal/quizgen"
	"github.com/abhisek/quizvault/internal/store"
	"github.com/abhisek/quizvault/internal/vault"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) (int, errorBody) {
	body := errorBody{Error: err.Error(), Kind: "internal"}

	var (
		verr    *quiz.ValidationError
		missing *llm.MissingCredentialError
		apiErr  *llm.APIError
		invalid *llm.InvalidResponseError
		unavail *llm.UnavailableError
		storErr *store.StorageError
		genErr  *quizgen.GenerationError
	)
	switch {
	case errors.As(err, &genErr) && errors.As(err, &verr) && verr.Field != "topic" && verr.Field != "count":
		// Questions came back but did not hold up.
		body.Kind = "invalid_response"
		return http.StatusBadGateway, body
	case errors.As(err, &verr):
		body.Kind, body.Field = "validation", verr.Field
		return http.StatusBadRequest, body
	case errors.Is(err, store.ErrMissingReference):
		body.Kind = "validation"
		return http.StatusBadRequest, body
	case vault.IsNotFound(err):
		body.Kind = "not_found"
		return http.StatusNotFound, body
	case errors.Is(err, analysis.ErrNoResults):
		body.Kind = "no_results"
		return http.StatusUnprocessableEntity, body
	case errors.As(err, &missing):
		body.Kind = "missing_credential"
		return http.StatusPreconditionFailed, body
	case errors.As(err, &apiErr):
		body.Kind = "api"
		return http.StatusBadGateway, body
	case errors.As(err, &invalid):
		body.Kind = "invalid_response"
		return http.StatusBadGateway, body
	case errors.As(err, &unavail):
		body.Kind = "unavailable"
		return http.StatusBadGateway, body
	case errors.As(err, &storErr):
		body.Kind = "storage"
		return http.StatusInternalServerError, body
	}
	return http.StatusInternalServerError, body
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusFor(err)
	if status >= 500 {
		a.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		a.logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	JSON(w, status, body)
}

func (a *API) notFound(w http.ResponseWriter, what, id string) {
	JSON(w, http.StatusNotFound, errorBody{Error: what + " " + id + " not found", Kind: "not_found"})
}
