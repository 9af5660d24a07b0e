package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/quizvault/internal/quiz"
	"github.com/abhisek/quizvault/internal/vault"
)

const defaultRecent = 5

func (a *API) listSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := a.svc.Store().ListSubjects(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, nonNil(subjects))
}

type createSubjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (a *API) createSubject(w http.ResponseWriter, r *http.Request) {
	var req createSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, r, &quiz.ValidationError{Field: "body", Message: "invalid request body"})
		return
	}
	sub, err := a.svc.Store().CreateSubject(r.Context(), req.Name, req.Description)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, sub)
}

func (a *API) getSubject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sub, err := a.svc.Store().GetSubject(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if sub == nil {
		a.notFound(w, "subject", id)
		return
	}
	JSON(w, http.StatusOK, sub)
}

func (a *API) listQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := a.svc.Store().ListQuizzesBySubject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, nonNil(quizzes))
}

// importQuiz takes the quiz file as the request body. The title,
// difficulty and type query parameters override the file's values.
func (a *API) importQuiz(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	qs := r.URL.Query()
	q, err := a.svc.ImportQuiz(r.Context(), chi.URLParam(r, "id"), data, vault.ImportOptions{
		Title:      qs.Get("title"),
		Difficulty: qs.Get("difficulty"),
		Kind:       qs.Get("type"),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, q)
}

type generateRequest struct {
	Topic      string `json:"topic"`
	Title      string `json:"title"`
	Count      int    `json:"count"`
	Difficulty string `json:"difficulty"`
	Kind       string `json:"type"`
}

func (a *API) generateQuiz(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, r, &quiz.ValidationError{Field: "body", Message: "invalid request body"})
		return
	}
	q, err := a.svc.GenerateQuiz(r.Context(), vault.GenerateRequest{
		SubjectID:  chi.URLParam(r, "id"),
		Title:      req.Title,
		Topic:      req.Topic,
		Count:      req.Count,
		Difficulty: req.Difficulty,
		Kind:       req.Kind,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, q)
}

func (a *API) listSubjectResults(w http.ResponseWriter, r *http.Request) {
	results, err := a.svc.Store().ListQuizResultsBySubject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, nonNil(results))
}

func (a *API) subjectStats(w http.ResponseWriter, r *http.Request) {
	summary, err := a.svc.Stats().SubjectStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, summary)
}

func (a *API) analyzeSubject(w http.ResponseWriter, r *http.Request) {
	report, err := a.svc.AnalyzeSubject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, report)
}

func (a *API) getQuiz(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q, err := a.svc.Store().GetQuiz(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if q == nil {
		a.notFound(w, "quiz", id)
		return
	}
	JSON(w, http.StatusOK, q)
}

func (a *API) listQuizResults(w http.ResponseWriter, r *http.Request) {
	results, err := a.svc.Store().ListQuizResultsByQuiz(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, nonNil(results))
}

type attemptRequest struct {
	// Selections maps 0-based question index to 0-based option index.
	Selections map[int]int `json:"selections"`
	StartedAt  time.Time   `json:"startedAt"`
}

func (a *API) submitAttempt(w http.ResponseWriter, r *http.Request) {
	var req attemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, r, &quiz.ValidationError{Field: "body", Message: "invalid request body"})
		return
	}
	result, err := a.svc.SubmitAttempt(r.Context(), vault.Attempt{
		QuizID:     chi.URLParam(r, "id"),
		Selections: req.Selections,
		StartedAt:  req.StartedAt,
		Source:     vault.SourceAPI,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, result)
}

func (a *API) uploadAnswerSheet(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	result, err := a.svc.UploadAnswerSheet(r.Context(), chi.URLParam(r, "id"), data)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, result)
}

func (a *API) getResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := a.svc.Store().GetQuizResult(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if result == nil {
		a.notFound(w, "result", id)
		return
	}
	JSON(w, http.StatusOK, result)
}

func (a *API) analyzeResult(w http.ResponseWriter, r *http.Request) {
	report, err := a.svc.AnalyzeResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, report)
}

func (a *API) dashboard(w http.ResponseWriter, r *http.Request) {
	recent := defaultRecent
	if s := r.URL.Query().Get("recent"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			a.fail(w, r, &quiz.ValidationError{Field: "recent", Message: fmt.Sprintf("invalid recent count %q", s)})
			return
		}
		recent = n
	}
	overview, err := a.svc.Stats().Dashboard(r.Context(), recent)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, overview)
}

func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	if len(data) > maxBodyBytes {
		return nil, &quiz.ValidationError{Field: "body", Message: "request body too large"}
	}
	if len(data) == 0 {
		return nil, &quiz.ValidationError{Field: "body", Message: "request body is empty"}
	}
	return data, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
