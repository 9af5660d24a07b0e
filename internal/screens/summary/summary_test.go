package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizvault/internal/analysis"
	"github.com/abhisek/quizvault/internal/quiz"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func testResult() *quiz.Result {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &quiz.Result{
		ID:             "res-1",
		Score:          50,
		TotalQuestions: 2,
		CorrectAnswers: 1,
		AnsweredQuestions: []quiz.AnsweredQuestion{
			{Question: "Alum is a?", UserAnswer: "Coagulant", UserIsCorrect: true, CorrectAnswer: "Coagulant"},
			{Question: "Flocs settle in?", UserAnswer: quiz.NoAnswer, CorrectAnswer: "Sedimentation tanks"},
		},
		StartTime:   start,
		CompletedAt: start.Add(95 * time.Second),
	}
}

func TestViewShowsScoreAndAnswers(t *testing.T) {
	s := New(context.Background(), "Coagulation", testResult(), nil)
	view := s.View(80, 30)

	for _, want := range []string{"50.0%", "poor", "1 of 2 correct", "Time: 1:35", "Correct answer: Sedimentation tanks"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if len(s.KeyHints()) != 1 {
		t.Error("analyze hint shown without an analyzer")
	}
}

func TestAnalyze(t *testing.T) {
	calls := 0
	analyze := func(_ context.Context, id string) (*analysis.Report, error) {
		calls++
		if id != "res-1" {
			t.Errorf("analyzed %q", id)
		}
		return &analysis.Report{
			Strengths:    []analysis.Point{{Topic: "Coagulants", Description: "Knew alum."}},
			Improvements: []analysis.Point{},
		}, nil
	}
	s := New(context.Background(), "Coagulation", testResult(), analyze)

	_, cmd := s.Update(keyPress('a'))
	if cmd == nil || !s.analyzing {
		t.Fatal("expected analysis to start")
	}
	if _, again := s.Update(keyPress('a')); again != nil {
		t.Error("analysis started twice")
	}
	s.Update(cmd())

	view := s.View(80, 30)
	if !strings.Contains(view, "Coagulants") || !strings.Contains(view, "none noted") {
		t.Errorf("report not rendered:\n%s", view)
	}
	if calls != 1 {
		t.Errorf("calls = %d", calls)
	}
}

func TestAnalyzeError(t *testing.T) {
	s := New(context.Background(), "Coagulation", testResult(), func(context.Context, string) (*analysis.Report, error) {
		return nil, errors.New("gemini API error: 503 - overloaded")
	})
	_, cmd := s.Update(keyPress('a'))
	s.Update(cmd())
	if !strings.Contains(s.View(80, 30), "overloaded") {
		t.Error("error not shown")
	}
	if s.analyzing {
		t.Error("still analyzing after failure")
	}
}
