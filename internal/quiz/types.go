package quiz

import (
	"fmt"
	"strings"
	"time"
)

// Sentinel answer texts used in graded snapshots.
const (
	NoAnswer      = "No answer"
	UnknownAnswer = "Unknown"
)

// Difficulty is the self-declared difficulty of a quiz.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Kind classifies a quiz as calculation-based or conceptual.
type Kind string

const (
	KindNumerical Kind = "Numerical"
	KindTheory    Kind = "Theory"
)

// ParseDifficulty accepts a case-insensitive difficulty name. An empty
// string yields the zero Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	}
	return "", &ValidationError{Field: "difficulty", Message: fmt.Sprintf("unknown difficulty %q (want Easy, Medium or Hard)", s)}
}

// ParseKind accepts a case-insensitive quiz type name. An empty string
// yields the zero Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "numerical":
		return KindNumerical, nil
	case "theory":
		return KindTheory, nil
	}
	return "", &ValidationError{Field: "type", Message: fmt.Sprintf("unknown quiz type %q (want Numerical or Theory)", s)}
}

// Subject is the top-level grouping of quizzes.
type Subject struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AnswerOption is one selectable answer of a question.
type AnswerOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is a multiple-choice question.
type Question struct {
	Question      string         `json:"question"`
	AnswerOptions []AnswerOption `json:"answerOptions"`
}

// CorrectIndex returns the index of the first option marked correct, or -1.
func (q Question) CorrectIndex() int {
	for i, o := range q.AnswerOptions {
		if o.IsCorrect {
			return i
		}
	}
	return -1
}

// CorrectCount returns how many options are marked correct.
func (q Question) CorrectCount() int {
	n := 0
	for _, o := range q.AnswerOptions {
		if o.IsCorrect {
			n++
		}
	}
	return n
}

// CorrectAnswer returns the text of the correct option, or UnknownAnswer
// when no option is marked correct.
func (q Question) CorrectAnswer() string {
	if i := q.CorrectIndex(); i >= 0 {
		return q.AnswerOptions[i].Text
	}
	return UnknownAnswer
}

// Quiz is an ordered set of questions belonging to a subject.
type Quiz struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	SubjectID  string     `json:"subjectId"`
	CreatedAt  time.Time  `json:"createdAt"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Kind       Kind       `json:"type,omitempty"`
	Questions  []Question `json:"questions"`
}

// AnsweredQuestion is a denormalized snapshot of one graded question.
type AnsweredQuestion struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"userAnswer"`
	UserIsCorrect bool   `json:"userIsCorrect"`
	CorrectAnswer string `json:"correctAnswer"`
}

// Result is one graded attempt at a quiz. Results are never modified after
// they are saved.
type Result struct {
	ID                string             `json:"id"`
	QuizID            string             `json:"quizId"`
	SubjectID         string             `json:"subjectId"`
	Score             float64            `json:"score"`
	TotalQuestions    int                `json:"totalQuestions"`
	CorrectAnswers    int                `json:"correctAnswers"`
	AnsweredQuestions []AnsweredQuestion `json:"answeredQuestions"`
	StartTime         time.Time          `json:"startTime"`
	CompletedAt       time.Time          `json:"completedAt"`
}

// Duration is the time spent on the attempt, or zero when either bound is
// unknown.
func (r Result) Duration() time.Duration {
	if r.StartTime.IsZero() || r.CompletedAt.IsZero() || r.CompletedAt.Before(r.StartTime) {
		return 0
	}
	return r.CompletedAt.Sub(r.StartTime)
}
