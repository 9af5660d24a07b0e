package scoring

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizvault/internal/quiz"
)

func question(text string, correct int, options ...string) quiz.Question {
	q := quiz.Question{Question: text}
	for i, o := range options {
		q.AnswerOptions = append(q.AnswerOptions, quiz.AnswerOption{Text: o, IsCorrect: i == correct})
	}
	return q
}

func mathQuiz() *quiz.Quiz {
	return &quiz.Quiz{
		ID:        "quiz-1",
		SubjectID: "math",
		Questions: []quiz.Question{
			question("1 + 1?", 1, "1", "2", "3", "4"),
			question("2 * 3?", 2, "5", "8", "6", "9"),
		},
	}
}

func TestGradeHalfCorrect(t *testing.T) {
	res, err := Grade(mathQuiz(), map[int]int{0: 1, 1: 0})
	require.NoError(t, err)

	assert.Equal(t, 50.0, res.Score)
	assert.Equal(t, 1, res.CorrectAnswers)
	assert.Equal(t, 2, res.TotalQuestions)
	assert.Equal(t, "quiz-1", res.QuizID)
	assert.Equal(t, "math", res.SubjectID)
	assert.Equal(t, []quiz.AnsweredQuestion{
		{Question: "1 + 1?", UserAnswer: "2", UserIsCorrect: true, CorrectAnswer: "2"},
		{Question: "2 * 3?", UserAnswer: "5", UserIsCorrect: false, CorrectAnswer: "6"},
	}, res.AnsweredQuestions)
}

func TestGradeUnansweredAndUnknown(t *testing.T) {
	q := mathQuiz()
	q.Questions = append(q.Questions, quiz.Question{
		Question:      "no key",
		AnswerOptions: []quiz.AnswerOption{{Text: "x"}, {Text: "y"}},
	})

	res, err := Grade(q, map[int]int{2: 0})
	require.NoError(t, err)

	assert.Equal(t, quiz.NoAnswer, res.AnsweredQuestions[0].UserAnswer)
	assert.False(t, res.AnsweredQuestions[0].UserIsCorrect)
	assert.Equal(t, quiz.UnknownAnswer, res.AnsweredQuestions[2].CorrectAnswer)
	assert.Equal(t, "x", res.AnsweredQuestions[2].UserAnswer)
	assert.Equal(t, 0.0, res.Score)
}

func TestGradeBoundaries(t *testing.T) {
	res, err := Grade(mathQuiz(), map[int]int{0: 1, 1: 2})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Score)

	res, err = Grade(mathQuiz(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)
	assert.Len(t, res.AnsweredQuestions, 2)

	res, err = Grade(&quiz.Quiz{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, 0, res.TotalQuestions)
}

func TestGradeRejectsOutOfRangeSelections(t *testing.T) {
	for name, sel := range map[string]map[int]int{
		"question":        {5: 0},
		"negative":        {-1: 0},
		"option":          {0: 4},
		"negative option": {1: -1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Grade(mathQuiz(), sel)
			var verr *quiz.ValidationError
			assert.True(t, errors.As(err, &verr), "got %v", err)
		})
	}
}

func TestGradeProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		n := r.IntN(12)
		q := &quiz.Quiz{}
		for range n {
			opts := 2 + r.IntN(4)
			q.Questions = append(q.Questions, question("q", r.IntN(opts), make([]string, opts)...))
		}

		sel := map[int]int{}
		want := 0
		for i, qq := range q.Questions {
			if r.IntN(3) == 0 {
				continue
			}
			o := r.IntN(len(qq.AnswerOptions))
			sel[i] = o
			if qq.AnswerOptions[o].IsCorrect {
				want++
			}
		}

		res, err := Grade(q, sel)
		require.NoError(t, err)
		assert.Equal(t, n, res.TotalQuestions)
		assert.Equal(t, want, res.CorrectAnswers)
		assert.GreaterOrEqual(t, res.Score, 0.0)
		assert.LessOrEqual(t, res.Score, 100.0)
		assert.Len(t, res.AnsweredQuestions, n)
	}
}

func TestFromAnswerSheet(t *testing.T) {
	q := mathQuiz()
	q.Questions = append(q.Questions, question("3?", 0, "a", "b"), question("4?", 0, "a", "b"))

	sheet := []quiz.AnsweredQuestion{
		{Question: "1 + 1?", UserAnswer: "2", UserIsCorrect: true, CorrectAnswer: "2"},
		{Question: "2 * 3?", UserAnswer: "6", UserIsCorrect: true, CorrectAnswer: "6"},
		{Question: "3?", UserAnswer: "b", CorrectAnswer: "a"},
	}

	_, err := FromAnswerSheet(q, sheet)
	var verr *quiz.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "expected 4, received 3")

	sheet = append(sheet, quiz.AnsweredQuestion{Question: "4?", UserAnswer: "a", UserIsCorrect: true, CorrectAnswer: "a"})
	res, err := FromAnswerSheet(q, sheet)
	require.NoError(t, err)
	assert.Equal(t, 3, res.CorrectAnswers)
	assert.Equal(t, 75.0, res.Score)
	assert.Equal(t, 4, res.TotalQuestions)
}

func TestParseSelections(t *testing.T) {
	tests := []struct {
		in      string
		want    map[int]int
		wantErr bool
	}{
		{"", map[int]int{}, false},
		{"1=2", map[int]int{0: 1}, false},
		{"1=b, 3=A", map[int]int{0: 1, 2: 0}, false},
		{"1=2,1=3", nil, true},
		{"0=1", nil, true},
		{"1", nil, true},
		{"1=0", nil, true},
		{"x=1", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSelections(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(0, 0))
	assert.InDelta(t, 33.333, Percent(1, 3), 0.001)
	assert.Equal(t, 100.0, Percent(4, 4))
}
