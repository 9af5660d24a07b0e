// Package scoring grades quiz attempts. It is pure computation with no I/O.
package scoring

import (
	"fmt"
	"sort"

	"github.com/abhisek/quizvault/internal/quiz"
)

// Percent returns 100*correct/total. A total of zero yields 0.
func Percent(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(correct) / float64(total)
}

// Grade builds a result from a sparse mapping of question index to selected
// option index. Questions without an entry are recorded as unanswered. The
// returned result has no id, subject timestamps or start time; callers set
// those before saving.
func Grade(q *quiz.Quiz, selections map[int]int) (*quiz.Result, error) {
	if err := checkSelections(q, selections); err != nil {
		return nil, err
	}

	answered := make([]quiz.AnsweredQuestion, len(q.Questions))
	correct := 0
	for i, question := range q.Questions {
		aq := quiz.AnsweredQuestion{
			Question:      question.Question,
			UserAnswer:    quiz.NoAnswer,
			CorrectAnswer: question.CorrectAnswer(),
		}
		if opt, ok := selections[i]; ok {
			chosen := question.AnswerOptions[opt]
			aq.UserAnswer = chosen.Text
			aq.UserIsCorrect = chosen.IsCorrect
		}
		if aq.UserIsCorrect {
			correct++
		}
		answered[i] = aq
	}

	return &quiz.Result{
		QuizID:            q.ID,
		SubjectID:         q.SubjectID,
		Score:             Percent(correct, len(q.Questions)),
		TotalQuestions:    len(q.Questions),
		CorrectAnswers:    correct,
		AnsweredQuestions: answered,
	}, nil
}

// FromAnswerSheet re-derives the score of a pre-graded answer sheet. The
// sheet must contain exactly one entry per quiz question.
func FromAnswerSheet(q *quiz.Quiz, answered []quiz.AnsweredQuestion) (*quiz.Result, error) {
	if len(answered) != len(q.Questions) {
		return nil, quiz.CountMismatch("answeredQuestions", len(q.Questions), len(answered))
	}

	correct := 0
	for _, aq := range answered {
		if aq.UserIsCorrect {
			correct++
		}
	}

	snapshot := make([]quiz.AnsweredQuestion, len(answered))
	copy(snapshot, answered)

	return &quiz.Result{
		QuizID:            q.ID,
		SubjectID:         q.SubjectID,
		Score:             Percent(correct, len(q.Questions)),
		TotalQuestions:    len(q.Questions),
		CorrectAnswers:    correct,
		AnsweredQuestions: snapshot,
	}, nil
}

func checkSelections(q *quiz.Quiz, selections map[int]int) error {
	indices := make([]int, 0, len(selections))
	for i := range selections {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	for _, i := range indices {
		if i < 0 || i >= len(q.Questions) {
			return &quiz.ValidationError{
				Field:   "selections",
				Message: fmt.Sprintf("question %d does not exist (quiz has %d)", i+1, len(q.Questions)),
			}
		}
		opt := selections[i]
		if opt < 0 || opt >= len(q.Questions[i].AnswerOptions) {
			return &quiz.ValidationError{
				Field:   "selections",
				Message: fmt.Sprintf("question %d has no option %d", i+1, opt+1),
			}
		}
	}
	return nil
}
