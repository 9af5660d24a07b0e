package analysis

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/abhisek/quizvault/internal/quiz"
)

const systemPrompt = `You are a tutor reviewing a student's quiz answers.

Instructions:
- Identify strengths from what the student answered correctly.
- Identify areas to improve from what the student got wrong, and say what to study and why it matters.
- Group related questions under one topic name.
- Keep every description to one or two sentences.
- Use empty lists when there is nothing to report for a side.`

var funcs = template.FuncMap{
	"pct": func(f float64) string { return fmt.Sprintf("%.1f", f) },
	"inc": func(i int) int { return i + 1 },
}

var resultTemplate = template.Must(template.New("result").Funcs(funcs).Parse(`Based on the following quiz results, identify the user's strengths and areas for improvement.

QUIZ SCORE: {{pct .Score}}% ({{.CorrectAnswers}}/{{.TotalQuestions}})

CORRECT ANSWERS (for identifying strengths):
{{range .AnsweredQuestions}}{{if .UserIsCorrect}}- Question: "{{.Question}}"
{{end}}{{end}}
INCORRECT ANSWERS (for identifying areas to improve):
{{range .AnsweredQuestions}}{{if not .UserIsCorrect}}- Question: "{{.Question}}" (User answered: "{{.UserAnswer}}", Correct: "{{.CorrectAnswer}}")
{{end}}{{end}}`))

type subjectInput struct {
	Subject      *quiz.Subject
	AverageScore float64
	TotalQuizzes int
	Results      []quiz.Result
}

var subjectTemplate = template.Must(template.New("subject").Funcs(funcs).Parse(`Analyze this student's performance in the subject "{{.Subject.Name}}".
{{with .Subject.Description}}Subject description: {{.}}
{{end}}
Quizzes available: {{.TotalQuizzes}}
Average score over the attempts below: {{pct .AverageScore}}%

RECENT RESULTS (newest first):
{{range $i, $r := .Results}}Quiz {{inc $i}}: Score {{pct $r.Score}}%, {{$r.CorrectAnswers}}/{{$r.TotalQuestions}} correct
{{end}}
MISSED QUESTIONS:
{{range .Results}}{{range .AnsweredQuestions}}{{if not .UserIsCorrect}}- Question: "{{.Question}}" (User answered: "{{.UserAnswer}}", Correct: "{{.CorrectAnswer}}")
{{end}}{{end}}{{end}}`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
